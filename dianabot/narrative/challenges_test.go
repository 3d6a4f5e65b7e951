package narrative

import "testing"

func Test_NormalizeAnswer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"La Rosa", "la rosa"},
		{"  la   rosa  ", "la rosa"},
		{"LA\tROSA", "la rosa"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeAnswer(tt.in); got != tt.want {
			t.Errorf("NormalizeAnswer(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func Test_AnswerMatches(t *testing.T) {
	accepted := []string{"la rosa", "Rosa Roja"}

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{"exact", "la rosa", true},
		{"case and spacing", "  LA  Rosa ", true},
		{"second accepted answer", "rosa roja", true},
		{"wrong", "el clavel", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnswerMatches(accepted, tt.answer); got != tt.want {
				t.Errorf("AnswerMatches(%q) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}

func Test_nextHint(t *testing.T) {
	hints := []string{"primera", "segunda"}

	tests := []struct {
		name     string
		hints    []string
		failures int
		want     string
	}{
		{"no failures yet", hints, 0, ""},
		{"first failure releases first hint", hints, 1, "primera"},
		{"second failure releases second", hints, 2, "segunda"},
		{"failures beyond hints clamp to last", hints, 5, "segunda"},
		{"no hints configured", nil, 3, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextHint(tt.hints, tt.failures); got != tt.want {
				t.Errorf("nextHint(failures=%d) = %q, want %q", tt.failures, got, tt.want)
			}
		})
	}
}

func Test_attemptsLeft(t *testing.T) {
	tests := []struct {
		allowed int
		used    int
		want    int
	}{
		{0, 5, -1}, // unlimited
		{3, 0, 3},
		{3, 2, 1},
		{3, 3, 0},
		{3, 7, 0},
	}
	for _, tt := range tests {
		if got := attemptsLeft(tt.allowed, tt.used); got != tt.want {
			t.Errorf("attemptsLeft(%d, %d) = %d, want %d", tt.allowed, tt.used, got, tt.want)
		}
	}
}
