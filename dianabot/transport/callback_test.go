package transport

import (
	"strings"
	"testing"
)

func Test_ParseCallback(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantNS    string
		wantAct   string
		wantArgs  []string
		wantError bool
	}{
		{"two fields", "shop:main", "shop", "main", nil, false},
		{"with id", "narr:decision:42", "narr", "decision", []string{"42"}, false},
		{"two args", "mission:claim:7:1717200000", "mission", "claim", []string{"7", "1717200000"}, false},
		{"empty payload", "", "", "", nil, true},
		{"no action", "shop", "", "", nil, true},
		{"empty field", "shop::buy", "", "", nil, true},
		{"oversized payload", "x:" + strings.Repeat("a", 80), "", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCallback(tt.payload)
			if (err != nil) != tt.wantError {
				t.Fatalf("ParseCallback(%q) error = %v, wantError %v", tt.payload, err, tt.wantError)
			}
			if err != nil {
				return
			}
			if got.Namespace != tt.wantNS || got.Action != tt.wantAct {
				t.Errorf("ParseCallback(%q) = %s:%s, want %s:%s", tt.payload, got.Namespace, got.Action, tt.wantNS, tt.wantAct)
			}
			if len(got.Args) != len(tt.wantArgs) {
				t.Fatalf("ParseCallback(%q) args = %v, want %v", tt.payload, got.Args, tt.wantArgs)
			}
			for i := range tt.wantArgs {
				if got.Args[i] != tt.wantArgs[i] {
					t.Errorf("ParseCallback(%q) arg %d = %q, want %q", tt.payload, i, got.Args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func Test_Callback_Int64Arg(t *testing.T) {
	cb, err := ParseCallback("shop:buy:15")
	if err != nil {
		t.Fatal(err)
	}
	id, err := cb.Int64Arg(0)
	if err != nil || id != 15 {
		t.Errorf("Int64Arg(0) = %d, %v", id, err)
	}
	if _, err := cb.Int64Arg(1); err == nil {
		t.Errorf("Int64Arg(1) should fail on missing argument")
	}

	cb, _ = ParseCallback("narr:goto:cap1_umbral")
	if _, err := cb.Int64Arg(0); err == nil {
		t.Errorf("Int64Arg on non-numeric argument should fail")
	}
}

func Test_Encode_roundTrip(t *testing.T) {
	payload := EncodeID("shop", "item", 99)
	cb, err := ParseCallback(payload)
	if err != nil {
		t.Fatal(err)
	}
	id, err := cb.Int64Arg(0)
	if err != nil || id != 99 {
		t.Errorf("round trip lost the id: %d, %v", id, err)
	}

	payload = Encode("backpack", "type", "CONSUMABLE")
	cb, err = ParseCallback(payload)
	if err != nil {
		t.Fatal(err)
	}
	if cb.StringArg(0) != "CONSUMABLE" {
		t.Errorf("round trip lost the string arg: %q", cb.StringArg(0))
	}
	if cb.StringArg(1) != "" {
		t.Errorf("StringArg past the end should be empty")
	}
}
