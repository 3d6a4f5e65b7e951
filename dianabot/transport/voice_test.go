package transport

import (
	"errors"
	"strings"
	"testing"

	"github.com/dianabot/dianabot/dianabot/derrors"
)

func Test_TranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unexpected error hides detail", errors.New("pq: connection reset"), GenericErrorMessage},
		{"bare sentinel", derrors.ErrInsufficientFunds, errorVoice[derrors.ErrInsufficientFunds]},
		{"wrapped sentinel", derrors.Wrap(derrors.ErrOutOfStock, "item %q", "llave"), errorVoice[derrors.ErrOutOfStock]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TranslateError(tt.err); got != tt.want {
				t.Errorf("TranslateError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func Test_TranslateError_cooldownDetail(t *testing.T) {
	err := derrors.Wrap(derrors.ErrCooldownActive, "vuelve en 2h 15m")
	got := TranslateError(err)
	if !strings.Contains(got, errorVoice[derrors.ErrCooldownActive]) {
		t.Errorf("cooldown translation lost the base template: %q", got)
	}
	if !strings.Contains(got, "vuelve en 2h 15m") {
		t.Errorf("cooldown translation lost the remaining time: %q", got)
	}
}

func Test_TranslateError_neverLeaksRawError(t *testing.T) {
	raw := errors.New("duplicate key value violates unique constraint")
	if got := TranslateError(raw); strings.Contains(got, "duplicate key") {
		t.Errorf("raw database error leaked to the user: %q", got)
	}
}
