package transport

import (
	"errors"
	"fmt"

	"github.com/dianabot/dianabot/dianabot/derrors"
)

// Voice renders domain errors and recurring confirmations in Diana's register.
// The table is immutable after load; handlers only read it.

// GenericErrorMessage is the boundary fallback for unexpected errors, which
// are logged and rolled back, never shown raw.
const GenericErrorMessage = "Algo ha fallado... dame un momento y volvemos a intentarlo. 💋"

var errorVoice = map[error]string{
	derrors.ErrNotConfigured:     "Esto aún no está preparado. Avisa a quien me cuida. 🌙",
	derrors.ErrTokenInvalid:      "Ese pase no me suena... ¿seguro que es el correcto? 💋",
	derrors.ErrTokenExpired:      "Ese pase ya caducó, cariño. Pide uno nuevo. 🌙",
	derrors.ErrPermissionDenied:  "Todavía no puedes entrar ahí... pero me encanta tu curiosidad. 💋",
	derrors.ErrInsufficientFunds: "Te faltan besitos para eso. Gánate unos cuantos más. 💋",
	derrors.ErrCooldownActive:    "Paciencia... las mejores cosas se hacen esperar. 🌙",
	derrors.ErrLimitReached:      "Por hoy ya ha sido suficiente. Mañana seguimos. 🌙",
	derrors.ErrOutOfStock:        "Llegaste tarde, ya no queda ninguno. 💔",
	derrors.ErrAlreadyOwned:      "Eso ya es tuyo, no seas ansioso. 💋",
	derrors.ErrInvalidInput:      "No te he entendido bien... inténtalo otra vez. 🌙",
	derrors.ErrRateLimited:       "Despacio, cariño, no tan deprisa. 🌙",
	derrors.ErrNotFound:          "Eso que buscas no existe... o todavía no. 🌙",
}

// TranslateError maps a domain error to its themed template; unexpected
// errors get the generic line.
func TranslateError(err error) string {
	if err == nil {
		return ""
	}
	kind := derrors.Kind(err)
	if kind == nil {
		return GenericErrorMessage
	}
	msg, ok := errorVoice[kind]
	if !ok {
		return GenericErrorMessage
	}
	// cooldown_active carries the remaining time in its wrapped detail.
	if errors.Is(err, derrors.ErrCooldownActive) {
		if detail := wrappedDetail(err); detail != "" {
			return fmt.Sprintf("%s\n\n_%s_", msg, detail)
		}
	}
	return msg
}

// wrappedDetail extracts the human detail after the sentinel prefix.
func wrappedDetail(err error) string {
	s := err.Error()
	kind := derrors.Kind(err)
	if kind == nil {
		return ""
	}
	prefix := kind.Error() + ": "
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}
	return ""
}

// Confirmation templates.
const (
	VoiceTokenRedeemed  = "Bienvenido al círculo íntimo... tu acceso VIP está activo hasta el %s. 💋"
	VoiceInviteLink     = "Esta puerta se abre solo para ti, y solo durante unas horas:\n%s"
	VoiceDailyGift      = "Tu regalo de hoy: %d besitos. No te acostumbres... o sí. 💋"
	VoiceWelcomeBack    = "Te eché de menos... toma %d besitos por volver. 💋"
	VoiceLevelUp        = "Has subido a %s. Me gustas cada vez más. 🌙"
	VoiceMissionDone    = "Misión cumplida: %s. Reclama tu recompensa cuando quieras. 💋"
	VoicePurchase       = "Es tuyo: %s. Gastaste %d besitos. 💋"
	VoiceChallengeRight = "Exacto... sabía que lo descubrirías. 🌙"
	VoiceChallengeWrong = "No... esa no es. Piénsalo otra vez. 🌙"
)
