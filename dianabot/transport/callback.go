package transport

import (
	"strconv"
	"strings"

	"github.com/dianabot/dianabot/dianabot/derrors"
)

// Callback payload grammar: namespace-separated opaque tokens.
//
//	profile:back
//	shop:main
//	shop:cat:<category_id>
//	shop:item:<id>
//	shop:buy:<id>
//	backpack:type:<type>[:<page>]
//	backpack:item:<inv_id>
//	backpack:use:<id> | backpack:equip:<id> | backpack:unequip:<id> | backpack:fav:<id>
//	narr:start
//	narr:decision:<id>
//	narr:goto:<fragment_key>
//	onboard:start
//	onboard:answer:<decision_id>
//	user:vip_access | user:free_access | user:redeem_token | user:profile |
//	user:daily_gift | user:missions | user:rewards | user:leaderboard
//	mission:claim:<mission_id>:<window_unix>
//	offer:accept:<offer_type> | offer:decline:<offer_type>
//	prefs:toggle:<field>
//	prefs:done
//
// Every field is validated on decode; payloads are never trusted.

// Callback is a decoded payload.
type Callback struct {
	Namespace string
	Action    string
	Args      []string
}

// ParseCallback splits and validates the payload shape. Namespace and action
// semantics are checked by the handlers.
func ParseCallback(payload string) (*Callback, error) {
	if payload == "" || len(payload) > 64 {
		return nil, derrors.Wrap(derrors.ErrInvalidInput, "bad callback payload")
	}
	parts := strings.Split(payload, ":")
	if len(parts) < 2 {
		return nil, derrors.Wrap(derrors.ErrInvalidInput, "callback %q has no action", payload)
	}
	for _, p := range parts {
		if p == "" {
			return nil, derrors.Wrap(derrors.ErrInvalidInput, "callback %q has empty field", payload)
		}
	}
	return &Callback{
		Namespace: parts[0],
		Action:    parts[1],
		Args:      parts[2:],
	}, nil
}

// Int64Arg parses the positional argument as an id.
func (c *Callback) Int64Arg(i int) (int64, error) {
	if i >= len(c.Args) {
		return 0, derrors.Wrap(derrors.ErrInvalidInput, "callback %s:%s missing argument %d", c.Namespace, c.Action, i)
	}
	v, err := strconv.ParseInt(c.Args[i], 10, 64)
	if err != nil {
		return 0, derrors.Wrap(derrors.ErrInvalidInput, "callback argument %q is not an id", c.Args[i])
	}
	return v, nil
}

// StringArg returns the positional argument, empty when absent.
func (c *Callback) StringArg(i int) string {
	if i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// Encode builds a payload from parts, the inverse of ParseCallback.
func Encode(parts ...string) string {
	return strings.Join(parts, ":")
}

// EncodeID is Encode with a trailing numeric argument.
func EncodeID(namespace, action string, id int64) string {
	return Encode(namespace, action, strconv.FormatInt(id, 10))
}
