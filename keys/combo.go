package keys

import (
	"errors"
	"fmt"
	"strings"
)

// Separator joins combo tokens.
const Separator = "+"

var ErrInvalidCombo = errors.New("invalid combo")

// modifier groups in canonical order. A group is present when any of its
// physical keys is held.
var modifiers = []struct {
	token string
	keys  []Key
}{
	{"cmd", []Key{MetaLeft, MetaRight}},
	{"ctrl", []Key{ControlLeft, ControlRight}},
	{"shift", []Key{ShiftLeft, ShiftRight}},
	{"alt", []Key{Alt, AltGr}},
}

// Format renders a held-key set as a combo identifier: modifier tokens in
// the order cmd, ctrl, shift, alt, then non-modifier tokens in key
// declaration order, joined by "+". The result depends only on set
// membership.
func Format(held Set) string {
	parts := make([]string, 0, len(held))
	for _, m := range modifiers {
		for _, k := range m.keys {
			if held.Has(k) {
				parts = append(parts, m.token)
				break
			}
		}
	}
	for k := Num0; k < maxKey; k++ {
		if held.Has(k) {
			parts = append(parts, tokens[k])
		}
	}
	return strings.Join(parts, Separator)
}

// HasTrigger reports whether held contains at least one non-modifier key.
// Identifiers of sets without one are never looked up.
func HasTrigger(held Set) bool {
	for k := range held {
		if k.Valid() && !k.IsModifier() {
			return true
		}
	}
	return false
}

// ParseCombo resolves a combo identifier into keys. Modifier tokens map to
// their left-hand key. Token order in id is not significant.
func ParseCombo(id string) ([]Key, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidCombo)
	}
	set := make(Set)
	for _, tok := range strings.Split(id, Separator) {
		k, ok := ParseToken(tok)
		if !ok {
			return nil, fmt.Errorf("%w: unknown token %q in %q", ErrInvalidCombo, tok, id)
		}
		set[k] = struct{}{}
	}
	if !HasTrigger(set) {
		return nil, fmt.Errorf("%w: %q has no trigger key", ErrInvalidCombo, id)
	}
	return set.Sorted(), nil
}

// Canonical rewrites a user-written identifier into the form Format
// produces, so "ctrl+cmd+9" and "cmd+ctrl+9" name the same combo.
func Canonical(id string) (string, error) {
	ks, err := ParseCombo(id)
	if err != nil {
		return "", err
	}
	return Format(NewSet(ks...)), nil
}

// ParseToken resolves one combo token such as "ctrl", "option" or "f5".
func ParseToken(tok string) (Key, bool) {
	tok = strings.ToLower(strings.TrimSpace(tok))
	if k, ok := modifierToken(tok); ok {
		return k, true
	}
	return tokenKey(tok)
}

func modifierToken(tok string) (Key, bool) {
	switch tok {
	case "cmd", "meta", "super", "win":
		return MetaLeft, true
	case "ctrl", "control":
		return ControlLeft, true
	case "shift":
		return ShiftLeft, true
	case "alt", "option":
		return Alt, true
	}
	return Unknown, false
}

func tokenKey(tok string) (Key, bool) {
	for k := Num0; k < maxKey; k++ {
		if tokens[k] == tok {
			return k, true
		}
	}
	switch tok {
	case "enter":
		return Return, true
	case "escape":
		return Escape, true
	}
	return Unknown, false
}
