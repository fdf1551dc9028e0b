package domain

import (
	"fmt"
	"strings"
)

// Kind identifies one of the API's resource collections
type Kind string

const (
	KindHouses      Kind = "houses"
	KindSpells      Kind = "spells"
	KindElixirs     Kind = "elixirs"
	KindIngredients Kind = "ingredients"
	KindWizards     Kind = "wizards"
)

// Kinds lists every resource kind in display order
var Kinds = []Kind{KindHouses, KindSpells, KindElixirs, KindIngredients, KindWizards}

// Path returns the API path segment for the kind ("/Houses")
func (k Kind) Path() string {
	switch k {
	case KindHouses:
		return "/Houses"
	case KindSpells:
		return "/Spells"
	case KindElixirs:
		return "/Elixirs"
	case KindIngredients:
		return "/Ingredients"
	case KindWizards:
		return "/Wizards"
	}
	return ""
}

// Singular returns the name of one record ("house")
func (k Kind) Singular() string {
	return strings.TrimSuffix(string(k), "s")
}

// Label returns the capitalized display name ("Houses")
func (k Kind) Label() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// ParseKind accepts plural or singular names in any case
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if s == string(k) || s == k.Singular() {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
