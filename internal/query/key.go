package query

import (
	"fmt"
	"strings"

	"github.com/mmcdole/grimoire/internal/domain"
)

// Key identifies one cache entry: a whole collection when ID is empty,
// otherwise a single record.
type Key struct {
	Kind domain.Kind
	ID   string
}

// CollectionKey returns the key for a whole collection
func CollectionKey(kind domain.Kind) Key {
	return Key{Kind: kind}
}

// ItemKey returns the key for a single record
func ItemKey(kind domain.Kind, id string) Key {
	return Key{Kind: kind, ID: id}
}

// String renders "spells" for collections and "spell:<id>" for records.
// It is the form stored in persisted snapshots.
func (k Key) String() string {
	if k.ID == "" {
		return string(k.Kind)
	}
	return k.Kind.Singular() + ":" + k.ID
}

// IsCollection reports whether the key names a whole collection
func (k Key) IsCollection() bool {
	return k.ID == ""
}

// ParseKey is the inverse of Key.String
func ParseKey(s string) (Key, error) {
	kindPart, id, hasID := strings.Cut(s, ":")
	kind, err := domain.ParseKind(kindPart)
	if err != nil {
		return Key{}, err
	}
	if !hasID {
		if kindPart != string(kind) {
			return Key{}, fmt.Errorf("collection key %q must be plural", s)
		}
		return CollectionKey(kind), nil
	}
	if id == "" {
		return Key{}, fmt.Errorf("key %q has empty id", s)
	}
	return ItemKey(kind, id), nil
}
