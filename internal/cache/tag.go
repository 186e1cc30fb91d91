package cache

import (
	"sort"
	"strings"
)

// Well-known tag ids.
const (
	// List tags the collection view of a resource type.
	List = "LIST"
	// User tags the per-user view of a resource type (e.g. "my invitations").
	User = "USER"
)

// Tag labels cached query results. Queries provide tags, mutations invalidate
// them. A tag with an empty ID matches every tag of the same type.
type Tag struct {
	Type string
	ID   string
}

// ListTag returns the LIST tag for typ.
func ListTag(typ string) Tag { return Tag{Type: typ, ID: List} }

// UserTag returns the USER tag for typ.
func UserTag(typ string) Tag { return Tag{Type: typ, ID: User} }

// IDTag returns the tag for a single entity of typ.
func IDTag(typ, id string) Tag { return Tag{Type: typ, ID: id} }

// TypeTag returns a tag matching every tag of typ.
func TypeTag(typ string) Tag { return Tag{Type: typ} }

// Matches reports whether invalidating t affects a result that provided p.
func (t Tag) Matches(p Tag) bool {
	if t.Type != p.Type {
		return false
	}
	return t.ID == "" || t.ID == p.ID
}

func (t Tag) String() string {
	if t.ID == "" {
		return t.Type
	}
	return t.Type + ":" + t.ID
}

// Intersects reports whether any invalidated tag matches any provided tag.
func Intersects(invalidated, provided []Tag) bool {
	for _, inv := range invalidated {
		for _, p := range provided {
			if inv.Matches(p) {
				return true
			}
		}
	}
	return false
}

// Strings renders tags as sorted "Type:ID" strings, for logs and tests.
func Strings(tags []Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.String())
	}
	sort.Strings(out)
	return out
}

// ParseTag parses the "Type:ID" form produced by Tag.String.
func ParseTag(s string) Tag {
	typ, id, _ := strings.Cut(s, ":")
	return Tag{Type: typ, ID: id}
}
