package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTagMatches(t *testing.T) {
	tests := []struct {
		name        string
		invalidated Tag
		provided    Tag
		want        bool
	}{
		{name: "same list tag", invalidated: ListTag("Invitation"), provided: ListTag("Invitation"), want: true},
		{name: "list does not match user", invalidated: ListTag("Invitation"), provided: UserTag("Invitation"), want: false},
		{name: "different type", invalidated: ListTag("Invitation"), provided: ListTag("Workspace"), want: false},
		{name: "entity id", invalidated: IDTag("Workspace", "w1"), provided: IDTag("Workspace", "w1"), want: true},
		{name: "other entity id", invalidated: IDTag("Workspace", "w1"), provided: IDTag("Workspace", "w2"), want: false},
		{name: "type tag matches list", invalidated: TypeTag("Workspace"), provided: ListTag("Workspace"), want: true},
		{name: "type tag matches id", invalidated: TypeTag("Workspace"), provided: IDTag("Workspace", "w9"), want: true},
		{name: "list does not match id", invalidated: ListTag("Workspace"), provided: IDTag("Workspace", "w1"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.invalidated.Matches(tt.provided))
		})
	}
}

func TestIntersects(t *testing.T) {
	provided := []Tag{ListTag("Invitation"), IDTag("Workspace", "w1")}

	require.True(t, Intersects([]Tag{IDTag("Workspace", "w1")}, provided))
	require.False(t, Intersects([]Tag{ListTag("WorkspaceMember")}, provided))
	require.False(t, Intersects(nil, provided))
	require.False(t, Intersects([]Tag{ListTag("Invitation")}, nil))
}

func TestTagStrings(t *testing.T) {
	tags := []Tag{ListTag("Workspace"), UserTag("Invitation"), TypeTag("Session")}
	require.Equal(t, []string{"Invitation:USER", "Session", "Workspace:LIST"}, Strings(tags))

	for _, tag := range tags {
		require.Equal(t, tag, ParseTag(tag.String()))
	}
}
