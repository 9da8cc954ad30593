package domain

import "strings"

// SpaceTypeSpace is the backend type of named group conversations.
// Direct messages and group chats are excluded from every command.
const SpaceTypeSpace = "SPACE"

// Space is a conversation scope in the messaging backend.
type Space struct {
	Name        string `json:"name" yaml:"name"` // spaces/<id>
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	SpaceType   string `json:"spaceType,omitempty" yaml:"spaceType,omitempty"`
}

// IsGroupSpace returns true for named spaces (not direct messages).
func (s Space) IsGroupSpace() bool {
	return s.SpaceType == SpaceTypeSpace
}

// Label returns the display name, falling back to the resource name.
func (s Space) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Name
}

// ShortID returns the <id> part of spaces/<id>.
func (s Space) ShortID() string {
	return SpaceShortID(s.Name)
}

// SpaceShortID returns the last path segment of a space resource name.
func SpaceShortID(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// SpaceNames returns the resource names of spaces, preserving order.
func SpaceNames(spaces []Space) []string {
	names := make([]string, 0, len(spaces))
	for _, s := range spaces {
		names = append(names, s.Name)
	}
	return names
}

// GroupSpacesOnly drops direct messages and group chats.
func GroupSpacesOnly(spaces []Space) []Space {
	var result []Space
	for _, s := range spaces {
		if s.IsGroupSpace() {
			result = append(result, s)
		}
	}
	return result
}
