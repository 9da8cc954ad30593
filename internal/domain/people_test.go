package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectPeople(t *testing.T) {
	msgs := []Message{
		{Text: "hello", Sender: &Sender{DisplayName: "Carol"}},
		{Text: "Created “A” for @Alice(alice@example.com) via Tasks", Sender: &Sender{DisplayName: "Tasks"}},
		{Text: "Assigned “A” to @Bob to (Team) via Tasks"},
		{Text: "mail @Mallory(x) later", Sender: &Sender{DisplayName: " Carol "}},
		{Text: "no sender"},
	}

	got := DefaultClassifier().CollectPeople(msgs)
	assert.Equal(t, []string{"Alice", "Bob", "Carol", "Tasks"}, got)
}

func TestCollectPeople_Empty(t *testing.T) {
	assert.Empty(t, DefaultClassifier().CollectPeople(nil))
}

func TestMergePeople(t *testing.T) {
	got := MergePeople([]string{"Bob", "Alice"}, []string{"Alice", " ", "Dave"})
	assert.Equal(t, []string{"Alice", "Bob", "Dave"}, got)
}
