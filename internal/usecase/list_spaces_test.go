package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/runoshun/chat-tasks/internal/domain"
	"github.com/runoshun/chat-tasks/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSpaces_Execute(t *testing.T) {
	lister := &testutil.MockSpaceLister{Spaces: []domain.Space{
		groupSpace("A", "Team A"),
		{Name: "spaces/DM", SpaceType: "DIRECT_MESSAGE"},
		groupSpace("B", "Team B"),
	}}
	store := &testutil.MockStore{}

	uc := NewListSpaces(lister, store, nil)
	out, err := uc.Execute(context.Background(), ListSpacesInput{})

	require.NoError(t, err)
	assert.Equal(t, []domain.Space{groupSpace("A", "Team A"), groupSpace("B", "Team B")}, out.Spaces)
	assert.False(t, out.Saved)
	assert.Zero(t, store.Saves)
}

func TestListSpaces_Execute_Save(t *testing.T) {
	lister := &testutil.MockSpaceLister{Spaces: []domain.Space{groupSpace("A", "Team A")}}
	store := &testutil.MockStore{}

	uc := NewListSpaces(lister, store, &testutil.MockLogger{})
	out, err := uc.Execute(context.Background(), ListSpacesInput{Save: true})

	require.NoError(t, err)
	assert.True(t, out.Saved)
	assert.Equal(t, out.Spaces, store.Spaces)
}

func TestListSpaces_Execute_Errors(t *testing.T) {
	t.Run("lister error", func(t *testing.T) {
		uc := NewListSpaces(&testutil.MockSpaceLister{Err: domain.ErrFetch}, &testutil.MockStore{}, nil)
		_, err := uc.Execute(context.Background(), ListSpacesInput{})
		assert.ErrorIs(t, err, domain.ErrFetch)
	})

	t.Run("save error", func(t *testing.T) {
		saveErr := errors.New("disk full")
		uc := NewListSpaces(&testutil.MockSpaceLister{}, &testutil.MockStore{SaveErr: saveErr}, nil)
		_, err := uc.Execute(context.Background(), ListSpacesInput{Save: true})
		assert.ErrorIs(t, err, saveErr)
	})
}
