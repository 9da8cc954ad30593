package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/chat-tasks/internal/domain"
)

// ListSpacesInput contains the parameters for listing spaces.
type ListSpacesInput struct {
	Save bool // Write the result to the spaces file
}

// ListSpacesOutput contains the result of listing spaces.
type ListSpacesOutput struct {
	Spaces []domain.Space // Group spaces only
	Saved  bool
}

// ListSpaces lists the group spaces visible to the user.
type ListSpaces struct {
	lister domain.SpaceLister
	store  domain.SpaceStore
	logger domain.Logger
}

// NewListSpaces creates a new ListSpaces use case.
func NewListSpaces(lister domain.SpaceLister, store domain.SpaceStore, logger domain.Logger) *ListSpaces {
	return &ListSpaces{
		lister: lister,
		store:  store,
		logger: logger,
	}
}

// Execute lists spaces from the API, dropping direct messages.
func (uc *ListSpaces) Execute(ctx context.Context, in ListSpacesInput) (*ListSpacesOutput, error) {
	all, err := uc.lister.ListSpaces(ctx)
	if err != nil {
		return nil, err
	}
	spaces := domain.GroupSpacesOnly(all)
	logInfo(uc.logger, "", "spaces", fmt.Sprintf("listed %d spaces, %d group spaces", len(all), len(spaces)))

	if in.Save {
		if err := uc.store.SaveSpaces(spaces); err != nil {
			return nil, fmt.Errorf("save spaces: %w", err)
		}
	}

	return &ListSpacesOutput{Spaces: spaces, Saved: in.Save}, nil
}
