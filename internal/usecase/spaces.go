package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/chat-tasks/internal/domain"
)

// spaceResolver returns the spaces to process: the saved spaces file when it
// exists, otherwise the group spaces listed by the API.
type spaceResolver struct {
	lister domain.SpaceLister
	store  domain.SpaceStore
	logger domain.Logger
}

func (r spaceResolver) resolve(ctx context.Context) ([]domain.Space, error) {
	spaces, err := r.store.LoadSpaces()
	switch {
	case err == nil:
		spaces = domain.GroupSpacesOnly(spaces)
		logInfo(r.logger, "", "spaces", fmt.Sprintf("using %d saved spaces", len(spaces)))
	case errors.Is(err, domain.ErrStoreNotFound):
		listed, err := r.lister.ListSpaces(ctx)
		if err != nil {
			return nil, err
		}
		spaces = domain.GroupSpacesOnly(listed)
		logInfo(r.logger, "", "spaces", fmt.Sprintf("listed %d group spaces", len(spaces)))
	default:
		return nil, err
	}

	if len(spaces) == 0 {
		return nil, domain.ErrNoSpaces
	}
	return spaces, nil
}

func logDebug(l domain.Logger, space, category, msg string) {
	if l != nil {
		l.Debug(space, category, msg)
	}
}

func logInfo(l domain.Logger, space, category, msg string) {
	if l != nil {
		l.Info(space, category, msg)
	}
}

func logWarn(l domain.Logger, space, category, msg string) {
	if l != nil {
		l.Warn(space, category, msg)
	}
}
