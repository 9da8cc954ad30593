package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/runoshun/chat-tasks/internal/domain"
)

// chatPorts is the set of ports backed by the chat API.
type chatPorts struct {
	spaces    domain.SpaceLister
	messages  domain.MessageSource
	directory domain.PeopleDirectory
}

// lazyChat binds the chat ports on first use, so commands served from
// saved files never go through authorization.
type lazyChat struct {
	connect func(ctx context.Context) (chatPorts, error)
	err     error
	ports   chatPorts
	once    sync.Once
}

func (l *lazyChat) bind(ctx context.Context) (chatPorts, error) {
	l.once.Do(func() {
		l.ports, l.err = l.connect(ctx)
		if l.err != nil {
			l.err = fmt.Errorf("%w: %w", domain.ErrNotAuthorized, l.err)
		}
	})
	return l.ports, l.err
}

func (l *lazyChat) ListSpaces(ctx context.Context) ([]domain.Space, error) {
	p, err := l.bind(ctx)
	if err != nil {
		return nil, err
	}
	return p.spaces.ListSpaces(ctx)
}

func (l *lazyChat) ListMessages(ctx context.Context, space string, r domain.DateRange) ([]domain.Message, error) {
	p, err := l.bind(ctx)
	if err != nil {
		return nil, err
	}
	return p.messages.ListMessages(ctx, space, r)
}

// Invalidate forwards to the message source when it caches batches.
func (l *lazyChat) Invalidate(ctx context.Context, space string, r domain.DateRange) error {
	p, err := l.bind(ctx)
	if err != nil {
		return err
	}
	if c, ok := p.messages.(domain.MessageCache); ok {
		return c.Invalidate(ctx, space, r)
	}
	return nil
}

func (l *lazyChat) DisplayName(ctx context.Context, userName string) (string, error) {
	p, err := l.bind(ctx)
	if err != nil {
		return "", err
	}
	return p.directory.DisplayName(ctx, userName)
}
