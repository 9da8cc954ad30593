// Package chatapi implements the chat ports on top of the Google Chat and
// People REST APIs. Every API call runs under the injected retry policy.
package chatapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/runoshun/chat-tasks/internal/domain"
	chat "google.golang.org/api/chat/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	people "google.golang.org/api/people/v1"
)

// pageSize is the largest page the Chat API accepts.
const pageSize = 1000

// Operation names reported to the retry hook.
const (
	OpListSpaces   = "spaces.list"
	OpListMessages = "spaces.messages.list"
	OpGetPerson    = "people.get"
)

// Ensure Client implements the chat ports.
var (
	_ domain.SpaceLister     = (*Client)(nil)
	_ domain.MessageSource   = (*Client)(nil)
	_ domain.PeopleDirectory = (*Client)(nil)
)

// RetryHook is notified before every retry of an API call.
type RetryHook func(operation string, attempt int, err error, wait time.Duration)

// Client talks to the Chat and People APIs.
type Client struct {
	chat    *chat.Service
	people  *people.Service
	onRetry RetryHook
	policy  domain.RetryPolicy
}

// New creates a Client. opts are shared by both services; production callers
// pass option.WithHTTPClient with an authorized client.
func New(ctx context.Context, policy domain.RetryPolicy, opts ...option.ClientOption) (*Client, error) {
	chatSvc, err := chat.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create chat service: %w", err)
	}
	peopleSvc, err := people.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create people service: %w", err)
	}
	return &Client{chat: chatSvc, people: peopleSvc, policy: policy}, nil
}

// WithRetryHook sets the hook called before each retry.
func (c *Client) WithRetryHook(hook RetryHook) *Client {
	c.onRetry = hook
	return c
}

// call runs fn under the retry policy, tagging retries with operation.
func (c *Client) call(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	policy := c.policy
	inner := policy.OnRetry
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		if c.onRetry != nil {
			c.onRetry(operation, attempt, err, wait)
		}
		if inner != nil {
			inner(attempt, err, wait)
		}
	}
	return policy.Do(ctx, func(ctx context.Context) error {
		return classify(fn(ctx))
	})
}

// classify marks errors that retrying cannot fix as permanent.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.Permanent(err)
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return domain.Permanent(err)
		}
	}
	return err
}

// ListSpaces returns every space the user is a member of, across all pages.
func (c *Client) ListSpaces(ctx context.Context) ([]domain.Space, error) {
	var spaces []domain.Space
	token := ""
	for {
		var resp *chat.ListSpacesResponse
		err := c.call(ctx, OpListSpaces, func(ctx context.Context) error {
			var err error
			resp, err = c.chat.Spaces.List().PageSize(pageSize).PageToken(token).Context(ctx).Do()
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("%w: list spaces: %w", domain.ErrFetch, err)
		}
		for _, s := range resp.Spaces {
			spaces = append(spaces, toSpace(s))
		}
		if resp.NextPageToken == "" {
			return spaces, nil
		}
		token = resp.NextPageToken
	}
}

// ListMessages returns the messages of space created in r, across all pages.
// Messages outside r, which the backend filter can let through, are dropped.
func (c *Client) ListMessages(ctx context.Context, space string, r domain.DateRange) ([]domain.Message, error) {
	var msgs []domain.Message
	filter := r.FilterQuery()
	token := ""
	for {
		var resp *chat.ListMessagesResponse
		err := c.call(ctx, OpListMessages, func(ctx context.Context) error {
			var err error
			resp, err = c.chat.Spaces.Messages.List(space).
				Filter(filter).
				PageSize(pageSize).
				PageToken(token).
				Context(ctx).
				Do()
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("%w: list messages of %s: %w", domain.ErrFetch, space, err)
		}
		for _, m := range resp.Messages {
			msg, err := toMessage(m)
			if err != nil {
				return nil, err
			}
			if r.Contains(msg.CreateTime) {
				msgs = append(msgs, msg)
			}
		}
		if resp.NextPageToken == "" {
			return msgs, nil
		}
		token = resp.NextPageToken
	}
}

// DisplayName resolves users/<id> through the People API.
// Unknown people resolve to "" without error.
func (c *Client) DisplayName(ctx context.Context, userName string) (string, error) {
	id, ok := strings.CutPrefix(userName, "users/")
	if !ok || id == "" {
		return "", nil
	}

	var person *people.Person
	err := c.call(ctx, OpGetPerson, func(ctx context.Context) error {
		var err error
		person, err = c.people.People.Get("people/" + id).PersonFields("names").Context(ctx).Do()
		return err
	})
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("%w: get person %s: %w", domain.ErrFetch, userName, err)
	}
	for _, n := range person.Names {
		if n.DisplayName != "" {
			return n.DisplayName, nil
		}
	}
	return "", nil
}

func toSpace(s *chat.Space) domain.Space {
	return domain.Space{
		Name:        s.Name,
		DisplayName: s.DisplayName,
		SpaceType:   s.SpaceType,
	}
}

func toMessage(m *chat.Message) (domain.Message, error) {
	created, err := time.Parse(time.RFC3339Nano, m.CreateTime)
	if err != nil {
		return domain.Message{}, fmt.Errorf("parse createTime of %s: %w", m.Name, err)
	}
	msg := domain.Message{
		Name:       m.Name,
		Text:       m.Text,
		CreateTime: created.UTC(),
	}
	if m.Sender != nil {
		msg.Sender = &domain.Sender{
			Name:        m.Sender.Name,
			DisplayName: m.Sender.DisplayName,
			Type:        m.Sender.Type,
		}
	}
	if m.Thread != nil {
		msg.Thread = &domain.Thread{Name: m.Thread.Name}
	}
	return msg, nil
}
