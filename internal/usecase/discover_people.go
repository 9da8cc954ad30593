package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/runoshun/chat-tasks/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DiscoverPeopleInput contains the parameters for discovering people.
type DiscoverPeopleInput struct {
	Range domain.DateRange
	Save  bool // Write the result to the people file
}

// DiscoverPeopleOutput contains the people found in the range.
type DiscoverPeopleOutput struct {
	People  []string       // Sorted, unique display names
	Skipped []SkippedSpace // Spaces whose messages could not be fetched
	Saved   bool
}

// DiscoverPeople collects the names of senders and task assignees.
// Fields are ordered to minimize memory padding.
type DiscoverPeople struct {
	spaces      spaceResolver
	source      domain.MessageSource
	directory   domain.PeopleDirectory
	store       domain.PeopleStore
	metrics     domain.Metrics
	logger      domain.Logger
	classifier  domain.Classifier
	concurrency int
}

// NewDiscoverPeople creates a new DiscoverPeople use case.
// directory may be nil, in which case senders without display names are skipped.
func NewDiscoverPeople(
	lister domain.SpaceLister,
	spaceStore domain.SpaceStore,
	source domain.MessageSource,
	directory domain.PeopleDirectory,
	store domain.PeopleStore,
	classifier domain.Classifier,
	metrics domain.Metrics,
	logger domain.Logger,
	concurrency int,
) *DiscoverPeople {
	return &DiscoverPeople{
		spaces:      spaceResolver{lister: lister, store: spaceStore, logger: logger},
		source:      source,
		directory:   directory,
		store:       store,
		classifier:  classifier,
		metrics:     metrics,
		logger:      logger,
		concurrency: max(concurrency, 1),
	}
}

// Execute fetches every space's messages and gathers the people in them.
// Spaces that fail to fetch are logged and skipped.
func (uc *DiscoverPeople) Execute(ctx context.Context, in DiscoverPeopleInput) (*DiscoverPeopleOutput, error) {
	if err := in.Range.Validate(); err != nil {
		return nil, err
	}
	spaces, err := uc.spaces.resolve(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu         sync.Mutex
		names      [][]string
		unresolved = make(map[string]struct{})
		skipped    []SkippedSpace
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for _, sp := range spaces {
		g.Go(func() error {
			msgs, err := fetchMessages(gctx, uc.source, uc.metrics, sp.Name, in.Range)
			if err != nil {
				if aborts(err) {
					return err
				}
				logWarn(uc.logger, sp.Name, "people", fmt.Sprintf("skipping space: %v", err))
				uc.metrics.FetchFailed(sp.Name)
				mu.Lock()
				skipped = append(skipped, SkippedSpace{Space: sp, Err: err})
				mu.Unlock()
				return nil
			}

			found := uc.classifier.CollectPeople(msgs)
			mu.Lock()
			names = append(names, found)
			for _, m := range msgs {
				if m.Sender != nil && m.Sender.Name != "" && m.SenderDisplayName() == "" {
					unresolved[m.Sender.Name] = struct{}{}
				}
			}
			mu.Unlock()
			logInfo(uc.logger, sp.Name, "people", fmt.Sprintf("%d people in %d messages", len(found), len(msgs)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resolved, err := uc.resolveSenders(ctx, unresolved)
	if err != nil {
		return nil, err
	}
	names = append(names, resolved)

	people := domain.MergePeople(names...)
	sortSkipped(skipped)

	if in.Save {
		if err := uc.store.SavePeople(people); err != nil {
			return nil, fmt.Errorf("save people: %w", err)
		}
	}

	return &DiscoverPeopleOutput{People: people, Skipped: skipped, Saved: in.Save}, nil
}

// resolveSenders looks up display names the chat API left out.
func (uc *DiscoverPeople) resolveSenders(ctx context.Context, users map[string]struct{}) ([]string, error) {
	if uc.directory == nil || len(users) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var names []string
	for _, id := range ids {
		name, err := uc.directory.DisplayName(ctx, id)
		if err != nil {
			if isCancellation(err) {
				return nil, err
			}
			logWarn(uc.logger, "", "people", fmt.Sprintf("cannot resolve %s: %v", id, err))
			continue
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// aborts reports whether err must stop the whole run instead of skipping a space.
func aborts(err error) bool {
	return isCancellation(err) || errors.Is(err, domain.ErrNotAuthorized)
}
