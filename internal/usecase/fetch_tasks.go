package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/runoshun/chat-tasks/internal/domain"
	"golang.org/x/sync/errgroup"
)

// FetchTasksInput contains the parameters for fetching tasks.
type FetchTasksInput struct {
	Range           domain.DateRange
	Save            bool // Write the result to the tasks file
	ContinueOnError bool // Skip spaces whose fetch fails instead of failing the run
	Refresh         bool // Drop cached message batches before fetching
}

// FetchTasksOutput contains the reconstructed tasks of every space.
type FetchTasksOutput struct {
	Tasks   []domain.Task  // Sorted by space, creation time, then ID
	Spaces  []domain.Space // Spaces that were processed
	Skipped []SkippedSpace // Spaces skipped because of fetch errors
	Saved   bool
}

// SkippedSpace records a space left out of a run.
type SkippedSpace struct {
	Err   error
	Space domain.Space
}

// TaskView is a task as shown to users, with the space's display name.
type TaskView struct {
	domain.Task      `yaml:",inline"`
	SpaceDisplayName string `json:"space_display_name" yaml:"space_display_name"`
}

// Views pairs every task with the display name of its space.
func (o *FetchTasksOutput) Views() []TaskView {
	names := make(map[string]string, len(o.Spaces))
	for _, s := range o.Spaces {
		names[s.Name] = s.Label()
	}
	views := make([]TaskView, 0, len(o.Tasks))
	for _, t := range o.Tasks {
		label, ok := names[t.Space]
		if !ok {
			label = t.Space
		}
		views = append(views, TaskView{Task: t, SpaceDisplayName: label})
	}
	return views
}

// FetchTasks reconstructs the tasks of every space from its notifications.
// Fields are ordered to minimize memory padding.
type FetchTasks struct {
	spaces      spaceResolver
	source      domain.MessageSource
	store       domain.TaskStore
	metrics     domain.Metrics
	logger      domain.Logger
	classifier  domain.Classifier
	concurrency int
}

// NewFetchTasks creates a new FetchTasks use case.
func NewFetchTasks(
	lister domain.SpaceLister,
	spaceStore domain.SpaceStore,
	source domain.MessageSource,
	store domain.TaskStore,
	classifier domain.Classifier,
	metrics domain.Metrics,
	logger domain.Logger,
	concurrency int,
) *FetchTasks {
	return &FetchTasks{
		spaces:      spaceResolver{lister: lister, store: spaceStore, logger: logger},
		source:      source,
		store:       store,
		classifier:  classifier,
		metrics:     metrics,
		logger:      logger,
		concurrency: max(concurrency, 1),
	}
}

// Execute fetches and reconstructs every space concurrently. Spaces are
// independent; results are joined only after all of them finish.
// A malformed thread identifier always fails the run.
func (uc *FetchTasks) Execute(ctx context.Context, in FetchTasksInput) (*FetchTasksOutput, error) {
	if err := in.Range.Validate(); err != nil {
		return nil, err
	}
	spaces, err := uc.spaces.resolve(ctx)
	if err != nil {
		return nil, err
	}

	perSpace := make([][]domain.Task, len(spaces))
	failures := make([]error, len(spaces))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, sp := range spaces {
		g.Go(func() error {
			tasks, err := uc.fetchSpace(gctx, sp.Name, in.Range, in.Refresh)
			if err == nil {
				perSpace[i] = tasks
				return nil
			}
			if domain.IsStructural(err) || aborts(err) || !in.ContinueOnError {
				return fmt.Errorf("space %s: %w", sp.Name, err)
			}
			logWarn(uc.logger, sp.Name, "tasks", fmt.Sprintf("skipping space: %v", err))
			uc.metrics.FetchFailed(sp.Name)
			failures[i] = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		all     []domain.Task
		skipped []SkippedSpace
	)
	for i, sp := range spaces {
		if failures[i] != nil {
			skipped = append(skipped, SkippedSpace{Space: sp, Err: failures[i]})
			continue
		}
		all = append(all, perSpace[i]...)
	}
	domain.SortTasksForOutput(all)
	logInfo(uc.logger, "", "tasks", fmt.Sprintf("reconstructed %d tasks from %d spaces (%s)", len(all), len(spaces)-len(skipped), in.Range))

	if in.Save {
		if err := uc.store.SaveTasks(all); err != nil {
			return nil, fmt.Errorf("save tasks: %w", err)
		}
	}

	return &FetchTasksOutput{
		Tasks:   all,
		Spaces:  spaces,
		Skipped: skipped,
		Saved:   in.Save,
	}, nil
}

// fetchSpace runs the classify and reconstruct pipeline for one space.
func (uc *FetchTasks) fetchSpace(ctx context.Context, space string, r domain.DateRange, refresh bool) ([]domain.Task, error) {
	if refresh {
		if err := invalidateMessages(ctx, uc.source, uc.logger, space, r); err != nil {
			return nil, err
		}
	}
	msgs, err := fetchMessages(ctx, uc.source, uc.metrics, space, r)
	if err != nil {
		return nil, err
	}

	events, err := uc.classifier.ClassifyAll(msgs)
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		uc.metrics.EventClassified(ev.Kind)
	}

	tasks := domain.SortTasks(domain.ReconstructEvents(space, events))
	uc.metrics.TasksReconstructed(space, len(tasks))
	logInfo(uc.logger, space, "tasks", fmt.Sprintf("%d messages, %d events, %d tasks", len(msgs), len(events), len(tasks)))
	return tasks, nil
}

// fetchMessages lists one space's messages and records fetch metrics.
func fetchMessages(ctx context.Context, source domain.MessageSource, metrics domain.Metrics, space string, r domain.DateRange) ([]domain.Message, error) {
	start := time.Now()
	msgs, err := source.ListMessages(ctx, space, r)
	metrics.ObserveFetch(space, time.Since(start))
	if err != nil {
		return nil, err
	}
	metrics.MessagesFetched(space, len(msgs))
	return msgs, nil
}

// invalidateMessages drops the cached batch of a space when source caches.
// Only errors that abort the run are returned; others are logged.
func invalidateMessages(ctx context.Context, source domain.MessageSource, logger domain.Logger, space string, r domain.DateRange) error {
	c, ok := source.(domain.MessageCache)
	if !ok {
		return nil
	}
	err := c.Invalidate(ctx, space, r)
	switch {
	case err == nil:
		logDebug(logger, space, "tasks", "cached messages invalidated")
	case aborts(err):
		return err
	default:
		logWarn(logger, space, "tasks", fmt.Sprintf("invalidate cached messages: %v", err))
	}
	return nil
}

func sortSkipped(skipped []SkippedSpace) {
	slices.SortFunc(skipped, func(a, b SkippedSpace) int {
		return strings.Compare(a.Space.Name, b.Space.Name)
	})
}
