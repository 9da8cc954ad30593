package domain

import (
	"fmt"
	"slices"
)

// Reconstruct folds the messages of one space into its tasks, keyed by task
// ID, using the default notification marker.
func Reconstruct(space string, messages []Message) (map[string]Task, error) {
	return DefaultClassifier().Reconstruct(space, messages)
}

// Reconstruct folds the messages of one space into its tasks, keyed by task ID.
//
// Events are applied in createTime order (arrival order breaks ties):
//   - the first Created event materializes an OPEN task; later ones are ignored
//   - Assigned, Completed, Deleted and Re-opened events for unknown IDs are ignored
//   - a Deleted task is dropped from the result
//   - the latest Assigned event with a mention sets the assignee
//   - a Re-opened task is OPEN, otherwise a Completed task is COMPLETED
//
// A notification with a malformed thread name fails the whole batch and no
// partial result is returned.
func (c Classifier) Reconstruct(space string, messages []Message) (map[string]Task, error) {
	events, err := c.ClassifyAll(messages)
	if err != nil {
		return nil, err
	}
	return ReconstructEvents(space, events), nil
}

// ReconstructEvents folds events already ordered by ClassifyAll.
func ReconstructEvents(space string, events []Event) map[string]Task {
	acc := newLedger()
	for _, ev := range events {
		acc.apply(space, ev)
	}
	return acc.reconcile()
}

// ClassifyAll classifies every message and returns the events ordered by
// createTime, with arrival order breaking ties.
func (c Classifier) ClassifyAll(messages []Message) ([]Event, error) {
	events := make([]Event, 0, len(messages))
	for i, msg := range messages {
		ev, err := c.Classify(msg)
		if err != nil {
			return nil, fmt.Errorf("classify message %d (%s): %w", i, msg.Name, err)
		}
		if ev == nil {
			continue
		}
		ev.Seq = i
		events = append(events, *ev)
	}

	slices.SortStableFunc(events, func(a, b Event) int {
		return a.Time.Compare(b.Time)
	})
	return events, nil
}

// ledger accumulates the effect of a batch of events before reconciliation.
type ledger struct {
	created   map[string]Task
	assignee  map[string]string
	completed map[string]struct{}
	deleted   map[string]struct{}
	reopened  map[string]struct{}
}

func newLedger() *ledger {
	return &ledger{
		created:   make(map[string]Task),
		assignee:  make(map[string]string),
		completed: make(map[string]struct{}),
		deleted:   make(map[string]struct{}),
		reopened:  make(map[string]struct{}),
	}
}

// apply records one event. Events must arrive in time order.
func (l *ledger) apply(space string, ev Event) {
	switch ev.Kind {
	case EventCreated:
		if _, seen := l.created[ev.TaskID]; seen {
			return
		}
		assignee := UnassignedName
		if ev.HasAssignee && ev.Assignee != "" {
			assignee = ev.Assignee
		}
		l.created[ev.TaskID] = Task{
			ID:          ev.TaskID,
			Assignee:    assignee,
			Status:      StatusOpen,
			CreatedTime: ev.Time,
			Space:       space,
		}
	case EventAssigned:
		if ev.HasAssignee && ev.Assignee != "" {
			l.assignee[ev.TaskID] = ev.Assignee
		}
	case EventCompleted:
		l.completed[ev.TaskID] = struct{}{}
	case EventDeleted:
		l.deleted[ev.TaskID] = struct{}{}
	case EventReopened:
		l.reopened[ev.TaskID] = struct{}{}
	}
}

// reconcile builds the final task set. Only IDs with a Created event are
// considered, so references to unknown tasks have no effect.
func (l *ledger) reconcile() map[string]Task {
	result := make(map[string]Task, len(l.created))
	for id, task := range l.created {
		if _, ok := l.deleted[id]; ok {
			continue
		}
		if name, ok := l.assignee[id]; ok {
			task.Assignee = name
		}
		if _, ok := l.reopened[id]; ok {
			task.Status = StatusOpen
		} else if _, ok := l.completed[id]; ok {
			task.Status = StatusCompleted
		}
		result[id] = task
	}
	return result
}
