package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/runoshun/chat-tasks/internal/domain"
	"github.com/runoshun/chat-tasks/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gopkg.in/yaml.v3"
)

type fetchFixture struct {
	lister  *testutil.MockSpaceLister
	store   *testutil.MockStore
	source  *testutil.MockMessageCache
	metrics *testutil.MockMetrics
	logger  *testutil.MockLogger
}

func newFetchFixture() *fetchFixture {
	f := &fetchFixture{
		lister: &testutil.MockSpaceLister{Spaces: []domain.Space{
			groupSpace("B", "Team B"),
			groupSpace("A", "Team A"),
			{Name: "spaces/DM", SpaceType: "DIRECT_MESSAGE"},
		}},
		store:   &testutil.MockStore{},
		source:  testutil.NewMockMessageCache(),
		metrics: testutil.NewMockMetrics(),
		logger:  &testutil.MockLogger{},
	}
	f.source.Messages["spaces/A"] = []domain.Message{
		notification("spaces/A", "T2", "Created a task for @Bruno (b@x)", at(3, 9)),
		notification("spaces/A", "T1", "Created a task for @Ana (a@x)", at(2, 9)),
		notification("spaces/A", "T1", "Completed", at(4, 9)),
		chatMessage("users/1", "Ana", "hello", at(2, 10)),
	}
	f.source.Messages["spaces/B"] = []domain.Message{
		notification("spaces/B", "T9", "Created a task", at(5, 9)),
		notification("spaces/B", "T8", "Created a task", at(5, 10)),
		notification("spaces/B", "T8", "Deleted", at(6, 9)),
	}
	return f
}

func (f *fetchFixture) useCase(concurrency int) *FetchTasks {
	return NewFetchTasks(f.lister, f.store, f.source, f.store, domain.DefaultClassifier(), f.metrics, f.logger, concurrency)
}

func TestFetchTasks_Execute(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newFetchFixture()

	out, err := f.useCase(2).Execute(context.Background(), FetchTasksInput{Range: may2024})
	require.NoError(t, err)

	require.Len(t, out.Tasks, 3)
	assert.Equal(t, domain.Task{ID: "T1", Space: "spaces/A", Assignee: "Ana", Status: domain.StatusCompleted, CreatedTime: at(2, 9)}, out.Tasks[0])
	assert.Equal(t, domain.Task{ID: "T2", Space: "spaces/A", Assignee: "Bruno", Status: domain.StatusOpen, CreatedTime: at(3, 9)}, out.Tasks[1])
	assert.Equal(t, domain.Task{ID: "T9", Space: "spaces/B", Assignee: domain.UnassignedName, Status: domain.StatusOpen, CreatedTime: at(5, 9)}, out.Tasks[2])

	assert.Len(t, out.Spaces, 2, "direct messages are not fetched")
	assert.Zero(t, f.source.Calls("spaces/DM"))
	assert.Empty(t, out.Skipped)
	assert.False(t, out.Saved)
	assert.Nil(t, f.store.Tasks)

	assert.Equal(t, 4, f.metrics.Messages["spaces/A"])
	assert.Equal(t, 4, f.metrics.Events[domain.EventCreated])
	assert.Equal(t, 1, f.metrics.Events[domain.EventDeleted])
	assert.Equal(t, 2, f.metrics.Tasks["spaces/A"])
	assert.Equal(t, 1, f.metrics.Tasks["spaces/B"])
}

func TestFetchTasks_Execute_Refresh(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newFetchFixture()

	_, err := f.useCase(2).Execute(context.Background(), FetchTasksInput{Range: may2024})
	require.NoError(t, err)
	assert.Empty(t, f.source.Invalidated(), "cached batches are kept without refresh")

	out, err := f.useCase(2).Execute(context.Background(), FetchTasksInput{Range: may2024, Refresh: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"spaces/A", "spaces/B"}, f.source.Invalidated())
	assert.Equal(t, 2, f.source.Calls("spaces/A"))
	assert.Len(t, out.Tasks, 3)
}

func TestFetchTasks_Execute_RefreshInvalidateFailure(t *testing.T) {
	t.Run("transient failure still fetches", func(t *testing.T) {
		f := newFetchFixture()
		f.source.InvalidateErr = errors.New("redis down")

		out, err := f.useCase(1).Execute(context.Background(), FetchTasksInput{Range: may2024, Refresh: true})
		require.NoError(t, err)
		assert.Len(t, out.Tasks, 3)
		assert.Equal(t, 1, f.source.Calls("spaces/A"))
		assert.NotEmpty(t, f.logger.Levels("WARN"))
	})

	t.Run("not authorized aborts", func(t *testing.T) {
		f := newFetchFixture()
		f.source.InvalidateErr = domain.ErrNotAuthorized

		_, err := f.useCase(1).Execute(context.Background(), FetchTasksInput{Range: may2024, Refresh: true, ContinueOnError: true})
		require.ErrorIs(t, err, domain.ErrNotAuthorized)
	})
}

func TestFetchTasks_Execute_SavedSpacesAndSave(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newFetchFixture()
	f.store.Spaces = []domain.Space{groupSpace("A", "Team A")}

	out, err := f.useCase(1).Execute(context.Background(), FetchTasksInput{Range: may2024, Save: true})
	require.NoError(t, err)

	assert.Zero(t, f.lister.Calls, "saved spaces must be used")
	assert.Zero(t, f.source.Calls("spaces/B"))
	assert.Len(t, out.Tasks, 2)
	assert.True(t, out.Saved)
	assert.Equal(t, out.Tasks, f.store.Tasks)
}

func TestFetchTasks_Execute_MalformedThreadIsFatal(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newFetchFixture()
	bad := notification("spaces/B", "X", "Completed", at(7, 9))
	bad.Thread = &domain.Thread{Name: "spaces/B/threads"}
	f.source.Messages["spaces/B"] = append(f.source.Messages["spaces/B"], bad)

	_, err := f.useCase(2).Execute(context.Background(), FetchTasksInput{Range: may2024, ContinueOnError: true})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedThreadID)
	var malformed *domain.MalformedThreadError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "spaces/B/threads", malformed.ThreadName)
}

func TestFetchTasks_Execute_TransientErrors(t *testing.T) {
	t.Run("skipped with ContinueOnError", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		f := newFetchFixture()
		f.source.Errs["spaces/B"] = domain.ErrFetch

		out, err := f.useCase(2).Execute(context.Background(), FetchTasksInput{Range: may2024, ContinueOnError: true})
		require.NoError(t, err)

		assert.Len(t, out.Tasks, 2)
		require.Len(t, out.Skipped, 1)
		assert.Equal(t, "spaces/B", out.Skipped[0].Space.Name)
		assert.ErrorIs(t, out.Skipped[0].Err, domain.ErrFetch)
		assert.Equal(t, 1, f.metrics.Failures["spaces/B"])
		assert.NotEmpty(t, f.logger.Levels("WARN"))
	})

	t.Run("fatal without ContinueOnError", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		f := newFetchFixture()
		f.source.Errs["spaces/B"] = domain.ErrFetch

		_, err := f.useCase(2).Execute(context.Background(), FetchTasksInput{Range: may2024})
		assert.ErrorIs(t, err, domain.ErrFetch)
	})
}

func TestFetchTasks_Execute_Canceled(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newFetchFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.useCase(2).Execute(ctx, FetchTasksInput{Range: may2024, ContinueOnError: true})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchTasks_Execute_SpaceIndependence(t *testing.T) {
	defer goleak.VerifyNone(t)
	// The same task ID in two spaces yields two tasks.
	f := newFetchFixture()
	f.source.Messages["spaces/A"] = []domain.Message{notification("spaces/A", "T1", "Created a task", at(2, 9))}
	f.source.Messages["spaces/B"] = []domain.Message{
		notification("spaces/B", "T1", "Created a task", at(2, 9)),
		notification("spaces/B", "T1", "Completed", at(3, 9)),
	}

	out, err := f.useCase(4).Execute(context.Background(), FetchTasksInput{Range: may2024})
	require.NoError(t, err)

	require.Len(t, out.Tasks, 2)
	assert.Equal(t, domain.StatusOpen, out.Tasks[0].Status)
	assert.Equal(t, domain.StatusCompleted, out.Tasks[1].Status)
}

func TestFetchTasks_Execute_InvalidRange(t *testing.T) {
	f := newFetchFixture()
	r := domain.DateRange{Start: may2024.End, End: may2024.Start}

	_, err := f.useCase(1).Execute(context.Background(), FetchTasksInput{Range: r})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestFetchTasks_Execute_NoSpaces(t *testing.T) {
	f := newFetchFixture()
	f.lister.Spaces = []domain.Space{{Name: "spaces/DM", SpaceType: "DIRECT_MESSAGE"}}

	_, err := f.useCase(1).Execute(context.Background(), FetchTasksInput{Range: may2024})
	assert.ErrorIs(t, err, domain.ErrNoSpaces)
}

func TestFetchTasksOutput_Views(t *testing.T) {
	out := &FetchTasksOutput{
		Spaces: []domain.Space{groupSpace("A", "Team A"), {Name: "spaces/C"}},
		Tasks: []domain.Task{
			{ID: "1", Space: "spaces/A", Assignee: "Ana", Status: domain.StatusOpen, CreatedTime: at(2, 9)},
			{ID: "2", Space: "spaces/C", Assignee: "Bruno", Status: domain.StatusOpen, CreatedTime: at(2, 9)},
			{ID: "3", Space: "spaces/Z", Assignee: "Caro", Status: domain.StatusOpen, CreatedTime: at(2, 9)},
		},
	}

	views := out.Views()
	require.Len(t, views, 3)
	assert.Equal(t, "Team A", views[0].SpaceDisplayName)
	assert.Equal(t, "spaces/C", views[1].SpaceDisplayName)
	assert.Equal(t, "spaces/Z", views[2].SpaceDisplayName)

	data, err := json.Marshal(views[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "1",
		"space": "spaces/A",
		"assignee": "Ana",
		"status": "OPEN",
		"created_time": "2024-05-02T09:00:00Z",
		"space_display_name": "Team A"
	}`, string(data))

	y, err := yaml.Marshal(views[0])
	require.NoError(t, err)
	assert.Contains(t, string(y), "space_display_name: Team A")
	assert.Contains(t, string(y), "assignee: Ana")
}
