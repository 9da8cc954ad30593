package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/chat-tasks/internal/domain"
)

// Task sources reported by BuildReport.
const (
	SourceTasksFile = "tasks file"
	SourceChatAPI   = "chat API"
)

// BuildReportInput contains the parameters for building a report.
type BuildReportInput struct {
	Range   domain.DateRange
	Save    bool // Write the report as CSV
	Refresh bool // Ignore the tasks file and cached messages, fetch from the API
}

// BuildReportOutput contains the completion report.
// Fields are ordered to minimize memory padding.
type BuildReportOutput struct {
	Range    domain.DateRange
	Report   domain.Report
	Skipped  []SkippedSpace
	Source   string // SourceTasksFile or SourceChatAPI
	Path     string // Written CSV file, if saved
	Filtered bool   // A people allow-list was applied
}

// BuildReport aggregates tasks into per-assignee completion figures.
type BuildReport struct {
	fetch  *FetchTasks
	tasks  domain.TaskStore
	people domain.PeopleStore
	spaces domain.SpaceStore
	writer domain.ReportWriter
	logger domain.Logger
}

// NewBuildReport creates a new BuildReport use case.
func NewBuildReport(
	fetch *FetchTasks,
	tasks domain.TaskStore,
	people domain.PeopleStore,
	spaces domain.SpaceStore,
	writer domain.ReportWriter,
	logger domain.Logger,
) *BuildReport {
	return &BuildReport{
		fetch:  fetch,
		tasks:  tasks,
		people: people,
		spaces: spaces,
		writer: writer,
		logger: logger,
	}
}

// Execute builds the report for the range. Saved tasks are used when
// available; when a people file exists only listed assignees are counted.
func (uc *BuildReport) Execute(ctx context.Context, in BuildReportInput) (*BuildReportOutput, error) {
	if err := in.Range.Validate(); err != nil {
		return nil, err
	}

	out := &BuildReportOutput{Range: in.Range}

	tasks, spaces, err := uc.loadTasks(ctx, in, out)
	if err != nil {
		return nil, err
	}

	people, err := uc.people.LoadPeople()
	switch {
	case err == nil:
		before := len(tasks)
		tasks = domain.FilterTasks(tasks, people, spaces)
		out.Filtered = true
		logInfo(uc.logger, "", "report", fmt.Sprintf("people filter kept %d of %d tasks", len(tasks), before))
	case errors.Is(err, domain.ErrStoreNotFound):
	default:
		return nil, err
	}

	out.Report = domain.Aggregate(tasks)
	if out.Report.IsEmpty() {
		logWarn(uc.logger, "", "report", "no tasks found to analyze")
	}

	if in.Save {
		path, err := uc.writer.WriteReport(out.Report, in.Range)
		if err != nil {
			return nil, err
		}
		out.Path = path
		logInfo(uc.logger, "", "report", "report saved as "+path)
	}
	return out, nil
}

// loadTasks returns the tasks in range and the space names they may belong to.
func (uc *BuildReport) loadTasks(ctx context.Context, in BuildReportInput, out *BuildReportOutput) ([]domain.Task, []string, error) {
	if !in.Refresh {
		saved, err := uc.tasks.LoadTasks()
		switch {
		case err == nil:
			out.Source = SourceTasksFile
			var tasks []domain.Task
			for _, t := range saved {
				if in.Range.Contains(t.CreatedTime) {
					tasks = append(tasks, t)
				}
			}
			logInfo(uc.logger, "", "report", fmt.Sprintf("using %d of %d saved tasks", len(tasks), len(saved)))
			spaces, err := uc.knownSpaces(tasks)
			return tasks, spaces, err
		case errors.Is(err, domain.ErrStoreNotFound):
			logInfo(uc.logger, "", "report", "no tasks file, fetching from the chat API")
		default:
			return nil, nil, err
		}
	}

	fetched, err := uc.fetch.Execute(ctx, FetchTasksInput{Range: in.Range, Refresh: in.Refresh})
	if err != nil {
		return nil, nil, err
	}
	out.Source = SourceChatAPI
	out.Skipped = fetched.Skipped
	return fetched.Tasks, domain.SpaceNames(fetched.Spaces), nil
}

// knownSpaces returns the saved space names, or the spaces the tasks came
// from when no spaces file exists.
func (uc *BuildReport) knownSpaces(tasks []domain.Task) ([]string, error) {
	spaces, err := uc.spaces.LoadSpaces()
	if err == nil {
		return domain.SpaceNames(spaces), nil
	}
	if !errors.Is(err, domain.ErrStoreNotFound) {
		return nil, err
	}
	seen := make(map[string]struct{})
	var names []string
	for _, t := range tasks {
		if _, ok := seen[t.Space]; !ok {
			seen[t.Space] = struct{}{}
			names = append(names, t.Space)
		}
	}
	return names, nil
}
