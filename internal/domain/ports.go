package domain

import (
	"context"
	"time"
)

// SpaceLister lists the spaces visible to the authenticated user.
type SpaceLister interface {
	// ListSpaces returns every space, across all result pages.
	ListSpaces(ctx context.Context) ([]Space, error)
}

// MessageSource retrieves the messages of one space.
type MessageSource interface {
	// ListMessages returns the messages of space created in r, across all
	// result pages, in the order the backend delivered them.
	ListMessages(ctx context.Context, space string, r DateRange) ([]Message, error)
}

// MessageCache is implemented by message sources that keep fetched batches.
type MessageCache interface {
	// Invalidate drops the stored batch of space and r, if any.
	Invalidate(ctx context.Context, space string, r DateRange) error
}

// PeopleDirectory resolves user resource names to display names.
type PeopleDirectory interface {
	// DisplayName returns the display name of users/<id>, or "" if unknown.
	DisplayName(ctx context.Context, userName string) (string, error)
}

// SpaceStore persists the list of spaces.
type SpaceStore interface {
	// LoadSpaces returns ErrStoreNotFound if nothing was saved yet.
	LoadSpaces() ([]Space, error)
	SaveSpaces(spaces []Space) error
}

// PeopleStore persists the allow-list of people.
type PeopleStore interface {
	// LoadPeople returns ErrStoreNotFound if nothing was saved yet.
	LoadPeople() ([]string, error)
	SavePeople(people []string) error
}

// TaskStore persists reconstructed tasks between commands.
type TaskStore interface {
	// LoadTasks returns ErrStoreNotFound if nothing was saved yet.
	LoadTasks() ([]Task, error)
	SaveTasks(tasks []Task) error
}

// ReportWriter writes a report to durable storage.
type ReportWriter interface {
	// WriteReport writes report for r and returns the written path.
	WriteReport(report Report, r DateRange) (string, error)
}

// Metrics records pipeline measurements.
type Metrics interface {
	MessagesFetched(space string, n int)
	EventClassified(kind EventKind)
	TasksReconstructed(space string, n int)
	FetchRetried(operation string)
	FetchFailed(space string)
	ObserveFetch(space string, d time.Duration)
	// Flush persists the collected measurements, if configured.
	Flush() error
}

// Logger records diagnostic messages. An empty space logs globally only.
type Logger interface {
	Info(space, category, msg string)
	Debug(space, category, msg string)
	Warn(space, category, msg string)
	Error(space, category, msg string)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (global <- local).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// GetLocalConfigInfo returns information about the working directory config file.
	GetLocalConfigInfo() ConfigInfo

	// InitGlobalConfig writes the config template to the global path.
	InitGlobalConfig(force bool) (string, error)

	// InitLocalConfig writes the config template to the local path.
	InitLocalConfig(force bool) (string, error)
}

// ConfigInfo describes one config file.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
