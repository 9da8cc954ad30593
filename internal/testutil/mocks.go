// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/runoshun/chat-tasks/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockSpaceLister is a test double for domain.SpaceLister.
type MockSpaceLister struct {
	Err    error
	Spaces []domain.Space
	Calls  int
}

// ListSpaces returns the configured spaces.
func (m *MockSpaceLister) ListSpaces(_ context.Context) ([]domain.Space, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Spaces, nil
}

// MockMessageSource is a test double for domain.MessageSource.
// It is safe for concurrent use.
type MockMessageSource struct {
	Messages map[string][]domain.Message // By space name
	Errs     map[string]error            // By space name
	calls    map[string]int
	mu       sync.Mutex
}

// NewMockMessageSource creates a new MockMessageSource with initialized maps.
func NewMockMessageSource() *MockMessageSource {
	return &MockMessageSource{
		Messages: make(map[string][]domain.Message),
		Errs:     make(map[string]error),
		calls:    make(map[string]int),
	}
}

// ListMessages returns the messages configured for space.
func (m *MockMessageSource) ListMessages(ctx context.Context, space string, _ domain.DateRange) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[space]++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.Errs[space]; err != nil {
		return nil, err
	}
	return m.Messages[space], nil
}

// Calls returns how often space was fetched.
func (m *MockMessageSource) Calls(space string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[space]
}

// MockMessageCache is a MockMessageSource that also implements domain.MessageCache.
type MockMessageCache struct {
	*MockMessageSource
	InvalidateErr error
	invalidated   []string
}

// NewMockMessageCache creates a new MockMessageCache.
func NewMockMessageCache() *MockMessageCache {
	return &MockMessageCache{MockMessageSource: NewMockMessageSource()}
}

// Invalidate records space and returns InvalidateErr.
func (m *MockMessageCache) Invalidate(_ context.Context, space string, _ domain.DateRange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, space)
	return m.InvalidateErr
}

// Invalidated returns the invalidated spaces, sorted.
func (m *MockMessageCache) Invalidated() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(slices.Values(m.invalidated))
}

// MockPeopleDirectory is a test double for domain.PeopleDirectory.
type MockPeopleDirectory struct {
	Names map[string]string // users/<id> -> display name
	Errs  map[string]error
	mu    sync.Mutex
	Calls []string
}

// DisplayName returns the configured name of userName.
func (m *MockPeopleDirectory) DisplayName(_ context.Context, userName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, userName)
	if err := m.Errs[userName]; err != nil {
		return "", err
	}
	return m.Names[userName], nil
}

// MockStore is an in-memory SpaceStore, PeopleStore and TaskStore.
// A nil slice means the file does not exist.
type MockStore struct {
	SaveErr error
	LoadErr error
	Spaces  []domain.Space
	People  []string
	Tasks   []domain.Task
	Saves   int
}

// LoadSpaces returns the stored spaces or ErrStoreNotFound.
func (m *MockStore) LoadSpaces() ([]domain.Space, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Spaces == nil {
		return nil, domain.ErrStoreNotFound
	}
	return m.Spaces, nil
}

// SaveSpaces stores spaces.
func (m *MockStore) SaveSpaces(spaces []domain.Space) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves++
	m.Spaces = append([]domain.Space{}, spaces...)
	return nil
}

// LoadPeople returns the stored people or ErrStoreNotFound.
func (m *MockStore) LoadPeople() ([]string, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.People == nil {
		return nil, domain.ErrStoreNotFound
	}
	return m.People, nil
}

// SavePeople stores people.
func (m *MockStore) SavePeople(people []string) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves++
	m.People = append([]string{}, people...)
	return nil
}

// LoadTasks returns the stored tasks or ErrStoreNotFound.
func (m *MockStore) LoadTasks() ([]domain.Task, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Tasks == nil {
		return nil, domain.ErrStoreNotFound
	}
	return m.Tasks, nil
}

// SaveTasks stores tasks.
func (m *MockStore) SaveTasks(tasks []domain.Task) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves++
	m.Tasks = append([]domain.Task{}, tasks...)
	return nil
}

// MockReportWriter is a test double for domain.ReportWriter.
type MockReportWriter struct {
	Err     error
	Written *domain.Report
	Range   domain.DateRange
	Path    string
}

// WriteReport records the report.
func (m *MockReportWriter) WriteReport(report domain.Report, r domain.DateRange) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.Written = &report
	m.Range = r
	if m.Path == "" {
		m.Path = domain.ReportFileName(r)
	}
	return m.Path, nil
}

// MockMetrics is a test double for domain.Metrics.
// It is safe for concurrent use.
type MockMetrics struct {
	FlushErr error
	Messages map[string]int
	Events   map[domain.EventKind]int
	Tasks    map[string]int
	Retries  map[string]int
	Failures map[string]int
	mu       sync.Mutex
	Flushed  bool
}

// NewMockMetrics creates a new MockMetrics with initialized maps.
func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Messages: make(map[string]int),
		Events:   make(map[domain.EventKind]int),
		Tasks:    make(map[string]int),
		Retries:  make(map[string]int),
		Failures: make(map[string]int),
	}
}

func (m *MockMetrics) MessagesFetched(space string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages[space] += n
}

func (m *MockMetrics) EventClassified(kind domain.EventKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events[kind]++
}

func (m *MockMetrics) TasksReconstructed(space string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks[space] = n
}

func (m *MockMetrics) FetchRetried(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Retries[operation]++
}

func (m *MockMetrics) FetchFailed(space string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures[space]++
}

func (m *MockMetrics) ObserveFetch(string, time.Duration) {}

// Flush records that metrics were flushed.
func (m *MockMetrics) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Flushed = true
	return m.FlushErr
}

// LogEntry is one message recorded by MockLogger.
type LogEntry struct {
	Level    string
	Space    string
	Category string
	Msg      string
}

// MockLogger is a test double for domain.Logger.
// It is safe for concurrent use.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (m *MockLogger) add(level, space, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, Space: space, Category: category, Msg: msg})
}

func (m *MockLogger) Info(space, category, msg string) { m.add("INFO", space, category, msg) }
func (m *MockLogger) Debug(space, category, msg string) { m.add("DEBUG", space, category, msg) }
func (m *MockLogger) Warn(space, category, msg string) { m.add("WARN", space, category, msg) }
func (m *MockLogger) Error(space, category, msg string) { m.add("ERROR", space, category, msg) }

// Levels returns the recorded entries at level.
func (m *MockLogger) Levels(level string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.Entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config *domain.Config
	Err    error
}

// Load returns the configured config, or the defaults.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Config == nil {
		return domain.NewDefaultConfig(), nil
	}
	return m.Config, nil
}

// LoadGlobal behaves like Load.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	return m.Load()
}

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	InitErr    error
	Global     domain.ConfigInfo
	Local      domain.ConfigInfo
	InitForce  bool
	InitGlobal bool
	InitCalled bool
}

func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo { return m.Global }
func (m *MockConfigManager) GetLocalConfigInfo() domain.ConfigInfo { return m.Local }

// InitGlobalConfig records the call and returns the global path.
func (m *MockConfigManager) InitGlobalConfig(force bool) (string, error) {
	m.InitCalled, m.InitGlobal, m.InitForce = true, true, force
	return m.Global.Path, m.InitErr
}

// InitLocalConfig records the call and returns the local path.
func (m *MockConfigManager) InitLocalConfig(force bool) (string, error) {
	m.InitCalled, m.InitGlobal, m.InitForce = true, false, force
	return m.Local.Path, m.InitErr
}
