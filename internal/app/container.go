// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/runoshun/chat-tasks/internal/domain"
	"github.com/runoshun/chat-tasks/internal/infra/auth"
	"github.com/runoshun/chat-tasks/internal/infra/cache"
	"github.com/runoshun/chat-tasks/internal/infra/chatapi"
	"github.com/runoshun/chat-tasks/internal/infra/config"
	"github.com/runoshun/chat-tasks/internal/infra/csvreport"
	"github.com/runoshun/chat-tasks/internal/infra/filestore"
	"github.com/runoshun/chat-tasks/internal/infra/logging"
	"github.com/runoshun/chat-tasks/internal/infra/metrics"
	"github.com/runoshun/chat-tasks/internal/usecase"
	"google.golang.org/api/option"
)

// Config holds the application paths.
type Config struct {
	Dir        string // Working directory for data files, logs and reports
	ConfigPath string // Explicit config file; empty means <Dir>/chattasks.toml
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Chat backend ports
	Spaces    domain.SpaceLister
	Messages  domain.MessageSource
	Directory domain.PeopleDirectory

	// Ports (interfaces bound to implementations)
	SpaceStore    domain.SpaceStore
	PeopleStore   domain.PeopleStore
	TaskStore     domain.TaskStore
	Reports       domain.ReportWriter
	Metrics       domain.Metrics
	FileLogger    domain.Logger
	Clock         domain.Clock
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Pointer fields
	Logger    *slog.Logger
	AppConfig *domain.Config

	prompt  io.Writer
	closers []func() error
	mu      sync.Mutex

	// Configuration
	Config Config
	RunID  string
}

// New creates a new Container for the given working directory.
// The authorization prompt, if consent is needed, is written to prompt.
func New(dir, configPath string, prompt io.Writer) (*Container, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	cfg := Config{Dir: absDir, ConfigPath: configPath}

	configLoader := config.NewLoader(cfg.Dir, cfg.ConfigPath)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := logging.ParseLevel(appConfig.Log.Level)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	runID := uuid.NewString()
	fileLogger := logging.New(cfg.Dir, level).WithRunID(runID)

	var recorder domain.Metrics = metrics.Nop{}
	if appConfig.Metrics.Textfile != "" {
		recorder = metrics.New(appConfig.Metrics.Textfile)
	}

	store := filestore.New(cfg.Dir, appConfig.Files)

	c := &Container{
		SpaceStore:    store,
		PeopleStore:   store,
		TaskStore:     store,
		Reports:       csvreport.New(cfg.Dir),
		Metrics:       recorder,
		FileLogger:    fileLogger,
		Clock:         domain.RealClock{},
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(cfg.Dir, cfg.ConfigPath),
		Logger:        logger.With("run", runID),
		AppConfig:     appConfig,
		Config:        cfg,
		RunID:         runID,
		prompt:        prompt,
	}
	c.closers = append(c.closers, fileLogger.Close)

	chat := &lazyChat{connect: c.connectChat}
	c.Spaces = chat
	c.Messages = chat
	c.Directory = chat
	return c, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
// Ports left nil in deps fall back to no-op or in-memory defaults.
func NewWithDeps(cfg Config, deps Deps) *Container {
	appConfig := deps.AppConfig
	if appConfig == nil {
		appConfig = domain.NewDefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	var recorder domain.Metrics = metrics.Nop{}
	if deps.Metrics != nil {
		recorder = deps.Metrics
	}
	var clock domain.Clock = domain.RealClock{}
	if deps.Clock != nil {
		clock = deps.Clock
	}
	return &Container{
		Spaces:        deps.Spaces,
		Messages:      deps.Messages,
		Directory:     deps.Directory,
		SpaceStore:    deps.SpaceStore,
		PeopleStore:   deps.PeopleStore,
		TaskStore:     deps.TaskStore,
		Reports:       deps.Reports,
		Metrics:       recorder,
		FileLogger:    deps.FileLogger,
		Clock:         clock,
		ConfigLoader:  deps.ConfigLoader,
		ConfigManager: deps.ConfigManager,
		Logger:        logger,
		AppConfig:     appConfig,
		Config:        cfg,
		RunID:         "test",
	}
}

// Deps lists the ports NewWithDeps binds.
type Deps struct {
	Spaces        domain.SpaceLister
	Messages      domain.MessageSource
	Directory     domain.PeopleDirectory
	SpaceStore    domain.SpaceStore
	PeopleStore   domain.PeopleStore
	TaskStore     domain.TaskStore
	Reports       domain.ReportWriter
	Metrics       domain.Metrics
	FileLogger    domain.Logger
	Clock         domain.Clock
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Logger        *slog.Logger
	AppConfig     *domain.Config
}

// connectChat authorizes against the chat backend and builds the chat ports.
func (c *Container) connectChat(ctx context.Context) (chatPorts, error) {
	policy, err := c.AppConfig.Fetch.RetryPolicy()
	if err != nil {
		return chatPorts{}, err
	}

	authenticator := auth.New(c.AppConfig.Auth, c.Config.Dir, c.prompt)
	httpClient, err := authenticator.HTTPClient(ctx)
	if err != nil {
		return chatPorts{}, fmt.Errorf("authorize: %w", err)
	}

	client, err := chatapi.New(ctx, policy, option.WithHTTPClient(httpClient))
	if err != nil {
		return chatPorts{}, err
	}
	client.WithRetryHook(func(op string, attempt int, err error, wait time.Duration) {
		c.Metrics.FetchRetried(op)
		c.Logger.Warn("chat API call failed, retrying",
			"operation", op, "attempt", attempt, "wait", wait, "error", err)
	})

	ports := chatPorts{spaces: client, messages: client, directory: client}
	if c.AppConfig.Cache.Enabled() {
		cached, err := c.cacheMessages(ctx, client)
		if err != nil {
			c.Logger.Warn("message cache disabled", "error", err)
		} else {
			ports.messages = cached
		}
	}
	return ports, nil
}

func (c *Container) cacheMessages(ctx context.Context, inner domain.MessageSource) (domain.MessageSource, error) {
	ttl, err := c.AppConfig.Cache.TTLDuration()
	if err != nil {
		return nil, err
	}
	rc, err := cache.Connect(ctx, c.AppConfig.Cache.RedisAddr)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.closers = append(c.closers, rc.Close)
	c.mu.Unlock()
	c.Logger.Debug("message cache enabled", "addr", c.AppConfig.Cache.RedisAddr, "ttl", ttl)
	return cache.NewSource(inner, rc, ttl, c.FileLogger), nil
}

// Close flushes metrics and releases open resources.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	errs := []error{c.Metrics.Flush()}
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Classifier returns the notification classifier for the configured marker.
func (c *Container) Classifier() domain.Classifier {
	return domain.Classifier{Marker: c.AppConfig.Fetch.Marker}
}

// DateRange resolves the command-line bounds against the clock.
func (c *Container) DateRange(start, end string) (domain.DateRange, error) {
	return domain.ResolveDateRange(start, end, c.Clock.Now())
}

// UseCase factory methods

// ListSpacesUseCase returns a new ListSpaces use case.
func (c *Container) ListSpacesUseCase() *usecase.ListSpaces {
	return usecase.NewListSpaces(c.Spaces, c.SpaceStore, c.FileLogger)
}

// DiscoverPeopleUseCase returns a new DiscoverPeople use case.
func (c *Container) DiscoverPeopleUseCase() *usecase.DiscoverPeople {
	return usecase.NewDiscoverPeople(
		c.Spaces, c.SpaceStore, c.Messages, c.Directory, c.PeopleStore,
		c.Classifier(), c.Metrics, c.FileLogger, c.AppConfig.Fetch.Concurrency,
	)
}

// FetchTasksUseCase returns a new FetchTasks use case.
func (c *Container) FetchTasksUseCase() *usecase.FetchTasks {
	return usecase.NewFetchTasks(
		c.Spaces, c.SpaceStore, c.Messages, c.TaskStore,
		c.Classifier(), c.Metrics, c.FileLogger, c.AppConfig.Fetch.Concurrency,
	)
}

// BuildReportUseCase returns a new BuildReport use case.
func (c *Container) BuildReportUseCase() *usecase.BuildReport {
	return usecase.NewBuildReport(
		c.FetchTasksUseCase(), c.TaskStore, c.PeopleStore, c.SpaceStore, c.Reports, c.FileLogger,
	)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
