package cli

import (
	"bytes"
	"time"

	"github.com/runoshun/chat-tasks/internal/app"
	"github.com/runoshun/chat-tasks/internal/domain"
	"github.com/runoshun/chat-tasks/internal/testutil"
	"github.com/spf13/cobra"
)

// testDeps holds the mocks behind a test container.
type testDeps struct {
	lister   *testutil.MockSpaceLister
	source   *testutil.MockMessageCache
	people   *testutil.MockPeopleDirectory
	store    *testutil.MockStore
	reports  *testutil.MockReportWriter
	manager  *testutil.MockConfigManager
	loader   *testutil.MockConfigLoader
	warnings []string
}

func newTestDeps() *testDeps {
	d := &testDeps{
		lister: &testutil.MockSpaceLister{Spaces: []domain.Space{
			{Name: "spaces/A", DisplayName: "Team A", SpaceType: domain.SpaceTypeSpace},
			{Name: "spaces/B", DisplayName: "Team B", SpaceType: domain.SpaceTypeSpace},
			{Name: "spaces/DM", SpaceType: "DIRECT_MESSAGE"},
		}},
		source:  testutil.NewMockMessageCache(),
		people:  &testutil.MockPeopleDirectory{},
		store:   &testutil.MockStore{},
		reports: &testutil.MockReportWriter{},
		manager: &testutil.MockConfigManager{},
		loader:  &testutil.MockConfigLoader{},
	}
	d.source.Messages["spaces/A"] = []domain.Message{
		notification("spaces/A", "T1", "Created a task for @Ana (a@x)", may(2)),
		notification("spaces/A", "T1", "Completed", may(4)),
		notification("spaces/A", "T2", "Created a task for @Bruno (b@x)", may(3)),
		{Text: "hi", CreateTime: may(3), Sender: &domain.Sender{Name: "users/7", DisplayName: "Carla", Type: "HUMAN"}},
	}
	d.source.Messages["spaces/B"] = []domain.Message{
		notification("spaces/B", "T9", "Created a task", may(5)),
	}
	return d
}

// newTestContainer creates an app.Container with mock dependencies.
// The clock is fixed in June 2024, so the default range is May 2024.
func (d *testDeps) newTestContainer() *app.Container {
	cfg := domain.NewDefaultConfig()
	cfg.Warnings = d.warnings
	d.loader.Config = cfg
	return app.NewWithDeps(app.Config{}, app.Deps{
		Spaces:        d.lister,
		Messages:      d.source,
		Directory:     d.people,
		SpaceStore:    d.store,
		PeopleStore:   d.store,
		TaskStore:     d.store,
		Reports:       d.reports,
		FileLogger:    &testutil.MockLogger{},
		Clock:         &testutil.MockClock{NowTime: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)},
		ConfigLoader:  d.loader,
		ConfigManager: d.manager,
		AppConfig:     cfg,
	})
}

func may(day int) time.Time {
	return time.Date(2024, 5, day, 9, 0, 0, 0, time.UTC)
}

func notification(space, task, text string, ts time.Time) domain.Message {
	return domain.Message{
		Text:       text + " via Tasks",
		CreateTime: ts,
		Thread:     &domain.Thread{Name: space + "/threads/" + task},
		Sender:     &domain.Sender{Name: "users/bot", DisplayName: "Tasks", Type: "BOT"},
	}
}

// run executes cmd with args and returns stdout and stderr.
func run(cmd *cobra.Command, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
