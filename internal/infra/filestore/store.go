// Package filestore persists spaces, people and tasks as JSON or YAML files.
// The format follows the file extension: .yaml/.yml is YAML, anything else JSON.
package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/runoshun/chat-tasks/internal/domain"
	"gopkg.in/yaml.v3"
)

// Ensure Store implements the storage ports.
var (
	_ domain.SpaceStore  = (*Store)(nil)
	_ domain.PeopleStore = (*Store)(nil)
	_ domain.TaskStore   = (*Store)(nil)
)

// Store reads and writes the data files of a working directory.
type Store struct {
	spacesPath string
	peoplePath string
	tasksPath  string
}

// New creates a Store. Relative file names are resolved against dir.
func New(dir string, files domain.FilesConfig) *Store {
	return &Store{
		spacesPath: resolve(dir, files.Spaces, domain.DefaultSpacesFile),
		peoplePath: resolve(dir, files.People, domain.DefaultPeopleFile),
		tasksPath:  resolve(dir, files.Tasks, domain.DefaultTasksFile),
	}
}

func resolve(dir, name, fallback string) string {
	if name == "" {
		name = fallback
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// SpacesPath returns the spaces file location.
func (s *Store) SpacesPath() string { return s.spacesPath }

// PeoplePath returns the people file location.
func (s *Store) PeoplePath() string { return s.peoplePath }

// TasksPath returns the tasks file location.
func (s *Store) TasksPath() string { return s.tasksPath }

// LoadSpaces reads the spaces file.
func (s *Store) LoadSpaces() ([]domain.Space, error) {
	var spaces []domain.Space
	if err := load(s.spacesPath, &spaces); err != nil {
		return nil, err
	}
	return spaces, nil
}

// SaveSpaces writes the spaces file.
func (s *Store) SaveSpaces(spaces []domain.Space) error {
	if spaces == nil {
		spaces = []domain.Space{}
	}
	return save(s.spacesPath, spaces)
}

// LoadPeople reads the people file.
func (s *Store) LoadPeople() ([]string, error) {
	var people []string
	if err := load(s.peoplePath, &people); err != nil {
		return nil, err
	}
	return people, nil
}

// SavePeople writes the people file.
func (s *Store) SavePeople(people []string) error {
	if people == nil {
		people = []string{}
	}
	return save(s.peoplePath, people)
}

// LoadTasks reads the tasks file.
func (s *Store) LoadTasks() ([]domain.Task, error) {
	var tasks []domain.Task
	if err := load(s.tasksPath, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// SaveTasks writes the tasks file.
func (s *Store) SaveTasks(tasks []domain.Task) error {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return save(s.tasksPath, tasks)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// load decodes path into v under a shared lock.
func load(path string, v any) error {
	lock, err := acquireLock(path, syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer releaseLock(lock)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", domain.ErrStoreNotFound, path)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(content, v)
	} else {
		err = json.Unmarshal(content, v)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// save encodes v to path under an exclusive lock, replacing the file atomically.
func save(path string, v any) error {
	lock, err := acquireLock(path, syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer releaseLock(lock)

	var content []byte
	if isYAML(path) {
		content, err = yaml.Marshal(v)
	} else {
		content, err = json.MarshalIndent(v, "", "  ")
		content = append(content, '\n')
	}
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func acquireLock(path string, lockType int) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	lock, err := os.OpenFile(path+".lock", os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	return lock, nil
}

func releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}
