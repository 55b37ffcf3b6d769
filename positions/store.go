// Package positions persists named desk heights and their optional
// accelerator in a YAML file.
package positions

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/ionut-t/goaccel/core"
	"github.com/ionut-t/goaccel/internal/atomicfile"
	"gopkg.in/yaml.v3"
)

// Result is the outcome of CreatePosition.
type Result string

const (
	ResultSuccess   Result = "success"
	ResultDuplicate Result = "duplicate"
)

var (
	ErrNotFound    = errors.New("position not found")
	ErrPathMissing = errors.New("positions file path required")
)

// Position is a saved desk height.
type Position struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Value       int    `yaml:"value"`
	Accelerator string `yaml:"accelerator,omitempty"`
}

// Data is the content of the positions file.
type Data struct {
	MacAddress     string     `yaml:"mac_address,omitempty"`
	SavedPositions []Position `yaml:"saved_positions"`
}

// Store reads and writes the positions file. Every operation reloads the
// file so edits made by other processes are picked up.
type Store struct {
	path string
	mu   sync.Mutex
}

// Open returns a store backed by path, creating an empty file if missing.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrPathMissing
	}

	s := &Store{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.write(Data{SavedPositions: []Position{}}); err != nil {
			return nil, err
		}
		slog.Info("[positions] created positions file", "path", path)
	} else if err != nil {
		return nil, fmt.Errorf("open positions: %w", err)
	}
	return s, nil
}

// Path returns the positions file path.
func (s *Store) Path() string {
	return s.path
}

// Data returns the full content of the positions file.
func (s *Store) Data() (Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Positions returns the saved positions in file order.
func (s *Store) Positions() ([]Position, error) {
	data, err := s.Data()
	if err != nil {
		return nil, err
	}
	return data.SavedPositions, nil
}

// CreatePosition saves a new position. Names are unique; an existing name
// yields ResultDuplicate and leaves the file untouched. An empty
// accelerator means the position has none.
func (s *Store) CreatePosition(name string, height int, accelerator string) (Result, error) {
	accelerator = strings.TrimSpace(accelerator)
	if accelerator != "" {
		acc, err := core.Parse(accelerator)
		if err != nil {
			return "", err
		}
		accelerator = acc.String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return "", err
	}

	if slices.ContainsFunc(data.SavedPositions, func(p Position) bool { return p.Name == name }) {
		slog.Debug("[positions] duplicate position", "name", name)
		return ResultDuplicate, nil
	}

	data.SavedPositions = append(data.SavedPositions, Position{
		ID:          uuid.NewString(),
		Name:        name,
		Value:       height,
		Accelerator: accelerator,
	})
	if err := s.write(data); err != nil {
		return "", err
	}

	slog.Info("[positions] position created", "name", name, "value", height, "accelerator", accelerator)
	return ResultSuccess, nil
}

// Remove deletes the position called name and returns the remaining ones.
func (s *Store) Remove(name string) ([]Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(data.SavedPositions, func(p Position) bool { return p.Name == name })
	if idx < 0 {
		return data.SavedPositions, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	data.SavedPositions = slices.Delete(data.SavedPositions, idx, idx+1)
	if err := s.write(data); err != nil {
		return nil, err
	}

	slog.Info("[positions] position removed", "name", name)
	return data.SavedPositions, nil
}

// Raw returns the positions file as stored on disk.
func (s *Store) Raw() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.ReadFile(s.path)
}

func (s *Store) read() (Data, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return Data{}, fmt.Errorf("read positions: %w", err)
	}

	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Data{}, fmt.Errorf("parse positions %s: %w", s.path, err)
	}
	if data.SavedPositions == nil {
		data.SavedPositions = []Position{}
	}
	return data, nil
}

func (s *Store) write(data Data) error {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("save positions: marshal: %w", err)
	}
	if err := atomicfile.Write(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("save positions: %w", err)
	}
	return nil
}
