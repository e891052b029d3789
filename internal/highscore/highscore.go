// Package highscore persists the best score across sessions.
package highscore

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ErrCorrupt reports a stored record that could not be understood. The
// store resets itself to 0 when it sees one.
var ErrCorrupt = errors.New("corrupt high score record")

// Store reads and writes the high score.
type Store interface {
	HighScore() (int, error)
	SaveScore(score int) error
}

// Update saves score if it beats the stored high score. A corrupt record
// counts as 0.
func Update(s Store, score int) (bool, error) {
	best, err := s.HighScore()
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return false, err
	}
	if score <= best {
		return false, nil
	}
	if err := s.SaveScore(score); err != nil {
		return false, err
	}
	return true, nil
}

type record struct {
	HighScore  *int   `yaml:"highScore"`
	LastPlayed string `yaml:"lastPlayed,omitempty"`
}

func encode(score int, at time.Time) ([]byte, error) {
	data, err := yaml.Marshal(record{HighScore: &score, LastPlayed: at.UTC().Format(time.RFC3339)})
	if err != nil {
		return nil, fmt.Errorf("marshal high score: %w", err)
	}
	return data, nil
}

func decode(data []byte) (int, error) {
	var r record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if r.HighScore == nil {
		return 0, fmt.Errorf("%w: missing highScore", ErrCorrupt)
	}
	if *r.HighScore < 0 {
		return 0, fmt.Errorf("%w: negative highScore %d", ErrCorrupt, *r.HighScore)
	}
	return *r.HighScore, nil
}

// Storage locations inside the gdata app directory.
const (
	scoreObject   = "score"
	scoreProperty = "high"
)

// GdataStore keeps the record in the per-user data directory managed by gdata.
type GdataStore struct {
	mu  sync.Mutex
	m   *gdata.Manager
	now func() time.Time
}

// OpenGdata opens (creating if needed) the data directory for appName.
func OpenGdata(appName string) (*GdataStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open gdata %q: %w", appName, err)
	}
	return NewGdataStore(m), nil
}

// Open returns the gdata store for appName, falling back to an in-memory
// store when the data directory is unavailable. Scores then last only for
// the life of the process.
func Open(appName string, logger *log.Logger) Store {
	s, err := OpenGdata(appName)
	if err != nil {
		logger.Warn("high scores will not persist", "err", err)
		return NewMemoryStore()
	}
	return s
}

// NewGdataStore wraps an open gdata manager.
func NewGdataStore(m *gdata.Manager) *GdataStore {
	return &GdataStore{m: m, now: time.Now}
}

// HighScore returns the stored score, or 0 if nothing has been saved yet.
func (s *GdataStore) HighScore() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.m.ObjectPropExists(scoreObject, scoreProperty) {
		return 0, nil
	}
	data, err := s.m.LoadObjectProp(scoreObject, scoreProperty)
	if err != nil {
		return 0, fmt.Errorf("load high score: %w", err)
	}
	score, err := decode(data)
	if err != nil {
		if resetErr := s.save(0); resetErr != nil {
			return 0, errors.Join(err, resetErr)
		}
		return 0, err
	}
	return score, nil
}

// SaveScore overwrites the stored score.
func (s *GdataStore) SaveScore(score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(score)
}

func (s *GdataStore) save(score int) error {
	data, err := encode(score, s.now())
	if err != nil {
		return err
	}
	if err := s.m.SaveObjectProp(scoreObject, scoreProperty, data); err != nil {
		return fmt.Errorf("save high score: %w", err)
	}
	return nil
}

// MemoryStore keeps the encoded record in memory. It stands in when no
// data directory is available and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	data    []byte
	SaveErr error // Returned by SaveScore when set
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SetRaw replaces the stored bytes.
func (s *MemoryStore) SetRaw(data []byte) {
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

// Raw returns the stored bytes.
func (s *MemoryStore) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// HighScore decodes the stored record, resetting it to 0 if corrupt.
func (s *MemoryStore) HighScore() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return 0, nil
	}
	score, err := decode(s.data)
	if err != nil {
		data, encErr := encode(0, time.Now())
		if encErr != nil {
			return 0, errors.Join(err, encErr)
		}
		s.data = data
		return 0, err
	}
	return score, nil
}

// SaveScore stores score unless SaveErr is set.
func (s *MemoryStore) SaveScore(score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	data, err := encode(score, time.Now())
	if err != nil {
		return err
	}
	s.data = data
	return nil
}
