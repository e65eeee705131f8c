package store

import (
	"strings"
	"sync"

	"github.com/kittclouds/skillradar/pkg/model"
)

// Store is the in-memory entity store: tasks and competencies in insertion
// order plus the sparse score relation. It holds no callbacks; callers
// re-aggregate, redraw and persist after each mutation.
type Store struct {
	mu               sync.RWMutex
	tasks            []model.Task
	competencies     []model.Competency
	scores           model.Scores
	nextTaskID       int
	nextCompetencyID int
	readOnly         bool
}

// New creates an empty, writable store.
func New() *Store {
	return &Store{
		scores:           make(model.Scores),
		nextTaskID:       1,
		nextCompetencyID: 1,
	}
}

// FromDocument rebuilds a writable store from a persisted document.
// Invalid entities and unresolved score entries are dropped, and counters are
// raised past the highest id (and never below 1) so ids are never reused.
func FromDocument(doc *Document) *Store {
	s := New()
	if doc == nil {
		return s
	}
	ds := model.Dataset{
		Tasks:        append([]model.Task{}, doc.Tasks...),
		Competencies: append([]model.Competency{}, doc.Competencies...),
		Scores:       doc.Scores.Clone(),
	}
	ds.Prune()
	s.tasks = ds.Tasks
	s.competencies = ds.Competencies
	s.scores = ds.Scores

	s.nextTaskID = max(1, doc.NextTaskID)
	for _, t := range s.tasks {
		s.nextTaskID = max(s.nextTaskID, t.ID+1)
	}
	s.nextCompetencyID = max(1, doc.NextCompetencyID)
	for _, c := range s.competencies {
		s.nextCompetencyID = max(s.nextCompetencyID, c.ID+1)
	}
	return s
}

// FromDataset builds a read-only store over a decoded snapshot.
func FromDataset(ds model.Dataset) *Store {
	s := FromDocument(&Document{
		Tasks:        ds.Tasks,
		Competencies: ds.Competencies,
		Scores:       ds.Scores,
	})
	s.readOnly = true
	return s
}

// ReadOnly reports whether mutations are refused.
func (s *Store) ReadOnly() bool {
	return s.readOnly
}

// =============================================================================
// Tasks
// =============================================================================

// AddTask appends a task with the next id. The name is trimmed and must not be empty.
func (s *Store) AddTask(name, description string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readOnly {
		return model.Task{}, ErrReadOnly
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Task{}, ErrEmptyName
	}
	t := model.Task{ID: s.nextTaskID, Name: name, Description: strings.TrimSpace(description)}
	s.nextTaskID++
	s.tasks = append(s.tasks, t)
	return t, nil
}

// RemoveTask deletes a task and every score entry keyed by it.
func (s *Store) RemoveTask(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readOnly {
		return ErrReadOnly
	}
	idx := s.taskIndex(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	for k := range s.scores {
		if k.TaskID == id {
			delete(s.scores, k)
		}
	}
	return nil
}

// Task returns the task with the given id.
func (s *Store) Task(id int) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.taskIndex(id); idx >= 0 {
		return s.tasks[idx], true
	}
	return model.Task{}, false
}

// Tasks returns a copy of all tasks in insertion order.
func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// =============================================================================
// Competencies
// =============================================================================

// AddCompetency appends a competency with the next id.
func (s *Store) AddCompetency(name string) (model.Competency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readOnly {
		return model.Competency{}, ErrReadOnly
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Competency{}, ErrEmptyName
	}
	c := model.Competency{ID: s.nextCompetencyID, Name: name}
	s.nextCompetencyID++
	s.competencies = append(s.competencies, c)
	return c, nil
}

// RemoveCompetency deletes a competency and its column from every task's scores.
func (s *Store) RemoveCompetency(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readOnly {
		return ErrReadOnly
	}
	idx := s.competencyIndex(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.competencies = append(s.competencies[:idx], s.competencies[idx+1:]...)
	for k := range s.scores {
		if k.CompetencyID == id {
			delete(s.scores, k)
		}
	}
	return nil
}

// Competency returns the competency with the given id.
func (s *Store) Competency(id int) (model.Competency, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.competencyIndex(id); idx >= 0 {
		return s.competencies[idx], true
	}
	return model.Competency{}, false
}

// Competencies returns a copy of all competencies in insertion order.
func (s *Store) Competencies() []model.Competency {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Competency, len(s.competencies))
	copy(out, s.competencies)
	return out
}

// =============================================================================
// Scores
// =============================================================================

// SetScore stores a score for an existing (task, competency) pair.
// Values of zero or less remove the entry; larger values are clamped to [1,10].
func (s *Store) SetScore(taskID, competencyID, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readOnly {
		return ErrReadOnly
	}
	if s.taskIndex(taskID) < 0 || s.competencyIndex(competencyID) < 0 {
		return ErrNotFound
	}
	key := model.ScoreKey{TaskID: taskID, CompetencyID: competencyID}
	if value <= 0 {
		delete(s.scores, key)
		return nil
	}
	s.scores[key] = model.ClampScore(value)
	return nil
}

// RemoveScore deletes a score entry. Removing an absent entry is a no-op.
func (s *Store) RemoveScore(taskID, competencyID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readOnly {
		return ErrReadOnly
	}
	delete(s.scores, model.ScoreKey{TaskID: taskID, CompetencyID: competencyID})
	return nil
}

// Score returns the stored score, or 0 when the pair is unscored.
func (s *Store) Score(taskID, competencyID int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scores.Get(taskID, competencyID)
}

// GetScore is Score under the name used by the editing forms.
func (s *Store) GetScore(taskID, competencyID int) int {
	return s.Score(taskID, competencyID)
}

// Scores returns a copy of the score relation.
func (s *Store) Scores() model.Scores {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scores.Clone()
}

// =============================================================================
// Export
// =============================================================================

// Document returns the persisted form, counters included.
func (s *Store) Document() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &Document{
		Tasks:            append([]model.Task{}, s.tasks...),
		Competencies:     append([]model.Competency{}, s.competencies...),
		Scores:           s.scores.Clone(),
		NextTaskID:       s.nextTaskID,
		NextCompetencyID: s.nextCompetencyID,
	}
}

// Dataset returns the portable bundle used by snapshots.
func (s *Store) Dataset(subjectName string) model.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return model.Dataset{
		Tasks:        append([]model.Task{}, s.tasks...),
		Competencies: append([]model.Competency{}, s.competencies...),
		Scores:       s.scores.Clone(),
		SubjectName:  strings.TrimSpace(subjectName),
	}
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Store) taskIndex(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) competencyIndex(id int) int {
	for i, c := range s.competencies {
		if c.ID == id {
			return i
		}
	}
	return -1
}
