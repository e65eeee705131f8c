// Package app wires the entity store, aggregation, radar chart and
// persistence into one editing session.
//
// Every successful mutation is followed, synchronously and in this order,
// by: recompute levels, notify subscribers (redraw + detail panel), persist.
// The store itself knows nothing about rendering or saving.
package app

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/kittclouds/skillradar/internal/store"
	"github.com/kittclouds/skillradar/pkg/aggregate"
	"github.com/kittclouds/skillradar/pkg/export"
	"github.com/kittclouds/skillradar/pkg/model"
	"github.com/kittclouds/skillradar/pkg/radar"
	"github.com/kittclouds/skillradar/pkg/similar"
	"github.com/kittclouds/skillradar/pkg/snapshot"
)

// Update is delivered to subscribers after every change.
type Update struct {
	Levels []aggregate.Level `json:"levels"`
	// Detail is the open detail panel, nil when closed.
	Detail *aggregate.Breakdown `json:"detail"`
}

// Session is one editing (or viewing) session.
type Session struct {
	store     *store.Store
	persister store.Persister
	chart     *radar.Chart
	logger    *slog.Logger
	subject   string

	selected    int
	hasSelected bool
	subscribers []func(Update)
}

// New creates an interactive session over st. p may be nil for memory-only use.
func New(st *store.Store, p store.Persister, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{store: st, persister: p, logger: logger}
	s.chart = radar.NewChart(radar.Interactive, radar.SelectorFunc(s.Select))
	return s
}

// NewShared creates the read-only session for a decoded snapshot.
func NewShared(ds model.Dataset, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{store: store.FromDataset(ds), logger: logger, subject: ds.SubjectName}
	s.chart = radar.NewChart(radar.ReadOnly, radar.SelectorFunc(s.Select))
	return s
}

// Subscribe registers fn to run after every change, in registration order.
func (s *Session) Subscribe(fn func(Update)) {
	s.subscribers = append(s.subscribers, fn)
}

// Store exposes the underlying entity store for read access.
func (s *Session) Store() *store.Store { return s.store }

// Chart returns the chart used for rendering and hit-testing.
func (s *Session) Chart() *radar.Chart { return s.chart }

// ReadOnly reports whether this is a shared, view-only session.
func (s *Session) ReadOnly() bool { return s.store.ReadOnly() }

// Subject is the name shown on shared views and exports.
func (s *Session) Subject() string { return s.subject }

// SetSubject names the person the data describes.
func (s *Session) SetSubject(name string) { s.subject = strings.TrimSpace(name) }

// =============================================================================
// Mutations
// =============================================================================

// AddTask creates a task. ErrEmptyName leaves everything untouched.
func (s *Session) AddTask(name, description string) (model.Task, error) {
	t, err := s.store.AddTask(name, description)
	if err != nil {
		return t, err
	}
	s.changed()
	return t, nil
}

func (s *Session) RemoveTask(id int) error {
	return s.mutate(s.store.RemoveTask(id))
}

func (s *Session) AddCompetency(name string) (model.Competency, error) {
	c, err := s.store.AddCompetency(name)
	if err != nil {
		return c, err
	}
	s.changed()
	return c, nil
}

func (s *Session) RemoveCompetency(id int) error {
	return s.mutate(s.store.RemoveCompetency(id))
}

// SetScore stores value; zero or less removes the score.
func (s *Session) SetScore(taskID, competencyID, value int) error {
	return s.mutate(s.store.SetScore(taskID, competencyID, value))
}

// SetScoreInput applies raw form input: non-numeric input counts as 0
// (remove), numbers are clamped to [0,10] first.
func (s *Session) SetScoreInput(taskID, competencyID int, raw string) (int, error) {
	v := ParseScore(raw)
	return v, s.SetScore(taskID, competencyID, v)
}

func (s *Session) RemoveScore(taskID, competencyID int) error {
	return s.mutate(s.store.RemoveScore(taskID, competencyID))
}

// ParseScore turns score input into [0,10]; anything unparsable is 0.
func ParseScore(raw string) int {
	raw = strings.TrimSpace(raw)
	v, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != f {
			return 0
		}
		// Truncate like integer parsing of "7.9" in a number input.
		if f > float64(model.MaxScore) {
			return model.MaxScore
		}
		if f < 0 {
			return 0
		}
		v = int(f)
	}
	if v < 0 {
		return 0
	}
	if v > model.MaxScore {
		return model.MaxScore
	}
	return v
}

func (s *Session) mutate(err error) error {
	if err != nil {
		return err
	}
	s.changed()
	return nil
}

// changed runs the post-mutation sequence.
func (s *Session) changed() {
	s.publish()
	s.persist()
}

func (s *Session) publish() {
	u := Update{Levels: aggregate.Levels(s.store)}
	if s.hasSelected {
		if b, ok := aggregate.Detail(s.store, s.selected); ok {
			u.Detail = &b
		} else {
			// The competency was deleted under the open panel.
			s.hasSelected = false
		}
	}
	for _, fn := range s.subscribers {
		fn(u)
	}
}

func (s *Session) persist() {
	if s.persister == nil || s.store.ReadOnly() {
		return
	}
	if err := s.persister.Save(context.Background(), s.store.Document()); err != nil {
		s.logger.Warn("could not save state, continuing in memory", "error", err)
	}
}

// Refresh re-publishes the current state without mutating, e.g. after a resize.
func (s *Session) Refresh() {
	s.publish()
}

// =============================================================================
// Chart and detail panel
// =============================================================================

// Levels recomputes the aggregate levels.
func (s *Session) Levels() []aggregate.Level {
	return aggregate.Levels(s.store)
}

// Render draws the current levels onto surface.
func (s *Session) Render(surface radar.Surface) radar.Frame {
	return s.chart.Render(surface, s.Levels())
}

// Click resolves a click on a w x h chart and opens the detail panel on a hit.
func (s *Session) Click(w, h, x, y float64) (int, bool) {
	return s.chart.Click(w, h, x, y, s.Levels())
}

// Select opens the detail panel for competencyID. Stale ids are ignored.
func (s *Session) Select(competencyID int) {
	if _, ok := s.store.Competency(competencyID); !ok {
		return
	}
	s.selected, s.hasSelected = competencyID, true
	s.publish()
}

// CloseDetail closes the detail panel.
func (s *Session) CloseDetail() {
	if !s.hasSelected {
		return
	}
	s.hasSelected = false
	s.publish()
}

// Detail returns the open detail panel's content.
func (s *Session) Detail() (aggregate.Breakdown, bool) {
	if !s.hasSelected {
		return aggregate.Breakdown{}, false
	}
	return aggregate.Detail(s.store, s.selected)
}

// Similar lists up to k tasks whose competency profile is closest to taskID's.
func (s *Session) Similar(taskID, k int) ([]model.Task, error) {
	ids, err := similar.Build(s.store).Similar(taskID, k)
	if err != nil {
		return nil, err
	}
	out := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := s.store.Task(id); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// =============================================================================
// Sharing
// =============================================================================

// Dataset returns the current snapshot bundle.
func (s *Session) Dataset() model.Dataset {
	return s.store.Dataset(s.subject)
}

// ShareURL builds a "#d=" link to a read-only view of the current data.
func (s *Session) ShareURL(base string) (string, error) {
	return snapshot.ShareURL(base, s.Dataset())
}

// ExportHTML renders the standalone document.
func (s *Session) ExportHTML(opts export.Options) ([]byte, error) {
	return export.Document(s.Dataset(), opts)
}
