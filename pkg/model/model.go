// Package model holds the entity types shared by the store, the aggregation
// engine, the radar chart and the snapshot codec.
package model

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Score bounds. Zero is never stored; it is the "unscored" sentinel.
const (
	MinScore = 1
	MaxScore = 10
)

// Task is a scorable activity.
type Task struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Competency is a skill axis on the radar.
type Competency struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ScoreKey addresses one cell of the sparse score matrix.
type ScoreKey struct {
	TaskID       int
	CompetencyID int
}

// Scores is the sparse (task, competency) -> score relation.
// It is keyed by pair rather than nested so cascading deletes are a single scan.
type Scores map[ScoreKey]int

// ClampScore forces v into [MinScore, MaxScore].
func ClampScore(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

// Get returns the score for the pair or 0 when unscored.
func (s Scores) Get(taskID, competencyID int) int {
	return s[ScoreKey{TaskID: taskID, CompetencyID: competencyID}]
}

// Clone returns an independent copy.
func (s Scores) Clone() Scores {
	out := make(Scores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Keys returns the keys ordered by task id, then competency id.
func (s Scores) Keys() []ScoreKey {
	keys := make([]ScoreKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].TaskID != keys[j].TaskID {
			return keys[i].TaskID < keys[j].TaskID
		}
		return keys[i].CompetencyID < keys[j].CompetencyID
	})
	return keys
}

// MarshalJSON writes the nested {"taskId": {"competencyId": score}} form.
func (s Scores) MarshalJSON() ([]byte, error) {
	nested := make(map[string]map[string]int)
	for k, v := range s {
		row := strconv.Itoa(k.TaskID)
		if nested[row] == nil {
			nested[row] = make(map[string]int)
		}
		nested[row][strconv.Itoa(k.CompetencyID)] = v
	}
	return json.Marshal(nested)
}

// UnmarshalJSON reads the nested form. Entries with non-numeric keys or
// values at or below zero are skipped; values above the scale are clamped.
func (s *Scores) UnmarshalJSON(data []byte) error {
	var nested map[string]map[string]float64
	if err := json.Unmarshal(data, &nested); err != nil {
		return err
	}
	out := make(Scores)
	for row, cols := range nested {
		taskID, err := strconv.Atoi(row)
		if err != nil {
			continue
		}
		for col, v := range cols {
			competencyID, err := strconv.Atoi(col)
			if err != nil {
				continue
			}
			// Bound the float first; converting an out-of-range value to int
			// is platform dependent.
			if math.IsNaN(v) || v <= 0 {
				continue
			}
			score := int(math.Round(math.Min(v, MaxScore)))
			if score <= 0 {
				continue
			}
			out[ScoreKey{TaskID: taskID, CompetencyID: competencyID}] = ClampScore(score)
		}
	}
	*s = out
	return nil
}

// View is a read-only source of tasks, competencies and scores. Both the
// editable store and a decoded snapshot satisfy it.
type View interface {
	Tasks() []Task
	Competencies() []Competency
	Score(taskID, competencyID int) int
}

// Dataset is the portable bundle exchanged through snapshots.
// It carries no id counters; ids are only unique within the bundle.
type Dataset struct {
	Tasks        []Task       `json:"tasks"`
	Competencies []Competency `json:"competencies"`
	Scores       Scores       `json:"scores"`
	SubjectName  string       `json:"subjectName,omitempty"`
}

// DatasetView adapts a Dataset to View.
type DatasetView struct {
	ds *Dataset
}

// View returns a read-only View over the dataset.
func (d *Dataset) View() DatasetView {
	return DatasetView{ds: d}
}

func (v DatasetView) Tasks() []Task {
	out := make([]Task, len(v.ds.Tasks))
	copy(out, v.ds.Tasks)
	return out
}

func (v DatasetView) Competencies() []Competency {
	out := make([]Competency, len(v.ds.Competencies))
	copy(out, v.ds.Competencies)
	return out
}

func (v DatasetView) Score(taskID, competencyID int) int {
	return v.ds.Scores.Get(taskID, competencyID)
}

// Prune drops entities whose id is not positive, repeats an earlier id or
// whose name is blank (the first occurrence wins), then score entries whose
// ids do not resolve within the bundle or whose value lies outside the scale.
// It returns the number of entries removed.
func (d *Dataset) Prune() int {
	removed := 0

	tasks := make(map[int]bool, len(d.Tasks))
	keptTasks := make([]Task, 0, len(d.Tasks))
	for _, t := range d.Tasks {
		if t.ID < 1 || tasks[t.ID] || strings.TrimSpace(t.Name) == "" {
			removed++
			continue
		}
		tasks[t.ID] = true
		keptTasks = append(keptTasks, t)
	}
	d.Tasks = keptTasks

	comps := make(map[int]bool, len(d.Competencies))
	keptComps := make([]Competency, 0, len(d.Competencies))
	for _, c := range d.Competencies {
		if c.ID < 1 || comps[c.ID] || strings.TrimSpace(c.Name) == "" {
			removed++
			continue
		}
		comps[c.ID] = true
		keptComps = append(keptComps, c)
	}
	d.Competencies = keptComps

	if d.Scores == nil {
		d.Scores = make(Scores)
	}
	for k, v := range d.Scores {
		if !tasks[k.TaskID] || !comps[k.CompetencyID] || v < MinScore || v > MaxScore {
			delete(d.Scores, k)
			removed++
		}
	}
	return removed
}
