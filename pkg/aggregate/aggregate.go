// Package aggregate computes per-competency levels from a score matrix.
// Levels are recomputed on every call; nothing is cached between mutations.
package aggregate

import (
	"math"
	"sort"

	"github.com/kittclouds/skillradar/pkg/model"
)

// Level is the aggregate of one competency: the mean of its scores rounded
// to one decimal, or 0 when no task has scored it.
type Level struct {
	CompetencyID int     `json:"id"`
	Name         string  `json:"name"`
	Level        float64 `json:"level"`
}

// Levels returns one Level per competency in the view's competency order.
// An empty competency set yields an empty (non-nil) slice.
func Levels(v model.View) []Level {
	comps := v.Competencies()
	tasks := v.Tasks()
	out := make([]Level, 0, len(comps))
	for _, c := range comps {
		sum, count := 0, 0
		for _, t := range tasks {
			if p := v.Score(t.ID, c.ID); p > 0 {
				sum += p
				count++
			}
		}
		level := 0.0
		if count > 0 {
			level = Round1(float64(sum) / float64(count))
		}
		out = append(out, Level{CompetencyID: c.ID, Name: c.Name, Level: level})
	}
	return out
}

// Round1 rounds to one decimal place, halves away from zero.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Contribution is one task that scored the competency under inspection.
type Contribution struct {
	TaskID      int    `json:"taskId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Score       int    `json:"score"`
}

// Breakdown explains a competency's level: the level itself and every task
// that contributed to it, highest score first.
type Breakdown struct {
	Level
	Tasks []Contribution `json:"tasks"`
}

// Detail builds the Breakdown for competencyID. It reports false when the
// competency no longer exists in the view.
func Detail(v model.View, competencyID int) (Breakdown, bool) {
	var found *Level
	levels := Levels(v)
	for i := range levels {
		if levels[i].CompetencyID == competencyID {
			found = &levels[i]
			break
		}
	}
	if found == nil {
		return Breakdown{}, false
	}

	b := Breakdown{Level: *found, Tasks: []Contribution{}}
	for _, t := range v.Tasks() {
		if p := v.Score(t.ID, competencyID); p > 0 {
			b.Tasks = append(b.Tasks, Contribution{
				TaskID:      t.ID,
				Name:        t.Name,
				Description: t.Description,
				Score:       p,
			})
		}
	}
	// Stable so equal scores keep task order.
	sort.SliceStable(b.Tasks, func(i, j int) bool {
		return b.Tasks[i].Score > b.Tasks[j].Score
	})
	return b, true
}
