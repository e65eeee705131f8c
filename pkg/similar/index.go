// Package similar finds tasks with a comparable competency profile.
// A task's profile is its score vector over the competencies in order;
// unscored cells count as zero. Tasks without any score are not indexed.
package similar

import (
	"fmt"

	"github.com/fogfish/hnsw"
	"github.com/fogfish/hnsw/vector" // fogfish/hnsw/vector alias, imports kshard/vector
	kvector "github.com/kshard/vector"

	"github.com/kittclouds/skillradar/pkg/model"
)

// Index is an HNSW index over task profiles, rebuilt from a View on demand.
type Index struct {
	Index    *hnsw.HNSW[vector.VF32]
	profiles map[int][]float32
}

// Build indexes every scored task in v.
func Build(v model.View) *Index {
	ix := &Index{
		Index:    hnsw.New[vector.VF32](vector.SurfaceVF32(kvector.Cosine())),
		profiles: make(map[int][]float32),
	}
	comps := v.Competencies()
	if len(comps) == 0 {
		return ix
	}
	for _, t := range v.Tasks() {
		vec, scored := Profile(v, comps, t.ID)
		if !scored {
			continue
		}
		ix.profiles[t.ID] = vec
		ix.Index.Insert(vector.VF32{Key: uint32(t.ID), Vec: vec})
	}
	return ix
}

// Profile returns the task's scores scaled to [0,1], one entry per
// competency, and whether any of them is set.
func Profile(v model.View, comps []model.Competency, taskID int) ([]float32, bool) {
	vec := make([]float32, len(comps))
	scored := false
	for i, c := range comps {
		if p := v.Score(taskID, c.ID); p > 0 {
			vec[i] = float32(p) / model.MaxScore
			scored = true
		}
	}
	return vec, scored
}

// Size is the number of indexed tasks.
func (ix *Index) Size() int {
	return len(ix.profiles)
}

// Similar returns up to k task ids closest to taskID's profile, nearest
// first, excluding taskID itself.
func (ix *Index) Similar(taskID, k int) ([]int, error) {
	if k <= 0 {
		return nil, nil
	}
	vec, ok := ix.profiles[taskID]
	if !ok {
		return nil, fmt.Errorf("task %d has no scores", taskID)
	}

	// efSearch: usually k * 2 or similar, with a floor for tiny indexes.
	ef := (k + 1) * 2
	if ef < 100 {
		ef = 100
	}
	results := ix.Index.Search(vector.VF32{Vec: vec}, k+1, ef)

	ids := make([]int, 0, k)
	for _, r := range results {
		id := int(r.Key)
		if id == taskID {
			continue
		}
		ids = append(ids, id)
		if len(ids) == k {
			break
		}
	}
	return ids, nil
}
