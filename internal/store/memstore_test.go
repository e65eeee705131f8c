package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/skillradar/pkg/model"
)

// assertNoOrphans checks that every score entry resolves to a live task and competency.
func assertNoOrphans(t *testing.T, s *Store) {
	t.Helper()
	tasks := map[int]bool{}
	for _, task := range s.Tasks() {
		tasks[task.ID] = true
	}
	comps := map[int]bool{}
	for _, c := range s.Competencies() {
		comps[c.ID] = true
	}
	for k, v := range s.Scores() {
		assert.True(t, tasks[k.TaskID], "orphaned task id %d", k.TaskID)
		assert.True(t, comps[k.CompetencyID], "orphaned competency id %d", k.CompetencyID)
		assert.GreaterOrEqual(t, v, model.MinScore)
		assert.LessOrEqual(t, v, model.MaxScore)
	}
}

func TestAddTaskTrimsAndAssignsIDs(t *testing.T) {
	s := New()

	a, err := s.AddTask("  Essay  ", "  write one ")
	require.NoError(t, err)
	b, err := s.AddTask("Debate", "")
	require.NoError(t, err)

	assert.Equal(t, model.Task{ID: 1, Name: "Essay", Description: "write one"}, a)
	assert.Equal(t, 2, b.ID)
	assert.Len(t, s.Tasks(), 2)
}

func TestAddRejectsEmptyNames(t *testing.T) {
	s := New()

	_, err := s.AddTask("   ", "desc")
	assert.ErrorIs(t, err, ErrEmptyName)
	_, err = s.AddCompetency("\t\n")
	assert.ErrorIs(t, err, ErrEmptyName)

	assert.Empty(t, s.Tasks())
	assert.Empty(t, s.Competencies())

	// Rejected names must not consume ids.
	task, err := s.AddTask("Real", "")
	require.NoError(t, err)
	assert.Equal(t, 1, task.ID)
}

func TestIDsNeverReused(t *testing.T) {
	s := New()
	first, _ := s.AddCompetency("Reception")
	require.NoError(t, s.RemoveCompetency(first.ID))
	second, _ := s.AddCompetency("Production")

	assert.Equal(t, 2, second.ID)

	task, _ := s.AddTask("A", "")
	require.NoError(t, s.RemoveTask(task.ID))
	next, _ := s.AddTask("B", "")
	assert.Equal(t, 2, next.ID)
}

func TestSetScoreClampsAndRemoves(t *testing.T) {
	s := New()
	task, _ := s.AddTask("A", "")
	comp, _ := s.AddCompetency("Reception")

	tests := []struct {
		name  string
		value int
		want  int
	}{
		{"in range", 7, 7},
		{"above range clamps", 15, 10},
		{"lower bound", 1, 1},
		{"zero removes", 0, 0},
		{"negative removes", -4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, s.SetScore(task.ID, comp.ID, 5))
			require.NoError(t, s.SetScore(task.ID, comp.ID, tt.value))
			assert.Equal(t, tt.want, s.GetScore(task.ID, comp.ID))
			if tt.want == 0 {
				assert.Empty(t, s.Scores())
			}
		})
	}
}

func TestSetScoreZeroEqualsRemoveScore(t *testing.T) {
	a, b := New(), New()
	for _, s := range []*Store{a, b} {
		s.AddTask("A", "")
		s.AddCompetency("C")
		require.NoError(t, s.SetScore(1, 1, 6))
	}
	require.NoError(t, a.SetScore(1, 1, 0))
	require.NoError(t, b.RemoveScore(1, 1))

	assert.Equal(t, a.Scores(), b.Scores())
	assert.Equal(t, a.Document(), b.Document())
}

func TestSetScoreStaleIDs(t *testing.T) {
	s := New()
	s.AddTask("A", "")
	s.AddCompetency("C")

	assert.ErrorIs(t, s.SetScore(99, 1, 5), ErrNotFound)
	assert.ErrorIs(t, s.SetScore(1, 99, 5), ErrNotFound)
	assert.Empty(t, s.Scores())
	assert.ErrorIs(t, s.RemoveTask(42), ErrNotFound)
	assert.ErrorIs(t, s.RemoveCompetency(42), ErrNotFound)
}

func TestGetScoreUnsetIsZero(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.GetScore(1, 1))
}

func TestRemoveTaskCascades(t *testing.T) {
	s := Demo()

	require.NoError(t, s.RemoveTask(3))

	_, ok := s.Task(3)
	assert.False(t, ok)
	for k := range s.Scores() {
		assert.NotEqual(t, 3, k.TaskID)
	}
	assert.Len(t, s.Scores(), 8*4)
	assertNoOrphans(t, s)
}

func TestRemoveCompetencyCascades(t *testing.T) {
	s := Demo()

	require.NoError(t, s.RemoveCompetency(2))

	_, ok := s.Competency(2)
	assert.False(t, ok)
	for k := range s.Scores() {
		assert.NotEqual(t, 2, k.CompetencyID)
	}
	assert.Len(t, s.Scores(), 9*3)
	assertNoOrphans(t, s)
}

func TestRemoveLastCompetencyEmptiesScores(t *testing.T) {
	s := New()
	s.AddCompetency("Reception")
	s.AddTask("A", "")
	s.AddTask("B", "")
	require.NoError(t, s.SetScore(1, 1, 8))
	require.NoError(t, s.SetScore(2, 1, 4))

	require.NoError(t, s.RemoveCompetency(1))

	assert.Empty(t, s.Competencies())
	assert.Empty(t, s.Scores())
}

func TestInsertionOrderPreserved(t *testing.T) {
	s := New()
	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		_, err := s.AddCompetency(name)
		require.NoError(t, err)
	}
	require.NoError(t, s.RemoveCompetency(2))
	s.AddCompetency("Beta")

	var names []string
	for _, c := range s.Competencies() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Zeta", "Mid", "Beta"}, names)
}

func TestFromDocumentRepairsCounters(t *testing.T) {
	doc := &Document{
		Tasks:        []model.Task{{ID: 4, Name: "A"}},
		Competencies: []model.Competency{{ID: 7, Name: "C"}},
		Scores: model.Scores{
			{TaskID: 4, CompetencyID: 7}: 5,
			{TaskID: 5, CompetencyID: 7}: 5,
		},
	}
	s := FromDocument(doc)

	task, err := s.AddTask("B", "")
	require.NoError(t, err)
	comp, err := s.AddCompetency("D")
	require.NoError(t, err)

	assert.Equal(t, 5, task.ID)
	assert.Equal(t, 8, comp.ID)
	assert.Equal(t, model.Scores{{TaskID: 4, CompetencyID: 7}: 5}, s.Scores())
}

func TestFromDatasetIsReadOnly(t *testing.T) {
	ds := Demo().Dataset("Alice")
	s := FromDataset(ds)

	assert.True(t, s.ReadOnly())
	_, err := s.AddTask("X", "")
	assert.ErrorIs(t, err, ErrReadOnly)
	_, err = s.AddCompetency("X")
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.ErrorIs(t, s.RemoveTask(1), ErrReadOnly)
	assert.ErrorIs(t, s.RemoveCompetency(1), ErrReadOnly)
	assert.ErrorIs(t, s.SetScore(1, 1, 3), ErrReadOnly)
	assert.ErrorIs(t, s.RemoveScore(1, 1), ErrReadOnly)

	assert.Equal(t, ds.Scores, s.Scores())
	assert.Equal(t, ds.Tasks, s.Tasks())
}

func TestDatasetCopiesState(t *testing.T) {
	s := Demo()
	ds := s.Dataset("  Alice ")
	ds.Scores[model.ScoreKey{TaskID: 1, CompetencyID: 1}] = 1
	ds.Tasks[0].Name = "changed"

	assert.Equal(t, "Alice", ds.SubjectName)
	assert.Equal(t, 8, s.GetScore(1, 1))
	task, _ := s.Task(1)
	assert.NotEqual(t, "changed", task.Name)
}
