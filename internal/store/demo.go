package store

import "github.com/kittclouds/skillradar/pkg/model"

// Demo returns a store seeded with a language-skills example: four
// competencies, nine tasks and a fully scored matrix.
func Demo() *Store {
	competencies := []model.Competency{
		{ID: 1, Name: "Reception"},
		{ID: 2, Name: "Production"},
		{ID: 3, Name: "Interaction"},
		{ID: 4, Name: "Mediation"},
	}
	tasks := []model.Task{
		{ID: 1, Name: "Read and understand an authentic article", Description: "Read an article and answer comprehension and analysis questions"},
		{ID: 2, Name: "Write an argumentative text", Description: "Write a short argumentative text from a given perspective"},
		{ID: 3, Name: "Group debate on a topic", Description: "Take part in a structured debate with prepared arguments"},
		{ID: 4, Name: "Translate and explain an excerpt", Description: "Translate an excerpt and explain the choices made for the reader"},
		{ID: 5, Name: "Listen to a podcast and take notes", Description: "Listen to a podcast and produce structured notes"},
		{ID: 6, Name: "Presentation with slides", Description: "Give a short presentation with visual support"},
		{ID: 7, Name: "Compare two texts", Description: "Read two texts and write a comparative analysis"},
		{ID: 8, Name: "Role play: conversation in a shop", Description: "Act out a situational conversation (e.g. purchase or return) with a partner"},
		{ID: 9, Name: "Summarise an audio source", Description: "Listen to an audio source and write a precise summary"},
	}
	matrix := map[int][4]int{
		1: {8, 2, 1, 5},
		2: {4, 9, 2, 3},
		3: {5, 5, 9, 4},
		4: {6, 4, 2, 9},
		5: {8, 6, 1, 3},
		6: {3, 8, 7, 5},
		7: {7, 4, 2, 8},
		8: {4, 5, 9, 3},
		9: {7, 7, 2, 6},
	}
	scores := make(model.Scores)
	for taskID, row := range matrix {
		for i, v := range row {
			scores[model.ScoreKey{TaskID: taskID, CompetencyID: i + 1}] = v
		}
	}
	return FromDocument(&Document{
		Tasks:            tasks,
		Competencies:     competencies,
		Scores:           scores,
		NextTaskID:       10,
		NextCompetencyID: 5,
	})
}
