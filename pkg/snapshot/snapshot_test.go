package snapshot

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/skillradar/pkg/model"
)

var tokenAlphabet = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func sample() model.Dataset {
	return model.Dataset{
		Tasks: []model.Task{
			{ID: 1, Name: "Læse artikel", Description: `Quotes "inside" & <tags>`},
			{ID: 4, Name: "B", Description: ""},
		},
		Competencies: []model.Competency{{ID: 2, Name: "Reception"}, {ID: 7, Name: "Mediation"}},
		Scores: model.Scores{
			{TaskID: 1, CompetencyID: 2}: 8,
			{TaskID: 4, CompetencyID: 2}: 4,
			{TaskID: 4, CompetencyID: 7}: 10,
		},
		SubjectName: "Ada Lovelace",
	}
}

func TestRoundTrip(t *testing.T) {
	ds := sample()
	token, err := Encode(ds)
	require.NoError(t, err)

	got, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, ds, got)
}

func TestRoundTripEmptyCollections(t *testing.T) {
	ds := model.Dataset{
		Tasks:        []model.Task{},
		Competencies: []model.Competency{{ID: 1, Name: "Only"}},
		Scores:       model.Scores{},
	}
	token, err := Encode(ds)
	require.NoError(t, err)

	got, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, ds, got)
}

func TestEncodeNilCollections(t *testing.T) {
	token, err := Encode(model.Dataset{})
	require.NoError(t, err)

	got, err := Decode(token)
	require.NoError(t, err)
	assert.Empty(t, got.Tasks)
	assert.Empty(t, got.Competencies)
}

func TestTokenIsURLAndStringSafe(t *testing.T) {
	token, err := Encode(sample())
	require.NoError(t, err)

	assert.Regexp(t, tokenAlphabet, token)
	assert.NotContains(t, token, `"`)
	assert.NotContains(t, token, `\`)
	assert.NotContains(t, token, "#")
}

func TestTokenIsCompact(t *testing.T) {
	ds := model.Dataset{Scores: model.Scores{}}
	for i := 1; i <= 30; i++ {
		ds.Tasks = append(ds.Tasks, model.Task{ID: i, Name: fmt.Sprintf("Task number %d", i), Description: "A longer description that repeats"})
		ds.Competencies = append(ds.Competencies, model.Competency{ID: i, Name: fmt.Sprintf("Competency %d", i)})
	}
	token, err := Encode(ds)
	require.NoError(t, err)

	plain := base64.RawURLEncoding.EncodedLen(len(mustJSON(t, ds)))
	assert.Less(t, len(token), plain)
}

func TestDecodeFailures(t *testing.T) {
	valid, err := Encode(sample())
	require.NoError(t, err)
	noKeys, err := pack([]byte(`{"foo":1}`))
	require.NoError(t, err)
	notObject, err := pack([]byte(`[1,2,3]`))
	require.NoError(t, err)
	nullDoc, err := pack([]byte(`null`))
	require.NoError(t, err)
	badJSON, err := pack([]byte(`{"tasks":[`))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"not base64", "!!!*"},
		{"truncated", valid[:len(valid)/2]},
		{"truncated by one", valid[:len(valid)-1]},
		{"not deflate", base64.RawURLEncoding.EncodeToString([]byte("hello, world"))},
		{"no tasks or competencies", noKeys},
		{"array document", notObject},
		{"null document", nullDoc},
		{"broken json", badJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ds model.Dataset
			var err error
			assert.NotPanics(t, func() { ds, err = Decode(tt.token) })
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Empty(t, ds.Tasks)
		})
	}
}

func TestDecodeOnlyCompetencies(t *testing.T) {
	token, err := pack([]byte(`{"competencies":[{"id":1,"name":"Reception"}]}`))
	require.NoError(t, err)

	ds, err := Decode(token)
	require.NoError(t, err)
	assert.Len(t, ds.Competencies, 1)
	assert.NotNil(t, ds.Tasks)
	assert.NotNil(t, ds.Scores)
}

func TestDecodePrunesOrphans(t *testing.T) {
	token, err := pack([]byte(`{
		"tasks":[{"id":1,"name":"A","description":""}],
		"competencies":[{"id":1,"name":"C"}],
		"scores":{"1":{"1":6,"2":9},"3":{"1":4}}
	}`))
	require.NoError(t, err)

	ds, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, model.Scores{{TaskID: 1, CompetencyID: 1}: 6}, ds.Scores)
}

func TestDecodeDropsInvalidEntities(t *testing.T) {
	token, err := pack([]byte(`{
		"tasks":[{"id":1,"name":"A"},{"id":1,"name":"B"}],
		"competencies":[{"id":1,"name":"X"},{"id":1,"name":"Y"},{"id":-3,"name":""}],
		"scores":{"1":{"1":8}}
	}`))
	require.NoError(t, err)

	ds, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, []model.Task{{ID: 1, Name: "A"}}, ds.Tasks)
	assert.Equal(t, []model.Competency{{ID: 1, Name: "X"}}, ds.Competencies)
	assert.Equal(t, model.Scores{{TaskID: 1, CompetencyID: 1}: 8}, ds.Scores)
}

func TestDecodeOversize(t *testing.T) {
	big := `{"tasks":[],"subjectName":"` + strings.Repeat("x", MaxPayload) + `"}`
	token, err := pack([]byte(big))
	require.NoError(t, err)

	_, err = Decode(token)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeToleratesPaddingAndStdAlphabet(t *testing.T) {
	ds := sample()
	token, err := Encode(ds)
	require.NoError(t, err)
	std := strings.NewReplacer("-", "+", "_", "/").Replace(token)
	for len(std)%4 != 0 {
		std += "="
	}

	got, err := Decode(std)
	require.NoError(t, err)
	assert.Equal(t, ds, got)
}

func TestFromFragment(t *testing.T) {
	ds := sample()
	frag, err := Fragment(ds)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(frag, "#d="))

	got, ok := FromFragment(frag)
	require.True(t, ok)
	assert.Equal(t, ds, got)

	got, ok = FromFragment(strings.TrimPrefix(frag, "#"))
	require.True(t, ok)
	assert.Equal(t, ds.SubjectName, got.SubjectName)

	for _, bad := range []string{"", "#", "#x=abc", "#d=", "#d=%%%", "#section-2"} {
		_, ok := FromFragment(bad)
		assert.False(t, ok, "fragment %q", bad)
	}
}

func TestShareURL(t *testing.T) {
	ds := sample()
	link, err := ShareURL("https://example.org/radar/index.html#old", ds)
	require.NoError(t, err)

	base, frag, found := strings.Cut(link, "#")
	require.True(t, found)
	assert.Equal(t, "https://example.org/radar/index.html", base)

	got, ok := FromFragment(frag)
	require.True(t, ok)
	assert.Equal(t, ds, got)
}
