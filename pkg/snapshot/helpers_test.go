package snapshot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kittclouds/skillradar/pkg/model"
)

func mustJSON(t *testing.T, ds model.Dataset) []byte {
	t.Helper()
	data, err := json.Marshal(ds)
	require.NoError(t, err)
	return data
}
