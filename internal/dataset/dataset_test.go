package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/summary-engine/pkg/types"
)

const sample = `{"id": 0, "summary": "S0", "articles": [{"title": "T", "text": "A."}]}
{"id": "one", "articles": [], "collection": "wcep"}

{"id": 2, "articles": [{"title": "T2", "text": "B."}]}
{"id": 3, "articles": []}
`

func TestWindow(t *testing.T) {
	tests := []struct {
		name string
		w    Window
		in   []int
		out  []int
	}{
		{"unbounded", All, []int{0, 5, 100}, nil},
		{"start", Window{Start: 2, Stop: -1}, []int{2, 3}, []int{0, 1}},
		{"stop", Window{Start: -1, Stop: 2}, []int{0, 1}, []int{2, 9}},
		{"both", Window{Start: 1, Stop: 3}, []int{1, 2}, []int{0, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, i := range tt.in {
				assert.True(t, tt.w.Contains(i), "index %d", i)
			}
			for _, i := range tt.out {
				assert.False(t, tt.w.Contains(i), "index %d", i)
			}
		})
	}
}

func TestReadClusters(t *testing.T) {
	got, err := ReadClusters(strings.NewReader(sample), All)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "0", got[0].ID)
	assert.Equal(t, "S0", got[0].Reference())
	assert.Equal(t, "A.", *got[0].Articles[0].Text)

	assert.Equal(t, "one", got[1].ID)
	assert.Nil(t, got[1].Summary)
	assert.Equal(t, map[string]any{"collection": "wcep"}, got[1].Metadata)

	assert.Equal(t, "2", got[2].ID)
}

func TestReadClustersWindow(t *testing.T) {
	got, err := ReadClusters(strings.NewReader(sample), Window{Start: 1, Stop: 3})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}

func TestReaderReportsIndex(t *testing.T) {
	r := NewReader(strings.NewReader(sample), Window{Start: 2, Stop: -1})
	c, idx, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Equal(t, "2", c.ID)
}

func TestReadClustersMalformed(t *testing.T) {
	_, err := ReadClusters(strings.NewReader("{\"id\": 1}\n{not json\n"), All)
	var ie *types.InputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "line 2", ie.Field)
}

func TestReaderYieldsMistypedRecords(t *testing.T) {
	input := `{"id": "a", "articles": [{"title": "T", "text": "A."}]}
{"id": "b", "articles": [{"title": "T", "text": "B."}, {"title": 5, "text": "C."}]}
{"id": 7, "summary": ["x"], "articles": []}
{"id": {"x": 1}, "articles": []}
{"id": "c", "articles": [{"title": "T", "text": "D."}]}
`
	got, err := ReadClusters(strings.NewReader(input), All)
	require.NoError(t, err)
	require.Len(t, got, 5)

	assert.Nil(t, got[0].Malformed)
	assert.Nil(t, got[4].Malformed)

	tests := []struct {
		i     int
		id    string
		field string
	}{
		{1, "b", "articles[1]"},
		{2, "7", "summary"},
		{3, "", "id"},
	}
	for _, tt := range tests {
		err := got[tt.i].Validate(false)
		var ie *types.InputError
		require.ErrorAs(t, err, &ie, "record %d", tt.i)
		assert.Equal(t, tt.id, ie.ClusterID)
		assert.Equal(t, tt.field, ie.Field)
	}
}

func TestLoadClustersGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.jsonl.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	got, err := LoadClusters(path, All)
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestLoadClustersMissingFile(t *testing.T) {
	_, err := LoadClusters(filepath.Join(t.TempDir(), "missing.jsonl"), All)
	assert.Error(t, err)
}

func TestPredictionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preds.jsonl")
	w, err := CreatePredictions(path)
	require.NoError(t, err)

	require.NoError(t, w.Write([]types.Prediction{{ClusterID: "a", Summary: "First <b>batch</b>."}}))
	require.NoError(t, w.Write([]types.Prediction{{ClusterID: "b", Summary: ""}, {ClusterID: "c", Summary: "Third."}}))
	assert.Equal(t, 3, w.Count())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"summary":"First <b>batch</b>."`)

	got, err := LoadPredictions(path)
	require.NoError(t, err)
	assert.Equal(t, []types.Prediction{
		{ClusterID: "a", Summary: "First <b>batch</b>."},
		{ClusterID: "b", Summary: ""},
		{ClusterID: "c", Summary: "Third."},
	}, got)
}

func TestCreatePredictionsTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preds.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"cluster_id\":\"old\",\"summary\":\"x\"}\n"), 0o644))

	w, err := CreatePredictions(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, err := LoadPredictions(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}
