package dataset

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTraining(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.csv")
	second := filepath.Join(dir, "b.csv")
	mustWrite(t, first, "0,0,cat\n1, 1.5,dog\n\n0.5,-2,cat\n")
	mustWrite(t, second, "3,4,bird\n")

	set, err := LoadTraining(first, second)
	require.NoError(t, err)

	assert.Equal(t, []string{"cat", "dog", "bird"}, set.Labels)
	assert.Equal(t, 2, set.Width())
	require.Len(t, set.Examples, 4)
	assert.Equal(t, Example{Features: []float64{1, 1.5}, Label: "dog"}, set.Examples[1])
	assert.Equal(t, Example{Features: []float64{3, 4}, Label: "bird"}, set.Examples[3])
}

func TestLoadTrainingRejectsRaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.csv")
	mustWrite(t, path, "0,0,A\n1,B\n")

	_, err := LoadTraining(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRaggedRows))
	assert.Contains(t, err.Error(), "train.csv:2")
}

func TestLoadTrainingRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.csv")
	mustWrite(t, bad, "0,x,A\n")
	_, err := LoadTraining(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column 2")

	short := filepath.Join(dir, "short.csv")
	mustWrite(t, short, "A\n")
	_, err = LoadTraining(short)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.csv")
	mustWrite(t, empty, "")
	_, err = LoadTraining(empty)
	assert.Error(t, err)
}

func TestLoadTest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")
	mustWrite(t, path, "r1,0,0\nr2,1,1\n")

	rows, err := LoadTest(path)
	require.NoError(t, err)
	assert.Equal(t, []TestRow{
		{ID: "r1", Features: []float64{0, 0}},
		{ID: "r2", Features: []float64{1, 1}},
	}, rows)
}
