package testutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGenerator(t *testing.T) {
	next := IDGenerator(true)
	first, second := next(), next()
	assert.Equal(t, "00000001-0000-4000-8000-000000000001", first)
	assert.Equal(t, "00000002-0000-4000-8000-000000000002", second)

	parsed, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())

	other := IDGenerator(true)
	assert.Equal(t, first, other(), "generators are independent")

	random := IDGenerator(false)
	assert.NotEqual(t, random(), random())
}

func TestClock(t *testing.T) {
	now := Clock(true)
	assert.Equal(t, BaseTime, now())
	assert.Equal(t, BaseTime.Add(time.Second), now())

	wall := Clock(false)
	assert.WithinDuration(t, time.Now(), wall(), time.Minute)
}

func TestCreateTempFiles(t *testing.T) {
	path := CreateTempFile(t, "a.txt", "hello")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	dir := CreateTempDir(t, map[string]string{"nested/b.txt": "b"})
	data, err = os.ReadFile(filepath.Join(dir, "nested", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
}
