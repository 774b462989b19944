package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/restfire/packages/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Compare_NewSnapshot(t *testing.T) {
	dir := t.TempDir()
	manager := NewManager(dir, "TestUsers/get user", true)

	result := manager.Compare("getUser", map[string]any{"id": 1, "name": "John"})

	assert.True(t, result.Passed, result.Message)
	assert.True(t, result.IsNew)
	assert.Equal(t, filepath.Join(dir, SnapshotDir, "TestUsers_get_user.snap.json"), manager.Path())
	_, err := os.Stat(manager.Path())
	assert.NoError(t, err)
}

func TestManager_Compare_ExistingSnapshot_Match(t *testing.T) {
	dir := t.TempDir()
	data := map[string]any{"id": 1, "name": "John"}

	require.True(t, NewManager(dir, "T", true).Compare("getUser", data).IsNew)

	result := NewManager(dir, "T", false).Compare("getUser", map[string]any{"id": 1.0, "name": "John"})
	assert.True(t, result.Passed, result.Message)
	assert.False(t, result.IsNew)
}

func TestManager_Compare_ExistingSnapshot_Mismatch(t *testing.T) {
	dir := t.TempDir()
	require.True(t, NewManager(dir, "T", true).Compare("getUser", map[string]any{"name": "John"}).Passed)

	result := NewManager(dir, "T", false).Compare("getUser", map[string]any{"name": "Jane"})
	assert.False(t, result.Passed)
	assert.Contains(t, result.Message, "mismatch")
	assert.Contains(t, result.Message, "Jane")
}

func TestManager_Compare_UpdateMode(t *testing.T) {
	dir := t.TempDir()
	require.True(t, NewManager(dir, "T", true).Compare("k", "old").Passed)

	result := NewManager(dir, "T", true).Compare("k", "new")
	assert.True(t, result.Passed)
	assert.True(t, result.WasUpdated)

	assert.True(t, NewManager(dir, "T", false).Compare("k", "new").Passed)
}

func TestManager_Compare_MissingWithoutUpdate(t *testing.T) {
	result := NewManager(t.TempDir(), "T", false).Compare("absent", 1)
	assert.False(t, result.Passed)
	assert.Contains(t, result.Message, UpdateEnv)
}

func TestManager_Compare_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, "T", false)
	require.NoError(t, os.MkdirAll(filepath.Dir(m.Path()), 0755))
	require.NoError(t, os.WriteFile(m.Path(), []byte("{"), 0644))

	result := m.Compare("k", 1)
	assert.False(t, result.Passed)
	assert.Contains(t, result.Message, "failed to load snapshots")
}

func TestManager_Matches(t *testing.T) {
	dir := t.TempDir()
	recorder := NewManager(dir, "T", true)
	require.True(t, recorder.Matches("body").Matches(`{"b": 2, "a": [1, 2]}`))
	require.True(t, recorder.Matches("text").Matches("plain text"))

	checker := NewManager(dir, "T", false)
	assert.True(t, checker.Matches("body").Matches(`{"a": [1, 2], "b": 2}`))
	assert.True(t, checker.Matches("text").Matches("plain text"))

	m := checker.Matches("body")
	assert.False(t, m.Matches(`{"a": [1], "b": 2}`))
	assert.Contains(t, match.Explain(m, `{"a": [1], "b": 2}`), "mismatch")
	assert.Contains(t, m.String(), `"body"`)
}

func TestUpdateRequested(t *testing.T) {
	t.Setenv(UpdateEnv, "1")
	assert.True(t, UpdateRequested())
	t.Setenv(UpdateEnv, "no")
	assert.False(t, UpdateRequested())
}

func TestForTest(t *testing.T) {
	t.Setenv(UpdateEnv, "")
	m := ForTest(t)
	assert.Equal(t, filepath.Join(DefaultBaseDir, SnapshotDir, "TestForTest.snap.json"), m.Path())
}
