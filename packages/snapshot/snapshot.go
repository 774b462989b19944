// Package snapshot compares response bodies against values recorded in
// earlier runs.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/restfire/packages/match"
	gocmp "github.com/google/go-cmp/cmp"
)

const (
	// SnapshotDir is the directory name for storing snapshots
	SnapshotDir = "__snapshots__"
	// SnapshotExt is the file extension for snapshot files
	SnapshotExt = ".snap.json"
	// UpdateEnv switches snapshot updating on when set to a true value.
	UpdateEnv = "RESTFIRE_UPDATE_SNAPSHOTS"
	// DefaultBaseDir holds snapshot directories for ForTest.
	DefaultBaseDir = "testdata"
)

// Manager reads and writes the snapshots of one snapshot file.
type Manager struct {
	path       string
	updateMode bool

	mu        sync.Mutex
	snapshots map[string]any
}

// NewManager manages baseDir/__snapshots__/<name>.snap.json. In update mode
// missing or different snapshots are written instead of failing.
func NewManager(baseDir, name string, updateMode bool) *Manager {
	return &Manager{
		path:       filepath.Join(baseDir, SnapshotDir, sanitize(name)+SnapshotExt),
		updateMode: updateMode,
	}
}

// ForTest returns the manager for the running test, storing snapshots under
// testdata. Update mode follows RESTFIRE_UPDATE_SNAPSHOTS.
func ForTest(t interface{ Name() string }) *Manager {
	return NewManager(DefaultBaseDir, t.Name(), UpdateRequested())
}

// UpdateRequested reports whether RESTFIRE_UPDATE_SNAPSHOTS asks for
// snapshots to be rewritten.
func UpdateRequested() bool {
	update, _ := strconv.ParseBool(os.Getenv(UpdateEnv))
	return update
}

func (m *Manager) Path() string {
	return m.path
}

// Result represents the result of a snapshot comparison.
type Result struct {
	Passed     bool
	Message    string
	Expected   any
	Actual     any
	IsNew      bool
	WasUpdated bool
}

// Compare compares actual against the snapshot stored under key. Values
// are compared in their JSON form, so numeric types do not matter.
func (m *Manager) Compare(key string, actual any) *Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := &Result{Actual: actual}

	normalized, err := normalize(actual)
	if err != nil {
		result.Message = fmt.Sprintf("value cannot be snapshotted: %v", err)
		return result
	}

	if err := m.load(); err != nil {
		result.Message = fmt.Sprintf("failed to load snapshots: %v", err)
		return result
	}

	expected, exists := m.snapshots[key]
	if !exists {
		if !m.updateMode {
			result.Message = fmt.Sprintf("snapshot %q does not exist (set %s=1 to create it)", key, UpdateEnv)
			return result
		}
		if err := m.store(key, normalized); err != nil {
			result.Message = fmt.Sprintf("failed to save snapshot: %v", err)
			return result
		}
		result.Passed = true
		result.IsNew = true
		result.Expected = normalized
		result.Message = "new snapshot created"
		return result
	}

	result.Expected = expected
	if gocmp.Equal(expected, normalized) {
		result.Passed = true
		return result
	}

	if m.updateMode {
		if err := m.store(key, normalized); err != nil {
			result.Message = fmt.Sprintf("failed to update snapshot: %v", err)
			return result
		}
		result.Passed = true
		result.WasUpdated = true
		result.Message = "snapshot updated"
		return result
	}

	result.Message = fmt.Sprintf("snapshot %q mismatch (-snapshot +actual):\n%s", key, gocmp.Diff(expected, normalized))
	return result
}

// Matches returns a body matcher backed by the snapshot stored under key.
// JSON bodies are stored as documents, anything else as text.
func (m *Manager) Matches(key string) match.Matcher[string] {
	return &bodyMatcher{manager: m, key: key}
}

type bodyMatcher struct {
	manager *Manager
	key     string
}

func (b *bodyMatcher) Matches(actual string) bool {
	return b.manager.Compare(b.key, bodyValue(actual)).Passed
}

func (b *bodyMatcher) String() string {
	return fmt.Sprintf("matching snapshot %q in %s", b.key, b.manager.path)
}

func (b *bodyMatcher) DescribeMismatch(actual string) string {
	return b.manager.Compare(b.key, bodyValue(actual)).Message
}

func bodyValue(body string) any {
	var v any
	if err := json.Unmarshal([]byte(body), &v); err == nil {
		return v
	}
	return body
}

func (m *Manager) load() error {
	if m.snapshots != nil {
		return nil
	}
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		m.snapshots = make(map[string]any)
		return nil
	}
	if err != nil {
		return err
	}
	var snapshots map[string]any
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return err
	}
	if snapshots == nil {
		snapshots = make(map[string]any)
	}
	m.snapshots = snapshots
	return nil
}

func (m *Manager) store(key string, value any) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return err
	}
	m.snapshots[key] = value
	data, err := json.MarshalIndent(m.snapshots, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, append(data, '\n'), 0644)
}

// normalize round-trips v through JSON so stored and fresh values compare
// alike.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}
