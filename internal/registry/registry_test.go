package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stingeripc/internal/ir"
)

// createTestRegistry opens a registry in a temp dir with fixed ids.
func createTestRegistry(t *testing.T, ids ...string) *Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.db")
	r, err := Open(path, WithIDGenerator(NewFixedGenerator(ids...)))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

// testInterface returns a hashed IR document for name/version.
func testInterface(name, version string, signals ...string) *ir.Interface {
	iface := &ir.Interface{
		IRVersion: ir.IRVersion,
		Format:    "0.0.2",
		Name:      name,
		Version:   version,
		InfoTopic: name + "/interface",
	}
	for _, s := range signals {
		iface.Signals = append(iface.Signals, ir.Signal{
			Name:        s,
			Topic:       name + "/signal/" + s,
			PayloadType: "arg_list",
			Args:        []ir.Arg{{Name: "on", Type: "boolean"}},
		})
	}
	iface.SpecHash = ir.MustSpecHash(iface)
	return iface
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer r.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")

	for i := 0; i < 3; i++ {
		r, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		r.Close()
	}

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	for _, table := range []string{"interfaces", "signals"} {
		var name string
		err := r.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %q missing", table)
	}

	var index string
	err = r.db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name='idx_signals_topic'").Scan(&index)
	assert.NoError(t, err, "migration index missing")

	version, err := r.pragma("user_version")
	require.NoError(t, err)
	assert.Equal(t, "1", version)
}

func TestOpen_Pragmas(t *testing.T) {
	r := createTestRegistry(t)

	tests := map[string]string{
		"journal_mode": "wal",
		"foreign_keys": "1",
		"busy_timeout": "5000",
		"synchronous":  "1",
	}
	for name, expected := range tests {
		value, err := r.pragma(name)
		require.NoError(t, err)
		assert.Equal(t, expected, value, name)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/registry.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestClose_NilDB(t *testing.T) {
	r := &Registry{}
	assert.NoError(t, r.Close())
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	r := createTestRegistry(t, "id-1")
	iface := testInterface("Lights", "1.0", "stateChanged")

	entry, created, err := r.Record(ctx, iface)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "id-1", entry.ID)
	assert.Equal(t, int64(1), entry.Seq)
	assert.Equal(t, "Lights", entry.Name)
	assert.Equal(t, "1.0", entry.Version)
	assert.Equal(t, iface.SpecHash, entry.SpecHash)
	assert.Equal(t, ir.ToolVersion, entry.ToolVersion)

	got, err := r.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, entry, got)
	assert.Equal(t, iface, got.Interface)
}

func TestRecordIdempotent(t *testing.T) {
	ctx := context.Background()
	// A second id would panic if Record generated one.
	r := createTestRegistry(t, "id-1")

	first, created, err := r.Record(ctx, testInterface("Lights", "1.0", "stateChanged"))
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := r.Record(ctx, testInterface("Lights", "1.0", "stateChanged"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	entries, err := r.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRecordComputesMissingHash(t *testing.T) {
	r := createTestRegistry(t, "id-1")
	iface := testInterface("Lights", "1.0")
	expected := iface.SpecHash
	iface.SpecHash = ""

	entry, _, err := r.Record(context.Background(), iface)
	require.NoError(t, err)
	assert.Equal(t, expected, entry.SpecHash)
	assert.Empty(t, iface.SpecHash, "input is not modified")
}

func TestRecordRejectsStaleHash(t *testing.T) {
	r := createTestRegistry(t, "id-1")
	iface := testInterface("Lights", "1.0")
	iface.Version = "2.0"

	_, _, err := r.Record(context.Background(), iface)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestList(t *testing.T) {
	ctx := context.Background()
	r := createTestRegistry(t, "id-1", "id-2", "id-3")

	for _, iface := range []*ir.Interface{
		testInterface("Lights", "1.0"),
		testInterface("Fan", "1"),
		testInterface("Lights", "1.1"),
	} {
		_, _, err := r.Record(ctx, iface)
		require.NoError(t, err)
	}

	all, err := r.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"id-2", "id-1", "id-3"}, []string{all[0].ID, all[1].ID, all[2].ID},
		"ordered by name then insertion")

	lights, err := r.List(ctx, "Lights")
	require.NoError(t, err)
	require.Len(t, lights, 2)
	assert.Equal(t, "1.0", lights[0].Version)
	assert.Equal(t, "1.1", lights[1].Version)

	none, err := r.List(ctx, "Missing")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGetNotFound(t *testing.T) {
	r := createTestRegistry(t)

	_, err := r.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPublishersOf(t *testing.T) {
	ctx := context.Background()
	r := createTestRegistry(t, "id-1", "id-2")

	_, _, err := r.Record(ctx, testInterface("Lights", "1.0", "stateChanged", "fault"))
	require.NoError(t, err)
	_, _, err = r.Record(ctx, testInterface("Lights", "2.0", "stateChanged"))
	require.NoError(t, err)

	refs, err := r.PublishersOf(ctx, "Lights/signal/stateChanged")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, TopicRef{
		EntryID:     "id-1",
		Interface:   "Lights",
		Version:     "1.0",
		Signal:      "stateChanged",
		Topic:       "Lights/signal/stateChanged",
		PayloadType: "arg_list",
	}, refs[0])
	assert.Equal(t, "2.0", refs[1].Version)

	refs, err = r.PublishersOf(ctx, "nobody/listens")
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestUUIDv7Generator(t *testing.T) {
	g := UUIDv7Generator{}
	a, b := g.Generate(), g.Generate()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.Equal(t, byte('7'), a[14], "version nibble")
}

func TestFixedGenerator(t *testing.T) {
	g := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, "b", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}
