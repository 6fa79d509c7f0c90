package cmd

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jfmyers9/bpmlookup/internal/cache"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{name: "fits", input: "Daft Punk", width: 32, want: "Daft Punk"},
		{name: "exact width", input: "abcde", width: 5, want: "abcde"},
		{name: "cut", input: "abcdefghij", width: 8, want: "abcde..."},
		{name: "no limit", input: "abcdefghij", width: 0, want: "abcdefghij"},
		{name: "wide runes", input: "日本語の曲名です", width: 9, want: "日本語..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.width)
			assert.Equal(t, tt.want, got)
			if tt.width > 0 {
				assert.LessOrEqual(t, runewidth.StringWidth(got), tt.width)
			}
		})
	}
}

func TestRenderRecords(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	records := []cache.Record{
		{Artist: "daft punk", Track: "one more time", BPM: "123", Source: "tunebat_api", ObservedAt: now.Add(-2 * time.Hour)},
		{Artist: strings.Repeat("x", 40), Track: "around the world", BPM: "121", Source: "songbpm", ObservedAt: now.Add(-72 * time.Hour)},
	}

	out := renderRecords(records, now)

	assert.Contains(t, out, "ARTIST")
	assert.Contains(t, out, "daft punk")
	assert.Contains(t, out, "tunebat_api")
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "3 days ago")
	assert.Contains(t, out, strings.Repeat("x", 29)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 33))
}

func TestCacheSetAndList(t *testing.T) {
	newTestEnv(t)

	out, err := executeCommand(t, "cache", "set", "Daft Punk", "One More Time", "123")
	require.NoError(t, err)
	assert.Equal(t, "Saved BPM for 'Daft Punk - One More Time': 123\n", out)

	out, err = executeCommand(t, "cache", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "daft punk")
	assert.Contains(t, out, "manual")

	out, err = executeCommand(t, "Daft Punk", "One More Time")
	require.NoError(t, err)
	assert.Equal(t, "123", out)
}

func TestCacheListEmpty(t *testing.T) {
	newTestEnv(t)

	out, err := executeCommand(t, "cache", "list")
	require.NoError(t, err)
	assert.Equal(t, "Cache is empty\n", out)
}

func TestCacheSetRejectsInvalidBPM(t *testing.T) {
	env := newTestEnv(t)

	for _, bpm := range []string{"fast", "0", "-120"} {
		_, err := executeCommand(t, "cache", "set", "--", "Daft Punk", "One More Time", bpm)
		require.Error(t, err, "bpm %q", bpm)
		assert.Contains(t, err.Error(), "invalid BPM")
	}

	assert.NoFileExists(t, env.dbPath)
}

func TestCacheSetHonorsDBFlag(t *testing.T) {
	newTestEnv(t)
	dbPath := filepath.Join(t.TempDir(), "nested", "other.sqlite")

	_, err := executeCommand(t, "cache", "set", "--db", dbPath, "Justice", "D.A.N.C.E.", "114")
	require.NoError(t, err)

	store, err := cache.Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	bpm, ok, err := store.Lookup(t.Context(), "justice", "d.a.n.c.e.")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "114", bpm)
}
