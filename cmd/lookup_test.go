package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/jfmyers9/bpmlookup/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with args and captures stdout
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	debugFlag, dbPathFlag, dumpDirFlag, cacheListLimit = false, "", "", 0
	t.Cleanup(func() {
		debugFlag, dbPathFlag, dumpDirFlag, cacheListLimit = false, "", "", 0
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

// testEnv points every endpoint at local servers and the cache at a
// temporary database
type testEnv struct {
	dbPath   string
	apiHits  atomic.Int32
	webHits  atomic.Int32
	apiBody  string
	songPage string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		dbPath:  filepath.Join(t.TempDir(), "data", "known_bpms.sqlite"),
		apiBody: `{"data": {"items": []}}`,
	}

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.apiHits.Add(1)
		_, _ = w.Write([]byte(env.apiBody))
	}))
	t.Cleanup(api.Close)

	web := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.webHits.Add(1)
		if env.songPage != "" && r.URL.EscapedPath() == "/@daft-punk/one-more-time" {
			_, _ = w.Write([]byte(env.songPage))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(web.Close)

	t.Setenv("HOME", t.TempDir())
	t.Setenv("BPMLOOKUP_CACHE_DB", env.dbPath)
	t.Setenv("BPMLOOKUP_TUNEBAT_API_URL", api.URL)
	t.Setenv("BPMLOOKUP_TUNEBAT_BASE_URL", web.URL)
	t.Setenv("BPMLOOKUP_SONGBPM_BASE_URL", web.URL)
	t.Setenv("BPMLOOKUP_LOG_LEVEL", "error")

	return env
}

func TestLookupMissingArguments(t *testing.T) {
	env := newTestEnv(t)

	for _, args := range [][]string{
		{},
		{"Daft Punk"},
		{"Daft Punk", "One More Time", "extra"},
	} {
		out, err := executeCommand(t, args...)
		require.Error(t, err, "args %v", args)
		assert.Contains(t, err.Error(), "Usage:")
		assert.Empty(t, out)
	}

	assert.Zero(t, env.apiHits.Load(), "no request may be made without arguments")
	assert.Zero(t, env.webHits.Load())
}

func TestLookupPrintsBPMWithoutNewline(t *testing.T) {
	env := newTestEnv(t)
	env.apiBody = `{"data": {"items": [{"as": ["Daft Punk"], "n": "One More Time", "b": 123}]}}`

	out, err := executeCommand(t, "Daft Punk", "One More Time")
	require.NoError(t, err)
	assert.Equal(t, "123", out)

	store, err := cache.Open(env.dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	record, err := store.Get(t.Context(), "daft punk", "one more time")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "tunebat_api", record.Source)
}

func TestLookupServedFromCache(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(env.dbPath), 0755))
	store, err := cache.Open(env.dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Upsert(t.Context(), "Daft Punk", "One More Time", "122", "manual"))
	require.NoError(t, store.Close())

	out, err := executeCommand(t, "DAFT PUNK", "one more time")
	require.NoError(t, err)
	assert.Equal(t, "122", out)
	assert.Zero(t, env.apiHits.Load())
	assert.Zero(t, env.webHits.Load())
}

func TestLookupScrapeFallback(t *testing.T) {
	env := newTestEnv(t)
	env.songPage = `<html><body><div class="bpm-value">123 BPM</div></body></html>`

	out, err := executeCommand(t, "Daft Punk", "One More Time", "--debug")
	require.NoError(t, err)
	assert.Equal(t, "123", out)
	assert.Equal(t, int32(1), env.apiHits.Load())
}

func TestLookupNotFound(t *testing.T) {
	env := newTestEnv(t)

	out, err := executeCommand(t, "Nobody", "Nothing")
	require.Error(t, err)
	assert.Equal(t, "Could not find BPM for 'Nobody - Nothing'", err.Error())
	assert.Empty(t, out)
	assert.Equal(t, int32(1), env.apiHits.Load())
}

func TestLookupUnusableCacheStillResolves(t *testing.T) {
	env := newTestEnv(t)
	env.apiBody = `{"data": {"items": [{"as": ["Daft Punk"], "n": "One More Time", "b": 123}]}}`

	// A directory where the database file should be makes the cache unusable
	out, err := executeCommand(t, "Daft Punk", "One More Time", "--db", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "123", out)
}
