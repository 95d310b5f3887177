package filestore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFS(t *testing.T) *FS {
	t.Helper()
	fs, err := New(filepath.Join(t.TempDir(), "documents"))
	require.NoError(t, err)
	return fs
}

func TestSaveOpenRemove(t *testing.T) {
	fs := newFS(t)

	uri, size, err := fs.Save("Facture mars.pdf", strings.NewReader("%PDF-1.4 body"))
	require.NoError(t, err)
	assert.Equal(t, int64(13), size)
	assert.True(t, strings.HasSuffix(uri, "-Facture_mars.pdf"), uri)
	assert.True(t, fs.Exists(uri))

	f, err := fs.Open(uri)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(data))

	entries, err := os.ReadDir(fs.Root())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp file left behind")

	require.NoError(t, fs.Remove(uri))
	assert.False(t, fs.Exists(uri))
	assert.Error(t, fs.Remove(uri))
}

func TestSaveSameNameTwice(t *testing.T) {
	fs := newFS(t)
	a, _, err := fs.Save("pv.pdf", strings.NewReader("a"))
	require.NoError(t, err)
	b, _, err := fs.Save("pv.pdf", strings.NewReader("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestSaveFailureLeavesNothing(t *testing.T) {
	fs := newFS(t)
	_, _, err := fs.Save("broken.pdf", failingReader{})
	require.Error(t, err)

	entries, err := os.ReadDir(fs.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPathTraversalRejected(t *testing.T) {
	fs := newFS(t)
	for _, uri := range []string{"../outside.txt", "a/../../outside.txt", "/etc/passwd", "", "."} {
		_, err := fs.Open(uri)
		assert.Error(t, err, uri)
		assert.False(t, fs.Exists(uri), uri)
	}
}

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		"contrat.pdf":            "contrat.pdf",
		"../../etc/passwd":       "passwd",
		`C:\Users\me\devis.pdf`:  "devis.pdf",
		"procès verbal (1).pdf":  "procès_verbal_1.pdf",
		".hidden":                "hidden",
		"***":                    "document",
	}
	for in, want := range tests {
		assert.Equal(t, want, Sanitize(in), in)
	}
}

func TestSaveLongName(t *testing.T) {
	fs := newFS(t)

	for _, name := range []string{
		strings.Repeat("a", 246) + ".pdf",
		strings.Repeat("é", 125) + ".pdf",
	} {
		uri, _, err := fs.Save(name, strings.NewReader("x"))
		require.NoError(t, err, "name of %d bytes", len(name))
		assert.LessOrEqual(t, len(uri), 255)
		assert.True(t, strings.HasSuffix(uri, ".pdf"), uri)
		assert.True(t, utf8.ValidString(uri), uri)
		assert.True(t, fs.Exists(uri))
	}
}

func TestSanitizeTruncates(t *testing.T) {
	got := Sanitize(strings.Repeat("b", 300) + ".docx")
	assert.Len(t, got, maxNameBytes)
	assert.True(t, strings.HasSuffix(got, ".docx"))

	got = Sanitize(strings.Repeat("é", 150))
	assert.LessOrEqual(t, len(got), maxNameBytes)
	assert.True(t, utf8.ValidString(got))
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "0 B", HumanSize(-1))
	assert.Equal(t, "2.0 kB", HumanSize(2048))
}

func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatchReportsRemoval(t *testing.T) {
	fs := newFS(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var events []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = fs.Watch(ctx, logger, func(kind EventKind, uri string) {
			mu.Lock()
			events = append(events, string(kind)+":"+uri)
			mu.Unlock()
		})
	}()
	time.Sleep(100 * time.Millisecond)

	uri, _, err := fs.Save("pv.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(fs.Root(), uri)))

	has := func(want string) func() bool {
		return func() bool {
			mu.Lock()
			defer mu.Unlock()
			for _, e := range events {
				if e == want {
					return true
				}
			}
			return false
		}
	}
	eventually(t, 5*time.Second, 50*time.Millisecond, has("removed:"+uri), "removal not reported")

	mu.Lock()
	for _, e := range events {
		assert.NotContains(t, e, tmpPrefix)
	}
	mu.Unlock()

	cancel()
	<-done
}
