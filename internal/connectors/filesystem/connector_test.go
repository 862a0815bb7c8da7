package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eti-labs/arpgen/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNew(t *testing.T) {
	connector := New("guidance", "/tmp/docs")
	require.NotNil(t, connector)
	assert.Equal(t, "filesystem", connector.Type())
	assert.Equal(t, "guidance", connector.SourceID())
}

func TestConnector_List(t *testing.T) {
	t.Run("loads ingestible files with mime types", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "guide.html", "<h1>Guidance</h1>")
		writeFile(t, dir, "nested/notes.md", "## Activity overview\ntext")
		writeFile(t, dir, "report.pdf", "%PDF-1.4 stub")
		writeFile(t, dir, "ignore.exe", "binary")

		connector := New("guidance", dir)
		sources, err := connector.List(context.Background())
		require.NoError(t, err)
		require.Len(t, sources, 3)

		byID := make(map[string]domain.RawSource)
		for _, s := range sources {
			byID[s.SourceID] = s
		}

		html, ok := byID["guidance/guide.html"]
		require.True(t, ok)
		assert.Equal(t, "text/html", html.MIMEType)
		assert.Equal(t, []byte("<h1>Guidance</h1>"), html.Content)
		assert.Equal(t, "file://"+filepath.Join(dir, "guide.html"), html.URI)

		md, ok := byID["guidance/nested/notes.md"]
		require.True(t, ok)
		assert.Equal(t, "text/markdown", md.MIMEType)

		pdf, ok := byID["guidance/report.pdf"]
		require.True(t, ok)
		assert.Equal(t, "application/pdf", pdf.MIMEType)
	})

	t.Run("skips hidden directories", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "visible.txt", "text")
		writeFile(t, dir, ".git/config.txt", "hidden")

		connector := New("guidance", dir)
		sources, err := connector.List(context.Background())
		require.NoError(t, err)
		require.Len(t, sources, 1)
		assert.Equal(t, "guidance/visible.txt", sources[0].SourceID)
	})

	t.Run("missing root is an error", func(t *testing.T) {
		connector := New("guidance", filepath.Join(t.TempDir(), "absent"))
		_, err := connector.List(context.Background())
		assert.Error(t, err)
	})

	t.Run("cancelled context stops the walk", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.txt", "text")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		connector := New("guidance", dir)
		_, err := connector.List(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestConnector_Watch(t *testing.T) {
	t.Run("reports new ingestible files", func(t *testing.T) {
		dir := t.TempDir()
		connector := New("guidance", dir)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var mu sync.Mutex
		var got []domain.RawSource
		done := make(chan struct{})

		go func() {
			defer close(done)
			connector.Watch(ctx, func(source domain.RawSource) {
				mu.Lock()
				got = append(got, source)
				mu.Unlock()
				cancel()
			})
		}()

		// Give the watcher time to register before writing.
		time.Sleep(100 * time.Millisecond)
		writeFile(t, dir, "new.html", "<h1>New guidance</h1>")

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not report the new file")
		}

		mu.Lock()
		defer mu.Unlock()
		require.NotEmpty(t, got)
		assert.Equal(t, "guidance/new.html", got[0].SourceID)
		assert.Equal(t, "text/html", got[0].MIMEType)
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		dir := t.TempDir()
		connector := New("guidance", dir)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			errCh <- connector.Watch(ctx, func(domain.RawSource) {})
		}()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("watcher did not stop")
		}
	})

	t.Run("missing root is an error", func(t *testing.T) {
		connector := New("guidance", filepath.Join(t.TempDir(), "absent"))
		err := connector.Watch(context.Background(), func(domain.RawSource) {})
		assert.Error(t, err)
	})
}

func TestMIMETypeForPath(t *testing.T) {
	tests := []struct {
		path string
		mime string
		ok   bool
	}{
		{"guide.html", "text/html", true},
		{"guide.HTM", "text/html", true},
		{"report.pdf", "application/pdf", true},
		{"notes.md", "text/markdown", true},
		{"notes.txt", "text/plain", true},
		{"binary.exe", "", false},
		{"noext", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			mime, ok := MIMETypeForPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.mime, mime)
		})
	}
}

func TestResolveLocalPath(t *testing.T) {
	assert.Equal(t, "/tmp/doc.html", ResolveLocalPath("file:///tmp/doc.html"))
	assert.Equal(t, "/tmp/doc.html", ResolveLocalPath("/tmp/doc.html"))
}
