package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testDir = "files"

type fixture struct {
	store *Store
	logs  *observer.ObservedLogs
	root  string
	ctx   context.Context
}

// newFixture returns a store rooted at a fresh temp dir holding an empty "files" directory.
func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	root := t.TempDir()
	opts.Root = root
	opts.Logger = zap.New(core)

	store, err := New(opts)
	require.NoError(t, err)

	f := &fixture{store: store, logs: logs, root: root, ctx: context.Background()}
	require.NoError(t, store.CreateDirectory(f.ctx, testDir))
	return f
}

// abs returns the on-disk location of a store-relative path.
func (f *fixture) abs(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(rel))
}

func (f *fixture) write(t *testing.T, rel, content string) {
	t.Helper()
	full := f.abs(rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func skipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission checks are bypassed for root")
	}
}

type zipEntry struct {
	Name    string
	Method  uint16
	Content []byte
}

// readArchive returns every member of the zip at path, decompressed, in
// central directory order.
func readArchive(t *testing.T, path string) []zipEntry {
	t.Helper()

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	zr.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())

	entries := make([]zipEntry, 0, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries = append(entries, zipEntry{Name: f.Name, Method: f.Method, Content: content})
	}
	return entries
}
