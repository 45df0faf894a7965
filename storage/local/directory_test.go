package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/GriffinCanCode/AgentOS/storagekit/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCreateDirectoryIsIdempotent(t *testing.T) {
	f := newFixture(t, Options{})
	path := testDir + "/a/b/c"

	require.NoError(t, f.store.CreateDirectory(f.ctx, path))
	require.NoError(t, f.store.CreateDirectory(f.ctx, path))

	assert.DirExists(t, f.abs(path))
	// one for the fixture's "files", one for a/b/c
	assert.Equal(t, 2, f.logs.FilterMessage("directory created").Len())
	assert.Equal(t, 1, f.logs.FilterMessage("directory already exists").Len())
}

func TestCreateDirectoryFailureIsSwallowed(t *testing.T) {
	f := newFixture(t, Options{})
	f.write(t, testDir+"/plain", "not a directory")

	require.NoError(t, f.store.CreateDirectory(f.ctx, testDir+"/plain"))
	require.NoError(t, f.store.CreateDirectory(f.ctx, testDir+"/plain/child"))

	assert.NoDirExists(t, f.abs(testDir+"/plain/child"))
	assert.Equal(t, 2, f.logs.FilterLevelExact(zapcore.WarnLevel).Len())
	assert.ErrorIs(t, f.store.CreateDirectory(f.ctx, ""), storage.ErrInvalidArgument)
}

func TestDeleteOneMissingPath(t *testing.T) {
	f := newFixture(t, Options{})
	before, err := os.ReadDir(f.abs(testDir))
	require.NoError(t, err)

	require.NoError(t, f.store.DeleteOne(f.ctx, testDir+"/test.txt"))

	after, err := os.ReadDir(f.abs(testDir))
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, f.logs.FilterMessage("path does not exist").Len())
}

func TestDeleteOneFileAndEmptyDirectory(t *testing.T) {
	f := newFixture(t, Options{})
	f.write(t, testDir+"/test.txt", "test")
	require.NoError(t, f.store.CreateDirectory(f.ctx, testDir+"/empty"))

	require.NoError(t, f.store.DeleteOne(f.ctx, testDir+"/test.txt"))
	require.NoError(t, f.store.DeleteOne(f.ctx, testDir+"/empty"))

	assert.NoFileExists(t, f.abs(testDir+"/test.txt"))
	assert.NoDirExists(t, f.abs(testDir+"/empty"))
}

func TestDeleteOneNonEmptyDirectory(t *testing.T) {
	f := newFixture(t, Options{})
	f.write(t, testDir+"/keep/inner.txt", "keep me")

	require.NoError(t, f.store.DeleteOne(f.ctx, testDir+"/keep"))

	assert.DirExists(t, f.abs(testDir+"/keep"))
	data, err := os.ReadFile(f.abs(testDir + "/keep/inner.txt"))
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))
	assert.Equal(t, 1, f.logs.FilterMessage("failed to delete directory").Len())
}

func TestDeleteTreeRemovesNestedTree(t *testing.T) {
	for _, workers := range []int{0, 1, 4} {
		f := newFixture(t, Options{WalkWorkers: workers})
		for _, rel := range []string{
			"top.txt",
			"a/one.txt",
			"a/two.txt",
			"a/b/three.txt",
			"a/b/c/d/deep.txt",
			"e/f/g/h/i/j/deeper.txt",
			"x/y/z/.hidden",
		} {
			f.write(t, testDir+"/"+rel, rel)
		}
		require.NoError(t, os.MkdirAll(f.abs(testDir+"/empty/dirs/only"), 0o755))

		require.NoError(t, f.store.DeleteTree(f.ctx, testDir))

		assert.NoDirExists(t, f.abs(testDir), "workers=%d", workers)
		assert.Zero(t, f.logs.FilterLevelExact(zapcore.WarnLevel).Len(), "workers=%d", workers)
	}
}

func TestDeleteTreeMissingPath(t *testing.T) {
	f := newFixture(t, Options{})

	require.NoError(t, f.store.DeleteTree(f.ctx, "nowhere"))
	assert.Equal(t, 1, f.logs.FilterMessage("directory does not exist").Len())
	assert.DirExists(t, f.abs(testDir))
}

func TestDeleteTreeOnFile(t *testing.T) {
	f := newFixture(t, Options{})
	f.write(t, testDir+"/single.txt", "x")

	require.NoError(t, f.store.DeleteTree(f.ctx, testDir+"/single.txt"))
	assert.NoFileExists(t, f.abs(testDir+"/single.txt"))
	assert.DirExists(t, f.abs(testDir))
}

func TestDeleteTreeDoesNotFollowSymlinks(t *testing.T) {
	f := newFixture(t, Options{})
	outside := t.TempDir()
	precious := filepath.Join(outside, "precious.txt")
	require.NoError(t, os.WriteFile(precious, []byte("keep"), 0o644))

	f.write(t, testDir+"/a/file.txt", "x")
	if err := os.Symlink(outside, f.abs(testDir+"/a/link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	require.NoError(t, f.store.DeleteTree(f.ctx, testDir))

	assert.NoDirExists(t, f.abs(testDir))
	assert.FileExists(t, precious)
}

func TestDeleteTreeIsBestEffort(t *testing.T) {
	skipIfRoot(t)
	f := newFixture(t, Options{})
	f.write(t, testDir+"/a/ok.txt", "x")
	f.write(t, testDir+"/a/locked/stuck.txt", "x")
	f.write(t, testDir+"/b/ok.txt", "x")

	locked := f.abs(testDir + "/a/locked")
	require.NoError(t, os.Chmod(locked, 0o555))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	require.NoError(t, f.store.DeleteTree(f.ctx, testDir))

	// the locked directory and its ancestors remain, everything else is gone
	assert.FileExists(t, f.abs(testDir+"/a/locked/stuck.txt"))
	assert.NoFileExists(t, f.abs(testDir+"/a/ok.txt"))
	assert.NoDirExists(t, f.abs(testDir+"/b"))
	assert.DirExists(t, f.abs(testDir))

	warnings := f.logs.FilterLevelExact(zapcore.WarnLevel)
	assert.Equal(t, 1, warnings.FilterMessage("failed to delete file").Len())
	// locked, a and files are all non-empty
	assert.Equal(t, 3, warnings.FilterMessage("failed to delete directory").Len())
}

func TestDeleteTreeUnreadableDirectory(t *testing.T) {
	skipIfRoot(t)
	f := newFixture(t, Options{})
	f.write(t, testDir+"/sealed/secret.txt", "x")
	f.write(t, testDir+"/open.txt", "x")

	sealed := f.abs(testDir + "/sealed")
	require.NoError(t, os.Chmod(sealed, 0o000))
	t.Cleanup(func() { _ = os.Chmod(sealed, 0o755) })

	require.NoError(t, f.store.DeleteTree(f.ctx, testDir))

	assert.NoFileExists(t, f.abs(testDir+"/open.txt"))
	assert.DirExists(t, sealed)
	assert.GreaterOrEqual(t, f.logs.FilterLevelExact(zapcore.WarnLevel).Len(), 1)
}

func TestDeleteTreeTrailingSlash(t *testing.T) {
	f := newFixture(t, Options{})
	f.write(t, testDir+"/a/b/x.txt", "x")

	require.NoError(t, f.store.DeleteTree(f.ctx, testDir+"/"))

	assert.NoDirExists(t, f.abs(testDir))
	assert.Zero(t, f.logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestDeleteTreeTrailingSlashUnrooted(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	core, logs := observer.New(zapcore.DebugLevel)
	store, err := New(Options{Logger: zap.New(core)})
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join("files", "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("files", "a", "b", "x.txt"), []byte("x"), 0o644))

	require.NoError(t, store.DeleteTree(context.Background(), "files/"))

	assert.NoDirExists(t, filepath.Join(dir, "files"))
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	assert.Equal(t, 1, logs.FilterMessage("deleted file").Len())
	assert.Equal(t, 3, logs.FilterMessage("deleted directory").Len())
}
