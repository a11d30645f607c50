package shader_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"render-sandbox/shader"
)

func TestWatchReportsWrites(t *testing.T) {
	dir := t.TempDir()
	vert := writeFile(t, dir, "basic.vert", vertexSrc)
	frag := writeFile(t, dir, "basic.frag", fragmentSrc)

	w, err := shader.Watch(vert, frag)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(frag, []byte(fragmentSrc+"\n// edited\n"), 0o644))

	select {
	case <-w.Changed():
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification after writing a watched file")
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	vert := writeFile(t, dir, "basic.vert", vertexSrc)

	w, err := shader.Watch(vert)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))

	select {
	case <-w.Changed():
		t.Fatal("unexpected notification for an unwatched file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	_, err := shader.Watch(filepath.Join(t.TempDir(), "missing", "basic.vert"))
	require.Error(t, err)
}

func TestWatchClose(t *testing.T) {
	dir := t.TempDir()
	w, err := shader.Watch(writeFile(t, dir, "basic.vert", vertexSrc))
	require.NoError(t, err)
	require.NoError(t, w.Close())
}
