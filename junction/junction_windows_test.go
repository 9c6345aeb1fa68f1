//go:build windows

package junction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJunctionLifecycle(t *testing.T) {
	tmp := t.TempDir()

	target := filepath.Join(tmp, "target")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "hello.txt"), []byte("migrated"), 0o644))

	junctionPath := filepath.Join(tmp, "junction")

	require.NoError(t, Create(junctionPath, target, false))

	ok, err := Exists(junctionPath)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := GetTarget(junctionPath)
	require.NoError(t, err)
	expected, err := filepath.Abs(target)
	require.NoError(t, err)
	assert.Equal(t, expected, got)

	// the junction actually redirects
	payload, err := os.ReadFile(filepath.Join(junctionPath, "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "migrated", string(payload))

	require.NoError(t, Delete(junctionPath))

	ok, err = Exists(junctionPath)
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting the junction never touches the target
	_, err = os.Stat(filepath.Join(target, "hello.txt"))
	assert.NoError(t, err)
}

func TestCreateRefusesExistingDirectory(t *testing.T) {
	tmp := t.TempDir()

	target := filepath.Join(tmp, "target")
	require.NoError(t, os.Mkdir(target, 0o755))

	junctionPath := filepath.Join(tmp, "occupied")
	require.NoError(t, os.Mkdir(junctionPath, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(junctionPath, "keep.txt"), []byte("keep"), 0o644))

	err := Create(junctionPath, target, false)
	require.Error(t, err)
	assert.True(t, IsAlreadyExists(err))

	// contents of the refused directory are untouched
	payload, err := os.ReadFile(filepath.Join(junctionPath, "keep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "keep", string(payload))
}

func TestCreateOverwriteRetargets(t *testing.T) {
	tmp := t.TempDir()

	first := filepath.Join(tmp, "first")
	second := filepath.Join(tmp, "second")
	require.NoError(t, os.Mkdir(first, 0o755))
	require.NoError(t, os.Mkdir(second, 0o755))

	junctionPath := filepath.Join(tmp, "junction")
	require.NoError(t, Create(junctionPath, first, false))
	require.NoError(t, Create(junctionPath, second, true))

	got, err := GetTarget(junctionPath)
	require.NoError(t, err)
	expected, err := filepath.Abs(second)
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

func TestCreateOverwriteConvertsPlainDirectory(t *testing.T) {
	tmp := t.TempDir()

	target := filepath.Join(tmp, "target")
	require.NoError(t, os.Mkdir(target, 0o755))

	junctionPath := filepath.Join(tmp, "plain")
	require.NoError(t, os.Mkdir(junctionPath, 0o755))

	require.NoError(t, Create(junctionPath, target, true))

	ok, err := Exists(junctionPath)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateInvalidTarget(t *testing.T) {
	tmp := t.TempDir()

	err := Create(filepath.Join(tmp, "junction"), filepath.Join(tmp, "nope"), false)
	require.Error(t, err)
	assert.True(t, IsInvalidTarget(err))

	// a file target is just as invalid as a missing one
	fileTarget := filepath.Join(tmp, "file.txt")
	require.NoError(t, os.WriteFile(fileTarget, []byte("not a dir"), 0o644))

	err = Create(filepath.Join(tmp, "junction"), fileTarget, false)
	require.Error(t, err)
	assert.True(t, IsInvalidTarget(err))
}

func TestCreateOnPlainFile(t *testing.T) {
	tmp := t.TempDir()

	target := filepath.Join(tmp, "target")
	require.NoError(t, os.Mkdir(target, 0o755))

	path := filepath.Join(tmp, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain"), 0o644))

	// a file has no valid transition: the filesystem refuses the
	// conversion, and that's an OsError, not AlreadyExists
	err := Create(path, target, false)
	require.Error(t, err)
	assert.False(t, IsAlreadyExists(err))
	_, isOs := AsOsError(err)
	assert.True(t, isOs)

	// the file survives the refusal
	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(payload))
}

func TestDeleteMissingIsNoOp(t *testing.T) {
	tmp := t.TempDir()
	assert.NoError(t, Delete(filepath.Join(tmp, "never-existed")))
}

func TestDeletePlainFile(t *testing.T) {
	tmp := t.TempDir()

	path := filepath.Join(tmp, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain"), 0o644))

	err := Delete(path)
	require.Error(t, err)
	assert.True(t, IsNotAJunction(err))
}

func TestExistsOnPlainObjects(t *testing.T) {
	tmp := t.TempDir()

	dir := filepath.Join(tmp, "dir")
	require.NoError(t, os.Mkdir(dir, 0o755))
	ok, err := Exists(dir)
	require.NoError(t, err)
	assert.False(t, ok)

	file := filepath.Join(tmp, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("plain"), 0o644))
	ok, err = Exists(file)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Exists(filepath.Join(tmp, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetTargetOnPlainDirectory(t *testing.T) {
	tmp := t.TempDir()

	dir := filepath.Join(tmp, "dir")
	require.NoError(t, os.Mkdir(dir, 0o755))

	_, err := GetTarget(dir)
	require.Error(t, err)
	assert.True(t, IsNotAJunction(err))
}

func TestCreateRelativeJunctionPath(t *testing.T) {
	tmp := t.TempDir()

	target := filepath.Join(tmp, "target")
	require.NoError(t, os.Mkdir(target, 0o755))

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	defer os.Chdir(oldWd)

	require.NoError(t, Create("junction", target, false))
	defer Delete("junction")

	ok, err := Exists("junction")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := GetTarget("junction")
	require.NoError(t, err)
	expected, err := filepath.Abs(target)
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}
