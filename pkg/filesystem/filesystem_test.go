package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rengeos/house-overlay/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNewOS(t *testing.T) {
	fs := filesystem.NewOS()
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")

	require.NoError(t, fs.WriteFile(testFile, []byte("hello world"), 0644))

	info, err := fs.Stat(testFile)
	require.NoError(t, err)
	assert.Equal(t, "test.txt", info.Name())

	content, err := fs.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(content))

	require.NoError(t, fs.Rename(testFile, testFile+".bak"))
	assert.False(t, filesystem.Exists(fs, testFile))
	assert.True(t, filesystem.Exists(fs, testFile+".bak"))

	require.NoError(t, fs.Remove(testFile+".bak"))
	assert.False(t, filesystem.Exists(fs, testFile+".bak"))
}

func TestCopyTree_PreservesStructure(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")

	writeFile(t, filepath.Join(src, "config.kdl"), "layout {}")
	writeFile(t, filepath.Join(src, "scripts", "run.sh"), "#!/bin/sh\n")
	require.NoError(t, os.Chmod(filepath.Join(src, "scripts", "run.sh"), 0755))

	fs := filesystem.NewOS()
	require.NoError(t, filesystem.CopyTree(fs, src, dst, filesystem.CopyOptions{}))

	data, err := os.ReadFile(filepath.Join(dst, "config.kdl"))
	require.NoError(t, err)
	assert.Equal(t, "layout {}", string(data))

	info, err := os.Stat(filepath.Join(dst, "scripts", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestCopyTree_SourceErrors(t *testing.T) {
	root := t.TempDir()
	fs := filesystem.NewOS()

	err := filesystem.CopyTree(fs, filepath.Join(root, "missing"), filepath.Join(root, "dst"), filesystem.CopyOptions{})
	assert.Error(t, err)

	file := filepath.Join(root, "file")
	writeFile(t, file, "x")
	err = filesystem.CopyTree(fs, file, filepath.Join(root, "dst"), filesystem.CopyOptions{})
	assert.Error(t, err)
	assert.False(t, filesystem.Exists(fs, filepath.Join(root, "dst")))
}

func TestCopyTree_HonorsProtectedFiles(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")

	writeFile(t, filepath.Join(src, "user_settings.json"), `{"from":"source"}`)
	writeFile(t, filepath.Join(src, "style.css"), "new")
	writeFile(t, filepath.Join(dst, "user_settings.json"), `{"from":"user"}`)
	writeFile(t, filepath.Join(dst, "style.css"), "old")

	var skipped []string
	err := filesystem.CopyTree(filesystem.NewOS(), src, dst, filesystem.CopyOptions{
		Protected:   []string{"user_settings.json"},
		OnProtected: func(path string) { skipped = append(skipped, path) },
	})
	require.NoError(t, err)

	data, _ := os.ReadFile(filepath.Join(dst, "user_settings.json"))
	assert.Equal(t, `{"from":"user"}`, string(data))
	data, _ = os.ReadFile(filepath.Join(dst, "style.css"))
	assert.Equal(t, "new", string(data))
	assert.Equal(t, []string{filepath.Join(dst, "user_settings.json")}, skipped)
}

func TestCopyTree_ProtectedFileCopiedWhenAbsent(t *testing.T) {
	fs := filesystem.NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fs.MkdirAll("/src", 0755))
	require.NoError(t, fs.WriteFile("/src/colors.scss", []byte("$a: 1;"), 0644))

	err := filesystem.CopyTree(fs, "/src", "/dst", filesystem.CopyOptions{Protected: []string{"colors.scss"}})
	require.NoError(t, err)

	data, err := fs.ReadFile("/dst/colors.scss")
	require.NoError(t, err)
	assert.Equal(t, "$a: 1;", string(data))
}

func TestCopyFile_CreatesParents(t *testing.T) {
	fs := filesystem.NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fs.MkdirAll("/defaults", 0755))
	require.NoError(t, fs.WriteFile("/defaults/starship.toml", []byte("format = \"$all\""), 0644))

	require.NoError(t, filesystem.CopyFile(fs, "/defaults/starship.toml", "/home/u/.config/starship.toml"))

	data, err := fs.ReadFile("/home/u/.config/starship.toml")
	require.NoError(t, err)
	assert.Equal(t, "format = \"$all\"", string(data))

	assert.Error(t, filesystem.CopyFile(fs, "/defaults", "/elsewhere"))
	assert.Error(t, filesystem.CopyFile(fs, "/missing", "/elsewhere"))
}

func TestFindProtected(t *testing.T) {
	fs := filesystem.NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fs.MkdirAll("/cfg/niri/deep", 0755))
	require.NoError(t, fs.WriteFile("/cfg/niri/user_settings.json", []byte("{}"), 0644))
	require.NoError(t, fs.WriteFile("/cfg/niri/deep/colors.scss", []byte(""), 0644))
	require.NoError(t, fs.WriteFile("/cfg/niri/config.kdl", []byte(""), 0644))

	found := filesystem.FindProtected(fs, "/cfg/niri", []string{"user_settings.json", "colors.scss"})
	assert.ElementsMatch(t, []string{"/cfg/niri/user_settings.json", "/cfg/niri/deep/colors.scss"}, found)

	assert.Empty(t, filesystem.FindProtected(fs, "/cfg/niri", nil))
}

func TestDryRun_ReadsThroughAndSkipsWrites(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")
	writeFile(t, filepath.Join(src, "a", "b.txt"), "b")
	writeFile(t, filepath.Join(root, "existing"), "keep")

	var reported []string
	fs := filesystem.NewDryRun(filesystem.NewOS(), func(action string) { reported = append(reported, action) })

	require.NoError(t, filesystem.CopyTree(fs, src, dst, filesystem.CopyOptions{}))
	require.NoError(t, fs.Rename(filepath.Join(root, "existing"), filepath.Join(root, "moved")))
	require.NoError(t, fs.RemoveAll(src))
	require.NoError(t, fs.Remove(filepath.Join(root, "existing")))

	_, err := os.Stat(dst)
	assert.True(t, os.IsNotExist(err), "dry run must not create the destination")
	assert.FileExists(t, filepath.Join(root, "existing"))
	assert.FileExists(t, filepath.Join(src, "a", "b.txt"))
	assert.Len(t, reported, 3)
}

func TestExists_MissingParent(t *testing.T) {
	fs := filesystem.NewAferoFS(afero.NewMemMapFs())
	assert.False(t, filesystem.Exists(fs, "/nope/deeper"))
	assert.False(t, filesystem.IsDir(fs, "/nope"))

	require.NoError(t, fs.MkdirAll("/yes", 0755))
	assert.True(t, filesystem.IsDir(fs, "/yes"))
}
