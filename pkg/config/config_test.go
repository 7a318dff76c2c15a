package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ".", cfg.Directory)
	assert.Equal(t, "aifeed.txt", cfg.Output)
	assert.Equal(t, DefaultMinSize, cfg.MinSize)
	assert.Nil(t, cfg.MaxSize)
	assert.True(t, cfg.RespectGitignore)
	assert.False(t, cfg.TreeOnly)
}

func TestResolvePrecedence(t *testing.T) {
	dir := t.TempDir()
	global := writeConfig(t, dir, "global.yaml", "min_size: 100\noutput: global.txt\nexclude_dirs: [vendor]\n")
	local := writeConfig(t, dir, "local.yaml", "output: local.txt\n")

	flags := Flags{
		Config: Config{
			Directory: dir,
			Output:    "cli.txt",
			MinSize:   0,
		},
		Explicit: map[string]bool{"directory": true, "min_size": true},
	}

	cfg, err := Resolve(flags, local, global, zap.NewNop())
	require.NoError(t, err)

	// Explicit CLI beats both files.
	assert.Equal(t, int64(0), cfg.MinSize)
	// Local file beats global; the unset CLI output default does not.
	assert.Equal(t, "local.txt", cfg.Output)
	// Global values survive where nothing overrides them.
	assert.Equal(t, []string{"vendor"}, cfg.ExcludeDirs)
	assert.Equal(t, dir, cfg.Directory)
}

func TestResolveMissingFilesUseDefaults(t *testing.T) {
	dir := t.TempDir()
	flags := Flags{
		Config:   Config{Directory: dir},
		Explicit: map[string]bool{"directory": true},
	}

	cfg, err := Resolve(flags, filepath.Join(dir, "nope.yaml"), filepath.Join(dir, "also-nope.yaml"), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, DefaultMinSize, cfg.MinSize)
	assert.True(t, cfg.RespectGitignore)
}

func TestResolveFileBooleans(t *testing.T) {
	dir := t.TempDir()
	local := writeConfig(t, dir, "local.yaml", "respect_gitignore: false\ntree_only: true\n")

	flags := Flags{
		Config:   Config{Directory: dir, RespectGitignore: true},
		Explicit: map[string]bool{"directory": true},
	}
	cfg, err := Resolve(flags, local, "", zap.NewNop())
	require.NoError(t, err)
	assert.False(t, cfg.RespectGitignore)
	assert.True(t, cfg.TreeOnly)

	// An explicit CLI flag wins over the file even for booleans.
	flags.Explicit["respect_gitignore"] = true
	cfg, err = Resolve(flags, local, "", zap.NewNop())
	require.NoError(t, err)
	assert.True(t, cfg.RespectGitignore)
}

func TestResolveExplicitUnboundedMaxSize(t *testing.T) {
	dir := t.TempDir()
	local := writeConfig(t, dir, "local.yaml", "max_size: 1000\n")

	// A nil CLI max marked explicit lifts the file's bound entirely.
	flags := Flags{
		Config:   Config{Directory: dir, MaxSize: nil},
		Explicit: map[string]bool{"directory": true, "max_size": true},
	}
	cfg, err := Resolve(flags, local, "", zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, cfg.MaxSize)

	// Without the explicit flag the file's bound stands.
	flags.Explicit = map[string]bool{"directory": true}
	cfg, err = Resolve(flags, local, "", zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, cfg.MaxSize)
	assert.Equal(t, int64(1000), *cfg.MaxSize)
}

func TestResolveUnknownKeysIgnored(t *testing.T) {
	dir := t.TempDir()
	local := writeConfig(t, dir, "local.yaml", "no_such_option: 42\noutput: out.txt\n")

	flags := Flags{
		Config:   Config{Directory: dir},
		Explicit: map[string]bool{"directory": true},
	}
	cfg, err := Resolve(flags, local, "", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "out.txt", cfg.Output)
}

func TestResolveMalformedFile(t *testing.T) {
	dir := t.TempDir()
	local := writeConfig(t, dir, "local.yaml", "output: [unclosed\n")

	flags := Flags{
		Config:   Config{Directory: dir},
		Explicit: map[string]bool{"directory": true},
	}
	_, err := Resolve(flags, local, "", zap.NewNop())
	assert.Error(t, err)
}

func TestNormalization(t *testing.T) {
	dir := t.TempDir()
	flags := Flags{
		Config: Config{
			Directory:   dir,
			IncludeExt:  []string{".TXT", " md ", ""},
			ExcludeDirs: []string{" Node_Modules "},
		},
		Explicit: map[string]bool{"directory": true, "include_ext": true, "exclude_dirs": true},
	}

	cfg, err := Resolve(flags, "", "", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"txt", "md"}, cfg.IncludeExt)
	assert.Equal(t, []string{"node_modules"}, cfg.ExcludeDirs)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing root", func(t *testing.T) {
		err := Validate(Config{Directory: filepath.Join(dir, "missing")})
		assert.Error(t, err)
	})

	t.Run("root is a file", func(t *testing.T) {
		path := writeConfig(t, dir, "file.txt", "x")
		err := Validate(Config{Directory: path})
		assert.ErrorContains(t, err, "not a directory")
	})

	t.Run("conflicting bounds", func(t *testing.T) {
		max := int64(10)
		err := Validate(Config{Directory: dir, MinSize: 20, MaxSize: &max})
		assert.ErrorContains(t, err, "exceeds max-size")
	})

	t.Run("valid", func(t *testing.T) {
		max := int64(100)
		assert.NoError(t, Validate(Config{Directory: dir, MinSize: 20, MaxSize: &max}))
	})
}
