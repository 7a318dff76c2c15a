// Package config resolves the effective aifeed configuration from CLI flags,
// a local config file, a global config file, and built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultMinSize is the lower size bound applied when no other source sets one.
const DefaultMinSize int64 = 51200

// LocalConfigName is the config file looked up in the working directory.
const LocalConfigName = "aifeed.yaml"

// Config is the fully resolved, immutable configuration for one run.
type Config struct {
	Directory        string   // Root directory to traverse
	Output           string   // Destination path for the combined output
	IncludeDirs      []string // Directory-name allow list (path-segment match)
	ExcludeDirs      []string // Directory-name deny list
	IncludeFiles     []string // Exact file-name allow list
	ExcludeFiles     []string // Exact file-name deny list
	IncludeExt       []string // Extension allow list, normalized without leading dot
	ExcludeExt       []string // Extension deny list
	MinSize          int64    // Exclude files smaller than this many bytes
	MaxSize          *int64   // Exclude files larger than this; nil means unbounded
	RespectGitignore bool     // Honor .gitignore files found during traversal
	TreeOnly         bool     // Emit a tree rendering instead of file contents
	Clipboard        bool     // Copy the finished artifact to the system clipboard
	Verbose          bool     // Log per-entry skip decisions
}

// FileConfig mirrors Config with every field optional, for YAML decoding.
// A nil field means the file does not set that option.
type FileConfig struct {
	Directory        *string  `yaml:"directory"`
	Output           *string  `yaml:"output"`
	IncludeDirs      []string `yaml:"include_dirs"`
	ExcludeDirs      []string `yaml:"exclude_dirs"`
	IncludeFiles     []string `yaml:"include_files"`
	ExcludeFiles     []string `yaml:"exclude_files"`
	IncludeExt       []string `yaml:"include_ext"`
	ExcludeExt       []string `yaml:"exclude_ext"`
	MinSize          *int64   `yaml:"min_size"`
	MaxSize          *int64   `yaml:"max_size"`
	RespectGitignore *bool    `yaml:"respect_gitignore"`
	TreeOnly         *bool    `yaml:"tree_only"`
	Clipboard        *bool    `yaml:"clipboard"`
}

// Flags carries the CLI values together with which of them the user
// explicitly set, so defaults on unset flags do not shadow file values.
type Flags struct {
	Config   Config
	Explicit map[string]bool // keyed by option name, e.g. "directory", "min_size"
}

// Set reports whether the named option was given on the command line.
func (f Flags) Set(name string) bool {
	return f.Explicit[name]
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Directory:        ".",
		Output:           "aifeed.txt",
		MinSize:          DefaultMinSize,
		RespectGitignore: true,
	}
}

// LoadFile reads and decodes a YAML config file. Unknown keys are ignored.
func LoadFile(path string) (*FileConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc FileConfig
	if err := yaml.Unmarshal(content, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

// GlobalConfigPath returns the path of the global config file,
// ~/.aifeed/config.yaml, or an empty string when the home directory
// cannot be determined.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".aifeed", "config.yaml")
}

// Resolve merges all configuration sources into one Config.
// Precedence, highest first: explicit CLI flags, the local config file,
// the global config file, built-in defaults. Missing config files are not
// an error; unreadable or malformed ones are.
func Resolve(flags Flags, localPath, globalPath string, logger *zap.Logger) (Config, error) {
	cfg := Default()

	for _, path := range []string{globalPath, localPath} {
		if path == "" {
			continue
		}
		fc, err := LoadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, err
		}
		logger.Debug("Loaded config file", zap.String("path", path))
		applyFile(&cfg, fc)
	}

	applyFlags(&cfg, flags)
	normalize(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyFile overlays the set fields of a file config onto cfg.
func applyFile(cfg *Config, fc *FileConfig) {
	if fc.Directory != nil {
		cfg.Directory = *fc.Directory
	}
	if fc.Output != nil {
		cfg.Output = *fc.Output
	}
	if fc.IncludeDirs != nil {
		cfg.IncludeDirs = fc.IncludeDirs
	}
	if fc.ExcludeDirs != nil {
		cfg.ExcludeDirs = fc.ExcludeDirs
	}
	if fc.IncludeFiles != nil {
		cfg.IncludeFiles = fc.IncludeFiles
	}
	if fc.ExcludeFiles != nil {
		cfg.ExcludeFiles = fc.ExcludeFiles
	}
	if fc.IncludeExt != nil {
		cfg.IncludeExt = fc.IncludeExt
	}
	if fc.ExcludeExt != nil {
		cfg.ExcludeExt = fc.ExcludeExt
	}
	if fc.MinSize != nil {
		cfg.MinSize = *fc.MinSize
	}
	if fc.MaxSize != nil {
		cfg.MaxSize = fc.MaxSize
	}
	if fc.RespectGitignore != nil {
		cfg.RespectGitignore = *fc.RespectGitignore
	}
	if fc.TreeOnly != nil {
		cfg.TreeOnly = *fc.TreeOnly
	}
	if fc.Clipboard != nil {
		cfg.Clipboard = *fc.Clipboard
	}
}

// applyFlags overlays explicitly-set CLI values onto cfg.
func applyFlags(cfg *Config, flags Flags) {
	cli := flags.Config
	if flags.Set("directory") {
		cfg.Directory = cli.Directory
	}
	if flags.Set("output") {
		cfg.Output = cli.Output
	}
	if flags.Set("include_dirs") {
		cfg.IncludeDirs = cli.IncludeDirs
	}
	if flags.Set("exclude_dirs") {
		cfg.ExcludeDirs = cli.ExcludeDirs
	}
	if flags.Set("include_files") {
		cfg.IncludeFiles = cli.IncludeFiles
	}
	if flags.Set("exclude_files") {
		cfg.ExcludeFiles = cli.ExcludeFiles
	}
	if flags.Set("include_ext") {
		cfg.IncludeExt = cli.IncludeExt
	}
	if flags.Set("exclude_ext") {
		cfg.ExcludeExt = cli.ExcludeExt
	}
	if flags.Set("min_size") {
		cfg.MinSize = cli.MinSize
	}
	if flags.Set("max_size") {
		cfg.MaxSize = cli.MaxSize
	}
	if flags.Set("respect_gitignore") {
		cfg.RespectGitignore = cli.RespectGitignore
	}
	if flags.Set("tree_only") {
		cfg.TreeOnly = cli.TreeOnly
	}
	if flags.Set("clipboard") {
		cfg.Clipboard = cli.Clipboard
	}
	cfg.Verbose = cli.Verbose
}

// normalize lowercases and trims the match lists. Extensions additionally
// lose any leading dot so "txt" and ".txt" mean the same thing.
func normalize(cfg *Config) {
	cfg.IncludeDirs = cleanList(cfg.IncludeDirs, false)
	cfg.ExcludeDirs = cleanList(cfg.ExcludeDirs, false)
	cfg.IncludeFiles = cleanList(cfg.IncludeFiles, false)
	cfg.ExcludeFiles = cleanList(cfg.ExcludeFiles, false)
	cfg.IncludeExt = cleanList(cfg.IncludeExt, true)
	cfg.ExcludeExt = cleanList(cfg.ExcludeExt, true)
}

func cleanList(items []string, ext bool) []string {
	var out []string
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if ext {
			item = strings.TrimPrefix(item, ".")
		}
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks the fatal preconditions: the root directory must exist and
// be a directory, and the size bounds must not conflict.
func Validate(cfg Config) error {
	info, err := os.Stat(cfg.Directory)
	if err != nil {
		return fmt.Errorf("input directory %q: %w", cfg.Directory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path %q is not a directory", cfg.Directory)
	}
	if cfg.MaxSize != nil && cfg.MinSize > *cfg.MaxSize {
		return fmt.Errorf("min-size %d exceeds max-size %d", cfg.MinSize, *cfg.MaxSize)
	}
	return nil
}
