package cmd

import (
	"aifeed/pkg/config"
	"aifeed/pkg/feed"
	"aifeed/pkg/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootFlags struct {
	directory        string
	output           string
	includeDirs      []string
	excludeDirs      []string
	includeFiles     []string
	excludeFiles     []string
	includeExt       []string
	excludeExt       []string
	minSize          int64
	maxSize          int64
	respectGitignore bool
	treeOnly         bool
	clipboard        bool
	verbose          bool
}

// flagOptions maps cobra flag names to the config option they set. Only
// changed flags override config-file values, even though cobra fills in
// defaults for the rest.
var flagOptions = map[string]string{
	"dir":               "directory",
	"output":            "output",
	"include-dirs":      "include_dirs",
	"exclude-dirs":      "exclude_dirs",
	"include-files":     "include_files",
	"exclude-files":     "exclude_files",
	"include-ext":       "include_ext",
	"exclude-ext":       "exclude_ext",
	"min-size":          "min_size",
	"max-size":          "max_size",
	"respect-gitignore": "respect_gitignore",
	"tree-only":         "tree_only",
	"clipboard":         "clipboard",
}

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "aifeed",
	Short: "aifeed combines text files into one artifact for AI pipelines",
	Long: `aifeed walks a directory tree, filters files by name, extension, size,
and gitignore rules, and concatenates their contents into a single output
artifact (or a tree-only summary).

Options may also be set in a YAML config file. The local file ./aifeed.yaml
and the global file ~/.aifeed/config.yaml are both read when present;
command-line flags override the local file, which overrides the global one.`,
	SilenceUsage: true,
}

// Execute resolves the configuration and runs the combine pass.
func Execute(logger *zap.Logger) error {
	RootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if rootFlags.verbose {
			verboseLogger, err := logging.Setup(true, "aifeed")
			if err != nil {
				logger.Warn("Failed to switch to verbose logging, keeping the current logger", zap.Error(err))
			} else {
				logger = verboseLogger
			}
		}

		// An explicit --max-size 0 lifts any config-file bound rather than
		// excluding every non-empty file.
		var maxSize *int64
		if rootFlags.maxSize > 0 {
			maxSize = &rootFlags.maxSize
		}

		flags := config.Flags{
			Config: config.Config{
				Directory:        rootFlags.directory,
				Output:           rootFlags.output,
				IncludeDirs:      rootFlags.includeDirs,
				ExcludeDirs:      rootFlags.excludeDirs,
				IncludeFiles:     rootFlags.includeFiles,
				ExcludeFiles:     rootFlags.excludeFiles,
				IncludeExt:       rootFlags.includeExt,
				ExcludeExt:       rootFlags.excludeExt,
				MinSize:          rootFlags.minSize,
				MaxSize:          maxSize,
				RespectGitignore: rootFlags.respectGitignore,
				TreeOnly:         rootFlags.treeOnly,
				Clipboard:        rootFlags.clipboard,
				Verbose:          rootFlags.verbose,
			},
			Explicit: map[string]bool{},
		}
		for flagName, option := range flagOptions {
			if cmd.Flags().Changed(flagName) {
				flags.Explicit[option] = true
			}
		}

		cfg, err := config.Resolve(flags, config.LocalConfigName, config.GlobalConfigPath(), logger)
		if err != nil {
			return err
		}
		return feed.Run(cfg, logger)
	}

	return RootCmd.Execute()
}

func init() {
	f := RootCmd.Flags()
	f.StringVarP(&rootFlags.directory, "dir", "d", ".", "input directory to traverse")
	f.StringVarP(&rootFlags.output, "output", "o", "aifeed.txt", "output file path")
	f.StringSliceVar(&rootFlags.includeDirs, "include-dirs", nil, "directory names to include (path-segment match)")
	f.StringSliceVar(&rootFlags.excludeDirs, "exclude-dirs", nil, "directory names to exclude")
	f.StringSliceVar(&rootFlags.includeFiles, "include-files", nil, "file names to include")
	f.StringSliceVar(&rootFlags.excludeFiles, "exclude-files", nil, "file names to exclude")
	f.StringSliceVar(&rootFlags.includeExt, "include-ext", nil, "file extensions to include")
	f.StringSliceVar(&rootFlags.excludeExt, "exclude-ext", nil, "file extensions to exclude")
	f.Int64VarP(&rootFlags.minSize, "min-size", "n", config.DefaultMinSize, "exclude files smaller than this many bytes")
	f.Int64VarP(&rootFlags.maxSize, "max-size", "m", 0, "exclude files larger than this many bytes (0 means unbounded)")
	f.BoolVar(&rootFlags.respectGitignore, "respect-gitignore", true, "honor .gitignore files found during traversal")
	f.BoolVar(&rootFlags.treeOnly, "tree-only", false, "emit a directory tree instead of file contents")
	f.BoolVar(&rootFlags.clipboard, "clipboard", false, "copy the output to the system clipboard")
	f.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "log per-entry skip decisions")
}
