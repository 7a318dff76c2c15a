// Package feed selects files under a root directory according to the resolved
// configuration and concatenates them into a single output artifact.
package feed

import (
	"fmt"
	"os"
	"time"

	"aifeed/pkg/config"
	"aifeed/pkg/ignore"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Run executes one selection-and-combine pass. Fatal preconditions (missing
// root, conflicting size bounds, unwritable output) are returned as errors
// before the output file is created, so a failed run never truncates an
// existing artifact. Per-entry problems are logged and skipped.
func Run(cfg config.Config, logger *zap.Logger) error {
	startTime := time.Now()
	logger.Info("Starting run",
		zap.String("directory", cfg.Directory),
		zap.String("output", cfg.Output),
		zap.Bool("treeOnly", cfg.TreeOnly))

	if err := config.Validate(cfg); err != nil {
		return err
	}

	matcher := ignore.NewMatcher(cfg.RespectGitignore, logger)
	selector, err := NewSelector(cfg, matcher, logger)
	if err != nil {
		return err
	}

	// Preconditions hold; only now is the output file created.
	outFile, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", cfg.Output, err)
	}
	defer outFile.Close()

	writer := NewWriter(outFile, logger)

	if cfg.TreeOnly {
		var records []FileRecord
		for {
			record, ok := selector.Next()
			if !ok {
				break
			}
			records = append(records, record)
		}
		if err := writer.WriteTree(records); err != nil {
			return err
		}
	} else {
		for {
			record, ok := selector.Next()
			if !ok {
				break
			}
			if err := writer.WriteRecord(record); err != nil {
				return err
			}
		}
	}

	if err := outFile.Close(); err != nil {
		return fmt.Errorf("close output file %q: %w", cfg.Output, err)
	}

	if cfg.Clipboard {
		if err := copyToClipboard(cfg.Output); err != nil {
			logger.Warn("Failed to copy output to clipboard", zap.Error(err))
		} else {
			logger.Info("Copied output to clipboard")
		}
	}

	logger.Info("Run completed",
		zap.Int("files", writer.Files),
		zap.String("contentSize", humanize.Bytes(uint64(writer.Bytes))),
		zap.Duration("elapsed", time.Since(startTime)))
	return nil
}

// copyToClipboard places the finished artifact's contents on the system
// clipboard.
func copyToClipboard(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read output for clipboard: %w", err)
	}
	if err := clipboard.WriteAll(string(content)); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
