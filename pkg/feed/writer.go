package feed

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Writer streams selected files into the output artifact. Each file becomes
// one block: a header line naming the relative path and size, a blank line,
// the raw content, and a single newline separator. Content ending in a
// newline therefore reads as a blank line before the next header; content
// without one is separated by the lone newline, never altered to add a
// blank line. A block is buffered and flushed as a unit, so an interrupted
// run never leaves a half-interleaved block.
type Writer struct {
	out    *bufio.Writer
	logger *zap.Logger

	// Files counts blocks written; Bytes counts content bytes (headers excluded).
	Files int
	Bytes int64
}

// NewWriter wraps the destination stream.
func NewWriter(w io.Writer, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{out: bufio.NewWriter(w), logger: logger}
}

// WriteRecord emits one file block. Binary or unreadable files are skipped
// with a warning and do not fail the run.
func (w *Writer) WriteRecord(record FileRecord) error {
	binary, err := isBinaryFile(record.AbsPath)
	if err != nil {
		w.logger.Warn("Failed to read file, skipping",
			zap.String("file", record.AbsPath), zap.Error(err))
		return nil
	}
	if binary {
		w.logger.Warn("Skipping binary file", zap.String("file", record.Path))
		return nil
	}

	file, err := os.Open(record.AbsPath)
	if err != nil {
		w.logger.Warn("Failed to open file, skipping",
			zap.String("file", record.AbsPath), zap.Error(err))
		return nil
	}
	defer file.Close()

	if _, err := fmt.Fprintf(w.out, "=== File: %s (%d bytes) ===\n\n", record.Path, record.Size); err != nil {
		return fmt.Errorf("write header for %s: %w", record.Path, err)
	}
	n, err := io.Copy(w.out, file)
	if err != nil {
		return fmt.Errorf("write contents of %s: %w", record.Path, err)
	}
	if _, err := w.out.WriteString("\n"); err != nil {
		return fmt.Errorf("write block end for %s: %w", record.Path, err)
	}
	if err := w.out.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	w.Files++
	w.Bytes += n
	return nil
}

// WriteTree emits a tree rendering of the selected paths in place of any
// content blocks.
func (w *Writer) WriteTree(records []FileRecord) error {
	if _, err := w.out.WriteString(RenderTree(records)); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}
	if err := w.out.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	w.Files = len(records)
	return nil
}
