package feed

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"aifeed/pkg/config"
	"aifeed/pkg/ignore"

	"go.uber.org/zap"
)

// Selector walks the configured root depth-first and yields the files that
// pass every selection rule, one at a time. Sibling entries are visited in
// lexicographic name order, so the sequence is deterministic regardless of
// filesystem listing order. A Selector is consumed once; it is not safe for
// concurrent use and does not need to be.
type Selector struct {
	cfg       config.Config
	matcher   *ignore.Matcher
	logger    *zap.Logger
	root      string // absolute root directory
	outputAbs string // absolute output path, guarded against self-inclusion
	stack     []*frame
}

// frame is one directory being traversed: its sorted entries and a cursor.
type frame struct {
	dir           string // absolute path
	rel           string // slash-separated path relative to root, "" for root
	entries       []fs.DirEntry
	next          int
	underIncluded bool // this directory or an ancestor matched include_dirs
}

// NewSelector validates the traversal preconditions and positions the
// iterator at the first entry of the root. A missing or non-directory root is
// a fatal error reported here, before any traversal work.
func NewSelector(cfg config.Config, matcher *ignore.Matcher, logger *zap.Logger) (*Selector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	root, err := filepath.Abs(cfg.Directory)
	if err != nil {
		return nil, fmt.Errorf("resolve input directory: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("input directory %q: %w", cfg.Directory, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path %q is not a directory", cfg.Directory)
	}

	outputAbs, err := filepath.Abs(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("resolve output path: %w", err)
	}

	s := &Selector{
		cfg:       cfg,
		matcher:   matcher,
		logger:    logger,
		root:      root,
		outputAbs: outputAbs,
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read input directory %q: %w", cfg.Directory, err)
	}
	matcher.PushDir(root, "")
	s.stack = append(s.stack, &frame{dir: root, rel: "", entries: entries})
	return s, nil
}

// Next returns the next selected file, or ok=false when the traversal is
// exhausted. Per-entry failures (unreadable subdirectory, failed stat) are
// logged and skipped; they never end the sequence early.
func (s *Selector) Next() (FileRecord, bool) {
	for len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		if top.next >= len(top.entries) {
			s.stack = s.stack[:len(s.stack)-1]
			s.matcher.Pop()
			continue
		}

		entry := top.entries[top.next]
		top.next++

		rel := entry.Name()
		if top.rel != "" {
			rel = path.Join(top.rel, entry.Name())
		}
		abs := filepath.Join(top.dir, entry.Name())

		if entry.IsDir() {
			s.descend(top, entry, abs, rel)
			continue
		}

		if record, ok := s.selectFile(entry, abs, rel); ok {
			return record, true
		}
	}
	return FileRecord{}, false
}

// descend applies the directory rules and, when the directory qualifies,
// pushes it onto the traversal stack along with its ignore scope.
func (s *Selector) descend(parent *frame, entry fs.DirEntry, abs, rel string) {
	name := strings.ToLower(entry.Name())

	if contains(s.cfg.ExcludeDirs, name) {
		s.debug("Skipping excluded directory", rel)
		return
	}

	underIncluded := parent.underIncluded || contains(s.cfg.IncludeDirs, name)
	if len(s.cfg.IncludeDirs) > 0 && !underIncluded {
		s.debug("Skipping directory outside include list", rel)
		return
	}

	if s.matcher.Match(rel, true) {
		s.debug("Skipping ignored directory", rel)
		return
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		s.logger.Warn("Failed to read directory, continuing with siblings",
			zap.String("dir", abs), zap.Error(err))
		return
	}

	s.matcher.PushDir(abs, rel)
	s.stack = append(s.stack, &frame{
		dir:           abs,
		rel:           rel,
		entries:       entries,
		underIncluded: underIncluded,
	})
}

// selectFile applies the file-level rules to one entry. Name exclusion,
// ignore rules, and the output-path guard are hard boundaries; an
// include_files match bypasses only the extension and size filters.
func (s *Selector) selectFile(entry fs.DirEntry, abs, rel string) (FileRecord, bool) {
	name := strings.ToLower(entry.Name())

	if contains(s.cfg.ExcludeFiles, name) {
		s.debug("Skipping excluded file", rel)
		return FileRecord{}, false
	}
	if s.matcher.Match(rel, false) {
		s.debug("Skipping ignored file", rel)
		return FileRecord{}, false
	}
	if abs == s.outputAbs {
		s.debug("Skipping output file", rel)
		return FileRecord{}, false
	}

	info, err := entry.Info()
	if err != nil {
		s.logger.Warn("Failed to stat file, skipping",
			zap.String("file", abs), zap.Error(err))
		return FileRecord{}, false
	}

	if !contains(s.cfg.IncludeFiles, name) {
		if len(s.cfg.IncludeFiles) > 0 {
			s.debug("Skipping file outside include list", rel)
			return FileRecord{}, false
		}

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		if contains(s.cfg.ExcludeExt, ext) {
			s.debug("Skipping excluded extension", rel)
			return FileRecord{}, false
		}
		if len(s.cfg.IncludeExt) > 0 && !contains(s.cfg.IncludeExt, ext) {
			s.debug("Skipping extension outside include list", rel)
			return FileRecord{}, false
		}

		if info.Size() < s.cfg.MinSize {
			s.debug("Skipping file below size bound", rel)
			return FileRecord{}, false
		}
		if s.cfg.MaxSize != nil && info.Size() > *s.cfg.MaxSize {
			s.debug("Skipping file above size bound", rel)
			return FileRecord{}, false
		}
	}

	return FileRecord{Path: rel, AbsPath: abs, Size: info.Size()}, true
}

func (s *Selector) debug(msg, rel string) {
	if s.cfg.Verbose {
		s.logger.Debug(msg, zap.String("path", rel))
	}
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}
