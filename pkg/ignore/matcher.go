// Package ignore implements gitignore-style path exclusion with the
// conventional per-directory layering: rules from deeper ignore files are
// evaluated after shallower ones and can re-include paths via negation.
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// IgnoreFileName is the ignore file discovered in each traversed directory.
const IgnoreFileName = ".gitignore"

// RuleSet holds the compiled rules of one ignore file together with the
// directory scope (relative to the traversal root) they apply from.
type RuleSet struct {
	Scope    string // Slash-separated path relative to the root; "" for the root itself.
	Patterns []*Pattern
}

// Matcher answers whether a path relative to the traversal root is ignored.
// Scopes are pushed as the traversal descends and popped as it ascends, so
// the active stack always mirrors the ancestry of the path being tested.
type Matcher struct {
	enabled bool
	scopes  []RuleSet
	logger  *zap.Logger
}

// NewMatcher returns a matcher that honors ignore files. Pass enabled=false
// to get a matcher that never matches and never reads the filesystem.
func NewMatcher(enabled bool, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{enabled: enabled, logger: logger}
}

// Enabled reports whether ignore rules are being honored.
func (m *Matcher) Enabled() bool {
	return m.enabled
}

// PushDir reads the ignore file in dir, if any, and pushes its rules as a new
// scope. It always pushes exactly one scope (possibly empty) so that Pop can
// be called unconditionally on ascent. scopeRel is dir's slash-separated path
// relative to the traversal root, "" for the root. An unreadable or malformed
// ignore file contributes zero rules.
func (m *Matcher) PushDir(dir, scopeRel string) {
	if !m.enabled {
		return
	}
	rs := RuleSet{Scope: scopeRel}
	content, err := os.ReadFile(filepath.Join(dir, IgnoreFileName))
	if err == nil {
		rs.Patterns = CompileLines(strings.Split(string(content), "\n"), m.logger)
		m.logger.Debug("Loaded ignore file",
			zap.String("dir", dir),
			zap.Int("patterns", len(rs.Patterns)))
	} else if !os.IsNotExist(err) {
		m.logger.Warn("Failed to read ignore file",
			zap.String("dir", dir), zap.Error(err))
	}
	m.scopes = append(m.scopes, rs)
}

// Push adds a pre-built rule set as the innermost scope. Used by tests and
// callers that inject synthetic rules.
func (m *Matcher) Push(rs RuleSet) {
	if !m.enabled {
		return
	}
	m.scopes = append(m.scopes, rs)
}

// Pop removes the innermost scope.
func (m *Matcher) Pop() {
	if !m.enabled || len(m.scopes) == 0 {
		return
	}
	m.scopes = m.scopes[:len(m.scopes)-1]
}

// Match reports whether rel (slash-separated, relative to the root) is
// ignored. Scopes are evaluated outermost first, rules in file order within
// each scope, and the last matching rule wins, so a nested negation can
// re-include a path excluded by an ancestor.
func (m *Matcher) Match(rel string, isDir bool) bool {
	if !m.enabled {
		return false
	}

	candidate := rel
	if isDir && !strings.HasSuffix(candidate, "/") {
		candidate += "/"
	}

	matched := false
	for _, scope := range m.scopes {
		sub := candidate
		if scope.Scope != "" {
			prefix := scope.Scope + "/"
			if !strings.HasPrefix(candidate, prefix) {
				continue
			}
			sub = strings.TrimPrefix(candidate, prefix)
		}
		for _, p := range scope.Patterns {
			if p.Regex.MatchString(sub) {
				matched = !p.Negate
			}
		}
	}
	return matched
}
