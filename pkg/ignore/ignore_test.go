package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func compile(t *testing.T, lines ...string) []*Pattern {
	t.Helper()
	return CompileLines(lines, zap.NewNop())
}

func TestCompileLinesSkipsCommentsAndBlanks(t *testing.T) {
	patterns := compile(t, "# comment", "", "   ", "*.log")
	require.Len(t, patterns, 1)
	assert.Equal(t, "*.log", patterns[0].Line)
	assert.Equal(t, 4, patterns[0].LineNo)
}

func TestCompileLinesDropsUncompilableLine(t *testing.T) {
	// A trailing backslash produces an expression regexp cannot compile;
	// the line contributes no rule and the rest of the file still applies.
	patterns := compile(t, `bad\`, "*.log")
	require.Len(t, patterns, 1)
	assert.Equal(t, "*.log", patterns[0].Line)

	m := NewMatcher(true, zap.NewNop())
	m.Push(RuleSet{Patterns: patterns})
	assert.True(t, m.Match("debug.log", false))
	assert.False(t, m.Match("bad", false))
}

func TestCompileLinesNegation(t *testing.T) {
	patterns := compile(t, "!keep.log")
	require.Len(t, patterns, 1)
	assert.True(t, patterns[0].Negate)
}

func matcherWith(lines ...string) *Matcher {
	m := NewMatcher(true, zap.NewNop())
	m.Push(RuleSet{Scope: "", Patterns: CompileLines(lines, zap.NewNop())})
	return m
}

func TestMatchWildcards(t *testing.T) {
	m := matcherWith("*.log")
	assert.True(t, m.Match("debug.log", false))
	assert.True(t, m.Match("sub/deep/debug.log", false))
	assert.False(t, m.Match("debug.txt", false))
}

func TestMatchDirectoryPattern(t *testing.T) {
	m := matcherWith("build/")
	assert.True(t, m.Match("build", true))
	assert.True(t, m.Match("build/out.o", false))
	assert.False(t, m.Match("build", false)) // plain file named build
}

func TestMatchAnchoredPattern(t *testing.T) {
	m := matcherWith("/draft.txt")
	assert.True(t, m.Match("draft.txt", false))
	assert.False(t, m.Match("sub/draft.txt", false))
}

func TestMatchDoubleStar(t *testing.T) {
	m := matcherWith("docs/**/api.md")
	assert.True(t, m.Match("docs/api.md", false))
	assert.True(t, m.Match("docs/v1/internal/api.md", false))
	assert.False(t, m.Match("docs/api.txt", false))
}

func TestMatchQuestionMark(t *testing.T) {
	m := matcherWith("file?.txt")
	assert.True(t, m.Match("file1.txt", false))
	assert.False(t, m.Match("file10.txt", false))
}

func TestLastMatchWinsWithinScope(t *testing.T) {
	m := matcherWith("*.log", "!keep.log")
	assert.True(t, m.Match("debug.log", false))
	assert.False(t, m.Match("keep.log", false))
}

func TestNestedScopeNegationReincludes(t *testing.T) {
	m := NewMatcher(true, zap.NewNop())
	m.Push(RuleSet{Scope: "", Patterns: CompileLines([]string{"*.log"}, zap.NewNop())})
	m.Push(RuleSet{Scope: "sub", Patterns: CompileLines([]string{"!keep.log"}, zap.NewNop())})

	// Root rule still applies outside the nested scope.
	assert.True(t, m.Match("other.log", false))
	assert.True(t, m.Match("sub/debug.log", false))
	// Nested negation re-includes within its own scope.
	assert.False(t, m.Match("sub/keep.log", false))

	// Popping the nested scope restores the root exclusion.
	m.Pop()
	assert.True(t, m.Match("sub/keep.log", false))
}

func TestDisabledMatcher(t *testing.T) {
	m := NewMatcher(false, zap.NewNop())
	m.Push(RuleSet{Patterns: CompileLines([]string{"*"}, zap.NewNop())})
	assert.False(t, m.Match("anything", false))
	assert.False(t, m.Enabled())
}

func TestPushDirReadsIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, IgnoreFileName), []byte("*.tmp\n"), 0o644))

	m := NewMatcher(true, zap.NewNop())
	m.PushDir(dir, "")
	assert.True(t, m.Match("scratch.tmp", false))
	assert.False(t, m.Match("scratch.txt", false))
}

func TestPushDirWithoutIgnoreFile(t *testing.T) {
	m := NewMatcher(true, zap.NewNop())
	m.PushDir(t.TempDir(), "")
	assert.False(t, m.Match("anything", false))
	m.Pop()
}
