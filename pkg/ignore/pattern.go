package ignore

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Precompiled regular expressions used in pattern parsing.
var (
	doubleStarMiddle   = regexp.MustCompile(`/\*\*/`)
	doubleStarTrailing = regexp.MustCompile(`/\*\*$`)
	doubleStarLeading  = regexp.MustCompile(`^\*\*/`)
	singleStar         = regexp.MustCompile(`\*`)
)

// Pattern is one compiled rule from an ignore file.
type Pattern struct {
	Regex  *regexp.Regexp // Compiled regular expression for the rule.
	Negate bool           // True when the rule re-includes matched paths.
	Line   string         // Original pattern line.
	LineNo int            // Line number in the source file (1-based).
}

// CompileLines parses ignore-file lines into patterns. Comments, blank lines,
// and lines that fail to compile contribute no pattern; compile failures are
// logged as warnings so a malformed file never aborts a run.
func CompileLines(lines []string, logger *zap.Logger) []*Pattern {
	var patterns []*Pattern
	for i, line := range lines {
		regex, negate, ok := parseLine(line)
		if !ok {
			continue
		}
		if regex == nil {
			logger.Warn("Skipping malformed ignore pattern",
				zap.Int("lineNo", i+1),
				zap.String("line", line))
			continue
		}
		patterns = append(patterns, &Pattern{
			Regex:  regex,
			Negate: negate,
			Line:   line,
			LineNo: i + 1,
		})
	}
	return patterns
}

// parseLine processes a single ignore-file line. The third return value is
// false for blank lines and comments; a nil regex with ok=true marks a line
// that looked like a rule but did not compile.
func parseLine(line string) (*regexp.Regexp, bool, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, false, false
	}

	negate := false
	if strings.HasPrefix(trimmed, "!") {
		negate = true
		trimmed = strings.TrimPrefix(trimmed, "!")
	}

	// Escaped leading '#' or '!' are literal.
	if strings.HasPrefix(trimmed, `\#`) || strings.HasPrefix(trimmed, `\!`) {
		trimmed = trimmed[1:]
	}

	expr := escapeSpecialChars(trimmed)
	expr = handleDoubleStarPatterns(expr)
	expr = wildcardToRegex(expr)
	expr = anchorPattern(expr, trimmed)

	regex, err := regexp.Compile(expr)
	if err != nil {
		return nil, negate, true
	}
	return regex, negate, true
}

// escapeSpecialChars escapes regex special characters except '*', '?', and '/'.
func escapeSpecialChars(pattern string) string {
	specialChars := `.+()|^$[]{}`
	for _, char := range specialChars {
		pattern = strings.ReplaceAll(pattern, string(char), `\`+string(char))
	}
	return pattern
}

// handleDoubleStarPatterns replaces '**' segments with their regex equivalents.
func handleDoubleStarPatterns(pattern string) string {
	pattern = doubleStarMiddle.ReplaceAllString(pattern, `(/|/.+/)`)
	pattern = doubleStarTrailing.ReplaceAllString(pattern, `(/.*)?`)
	pattern = doubleStarLeading.ReplaceAllString(pattern, `(.*/)?`)
	return pattern
}

// wildcardToRegex converts '*' and '?' wildcards to regex equivalents.
func wildcardToRegex(pattern string) string {
	pattern = singleStar.ReplaceAllString(pattern, `[^/]*`)
	return strings.ReplaceAll(pattern, "?", ".")
}

// anchorPattern anchors the expression to match the full path. A trailing
// slash on the original pattern restricts the rule to directories; a leading
// slash pins it to the scope root instead of any depth.
func anchorPattern(pattern string, originalPattern string) string {
	if strings.HasSuffix(originalPattern, "/") {
		pattern += "(.*)?$"
	} else {
		pattern += "(/.*)?$"
	}

	if strings.HasPrefix(originalPattern, "/") {
		return "^" + strings.TrimPrefix(pattern, `/`)
	}
	return "^(|.*/)" + pattern
}
