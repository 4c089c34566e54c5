package discovery

import (
	"os"
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/sirupsen/logrus"

	"k6x/internal/domain"
)

const (
	// DefaultEntryName names the test behind an `export default` function
	DefaultEntryName = "default"
	// DefaultEntryDescription describes the default entry point
	DefaultEntryDescription = "Main k6 test function"
	// SyntheticEntryName names the single test of a file that only looks like a k6 script
	SyntheticEntryName = "k6 test"
	// SyntheticEntryDescription describes the synthetic entry point
	SyntheticEntryDescription = "K6 performance test"
)

var (
	// export default [async] function (...) [: Type] { or ;
	defaultFunctionPattern = regexp.MustCompile(`export\s+default\s+(?:async\s+)?function\s*\([^)]*\)\s*(?::\s*[\w<>\[\]|\s,Promise<>]+\s*)?[{;]`)
	// export default [async] (...) [: Type] =>, including typed params like (users: User[]): void =>
	defaultArrowPattern = regexp.MustCompile(`export\s+default\s+(?:async\s+)?\([^)]*\)\s*(?::\s*[\w<>\[\]|\s,.:]+\s*)?=>`)

	k6Markers = []*regexp.Regexp{
		regexp.MustCompile(`import.*from\s+['"]k6['"]`),
		regexp.MustCompile(`import.*from\s+['"]k6/`),
		regexp.MustCompile(`require\(['"]k6['"]\)`),
		regexp.MustCompile(`require\(['"]k6/`),
		regexp.MustCompile(`export\s+let\s+options`),
		regexp.MustCompile(`export\s+const\s+options`),
		regexp.MustCompile(`export\s+default\s+function`),
		regexp.MustCompile(`scenarios:`),
		regexp.MustCompile(`check\(`),
		regexp.MustCompile(`sleep\(`),
		regexp.MustCompile(`group\(`),
		regexp.MustCompile(`__VU`),
		regexp.MustCompile(`__ITER`),
	}
)

// Parser extracts test entry points from k6 scripts without building a syntax tree.
// It matches single lines, so multi-line signatures are missed and matches inside
// comments or strings are counted.
type Parser struct {
	log logrus.FieldLogger
}

// NewParser creates a new Parser
func NewParser(log logrus.FieldLogger) *Parser {
	return &Parser{log: log.WithField("component", "parser")}
}

// FindEntries reads a script and returns its entry points.
// An unreadable file is logged and treated as containing no tests.
func (p *Parser) FindEntries(filePath string) []domain.Entry {
	content, err := os.ReadFile(filePath)
	if err != nil {
		p.log.WithError(err).WithField("file", filePath).Warn("Failed to read test file")
		return nil
	}
	return p.ParseContent(string(content))
}

// ParseContent returns one entry per line declaring a default export function,
// or a single synthetic entry when the text merely looks like a k6 script.
func (p *Parser) ParseContent(content string) []domain.Entry {
	var entries []domain.Entry

	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if defaultFunctionPattern.MatchString(line) || defaultArrowPattern.MatchString(line) {
			entries = append(entries, domain.Entry{
				Name:        DefaultEntryName,
				Description: DefaultEntryDescription,
				Range: domain.Range{
					Start: domain.Position{Line: i, Column: 0},
					End:   domain.Position{Line: i, Column: utf16Len(line)},
				},
			})
		}
	}

	if len(entries) == 0 && LooksLikeK6Test(content) {
		entries = append(entries, domain.Entry{
			Name:        SyntheticEntryName,
			Description: SyntheticEntryDescription,
		})
	}

	return entries
}

// utf16Len counts UTF-16 code units, the column unit editors use
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// LooksLikeK6Test reports whether the text contains any k6 import or API marker
func LooksLikeK6Test(content string) bool {
	for _, marker := range k6Markers {
		if marker.MatchString(content) {
			return true
		}
	}
	return false
}
