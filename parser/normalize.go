package parser

import (
	"math/rand/v2"
	"regexp"
	"strings"
)

// Marker grammar. Detection always runs against the raw line; stripping
// mutates the working title.
var (
	// Bracketed forms first so the bare literals do not leave bracket
	// debris behind.
	urgencyRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\[urgente\]`),
		regexp.MustCompile(`(?i)urgente`),
		regexp.MustCompile(`(?i)\[urgent\]`),
		regexp.MustCompile(`(?i)urgent`),
	}
	durationRe = regexp.MustCompile(`(?i)\((\d+)\s*(min|m|h|hour|hora)\)`)
	tagRe      = regexp.MustCompile(`#(\w+)`)
	impactRe   = regexp.MustCompile(`(?i)!i:(\d+)`)
	effortRe   = regexp.MustCompile(`(?i)!e:(\d+)`)
)

// stripUrgency removes every urgency literal, in all spellings and cases.
func stripUrgency(s string) string {
	for _, re := range urgencyRes {
		s = re.ReplaceAllString(s, "")
	}
	return s
}

// CleanTitle strips every marker the grammar knows about from line and
// collapses the remaining whitespace. Running it over an already-clean
// title is a no-op.
func CleanTitle(line string) string {
	s := stripUrgency(line)
	if m := durationRe.FindString(s); m != "" {
		s = strings.Replace(s, m, "", 1)
	}
	s = tagRe.ReplaceAllString(s, "")
	s = impactRe.ReplaceAllString(s, "")
	s = effortRe.ReplaceAllString(s, "")
	return collapseWhitespace(s)
}

// collapseWhitespace trims and squeezes interior runs to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// globalSource adapts the auto-seeded math/rand/v2 global to RandSource.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// NewSeeded returns a parser with a fixed-seed source, for reproducible
// parses and tests. Determinism is otherwise an explicit non-guarantee.
func NewSeeded(seed uint64) *Parser {
	return NewWithSource(rand.New(rand.NewPCG(seed, seed)))
}
