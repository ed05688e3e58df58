// Package parser turns freeform "chaos list" text into task drafts.
//
// Each non-empty line becomes one draft. A small, order-independent marker
// grammar is extracted per line: urgency literals, a parenthesised
// duration, #tags, and explicit !i:/!e: position overrides. Everything
// that is not a marker survives as the display title. The grammar is
// deliberately regex-driven rather than a real tokenizer: inputs are
// short single lines and the marker set is small and non-recursive.
package parser

import (
	"strconv"
	"strings"

	"github.com/chaosmap-io/chaosmap/models"
)

// workdayMinutes is the duration that maps to 100% effort.
const workdayMinutes = 480

// RandSource supplies the uniform values used for unspecified
// impact/effort. Injectable so tests can fix the sequence; production
// uses the auto-seeded math/rand/v2 global.
type RandSource interface {
	Float64() float64
}

// Parser extracts task drafts from raw multi-line text.
type Parser struct {
	rand RandSource
}

// New returns a parser backed by the process-global random source.
func New() *Parser {
	return &Parser{rand: globalSource{}}
}

// NewWithSource returns a parser drawing randomness from src.
func NewWithSource(src RandSource) *Parser {
	return &Parser{rand: src}
}

// Parse splits rawText into lines and produces one draft per non-blank
// line, in input order. It never fails: malformed markers are simply not
// matched and the affected field falls back to its default rule. Empty
// input yields an empty slice.
func (p *Parser) Parse(rawText string) []models.TaskDraft {
	drafts := []models.TaskDraft{}
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		drafts = append(drafts, p.parseLine(line))
	}
	return drafts
}

// parseLine runs the marker passes in fixed order: urgency, duration,
// tags, overrides. Each pass detects against the original raw line and
// strips from a shared working title, so overlapping markers resolve
// deterministically.
func (p *Parser) parseLine(raw string) models.TaskDraft {
	draft := models.NewDraft(raw)
	title := raw

	// Urgency: any case-insensitive occurrence of the literals. The
	// English token is a substring of the Spanish one, so one containment
	// check covers all four forms.
	if strings.Contains(strings.ToLower(raw), "urgent") {
		draft.Urgency = true
		title = stripUrgency(title)
	}

	// Duration, e.g. (30m), (45 min), (2h). Hour-like units convert to
	// minutes; the heuristic effort is a fraction of one workday, later
	// overwritten by an explicit !e: override.
	hasDuration := false
	if m := durationRe.FindStringSubmatch(raw); m != nil {
		value, err := strconv.Atoi(m[1])
		if err == nil {
			if strings.HasPrefix(strings.ToLower(m[2]), "h") {
				value *= 60
			}
			draft.Duration = &value
			draft.Effort = models.Clamp(float64(value)/workdayMinutes*100, 0, 100)
			hasDuration = true
			title = strings.Replace(title, m[0], "", 1)
		}
	}

	// Tags: every #word occurrence. Tags form a set per task, so a
	// repeated tag is stripped from the title but recorded once.
	seen := map[string]bool{}
	for _, m := range tagRe.FindAllStringSubmatch(raw, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			draft.Tags = append(draft.Tags, m[1])
		}
		title = strings.Replace(title, m[0], "", 1)
	}

	// Explicit position overrides win regardless of textual order.
	hasImpact := false
	if m := impactRe.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			draft.Impact = models.Clamp(float64(v), 0, 100)
			hasImpact = true
			title = strings.Replace(title, m[0], "", 1)
		}
	}
	hasEffort := false
	if m := effortRe.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			draft.Effort = models.Clamp(float64(v), 0, 100)
			hasEffort = true
			title = strings.Replace(title, m[0], "", 1)
		}
	}

	// Unspecified coordinates land somewhere readable on the map rather
	// than stacking at 50/50.
	if !hasImpact {
		draft.Impact = 20 + p.rand.Float64()*60
	}
	if !hasEffort && !hasDuration {
		draft.Effort = 20 + p.rand.Float64()*60
	}

	// A line made only of markers still names a task; keep the raw line
	// as the title rather than producing an untitled draft.
	draft.Title = collapseWhitespace(title)
	if draft.Title == "" {
		draft.Title = raw
	}
	return draft
}
