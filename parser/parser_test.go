package parser

import (
	"strings"
	"testing"

	"github.com/chaosmap-io/chaosmap/models"
)

// fixedSource returns a constant value, pinning randomized fields.
type fixedSource struct{ v float64 }

func (f fixedSource) Float64() float64 { return f.v }

func parseOne(t *testing.T, line string) models.TaskDraft {
	t.Helper()
	drafts := NewSeeded(1).Parse(line)
	if len(drafts) != 1 {
		t.Fatalf("expected 1 draft for %q, got %d", line, len(drafts))
	}
	return drafts[0]
}

func TestParse_EmptyInput(t *testing.T) {
	p := New()
	for _, input := range []string{"", "\n\n", "   \n\t\n  "} {
		if got := p.Parse(input); len(got) != 0 {
			t.Errorf("Parse(%q) = %d drafts, want 0", input, len(got))
		}
	}
}

func TestParse_PreservesLineOrder(t *testing.T) {
	input := "first task\n\nsecond task\n   \nthird task"
	drafts := NewSeeded(7).Parse(input)
	if len(drafts) != 3 {
		t.Fatalf("expected 3 drafts, got %d", len(drafts))
	}
	want := []string{"first task", "second task", "third task"}
	for i, w := range want {
		if drafts[i].Title != w {
			t.Errorf("draft %d title = %q, want %q", i, drafts[i].Title, w)
		}
	}
}

func TestParse_Urgency(t *testing.T) {
	tests := []struct {
		line      string
		wantTitle string
	}{
		{"Tarea [URGENTE]", "Tarea"},
		{"tarea urgente", "tarea"},
		{"fix login [Urgent]", "fix login"},
		{"call supplier urgent", "call supplier"},
	}
	for _, tt := range tests {
		draft := parseOne(t, tt.line)
		if !draft.Urgency {
			t.Errorf("%q: urgency not detected", tt.line)
		}
		if draft.Title != tt.wantTitle {
			t.Errorf("%q: title = %q, want %q", tt.line, draft.Title, tt.wantTitle)
		}
	}
}

func TestParse_NoUrgency(t *testing.T) {
	draft := parseOne(t, "water the plants")
	if draft.Urgency {
		t.Error("urgency should default to false")
	}
}

func TestParse_Duration(t *testing.T) {
	tests := []struct {
		line       string
		wantMins   int
		wantEffort float64
	}{
		{"review PR (2h)", 120, 25},
		{"standup (45m)", 45, 9.375},
		{"deep work (90min)", 90, 18.75},
		{"workshop (8 h)", 480, 100},
		{"marathon planning (16 hour)", 960, 100}, // clamped
		{"siesta (1 hora)", 60, 12.5},
	}
	for _, tt := range tests {
		draft := parseOne(t, tt.line)
		if draft.Duration == nil || *draft.Duration != tt.wantMins {
			t.Errorf("%q: duration = %v, want %d", tt.line, draft.Duration, tt.wantMins)
			continue
		}
		if draft.Effort != tt.wantEffort {
			t.Errorf("%q: derived effort = %v, want %v", tt.line, draft.Effort, tt.wantEffort)
		}
		if strings.Contains(draft.Title, "(") {
			t.Errorf("%q: duration marker not stripped from title %q", tt.line, draft.Title)
		}
	}
}

func TestParse_MalformedDurationIgnored(t *testing.T) {
	draft := parseOne(t, "vague meeting (soon)")
	if draft.Duration != nil {
		t.Errorf("non-numeric duration matched: %v", *draft.Duration)
	}
	if draft.Title != "vague meeting (soon)" {
		t.Errorf("unmatched marker should stay in title, got %q", draft.Title)
	}
}

func TestParse_Tags(t *testing.T) {
	draft := parseOne(t, "Fix bug #dev #prod")
	if len(draft.Tags) != 2 || draft.Tags[0] != "dev" || draft.Tags[1] != "prod" {
		t.Errorf("tags = %v, want [dev prod]", draft.Tags)
	}
	if draft.Title != "Fix bug" {
		t.Errorf("title = %q, want %q", draft.Title, "Fix bug")
	}
}

func TestParse_RepeatedTagRecordedOnce(t *testing.T) {
	draft := parseOne(t, "Fix bug #dev #dev")
	if len(draft.Tags) != 1 || draft.Tags[0] != "dev" {
		t.Errorf("tags = %v, want [dev]", draft.Tags)
	}
	if draft.Title != "Fix bug" {
		t.Errorf("title = %q, want %q", draft.Title, "Fix bug")
	}
	// The draft must survive the store's uniqueness rule unchanged.
	if err := models.ValidateStruct(draft); err != nil {
		t.Errorf("draft with repeated input tag failed validation: %v", err)
	}
}

func TestParse_MarkerOnlyLineKeepsRawTitle(t *testing.T) {
	draft := parseOne(t, "urgente (30 min) #later")
	if draft.Title != "urgente (30 min) #later" {
		t.Errorf("title = %q, want the raw line", draft.Title)
	}
	if !draft.Urgency {
		t.Error("urgency not detected")
	}
	if draft.Duration == nil || *draft.Duration != 30 {
		t.Errorf("duration = %v, want 30", draft.Duration)
	}
	if len(draft.Tags) != 1 || draft.Tags[0] != "later" {
		t.Errorf("tags = %v, want [later]", draft.Tags)
	}
	if err := models.ValidateStruct(draft); err != nil {
		t.Errorf("marker-only line produced an invalid draft: %v", err)
	}
}

func TestParse_ExplicitOverridesWin(t *testing.T) {
	draft := parseOne(t, "Task !i:90 !e:10")
	if draft.Impact != 90 {
		t.Errorf("impact = %v, want 90", draft.Impact)
	}
	if draft.Effort != 10 {
		t.Errorf("effort = %v, want 10", draft.Effort)
	}
	if draft.Title != "Task" {
		t.Errorf("title = %q, want %q", draft.Title, "Task")
	}
}

func TestParse_OverrideBeatsDurationHeuristic(t *testing.T) {
	// Explicit effort wins over the duration-derived value regardless of
	// textual order.
	draft := parseOne(t, "!e:95 migrate database (2h)")
	if draft.Duration == nil || *draft.Duration != 120 {
		t.Fatalf("duration = %v, want 120", draft.Duration)
	}
	if draft.Effort != 95 {
		t.Errorf("effort = %v, want 95", draft.Effort)
	}
}

func TestParse_OverridesClamped(t *testing.T) {
	draft := parseOne(t, "moonshot !i:999 !e:500")
	if draft.Impact != 100 || draft.Effort != 100 {
		t.Errorf("overrides not clamped: impact=%v effort=%v", draft.Impact, draft.Effort)
	}
}

func TestParse_MalformedOverrideFallsBack(t *testing.T) {
	p := NewWithSource(fixedSource{v: 0.5})
	drafts := p.Parse("some task !i:abc")
	if len(drafts) != 1 {
		t.Fatalf("expected 1 draft")
	}
	// !i:abc never matches the grammar, so impact takes the random path.
	if drafts[0].Impact != 50 {
		t.Errorf("impact = %v, want randomized 50", drafts[0].Impact)
	}
	if drafts[0].Title != "some task !i:abc" {
		t.Errorf("unmatched override should stay in title, got %q", drafts[0].Title)
	}
}

func TestParse_RandomDefaultsInRange(t *testing.T) {
	p := NewSeeded(42)
	for _, draft := range p.Parse("a\nb\nc\nd\ne\nf\ng\nh") {
		if draft.Impact < 20 || draft.Impact >= 80 {
			t.Errorf("random impact %v outside [20,80)", draft.Impact)
		}
		if draft.Effort < 20 || draft.Effort >= 80 {
			t.Errorf("random effort %v outside [20,80)", draft.Effort)
		}
	}
}

func TestParse_RandomBounds(t *testing.T) {
	lo := NewWithSource(fixedSource{v: 0}).Parse("edge")[0]
	if lo.Impact != 20 || lo.Effort != 20 {
		t.Errorf("source 0 should map to 20/20, got %v/%v", lo.Impact, lo.Effort)
	}
	hi := NewWithSource(fixedSource{v: 0.999999}).Parse("edge")[0]
	if hi.Impact >= 80 || hi.Effort >= 80 {
		t.Errorf("source near 1 must stay below 80, got %v/%v", hi.Impact, hi.Effort)
	}
}

func TestParse_SeededIsDeterministic(t *testing.T) {
	input := "alpha\nbeta\ngamma"
	a := NewSeeded(99).Parse(input)
	b := NewSeeded(99).Parse(input)
	for i := range a {
		if a[i].Impact != b[i].Impact || a[i].Effort != b[i].Effort {
			t.Errorf("draft %d differs between identically seeded parses", i)
		}
	}
}

func TestParse_CombinedMarkers(t *testing.T) {
	draft := parseOne(t, "Deploy hotfix urgente (30 min) #infra !i:85")
	if !draft.Urgency {
		t.Error("urgency not detected")
	}
	if draft.Duration == nil || *draft.Duration != 30 {
		t.Errorf("duration = %v, want 30", draft.Duration)
	}
	if draft.Impact != 85 {
		t.Errorf("impact = %v, want 85", draft.Impact)
	}
	if draft.Effort != 6.25 { // 30/480*100
		t.Errorf("effort = %v, want 6.25", draft.Effort)
	}
	if len(draft.Tags) != 1 || draft.Tags[0] != "infra" {
		t.Errorf("tags = %v, want [infra]", draft.Tags)
	}
	if draft.Title != "Deploy hotfix" {
		t.Errorf("title = %q, want %q", draft.Title, "Deploy hotfix")
	}
}

func TestCleanTitle_Idempotent(t *testing.T) {
	lines := []string{
		"Deploy hotfix urgente (30 min) #infra !i:85 !e:10",
		"plain title with no markers",
		"Tarea [URGENTE] (2h)",
	}
	for _, line := range lines {
		once := CleanTitle(line)
		twice := CleanTitle(once)
		if once != twice {
			t.Errorf("CleanTitle not idempotent for %q: %q -> %q", line, once, twice)
		}
	}
}

func TestCleanTitle_MatchesParserTitle(t *testing.T) {
	lines := []string{
		"Fix bug #dev #prod",
		"review PR (2h) urgent",
		"Task !i:90 !e:10",
	}
	for _, line := range lines {
		draft := parseOne(t, line)
		if clean := CleanTitle(line); clean != draft.Title {
			t.Errorf("%q: CleanTitle = %q, parser title = %q", line, clean, draft.Title)
		}
	}
}
