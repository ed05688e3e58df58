/*
Copyright © 2025 chaosmap.io
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chaosmap-io/chaosmap/internal/logger"
	"github.com/chaosmap-io/chaosmap/internal/telemetry"
	"github.com/chaosmap-io/chaosmap/internal/ui"
	"github.com/chaosmap-io/chaosmap/models"
	"github.com/chaosmap-io/chaosmap/parser"
)

// chaosCmd represents the chaos command
var chaosCmd = &cobra.Command{
	Use:   "chaos [file|-|text...]",
	Short: "Bulk-add tasks from freeform text",
	Long: `Parse freeform "brain dump" text into tasks, one per line.

Each line is scanned for inline markers:
  urgente / [urgent]   flags the task urgent
  (30 min) / (2h)      sets duration and derives effort from it
  #tag                 attaches tags
  !i:80 !e:20          overrides impact / effort scores

Lines without scores get randomized placeholder positions so nothing
stalls at the capture step.

Input comes from a file argument, "-" (stdin), a pipe, or the
remaining arguments joined as text.

Examples:
  chaosmap chaos braindump.txt
  pbpaste | chaosmap chaos -
  chaosmap chaos "call the bank urgente #finance"
  chaosmap chaos --category client --client acme --date 2025-07-01 backlog.txt`,
	RunE: runChaos,
}

var (
	chaosDate     string
	chaosRecur    string
	chaosCategory string
	chaosClient   string
	chaosDryRun   bool
	chaosSeed     uint64
)

func init() {
	rootCmd.AddCommand(chaosCmd)

	chaosCmd.Flags().StringVar(&chaosDate, "date", "", "target date applied to every task (YYYY-MM-DD)")
	chaosCmd.Flags().StringVar(&chaosRecur, "recur", "", "recurrence applied to every task (none, daily, weekdays, weekly, monthly)")
	chaosCmd.Flags().StringVar(&chaosCategory, "category", "", "category applied to every task (own, client)")
	chaosCmd.Flags().StringVar(&chaosClient, "client", "", "client name (requires --category client)")
	chaosCmd.Flags().BoolVar(&chaosDryRun, "dry-run", false, "parse and print tasks without saving them")
	chaosCmd.Flags().Uint64Var(&chaosSeed, "seed", 0, "fix the random source for unscored tasks")
}

func runChaos(cmd *cobra.Command, args []string) error {
	rawText, err := readChaosInput(cmd, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(rawText) == "" {
		return fmt.Errorf("no input text, pass a file, pipe text in, or quote it as arguments")
	}
	logger.SetLastInput(rawText)

	p := parser.New()
	if cmd.Flags().Changed("seed") {
		p = parser.NewSeeded(chaosSeed)
	}

	drafts := p.Parse(rawText)
	if len(drafts) == 0 {
		return fmt.Errorf("input contained no task lines")
	}

	if err := applyBatchExtras(drafts); err != nil {
		return err
	}

	if chaosDryRun {
		if isJSON() {
			return printJSON(drafts)
		}
		fmt.Printf("Parsed %d tasks (dry run):\n", len(drafts))
		for _, d := range drafts {
			fmt.Printf("  %s\n", describeDraft(d))
		}
		return nil
	}

	taskStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = taskStore.Close() }()

	tasks, err := taskStore.CreateTasks(drafts)
	if err != nil {
		return fmt.Errorf("failed to create tasks: %w", err)
	}

	telemetryClient.Track(telemetry.EventChaosParsed, telemetry.Properties{
		"lines":   len(drafts),
		"created": len(tasks),
	})

	if isJSON() {
		return printJSON(tasks)
	}
	fmt.Printf("Created %d tasks:\n", len(tasks))
	fmt.Print(ui.RenderTaskList(tasks))
	return nil
}

// readChaosInput resolves the input source: file argument, explicit or
// piped stdin, or the arguments themselves as text.
func readChaosInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		if args[0] == "-" {
			return readAll(cmd.InOrStdin())
		}
		if info, err := os.Stat(args[0]); err == nil && !info.IsDir() {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return "", fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			return string(data), nil
		}
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if stdinIsPiped() {
		return readAll(cmd.InOrStdin())
	}
	return "", nil
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

// applyBatchExtras stamps the batch-level flags onto every draft.
func applyBatchExtras(drafts []models.TaskDraft) error {
	var targetDate *time.Time
	if chaosDate != "" {
		t, err := parseDateFlag(chaosDate)
		if err != nil {
			return err
		}
		targetDate = &t
	}

	if chaosRecur != "" {
		switch models.Recurrence(chaosRecur) {
		case models.RecurrenceNone, models.RecurrenceDaily, models.RecurrenceWeekdays, models.RecurrenceWeekly, models.RecurrenceMonthly:
		default:
			return fmt.Errorf("invalid recurrence %q", chaosRecur)
		}
	}
	if chaosCategory != "" && chaosCategory != string(models.CategoryOwn) && chaosCategory != string(models.CategoryClient) {
		return fmt.Errorf("invalid category %q, expected own or client", chaosCategory)
	}
	if chaosCategory == string(models.CategoryClient) && chaosClient == "" {
		return fmt.Errorf("--category client requires --client")
	}
	if chaosClient != "" && chaosCategory != string(models.CategoryClient) {
		return fmt.Errorf("--client requires --category client")
	}

	for i := range drafts {
		if targetDate != nil {
			t := *targetDate
			drafts[i].TargetDate = &t
		}
		if chaosRecur != "" {
			drafts[i].Recurrence = models.Recurrence(chaosRecur)
		}
		if chaosCategory != "" {
			drafts[i].Category = models.Category(chaosCategory)
			if chaosCategory == string(models.CategoryClient) {
				name := chaosClient
				drafts[i].ClientName = &name
			} else {
				drafts[i].ClientName = nil
			}
		}
	}
	return nil
}

func describeDraft(d models.TaskDraft) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%q i:%.2f e:%.2f", d.Title, d.Impact, d.Effort))
	if d.Urgency {
		parts = append(parts, "urgent")
	}
	if d.Duration != nil {
		parts = append(parts, fmt.Sprintf("%dmin", *d.Duration))
	}
	if len(d.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(d.Tags, " #"))
	}
	if d.Recurrence != models.RecurrenceNone {
		parts = append(parts, string(d.Recurrence))
	}
	if d.TargetDate != nil {
		parts = append(parts, d.TargetDate.Format("2006-01-02"))
	}
	return strings.Join(parts, "  ")
}

func stdinIsPiped() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) == 0
}
