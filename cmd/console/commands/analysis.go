package commands

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/worklens/console-go/internal/domain/analysis"
	"golang.org/x/sync/errgroup"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <headcount|nht|terms> <file>",
	Short: "Upload a workforce spreadsheet for one analysis category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := analysis.ParseCategory(args[0])
		if err != nil {
			return err
		}

		var lastPct int = -1
		progress := func(sent, total int64) {
			if total <= 0 {
				return
			}
			pct := int(sent * 100 / total)
			if pct != lastPct {
				lastPct = pct
				fmt.Printf("\rUploading %s... %3d%%", category.DisplayName(), pct)
			}
		}

		err = ingester.Ingest(cmd.Context(), category, args[1], progress)
		if lastPct >= 0 {
			fmt.Println()
		}
		if err != nil {
			return err
		}
		printRows(category, history.Rows(category))
		return nil
	},
}

var analysisCmd = &cobra.Command{
	Use:   "analysis [category]",
	Short: "Fetch and show the aggregated analysis",
	Long: `Fetches the aggregated analysis from the backend and prints it.
Without a category argument all three categories are refreshed in
parallel; a failure on one category does not block the others.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		categories := analysis.Categories()
		if len(args) == 1 {
			c, err := analysis.ParseCategory(args[0])
			if err != nil {
				return err
			}
			categories = []analysis.Category{c}
		}

		g, ctx := errgroup.WithContext(cmd.Context())
		for _, c := range categories {
			c := c
			g.Go(func() error {
				// Failures land on the category container; the command
				// reports them per category below.
				_ = history.Refresh(ctx, c)
				return nil
			})
		}
		_ = g.Wait()

		for _, c := range categories {
			st := history.CategoryState(c)
			if st.Error != "" {
				fmt.Printf("%s: %s\n", c.DisplayName(), st.Error)
				continue
			}
			printRows(c, st.Data)
		}
		return nil
	},
}

var (
	saveYear  int
	saveMonth int
	saveFinal bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage saved analysis snapshots",
}

var historySaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the current analysis as a monthly snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Each invocation is a fresh process: only the upload markers
		// survive in the state file, so the live containers must be
		// repopulated before the payload is composed.
		if err := history.RefreshUploaded(cmd.Context()); err != nil {
			return err
		}
		ref, err := history.SaveSnapshot(cmd.Context(), saveYear, saveMonth, saveFinal)
		if err != nil {
			return err
		}
		fmt.Printf("Saved snapshot %s (%s %d)\n", ref.ID, ref.MonthName, ref.Year)
		return nil
	},
}

var listFinalOnly bool

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := history.RefreshHistory(cmd.Context()); err != nil {
			return err
		}
		refs := history.History()
		if listFinalOnly {
			refs = history.FinalHistory()
		}
		if len(refs) == 0 {
			fmt.Println("No snapshots saved yet.")
			return nil
		}
		for _, ref := range refs {
			status := "draft"
			if ref.IsFinal {
				status = "final"
			}
			fmt.Printf("  %-8s %-10s %d  [%s]\n", ref.ID, ref.MonthName, ref.Year, status)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "View one saved snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := history.RefreshHistory(cmd.Context()); err != nil {
			return err
		}
		var ref *analysis.SnapshotRef
		for _, r := range history.History() {
			if r.ID == args[0] {
				ref = &r
				break
			}
		}
		if ref == nil {
			return analysis.ErrSnapshotNotFound
		}
		if err := history.SelectSnapshot(cmd.Context(), *ref); err != nil {
			return err
		}
		fmt.Printf("Snapshot %s (%s %d)\n", ref.ID, ref.MonthName, ref.Year)
		for _, c := range analysis.Categories() {
			printRows(c, history.Rows(c))
		}
		return nil
	},
}

var ytdYear int

var historyYTDCmd = &cobra.Command{
	Use:   "ytd",
	Short: "View the year-to-date aggregate",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := history.SelectYearToDate(cmd.Context(), ytdYear); err != nil {
			return err
		}
		fmt.Printf("Year-to-date %d\n", ytdYear)
		for _, c := range analysis.Categories() {
			printRows(c, history.Rows(c))
		}
		return nil
	},
}

// printRows renders one category's rows with a stable column order.
func printRows(c analysis.Category, rows []analysis.Row) {
	fmt.Printf("\n%s (%d rows)\n", c.DisplayName(), len(rows))
	if len(rows) == 0 {
		return
	}

	columns := make(map[string]struct{})
	for _, row := range rows {
		for col := range row {
			columns[col] = struct{}{}
		}
	}
	ordered := make([]string, 0, len(columns))
	for col := range columns {
		ordered = append(ordered, col)
	}
	sort.Strings(ordered)

	for _, row := range rows {
		for i, col := range ordered {
			if i > 0 {
				fmt.Print("  ")
			}
			fmt.Printf("%s=%s", col, formatCell(row[col]))
		}
		fmt.Println()
	}
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	}
	return fmt.Sprint(v)
}

func init() {
	// The snapshot period must be stated explicitly; there is no
	// current-month fallback.
	historySaveCmd.Flags().IntVar(&saveYear, "year", 0, "snapshot year")
	historySaveCmd.Flags().IntVar(&saveMonth, "month", 0, "snapshot month (1-12)")
	historySaveCmd.Flags().BoolVar(&saveFinal, "final", false, "mark the snapshot as final")
	_ = historySaveCmd.MarkFlagRequired("year")
	_ = historySaveCmd.MarkFlagRequired("month")
	historyListCmd.Flags().BoolVar(&listFinalOnly, "final", false, "list only final snapshots")
	historyYTDCmd.Flags().IntVar(&ytdYear, "year", time.Now().Year(), "year to aggregate")

	historyCmd.AddCommand(historySaveCmd, historyListCmd, historyShowCmd, historyYTDCmd)
	rootCmd.AddCommand(uploadCmd, analysisCmd, historyCmd)
}
