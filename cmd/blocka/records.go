package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blocka/internal/imagebank"
	"github.com/vovakirdan/tui-blocka/internal/puzzle"
	"github.com/vovakirdan/tui-blocka/internal/storage"
	"github.com/vovakirdan/tui-blocka/internal/timer"
)

var (
	flagClear  bool
	flagRecent int
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Show best times and recent solves",
	Long: `Display the best time of every configured level. The SQLite store also
keeps every solve; the most recent ones are listed below the best times.

Examples:
  blocka records
  blocka records --recent 25
  blocka records --store kv
  blocka records --clear`,
	Args: cobra.NoArgs,
	RunE: runRecords,
}

func init() {
	recordsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all best times")
	recordsCmd.Flags().IntVar(&flagRecent, "recent", 10, "Number of recent solves to list (sqlite only)")
}

func runRecords(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, closeStore, err := openStore()
	if err != nil {
		return fmt.Errorf("error opening record store: %w", err)
	}
	defer closeStore()

	if flagClear {
		if err := store.ClearRecords(); err != nil {
			return fmt.Errorf("error clearing records: %w", err)
		}
		fmt.Println("All best times deleted.")
		return nil
	}

	entries, err := store.Records()
	if err != nil {
		return fmt.Errorf("error retrieving records: %w", err)
	}
	byKey := make(map[string]storage.RecordEntry, len(entries))
	for _, e := range entries {
		byKey[e.Key] = e
	}

	var stats map[int]*storage.LevelStats
	sqlStore, isSQL := store.(*storage.Store)
	if isSQL {
		if stats, err = sqlStore.AllLevelStats(); err != nil {
			return fmt.Errorf("error retrieving solve stats: %w", err)
		}
	}

	fmt.Println("Best Times")
	fmt.Println()
	fmt.Printf("  %-3s  %-14s  %-10s  %-7s  %-10s  %s\n", "#", "Level", "Best", "Solves", "Average", "Set")
	fmt.Printf("  %-3s  %-14s  %-10s  %-7s  %-10s  %s\n", "--", "-----", "----", "------", "-------", "---")
	for i, lvl := range cfg.Levels {
		best, set := puzzle.NoRecord, "-"
		if e, ok := byKey[puzzle.RecordKey(i)]; ok {
			best = e.Value
			if !e.UpdatedAt.IsZero() {
				set = humanize.Time(e.UpdatedAt)
			}
		}
		solves, avg := "-", "-"
		if st, ok := stats[i]; ok {
			solves = humanize.Comma(int64(st.Solves))
			avg = timer.Format(st.Average)
		}
		fmt.Printf("  %-3d  %-14s  %-10s  %-7s  %-10s  %s\n", i+1, lvl.Name, best, solves, avg, set)
	}

	if !isSQL || flagRecent <= 0 {
		return nil
	}
	recent, err := sqlStore.RecentSolves(flagRecent)
	if err != nil {
		return fmt.Errorf("error retrieving solves: %w", err)
	}

	fmt.Println()
	fmt.Println("Recent Solves")
	fmt.Println()
	if len(recent) == 0 {
		fmt.Println("No solves recorded yet.")
		fmt.Println()
		fmt.Println("Play 'blocka play' to set the first time!")
		return nil
	}
	fmt.Printf("  %-14s  %-6s  %-10s  %-16s  %s\n", "Level", "Pieces", "Time", "Image", "When")
	fmt.Printf("  %-14s  %-6s  %-10s  %-16s  %s\n", "-----", "------", "----", "-----", "----")
	for _, s := range recent {
		fmt.Printf("  %-14s  %-6d  %-10s  %-16s  %s\n",
			fmt.Sprintf("%d %s", s.Level+1, s.Name), s.Pieces, timer.Format(s.Elapsed),
			imagebank.Label(s.Image), humanize.Time(s.CreatedAt))
	}
	return nil
}
