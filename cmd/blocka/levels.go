package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blocka/internal/config"
	"github.com/vovakirdan/tui-blocka/internal/timer"
)

var flagDump bool

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the configured levels",
	Long: `List the levels of the active config after --difficulty is applied.

With --dump the built-in config file is printed instead; save it as
~/.blocka/configs/blocka.yaml to customise the campaign.

Examples:
  blocka levels
  blocka levels --difficulty hard
  blocka levels --dump > ~/.blocka/configs/blocka.yaml`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

func init() {
	levelsCmd.Flags().BoolVar(&flagDump, "dump", false, "Print the built-in config YAML")
}

func runLevels(_ *cobra.Command, _ []string) error {
	if flagDump {
		_, err := os.Stdout.Write(config.Default())
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("Levels (%d pieces)\n", cfg.Pieces)
	fmt.Println()
	fmt.Printf("  %-3s  %-14s  %-9s  %-10s  %s\n", "#", "Name", "Mode", "Limit", "Filters")
	fmt.Printf("  %-3s  %-14s  %-9s  %-10s  %s\n", "--", "----", "----", "-----", "-------")
	for i, l := range cfg.Levels {
		mode := "fixed"
		if l.Shuffle {
			mode = "shuffled"
		}
		limit := "count up"
		if l.TimeLimitMS > 0 {
			limit = timer.Format(msDuration(l.TimeLimitMS))
		}
		filters := strings.Join(l.Filters, " ")
		if filters == "" {
			filters = "-"
		}
		fmt.Printf("  %-3d  %-14s  %-9s  %-10s  %s\n", i+1, l.Name, mode, limit, filters)
	}
	return nil
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
