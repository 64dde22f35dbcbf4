// blocka is a rotation puzzle: an image is cut into tiles that are turned
// (and on later levels shuffled) until the picture is whole again.
//
// Usage:
//
//	blocka play               - Play in the terminal
//	blocka window             - Play in a desktop window
//	blocka serve              - Start SSH server for remote play
//	blocka records            - Show best times and recent solves
//	blocka levels             - List the configured levels
//	blocka images             - List the image bank
//
// Global flags:
//
//	--fps <rate>          - Animation frame rate (default: 60)
//	--seed <value>        - RNG seed for reproducible shuffles
//	--db <path>           - Record database (default: ~/.blocka/records.db)
//	--store sqlite|kv     - Record store backend
//	--config <path>       - Custom config YAML
//	--difficulty <name>   - easy, normal, hard or zen
//	--pieces 4|6|8        - Pieces per puzzle
//	--sound               - Fanfare on the final win
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register the builtin pictures
	_ "github.com/vovakirdan/tui-blocka/internal/artwork"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagStore      string
	flagConfig     string
	flagDifficulty string
	flagPieces     int
	flagLogFile    string
	flagLogLevel   string
	flagSound      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blocka",
	Short: "Blocka - turn the tiles until the picture is whole",
	Long: `Blocka cuts a picture into 4, 6 or 8 tiles and turns them. Rotate every
tile upright to solve the level; later levels also shuffle the tiles, hide
the picture behind colour filters and run against the clock.

Available commands:
  play     - Play in the terminal
  window   - Play in a desktop window
  serve    - Start SSH server for remote play
  records  - Best times and recent solves
  levels   - Configured levels
  images   - Image bank

Examples:
  blocka play
  blocka play --pieces 8 --difficulty hard
  blocka window --sound
  blocka serve --ssh :2222
  blocka records`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Animation frame rate")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.blocka/records.db", "Path to records database")
	pf.StringVar(&flagStore, "store", "sqlite", "Record store: sqlite or kv")
	pf.StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, zen")
	pf.IntVar(&flagPieces, "pieces", 0, "Pieces per puzzle: 4, 6 or 8 (0 = config default)")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.BoolVar(&flagSound, "sound", false, "Play a fanfare when the last level is solved (play, window)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(imagesCmd)
}
