package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blocka/internal/imagebank"
	"github.com/vovakirdan/tui-blocka/internal/registry"
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "List the image bank",
	Long: `List the pictures the puzzle chooses from, as configured under 'images'.
Directories are expanded to the image files inside them.

Examples:
  blocka images
  blocka images --config ./holiday.yaml`,
	Args: cobra.NoArgs,
	RunE: runImages,
}

func runImages(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	uris, err := imagebank.Expand(cfg.Images)
	if err != nil {
		return err
	}

	titles := make(map[string]string)
	for _, info := range registry.List() {
		titles[imagebank.BuiltinScheme+info.Name] = info.Title
	}

	fmt.Printf("Image Bank (%d)\n", len(uris))
	fmt.Println()
	if len(uris) == 0 {
		fmt.Println("No images configured.")
		return nil
	}
	for _, uri := range uris {
		fmt.Printf("  %-18s  %s\n", imagebank.Label(uri), describeImage(uri, titles))
	}
	return nil
}

func describeImage(uri string, titles map[string]string) string {
	switch {
	case strings.HasPrefix(uri, imagebank.BuiltinScheme):
		if t, ok := titles[uri]; ok {
			return fmt.Sprintf("builtin, %s (%dx%d)", t, registry.DefaultWidth, registry.DefaultHeight)
		}
		return "builtin, unknown"
	case strings.Contains(uri, "://") && !strings.HasPrefix(uri, "file://"):
		return uri
	}

	path, err := imagebank.ExpandPath(strings.TrimPrefix(uri, "file://"))
	if err != nil {
		return err.Error()
	}
	info, err := os.Stat(path)
	if err != nil {
		return "missing: " + path
	}
	return fmt.Sprintf("%s, %s, modified %s", path, humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()))
}
