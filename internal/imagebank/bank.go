package imagebank

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vovakirdan/tui-blocka/internal/registry"
)

// Extensions that Expand picks up when scanning a directory.
var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".bmp": true,
}

// Expand turns configured entries into a deduplicated list of image URIs,
// keeping their order:
//   - "builtin:*" expands to every registered builtin picture
//   - a directory expands to the image files directly inside it, sorted
//   - anything else is kept as is
func Expand(entries []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(uri string) {
		if !seen[uri] {
			seen[uri] = true
			out = append(out, uri)
		}
	}

	for _, e := range entries {
		e = strings.TrimSpace(e)
		switch {
		case e == "":
		case e == BuiltinScheme+"*":
			for _, uri := range registry.URIs() {
				add(uri)
			}
		case strings.HasPrefix(e, BuiltinScheme), strings.Contains(e, "://"):
			add(e)
		default:
			files, isDir, err := scanDir(e)
			if err != nil {
				return nil, err
			}
			if !isDir {
				add(e)
				continue
			}
			for _, f := range files {
				add(f)
			}
		}
	}
	return out, nil
}

func scanDir(path string) ([]string, bool, error) {
	dir, err := ExpandPath(path)
	if err != nil {
		return nil, false, err
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		// Missing files surface when the image is loaded.
		return nil, false, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, true, fmt.Errorf("imagebank: read %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	slices.Sort(files)
	return files, true, nil
}

// Label returns a short display name for a URI.
func Label(uri string) string {
	if name, ok := strings.CutPrefix(uri, BuiltinScheme); ok {
		for _, info := range registry.List() {
			if info.Name == name {
				return info.Title
			}
		}
		return name
	}
	if i := strings.LastIndexAny(uri, `/\`); i >= 0 && i < len(uri)-1 {
		return uri[i+1:]
	}
	return uri
}
