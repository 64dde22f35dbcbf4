// Package imagebank resolves and decodes the pictures puzzles are cut from.
//
// URIs may be plain paths, file:// URLs, http(s):// URLs or builtin:<name>
// for the generated pictures of the registry. PNG, JPEG, GIF, WebP and BMP
// are decoded.
package imagebank

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"

	"github.com/vovakirdan/tui-blocka/internal/registry"
)

var (
	ErrUnknownBuiltin    = errors.New("imagebank: unknown builtin image")
	ErrUnsupportedScheme = errors.New("imagebank: unsupported uri scheme")
	ErrTooLarge          = errors.New("imagebank: image too large")
)

// BuiltinScheme prefixes generated picture names.
const BuiltinScheme = "builtin:"

// DefaultMaxBytes caps downloads and files.
const DefaultMaxBytes = 32 << 20

// Loader fetches and decodes images. Decoded images are cached by URI and
// concurrent loads of the same URI share one fetch. Safe for concurrent use.
type Loader struct {
	client   *http.Client
	log      *log.Logger
	maxBytes int64

	group singleflight.Group
	mu    sync.Mutex
	cache map[string]image.Image
}

// NewLoader creates a loader. A nil client uses a client with a 15s timeout.
func NewLoader(client *http.Client, logger *log.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{
		client:   client,
		log:      logger,
		maxBytes: DefaultMaxBytes,
		cache:    make(map[string]image.Image),
	}
}

// Load returns the decoded image behind uri. A fetch shared by several
// callers is not cancelled when one of them gives up; each caller only
// stops waiting when its own ctx is done.
func (l *Loader) Load(ctx context.Context, uri string) (image.Image, error) {
	l.mu.Lock()
	img, ok := l.cache[uri]
	l.mu.Unlock()
	if ok {
		return img, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("imagebank: %s: %w", uri, err)
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(uri, func() (any, error) {
		img, err := l.load(fetchCtx, uri)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[uri] = img
		l.mu.Unlock()
		return img, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("imagebank: %s: %w", uri, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			l.log.Debug("image load shared", "image", uri)
		}
		return res.Val.(image.Image), nil
	}
}

// Forget drops a cached image.
func (l *Loader) Forget(uri string) {
	l.mu.Lock()
	delete(l.cache, uri)
	l.mu.Unlock()
}

func (l *Loader) load(ctx context.Context, uri string) (image.Image, error) {
	start := time.Now()
	var (
		img image.Image
		err error
	)

	switch {
	case strings.HasPrefix(uri, BuiltinScheme):
		img, err = loadBuiltin(strings.TrimPrefix(uri, BuiltinScheme))
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		img, err = l.loadHTTP(ctx, uri)
	case strings.HasPrefix(uri, "file://"):
		u, perr := url.Parse(uri)
		if perr != nil {
			return nil, fmt.Errorf("imagebank: %s: %w", uri, perr)
		}
		img, err = l.loadFile(u.Path)
	case strings.Contains(uri, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, uri)
	default:
		img, err = l.loadFile(uri)
	}
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	l.log.Debug("image loaded", "image", uri, "size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()), "took", time.Since(start))
	return img, nil
}

func loadBuiltin(name string) (image.Image, error) {
	if !registry.Exists(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuiltin, name)
	}
	return registry.Generate(name, 0, 0)
}

func (l *Loader) loadFile(path string) (image.Image, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imagebank: open: %w", err)
	}
	defer f.Close()

	return l.decode(f, path)
}

func (l *Loader) loadHTTP(ctx context.Context, uri string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("imagebank: request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagebank: get %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imagebank: get %s: %s", uri, resp.Status)
	}
	return l.decode(resp.Body, uri)
}

func (l *Loader) decode(r io.Reader, name string) (image.Image, error) {
	lr := &io.LimitedReader{R: r, N: l.maxBytes + 1}
	img, format, err := image.Decode(lr)
	if lr.N <= 0 {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, name, l.maxBytes)
	}
	if err != nil {
		return nil, fmt.Errorf("imagebank: decode %s: %w", name, err)
	}
	if b := img.Bounds(); b.Dx() < 2 || b.Dy() < 2 {
		return nil, fmt.Errorf("imagebank: %s is too small to cut (%dx%d)", name, b.Dx(), b.Dy())
	}
	l.log.Debug("image decoded", "image", name, "format", format)
	return img, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("imagebank: home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
