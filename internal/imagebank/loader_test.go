package imagebank

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/vovakirdan/tui-blocka/internal/registry"
)

func init() {
	registry.Register("test-checker", "Test Checker", func(w, h int) image.Image {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if (x+y)%2 == 0 {
					img.Set(x, y, color.White)
				}
			}
		}
		return img
	})
}

func sampleImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	return img
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, sampleImage()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.png")
	writePNG(t, path)

	l := NewLoader(nil, nil)
	for _, uri := range []string{path, "file://" + path} {
		img, err := l.Load(context.Background(), uri)
		if err != nil {
			t.Fatalf("Load(%s): %v", uri, err)
		}
		if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 4 {
			t.Errorf("bounds = %v", b)
		}
	}
}

func TestLoadBMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.bmp")
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, sampleImage()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := NewLoader(nil, nil).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r, _, _, _ := img.At(0, 0).RGBA()
	if r>>8 != 255 {
		t.Errorf("red channel = %d", r>>8)
	}
}

func TestLoadHTTP(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, sampleImage()); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pic.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	l := NewLoader(srv.Client(), nil)
	if _, err := l.Load(context.Background(), srv.URL+"/pic.png"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := l.Load(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestLoadHTTPCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLoader(srv.Client(), nil).Load(ctx, srv.URL+"/slow.png"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, expected context.Canceled", err)
	}
}

func TestLoadSharedFetchSurvivesCancel(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, sampleImage()); err != nil {
		t.Fatal(err)
	}
	var hits atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			close(started)
		}
		<-release
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	l := NewLoader(srv.Client(), nil)
	uri := srv.URL + "/pic.png"

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := l.Load(ctxA, uri)
		errA <- err
	}()
	<-started

	type result struct {
		img image.Image
		err error
	}
	resB := make(chan result, 1)
	go func() {
		img, err := l.Load(context.Background(), uri)
		resB <- result{img, err}
	}()

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller error = %v, expected context.Canceled", err)
	}

	close(release)
	res := <-resB
	if res.err != nil {
		t.Fatalf("second caller: %v", res.err)
	}
	if b := res.img.Bounds(); b.Dx() != 6 || b.Dy() != 4 {
		t.Errorf("bounds = %v", b)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, expected one shared fetch", n)
	}
}

func TestLoadBuiltin(t *testing.T) {
	l := NewLoader(nil, nil)
	img, err := l.Load(context.Background(), "builtin:test-checker")
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != registry.DefaultWidth || b.Dy() != registry.DefaultHeight {
		t.Errorf("bounds = %v", b)
	}

	if _, err := l.Load(context.Background(), "builtin:nope"); !errors.Is(err, ErrUnknownBuiltin) {
		t.Errorf("error = %v, expected ErrUnknownBuiltin", err)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(nil, nil)
	tests := []struct {
		name string
		uri  string
		is   error
	}{
		{"missing file", filepath.Join(dir, "missing.png"), os.ErrNotExist},
		{"undecodable", garbage, image.ErrFormat},
		{"scheme", "ftp://example.com/a.png", ErrUnsupportedScheme},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.Load(context.Background(), tt.uri); !errors.Is(err, tt.is) {
				t.Errorf("error = %v, expected %v", err, tt.is)
			}
		})
	}
}

func TestLoadTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.png")
	writePNG(t, path)

	l := NewLoader(nil, nil)
	l.maxBytes = 10
	if _, err := l.Load(context.Background(), path); !errors.Is(err, ErrTooLarge) {
		t.Errorf("error = %v, expected ErrTooLarge", err)
	}
}

func TestLoadCaches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.png")
	writePNG(t, path)

	l := NewLoader(nil, nil)
	first, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	second, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("cached load: %v", err)
	}
	if first != second {
		t.Error("cached load returned a different image")
	}

	l.Forget(path)
	if _, err := l.Load(context.Background(), path); err == nil {
		t.Error("load after Forget should hit the (deleted) file")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/pics/a.png")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "pics", "a.png") {
		t.Errorf("ExpandPath = %q", got)
	}
	if got, _ := ExpandPath("/abs/a.png"); got != "/abs/a.png" {
		t.Errorf("absolute path changed: %q", got)
	}
}
