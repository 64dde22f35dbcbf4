// Package registry provides a global registry of builtin image generators.
// Generators register themselves in init() functions, so "builtin:<name>"
// image URIs resolve without any file on disk or network access.
package registry

import (
	"fmt"
	"image"
	"sort"
	"sync"
)

// Generator draws a w x h picture. Generators must be deterministic and
// visibly asymmetric, otherwise a rotated piece looks already solved.
type Generator func(w, h int) image.Image

// ImageInfo contains metadata about a registered image.
type ImageInfo struct {
	Name  string
	Title string
}

// Default size of generated images.
const (
	DefaultWidth  = 480
	DefaultHeight = 320
)

var (
	generators = make(map[string]Generator)
	titles     = make(map[string]string)
	mu         sync.RWMutex
)

// Register adds a generator to the registry.
// Panics if an image with the same name is already registered.
func Register(name, title string, g Generator) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := generators[name]; exists {
		panic(fmt.Sprintf("registry: image %q already registered", name))
	}
	generators[name] = g
	titles[name] = title
}

// List returns all registered images, sorted by name.
func List() []ImageInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ImageInfo, 0, len(generators))
	for name := range generators {
		result = append(result, ImageInfo{Name: name, Title: titles[name]})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// URIs returns the "builtin:<name>" URI of every registered image, sorted.
func URIs() []string {
	list := List()
	out := make([]string, len(list))
	for i, info := range list {
		out[i] = "builtin:" + info.Name
	}
	return out
}

// Generate draws the named image. Non-positive sizes use the defaults.
func Generate(name string, w, h int) (image.Image, error) {
	mu.RLock()
	g, ok := generators[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown image %q", name)
	}
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return g(w, h), nil
}

// Exists checks if an image with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := generators[name]
	return ok
}
