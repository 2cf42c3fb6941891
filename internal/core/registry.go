package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrUnsupportedKind is returned when a file's extension matches no
// registered document kind.
var ErrUnsupportedKind = errors.New("unsupported document type")

var (
	registry   = make(map[string]KindDefinition)
	registryMu sync.RWMutex
)

// Register adds a document kind to the registry.
// Panics if a kind with the same key or a shared extension is already registered.
func Register(def KindDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Key]; exists {
		panic(fmt.Sprintf("document kind already registered: %s", def.Key))
	}
	exts := make([]string, len(def.Extensions))
	for i, ext := range def.Extensions {
		ext = strings.ToLower(ext)
		exts[i] = ext
		for _, other := range registry {
			if other.handles(ext) {
				panic(fmt.Sprintf("extension %s already registered by %s", ext, other.Key))
			}
		}
	}
	def.Extensions = exts
	if def.OutputExtension == "" && len(def.Extensions) > 0 {
		def.OutputExtension = def.Extensions[0]
	}

	registry[def.Key] = def
}

// Get returns a document kind by key.
// Returns false if not found.
func Get(key string) (KindDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered kinds sorted by key.
func All() []KindDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]KindDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// ResolveKind selects the document kind for fileName by its extension,
// compared case-insensitively.
func ResolveKind(fileName string) (KindDefinition, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		return KindDefinition{}, fmt.Errorf("%w: %q has no extension", ErrUnsupportedKind, fileName)
	}

	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, def := range registry {
		if def.handles(ext) {
			return def, nil
		}
	}
	return KindDefinition{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, ext)
}

// KindCount returns the number of registered kinds.
func KindCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered kinds.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]KindDefinition)
}

// OutputFileName names the translated copy of source: the source stem, an
// underscore, the language as requested, and the source extension.
// "deck.pptx" translated to "slovenian" becomes "deck_slovenian.pptx".
func OutputFileName(source, language string) string {
	base := filepath.Base(source)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return stem + "_" + language + ext
}
