package core

// transform.go runs one Office package through the translation pipeline.
//
// Every entry is visited in archive order. Entries whose names match the
// kind's patterns are parsed, walked and re-serialized; all other entries are
// copied byte-for-byte. A part that fails to parse is logged, counted in
// Stats.PartsFailed and copied unchanged, so one bad part never fails the
// whole document. Only an unreadable archive or a failed write is fatal.

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/doctranslate/internal/logging"
	"github.com/JonMunkholm/doctranslate/internal/ooxml"
	"github.com/JonMunkholm/doctranslate/internal/xmltree"
)

// ErrWritePackage is returned when the translated archive cannot be written.
var ErrWritePackage = errors.New("package write failed")

// TransformOption adjusts a single Transform call.
type TransformOption func(*transformOptions)

type transformOptions struct {
	maxPartSize int64
}

// WithMaxPartSize caps the decompressed size of any part that is translated.
// Larger parts fail and are copied unchanged.
func WithMaxPartSize(n int64) TransformOption {
	return func(o *transformOptions) { o.maxPartSize = n }
}

// Transform translates the text parts of data, a package of the given kind,
// into language.
func Transform(ctx context.Context, data []byte, kind KindDefinition, language string, tr Translator, opts ...TransformOption) ([]byte, Stats, error) {
	var stats Stats

	var o transformOptions
	for _, opt := range opts {
		opt(&o)
	}

	pkg, err := ooxml.Open(data)
	if err != nil {
		return nil, stats, fmt.Errorf("open %s package: %w", kind.Key, err)
	}
	if o.maxPartSize > 0 {
		pkg.SetMaxEntrySize(o.maxPartSize)
	}

	walker := &Walker{Locator: kind.Locator, Translator: tr}
	logger := logging.FromContext(ctx)

	for _, entry := range pkg.Entries() {
		stats.Entries++
		if !kind.Matches(entry.Name) {
			continue
		}
		stats.PartsMatched++

		if err := transformPart(ctx, pkg, entry, walker, language, &stats); err != nil {
			stats.PartsFailed++
			logger.Warn("part left unchanged",
				"kind", kind.Key,
				"part", entry.Name,
				"error", err,
			)
			continue
		}
		stats.PartsProcessed++
	}

	out, err := pkg.Bytes()
	if err != nil {
		return nil, stats, fmt.Errorf("%w: %v", ErrWritePackage, err)
	}
	return out, stats, nil
}

func transformPart(ctx context.Context, pkg *ooxml.Package, entry *ooxml.Entry, walker *Walker, language string, stats *Stats) error {
	content, err := pkg.Content(entry)
	if err != nil {
		return err
	}

	doc, err := xmltree.Parse(content)
	if err != nil {
		return err
	}

	walker.Walk(ctx, doc, language, stats)
	pkg.Replace(entry, doc.Bytes())
	return nil
}
