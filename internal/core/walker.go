package core

import (
	"context"
	"strings"

	"github.com/JonMunkholm/doctranslate/internal/xmltree"
)

// Translator translates one piece of text. Implementations never fail; on
// error they return the input unchanged.
type Translator interface {
	Translate(ctx context.Context, text, language string) string
}

// Walker substitutes translated text into a parsed part.
//
// The walk is depth-first and strictly sequential: fragments are translated
// one at a time in document order. Once ctx is done no further translation
// calls are made and the remaining fragments keep their source text.
type Walker struct {
	Locator    TextLocator
	Translator Translator
}

// Walk translates the text beneath n in place and returns n.
func (w *Walker) Walk(ctx context.Context, n xmltree.Node, language string, stats *Stats) xmltree.Node {
	if stats == nil {
		stats = &Stats{}
	}

	switch t := n.(type) {
	case nil:
		return nil
	case *xmltree.Document:
		if t == nil {
			return nil
		}
		for _, c := range t.Children {
			if el, ok := c.(*xmltree.Element); ok {
				w.walkElement(ctx, el, language, stats)
			}
		}
		return t
	case *xmltree.Element:
		if t == nil {
			return nil
		}
		w.walkElement(ctx, t, language, stats)
		return t
	default:
		return n
	}
}

func (w *Walker) walkElement(ctx context.Context, el *xmltree.Element, language string, stats *Stats) {
	for _, f := range w.Locator.Fragments(el) {
		if f.Kind == FragmentOpaque {
			continue
		}
		text := f.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		if ctx.Err() != nil {
			return
		}

		f.SetText(w.Translator.Translate(ctx, text, language))
		stats.FragmentsTranslated++
	}

	for _, c := range el.Children {
		child, ok := c.(*xmltree.Element)
		if !ok || w.Locator.IsRun(child) {
			continue
		}
		w.walkElement(ctx, child, language, stats)
	}
}
