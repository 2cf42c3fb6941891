package core

import (
	"github.com/JonMunkholm/doctranslate/internal/xmltree"
)

// FragmentKind is the shape of a text run.
type FragmentKind int

const (
	// FragmentBare is a run holding only character data and no attributes.
	FragmentBare FragmentKind = iota
	// FragmentWrapped is a run holding only character data plus attributes
	// such as xml:space="preserve". The attributes survive substitution.
	FragmentWrapped
	// FragmentOpaque is a run the pipeline does not touch: it holds nested
	// elements or comments, or its shape is not a candidate for the kind.
	FragmentOpaque
)

func (k FragmentKind) String() string {
	switch k {
	case FragmentBare:
		return "bare"
	case FragmentWrapped:
		return "wrapped"
	default:
		return "opaque"
	}
}

// Fragment is one text run held by a text-bearing element.
type Fragment struct {
	Kind FragmentKind
	Run  *xmltree.Element
}

// Text returns the run's character data. Opaque fragments return "".
func (f Fragment) Text() string {
	if f.Kind == FragmentOpaque {
		return ""
	}
	s, _ := f.Run.TextContent()
	return s
}

// SetText replaces the run's character data, keeping its name and
// attributes. It is a no-op for opaque fragments.
func (f Fragment) SetText(s string) {
	if f.Kind == FragmentOpaque {
		return
	}
	f.Run.SetText(s)
}

// TextLocator finds the translatable text of one document kind.
type TextLocator interface {
	// Fragments returns the runs held directly by el, in document order.
	// The result is empty when el is not text-bearing.
	Fragments(el *xmltree.Element) []Fragment
	// IsRun reports whether el is a text run. The walker does not descend
	// into runs; their content is reached only through Fragments.
	IsRun(el *xmltree.Element) bool
}

// RunLocator treats every element named Run as a text run. Wrapped runs are
// translated only when AllowWrapped is set; otherwise they are reported as
// opaque.
type RunLocator struct {
	Run          xmltree.Name
	AllowWrapped bool
}

func (l RunLocator) IsRun(el *xmltree.Element) bool {
	return el.Name == l.Run
}

func (l RunLocator) Fragments(el *xmltree.Element) []Fragment {
	var out []Fragment
	for _, c := range el.Children {
		run, ok := c.(*xmltree.Element)
		if !ok || run.Name != l.Run {
			continue
		}
		out = append(out, Fragment{Kind: l.classify(run), Run: run})
	}
	return out
}

func (l RunLocator) classify(run *xmltree.Element) FragmentKind {
	if _, ok := run.TextContent(); !ok {
		return FragmentOpaque
	}
	if len(run.Attrs) == 0 {
		return FragmentBare
	}
	if l.AllowWrapped {
		return FragmentWrapped
	}
	return FragmentOpaque
}
