package core

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/JonMunkholm/doctranslate/internal/xmltree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upperTranslator upper-cases text and records every call in order.
type upperTranslator struct {
	mu    sync.Mutex
	calls []string
	langs []string
	hook  func(text string)
}

func (u *upperTranslator) Translate(_ context.Context, text, language string) string {
	u.mu.Lock()
	u.calls = append(u.calls, text)
	u.langs = append(u.langs, language)
	hook := u.hook
	u.mu.Unlock()

	if hook != nil {
		hook(text)
	}
	return strings.ToUpper(text)
}

func TestWalker_NilNode(t *testing.T) {
	w := &Walker{Locator: RunLocator{Run: drawingRun}, Translator: &upperTranslator{}}
	assert.Nil(t, w.Walk(context.Background(), nil, "sl", nil))
}

func TestWalker_DocumentRoot(t *testing.T) {
	doc, err := xmltree.Parse([]byte(`<?xml version="1.0"?><!-- c --><p:sld><a:p><a:r><a:t>title</a:t></a:r></a:p></p:sld>`))
	require.NoError(t, err)

	w := &Walker{Locator: RunLocator{Run: drawingRun}, Translator: &upperTranslator{}}
	got := w.Walk(context.Background(), doc, "sl", nil)

	out, ok := got.(*xmltree.Document)
	require.True(t, ok, "Walk returns the document it was given")
	assert.Same(t, doc, out)
	assert.Contains(t, string(out.Bytes()), "<a:t>TITLE</a:t>")
	assert.Contains(t, string(out.Bytes()), "<!-- c -->")
}

func TestWalker_TraversalCompleteness(t *testing.T) {
	const slide = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<p:sld><p:cSld><p:spTree>` +
		`<p:sp><p:txBody><a:p><a:r><a:t>one</a:t></a:r><a:r><a:t>two</a:t></a:r></a:p></p:txBody></p:sp>` +
		`<p:grpSp><p:sp><p:txBody><a:p><a:r><a:t>three</a:t></a:r></a:p></p:txBody></p:sp>` +
		`<p:grpSp><p:sp><p:txBody><a:p><a:r><a:t>four</a:t></a:r></a:p>` +
		`<a:p><a:fld><a:t>five</a:t></a:fld></a:p></p:txBody></p:sp></p:grpSp></p:grpSp>` +
		`</p:spTree></p:cSld></p:sld>`

	doc, err := xmltree.Parse([]byte(slide))
	require.NoError(t, err)

	tr := &upperTranslator{}
	w := &Walker{Locator: RunLocator{Run: drawingRun}, Translator: tr}

	var stats Stats
	w.Walk(context.Background(), doc, "slovenian", &stats)

	assert.Equal(t, []string{"one", "two", "three", "four", "five"}, tr.calls)
	assert.Equal(t, 5, stats.FragmentsTranslated)
	for _, l := range tr.langs {
		assert.Equal(t, "slovenian", l)
	}

	out := string(doc.Bytes())
	for _, s := range []string{"ONE", "TWO", "THREE", "FOUR", "FIVE"} {
		assert.Equal(t, 1, strings.Count(out, "<a:t>"+s+"</a:t>"), s)
	}
}

func TestWalker_SkipsOpaqueAndBlank(t *testing.T) {
	doc, err := xmltree.Parse([]byte(
		`<a:p><a:r><a:t>  </a:t></a:r><a:r><a:t/></a:r>` +
			`<a:r><a:t xml:space="preserve"> keep </a:t></a:r>` +
			`<a:r><a:t>go</a:t></a:r></a:p>`))
	require.NoError(t, err)

	tr := &upperTranslator{}
	w := &Walker{Locator: RunLocator{Run: drawingRun}, Translator: tr}

	var stats Stats
	w.Walk(context.Background(), doc, "sl", &stats)

	assert.Equal(t, []string{"go"}, tr.calls)
	assert.Equal(t, 1, stats.FragmentsTranslated)
	assert.Equal(t,
		`<a:p><a:r><a:t>  </a:t></a:r><a:r><a:t/></a:r>`+
			`<a:r><a:t xml:space="preserve"> keep </a:t></a:r>`+
			`<a:r><a:t>GO</a:t></a:r></a:p>`,
		string(doc.Bytes()))
}

func TestWalker_ShapePreservation(t *testing.T) {
	doc, err := xmltree.Parse([]byte(
		`<w:p><w:r><w:t xml:space="preserve" w:rsid="00A1"> Total: 10€ </w:t></w:r>` +
			`<w:r><w:t>plain</w:t></w:r></w:p>`))
	require.NoError(t, err)

	w := &Walker{Locator: RunLocator{Run: wordRun, AllowWrapped: true}, Translator: &upperTranslator{}}
	w.Walk(context.Background(), doc, "de", nil)

	root := doc.Root()
	runs := root.ChildElements()
	require.Len(t, runs, 2)

	wrapped := runs[0].ChildElements()[0]
	assert.Equal(t, []xmltree.Attr{
		{Name: xmltree.Name{Space: "xml", Local: "space"}, Value: "preserve"},
		{Name: xmltree.Name{Space: "w", Local: "rsid"}, Value: "00A1"},
	}, wrapped.Attrs)
	text, ok := wrapped.TextContent()
	require.True(t, ok)
	assert.Equal(t, " TOTAL: 10€ ", text)

	bare := runs[1].ChildElements()[0]
	assert.Empty(t, bare.Attrs)
	text, ok = bare.TextContent()
	require.True(t, ok)
	assert.Equal(t, "PLAIN", text)
}

func TestWalker_DoesNotDescendIntoRuns(t *testing.T) {
	doc, err := xmltree.Parse([]byte(`<a:p><a:r><a:t><a:t>inner</a:t></a:t></a:r></a:p>`))
	require.NoError(t, err)

	tr := &upperTranslator{}
	w := &Walker{Locator: RunLocator{Run: drawingRun}, Translator: tr}
	w.Walk(context.Background(), doc, "sl", nil)

	assert.Empty(t, tr.calls)
}

func TestWalker_StopsWhenCancelled(t *testing.T) {
	doc, err := xmltree.Parse([]byte(
		`<a:p><a:r><a:t>first</a:t></a:r><a:r><a:t>second</a:t></a:r>` +
			`<a:r><a:t>third</a:t></a:r></a:p>`))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tr := &upperTranslator{hook: func(string) { cancel() }}
	w := &Walker{Locator: RunLocator{Run: drawingRun}, Translator: tr}

	var stats Stats
	w.Walk(ctx, doc, "sl", &stats)

	assert.Equal(t, []string{"first"}, tr.calls)
	assert.Equal(t, 1, stats.FragmentsTranslated)
	assert.Equal(t,
		`<a:p><a:r><a:t>FIRST</a:t></a:r><a:r><a:t>second</a:t></a:r><a:r><a:t>third</a:t></a:r></a:p>`,
		string(doc.Bytes()))
}

func TestWalker_ElementNode(t *testing.T) {
	root := parseRoot(t, `<a:r><a:t>solo</a:t></a:r>`)

	w := &Walker{Locator: RunLocator{Run: drawingRun}, Translator: &upperTranslator{}}
	got := w.Walk(context.Background(), root, "sl", nil)

	assert.Same(t, root, got)
	assert.Equal(t, `<a:r><a:t>SOLO</a:t></a:r>`, string(root.Bytes()))
}
