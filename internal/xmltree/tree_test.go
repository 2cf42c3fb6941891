package xmltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const slideXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
	`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
	`<p:cSld><p:spTree><p:sp><p:txBody><a:bodyPr/><a:p><a:r><a:rPr lang="en-US" b="1" dirty="0"/><a:t>Hello &amp; welcome</a:t></a:r>` +
	`<a:r><a:t>World</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld><!-- keep me --></p:sld>`

func TestParse_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "slide part", input: slideXML},
		{name: "word part with preserved space", input: `<w:document xmlns:w="urn:w"><w:body><w:p><w:r><w:t xml:space="preserve"> Total: 10€ </w:t></w:r></w:p></w:body></w:document>`},
		{name: "attribute escaping", input: `<x a="&lt;1&amp;2&quot;"/>`},
		{name: "whitespace between elements", input: "<root>\n  <child/>\n</root>"},
		{name: "processing instruction and directive", input: `<!DOCTYPE root><?mso-application progid="Word.Document"?><root/>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.input, string(doc.Bytes()))
		})
	}
}

func TestParse_PreservesStructure(t *testing.T) {
	doc, err := Parse([]byte(slideXML))
	require.NoError(t, err)

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, Name{Space: "p", Local: "sld"}, root.Name)
	require.Len(t, root.Attrs, 2)
	assert.Equal(t, Name{Space: "xmlns", Local: "a"}, root.Attrs[0].Name)
	assert.Equal(t, Name{Space: "xmlns", Local: "p"}, root.Attrs[1].Name)

	runs := findAll(root, Name{Space: "a", Local: "t"})
	require.Len(t, runs, 2)

	text, ok := runs[0].TextContent()
	assert.True(t, ok)
	assert.Equal(t, "Hello & welcome", text)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "mismatched end tag", input: `<a:p><a:t>x</a:p></a:t>`},
		{name: "unclosed element", input: `<a:p><a:t>x</a:t>`},
		{name: "no root", input: `<?xml version="1.0"?>`},
		{name: "not xml", input: `this is not xml`},
		{name: "undefined entity", input: `<a>&nope;</a>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestElement_SetText(t *testing.T) {
	doc, err := Parse([]byte(`<w:r><w:t xml:space="preserve"> a </w:t></w:r>`))
	require.NoError(t, err)

	run := doc.Root().ChildElements()[0]
	run.SetText("<b> & c")

	assert.Equal(t, `<w:r><w:t xml:space="preserve">&lt;b&gt; &amp; c</w:t></w:r>`, string(doc.Bytes()))

	space, ok := run.Attr(Name{Space: "xml", Local: "space"})
	assert.True(t, ok)
	assert.Equal(t, "preserve", space)
}

func TestElement_TextContent_Mixed(t *testing.T) {
	doc, err := Parse([]byte(`<a:t>one<b/>two</a:t>`))
	require.NoError(t, err)

	_, ok := doc.Root().TextContent()
	assert.False(t, ok)
}

func TestParse_MergesCDATA(t *testing.T) {
	doc, err := Parse([]byte(`<t>a<![CDATA[<b>]]>c</t>`))
	require.NoError(t, err)

	require.Len(t, doc.Root().Children, 1)
	text, ok := doc.Root().TextContent()
	assert.True(t, ok)
	assert.Equal(t, "a<b>c", text)
	assert.Equal(t, `<t>a&lt;b&gt;c</t>`, string(doc.Bytes()))
}

func TestWrite_ReplacesInvalidCharacters(t *testing.T) {
	el := &Element{Name: ParseName("a:t")}
	el.SetText("bad\x0bchar")

	assert.Equal(t, "<a:t>bad�char</a:t>", string(el.Bytes()))
}

func TestParseName(t *testing.T) {
	assert.Equal(t, Name{Space: "w", Local: "t"}, ParseName("w:t"))
	assert.Equal(t, Name{Local: "t"}, ParseName("t"))
	assert.Equal(t, "w:t", ParseName("w:t").String())
}

func findAll(el *Element, name Name) []*Element {
	var out []*Element
	if el.Name == name {
		out = append(out, el)
	}
	for _, c := range el.ChildElements() {
		out = append(out, findAll(c, name)...)
	}
	return out
}

func TestNodeKinds(t *testing.T) {
	doc, err := Parse([]byte(`<?xml version="1.0"?><root>text<!-- note --></root>`))
	require.NoError(t, err)

	kinds := func(n Node) string {
		switch n.(type) {
		case *Document:
			return "document"
		case *Element:
			return "element"
		case *Text:
			return "text"
		case *Other:
			return "other"
		}
		return "unknown"
	}

	assert.Equal(t, "document", kinds(doc))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "element", kinds(root))
	require.Len(t, root.Children, 2)
	assert.Equal(t, "text", kinds(root.Children[0]))
	assert.Equal(t, "other", kinds(root.Children[1]))
}
