package core

import (
	"testing"

	"github.com/JonMunkholm/doctranslate/internal/xmltree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	drawingRun = xmltree.Name{Space: "a", Local: "t"}
	wordRun    = xmltree.Name{Space: "w", Local: "t"}
)

func parseRoot(t *testing.T, xml string) *xmltree.Element {
	t.Helper()
	doc, err := xmltree.Parse([]byte(xml))
	require.NoError(t, err)
	return doc.Root()
}

func TestRunLocator_Classify(t *testing.T) {
	tests := []struct {
		name         string
		xml          string
		run          xmltree.Name
		allowWrapped bool
		want         []FragmentKind
	}{
		{
			name: "bare runs",
			xml:  `<a:r><a:t>Hello</a:t><a:t>World</a:t></a:r>`,
			run:  drawingRun,
			want: []FragmentKind{FragmentBare, FragmentBare},
		},
		{
			name:         "wrapped run allowed",
			xml:          `<w:r><w:t xml:space="preserve"> Total </w:t></w:r>`,
			run:          wordRun,
			allowWrapped: true,
			want:         []FragmentKind{FragmentWrapped},
		},
		{
			name: "wrapped run not allowed",
			xml:  `<a:r><a:t xml:space="preserve"> x </a:t></a:r>`,
			run:  drawingRun,
			want: []FragmentKind{FragmentOpaque},
		},
		{
			name:         "run with nested element",
			xml:          `<w:r><w:t>a<w:br/>b</w:t></w:r>`,
			run:          wordRun,
			allowWrapped: true,
			want:         []FragmentKind{FragmentOpaque},
		},
		{
			name: "other elements ignored",
			xml:  `<a:r><a:rPr lang="en-US"/><a:t>Hi</a:t></a:r>`,
			run:  drawingRun,
			want: []FragmentKind{FragmentBare},
		},
		{
			name: "not text bearing",
			xml:  `<a:p><a:r/></a:p>`,
			run:  drawingRun,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := RunLocator{Run: tt.run, AllowWrapped: tt.allowWrapped}
			frags := loc.Fragments(parseRoot(t, tt.xml))

			var got []FragmentKind
			for _, f := range frags {
				got = append(got, f.Kind)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFragment_TextRoundTrip(t *testing.T) {
	root := parseRoot(t, `<w:r><w:t xml:space="preserve">Total: 10€</w:t><w:t>a<w:br/></w:t></w:r>`)
	frags := RunLocator{Run: wordRun, AllowWrapped: true}.Fragments(root)
	require.Len(t, frags, 2)

	wrapped, opaque := frags[0], frags[1]
	assert.Equal(t, "Total: 10€", wrapped.Text())
	assert.Equal(t, "", opaque.Text())

	wrapped.SetText("Skupaj: 10€")
	opaque.SetText("ignored")

	assert.Equal(t,
		`<w:r><w:t xml:space="preserve">Skupaj: 10€</w:t><w:t>a<w:br/></w:t></w:r>`,
		string(root.Bytes()))
}

func TestFragmentKind_String(t *testing.T) {
	assert.Equal(t, "bare", FragmentBare.String())
	assert.Equal(t, "wrapped", FragmentWrapped.String())
	assert.Equal(t, "opaque", FragmentOpaque.String())
}

func TestRunLocator_IsRun(t *testing.T) {
	loc := RunLocator{Run: drawingRun}
	assert.True(t, loc.IsRun(&xmltree.Element{Name: drawingRun}))
	assert.False(t, loc.IsRun(&xmltree.Element{Name: wordRun}))
	assert.False(t, loc.IsRun(&xmltree.Element{Name: xmltree.Name{Local: "t"}}))
}
