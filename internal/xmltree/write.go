package xmltree

import (
	"bytes"
	"io"
	"unicode/utf8"
)

// Bytes serializes the document. No whitespace is added or removed; elements
// without children are written in self-closing form.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	for _, c := range d.Children {
		writeNode(&buf, c)
	}
	return buf.Bytes()
}

// WriteTo writes the serialized document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.Bytes())
	return int64(n), err
}

// Bytes serializes a single element and its subtree.
func (e *Element) Bytes() []byte {
	var buf bytes.Buffer
	writeNode(&buf, e)
	return buf.Bytes()
}

func writeNode(buf *bytes.Buffer, n Node) {
	switch t := n.(type) {
	case *Element:
		writeElement(buf, t)
	case *Text:
		escapeText(buf, t.Data)
	case *Other:
		buf.WriteString(t.Raw)
	}
}

func writeElement(buf *bytes.Buffer, e *Element) {
	buf.WriteByte('<')
	buf.WriteString(e.Name.String())
	for _, a := range e.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name.String())
		buf.WriteString(`="`)
		escapeAttr(buf, a.Value)
		buf.WriteByte('"')
	}

	if len(e.Children) == 0 {
		buf.WriteString("/>")
		return
	}

	buf.WriteByte('>')
	for _, c := range e.Children {
		writeNode(buf, c)
	}
	buf.WriteString("</")
	buf.WriteString(e.Name.String())
	buf.WriteByte('>')
}

func escapeText(buf *bytes.Buffer, s string) {
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '\r':
			buf.WriteString("&#xD;")
		default:
			writeChar(buf, r)
		}
	}
}

func escapeAttr(buf *bytes.Buffer, s string) {
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '"':
			buf.WriteString("&quot;")
		case '\t':
			buf.WriteString("&#x9;")
		case '\n':
			buf.WriteString("&#xA;")
		case '\r':
			buf.WriteString("&#xD;")
		default:
			writeChar(buf, r)
		}
	}
}

// writeChar drops characters that XML 1.0 does not allow, replacing them with
// U+FFFD. Backends occasionally return control characters.
func writeChar(buf *bytes.Buffer, r rune) {
	if !isXMLChar(r) {
		buf.WriteRune(utf8.RuneError)
		return
	}
	buf.WriteRune(r)
}

func isXMLChar(r rune) bool {
	return r == 0x09 ||
		r == 0x0A ||
		r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
