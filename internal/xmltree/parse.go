package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// ErrNoRoot is returned when a part contains no document element.
var ErrNoRoot = errors.New("xmltree: document has no root element")

// Parse reads a complete XML document. Entities in text and attribute values
// are decoded; the writer re-escapes them on output.
func Parse(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true

	doc := &Document{}
	var stack []*Element

	add := func(n Node) {
		if len(stack) == 0 {
			doc.Children = append(doc.Children, n)
			return
		}
		top := stack[len(stack)-1]
		top.Children = append(top.Children, n)
	}

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xmltree: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: Name{Space: t.Name.Space, Local: t.Name.Local}}
			if len(t.Attr) > 0 {
				el.Attrs = make([]Attr, len(t.Attr))
				for i, a := range t.Attr {
					el.Attrs[i] = Attr{
						Name:  Name{Space: a.Name.Space, Local: a.Name.Local},
						Value: a.Value,
					}
				}
			}
			add(el)
			stack = append(stack, el)

		case xml.EndElement:
			name := Name{Space: t.Name.Space, Local: t.Name.Local}
			if len(stack) == 0 {
				return nil, fmt.Errorf("xmltree: unexpected end element </%s>", name)
			}
			top := stack[len(stack)-1]
			if top.Name != name {
				return nil, fmt.Errorf("xmltree: element <%s> closed by </%s>", top.Name, name)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			addText(doc, stack, string(t))

		case xml.Comment:
			add(&Other{Raw: "<!--" + string(t) + "-->"})

		case xml.ProcInst:
			raw := "<?" + t.Target
			if len(t.Inst) > 0 {
				raw += " " + string(t.Inst)
			}
			add(&Other{Raw: raw + "?>"})

		case xml.Directive:
			add(&Other{Raw: "<!" + string(t) + ">"})
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("xmltree: element <%s> is not closed", stack[len(stack)-1].Name)
	}
	if doc.Root() == nil {
		return nil, ErrNoRoot
	}
	return doc, nil
}

// addText appends character data, merging it with a preceding text node so
// that CDATA sections and plain text inside one element form a single node.
func addText(doc *Document, stack []*Element, data string) {
	children := &doc.Children
	if len(stack) > 0 {
		children = &stack[len(stack)-1].Children
	}

	if n := len(*children); n > 0 {
		if prev, ok := (*children)[n-1].(*Text); ok {
			prev.Data += data
			return
		}
	}
	*children = append(*children, &Text{Data: data})
}
