// Package xmltree parses XML parts into a mutable tree and writes them back
// without reformatting.
//
// Prefixes are kept exactly as written in the source and namespace URIs are
// never resolved, so a part that is parsed and written back keeps its
// elements, attributes, attribute order and child order. Only character data
// that a caller explicitly replaces changes.
package xmltree

import "strings"

// Node is one item of a parsed tree: *Document, *Element, *Text or *Other.
// A *Document only appears as the root.
type Node interface {
	node()
}

// Name is a prefixed XML name such as "a:t". Space holds the prefix as it
// appears in the markup, not a namespace URI.
type Name struct {
	Space string
	Local string
}

// ParseName splits a "prefix:local" string into a Name.
func ParseName(s string) Name {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return Name{Space: s[:i], Local: s[i+1:]}
	}
	return Name{Local: s}
}

// String returns the name in "prefix:local" form.
func (n Name) String() string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// Attr is a single attribute. Value is the unescaped attribute value.
type Attr struct {
	Name  Name
	Value string
}

// Element is an XML element with its attributes in source order and its
// children in document order.
type Element struct {
	Name     Name
	Attrs    []Attr
	Children []Node
}

// Text is a run of character data, already unescaped.
type Text struct {
	Data string
}

// Other holds markup that is carried through verbatim: comments, processing
// instructions and directives.
type Other struct {
	Raw string
}

func (*Document) node() {}
func (*Element) node()  {}
func (*Text) node()     {}
func (*Other) node()    {}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name Name) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// ChildElements returns the direct element children in order.
func (e *Element) ChildElements() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// TextContent returns the concatenated character data of e. The second
// result is false when e contains anything other than character data, in
// which case the returned string is empty.
func (e *Element) TextContent() (string, bool) {
	if len(e.Children) == 1 {
		if t, ok := e.Children[0].(*Text); ok {
			return t.Data, true
		}
	}

	var b strings.Builder
	for _, c := range e.Children {
		t, ok := c.(*Text)
		if !ok {
			return "", false
		}
		b.WriteString(t.Data)
	}
	return b.String(), true
}

// SetText replaces all children of e with a single text node. Attributes are
// left as they are.
func (e *Element) SetText(s string) {
	if s == "" {
		e.Children = nil
		return
	}
	e.Children = []Node{&Text{Data: s}}
}

// Document is a parsed XML part. Children holds the prolog (declaration,
// comments, whitespace), the root element and anything after it.
type Document struct {
	Children []Node
}

// Root returns the document element, or nil for an empty document.
func (d *Document) Root() *Element {
	for _, c := range d.Children {
		if el, ok := c.(*Element); ok {
			return el
		}
	}
	return nil
}
