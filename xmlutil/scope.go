package xmlutil

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// InScope returns the in-scope PrefixMap for element n, collected by
// walking the ancestor chain. The binding nearest to n wins for each
// prefix.
func InScope(n *xmlquery.Node) PrefixMap {
	pmap := PrefixMap{}
	for el := n; el != nil; el = el.Parent {
		if el.Type != xmlquery.ElementNode {
			continue
		}
		for _, attr := range el.Attr {
			switch {
			case attr.Name.Space == "xmlns":
				if !pmap.Has(attr.Name.Local) {
					pmap[attr.Name.Local] = attr.Value
				}
			case attr.Name.Space == "" && attr.Name.Local == "xmlns":
				if !pmap.Has("") {
					pmap[""] = attr.Value
				}
			}
		}
	}
	return pmap
}

// Elements returns n (if it is an element) and all of its descendant
// elements in document order.
func Elements(n *xmlquery.Node) []*xmlquery.Node {
	var out []*xmlquery.Node
	var walk func(*xmlquery.Node)
	walk = func(el *xmlquery.Node) {
		if el.Type == xmlquery.ElementNode {
			out = append(out, el)
		}
		for c := el.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// Text returns the character data directly inside n, stopping at its
// first child element, with surrounding whitespace trimmed. Unlike
// Node.InnerText this does not descend into children, so container
// elements holding only child elements yield "".
func Text(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			break
		}
		if c.Type == xmlquery.TextNode || c.Type == xmlquery.CharDataNode {
			b.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(b.String())
}

// Tag returns the namespace-qualified tag of n in Clark notation,
// {namespace-uri}local, or the bare local name when the element has
// no namespace.
func Tag(n *xmlquery.Node) string {
	if n.NamespaceURI != "" {
		return "{" + n.NamespaceURI + "}" + n.Data
	}
	return n.Data
}

// HasAttr reports whether n carries an attribute with the given local
// name, regardless of its value.
func HasAttr(n *xmlquery.Node, local string) bool {
	for _, attr := range n.Attr {
		if attr.Name.Local == local {
			return true
		}
	}
	return false
}
