package xmlutil

import (
	"encoding/xml"
	"sort"
)

// PrefixMap maps XML namespace prefixes to namespace URIs.
// The default namespace, when bound, is stored under the empty prefix.
type PrefixMap map[string]string

// NewPrefixMap returns a PrefixMap built from the xmlns attributes
// among attrs. Non-xmlns attributes are ignored.
func NewPrefixMap(attrs ...xml.Attr) PrefixMap {
	pmap := PrefixMap{}
	for _, attr := range attrs {
		switch {
		case attr.Name.Space == "xmlns":
			pmap[attr.Name.Local] = attr.Value
		case attr.Name.Space == "" && attr.Name.Local == "xmlns":
			pmap[""] = attr.Value
		}
	}
	return pmap
}

// Attr returns the map contents as xmlns:<prefix>=<nsuri> attributes,
// sorted lexically by prefix.
func (m PrefixMap) Attr() (a []xml.Attr) {
	for k, v := range m {
		a = append(a, xml.Attr{Name: xml.Name{Space: "xmlns", Local: k}, Value: v})
	}
	if len(a) > 0 {
		sort.Slice(a, func(i int, j int) bool { return a[i].Name.Local < a[j].Name.Local })
	}
	return a
}

// Namespace returns the namespace URI bound to prefix, or "".
func (m PrefixMap) Namespace(prefix string) string { return m[prefix] }

// Has reports whether prefix is bound in the map.
func (m PrefixMap) Has(prefix string) bool {
	_, ok := m[prefix]
	return ok
}

// Prefix returns any prefixes bound to the namespace URI.
func (m PrefixMap) Prefix(nsURI string) (pfxes []string) {
	for k, v := range m {
		if nsURI == v {
			pfxes = append(pfxes, k)
		}
	}
	return pfxes
}
