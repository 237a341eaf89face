package xmlutil

import "encoding/xml"

// XMLName builds an xml.Name from a local name and an optional
// namespace value.
func XMLName(local string, spaces ...string) xml.Name {
	n := xml.Name{Local: local}
	if len(spaces) > 0 {
		n.Space = spaces[0]
	}
	return n
}
