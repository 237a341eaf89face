package xmlutil

import (
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scopeDoc = `<top xmlns="urn:a" xmlns:x="urn:x">
  <mid xmlns:y="urn:y">
    <leaf xmlns:x="urn:x2">x:value</leaf>
    <empty/>
  </mid>
</top>`

func parseDoc(t *testing.T, s string) *xmlquery.Node {
	t.Helper()
	doc, err := xmlquery.Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func TestInScope(t *testing.T) {
	a := assert.New(t)
	doc := parseDoc(t, scopeDoc)
	els := Elements(doc)
	require.Len(t, els, 4)

	top, mid, leaf := els[0], els[1], els[2]
	a.Equal("urn:a", InScope(top).Namespace(""))
	a.Equal("urn:x", InScope(top).Namespace("x"))
	a.False(InScope(top).Has("y"))

	a.Equal("urn:y", InScope(mid).Namespace("y"))
	a.Equal("urn:x", InScope(mid).Namespace("x"))

	// nearest binding wins
	a.Equal("urn:x2", InScope(leaf).Namespace("x"))
	a.Equal("urn:a", InScope(leaf).Namespace(""))
}

func TestElementsOrder(t *testing.T) {
	doc := parseDoc(t, scopeDoc)
	var names []string
	for _, el := range Elements(doc) {
		names = append(names, el.Data)
	}
	assert.Equal(t, []string{"top", "mid", "leaf", "empty"}, names)
}

func TestText(t *testing.T) {
	a := assert.New(t)
	doc := parseDoc(t, scopeDoc)
	els := Elements(doc)
	a.Equal("", Text(els[0])) // container: no direct text
	a.Equal("x:value", Text(els[2]))
	a.Equal("", Text(els[3]))
	a.Equal("", Text(nil))
}

func TestTag(t *testing.T) {
	doc := parseDoc(t, `<a xmlns="urn:a"><b/></a>`)
	els := Elements(doc)
	assert.Equal(t, "{urn:a}a", Tag(els[0]))
	assert.Equal(t, "{urn:a}b", Tag(els[1])) // default ns inherited
}

func TestHasAttr(t *testing.T) {
	doc := parseDoc(t, `<a expected="false"><b/></a>`)
	els := Elements(doc)
	assert.True(t, HasAttr(els[0], "expected"))
	assert.False(t, HasAttr(els[1], "expected"))
}
