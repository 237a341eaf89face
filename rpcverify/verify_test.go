package rpcverify

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/modelpipe/modelpipe/capability"
)

const capWithDefaultsExplicit = "urn:ietf:params:netconf:capability:with-defaults:1.0?basic-mode=explicit&also-supported=report-all-tagged"
const capWithDefaultsReportAll = "urn:ietf:params:netconf:capability:with-defaults:1.0?basic-mode=report-all"

func newVerifier(caps ...string) (*Verifier, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return &Verifier{Log: logger, Caps: capability.Parse(caps)}, hook
}

func logged(hook *test.Hook) string {
	var b strings.Builder
	for _, e := range hook.AllEntries() {
		b.WriteString(e.Message)
		b.WriteString("\n")
	}
	return b.String()
}

const recurseReply = `
<rpc-reply xmlns="urn:ietf:params:xml:ns:netconf:base:1.0" message-id="101">
  <data>
    <top xmlns="http://example.com/recurse">
      <child1>
        <child2>child2</child2>
        <sibling1>sibling1</sibling1>
        <sibling-recurse>
          <sibchild>sibchild</sibchild>
          <sibchild2>sibchild2</sibchild2>
        </sibling-recurse>
      </child1>
    </top>
  </data>
</rpc-reply>
`

func TestParseExpectedIdenticalTrees(t *testing.T) {
	v, _ := newVerifier()
	assert.True(t, v.ParseExpected(recurseReply, recurseReply, nil))
}

func TestParseExpectedValueMatch(t *testing.T) {
	reply := `<rpc-reply><data><sys><name>foo</name></sys></data></rpc-reply>`

	v, _ := newVerifier()
	assert.True(t, v.ParseExpected(reply, `<data><sys><name>foo</name></sys></data>`, nil))

	v, hook := newVerifier()
	assert.False(t, v.ParseExpected(reply, `<data><sys><name>bar</name></sys></data>`, nil))
	out := logged(hook)
	assert.Contains(t, out, "Wrong values")
	assert.Contains(t, out, "Tag:name Value:foo Expected:bar")
}

func TestParseExpectedMissingTag(t *testing.T) {
	reply := `<rpc-reply><data><sys><name>foo</name></sys></data></rpc-reply>`
	expected := `<data><sys><name>foo</name><mtu>1500</mtu></sys></data>`

	v, hook := newVerifier()
	assert.False(t, v.ParseExpected(reply, expected, nil))
	assert.Contains(t, logged(hook), "tags are missing")
}

// Tags marked absent with a leading minus must not show up in the
// reply: under explicit mode any structural match is a violation.
func TestParseExpectedShouldBeMissingExplicit(t *testing.T) {
	reply := `<rpc-reply><data><sys><mtu>1500</mtu><name>foo</name></sys></data></rpc-reply>`
	expected := `<data>
<sys>
  <mtu>1500</mtu>
-  <name>foo</name>
</sys>
</data>`

	v, hook := newVerifier(capWithDefaultsExplicit)
	assert.False(t, v.ParseExpected(reply, expected, nil))
	out := logged(hook)
	assert.Contains(t, out, "should be missing")
	assert.Contains(t, out, "name foo")
}

// Without a with-defaults capability a value match on an absent-marked
// tag is still a violation.
func TestParseExpectedShouldBeMissingNoMode(t *testing.T) {
	reply := `<rpc-reply><data><sys><mtu>1500</mtu><name>foo</name></sys></data></rpc-reply>`
	expected := `<data>
<sys>
  <mtu>1500</mtu>
-  <name>foo</name>
</sys>
</data>`

	v, hook := newVerifier()
	assert.False(t, v.ParseExpected(reply, expected, nil))
	assert.Contains(t, logged(hook), "should be missing")
}

// Under report-all mode a default-valued leaf legitimately renders, so
// an absent-marked tag whose value differs is tolerated.
func TestParseExpectedShouldBeMissingReportAll(t *testing.T) {
	reply := `<rpc-reply><data><sys><mtu>1500</mtu><name>default-name</name></sys></data></rpc-reply>`
	expected := `<data>
<sys>
  <mtu>1500</mtu>
-  <name>foo</name>
</sys>
</data>`

	v, _ := newVerifier(capWithDefaultsReportAll)
	assert.True(t, v.ParseExpected(reply, expected, nil))

	// with agreeing values the tag was genuinely not deleted
	reply = `<rpc-reply><data><sys><mtu>1500</mtu><name>foo</name></sys></data></rpc-reply>`
	v, hook := newVerifier(capWithDefaultsReportAll)
	assert.False(t, v.ParseExpected(reply, expected, nil))
	assert.Contains(t, logged(hook), "name foo")
}

// An expectation whose payload's first child is marked absent means no
// data at all is expected (explicit mode): an empty reply succeeds and
// a populated one fails.
func TestParseExpectedNoDataExpected(t *testing.T) {
	expected := `<data>
-  <top xmlns="urn:t">
-    <child>x</child>
-  </top>
</data>`

	v, _ := newVerifier(capWithDefaultsExplicit)
	assert.True(t, v.ParseExpected(`<rpc-reply></rpc-reply>`, expected, nil))

	v, hook := newVerifier(capWithDefaultsExplicit)
	reply := `<rpc-reply><data><top xmlns="urn:t"><child>x</child></top></data></rpc-reply>`
	assert.False(t, v.ParseExpected(reply, expected, nil))
	assert.Contains(t, logged(hook), "Expected no data in rpc-reply")
}

// Extra reply tags are unexpected under explicit mode.
func TestParseExpectedExtraTagsExplicit(t *testing.T) {
	reply := `<rpc-reply><data><sys><name>foo</name><mtu>1500</mtu></sys></data></rpc-reply>`
	expected := `<data><sys><name>foo</name></sys></data>`

	v, hook := newVerifier(capWithDefaultsExplicit)
	assert.False(t, v.ParseExpected(reply, expected, nil))
	assert.Contains(t, logged(hook), "not expected in response")

	// outside explicit mode the extra tag is tolerated
	v, _ = newVerifier()
	assert.True(t, v.ParseExpected(reply, expected, nil))
}

func TestParseExpectedMissingNamespace(t *testing.T) {
	reply := `<rpc-reply><data><sys xmlns="urn:known"><name>foo</name></sys></data></rpc-reply>`
	expected := `<data><sys xmlns="urn:known"><name>foo</name></sys></data>`
	v, _ := newVerifier()
	assert.True(t, v.ParseExpected(reply, expected, nil))

	// a reply namespace never declared by the expectation is reported
	reply = `<rpc-reply><data><sys xmlns:extra="urn:extra"><name>foo</name></sys></data></rpc-reply>`
	expected = `<data><sys><name>foo</name></sys></data>`
	v, hook := newVerifier()
	assert.False(t, v.ParseExpected(reply, expected, nil))
	assert.Contains(t, logged(hook), "Missing namespaces")
	assert.Contains(t, logged(hook), "urn:extra")
}

// Values differing only by a resolvable namespace prefix match.
func TestParseExpectedPrefixedValues(t *testing.T) {
	reply := `<rpc-reply><data><sys xmlns:idx="urn:idx"><af>idx:ipv4</af></sys></data></rpc-reply>`
	expected := `<data><sys xmlns:af="urn:idx"><af>af:ipv4</af></sys></data>`
	v, _ := newVerifier()
	assert.True(t, v.ParseExpected(reply, expected, nil))

	// an unresolvable reply prefix stays a wrong value
	reply = `<rpc-reply><data><sys xmlns:other="urn:idx"><af>idx:ipv4</af></sys></data></rpc-reply>`
	v, hook := newVerifier()
	assert.False(t, v.ParseExpected(reply, expected, nil))
	assert.Contains(t, logged(hook), "Wrong values")
}

func TestParseExpectedEmptyInputs(t *testing.T) {
	v, hook := newVerifier()
	assert.False(t, v.ParseExpected("", `<data/>`, nil))
	assert.Contains(t, logged(hook), "No response to verify")

	v, hook = newVerifier()
	assert.False(t, v.ParseExpected(recurseReply, "", nil))
	assert.Contains(t, logged(hook), "No XML for verification")
}

func TestParseExpectedMalformedExpectation(t *testing.T) {
	v, hook := newVerifier()
	assert.False(t, v.ParseExpected(recurseReply, `<data><unclosed></data>`, nil))
	assert.Contains(t, logged(hook), "Expected XML")
}

// Opfields take priority over plain equality for the elements they
// select.
func TestParseExpectedWithOpfields(t *testing.T) {
	reply := `<rpc-reply><data><sys><count>7</count></sys></data></rpc-reply>`
	expected := `<data><sys><count>0</count></sys></data>`

	v, _ := newVerifier()
	fields := []OpField{{Name: "count", XPath: "/sys/count", Value: "1-10", Op: "range"}}
	assert.True(t, v.ParseExpected(reply, expected, fields))

	v, hook := newVerifier()
	fields = []OpField{{Name: "count", XPath: "/sys/count", Value: "10", Op: ">="}}
	assert.False(t, v.ParseExpected(reply, expected, fields))
	assert.Contains(t, logged(hook), "OPERATION VALUE count")
}

// Opfields without an XML template still get evaluated against the
// reply instead of passing by default.
func TestParseExpectedOpfieldsOnly(t *testing.T) {
	reply := `<rpc-reply><data><sys><count>7</count></sys></data></rpc-reply>`

	v, hook := newVerifier()
	fields := []OpField{{Name: "count", XPath: "/sys/count", Value: "100", Op: "=="}}
	assert.False(t, v.ParseExpected(reply, "", fields))
	assert.Contains(t, logged(hook), "OPERATION VALUE count")

	v, _ = newVerifier()
	fields = []OpField{{Name: "count", XPath: "/sys/count", Value: "7", Op: "=="}}
	assert.True(t, v.ParseExpected(reply, "", fields))
}

func TestParseExpectedPositionalOpfield(t *testing.T) {
	reply := `<rpc-reply><data><sys><count>7</count></sys></data></rpc-reply>`
	expected := `<data><sys><count>0</count></sys></data>`

	id := 0
	v, _ := newVerifier()
	fields := []OpField{{Name: "count", Value: "7", Op: "==", ID: &id}}
	assert.True(t, v.ParseExpected(reply, expected, fields))
}
