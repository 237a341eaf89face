package rpcverify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessReplyPaths(t *testing.T) {
	v, _ := newVerifier()
	entries, err := v.ProcessReply(`<?xml version="1.0" encoding="UTF-8"?>
<rpc-reply xmlns="urn:ietf:params:xml:ns:netconf:base:1.0" message-id="101">
  <data>
    <sys xmlns="urn:sys">
      <name>foo</name>
      <nested><leaf>1</leaf></nested>
    </sys>
  </data>
</rpc-reply>`)
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.XPath)
	}
	// document order, envelope and data wrapper stripped
	assert.Equal(t, []string{"/sys", "/sys/name", "/sys/nested", "/sys/nested/leaf"}, paths)
	assert.Equal(t, "sys", entries[0].Node.Data)
	assert.Equal(t, "urn:sys", entries[0].Node.NamespaceURI)
}

func TestProcessReplyPrefixedEnvelope(t *testing.T) {
	v, _ := newVerifier()
	entries, err := v.ProcessReply(
		`<nc:rpc-reply xmlns:nc="urn:ietf:params:xml:ns:netconf:base:1.0">` +
			`<nc:data><native><hostname>csr1</hostname></native></nc:data></nc:rpc-reply>`)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/native", entries[0].XPath)
	assert.Equal(t, "/native/hostname", entries[1].XPath)
}

func TestProcessReplyWithoutData(t *testing.T) {
	v, _ := newVerifier()
	entries, err := v.ProcessReply(`<rpc-reply><ok/></rpc-reply>`)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/rpc-reply/ok", entries[0].XPath)
	assert.Equal(t, "ok", entries[0].Node.Data)
}

func TestProcessReplyErrors(t *testing.T) {
	v, hook := newVerifier()
	_, err := v.ProcessReply("")
	assert.ErrorIs(t, err, ErrNoResponse)
	assert.Contains(t, logged(hook), "No response to verify")

	v, hook = newVerifier()
	_, err = v.ProcessReply(`<data><sys/></data>`)
	assert.ErrorIs(t, err, ErrMissingReply)
	assert.Contains(t, logged(hook), "missing rpc-reply")

	v, _ = newVerifier()
	_, err = v.ProcessReply(`<rpc-reply><unclosed></rpc-reply>`)
	assert.Error(t, err)
}

func TestProcessResponses(t *testing.T) {
	v, _ := newVerifier()
	entries, err := v.ProcessResponses([]Response{
		{Op: "get", XML: `<rpc-reply><data><sys><name>foo</name></sys></data></rpc-reply>`},
		{Op: "ignored", XML: `<rpc-reply/>`},
	})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = v.ProcessResponses(nil)
	assert.ErrorIs(t, err, ErrNoResponse)
}

func TestStripDeclaration(t *testing.T) {
	a := assert.New(t)
	a.Equal("<rpc-reply/>", stripDeclaration(`<?xml version="1.0"?>  <rpc-reply/>`))
	a.Equal("<rpc-reply/>", stripDeclaration("  <rpc-reply/>  "))
}
