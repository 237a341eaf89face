package rpcverify

import (
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/pkg/errors"

	"github.com/modelpipe/modelpipe/xmlutil"
)

// NetconfNS is the NETCONF base namespace. Reply namespaces matching
// it are never reported as unexpected.
const NetconfNS = "urn:ietf:params:xml:ns:netconf:base:1.0"

var (
	// ErrNoResponse indicates an empty response was given to verify.
	ErrNoResponse = errors.New("no response to verify")
	// ErrMissingReply indicates the response's document element is
	// not an rpc-reply.
	ErrMissingReply = errors.New("response missing rpc-reply")
)

var xpRPCReply = xpath.MustCompile(`/*[local-name()='rpc-reply']`)

// Response is one (operation, XML) pair as returned by a NETCONF
// transport send.
type Response struct {
	Op  string
	XML string
}

// Entry pairs a reply or expectation element with its xpath: the
// slash-separated chain of ancestor local names, relative to the
// payload root (the rpc-reply envelope and its data wrapper are
// stripped).
type Entry struct {
	Node  *xmlquery.Node
	XPath string
}

// ProcessResponses transforms transport send results into reply
// entries. Only the first response is consulted.
func (v *Verifier) ProcessResponses(resps []Response) ([]Entry, error) {
	if len(resps) == 0 {
		v.log().Error("OPERATIONAL-VERIFY FAILED: No response to verify.")
		return nil, ErrNoResponse
	}
	return v.ProcessReply(resps[0].XML)
}

// ProcessReply transforms a well-formed rpc-reply document into a
// flat, document-ordered list of (element, xpath) entries. The
// rpc-reply tag and a data wrapper directly inside it are excluded.
// Malformed XML and a missing rpc-reply document element are fatal
// for the call: both are logged and returned as errors.
func (v *Verifier) ProcessReply(raw string) ([]Entry, error) {
	respXML := stripDeclaration(raw)
	if respXML == "" {
		v.log().Error("OPERATIONAL-VERIFY FAILED: No response to verify.")
		return nil, ErrNoResponse
	}

	doc, err := xmlquery.Parse(strings.NewReader(respXML))
	if err != nil {
		v.log().Errorf("OPERATIONAL-VERIFY FAILED: Response XML:\n%v", err)
		return nil, errors.Wrap(err, "parse rpc-reply")
	}
	if xmlquery.QuerySelector(doc, xpRPCReply) == nil {
		v.log().Error("OPERATIONAL-VERIFY FAILED: Response missing rpc-reply.")
		return nil, ErrMissingReply
	}
	return collect(doc, replyTrim), nil
}

// collect flattens a parsed document into entries, excluding rpc-reply
// elements and the leading data wrapper, applying trim to each xpath.
func collect(doc *xmlquery.Node, trim func(string) string) []Entry {
	var out []Entry
	for _, el := range xmlutil.Elements(doc) {
		if el.Data == "rpc-reply" {
			continue
		}
		if len(out) == 0 && el.Data == "data" {
			continue
		}
		out = append(out, Entry{Node: el, XPath: trim(elementPath(el))})
	}
	return out
}

// elementPath builds the full slash path of local names from the
// document element down to el.
func elementPath(el *xmlquery.Node) string {
	var parts []string
	for n := el; n != nil && n.Type == xmlquery.ElementNode; n = n.Parent {
		parts = append(parts, n.Data)
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString("/")
		b.WriteString(parts[i])
	}
	return b.String()
}

func replyTrim(path string) string {
	return strings.ReplaceAll(path, "/rpc-reply/data", "")
}

func expectedTrim(path string) string {
	if strings.HasPrefix(path, "/rpc-reply/data") {
		return strings.TrimPrefix(path, "/rpc-reply/data")
	}
	return strings.TrimPrefix(path, "/data")
}

// stripDeclaration removes an XML declaration prologue if present.
func stripDeclaration(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "<?xml") {
		if idx := strings.Index(s, ">"); idx >= 0 {
			return strings.TrimSpace(s[idx+1:])
		}
	}
	return s
}

func sameTag(a, b *xmlquery.Node) bool {
	return a.Data == b.Data && a.NamespaceURI == b.NamespaceURI
}
