package rpcverify

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/modelpipe/modelpipe/xmlutil"
)

// valueState captures the comparison state of a reply/expectation tag
// value pair.
//
// noValues means neither side carries a value (both are containers).
// match means the reply value satisfies the expectation, possibly
// after stripping a namespace prefix from both sides; in that case
// the prefixes are recorded and the values are stored stripped.
type valueState struct {
	noValues bool
	match    bool

	hasReply  bool
	hasExpect bool
	replyVal  string
	expectVal string

	replyPrefix  string
	expectPrefix string
}

// processValues determines the value state of a reply tag against an
// expectation tag. Either node may be nil.
//
// A "prefix:localname" value pair that differs only by prefix is
// treated as matching when the reply's prefix resolves in its own
// in-scope namespace map; the prefix difference is recorded rather
// than reported as an error.
func processValues(reply, expect *xmlquery.Node) valueState {
	var vs valueState

	if s := xmlutil.Text(expect); s != "" {
		vs.expectVal, vs.hasExpect = s, true
	}
	if s := xmlutil.Text(reply); s != "" {
		vs.replyVal, vs.hasReply = s, true
	}

	switch {
	case !vs.hasReply && !vs.hasExpect:
		vs.noValues = true
	case vs.hasReply && vs.hasExpect && vs.replyVal != vs.expectVal:
		if strings.Count(vs.replyVal, ":") == 1 && strings.Count(vs.expectVal, ":") == 1 {
			rp := strings.SplitN(vs.replyVal, ":", 2)
			if xmlutil.InScope(reply).Has(rp[0]) {
				ep := strings.SplitN(vs.expectVal, ":", 2)
				vs.replyPrefix, vs.replyVal = rp[0], rp[1]
				vs.expectPrefix, vs.expectVal = ep[0], ep[1]
				if vs.replyVal == vs.expectVal {
					vs.match = true
				}
			}
		}
	default:
		vs.match = true
	}

	return vs
}

func orNone(ok bool, val string) string {
	if ok {
		return val
	}
	return "None"
}
