package rpcverify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/sirupsen/logrus"

	"github.com/modelpipe/modelpipe/capability"
	"github.com/modelpipe/modelpipe/xmlutil"
)

// Verifier checks rpc-reply messages against expectations.
//
// The zero value is usable: diagnostics go to the logrus standard
// logger and no with-defaults capability is assumed. Each call builds
// its own element lists, so a Verifier may be reused across replies.
type Verifier struct {
	// Log receives verification diagnostics. Optional.
	Log logrus.FieldLogger
	// Caps is the device capability set; its with-defaults mode
	// changes how absent and extra elements are judged.
	Caps capability.Set
}

func (v *Verifier) log() logrus.FieldLogger {
	if v.Log != nil {
		return v.Log
	}
	return logrus.StandardLogger()
}

// Lines in expected XML beginning with "-" mark tags that must be
// absent from the reply; the minus is rewritten to an expected="false"
// attribute before parsing.
var minusRE = regexp.MustCompile(`^- *<([-0-9a-zA-Z:_]+)`)

// ParseExpected checks the actual reply XML against the expected XML
// template and any operational fields, returning the overall verdict.
//
// Elements marked absent (leading "-") must not appear in the reply;
// every other expectation element must be present with the correct
// namespace and value. Opfields take priority over plain string
// equality for elements they select, by xpath or by positional
// sequence id. All violations found in one pass are logged before the
// verdict is returned.
//
// If the expectation's payload is itself marked absent (under the
// explicit with-defaults mode), the success condition becomes an empty
// reply. An empty expectation with no opfields succeeds only against
// an empty reply; with opfields the reply is evaluated against them
// alone.
func (v *Verifier) ParseExpected(replyXML, expectXML string, opfields []OpField) bool {
	log := v.log()

	if len(opfields) == 0 {
		log.Debugf("EXPECTED XML:\n%s", expectXML)
	}
	if len(opfields) == 0 && strings.TrimSpace(expectXML) == "" {
		log.Error("OPERATIONAL-VERIFY FAILED: No XML for verification.")
		return false
	}
	if strings.TrimSpace(replyXML) == "" {
		log.Error("OPERATIONAL-VERIFY FAILED: No response to verify.")
		return false
	}

	var pre strings.Builder
	for _, line := range strings.Split(strings.TrimSpace(expectXML), "\n") {
		pre.WriteString(minusRE.ReplaceAllString(line, `<${1} expected="false" `))
		pre.WriteString("\n")
	}

	doc, err := xmlquery.Parse(strings.NewReader(pre.String()))
	if err != nil {
		log.Errorf("OPERATIONAL-VERIFY FAILED: Expected XML:\n%v", err)
		return false
	}

	response, err := v.ProcessReply(replyXML)
	if err != nil {
		return false
	}

	expected := collect(doc, expectedTrim)

	// Expected XML should have at least one top level tag with one
	// child; under explicit mode a payload whose first child is
	// marked absent means no data is expected at all.
	if v.Caps.Explicit() && len(expected) < 2 {
		expected = nil
	}
	if len(expected) > 0 && v.Caps.Explicit() {
		if xmlutil.HasAttr(expected[1].Node, "expected") {
			expected = nil
		}
	}

	if (len(expected) > 0 || len(opfields) > 0) && len(response) == 0 {
		log.Error("OPERATIONAL-VERIFY FAILED: rpc-reply has no data.")
		return false
	}
	if len(expected) == 0 && len(opfields) == 0 {
		if len(response) == 0 {
			log.Info("OPERATIONAL-VERIFY SUCCESSFUL: Expected no data in rpc-reply.")
			return true
		}
		log.Error("OPERATIONAL-VERIFY FAILED: Expected no data in rpc-reply.")
		return false
	}

	result, expected, response := v.processExpectReply(response, expected)
	if result && len(expected) == 0 && len(opfields) > 0 {
		// no structural template survived; the opfields carry the
		// whole expectation
		result = v.ProcessOperationalState(response, opfields)
	} else if result && len(expected) > 0 && len(response) > 0 {
		result = v.verifyReply(response, expected, opfields)
	}
	if result {
		log.Debug("OPERATIONAL-VERIFY SUCCESSFUL")
	}
	return result
}

// processExpectReply partitions the expectation into present and
// absent sets and checks the reply for elements that should be
// missing. How a structural match is judged depends on the
// with-defaults mode:
//
//   - explicit: any structural match is a violation, since only
//     client-set data should appear in the reply at all;
//   - report-all: a match is a violation only when the values agree,
//     since default-valued leaves legitimately render;
//   - neither: a violation when values agree or both sides are bare
//     containers.
//
// Violations accumulate into one report so a single pass surfaces
// them all. Returns the verdict so far, the remaining "should be
// present" expectations and the reply entries.
func (v *Verifier) processExpectReply(response, expected []Entry) (bool, []Entry, []Entry) {
	result := true
	var shouldBeMissing strings.Builder

	var unexpected, expect []Entry
	for _, e := range expected {
		if attrValue(e.Node, "expected") == "false" {
			unexpected = append(unexpected, e)
		} else {
			expect = append(expect, e)
		}
	}

	for _, r := range response {
		for _, u := range unexpected {
			if !sameTag(r.Node, u.Node) || r.XPath != u.XPath {
				continue
			}
			vs := processValues(r.Node, u.Node)
			if v.Caps.Explicit() {
				fmt.Fprintf(&shouldBeMissing, "%s %s\n", xmlutil.Tag(r.Node), vs.replyVal)
				result = false
				break
			} else if v.Caps.ReportAll() {
				if !vs.match {
					// a differing default value is tolerated
					continue
				}
				fmt.Fprintf(&shouldBeMissing, "%s %s\n", xmlutil.Tag(r.Node), vs.replyVal)
				result = false
				break
			} else if vs.match || vs.noValues {
				fmt.Fprintf(&shouldBeMissing, "%s\n", xmlutil.Tag(r.Node))
				result = false
			}
		}
	}

	if shouldBeMissing.Len() > 0 {
		v.log().Errorf("OPERATIONAL-VERIFY FAILED: Following tags should be missing:\n\n%s",
			shouldBeMissing.String())
	}
	return result, expect, response
}

// verifyReply checks that every remaining expectation element appears
// in the reply with the expected namespaces and value. Matched reply
// entries are consumed by index as the walk proceeds; under the
// explicit with-defaults mode any left unconsumed are reported as
// unexpected extra tags.
func (v *Verifier) verifyReply(response, expected []Entry, opfields []OpField) bool {
	log := v.log()
	result := true
	var missingNS, wrongValues, missingTags strings.Builder
	nsSet := map[string]struct{}{}
	pending := append([]OpField(nil), opfields...)
	valueSeq := 0

	for _, exp := range expected {
		ri := -1
		for i, r := range response {
			if sameTag(r.Node, exp.Node) && exp.XPath == r.XPath {
				ri = i
				break
			}
		}
		if ri < 0 {
			fmt.Fprintf(&missingTags, "%s\n", xmlutil.Tag(exp.Node))
			result = false
			continue
		}
		reply := response[ri]

		// namespaces accumulate from expectations as the walk
		// proceeds; any reply namespace outside the set (other than
		// the base NETCONF namespace) was never expected
		for _, ns := range xmlutil.InScope(exp.Node) {
			nsSet[ns] = struct{}{}
		}
		for _, ns := range xmlutil.InScope(reply.Node) {
			if ns == NetconfNS {
				continue
			}
			if _, ok := nsSet[ns]; !ok {
				fmt.Fprintf(&missingNS, "Tag:%s Namespace:%s\n", exp.Node.Data, ns)
				result = false
			}
		}

		vs := processValues(reply.Node, exp.Node)

		if vs.noValues {
			response = append(response[:ri], response[ri+1:]...)
			continue
		}

		if len(pending) > 0 && vs.hasReply {
			// opfields take priority over plain equality; they may
			// arrive out of order, so select by xpath first and fall
			// back to the positional sequence id
			fi := 0
			for fi < len(pending) {
				field := pending[fi]
				if !field.selected() {
					pending = append(pending[:fi], pending[fi+1:]...)
					continue
				}
				if field.XPath != "" && reply.XPath == field.XPath && reply.Node.Data == field.Name {
					if !v.CheckOpField(vs.replyVal, field) {
						result = false
					}
					pending = append(pending[:fi], pending[fi+1:]...)
					break
				}
				if field.ID != nil && valueSeq == *field.ID {
					if !v.CheckOpField(vs.replyVal, field) {
						result = false
					}
					pending = append(pending[:fi], pending[fi+1:]...)
					break
				}
				fi++
			}
			valueSeq++
		} else if !vs.match {
			fmt.Fprintf(&wrongValues, "Tag:%s Value:%s Expected:%s\n",
				exp.Node.Data, orNone(vs.hasReply, vs.replyVal), orNone(vs.hasExpect, vs.expectVal))
			result = false
		}
		response = append(response[:ri], response[ri+1:]...)
	}

	if !result {
		if missingTags.Len() > 0 {
			log.Errorf("OPERATIONAL-VERIFY FAILED: Following tags are missing:\n%s", missingTags.String())
		}
		if missingNS.Len() > 0 {
			log.Errorf("OPERATIONAL-VERIFY FAILED: Missing namespaces:\n%s", missingNS.String())
		}
		if wrongValues.Len() > 0 {
			log.Errorf("OPERATIONAL-VERIFY FAILED: Wrong values:\n%s", wrongValues.String())
		}
	}

	if len(response) > 0 && v.Caps.Explicit() {
		result = false
		extra := make([]string, 0, len(response))
		for _, r := range response {
			extra = append(extra, xmlutil.Tag(r.Node))
		}
		log.Errorf("OPERATIONAL-VERIFY FAILED: Following tags are not expected in response:\n%s",
			strings.Join(extra, "\n"))
	}

	return result
}

func attrValue(n *xmlquery.Node, local string) string {
	for _, attr := range n.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}
