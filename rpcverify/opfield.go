package rpcverify

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// OpField is a single named value assertion against a reply,
// independent of full-tree structural comparison.
type OpField struct {
	// Name is the local tag name of the value-bearing element.
	Name string `yaml:"name"`
	// XPath locates the element; see Entry.
	XPath string `yaml:"xpath"`
	// Value is the operand for Op.
	Value string `yaml:"value"`
	// Op is one of ==, !=, >=, <=, >, < or range.
	Op string `yaml:"op"`
	// ID is an optional sequence number used for positional matching
	// when xpath selection does not apply.
	ID *int `yaml:"id,omitempty"`
	// Selected disables the assertion when explicitly false.
	Selected *bool `yaml:"selected,omitempty"`
}

func (f OpField) selected() bool { return f.Selected == nil || *f.Selected }

// CheckOpField evaluates a reply value against the field's operator.
// A false result is always accompanied by a logged reason; evaluation
// problems (bad ranges, non-numeric values in numeric context) count
// as failures for the field, never as errors to the caller.
//
// For the range operator the field value must hold two numbers
// separated by a comma, whitespace or a single hyphen; the reply
// value must lie within the inclusive range. For the remaining
// operators, a purely-numeric value on exactly one side fails
// immediately rather than comparing number to text; otherwise values
// compare as floats when both parse, else as strings.
func (v *Verifier) CheckOpField(value string, field OpField) bool {
	log := v.log()

	if field.Op == "range" {
		val, err := strconv.ParseFloat(value, 64)
		if err != nil {
			log.Errorf("OPERATION VALUE %s: %s invalid for range %s FAILED",
				field.Name, value, field.Value)
			return false
		}
		lo, hi, ok := parseRange(field.Value)
		if !ok {
			log.Errorf("OPERATION VALUE %s: invalid range %s FAILED", field.Name, field.Value)
			return false
		}
		if val < lo || val > hi {
			log.Errorf("OPERATION VALUE %s: %v out of range %s FAILED",
				field.Name, val, field.Value)
			return false
		}
		log.Debugf("OPERATION VALUE %s: %v in range %s SUCCESS", field.Name, val, field.Value)
		return true
	}

	if isNumeric(value) != isNumeric(field.Value) {
		log.Errorf("OPERATION VALUE %s: %q %s %q FAILED", field.Name, value, field.Op, field.Value)
		return false
	}

	var ok, evaluated bool
	if v1, err1 := strconv.ParseFloat(value, 64); err1 == nil {
		if v2, err2 := strconv.ParseFloat(field.Value, 64); err2 == nil {
			ok, evaluated = evalFloat(v1, field.Op, v2)
		}
	}
	if !evaluated {
		ok, evaluated = evalString(value, field.Op, field.Value)
	}
	if !evaluated {
		log.Errorf("OPERATION VALUE %s: unknown operation %q FAILED", field.Name, field.Op)
		return false
	}
	if !ok {
		log.Errorf("OPERATION VALUE %s: %s %s %s FAILED", field.Name, value, field.Op, field.Value)
		return false
	}
	log.Debugf("OPERATION VALUE %s: %s %s %s SUCCESS", field.Name, value, field.Op, field.Value)
	return true
}

// ProcessOperationalState tests reply entries against operational
// fields. Each field is consumed by its first xpath and name match;
// fields flagged selected=false are discarded without being evaluated
// or counted. Any selected fields left unmatched after the walk are
// reported missing.
func (v *Verifier) ProcessOperationalState(response []Entry, opfields []OpField) bool {
	log := v.log()
	result := true

	if len(opfields) == 0 {
		log.Error("OPERATIONAL STATE FAILED: No opfields")
		return false
	}
	pending := append([]OpField(nil), opfields...)

	for _, r := range response {
		vs := processValues(r.Node, nil)
		value := "empty"
		if vs.hasReply {
			value = vs.replyVal
		}
		fi := 0
		for fi < len(pending) {
			field := pending[fi]
			if !field.selected() {
				pending = append(pending[:fi], pending[fi+1:]...)
				continue
			}
			if field.XPath != "" && field.XPath == r.XPath && r.Node.Data == field.Name {
				if !v.CheckOpField(value, field) {
					result = false
				}
				pending = append(pending[:fi], pending[fi+1:]...)
				break
			}
			fi++
		}
	}

	var missing strings.Builder
	for _, field := range pending {
		if !field.selected() {
			continue
		}
		missing.WriteString(field.XPath + " value: " + field.Value + "\n")
		result = false
	}
	if missing.Len() > 0 {
		log.Errorf("OPERATIONAL STATE FAILED: Missing value(s)\n%s", missing.String())
	}

	return result
}

// RPCData describes the model content of an rpc: its protocol
// operation, target datastore and the nodes it touches.
type RPCData struct {
	Operation    string            `yaml:"operation"`
	Datastore    string            `yaml:"datastore"`
	WithDefaults string            `yaml:"with-defaults"`
	Namespace    map[string]string `yaml:"namespace"`
	Nodes        []RPCNode         `yaml:"nodes"`
}

// RPCNode is one node touched by an rpc.
type RPCNode struct {
	XPath  string `yaml:"xpath"`
	Value  string `yaml:"value"`
	EditOp string `yaml:"edit-op"`
}

var (
	reFindKeys     = regexp.MustCompile(`\[.*?\]`)
	reFindPrefixes = regexp.MustCompile(`/.*?:`)
)

// VerifyRPCDataReply checks a get-config reply against the nodes of a
// preceding edit-config. Deleted and removed nodes are skipped; the
// rest become equality opfields with list keys and namespace prefixes
// stripped from their xpaths. An empty reply passes when only
// delete/remove nodes were sent.
func (v *Verifier) VerifyRPCDataReply(response []Entry, data RPCData) bool {
	var fields []OpField
	deleted := false
	for _, node := range data.Nodes {
		if node.EditOp == "delete" || node.EditOp == "remove" {
			deleted = true
			continue
		}
		xp := reFindKeys.ReplaceAllString(node.XPath, "")
		xp = reFindPrefixes.ReplaceAllString(xp, "/")
		value := node.Value
		if value == "" {
			value = "empty"
		}
		parts := strings.Split(xp, "/")
		fields = append(fields, OpField{
			Name:  parts[len(parts)-1],
			Value: value,
			XPath: xp,
			Op:    "==",
		})
	}
	if len(response) == 0 && len(fields) == 0 && deleted {
		return true
	}
	return v.ProcessOperationalState(response, fields)
}

// isNumeric mirrors a digits-only numeric test: signs and decimal
// points make a value non-numeric for the type-mismatch guard.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func parseRange(s string) (lo, hi float64, ok bool) {
	var parts []string
	if p := strings.Split(s, ","); len(p) == 2 {
		parts = p
	} else if p := strings.Fields(s); len(p) == 2 {
		parts = p
	} else if strings.Count(s, "-") == 1 {
		parts = strings.SplitN(s, "-", 2)
	}
	if len(parts) != 2 {
		return 0, 0, false
	}
	var err error
	if lo, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		return 0, 0, false
	}
	if hi, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

func evalFloat(a float64, op string, b float64) (result, known bool) {
	switch op {
	case "==":
		return a == b, true
	case "!=":
		return a != b, true
	case ">=":
		return a >= b, true
	case "<=":
		return a <= b, true
	case ">":
		return a > b, true
	case "<":
		return a < b, true
	}
	return false, false
}

func evalString(a, op, b string) (result, known bool) {
	switch op {
	case "==":
		return a == b, true
	case "!=":
		return a != b, true
	case ">=":
		return a >= b, true
	case "<=":
		return a <= b, true
	case ">":
		return a > b, true
	case "<":
		return a < b, true
	}
	return false, false
}
