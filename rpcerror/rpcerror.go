// Package rpcerror decodes NETCONF rpc-error elements carried by
// rpc-reply documents into typed errors for reporting. This module
// only consumes errors from device replies; it never produces them.
package rpcerror

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/pkg/errors"

	"github.com/modelpipe/modelpipe/xmlutil"
)

// Type represents the NETCONF error-type enumerate
type Type int

const (
	// TypeApplication is an application layer error
	TypeApplication Type = iota
	// TypeProtocol is a NETCONF protocol layer error
	TypeProtocol
	// TypeRPC is a NETCONF RPC layer error
	TypeRPC
	// TypeTransport is an error at the secure transport layer
	TypeTransport
)

func (t Type) String() string {
	switch t {
	case TypeApplication:
		return "application"
	case TypeProtocol:
		return "protocol"
	case TypeRPC:
		return "rpc"
	case TypeTransport:
		return "transport"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

func parseType(s string) Type {
	switch strings.TrimSpace(s) {
	case "protocol":
		return TypeProtocol
	case "rpc":
		return TypeRPC
	case "transport":
		return TypeTransport
	default:
		return TypeApplication
	}
}

// Severity represents the NETCONF error-severity enumerate
type Severity int

const (
	// SeverityError indicates "error" level
	SeverityError Severity = iota
	// SeverityWarning indicates "warning" level
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

func parseSeverity(s string) Severity {
	if strings.TrimSpace(s) == "warning" {
		return SeverityWarning
	}
	return SeverityError
}

// Error is one rpc-error reported by a device.
type Error struct {
	Type     Type
	Tag      string
	Severity Severity
	AppTag   string
	Path     string
	Message  string
	// Info holds error-info children keyed by local name
	// (bad-attribute, bad-element, bad-namespace, session-id).
	Info map[string]string
}

func (e Error) Error() string {
	s := fmt.Sprintf("%s error tag:%s", e.Type, e.Tag)
	if e.AppTag != "" {
		s += " app-tag:" + e.AppTag
	}
	if e.Path != "" {
		s += " path:" + e.Path
	}
	for _, k := range []string{"bad-attribute", "bad-element", "bad-namespace", "session-id"} {
		if v := e.Info[k]; v != "" {
			s += " " + k + ":" + v
		}
	}
	if e.Message != "" {
		s += " " + e.Message
	}
	return s
}

var xpRPCError = xpath.MustCompile(`//*[local-name()='rpc-error']`)

// Decode returns every rpc-error element found in the reply XML, in
// document order. A reply without rpc-error elements yields nil.
func Decode(raw string) ([]*Error, error) {
	doc, err := xmlquery.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "parse rpc-reply")
	}
	var out []*Error
	for _, el := range xmlquery.QuerySelectorAll(doc, xpRPCError) {
		out = append(out, decodeOne(el))
	}
	return out, nil
}

func decodeOne(el *xmlquery.Node) *Error {
	e := &Error{Info: map[string]string{}}
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		switch c.Data {
		case "error-type":
			e.Type = parseType(xmlutil.Text(c))
		case "error-tag":
			e.Tag = xmlutil.Text(c)
		case "error-severity":
			e.Severity = parseSeverity(xmlutil.Text(c))
		case "error-app-tag":
			e.AppTag = xmlutil.Text(c)
		case "error-path":
			e.Path = xmlutil.Text(c)
		case "error-message":
			e.Message = xmlutil.Text(c)
		case "error-info":
			for ic := c.FirstChild; ic != nil; ic = ic.NextSibling {
				if ic.Type == xmlquery.ElementNode {
					e.Info[ic.Data] = xmlutil.Text(ic)
				}
			}
		}
	}
	return e
}
