// Package capability interprets NETCONF capability URIs advertised by
// a device, exposing the RFC6243 with-defaults mode and the writable
// datastores that verification logic depends on.
package capability

import "strings"

// Set holds a device's advertised NETCONF capabilities.
type Set struct {
	uris         []string
	withDefaults []string
	datastores   []string
}

// Parse builds a Set from capability URI strings. Only URIs containing
// ":netconf:capability:" contribute to the derived state.
func Parse(uris []string) Set {
	s := Set{uris: uris}
	for _, uri := range uris {
		if !strings.Contains(uri, ":netconf:capability:") {
			continue
		}
		switch {
		case strings.Contains(uri, ":with-defaults:"):
			if idx := strings.Index(uri, "="); idx >= 0 {
				s.withDefaults = strings.Split(uri[idx+1:], "&also-supported=")
			}
		case strings.Contains(uri, ":candidate:"):
			s.datastores = append(s.datastores, "candidate")
		case strings.Contains(uri, ":writable-running"):
			s.datastores = append(s.datastores, "running")
		}
	}
	return s
}

// Has returns true if uri is in the capability set. Any query
// arguments on uri are ignored for the comparison.
func (s Set) Has(uri string) bool {
	uri = strings.SplitN(uri, "?", 2)[0]
	for _, c := range s.uris {
		if uri == c {
			return true
		}
	}
	return false
}

// WithDefaults returns the with-defaults basic-mode followed by any
// also-supported modes, or nil when the capability was not advertised.
func (s Set) WithDefaults() []string { return s.withDefaults }

// Explicit reports whether the device operates in the "explicit"
// with-defaults mode: leaves holding default values are omitted from
// get-config replies, so only client-set data should appear.
func (s Set) Explicit() bool { return s.hasMode("explicit") }

// ReportAll reports whether the device operates in the "report-all"
// with-defaults mode: default-valued leaves are included in replies.
func (s Set) ReportAll() bool { return s.hasMode("report-all") }

func (s Set) hasMode(mode string) bool {
	for _, m := range s.withDefaults {
		if m == mode {
			return true
		}
	}
	return false
}

// Datastores returns the writable datastores advertised by the device,
// in advertisement order.
func (s Set) Datastores() []string { return s.datastores }
