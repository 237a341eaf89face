// Package cliconfig normalizes CLI configuration text and computes
// order-insensitive structural diffs between configurations. It is a
// pure value comparison: no device interaction, no file I/O.
package cliconfig

import (
	"regexp"
	"strings"
)

// First tokens of lines that carry no configuration meaning.
var skipTokens = map[string]struct{}{
	"enable":    {},
	"config":    {},
	"t":         {},
	"configure": {},
	"end":       {},
	"show":      {},
	"terminal":  {},
	"commit":    {},
	"#":         {},
	"!":         {},
	"<rpc":      {},
	"Building":  {},
}

// Weekday and month abbreviations that open console timestamp lines.
var timestampLead = map[string]struct{}{
	"mon": {}, "tue": {}, "wed": {}, "thu": {}, "fri": {}, "sat": {},
	"sun": {}, "jan": {}, "feb": {}, "mar": {}, "apr": {}, "may": {},
	"jun": {}, "jul": {}, "aug": {}, "sep": {}, "oct": {}, "nov": {},
	"dec": {},
}

var timeRE = regexp.MustCompile(`^(([0-1]?[0-9])|([2][0-3])):([0-5]?[0-9])(:([0-5]?[0-9]))?`)

// Normalize strips uninteresting CLI from configuration text and
// returns the surviving lines, trimmed, in their original relative
// order. Blank lines, comments, pagination markers, prompt echoes,
// maintenance commands and console timestamps are dropped; a handful
// of command families receive canonicalizing rewrites.
//
// Repeated application is stable: normalizing already-normalized
// lines yields the identical list.
func Normalize(cfg string) []string {
	var clean []string

	for _, line := range strings.Split(cfg, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if idx := strings.Index(line, "--More--"); idx >= 0 {
			// salvage anything included after the pagination marker
			line = line[idx+8:]
			if strings.TrimSpace(line) == "" {
				continue
			}
		}
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		if strings.HasPrefix(line, "Current configuration") {
			continue
		}
		if strings.HasSuffix(strings.TrimRight(line, " \t\r"), "#") {
			// prompt echo
			continue
		}
		if _, ok := skipTokens[firstToken(line)]; ok {
			continue
		}
		if isTimestamp(line) {
			continue
		}
		line, ok := specialHandle(line)
		if !ok {
			continue
		}
		clean = append(clean, strings.TrimSpace(line))
	}

	return clean
}

func firstToken(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// isTimestamp reports whether line looks like a console timestamp:
// it opens with a weekday or month abbreviation and some token
// matches HH:MM[:SS].
func isTimestamp(line string) bool {
	if len(line) < 3 {
		return false
	}
	if _, ok := timestampLead[strings.ToLower(line[:3])]; !ok {
		return false
	}
	for _, item := range strings.Fields(line) {
		if timeRE.MatchString(item) {
			return true
		}
	}
	return false
}

// specialHandle applies per-command-family rewrites keyed by the first
// token. A false return means the line should be dropped.
func specialHandle(line string) (string, bool) {
	switch firstToken(line) {
	case "interface":
		// "interface GigabitEthernet 1/0/1" and
		// "interface GigabitEthernet1/0/1" are the same interface
		var rest []string
		for _, tok := range strings.Fields(line) {
			if tok != "interface" {
				rest = append(rest, tok)
			}
		}
		return "interface " + strings.Join(rest, ""), true
	case "username":
		// drop the explicit "0" (cleartext) encoding tag
		return strings.Replace(line, "password 0", "password", 1), true
	case "exit":
		if len(strings.Fields(line)) == 1 {
			return "", false
		}
		return line, true
	}
	return line, true
}
