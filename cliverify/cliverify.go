// Package cliverify verifies device CLI state around model-driven
// edits. A Session executes show commands through a caller-supplied
// Runner, normalizes the output and compares configurations taken
// before and after an RPC, caching them per replay suite so that
// related replays (create, merge, replace, delete, remove) share the
// pre-configs and diffs they are defined against.
package cliverify

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/modelpipe/modelpipe/cliconfig"
)

// Runner executes one CLI command on a device and returns its raw
// output. Transport is the caller's concern.
type Runner interface {
	Exec(cmd string) (string, error)
}

// Session caches normalized pre-configs and diffs keyed by replay
// suite (counter+xpath) across the lifetime of one test run.
type Session struct {
	Log    logrus.FieldLogger
	Runner Runner

	base map[string][]string
	diff map[string][]string
}

func NewSession(log logrus.FieldLogger, r Runner) *Session {
	return &Session{
		Log:    log,
		Runner: r,
		base:   map[string][]string{},
		diff:   map[string][]string{},
	}
}

func (s *Session) log() logrus.FieldLogger {
	if s.Log != nil {
		return s.Log
	}
	return logrus.StandardLogger()
}

// Run executes cmd and, when returns is non-empty, verifies the device
// response contains exactly the expected CLI. Extra and missing lines
// are logged. The boolean is the verification verdict; the error
// covers command execution only.
func (s *Session) Run(cmd, returns string) (bool, error) {
	if cmd == "" {
		return true, nil
	}

	s.log().Debugf("CLI SEND:\n%s", cmd)
	resp, err := s.Runner.Exec(cmd)
	if err != nil {
		s.log().Errorf("CLI command failed:\n%s", cmd)
		return false, errors.Wrap(err, "cli exec")
	}

	result := true
	if returns != "" {
		added, removed := cliconfig.Diffs(
			cliconfig.Normalize(returns),
			cliconfig.Normalize(resp),
		)
		if len(added) > 0 {
			s.log().Errorf("Extra CLI:\n%s", strings.Join(added, "\n"))
			result = false
		}
		if len(removed) > 0 {
			s.log().Errorf("Missing CLI:\n%s", strings.Join(removed, "\n"))
			result = false
		}
	}
	if result {
		s.log().Debug(banner("CLI VERIFICATION SUCCEEDED"))
	} else {
		s.log().Error(banner("CLI VERIFICATION FAILED"))
	}
	return result, nil
}

// BeforeRPC collects the CLI config before an RPC runs.
//
// Create runs first so it needs a fresh pre-config. Merge and replace
// run against the same pre-config as create. Delete needs a fresh
// pre-config because replace changed the base, and remove reuses
// delete's. Replays name their kind as "basic " plus one of create,
// merge, replace, delete or remove.
func (s *Session) BeforeRPC(cmd, counter, xpath, kind string) error {
	index := counter + xpath

	switch replayType(kind) {
	case "create", "delete":
		cfg, err := s.show(cmd)
		if err != nil {
			return err
		}
		s.base[index] = cfg
	case "merge", "remove", "replace":
		if _, ok := s.base[index]; !ok {
			cfg, err := s.show(cmd)
			if err != nil {
				return err
			}
			s.base[index] = cfg
		}
	}
	return nil
}

// AfterRPC collects the CLI config after an RPC runs and returns the
// expected CLI change for the replay, one line per change with removed
// lines "-" prefixed.
//
// Create, replace and delete take a fresh post-config and record the
// diff against the suite's pre-config; merge and remove reuse the
// recorded diff.
func (s *Session) AfterRPC(cmd, counter, xpath, kind string) (string, error) {
	var expect []string
	index := counter + xpath
	rt := replayType(kind)

	switch rt {
	case "create", "replace", "delete":
		post, err := s.show(cmd)
		if err != nil {
			return "", err
		}
		added, removed := cliconfig.Diffs(s.base[index], post)
		s.log().Debugf("%s - %s - %s\nadded: %v\nremoved: %v",
			counter, xpath, rt, added, removed)
		expect = append(added, removed...)
		s.diff[index] = expect
	case "merge", "remove":
		expect = s.diff[index]
	}
	return strings.Join(expect, "\n"), nil
}

func (s *Session) show(cmd string) ([]string, error) {
	if cmd == "" {
		cmd = "show running"
	}
	resp, err := s.Runner.Exec(cmd)
	if err != nil {
		return nil, errors.Wrapf(err, "cli exec %q", cmd)
	}
	return cliconfig.Normalize(resp), nil
}

func replayType(kind string) string {
	if i := strings.Index(kind, "basic "); i >= 0 {
		return kind[i+6:]
	}
	return kind
}

func banner(msg string) string {
	bar := strings.Repeat("-", len(msg)+4)
	return "\n+" + bar + "+\n|  " + msg + "  |\n+" + bar + "+"
}
