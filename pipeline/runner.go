package pipeline

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/modelpipe/modelpipe/cliverify"
)

// Runner executes specification actions against its configured
// endpoints. Device handles NETCONF actions, CLI handles cli actions;
// either may be nil, in which case the matching actions log and pass.
type Runner struct {
	Log    logrus.FieldLogger
	Device Device
	CLI    *cliverify.Session
}

func (r *Runner) log() logrus.FieldLogger {
	if r.Log != nil {
		return r.Log
	}
	return logrus.StandardLogger()
}

// RunAll runs every action of a specification in order and reports
// whether all of them passed. A failing action does not stop the run.
func (r *Runner) RunAll(spec *Spec) bool {
	result := true
	for _, action := range spec.Actions {
		if !r.Run(action, spec.Data) {
			result = false
		}
	}
	return result
}

// Run dispatches one action. Unknown action names fall through to the
// logged empty handler, which passes.
func (r *Runner) Run(action Action, data map[string]any) bool {
	if action.Banner != "" {
		r.log().Info(banner(action.Banner))
	}
	if action.Log != "" {
		r.log().Debug(action.Log)
	}

	switch KindOf(action.Name) {
	case Cli:
		return r.runCli(action, data)
	case Yang:
		return r.runYang(action, data)
	case Sleep:
		return r.runSleep(action)
	case Repeat:
		r.log().Infof("repeat action: %+v", action)
		return true
	case Timestamp:
		r.log().Infof("timestamp %s", time.Now().Format(time.RFC3339))
		return true
	default:
		name := action.Name
		if name == "" {
			name = "missing"
		}
		r.log().Errorf("NOT IMPLEMENTED: %s", name)
		return true
	}
}

func (r *Runner) runCli(action Action, data map[string]any) bool {
	if r.CLI == nil {
		r.log().Infof("cli action: %+v", action)
		return true
	}
	cmd, _ := ContentData(action, data).(string)
	returns, _ := ReturnsData(action, data).(string)
	ok, err := r.CLI.Run(cmd, returns)
	if err != nil {
		r.log().Errorf("cli action failed: %v", err)
		return false
	}
	return ok
}

func (r *Runner) runYang(action Action, data map[string]any) bool {
	if action.Protocol == "netconf" {
		return RunNetconf(r.log(), action, data, r.Device)
	}
	return true
}

func (r *Runner) runSleep(action Action) bool {
	r.log().Infof("sleeping %d seconds", action.Sleep)
	if action.Sleep > 0 {
		time.Sleep(time.Duration(action.Sleep) * time.Second)
	}
	return true
}

func banner(msg string) string {
	bar := strings.Repeat("-", len(msg)+4)
	return "\n+" + bar + "+\n|  " + msg + "  |\n+" + bar + "+"
}
