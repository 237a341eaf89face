package pipeline

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/modelpipe/modelpipe/capability"
	"github.com/modelpipe/modelpipe/rpcerror"
	"github.com/modelpipe/modelpipe/rpcverify"
)

// Device sends NETCONF rpcs built from model content. Transport and
// message construction are the implementation's concern.
type Device interface {
	Capabilities() []string
	SendRPC(data rpcverify.RPCData) (string, error)
}

// RunNetconf resolves the action's model content, sends it to the
// device and verifies the reply. An edit-config is followed up with a
// get-config of the running datastore checked against the edited
// nodes; a get is checked against the action's operational fields.
func RunNetconf(log logrus.FieldLogger, action Action, data map[string]any, dev Device) bool {
	if dev == nil {
		log.Error("No NETCONF device to run against")
		return false
	}
	verifier := &rpcverify.Verifier{
		Log:  log,
		Caps: capability.Parse(dev.Capabilities()),
	}

	content := ContentData(action, data)
	if content == nil {
		log.Error("NETCONF message data index not present")
		return false
	}
	var rpcData rpcverify.RPCData
	if err := decodeAs(content, &rpcData); err != nil {
		log.Errorf("NETCONF message data invalid: %v", err)
		return false
	}
	rpcData.Datastore = pickDatastore(log, action, verifier.Caps)
	rpcData.Operation = action.Operation

	reply, err := dev.SendRPC(rpcData)
	if err != nil {
		log.Errorf("NETCONF send failed: %v", err)
		return false
	}
	if reply == "" {
		log.Error(banner("NETCONF rpc-reply NOT RECEIVED"))
		return false
	}
	if rpcErrs, derr := rpcerror.Decode(reply); derr == nil && len(rpcErrs) > 0 {
		for _, e := range rpcErrs {
			log.Errorf("ERROR MESSAGE - %s", e.Error())
		}
		log.Error(banner("NETCONF MESSAGE ERRORED"))
		return false
	}

	switch rpcData.Operation {
	case "edit-config":
		rpcData.Operation = "get-config"
		rpcData.Datastore = "running"
		reply, err = dev.SendRPC(rpcData)
		if err != nil {
			log.Errorf("NETCONF send failed: %v", err)
			return false
		}
		entries, err := verifier.ProcessReply(reply)
		if err != nil {
			return false
		}
		return verifier.VerifyRPCDataReply(entries, rpcData)
	case "get":
		var fields []rpcverify.OpField
		if returns := ReturnsData(action, data); returns != nil {
			if err := decodeAs(returns, &fields); err != nil {
				log.Errorf("NETCONF returns data invalid: %v", err)
				return false
			}
		}
		if len(fields) == 0 {
			log.Error(banner("No NETCONF data to compare rpc-reply to."))
			return false
		}
		entries, err := verifier.ProcessReply(reply)
		if err != nil {
			return false
		}
		return verifier.ProcessOperationalState(entries, fields)
	}

	return true
}

// pickDatastore prefers the action's explicit datastore, then the
// first writable datastore the device advertises, then "running".
func pickDatastore(log logrus.FieldLogger, action Action, caps capability.Set) string {
	if action.Datastore != "" {
		return action.Datastore
	}
	stores := caps.Datastores()
	switch {
	case len(stores) > 1:
		log.Infof("Choosing %s datastore", stores[0])
		return stores[0]
	case len(stores) == 1:
		log.Infof("Default datastore: %s", stores[0])
		return stores[0]
	}
	log.Warn(`No datastore in device capabilities; using "running"`)
	return "running"
}

// decodeAs converts a resolved data value into a typed structure
// through a YAML round trip.
func decodeAs(v, out any) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encode data value")
	}
	return errors.Wrap(yaml.Unmarshal(b, out), "decode data value")
}
