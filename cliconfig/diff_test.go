package cliconfig

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestDiffsSelf(t *testing.T) {
	base := []string{"hostname csr1", "router bgp 65001", "router bgp 65001"}
	added, removed := Diffs(base, base)
	assert.Empty(t, added)
	assert.Empty(t, removed)
}

func TestDiffsAddedRemoved(t *testing.T) {
	base := []string{"hostname csr1", "ip routing"}
	after := []string{"hostname csr1", "ip name-server 8.8.8.8"}

	added, removed := Diffs(base, after)
	assert.Equal(t, []string{"ip name-server 8.8.8.8"}, added)
	assert.Equal(t, []string{"-ip routing"}, removed)
}

// Swapping arguments yields mirror-image results for lists without
// repeated lines.
func TestDiffsMirror(t *testing.T) {
	base := []string{"a", "b", "c"}
	after := []string{"b", "d"}

	added, removed := Diffs(base, after)
	radded, rremoved := Diffs(after, base)

	var stripped []string
	for _, line := range rremoved {
		stripped = append(stripped, strings.TrimPrefix(line, "-"))
	}
	if diff := cmp.Diff(added, stripped); diff != "" {
		t.Errorf("added != mirror removed (-added +mirror):\n%s", diff)
	}

	stripped = nil
	for _, line := range removed {
		stripped = append(stripped, strings.TrimPrefix(line, "-"))
	}
	if diff := cmp.Diff(radded, stripped); diff != "" {
		t.Errorf("mirror added != removed (-mirror +removed):\n%s", diff)
	}
}

func TestDiffsRepetitionAdded(t *testing.T) {
	base := []string{
		"interface GigabitEthernet1/0/1",
		"switchport trunk allowed vlan 10",
	}
	after := []string{
		"interface GigabitEthernet1/0/1",
		"switchport trunk allowed vlan 10",
		"interface GigabitEthernet1/0/2",
		"switchport trunk allowed vlan 10",
	}

	added, removed := Diffs(base, after)
	assert.Empty(t, removed)
	// the extra occurrence is reported with its new preceding line;
	// the occurrence whose context is unchanged is not reported
	assert.Equal(t, []string{
		"interface GigabitEthernet1/0/2",
		"interface GigabitEthernet1/0/2\nswitchport trunk allowed vlan 10",
	}, added)
}

func TestDiffsRepetitionRemoved(t *testing.T) {
	base := []string{
		"vlan 10",
		"name users",
		"vlan 20",
		"name users",
	}
	after := []string{
		"vlan 10",
		"name users",
	}

	added, removed := Diffs(base, after)
	assert.Empty(t, added)
	assert.Equal(t, []string{
		"-vlan 20",
		"vlan 20\n-name users",
	}, removed)
}
