package wifi

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifiwake-go/types"
)

const target = "MYSSID"

func TestSelectScenario(t *testing.T) {
	r := report(net("Other", -50), net(target, -60), net(target, -40), net(target, -70))
	sel := Select(r, target, 5)

	require.Len(t, sel.Retained, 3)
	assert.Equal(t, []int{-60, -40, -70}, rssis(sel.Retained))
	assert.Equal(t, 1, sel.Best)
	got, ok := sel.Selected()
	require.True(t, ok)
	assert.Equal(t, -40, got.RSSI)
}

func TestSelectCapBeforeCompare(t *testing.T) {
	r := report(net(target, -60), net(target, -50), net(target, -10))
	sel := Select(r, target, 2)

	assert.Equal(t, []int{-60, -50}, rssis(sel.Retained))
	assert.Equal(t, 1, sel.Best)
}

func TestSelectTieKeepsEarliest(t *testing.T) {
	r := report(net(target, -55), net(target, -55))
	r.Networks[1].BSSID = "second"
	sel := Select(r, target, 5)
	assert.Equal(t, 0, sel.Best)
}

func TestSelectNoMatch(t *testing.T) {
	for _, r := range []types.NetworkReport{{}, report(net("Other", -30))} {
		sel := Select(r, target, 5)
		assert.Empty(t, sel.Retained)
		assert.Equal(t, NoCandidate, sel.Best)
		_, ok := sel.Selected()
		assert.False(t, ok)
	}
}

func TestSelectZeroCapacity(t *testing.T) {
	sel := Select(report(net(target, -30)), target, 0)
	assert.Empty(t, sel.Retained)
	assert.Equal(t, NoCandidate, sel.Best)
}

func TestSelectDoesNotMutateInput(t *testing.T) {
	r := report(net(target, -60), net("Other", -20))
	before := append([]types.NetworkCandidate(nil), r.Networks...)
	Select(r, target, 1)
	assert.Equal(t, before, r.Networks)
}

func TestSelectProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ssids := []string{target, "Other", "Guest"}
	for iter := 0; iter < 500; iter++ {
		var r types.NetworkReport
		for i := rng.Intn(20); i > 0; i-- {
			r.Networks = append(r.Networks, net(ssids[rng.Intn(len(ssids))], -30-rng.Intn(60)))
		}
		capacity := rng.Intn(7)
		sel := Select(r, target, capacity)

		assert.LessOrEqual(t, len(sel.Retained), capacity)
		for _, n := range sel.Retained {
			assert.Equal(t, target, n.SSID)
		}
		if len(sel.Retained) == 0 {
			assert.Equal(t, NoCandidate, sel.Best)
			continue
		}
		best := sel.Retained[sel.Best].RSSI
		for i, n := range sel.Retained {
			assert.LessOrEqual(t, n.RSSI, best)
			if i < sel.Best {
				assert.Less(t, n.RSSI, best, "earlier equal reading must win")
			}
		}
	}
}

func rssis(ns []types.NetworkCandidate) []int {
	out := make([]int, len(ns))
	for i, n := range ns {
		out[i] = n.RSSI
	}
	return out
}
