package wifi

import "wifiwake-go/types"

// NoCandidate is the Best index of a selection with no match.
const NoCandidate = -1

// Selection is the bounded set of networks advertising the target SSID and
// the index of the strongest one.
type Selection struct {
	Retained []types.NetworkCandidate
	Best     int
}

// Selected returns the chosen network, if any.
func (s Selection) Selected() (types.NetworkCandidate, bool) {
	if s.Best < 0 || s.Best >= len(s.Retained) {
		return types.NetworkCandidate{}, false
	}
	return s.Retained[s.Best], true
}

// Select keeps, in report order, at most capacity networks whose SSID is
// target, and picks the one with the highest RSSI. Matches past capacity
// are dropped without being compared. On equal RSSI the earlier one wins.
func Select(report types.NetworkReport, target string, capacity int) Selection {
	sel := Selection{Best: NoCandidate}
	if capacity <= 0 {
		return sel
	}
	sel.Retained = make([]types.NetworkCandidate, 0, capacity)
	for _, n := range report.Networks {
		if n.SSID != target || len(sel.Retained) >= capacity {
			continue
		}
		sel.Retained = append(sel.Retained, n)
		i := len(sel.Retained) - 1
		if sel.Best == NoCandidate || n.RSSI > sel.Retained[sel.Best].RSSI {
			sel.Best = i
		}
	}
	return sel
}
