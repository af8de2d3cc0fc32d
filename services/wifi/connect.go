package wifi

import "wifiwake-go/types"

// Connect disconnects once, then, when sel has a candidate, makes a single
// automatic-reconnect attempt with credential. The disconnect result is
// ignored. It reports whether the attempt ended in StatusSuccess.
func Connect(c Connector, sel Selection, credential string) bool {
	_ = c.Disconnect()
	n, ok := sel.Selected()
	if !ok {
		return false
	}
	res, err := c.Connect(n, types.ReconnectAutomatic, credential)
	if err != nil {
		return false
	}
	return res.Status == types.StatusSuccess
}
