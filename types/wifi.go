package types

// ------------------------
// Scan results
// ------------------------

// NetworkCandidate is one network as reported by a single scan.
type NetworkCandidate struct {
	SSID       string `json:"ssid" yaml:"ssid"`
	BSSID      string `json:"bssid" yaml:"bssid"`
	RSSI       int    `json:"rssi" yaml:"rssi"`               // dBm, higher is stronger
	SignalBars uint8  `json:"signal_bars" yaml:"signal_bars"` // 0..4
}

// NetworkReport is the ordered list delivered by the adapter for one scan.
type NetworkReport struct {
	Networks []NetworkCandidate `json:"networks" yaml:"networks"`
}

// ------------------------
// Connection
// ------------------------

// ReconnectionKind tells the adapter whether to rejoin on its own after a drop.
type ReconnectionKind uint8

const (
	ReconnectAutomatic ReconnectionKind = iota
	ReconnectManual
)

func (k ReconnectionKind) String() string {
	if k == ReconnectManual {
		return "manual"
	}
	return "automatic"
}

// ConnectionStatus is the adapter's verdict on one connect attempt.
type ConnectionStatus uint8

const (
	StatusUnspecifiedFailure ConnectionStatus = iota
	StatusSuccess
	StatusAccessRevoked
	StatusInvalidCredential
	StatusNetworkNotAvailable
	StatusTimeout
	StatusUnsupportedAuthenticationProtocol
)

var statusNames = [...]string{
	StatusUnspecifiedFailure:                "unspecified_failure",
	StatusSuccess:                           "success",
	StatusAccessRevoked:                     "access_revoked",
	StatusInvalidCredential:                 "invalid_credential",
	StatusNetworkNotAvailable:               "network_not_available",
	StatusTimeout:                           "timeout",
	StatusUnsupportedAuthenticationProtocol: "unsupported_authentication_protocol",
}

func (s ConnectionStatus) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return statusNames[StatusUnspecifiedFailure]
}

type ConnectionResult struct {
	Status ConnectionStatus `json:"status"`
}

// ParseConnectionStatus maps a status name back to its value.
func ParseConnectionStatus(s string) (ConnectionStatus, bool) {
	for i, n := range statusNames {
		if n == s {
			return ConnectionStatus(i), true
		}
	}
	return StatusUnspecifiedFailure, false
}

func (s ConnectionStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *ConnectionStatus) UnmarshalText(b []byte) error {
	v, ok := ParseConnectionStatus(string(b))
	if !ok {
		return errUnknownStatus(string(b))
	}
	*s = v
	return nil
}

type errUnknownStatus string

func (e errUnknownStatus) Error() string { return "unknown connection status " + string(e) }
