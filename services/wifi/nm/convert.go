package nm

import (
	"net"

	"wifiwake-go/types"
)

// NetworkManager device types and active-connection states used here.
const (
	deviceTypeWiFi = 2

	activating   = 1
	activated    = 2
	deactivating = 3
	deactivated  = 4
)

// Device state reasons that map onto a specific connection status.
const (
	reasonNoSecrets      = 7
	reasonSupplicantFail = 9
	reasonConfigFailed   = 10
	reasonSSIDNotFound   = 53
)

// StrengthToDBm converts NetworkManager's 0..100 quality into an
// approximate RSSI: 100% is -50 dBm, 0% is -100 dBm.
func StrengthToDBm(strength uint8) int {
	if strength > 100 {
		strength = 100
	}
	return int(strength)/2 - 100
}

// Bars maps quality onto the 0..4 bars scale.
func Bars(strength uint8) uint8 {
	switch {
	case strength >= 80:
		return 4
	case strength >= 55:
		return 3
	case strength >= 30:
		return 2
	case strength >= 5:
		return 1
	default:
		return 0
	}
}

// StatusFromReason maps a device state reason after a failed activation.
func StatusFromReason(reason uint32) types.ConnectionStatus {
	switch reason {
	case reasonNoSecrets, reasonSupplicantFail:
		return types.StatusInvalidCredential
	case reasonSSIDNotFound:
		return types.StatusNetworkNotAvailable
	case reasonConfigFailed:
		return types.StatusUnsupportedAuthenticationProtocol
	default:
		return types.StatusUnspecifiedFailure
	}
}

// candidate builds a report entry from raw access point properties.
func candidate(ssid []byte, hw string, strength uint8) types.NetworkCandidate {
	return types.NetworkCandidate{
		SSID:       string(ssid),
		BSSID:      hw,
		RSSI:       StrengthToDBm(strength),
		SignalBars: Bars(strength),
	}
}

// settings is the connection profile for AddAndActivateConnection.
func settings(c types.NetworkCandidate, kind types.ReconnectionKind, credential string) map[string]map[string]any {
	s := map[string]map[string]any{
		"connection": {
			"type":        "802-11-wireless",
			"id":          c.SSID,
			"autoconnect": kind == types.ReconnectAutomatic,
		},
		"802-11-wireless": {
			"ssid": []byte(c.SSID),
			"mode": "infrastructure",
		},
	}
	// Pin the access point the selector chose; without it NetworkManager
	// joins whichever BSSID it prefers for the SSID.
	if mac, err := net.ParseMAC(c.BSSID); err == nil && len(mac) == 6 {
		s["802-11-wireless"]["bssid"] = []byte(mac)
	}
	if credential != "" {
		s["802-11-wireless-security"] = map[string]any{
			"key-mgmt": "wpa-psk",
			"psk":      credential,
		}
	}
	return s
}
