// Package wifi holds the scan worker, network selection and the connect
// step, independent of the adapter implementation.
package wifi

import "wifiwake-go/types"

// NetworksChanged is invoked by the adapter, on its own goroutine, when a
// scan has produced a report.
type NetworksChanged func(a Adapter, report types.NetworkReport)

// Connector is the part of an adapter the connect step needs.
type Connector interface {
	Disconnect() error
	Connect(c types.NetworkCandidate, kind types.ReconnectionKind, credential string) (types.ConnectionResult, error)
}

// Adapter is one wireless interface. ScanAsync must not block on the scan
// itself; results arrive through the registered NetworksChanged handler.
type Adapter interface {
	Connector
	ScanAsync() error
	OnNetworksChanged(fn NetworksChanged)
	Close() error
}

// Finder enumerates the wireless adapters present.
type Finder interface {
	FindAllAdapters() ([]Adapter, error)
}

// FinderFunc adapts a function to Finder.
type FinderFunc func() ([]Adapter, error)

func (f FinderFunc) FindAllAdapters() ([]Adapter, error) { return f() }
