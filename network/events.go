// Package network declares the event payloads referenced by the DCIM
// projection's field mapping for the Network and Interface aggregate
// families. Those families are reserved by the event envelope (see
// event.FamilyNetwork) but their full aggregates — state, lifecycle,
// command handlers — are out of scope; only the shapes the projection
// needs to translate are defined here.
package network

import "infracore/event"

// NetworkDefined records that an IP prefix has been carved out and
// associated with a site.
type NetworkDefined struct {
	CIDR        string
	Site        string
	Description string
}

func (NetworkDefined) EventType() string      { return "NetworkDefined" }
func (NetworkDefined) CurrentVersion() uint32 { return 1 }

// InterfaceAdded records a network interface attached to a device.
type InterfaceAdded struct {
	Device      string
	Name        string
	Type        string
	MACAddress  string
	MTU         int
	Description string
}

func (InterfaceAdded) EventType() string      { return "InterfaceAdded" }
func (InterfaceAdded) CurrentVersion() uint32 { return 1 }

// IPAssigned records an IP address bound to an interface, or left
// unbound when AssignedInterface is empty.
type IPAssigned struct {
	Address           string
	Status            string
	AssignedInterface string
	Description       string
}

func (IPAssigned) EventType() string      { return "IPAssigned" }
func (IPAssigned) CurrentVersion() uint32 { return 1 }

// RegisterPayloads registers this package's payload types with a codec's
// registry so events of these types can be decoded off the log.
func RegisterPayloads(reg *event.PayloadRegistry) {
	reg.Register(NetworkDefined{})
	reg.Register(InterfaceAdded{})
	reg.Register(IPAssigned{})
}
