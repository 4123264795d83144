package resource

import "strings"

// ResourceType is the closed taxonomy of infrastructure roles a
// ComputeResource can hold.
type ResourceType string

const (
	TypePhysicalServer      ResourceType = "physical_server"
	TypeVM                  ResourceType = "vm"
	TypeContainerHost       ResourceType = "container_host"
	TypeHypervisor          ResourceType = "hypervisor"
	TypeRouter              ResourceType = "router"
	TypeSwitch              ResourceType = "switch"
	TypeL3Switch            ResourceType = "l3_switch"
	TypeAccessPoint         ResourceType = "access_point"
	TypeLoadBalancer        ResourceType = "load_balancer"
	TypeFirewall            ResourceType = "firewall"
	TypeIDSIPS              ResourceType = "ids_ips"
	TypeVPNGateway          ResourceType = "vpn_gateway"
	TypeWAF                 ResourceType = "waf"
	TypeNAS                 ResourceType = "nas"
	TypeSANSwitch           ResourceType = "san_switch"
	TypeStorageArray        ResourceType = "storage_array"
	TypeEdgeDevice          ResourceType = "edge_device"
	TypeIoTGateway          ResourceType = "iot_gateway"
	TypeSensor              ResourceType = "sensor"
	TypePDU                 ResourceType = "pdu"
	TypeUPS                 ResourceType = "ups"
	TypeEnvironmentalMonitor ResourceType = "environmental_monitor"
	TypePBX                 ResourceType = "pbx"
	TypeVideoConference     ResourceType = "video_conference"
	TypeAppliance           ResourceType = "appliance"
	TypeBackupAppliance     ResourceType = "backup_appliance"
	TypeMonitoringAppliance ResourceType = "monitoring_appliance"
	TypeAuthServer          ResourceType = "auth_server"
	TypeOther               ResourceType = "other"
	TypeUnknown             ResourceType = "unknown"
)

// aliases maps common spellings onto the canonical form.
var aliases = map[string]ResourceType{
	"physical server":    TypePhysicalServer,
	"physical-server":    TypePhysicalServer,
	"server":             TypePhysicalServer,
	"bare metal":         TypePhysicalServer,
	"virtual machine":    TypeVM,
	"vm":                 TypeVM,
	"container host":     TypeContainerHost,
	"container-host":     TypeContainerHost,
	"hypervisor":         TypeHypervisor,
	"router":             TypeRouter,
	"switch":             TypeSwitch,
	"l3 switch":          TypeL3Switch,
	"l3-switch":          TypeL3Switch,
	"layer 3 switch":     TypeL3Switch,
	"access point":       TypeAccessPoint,
	"ap":                 TypeAccessPoint,
	"load balancer":      TypeLoadBalancer,
	"lb":                 TypeLoadBalancer,
	"firewall":           TypeFirewall,
	"ids":                TypeIDSIPS,
	"ips":                TypeIDSIPS,
	"ids/ips":            TypeIDSIPS,
	"vpn gateway":        TypeVPNGateway,
	"vpn":                TypeVPNGateway,
	"waf":                TypeWAF,
	"nas":                TypeNAS,
	"san switch":         TypeSANSwitch,
	"storage array":      TypeStorageArray,
	"edge device":        TypeEdgeDevice,
	"iot gateway":        TypeIoTGateway,
	"sensor":             TypeSensor,
	"pdu":                TypePDU,
	"ups":                TypeUPS,
	"environmental monitor": TypeEnvironmentalMonitor,
	"pbx":                TypePBX,
	"video conference":   TypeVideoConference,
	"vtc":                TypeVideoConference,
	"appliance":          TypeAppliance,
	"backup appliance":   TypeBackupAppliance,
	"monitoring appliance": TypeMonitoringAppliance,
	"auth server":        TypeAuthServer,
	"other":              TypeOther,
	"unknown":            TypeUnknown,
}

// canonical is the set of values already in canonical form, for fast
// acceptance without touching the alias table.
var canonical = func() map[ResourceType]bool {
	m := make(map[ResourceType]bool)
	for _, v := range aliases {
		m[v] = true
	}
	return m
}()

// ParseResourceType resolves s (case-insensitively, tolerating the alias
// spellings above) to its canonical ResourceType.
func ParseResourceType(s string) (ResourceType, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	if t, ok := aliases[lower]; ok {
		return t, nil
	}
	if t := ResourceType(lower); canonical[t] {
		return t, nil
	}
	return "", invalidValue("resource_type", "unrecognized resource type: "+s)
}
