package dcim

import (
	"infracore/event"
	"infracore/network"
	"infracore/projection"
	"infracore/resource"
)

// Project is the pure §6 DCIM field-mapping function. It only describes
// effects as data; Executor performs the actual HTTP calls.
func Project(state projection.State, env event.Envelope) (projection.State, []projection.Effect) {
	switch e := env.Payload.(type) {
	case resource.ResourceRegistered:
		eff := projection.DatabaseWrite("devices", map[string]any{
			"name":        string(e.Hostname),
			"device_role": string(e.ResourceType),
			"status":      "active",
			"custom_fields": map[string]any{
				"cim_aggregate_id": env.AggregateID.String(),
			},
		})
		eff.ID = env.AggregateID.String()
		return state, []projection.Effect{eff}

	case resource.HardwareDetailsSet:
		eff := projection.DatabaseUpdate("devices", env.AggregateID.String(), map[string]any{
			"manufacturer": e.Manufacturer,
			"model":        e.Model,
		})
		return state, []projection.Effect{eff}

	case network.NetworkDefined:
		eff := projection.DatabaseWrite("prefixes", map[string]any{
			"prefix":      e.CIDR,
			"site":        e.Site,
			"status":      "active",
			"description": e.Description,
		})
		eff.ID = e.CIDR
		return state, []projection.Effect{eff}

	case network.InterfaceAdded:
		eff := projection.DatabaseWrite("interfaces", map[string]any{
			"device":      e.Device,
			"name":        e.Name,
			"type":        e.Type,
			"enabled":     true,
			"mac_address": e.MACAddress,
			"mtu":         e.MTU,
			"description": e.Description,
		})
		eff.ID = e.Device + "/" + e.Name
		return state, []projection.Effect{eff}

	case network.IPAssigned:
		data := map[string]any{
			"address":     e.Address,
			"status":      e.Status,
			"description": e.Description,
		}
		if e.AssignedInterface != "" {
			data["assigned_object_type"] = "dcim.interface"
			data["assigned_interface"] = e.AssignedInterface
		}
		eff := projection.DatabaseWrite("ip-addresses", data)
		eff.ID = e.Address
		return state, []projection.Effect{eff}

	default:
		return state, nil
	}
}
