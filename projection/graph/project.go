package graph

import (
	"infracore/event"
	"infracore/projection"
	"infracore/resource"
)

// Project is the pure §4.8 projection function that turns ComputeResource
// events into graph-store effects. State carries nothing beyond what each
// event already provides — the graph store is the source of truth for
// derived relationships, not this projection.
func Project(state projection.State, env event.Envelope) (projection.State, []projection.Effect) {
	switch e := env.Payload.(type) {
	case resource.ResourceRegistered:
		eff := projection.DatabaseWrite("nodes", map[string]any{
			"node_type":     string(NodeComputeResource),
			"hostname":      string(e.Hostname),
			"resource_type": string(e.ResourceType),
		})
		eff.ID = env.AggregateID.String()
		return state, []projection.Effect{eff}
	case resource.PolicyAdded:
		return state, []projection.Effect{projection.DatabaseWrite("edges", map[string]any{
			"edge_type": string(EdgeEnforces),
			"from_key":  e.PolicyID,
			"to_key":    env.AggregateID.String(),
		})}
	case resource.HardwareDetailsSet:
		return state, []projection.Effect{projection.DatabaseUpdate("nodes", env.AggregateID.String(), map[string]any{
			"manufacturer": e.Manufacturer,
			"model":        e.Model,
		})}
	case resource.StatusChanged:
		return state, []projection.Effect{
			projection.DatabaseUpdate("nodes", env.AggregateID.String(), map[string]any{"status": string(e.ToStatus)}),
			projection.LogEffect("info", "status changed"),
		}
	default:
		return state, nil
	}
}
