package dcim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"infracore/event"
	"infracore/network"
	"infracore/projection"
	"infracore/resource"
)

func envFor(payload event.Payload) event.Envelope {
	ids := event.NewIDSource()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	aggregateID := ids.New(at)
	return event.New(event.FamilyComputeResource, aggregateID, ids.New(at), at, event.NewCorrelationID(), event.CausationID{}, payload)
}

func TestProject_ResourceRegistered_WritesDevice(t *testing.T) {
	env := envFor(resource.ResourceRegistered{Hostname: "db-01.example.com", ResourceType: resource.TypePhysicalServer})

	_, effects := Project(nil, env)

	assert.Len(t, effects, 1)
	eff := effects[0]
	assert.Equal(t, projection.EffectDatabaseWrite, eff.Kind)
	assert.Equal(t, "devices", eff.Collection)
	assert.Equal(t, "db-01.example.com", eff.Data["name"])
	assert.Equal(t, env.AggregateID.String(), eff.ID)
	customFields, ok := eff.Data["custom_fields"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, env.AggregateID.String(), customFields["cim_aggregate_id"])
}

func TestProject_NetworkDefined_WritesPrefixKeyedByCIDR(t *testing.T) {
	env := envFor(network.NetworkDefined{CIDR: "10.0.0.0/24", Site: "dc1"})

	_, effects := Project(nil, env)

	assert.Len(t, effects, 1)
	assert.Equal(t, "prefixes", effects[0].Collection)
	assert.Equal(t, "10.0.0.0/24", effects[0].ID)
}

func TestProject_InterfaceAdded_KeyedByDeviceAndName(t *testing.T) {
	env := envFor(network.InterfaceAdded{Device: "db-01", Name: "eth0", Type: "1000base-t"})

	_, effects := Project(nil, env)

	assert.Len(t, effects, 1)
	assert.Equal(t, "interfaces", effects[0].Collection)
	assert.Equal(t, "db-01/eth0", effects[0].ID)
	assert.Equal(t, true, effects[0].Data["enabled"])
}

func TestProject_IPAssigned_OmitsAssignmentWhenUnbound(t *testing.T) {
	env := envFor(network.IPAssigned{Address: "10.0.0.5/32", Status: "active"})

	_, effects := Project(nil, env)

	assert.Len(t, effects, 1)
	_, hasAssignment := effects[0].Data["assigned_object_type"]
	assert.False(t, hasAssignment)
}

func TestProject_IPAssigned_IncludesAssignmentWhenBound(t *testing.T) {
	env := envFor(network.IPAssigned{Address: "10.0.0.5/32", Status: "active", AssignedInterface: "eth0"})

	_, effects := Project(nil, env)

	assert.Equal(t, "dcim.interface", effects[0].Data["assigned_object_type"])
	assert.Equal(t, "eth0", effects[0].Data["assigned_interface"])
}

func TestProject_UnrecognizedPayload_ProducesNoEffects(t *testing.T) {
	env := envFor(resource.AccountConceptCleared{})

	_, effects := Project(nil, env)

	assert.Empty(t, effects)
}
