package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"infracore/event"
	"infracore/projection"
	"infracore/resource"
)

func envFor(payload event.Payload) event.Envelope {
	ids := event.NewIDSource()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	aggregateID := ids.New(at)
	return event.New(event.FamilyComputeResource, aggregateID, ids.New(at), at, event.NewCorrelationID(), event.CausationID{}, payload)
}

func TestProject_ResourceRegistered_WritesNode(t *testing.T) {
	env := envFor(resource.ResourceRegistered{Hostname: "db-01.example.com", ResourceType: resource.TypePhysicalServer})

	_, effects := Project(nil, env)

	assert.Len(t, effects, 1)
	eff := effects[0]
	assert.Equal(t, projection.EffectDatabaseWrite, eff.Kind)
	assert.Equal(t, "nodes", eff.Collection)
	assert.Equal(t, env.AggregateID.String(), eff.ID)
	assert.Equal(t, string(NodeComputeResource), eff.Data["node_type"])
	assert.Equal(t, "db-01.example.com", eff.Data["hostname"])
}

func TestProject_PolicyAdded_WritesEnforcesEdge(t *testing.T) {
	env := envFor(resource.PolicyAdded{PolicyID: "policy-1"})

	_, effects := Project(nil, env)

	assert.Len(t, effects, 1)
	eff := effects[0]
	assert.Equal(t, "edges", eff.Collection)
	assert.Equal(t, string(EdgeEnforces), eff.Data["edge_type"])
	assert.Equal(t, "policy-1", eff.Data["from_key"])
	assert.Equal(t, env.AggregateID.String(), eff.Data["to_key"])
}

func TestProject_UnrecognizedPayload_ProducesNoEffects(t *testing.T) {
	env := envFor(resource.AccountConceptCleared{})

	_, effects := Project(nil, env)

	assert.Empty(t, effects)
}

func TestProject_Deterministic(t *testing.T) {
	env := envFor(resource.HardwareDetailsSet{Manufacturer: "Dell", Model: "R740", SerialNumber: "abc123"})

	_, e1 := Project(nil, env)
	_, e2 := Project(nil, env)

	assert.Equal(t, e1, e2)
}
