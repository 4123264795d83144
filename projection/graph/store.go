// Package graph projects ComputeResource events into a MongoDB node/edge
// graph: collections "nodes" and "edges", upserted by natural key for
// idempotency, grounded in the teacher's cqrsx Mongo read-store family.
package graph

import (
	"context"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"infracore/projection"
)

// NodeType and EdgeType are the closed vocabularies from §6.
type NodeType string

const (
	NodeComputeResource NodeType = "ComputeResource"
	NodeNetwork         NodeType = "Network"
	NodeInterface       NodeType = "Interface"
	NodeSoftware        NodeType = "Software"
	NodePolicy          NodeType = "Policy"
)

type EdgeType string

const (
	EdgeHasInterface EdgeType = "HAS_INTERFACE"
	EdgeConnectedTo  EdgeType = "CONNECTED_TO"
	EdgeRoutesTo     EdgeType = "ROUTES_TO"
	EdgeRuns         EdgeType = "RUNS"
	EdgeEnforces     EdgeType = "ENFORCES"
	EdgeApplies      EdgeType = "APPLIES"
)

type nodeDocument struct {
	NodeType   NodeType       `bson:"node_type"`
	NaturalKey string         `bson:"natural_key"`
	Attributes map[string]any `bson:"attributes"`
	UpdatedAt  time.Time      `bson:"updated_at"`
}

type edgeDocument struct {
	EdgeType  EdgeType  `bson:"edge_type"`
	FromKey   string    `bson:"from_key"`
	ToKey     string    `bson:"to_key"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Executor upserts graph nodes and edges into MongoDB. Every write is
// idempotent: it is keyed by (node_type, natural_key) or
// (edge_type, from_key, to_key) with upsert:true, so replaying the same
// event twice never creates a duplicate.
type Executor struct {
	nodes *mongo.Collection
	edges *mongo.Collection
	now   func() time.Time
}

func NewExecutor(db *mongo.Database, now func() time.Time) *Executor {
	if now == nil {
		now = time.Now
	}
	return &Executor{
		nodes: db.Collection("nodes"),
		edges: db.Collection("edges"),
		now:   now,
	}
}

// Execute interprets §4.8 effects whose Collection is "nodes" or "edges" as
// graph upserts; any other effect is ignored, since this executor only
// drives one projection target. A batch is attempted in full — one failed
// upsert does not stop the others — and every failure is reported together.
// The batch is not all-or-nothing: effects that succeed stay applied even
// when another effect in the same batch fails.
func (e *Executor) Execute(ctx context.Context, effects []projection.Effect) error {
	var result *multierror.Error
	for _, eff := range effects {
		switch eff.Kind {
		case projection.EffectDatabaseWrite, projection.EffectDatabaseUpdate:
			if err := e.upsert(ctx, eff); err != nil {
				result = multierror.Append(result, err)
			}
		case projection.EffectLog, projection.EffectDatabaseDelete, projection.EffectDatabaseQuery, projection.EffectEmitEvent:
			// graph store has no use for these effect kinds
		}
	}
	return result.ErrorOrNil()
}

func (e *Executor) upsert(ctx context.Context, eff projection.Effect) error {
	switch eff.Kind {
	case projection.EffectDatabaseWrite:
		return e.write(ctx, eff)
	case projection.EffectDatabaseUpdate:
		return e.update(ctx, eff)
	}
	return nil
}

func (e *Executor) write(ctx context.Context, eff projection.Effect) error {
	switch eff.Collection {
	case "nodes":
		nodeType, ok := eff.Data["node_type"].(string)
		if !ok {
			return errors.Errorf("graph: node write effect %q missing node_type", eff.ID)
		}
		return e.upsertNode(ctx, NodeType(nodeType), eff.ID, eff.Data)
	case "edges":
		edgeType, ok := eff.Data["edge_type"].(string)
		if !ok {
			return errors.New("graph: edge write effect missing edge_type")
		}
		fromKey, ok := eff.Data["from_key"].(string)
		if !ok {
			return errors.New("graph: edge write effect missing from_key")
		}
		toKey, ok := eff.Data["to_key"].(string)
		if !ok {
			return errors.New("graph: edge write effect missing to_key")
		}
		return e.upsertEdge(ctx, EdgeType(edgeType), fromKey, toKey)
	}
	return nil
}

// update handles §4.8 DatabaseUpdate effects, which carry their changed
// fields in Updates rather than Data. A StatusChanged or HardwareDetailsSet
// effect updates an existing node by natural key without needing to know or
// restate its node_type.
func (e *Executor) update(ctx context.Context, eff projection.Effect) error {
	switch eff.Collection {
	case "nodes":
		return e.updateNode(ctx, eff.ID, eff.Updates)
	}
	return nil
}

// UpsertNode idempotently creates or updates a node keyed by
// (node_type, natural_key).
func (e *Executor) UpsertNode(ctx context.Context, nodeType NodeType, naturalKey string, attributes map[string]any) error {
	return e.upsertNode(ctx, nodeType, naturalKey, attributes)
}

func (e *Executor) upsertNode(ctx context.Context, nodeType NodeType, naturalKey string, attributes map[string]any) error {
	filter := bson.M{"node_type": nodeType, "natural_key": naturalKey}
	doc := nodeDocument{NodeType: nodeType, NaturalKey: naturalKey, Attributes: attributes, UpdatedAt: e.now()}
	_, err := e.nodes.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

// updateNode patches fields on an existing node by natural key alone,
// leaving node_type untouched. Filter-field equality (natural_key) is
// applied by MongoDB to the new document if an out-of-order replay upserts
// one into existence, so this stays safe even without node_type on hand.
func (e *Executor) updateNode(ctx context.Context, naturalKey string, updates map[string]any) error {
	filter := bson.M{"natural_key": naturalKey}
	set := bson.M{"updated_at": e.now()}
	for k, v := range updates {
		set[k] = v
	}
	_, err := e.nodes.UpdateOne(ctx, filter, bson.M{"$set": set}, options.Update().SetUpsert(true))
	return err
}

// UpsertEdge idempotently creates an edge keyed by
// (edge_type, from_key, to_key).
func (e *Executor) UpsertEdge(ctx context.Context, edgeType EdgeType, fromKey, toKey string) error {
	return e.upsertEdge(ctx, edgeType, fromKey, toKey)
}

func (e *Executor) upsertEdge(ctx context.Context, edgeType EdgeType, fromKey, toKey string) error {
	filter := bson.M{"edge_type": edgeType, "from_key": fromKey, "to_key": toKey}
	doc := edgeDocument{EdgeType: edgeType, FromKey: fromKey, ToKey: toKey, UpdatedAt: e.now()}
	_, err := e.edges.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

var _ projection.Executor = (*Executor)(nil)
