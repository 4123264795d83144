// Command projector is the long-running process described in §6: it reads
// ComputeResource (and Network/Interface) events off a durable JetStream
// consumer and drives one projection target — the graph store or DCIM —
// acking explicitly and backing off on transient failure.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"infracore/event"
	"infracore/eventlog/natslog"
	"infracore/internal/projector"
	"infracore/network"
	"infracore/projection"
	"infracore/projection/dcim"
	"infracore/projection/graph"
	"infracore/resource"
)

func main() {
	natsURL := envOr("NATS_URL", nats.DefaultURL)
	family := event.Family(envOr("NATS_FAMILY", string(event.FamilyComputeResource)))
	consumer := requireEnv("NATS_CONSUMER")
	target := requireEnv("PROJECTION_TARGET") // "graph" or "dcim"

	nc, err := nats.Connect(natsURL)
	if err != nil {
		log.Fatalf("projector: connect nats: %v", err)
	}
	defer nc.Close()

	js, err := nc.JetStream()
	if err != nil {
		log.Fatalf("projector: jetstream context: %v", err)
	}

	payloads := event.NewPayloadRegistry()
	resource.RegisterPayloads(payloads)
	network.RegisterPayloads(payloads)
	codec := event.NewCodec(payloads, event.NewUpcasterRegistry())

	projectFn, executor, err := buildTarget(target)
	if err != nil {
		log.Fatalf("projector: %v", err)
	}

	cfg := projector.Config{
		Stream:       natslog.StreamName(family),
		Subject:      natslog.FamilyFilter(family),
		Consumer:     consumer,
		FetchBatch:   envOrInt("FETCH_BATCH", 50),
		FetchTimeout: envOrDuration("FETCH_TIMEOUT", 5*time.Second),
		AckWait:      envOrDuration("ACK_WAIT", 30*time.Second),
		Backoff:      projector.DefaultBackoffPolicy(),
	}

	run := projector.NewRunner(js, cfg, codec, projectFn, executor, func(level, msg string, fields map[string]any) {
		log.Printf("[%s] %s %v", level, msg, fields)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("projector: running target=%s subject=%s consumer=%s", target, cfg.Subject, cfg.Consumer)
	if err := run.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("projector: run: %v", err)
	}
}

func buildTarget(target string) (projection.Func, projection.Executor, error) {
	switch target {
	case "graph":
		db, err := connectMongo(requireEnv("TARGET_URL"), requireEnv("TARGET_DATABASE"))
		if err != nil {
			return nil, nil, err
		}
		return graph.Project, graph.NewExecutor(db, time.Now), nil

	case "dcim":
		client := dcim.NewClient(requireEnv("TARGET_URL"), requireEnv("TARGET_TOKEN"), nil)
		return dcim.Project, dcim.NewExecutor(client, requireEnv("DEFAULT_SCOPE_ID")), nil

	default:
		log.Fatalf("projector: unknown PROJECTION_TARGET %q (want graph or dcim)", target)
		return nil, nil, nil
	}
}

func connectMongo(uri, database string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	return client.Database(database), nil
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("projector: required environment variable %s is not set", key)
	}
	return v
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
