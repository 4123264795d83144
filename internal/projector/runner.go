package projector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"infracore/event"
	"infracore/projection"
)

// Retryabler is implemented by target-specific errors (such as
// dcim.APIError) that know whether retrying the same effect could ever
// succeed. Errors that don't implement it are treated as retryable until
// the backoff policy's attempt budget is exhausted.
type Retryabler interface {
	Retryable() bool
}

// Config configures a Runner's JetStream binding and batching behaviour.
type Config struct {
	Stream       string
	Subject      string
	Consumer     string // durable consumer name
	FetchBatch   int
	FetchTimeout time.Duration
	AckWait      time.Duration
	Backoff      BackoffPolicy
}

func (c Config) withDefaults() Config {
	if c.FetchBatch <= 0 {
		c.FetchBatch = 50
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 5 * time.Second
	}
	if c.AckWait <= 0 {
		c.AckWait = 30 * time.Second
	}
	if c.Backoff == (BackoffPolicy{}) {
		c.Backoff = DefaultBackoffPolicy()
	}
	return c
}

// Runner binds a durable pull consumer to a projection + executor pair.
type Runner struct {
	cfg       Config
	js        nats.JetStreamContext
	codec     *event.Codec
	projectFn projection.Func
	executor  projection.Executor
	log       func(level, msg string, fields map[string]any)
}

func NewRunner(js nats.JetStreamContext, cfg Config, codec *event.Codec, projectFn projection.Func, executor projection.Executor, log func(level, msg string, fields map[string]any)) *Runner {
	cfg = cfg.withDefaults()
	if log == nil {
		log = func(string, string, map[string]any) {}
	}
	return &Runner{cfg: cfg, js: js, codec: codec, projectFn: projectFn, executor: executor, log: log}
}

// Run pulls batches until ctx is cancelled. Each batch fetch that times out
// is treated as "no work available right now", not an error, per §4.6/§5.
func (r *Runner) Run(ctx context.Context) error {
	sub, err := r.js.PullSubscribe(r.cfg.Subject, r.cfg.Consumer, nats.ManualAck(), nats.AckWait(r.cfg.AckWait), nats.DeliverAll())
	if err != nil {
		return fmt.Errorf("projector: bind durable consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msgs, err := sub.Fetch(r.cfg.FetchBatch, nats.MaxWait(r.cfg.FetchTimeout))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			return fmt.Errorf("projector: fetch: %w", err)
		}

		for _, msg := range msgs {
			r.handle(ctx, msg)
		}
	}
}

func (r *Runner) handle(ctx context.Context, msg *nats.Msg) {
	env, err := r.codec.Unmarshal(msg.Data)
	if err != nil {
		r.log("error", "undecodable message, terminating", map[string]any{"error": err.Error()})
		_ = msg.Term()
		return
	}

	_, effects := r.projectFn(nil, env)
	if err := r.executor.Execute(ctx, effects); err != nil {
		r.nakOrTerm(msg, err)
		return
	}

	if err := msg.Ack(); err != nil {
		r.log("error", "ack failed", map[string]any{"error": err.Error()})
	}
}

func (r *Runner) nakOrTerm(msg *nats.Msg, cause error) {
	var re Retryabler
	if errors.As(cause, &re) && !re.Retryable() {
		r.log("error", "permanent failure, terminating", map[string]any{"error": cause.Error()})
		_ = msg.Term()
		return
	}

	meta, metaErr := msg.Metadata()
	deliveries := 1
	if metaErr == nil {
		deliveries = int(meta.NumDelivered)
	}

	if r.cfg.Backoff.Exhausted(deliveries) {
		r.log("error", "retries exhausted, terminating", map[string]any{"error": cause.Error(), "deliveries": deliveries})
		_ = msg.Term()
		return
	}

	delay := r.cfg.Backoff.Delay(deliveries)
	r.log("warn", "transient failure, nak with backoff", map[string]any{"error": cause.Error(), "delay": delay.String()})
	_ = msg.NakWithDelay(delay)
}
