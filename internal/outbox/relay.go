package outbox

import (
	"context"
	"log"
	"time"

	"github.com/AnthoniusHendriyanto/social-core/internal/event"
)

const relayBatchSize = 100

// Relay delivers recorded event intents to the bus. A row that fails to
// publish stays unsent and is retried on the next tick; the mutation that
// produced it has long since committed.
type Relay struct {
	repo      *Repository
	publisher event.Publisher
	interval  time.Duration
}

func NewRelay(repo *Repository, publisher event.Publisher, interval time.Duration) *Relay {
	return &Relay{repo: repo, publisher: publisher, interval: interval}
}

func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Flush(ctx)
		}
	}
}

// Flush publishes every pending row once and returns the number delivered.
func (r *Relay) Flush(ctx context.Context) int {
	pending, err := r.repo.Pending(ctx, relayBatchSize)
	if err != nil {
		log.Printf("warn: failed to load pending outbox rows: %v", err)
		return 0
	}

	delivered := 0
	for _, row := range pending {
		if err := r.publisher.Publish(ctx, row.Topic, row.Payload); err != nil {
			log.Printf("warn: failed to publish outbox row %s to %s: %v", row.ID, row.Topic, err)
			continue
		}
		if err := r.repo.MarkSent(ctx, row.ID); err != nil {
			log.Printf("warn: failed to mark outbox row %s sent: %v", row.ID, err)
			continue
		}
		delivered++
	}

	return delivered
}
