package workers

import (
	"context"
	"log/slog"
	"time"

	"chat-relay/contract"
)

// TelemetryWorker periodically logs room and session counts so an
// operator can see relay occupancy without attaching a client.
type TelemetryWorker struct {
	log      *slog.Logger
	source   contract.StatsSource
	interval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, source contract.StatsSource, interval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, source: source, interval: interval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			stats := w.source.Stats()
			w.log.Info("Relay status", "rooms", stats.Rooms, "sessions", stats.Sessions)
		}
	}
}
