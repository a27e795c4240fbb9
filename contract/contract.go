//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
)

// Sink is the send capability a transport hands to each session.
// Implementations must not block: a recipient that cannot keep up gets
// an error back, and the caller decides whether that matters.
type Sink interface {
	Send(text string) error
}

// JokeProvider supplies joke text from an external service.
type JokeProvider interface {
	FetchJoke(ctx context.Context) (string, error)
}

// StatsSource exposes a point-in-time view of the relay for telemetry.
type StatsSource interface {
	Stats() RegistryStats
}

type RegistryStats struct {
	Rooms    int
	Sessions int
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// lifecycle events, avoiding manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
