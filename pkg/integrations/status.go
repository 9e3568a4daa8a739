package integrations

import (
	"context"
	"sync"
	"time"
)

// Checker is anything that can verify its upstream connection
type Checker interface {
	Name() string
	TestConnection(ctx context.Context) error
}

// Status is the health of one integration
type Status struct {
	Name      string    `json:"name"`
	Connected bool      `json:"connected"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// CheckAll probes every checker concurrently and returns a status per
// integration, in the order the checkers were given
func CheckAll(ctx context.Context, checkers []Checker) []Status {
	statuses := make([]Status, len(checkers))

	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Add(1)
		go func(i int, checker Checker) {
			defer wg.Done()

			status := Status{
				Name:      checker.Name(),
				CheckedAt: time.Now(),
			}
			if err := checker.TestConnection(ctx); err != nil {
				status.Error = err.Error()
			} else {
				status.Connected = true
			}
			statuses[i] = status
		}(i, checker)
	}
	wg.Wait()

	return statuses
}
