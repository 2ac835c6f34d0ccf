// README: Concurrency tests for racing status transitions (run with -race).
package order

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"freshfold/internal/types"
)

func TestConcurrentDeliveredVsCancelled(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	insertDriver(t, db, "d_race")
	o := mustCreateOrder(t, svc, "c_race_terminal")
	mustAssign(t, svc, o, "d_race")

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Transition(ctx, TransitionCommand{OrderID: o.ID, Target: StatusDelivered, ActorID: "op1"})
		errs <- err
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Transition(ctx, TransitionCommand{OrderID: o.ID, Target: StatusCancelled, ActorID: "op2"})
		errs <- err
	}()

	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if err != ErrConflict && err != ErrAlreadyTerminal {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 {
		t.Fatalf("expected exactly 1 success, got %d", success)
	}

	got, err := svc.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusDelivered && got.Status != StatusCancelled {
		t.Fatalf("expected a terminal status, got %s", got.Status)
	}

	events, err := svc.History(ctx, o.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	// create + exactly one winning transition
	if len(events) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(events))
	}
}

func TestConcurrentSameTransition(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	o := mustCreateOrder(t, svc, "c_race_same")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		actor := types.ID(fmt.Sprintf("op%d", i))
		wg.Add(1)
		go func(actor types.ID) {
			defer wg.Done()
			_, err := svc.Transition(ctx, TransitionCommand{OrderID: o.ID, Target: StatusConfirmed, ActorID: actor})
			errs <- err
		}(actor)
	}

	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if err != ErrConflict {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 {
		t.Fatalf("expected exactly 1 success, got %d", success)
	}

	events, err := svc.History(ctx, o.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 history entries after racing identical transitions, got %d", len(events))
	}
}

func mustAssign(t *testing.T, svc *Service, o *Order, driverID string) {
	t.Helper()
	d := types.ID(driverID)
	if _, err := svc.AssignDriver(context.Background(), o.ID, &d, "op1"); err != nil {
		t.Fatalf("assign driver: %v", err)
	}
}
