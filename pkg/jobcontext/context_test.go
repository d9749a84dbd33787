package jobcontext

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJobEnd_SucceedsFirstTry(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), uuid.New(), "ingest", 0, time.Minute, 3)
	defer cancel()

	calls := 0
	err := JobEnd(ctx, func(context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("JobEnd failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestJobEnd_NonRetryableStops(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), uuid.New(), "ingest", 0, time.Minute, 3)
	defer cancel()

	calls := 0
	err := JobEnd(ctx, func(context.Context) error {
		calls++
		return fmt.Errorf("minutes schema violation: bad output")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("non-retryable error must not retry, got %d calls", calls)
	}
}

func TestJobEnd_RecoversPanic(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), uuid.New(), "ingest", 0, time.Minute, 1)
	defer cancel()

	err := JobEnd(ctx, func(context.Context) error {
		panic("boom")
	})
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
}

func TestJobBegin_Metadata(t *testing.T) {
	jobID := uuid.New()
	ctx, cancel := JobBegin(context.Background(), jobID, "regenerate", 7, time.Minute, 5)
	defer cancel()

	md := GetJobMetadata(ctx)
	if md.JobID != jobID {
		t.Fatal("job id not carried")
	}
	if md.Stage != "regenerate" {
		t.Fatalf("unexpected stage %q", md.Stage)
	}
	if md.WorkerID != 7 {
		t.Fatalf("unexpected worker id %d", md.WorkerID)
	}
	if md.MaxRetries != 5 {
		t.Fatalf("unexpected max retries %d", md.MaxRetries)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		t.Fatal("job context must carry a deadline")
	}
}

func TestIsRetryableError(t *testing.T) {
	retryable := []string{
		"connection refused",
		"rate limit exceeded",
		"text-generation backend returned status 503",
		"deadlock detected",
	}
	for _, msg := range retryable {
		if !IsRetryableError(fmt.Errorf("%s", msg)) {
			t.Fatalf("%q should be retryable", msg)
		}
	}

	terminal := []string{
		"classification schema violation: unknown meeting type",
		"no transcript available",
		"validation failed on field",
		"invalid meeting id",
	}
	for _, msg := range terminal {
		if IsRetryableError(fmt.Errorf("%s", msg)) {
			t.Fatalf("%q must not be retryable", msg)
		}
	}

	if IsRetryableError(nil) {
		t.Fatal("nil error is not retryable")
	}
}

func TestCalculateBackoff_Capped(t *testing.T) {
	if got := CalculateBackoff(0, 5*time.Second); got != 5*time.Second {
		t.Fatalf("unexpected backoff %v", got)
	}
	if got := CalculateBackoff(10, 5*time.Second); got != 60*time.Second {
		t.Fatalf("backoff must cap at 60s, got %v", got)
	}
	if got := CalculateBackoff(-3, 5*time.Second); got != 5*time.Second {
		t.Fatalf("negative attempt must clamp, got %v", got)
	}
}
