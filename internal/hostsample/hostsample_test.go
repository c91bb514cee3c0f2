package hostsample

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func TestSnapshotZeroValueBeforeSampling(t *testing.T) {
	s := New(time.Second)
	snap := s.Snapshot()
	if !snap.SampledAt.IsZero() {
		t.Fatalf("expected zero-value snapshot before Run, got %+v", snap)
	}
}

func TestRunPopulatesSnapshotImmediately(t *testing.T) {
	s := New(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// sampleOnce runs before the first tick, so poll briefly for it rather
	// than waiting a full interval.
	deadline := time.After(2 * time.Second)
	for {
		if !s.Snapshot().SampledAt.IsZero() {
			break
		}
		select {
		case <-deadline:
			cancel()
			<-done
			t.Fatal("Run did not populate a snapshot before the deadline")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestRegisterGaugesAcceptsObserverCallback(t *testing.T) {
	s := New(time.Hour)
	mp := sdkmetric.NewMeterProvider()
	meter := mp.Meter("hostsample-test")

	reg, err := s.RegisterGauges(meter)
	if err != nil {
		t.Fatalf("RegisterGauges: %v", err)
	}
	defer reg.Unregister()
}
