package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Dispatch: 2 * time.Second})
	if Dispatch() != 2*time.Second {
		t.Errorf("Dispatch: got %v, want 2s", Dispatch())
	}
	if Telemetry() != DefaultTelemetry {
		t.Errorf("Telemetry changed by a zero value: %v", Telemetry())
	}

	Reset()
	if Dispatch() != DefaultDispatch || Telemetry() != DefaultTelemetry {
		t.Errorf("Reset: got dispatch %v, telemetry %v", Dispatch(), Telemetry())
	}
}

func TestWithTimeout_LogsDeadline(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.New(core), "slow op")
	<-ctx.Done()
	cancel()

	if logs.FilterMessage("operation timed out").Len() != 1 {
		t.Errorf("expected one timeout warning, got %d entries", logs.Len())
	}
}

func TestWithTimeout_QuietOnCancel(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	_, cancel := WithTimeout(context.Background(), time.Minute, zap.New(core), "fast op")
	cancel()

	if logs.Len() != 0 {
		t.Errorf("unexpected log entries: %d", logs.Len())
	}
}
