package ratelimit

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestWindowUpdateFromHeaders(t *testing.T) {
	w := NewWindow()

	h := http.Header{}
	h.Set(HeaderLimit, "180")
	h.Set(HeaderRemaining, "179")
	h.Set(HeaderReset, "1565482140")

	w.UpdateFromHeaders(h)

	if w.Remaining() != 179 {
		t.Errorf("Expected remaining 179, got %d", w.Remaining())
	}
	if !w.known {
		t.Error("Expected window to be known after update")
	}
	if !w.reset.Equal(time.Unix(1565482140, 0)) {
		t.Errorf("Expected reset at 1565482140, got %v", w.reset)
	}
}

func TestWindowIgnoresMissingHeaders(t *testing.T) {
	w := NewWindow()
	w.UpdateFromHeaders(http.Header{})

	if w.known {
		t.Error("Expected window to stay unknown without headers")
	}
	if w.WaitDuration() != 0 {
		t.Error("Expected zero wait for unknown window")
	}
}

func TestWindowWaitDuration(t *testing.T) {
	now := time.Date(2019, 8, 11, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		remaining int
		reset     time.Time
		want      time.Duration
	}{
		{
			name:      "quota left means no wait",
			remaining: 50,
			reset:     now.Add(10 * time.Minute),
			want:      0,
		},
		{
			name:      "exhausted waits until reset plus pad",
			remaining: 0,
			reset:     now.Add(5 * time.Minute),
			want:      5*time.Minute + resetPad,
		},
		{
			name:      "reset in the past means no wait",
			remaining: 0,
			reset:     now.Add(-time.Minute),
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow()
			w.now = func() time.Time { return now }
			w.Update(tt.remaining, tt.reset)

			if got := w.WaitDuration(); got != tt.want {
				t.Errorf("WaitDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWindowExhausted(t *testing.T) {
	now := time.Date(2019, 8, 11, 12, 0, 0, 0, time.UTC)

	w := NewWindow()
	w.now = func() time.Time { return now }

	if w.Exhausted() {
		t.Error("Unknown window should not report exhausted")
	}

	w.Update(0, now.Add(time.Minute))
	if !w.Exhausted() {
		t.Error("Expected exhausted window")
	}

	w.Update(1, now.Add(time.Minute))
	if w.Exhausted() {
		t.Error("Window with remaining quota should not be exhausted")
	}
}

func TestRetryAfter(t *testing.T) {
	h := http.Header{}
	if _, ok := RetryAfter(h); ok {
		t.Error("Expected no retry-after without the header")
	}

	h.Set("Retry-After", "120")
	d, ok := RetryAfter(h)
	if !ok || d != 2*time.Minute {
		t.Errorf("Expected 2m retry-after, got %v (ok=%v)", d, ok)
	}

	h.Set("Retry-After", "soon")
	if _, ok := RetryAfter(h); ok {
		t.Error("Expected unparsable retry-after to be ignored")
	}
}

func TestSleep(t *testing.T) {
	t.Run("zero duration returns immediately", func(t *testing.T) {
		if err := Sleep(context.Background(), 0); err != nil {
			t.Errorf("Expected nil error, got %v", err)
		}
	})

	t.Run("cancelled context interrupts sleep", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := Sleep(ctx, time.Minute)
		if err != context.Canceled {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})

	t.Run("short sleep completes", func(t *testing.T) {
		start := time.Now()
		if err := Sleep(context.Background(), 20*time.Millisecond); err != nil {
			t.Errorf("Expected nil error, got %v", err)
		}
		if time.Since(start) < 20*time.Millisecond {
			t.Error("Sleep returned too early")
		}
	})
}
