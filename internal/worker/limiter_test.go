package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 1 {
		t.Errorf("expected default burst 1 for negative input, got %d", l2.defaultBurst)
	}
}

func TestNewPerMinuteLimiter(t *testing.T) {
	if l := NewPerMinuteLimiter(0); l != nil {
		t.Error("expected nil limiter for zero quota")
	}

	l := NewPerMinuteLimiter(4)
	if l == nil {
		t.Fatal("expected limiter for quota 4/min")
	}
	// 4/min = one token per 15s, burst 1
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, "https://www.virustotal.com/api/v3/urls"); err != nil {
		t.Errorf("first call should pass: %v", err)
	}
	if err := l.Wait(ctx, "https://www.virustotal.com/api/v3/analyses/abc"); err == nil {
		t.Error("second call to the same host should be paced")
	}
}

func TestLimiter_NilNeverBlocks(t *testing.T) {
	var l *Limiter
	if err := l.Wait(context.Background(), "https://example.com"); err != nil {
		t.Errorf("nil limiter Wait returned %v", err)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com/foo"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different host has its own bucket
	if err := limiter.Wait(ctx, "http://api.example.org"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	url := "http://example.com"

	if err := limiter.Wait(context.Background(), url); err != nil {
		t.Fatalf("first call should pass: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, url); err == nil {
		t.Error("expected error when the quota cannot be met before the deadline")
	}
}

func TestLimiter_WaitN(t *testing.T) {
	// 20/s with burst 1: the second and third tokens need ~50ms each
	limiter := NewLimiter(20, 1)

	start := time.Now()
	if err := limiter.WaitN(context.Background(), "http://example.com", 3); err != nil {
		t.Fatalf("WaitN failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("expected tokens to be paced, took %v", elapsed)
	}

	var nilLimiter *Limiter
	if err := nilLimiter.WaitN(context.Background(), "http://example.com", 5); err != nil {
		t.Errorf("nil limiter WaitN returned %v", err)
	}
}

func TestLimiter_WaitInvalidURL(t *testing.T) {
	if err := NewLimiter(10, 1).Wait(context.Background(), "::invalid"); err == nil {
		t.Error("expected error for unparseable URL")
	}
}

func TestExtractHost(t *testing.T) {
	host, err := extractHost("https://www.virustotal.com/api/v3/urls")
	if err != nil {
		t.Fatalf("extractHost failed: %v", err)
	}
	if host != "www.virustotal.com" {
		t.Errorf("expected www.virustotal.com, got %s", host)
	}

	if _, err := extractHost("::invalid"); err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
