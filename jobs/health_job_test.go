package jobs

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"medmind-server/logger"
	"medmind-server/metrics"
)

type fakePinger struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (p *fakePinger) Ping(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.err
}

func (p *fakePinger) setErr(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

func (p *fakePinger) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func TestCheckLogsTransitionsOnly(t *testing.T) {
	var buf bytes.Buffer
	p := &fakePinger{}
	job := NewHealthJob(p, metrics.New(), logger.NewWithWriter(&buf, "test", 0), time.Minute)
	ctx := context.Background()

	if !job.Check(ctx) || !job.Check(ctx) {
		t.Fatalf("expected store to be up")
	}
	if n := strings.Count(buf.String(), "record store reachable"); n != 1 {
		t.Fatalf("expected one reachable line, got %d:\n%s", n, buf.String())
	}

	p.setErr(errors.New("connection refused"))
	if job.Check(ctx) {
		t.Fatalf("expected store to be down")
	}
	job.Check(ctx)
	if n := strings.Count(buf.String(), "record store unreachable"); n != 1 {
		t.Fatalf("expected one unreachable line, got %d:\n%s", n, buf.String())
	}
}

func TestRunStopsWithContext(t *testing.T) {
	p := &fakePinger{}
	job := NewHealthJob(p, nil, logger.Discard(), 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for p.count() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected repeated pings, got %d", p.count())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("job did not stop")
	}
}
