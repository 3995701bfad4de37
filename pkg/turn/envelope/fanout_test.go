package envelope

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"

	"sms-assistant-be/pkg/store"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func okTask(s store.Scope, units ...store.EvidenceUnit) Task {
	return Task{Scope: s, Fetch: func(ctx context.Context) ([]store.EvidenceUnit, error) {
		return units, nil
	}}
}

func TestFanOutCollectsAllBranches(t *testing.T) {
	tasks := []Task{
		okTask(store.ScopeConvo, store.EvidenceUnit{Scope: store.ScopeConvo, SourceID: "c1"}),
		okTask(store.ScopeResource, store.EvidenceUnit{Scope: store.ScopeResource, SourceID: "r1"}),
	}

	out := FanOut(context.Background(), tasks, 3, time.Second, discardLogger())

	if len(out[store.ScopeConvo]) != 1 || len(out[store.ScopeResource]) != 1 {
		t.Errorf("results = %+v, want one unit per scope", out)
	}
}

func TestFanOutBranchErrorYieldsEmptyResult(t *testing.T) {
	tasks := []Task{
		okTask(store.ScopeConvo, store.EvidenceUnit{Scope: store.ScopeConvo, SourceID: "c1"}),
		{Scope: store.ScopeResource, Fetch: func(ctx context.Context) ([]store.EvidenceUnit, error) {
			return nil, errors.New("index unavailable")
		}},
	}

	out := FanOut(context.Background(), tasks, 3, time.Second, discardLogger())

	if len(out[store.ScopeConvo]) != 1 {
		t.Error("healthy branch lost its result")
	}
	if got, ok := out[store.ScopeResource]; !ok || len(got) != 0 {
		t.Errorf("failed branch = %v present=%v, want empty entry", got, ok)
	}
}

func TestFanOutPerBranchTimeout(t *testing.T) {
	slow := Task{Scope: store.ScopeResource, Fetch: func(ctx context.Context) ([]store.EvidenceUnit, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return []store.EvidenceUnit{{SourceID: "too late"}}, nil
		}
	}}
	tasks := []Task{
		slow,
		okTask(store.ScopeConvo, store.EvidenceUnit{Scope: store.ScopeConvo, SourceID: "c1"}),
	}

	start := time.Now()
	out := FanOut(context.Background(), tasks, 3, 20*time.Millisecond, discardLogger())

	if time.Since(start) > 2*time.Second {
		t.Fatal("fan-out did not honor the branch timeout")
	}
	if len(out[store.ScopeResource]) != 0 {
		t.Error("timed-out branch must contribute nothing")
	}
	if len(out[store.ScopeConvo]) != 1 {
		t.Error("fast branch lost its result")
	}
}

func TestFanOutBoundsConcurrency(t *testing.T) {
	const limit = 2
	var inFlight, peak atomic.Int32

	task := func(s store.Scope) Task {
		return Task{Scope: s, Fetch: func(ctx context.Context) ([]store.EvidenceUnit, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			inFlight.Add(-1)
			return nil, nil
		}}
	}
	tasks := []Task{
		task(store.ScopeConvo), task(store.ScopeResource),
		task(store.ScopeEnclave), task(store.ScopeAction), task(store.ScopeSmallTalk),
	}

	FanOut(context.Background(), tasks, limit, time.Second, discardLogger())

	if peak.Load() > limit {
		t.Errorf("peak concurrency = %d, want <= %d", peak.Load(), limit)
	}
}
