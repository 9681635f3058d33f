package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/wapi/internal/events"
	"github.com/MrSnakeDoc/wapi/internal/logger"
)

type scriptedFetcher struct {
	mu    sync.Mutex
	steps []func() (json.RawMessage, error)
	calls int
}

func (f *scriptedFetcher) FetchStatus(ctx context.Context) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	step := f.steps[f.calls%len(f.steps)]
	f.calls++
	return step()
}

func status(connected bool) func() (json.RawMessage, error) {
	return func() (json.RawMessage, error) {
		if connected {
			return json.RawMessage(`{"connected":true}`), nil
		}
		return json.RawMessage(`{"connected":false}`), nil
	}
}

func failure(msg string) func() (json.RawMessage, error) {
	return func() (json.RawMessage, error) { return nil, errors.New(msg) }
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Notify(e events.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

func newTestPoller(f StatusFetcher) (*HealthPoller, *recorder) {
	bus := events.NewBus()
	rec := &recorder{}
	bus.Subscribe(rec)
	return NewHealthPoller(f, bus, logger.NewNop(), time.Hour), rec
}

func TestHealthPollerTransitions(t *testing.T) {
	f := &scriptedFetcher{steps: []func() (json.RawMessage, error){
		status(false), status(false), status(true), status(true), status(false),
	}}
	p, rec := newTestPoller(f)
	ctx := context.Background()

	want := [][]events.Type{
		{events.HealthCheck},
		{events.HealthCheck},
		{events.Connected, events.HealthCheck},
		{events.HealthCheck},
		{events.Disconnected, events.HealthCheck},
	}
	for i, expected := range want {
		rec.reset()
		require.NoError(t, p.Poll(ctx))
		require.Equal(t, expected, rec.types(), "tick %d", i+1)
	}
	require.False(t, p.State().Connected)
}

func TestHealthPollerFailureKeepsState(t *testing.T) {
	f := &scriptedFetcher{steps: []func() (json.RawMessage, error){
		status(true), failure("vendor unreachable"), status(true),
	}}
	p, rec := newTestPoller(f)
	ctx := context.Background()

	require.NoError(t, p.Poll(ctx))
	require.True(t, p.State().Connected)

	rec.reset()
	err := p.Poll(ctx)
	require.EqualError(t, err, "vendor unreachable")
	state := p.State()
	require.True(t, state.Connected, "a failed poll does not flip the flag")
	require.EqualError(t, state.LastError, "vendor unreachable")
	require.Equal(t, []events.Type{events.Error}, rec.types())

	rec.reset()
	require.NoError(t, p.Poll(ctx))
	require.Equal(t, []events.Type{events.HealthCheck}, rec.types(), "no reconnect event after a failure")
	require.NoError(t, p.State().LastError)
}

func TestHealthPollerLoopAndStop(t *testing.T) {
	f := &scriptedFetcher{steps: []func() (json.RawMessage, error){status(true)}}
	bus := events.NewBus()
	ticks := make(chan events.Type, 64)
	bus.Subscribe(events.ObserverFunc(func(e events.Event) {
		select {
		case ticks <- e.Type:
		default:
		}
	}))
	p := NewHealthPoller(f, bus, logger.NewNop(), 5*time.Millisecond)

	require.NoError(t, p.Start(context.Background()))
	require.Error(t, p.Start(context.Background()))

	select {
	case typ := <-ticks:
		require.Equal(t, events.Connected, typ)
	case <-time.After(2 * time.Second):
		t.Fatal("poller never ticked")
	}

	p.Stop()
	p.Stop()

	// drain whatever was emitted before Stop returned
	for len(ticks) > 0 {
		<-ticks
	}
	time.Sleep(30 * time.Millisecond)
	require.Empty(t, ticks, "no events after Stop")
}

func TestHealthPollerRecoversFromPanickingFetcher(t *testing.T) {
	f := StatusFetcherFunc(func(context.Context) (json.RawMessage, error) { panic("bad fetcher") })
	p, _ := newTestPoller(f)
	require.NotPanics(t, func() { p.tick(context.Background()) })
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		connected bool
		label     string
	}{
		{"boolean field", `{"connected":true}`, true, "connected"},
		{"boolean false", `{"connected":false}`, false, "disconnected"},
		{"label wins for display", `{"connected":true,"status":"open"}`, true, "open"},
		{"status label", `{"status":"CONNECTED"}`, true, "CONNECTED"},
		{"state label", `{"state":"close"}`, false, "close"},
		{"nested data", `{"success":true,"data":{"status":"authenticated"}}`, true, "authenticated"},
		{"unknown shape", `{"foo":1}`, false, "unknown"},
		{"not json", `OK`, false, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			connected, label := ParseStatus(json.RawMessage(tt.raw))
			require.Equal(t, tt.connected, connected)
			require.Equal(t, tt.label, label)
		})
	}
}

func TestHealthPollerStopLeavesInFlightFetchAlone(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	fetchErr := make(chan error, 1)
	f := StatusFetcherFunc(func(ctx context.Context) (json.RawMessage, error) {
		close(entered)
		<-release
		fetchErr <- ctx.Err()
		return json.RawMessage(`{"connected":true}`), nil
	})

	bus := events.NewBus()
	rec := &recorder{}
	bus.Subscribe(rec)
	p := NewHealthPoller(f, bus, logger.NewNop(), 5*time.Millisecond)
	require.NoError(t, p.Start(context.Background()))

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("poller never fetched")
	}

	stopped := make(chan struct{})
	go func() {
		p.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop waited for the in-flight fetch")
	}
	require.True(t, p.Stopped())

	close(release)
	select {
	case err := <-fetchErr:
		require.NoError(t, err, "fetch context must not be cancelled by Stop")
	case <-time.After(2 * time.Second):
		t.Fatal("fetch never completed")
	}
	time.Sleep(20 * time.Millisecond)
	require.Empty(t, rec.types(), "late result is dropped")
	require.False(t, p.State().Connected)
}
