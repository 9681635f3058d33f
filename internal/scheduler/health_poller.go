package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrSnakeDoc/wapi/internal/events"
	"github.com/MrSnakeDoc/wapi/internal/logger"
)

// DefaultPollInterval is how often the instance status is checked.
const DefaultPollInterval = 60 * time.Second

// StatusFetcher returns the raw status document of the instance.
type StatusFetcher interface {
	FetchStatus(ctx context.Context) (json.RawMessage, error)
}

// StatusFetcherFunc adapts a function to StatusFetcher.
type StatusFetcherFunc func(ctx context.Context) (json.RawMessage, error)

func (f StatusFetcherFunc) FetchStatus(ctx context.Context) (json.RawMessage, error) { return f(ctx) }

// ConnectionState is the last known connectivity of the instance.
type ConnectionState struct {
	Connected   bool      `json:"connected"`
	StatusLabel string    `json:"status"`
	LastError   error     `json:"-"`
	LastCheck   time.Time `json:"last_check"`
}

// HealthPoller periodically fetches the instance status and publishes
// transitions on the bus. A failed fetch keeps the previous connected flag.
type HealthPoller struct {
	fetcher  StatusFetcher
	bus      *events.Bus
	logger   logger.Logger
	interval time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	state   ConnectionState
	stopped bool

	stopCh   chan struct{}
	done     chan struct{}
	started  bool
	stopOnce sync.Once
	cancel   context.CancelFunc

	// set while the loop waits on the vendor
	loopFetching atomic.Bool
}

func NewHealthPoller(fetcher StatusFetcher, bus *events.Bus, log logger.Logger, interval time.Duration) *HealthPoller {
	if interval == 0 {
		interval = DefaultPollInterval
	}
	return &HealthPoller{
		fetcher:  fetcher,
		bus:      bus,
		logger:   log,
		interval: interval,
		now:      time.Now,
		state:    ConnectionState{StatusLabel: "unknown"},
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the polling loop. The first check happens one interval
// after Start.
func (p *HealthPoller) Start(ctx context.Context) error {
	if p.interval < 0 {
		return fmt.Errorf("poll interval must be > 0, got %v", p.interval)
	}

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return errors.New("health poller already stopped")
	}
	if p.started {
		p.mu.Unlock()
		return errors.New("health poller already started")
	}
	p.started = true
	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	// fetches outlive the loop context: shutdown never aborts a request
	fetchCtx := context.WithoutCancel(ctx)

	ticker := time.NewTicker(p.interval)
	go func() {
		defer close(p.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.tick(fetchCtx)
			case <-p.stopCh:
				return
			case <-loopCtx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop halts the loop. An in-flight fetch is left to complete or fail on
// its own and its result is dropped; otherwise Stop waits for the loop to
// exit. No events are published once Stop returns.
func (p *HealthPoller) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		started := p.started
		cancel := p.cancel
		p.mu.Unlock()

		close(p.stopCh)
		if cancel != nil {
			cancel()
		}
		if started && !p.loopFetching.Load() {
			<-p.done
		}
	})
}

// State returns a copy of the current connection state.
func (p *HealthPoller) State() ConnectionState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *HealthPoller) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("health poll panicked", logger.Any("panic", r))
		}
	}()
	if err := p.poll(ctx, &p.loopFetching); err != nil {
		p.logger.Debug("health poll failed", logger.Error(err))
	}
}

// Poll runs a single check outside the loop.
func (p *HealthPoller) Poll(ctx context.Context) error {
	return p.poll(ctx, nil)
}

func (p *HealthPoller) poll(ctx context.Context, fetching *atomic.Bool) error {
	if p.isStopped() {
		return nil
	}

	raw, err := p.fetch(ctx, fetching)
	now := p.now()

	if err != nil {
		p.mu.Lock()
		if p.stopped {
			p.mu.Unlock()
			return err
		}
		p.state.LastError = err
		p.state.LastCheck = now
		p.mu.Unlock()

		p.logger.Warn("instance status check failed", logger.Error(err))
		p.bus.Emit(events.Error, nil, err)
		return err
	}

	connected, label := ParseStatus(raw)

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	was := p.state.Connected
	p.state = ConnectionState{
		Connected:   connected,
		StatusLabel: label,
		LastCheck:   now,
	}
	p.mu.Unlock()

	switch {
	case connected && !was:
		p.logger.Info("instance connected", logger.String("status", label))
		p.bus.Emit(events.Connected, raw, nil)
	case !connected && was:
		p.logger.Warn("instance disconnected", logger.String("status", label))
		p.bus.Emit(events.Disconnected, raw, nil)
	}
	p.bus.Emit(events.HealthCheck, raw, nil)
	return nil
}

func (p *HealthPoller) fetch(ctx context.Context, fetching *atomic.Bool) (json.RawMessage, error) {
	if fetching != nil {
		fetching.Store(true)
		defer fetching.Store(false)
	}
	return p.fetcher.FetchStatus(ctx)
}

// Stopped reports whether Stop has been called.
func (p *HealthPoller) Stopped() bool { return p.isStopped() }

func (p *HealthPoller) isStopped() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stopped
}

var connectedLabels = map[string]bool{
	"connected":     true,
	"open":          true,
	"authenticated": true,
	"online":        true,
	"ready":         true,
}

// ParseStatus extracts the connected flag and a label from a status
// document. A boolean "connected" field wins; otherwise a "status" or
// "state" string is matched against known connected labels. Both the top
// level and a nested "data" object are inspected.
func ParseStatus(raw json.RawMessage) (bool, string) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false, "unknown"
	}
	if connected, label, ok := statusFrom(doc); ok {
		return connected, label
	}
	if data, ok := doc["data"].(map[string]any); ok {
		if connected, label, ok := statusFrom(data); ok {
			return connected, label
		}
	}
	return false, "unknown"
}

func statusFrom(doc map[string]any) (bool, string, bool) {
	label := ""
	for _, key := range []string{"status", "state"} {
		if s, ok := doc[key].(string); ok && s != "" {
			label = s
			break
		}
	}

	if c, ok := doc["connected"].(bool); ok {
		if label == "" {
			label = "disconnected"
			if c {
				label = "connected"
			}
		}
		return c, label, true
	}
	if label != "" {
		return connectedLabels[strings.ToLower(label)], label, true
	}
	return false, "", false
}
