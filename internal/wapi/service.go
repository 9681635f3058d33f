package wapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/wapi/internal/events"
	"github.com/MrSnakeDoc/wapi/internal/logger"
	"github.com/MrSnakeDoc/wapi/internal/scheduler"
	"github.com/MrSnakeDoc/wapi/internal/utils"
)

const (
	DefaultRateLimit   = 60
	DefaultCacheTTL    = 60 * time.Second
	DefaultHTTPTimeout = 30 * time.Second

	statusEndpoint = "/instance/status"
)

// ConnectionState is the last known connectivity of the instance.
type ConnectionState = scheduler.ConnectionState

// Config is fixed once the Service is built.
type Config struct {
	Host       string // vendor host, used as https://{Host}/v1
	BaseURL    string // full base URL, overrides Host when set
	Token      string
	InstanceID string // sent as Instance-Id when set

	CacheEnabled       bool
	CacheTTL           time.Duration
	CacheMaxEntries    int           // 0 = unbounded
	CacheSweepInterval time.Duration // 0 = lazy expiry only

	RateLimit    int           // requests per minute, <= 0 disables
	PollInterval time.Duration // <= 0 disables the health poller
	HTTPTimeout  time.Duration
	Logging      bool
}

// DefaultConfig returns the defaults for everything but host and token.
func DefaultConfig() Config {
	return Config{
		CacheEnabled: true,
		CacheTTL:     DefaultCacheTTL,
		RateLimit:    DefaultRateLimit,
		PollInterval: scheduler.DefaultPollInterval,
		HTTPTimeout:  DefaultHTTPTimeout,
		Logging:      true,
	}
}

// Request is one executor call.
type Request struct {
	Method   string
	Endpoint string
	Params   any
	NoCache  bool // skip both lookup and store

	healthCheck bool
}

// Service is the cached, rate-limited client for the vendor API.
type Service struct {
	cfg     Config
	baseURL string
	client  *http.Client
	logger  logger.Logger
	cache   Cache
	limiter *RateLimiter
	bus     *events.Bus
	poller  *scheduler.HealthPoller
	clock   func() time.Time

	ownCache  *MemoryCache
	closeOnce sync.Once
}

type Option func(*Service)

func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.client = c }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithCache replaces the in-memory cache, e.g. with a shared Redis one.
func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

func WithBus(b *events.Bus) Option {
	return func(s *Service) { s.bus = b }
}

// New validates cfg and builds a Service. Nothing is sent over the network
// until a call is made or Start is called.
func New(cfg Config, opts ...Option) (*Service, error) {
	base, err := resolveBaseURL(cfg)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, &ConfigError{Field: "token", Message: "is required"}
	}
	if cfg.CacheTTL < 0 {
		return nil, &ConfigError{Field: "cache_ttl", Message: "must not be negative"}
	}
	if cfg.CacheMaxEntries < 0 {
		return nil, &ConfigError{Field: "cache_max_entries", Message: "must not be negative"}
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}

	s := &Service{
		cfg:     cfg,
		baseURL: base,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	switch {
	case !cfg.Logging:
		s.logger = logger.NewNop()
	case s.logger == nil:
		s.logger = logger.New("info", false)
	}
	if s.bus == nil {
		s.bus = events.NewBus()
	}
	if cfg.CacheEnabled && s.cache == nil {
		s.ownCache = NewMemoryCache(
			WithMaxEntries(cfg.CacheMaxEntries),
			WithSweepInterval(cfg.CacheSweepInterval),
			WithCacheClock(s.clock),
		)
		s.cache = s.ownCache
	}
	if !cfg.CacheEnabled {
		s.cache = nil
	}

	s.limiter = NewRateLimiter(cfg.RateLimit, s.clock)
	s.poller = scheduler.NewHealthPoller(
		scheduler.StatusFetcherFunc(s.fetchStatus),
		s.bus,
		s.logger.Named("poller"),
		cfg.PollInterval,
	)
	if cfg.Logging {
		s.bus.Subscribe(events.ObserverFunc(s.logEvent))
	}

	return s, nil
}

func resolveBaseURL(cfg Config) (string, error) {
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return "", &ConfigError{Field: "base_url", Message: "must be an absolute URL"}
		}
		return strings.TrimRight(cfg.BaseURL, "/"), nil
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		return "", &ConfigError{Field: "host", Message: "is required"}
	}
	host = strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://")
	return "https://" + strings.TrimRight(host, "/") + "/v1", nil
}

// Start launches the health poller when a poll interval is configured.
func (s *Service) Start(ctx context.Context) error {
	if s.cfg.PollInterval <= 0 {
		s.logger.Info("health poller disabled")
		return nil
	}
	if err := s.poller.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health poller: %w", err)
	}
	s.logger.Info("health poller started", logger.Duration("interval", s.cfg.PollInterval))
	return nil
}

// Close stops the poller and clears the in-memory cache. A cache passed
// with WithCache is shared and left alone. Calls already in flight are left
// to their own contexts.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.poller.Stop()
		if s.ownCache != nil {
			if cerr := s.ownCache.InvalidateAll(context.Background()); cerr != nil {
				err = fmt.Errorf("failed to clear cache: %w", cerr)
			}
			s.ownCache.Close()
		}
	})
	return err
}

// Subscribe registers an observer for service events.
func (s *Service) Subscribe(o events.Observer) (unsubscribe func()) {
	return s.bus.Subscribe(o)
}

func (s *Service) ConnectionState() ConnectionState { return s.poller.State() }

// PollNow runs one health check outside the regular schedule.
func (s *Service) PollNow(ctx context.Context) error { return s.poller.Poll(ctx) }

func (s *Service) CacheStats() CacheStats {
	if s.cache == nil {
		return CacheStats{Backend: "disabled"}
	}
	return s.cache.Stats()
}

func (s *Service) ClearCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.InvalidateAll(ctx)
}

// Execute runs one request through the pipeline: rate limiter, cache
// lookup for reads, transport, cache store. Failures are never retried.
func (s *Service) Execute(ctx context.Context, req Request) (json.RawMessage, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	if wait, ok := s.limiter.Admit(); !ok {
		err := &RateLimitedError{RetryAfterMs: ceilMillis(wait)}
		s.logger.Debug("request rejected by rate limiter",
			logger.String("endpoint", req.Endpoint),
			logger.Int64("retry_after_ms", err.RetryAfterMs))
		return nil, err
	}

	cacheable := s.cache != nil && req.Method == http.MethodGet && !req.NoCache
	var key string
	if cacheable {
		key = CacheKey(req.Endpoint, req.Params)
		value, hit, err := s.cache.Lookup(ctx, key)
		if err != nil {
			s.logger.Warn("cache lookup failed", logger.String("key", key), logger.Error(err))
		}
		if hit {
			s.logger.Debug("cache hit", logger.String("key", key))
			return value, nil
		}
	}

	body, err := s.do(ctx, req)
	if err != nil {
		if req.healthCheck && s.poller.Stopped() {
			// result of a poll that outlived Close
			return nil, err
		}
		s.bus.Publish(events.Event{
			Type:     events.RequestError,
			Err:      err,
			Method:   req.Method,
			Endpoint: req.Endpoint,
		})
		return nil, err
	}

	if cacheable {
		if err := s.cache.Store(ctx, key, body, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("cache store failed", logger.String("key", key), logger.Error(err))
		}
	}
	return body, nil
}

func (s *Service) do(ctx context.Context, req Request) (json.RawMessage, error) {
	target := s.baseURL + req.Endpoint

	var body io.Reader
	if req.Method == http.MethodGet {
		query, err := encodeQuery(req.Params)
		if err != nil {
			return nil, fmt.Errorf("failed to encode query for %s: %w", req.Endpoint, err)
		}
		if query != "" {
			target += "?" + query
		}
	} else {
		payload := req.Params
		if payload == nil {
			payload = map[string]any{}
		}
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode body for %s: %w", req.Endpoint, err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", req.Endpoint, err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)
	if s.cfg.InstanceID != "" {
		httpReq.Header.Set("Instance-Id", s.cfg.InstanceID)
	}

	start := s.clock()
	resp, err := s.client.Do(httpReq)
	if err != nil {
		s.logger.Warn("vendor request failed",
			logger.String("method", req.Method),
			logger.String("endpoint", req.Endpoint),
			logger.String("request_id", requestID),
			logger.Error(err))
		return nil, &ConnectionError{Message: err.Error(), Err: err}
	}
	defer utils.Close(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil && resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil, &ConnectionError{Message: "failed to read response body: " + err.Error(), Err: err}
	}

	s.logger.Debug("vendor request",
		logger.String("method", req.Method),
		logger.String("endpoint", req.Endpoint),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", s.clock().Sub(start)),
		logger.String("request_id", requestID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Body: raw}
	}
	return asJSON(raw), nil
}

// asJSON returns body unchanged when it is JSON. Anything else is wrapped
// as a JSON string so callers always get a valid document.
func asJSON(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage(`{}`)
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	wrapped, _ := json.Marshal(string(body))
	return wrapped
}

// encodeQuery flattens params into a query string. Scalars are written as
// is; nested values are written as JSON.
func encodeQuery(params any) (string, error) {
	if params == nil {
		return "", nil
	}
	var fields map[string]any
	switch p := params.(type) {
	case map[string]any:
		fields = p
	case url.Values:
		return p.Encode(), nil
	default:
		b, err := json.Marshal(params)
		if err != nil {
			return "", err
		}
		if err := json.Unmarshal(b, &fields); err != nil {
			return "", fmt.Errorf("query params must be an object: %w", err)
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		switch v := fields[k].(type) {
		case nil:
			continue
		case string:
			values.Add(k, v)
		case []string:
			for _, item := range v {
				values.Add(k, item)
			}
		case bool:
			values.Add(k, strconv.FormatBool(v))
		case int:
			values.Add(k, strconv.Itoa(v))
		case int64:
			values.Add(k, strconv.FormatInt(v, 10))
		case float64:
			values.Add(k, strconv.FormatFloat(v, 'f', -1, 64))
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			values.Add(k, string(b))
		}
	}
	return values.Encode(), nil
}

func (s *Service) fetchStatus(ctx context.Context) (json.RawMessage, error) {
	return s.Execute(ctx, Request{
		Method:      http.MethodGet,
		Endpoint:    statusEndpoint,
		NoCache:     true,
		healthCheck: true,
	})
}

func (s *Service) logEvent(e events.Event) {
	switch e.Type {
	case events.RequestError:
		s.logger.Warn("request failed",
			logger.String("method", e.Method),
			logger.String("endpoint", e.Endpoint),
			logger.Error(e.Err))
	case events.Error:
		s.logger.Warn("health check error", logger.Error(e.Err))
	case events.HealthCheck:
		s.logger.Debug("health check", logger.String("event_id", e.ID))
	}
}
