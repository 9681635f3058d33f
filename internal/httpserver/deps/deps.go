package deps

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MrSnakeDoc/wapi/internal/logger"
	"github.com/MrSnakeDoc/wapi/internal/wapi"
)

// Client is what the proxy needs from the vendor client.
type Client interface {
	Call(ctx context.Context, name string, params map[string]any) (json.RawMessage, error)
	ConnectionState() wapi.ConnectionState
	CacheStats() wapi.CacheStats
	ClearCache(ctx context.Context) error
}

// Pinger reports whether a backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedCIDRS []string         // IPs allowed to reach /infra and /cache/clear
	TrustProxy   bool             // true if running behind a trusted reverse proxy
	Client       Client           // vendor client every proxy route goes through
	CacheStore   Pinger           // nil when the response cache is in memory
	QRSize       int              // PNG edge in pixels for /instance/qrcode/image
}
