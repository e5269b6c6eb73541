package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/links/internal/finder"
	"github.com/MrSnakeDoc/links/internal/index"
	"github.com/MrSnakeDoc/links/internal/linkmeta"
	"github.com/MrSnakeDoc/links/internal/logger"
)

// DetailCache stores fetched link details per URL. *redisstore.Store implements it.
type DetailCache interface {
	GetCachedDetail(ctx context.Context, url string, out any) (bool, error)
	CacheDetail(ctx context.Context, url string, detail any, ttl time.Duration) error
	InvalidateDetail(ctx context.Context, url string) error
	FlushDetails(ctx context.Context) error
}

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	TimeNow         func() time.Time   // for testing, defaults to time.Now
	AllowedHosts    []string           // Host headers allowed to access the API
	AllowedCIDRS    []string           // IPs allowed to access readyz/infra/reload
	TrustProxy      bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateLimitBurst  int                // per-IP burst on link-detail
	RateLimitPerMin int                // per-IP refill on link-detail
	LinkFile        string             // Path to the link file
	RedisClient     *redis.Client      // Redis client connection (nil when running without Redis)
	MemoryIndex     *index.MemoryIndex // In-memory link index
	Finder          *finder.Finder     // Listing and grouping over MemoryIndex
	Details         linkmeta.Doer      // Link detail fetches, normally the linkmeta pool
	DetailCache     DetailCache        // nil disables caching
	DetailCacheTTL  time.Duration      // 0 disables caching
	ReloadTrigger   chan struct{}      // Channel to trigger manual link file reload
}
