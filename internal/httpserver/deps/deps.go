package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marqueapp/marque/internal/auth"
	"github.com/marqueapp/marque/internal/domain"
	"github.com/marqueapp/marque/internal/logger"
	"github.com/marqueapp/marque/internal/notify"
)

// BookmarkStore is the data-store surface the handlers rely on. Each
// operation returns a plain error checked by presence; the redis store is
// the production implementation.
type BookmarkStore interface {
	Insert(ctx context.Context, bookmark *domain.Bookmark) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Bookmark, error)
	Delete(ctx context.Context, id, userID string) error
}

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time    // for testing, defaults to time.Now
	AllowedHosts  []string            // Host headers allowed to access the server
	AllowedCIDRS  []string            // IPs allowed to access healthz/readyz endpoints
	TrustProxy    bool                // true if running behind a trusted reverse proxy (e.g., cloudflared)
	SecureCookies bool                // true when the public origin is HTTPS
	RedisClient   *redis.Client       // Redis client connection (readiness checks)
	Bookmarks     BookmarkStore       // Bookmark persistence
	Sessions      *auth.Manager       // Session cookie manager
	OAuth         *auth.Provider      // Identity provider handoff
	Hub           *notify.Hub         // Change-event fan-out for live updates
	RateBurst     int                 // Rate limit burst for mutating API routes
	RateRefill    int                 // Rate limit refill per client per minute
}
