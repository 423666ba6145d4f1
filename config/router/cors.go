package router

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redweb/donor-registry/internal/log"
)

// corsConfigFromEnv allows every origin unless CORS_ALLOWED_ORIGIN names a
// list of http(s) origins. Entries without a scheme are dropped, and an
// empty result falls back to allowing all origins.
func corsConfigFromEnv(raw string, logger *log.Logger) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Encoding", "Cache-Control", "X-Requested-With", "X-Correlation-ID"},
		ExposeHeaders: []string{"X-Correlation-ID", "X-RateLimit-Limit", "X-RateLimit-Window", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	var origins []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		switch {
		case o == "":
			continue
		case o == "*":
			cfg.AllowAllOrigins = true
			return cfg
		case strings.HasPrefix(o, "http://") || strings.HasPrefix(o, "https://"):
			origins = append(origins, strings.TrimSuffix(o, "/"))
		default:
			logger.Warn("Ignoring CORS origin without http(s) scheme", "origin", o)
		}
	}

	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	return cfg
}

func (routerService *RouterService) corsMiddleware(raw string) gin.HandlerFunc {
	cfg := corsConfigFromEnv(raw, routerService.logger)

	if cfg.AllowAllOrigins {
		routerService.logger.Info("CORS allows all origins")
	} else {
		routerService.logger.Info("CORS restricted", "origins", cfg.AllowOrigins)
	}

	return cors.New(cfg)
}
