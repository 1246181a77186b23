package handler

import (
	"golang.org/x/time/rate"

	"mobhub/internal/app/game"
	"mobhub/internal/configs"
	"mobhub/internal/pkg/limiter"
)

// AppDeps bundles what the HTTP and TCP surfaces need.
type AppDeps struct {
	Hub    *game.Hub
	Config *configs.AppConfig

	// ConnLimiter bounds new game connections per IP across both transports.
	ConnLimiter *limiter.IPRateLimiter
}

// newClient wraps conn in a game client using the configured message limits.
func (d *AppDeps) newClient(conn game.FrameConn) *game.Client {
	return game.NewClient(d.Hub, conn, rate.Limit(d.Config.MsgRate), d.Config.MsgBurst)
}
