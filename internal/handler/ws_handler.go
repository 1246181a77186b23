package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"mobhub/internal/app/game"
	"mobhub/internal/pkg/logx"
)

// HandleWebSocket upgrades the request and serves the game protocol over the WebSocket.
// Rate limiting happens in the route middleware.
func HandleWebSocket(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := deps.newClient(game.NewWebSocketConn(conn))
		client.Serve()
	}
}
