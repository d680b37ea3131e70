/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which upgrades the HTTP connection of a
browser tab and registers it with the tab hub so it receives record-changed and thinking
events.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"friendhub/internal/app/tabs"
	"friendhub/internal/pkg/logx"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := tabs.NewClient(deps.Hub, conn)

		go client.WritePump()

		logx.Info("WebSocket connection established and tab registered", "remote_addr", conn.RemoteAddr().String())

		deps.Hub.RegisterClient(client)

		client.ReadPump()
	}
}
