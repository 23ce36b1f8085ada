/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting, resolving
the connection's identity, upgrading the HTTP connection to WebSocket, and initiating the client lifecycle.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"collabboard/internal/app/board"
	"collabboard/internal/app/user"
	"collabboard/internal/pkg/auth/jwt"
	"collabboard/internal/pkg/errs"
	"collabboard/internal/pkg/limiter"
	"collabboard/internal/pkg/logx"
	"collabboard/internal/pkg/randx"
	"collabboard/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
//
// A connection carries identity only; it joins rooms afterwards via join-room
// events and may switch rooms without reconnecting. Registered users present a
// token (header or "token" query parameter); guests supply a "username" query
// parameter instead.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		currentUser, ok := resolveIdentity(r, deps.Config.JWTSecret)
		if !ok {
			logx.Warn("WebSocket request rejected: no usable identity", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := board.NewClient(deps.Coordinator, conn, currentUser)

		go client.WritePump()

		logx.Info("WebSocket connection established",
			"conn_id", client.Session().ConnID,
			"username", currentUser.Username,
			"user_type", currentUser.UserType,
		)

		client.ReadPump()
	}
}

// resolveIdentity determines who the connection belongs to. Token identities
// win over the guest username parameter.
func resolveIdentity(r *http.Request, jwtSecret string) (user.User, bool) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		// IdentityExtractorMiddleware is not applied to /ws, so check the
		// header directly as a fallback for non-browser clients.
		if auth := r.Header.Get("Authorization"); len(auth) > 7 && auth[:7] == "Bearer " {
			tokenString = auth[7:]
		}
	}

	if tokenString != "" {
		payload, err := jwt.ParseToken(tokenString, jwtSecret)
		if err == nil {
			return user.User{
				ID:       payload.ID,
				Username: payload.Username,
				UserType: "registered",
			}, true
		}
		logx.Warn("Invalid token on WebSocket connect, falling back to guest", "error", err)
	}

	username := r.URL.Query().Get("username")
	if !randx.IsValidUsername(username) {
		return user.User{}, false
	}

	return user.User{Username: username, UserType: "guest"}, true
}
