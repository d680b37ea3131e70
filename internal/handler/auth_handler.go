/*
Package handler provides HTTP handler functions for registration, login, and session management.
*/
package handler

import (
	"net/http"

	"friendhub/internal/pkg/randx"
	"friendhub/internal/pkg/req"
	"friendhub/internal/pkg/resp"
)

type RegisterInput struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// HandleRegister processes the request to register a new user. On success the new user
// becomes the active session.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		user, customErr := deps.Identity.Register(input.Username, input.Avatar)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user": user,
		})
	}
}

type LoginInput struct {
	Username string `json:"username"`
}

// HandleLogin processes the request to establish a session for an existing user.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		user, customErr := deps.Identity.Login(input.Username)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user": user,
		})
	}
}

// HandleLogout clears the active session. The user directory is not altered.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Identity.Logout()
		resp.RespondSuccess(w, r, nil)
	}
}

// HandleGetSession returns the active session user, or null when logged out.
func HandleGetSession(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := deps.Identity.Current()
		if !ok {
			resp.RespondSuccess(w, r, map[string]any{
				"user": nil,
			})
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user": user,
		})
	}
}

// HandleListUsers returns the full user directory in registration order, together with
// the fixed avatar set offered at registration.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"users":   deps.Identity.Users(),
			"avatars": randx.Avatars,
		})
	}
}
