/*
Package handler provides HTTP handler functions for the chat message log.
*/
package handler

import (
	"net/http"

	"friendhub/internal/pkg/req"
	"friendhub/internal/pkg/resp"
)

// HandleListMessages returns the message log in send order.
func HandleListMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"messages": deps.Log.Messages(),
		})
	}
}

// HandleChatStatus reports whether a bot reply generation is in flight.
func HandleChatStatus(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"thinking": deps.Log.Thinking(),
		})
	}
}

type SendMessageInput struct {
	Text string `json:"text"`
}

// HandleSendMessage appends a message authored by the active session user.
// The reply-generation attempt, when triggered, runs after this response is sent.
func HandleSendMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input SendMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		msg, customErr := deps.Log.Send(input.Text)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"message": msg,
		})
	}
}

type TranslateInput struct {
	MessageID string `json:"messageId"`
}

// HandleTranslateMessage runs the translation state machine for one message and returns
// the updated message. The request blocks while the translation call is in flight.
func HandleTranslateMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input TranslateInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		msg, customErr := deps.Log.Translate(r.Context(), input.MessageID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"message": msg,
		})
	}
}

// HandleClearChat empties the message log. The log is immediately re-seeded with the
// system confirmation message.
func HandleClearChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Log.Clear()

		resp.RespondSuccess(w, r, map[string]any{
			"messages": deps.Log.Messages(),
		})
	}
}
