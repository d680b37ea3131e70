/*
Package handler provides HTTP handler functions for screen routing.
*/
package handler

import (
	"net/http"

	"friendhub/internal/app/view"
	"friendhub/internal/pkg/req"
	"friendhub/internal/pkg/resp"
)

// HandleGetView returns the screen to show for the current state.
func HandleGetView(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"screen": deps.View.Current(),
		})
	}
}

type NavigateInput struct {
	Screen string `json:"screen"`
}

// HandleNavigate switches between the login and registration screens.
func HandleNavigate(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input NavigateInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := deps.View.Navigate(view.Screen(input.Screen)); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"screen": deps.View.Current(),
		})
	}
}
