package handler

import (
	"friendhub/internal/app/chat"
	"friendhub/internal/app/identity"
	"friendhub/internal/app/tabs"
	"friendhub/internal/app/view"
	"friendhub/internal/configs"
)

type AppDeps struct {
	Config   *configs.AppConfig
	Identity *identity.Service
	Log      *chat.Log
	Hub      *tabs.Hub
	View     *view.Controller
}
