package handler

import (
	"collabboard/internal/app/board"
	"collabboard/internal/app/db"
	"collabboard/internal/configs"
)

type AppDeps struct {
	Coordinator *board.Coordinator
	Config      *configs.AppConfig
	DB          *db.Store
}
