package app

import (
	"github.com/drugis/mcda-patient/config"
	"github.com/drugis/mcda-patient/store"
	"github.com/drugis/mcda-patient/view"
)

type App struct {
	store.Store
	view.Renderer
	config.Config
}
