package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/drugis/mcda-patient/app"
	"github.com/drugis/mcda-patient/config"
	"github.com/drugis/mcda-patient/database"
	"github.com/drugis/mcda-patient/log"
	"github.com/drugis/mcda-patient/routes"
	"github.com/drugis/mcda-patient/store"
	"github.com/drugis/mcda-patient/view"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	renderer, err := view.NewTemplates("resources/views")
	if err != nil {
		log.Fatal("main.views:", err)
	}

	app := app.App{
		Store:    store.New(db),
		Renderer: renderer,
		Config:   cfg,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
