package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"

	"github.com/drugis/mcda-patient/app"
	"github.com/drugis/mcda-patient/routes/middlewares"
	"github.com/drugis/mcda-patient/token"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Get("/", Index(app))

	root.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.SharedPassword("admin", app.AdminPassword))

		r.Get("/", ListQuestionnaires(app))
		r.Get("/new/edit", NewQuestionnaireForm(app))
		r.Post("/new", CreateQuestionnaire(app))
		r.Get("/{id}/edit", EditQuestionnaireForm(app))
		r.Post("/{id}", UpdateQuestionnaire(app))
		r.Post("/{id}/generate-urls", GenerateURLs(app))
		r.Get("/{id}", ViewQuestionnaire(app))
		r.Get("/{id}/export-urls", ExportURLs(app))
		r.Get("/{id}/export-results", ExportResults(app))
	})

	// 8-char base-36 tokens; anything else falls through to static files
	surveyPattern := fmt.Sprintf(`/{survey:[0-9a-z]{%d}}`, token.Length)
	root.Get(surveyPattern, TakeSurvey(app))
	root.Post(surveyPattern, SubmitAnswers(app))

	root.Handle("/*", servePublicFiles())

	return root
}

func servePublicFiles() http.Handler {
	files := http.FileServer(http.Dir("resources/public"))
	return middlewares.CacheControl(24 * time.Hour)(files)
}
