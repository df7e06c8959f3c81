package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/drugis/mcda-patient/app"
	"github.com/drugis/mcda-patient/httpx"
	"github.com/drugis/mcda-patient/log"
	"github.com/drugis/mcda-patient/model"
)

func Index(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app.Render(w, http.StatusOK, "index.html", map[string]any{
			"host": app.WebHost,
		})
	}
}

func TakeSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url := chi.URLParam(r, "survey")

		result, err := app.Results.FindByURL(r.Context(), url)
		if err != nil {
			log.Debugf("take_survey: %s", err)
			app.Render(w, http.StatusNotFound, "surveyNotFound.html", map[string]any{
				"host": app.WebHost,
				"url":  url,
			})
			return
		}

		qnaire, err := app.Questionnaires.FindByID(r.Context(), result.QuestionnaireID)
		if err != nil {
			// plain-text 404 naming the numeric id, unlike the pretty
			// page the token lookup gets; long-standing asymmetry,
			// kept until product decides otherwise
			httpx.LogNotFoundf(w, "take_survey.questionnaire", "Questionnaire %d not found", result.QuestionnaireID)
			return
		}

		now := time.Now()
		result.LastVisited = &now

		// fire and forget: the response does not wait for the visit
		// timestamp to land, and a failure is only ever logged
		go func() {
			err := app.Results.SaveVisited(context.Background(), result.ID, now)
			if err != nil {
				log.Errorf("db.save_visited: %s", err)
				return
			}
			log.Info("updated")
		}()

		app.Render(w, http.StatusOK, "home.html", map[string]any{
			"info": map[string]any{
				"id":          url,
				"title":       qnaire.Title,
				"problem":     qnaire.Problem,
				"questions":   qnaire.Questions,
				"answers":     result.Answers,
				"lastVisited": result.LastVisited,
				"lastSaved":   result.LastCompleted,
			},
		})
	}
}

func SubmitAnswers(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url := chi.URLParam(r, "survey")

		result, err := app.Results.FindByURL(r.Context(), url)
		if err != nil {
			httpx.LogNotFoundf(w, "submit_answers", "Survey with ID %s not found", url)
			return
		}

		answers, err := readAnswers(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		err = app.Results.SaveAnswers(r.Context(), result.ID, answers, time.Now())
		if err != nil {
			httpx.LogInternalError(w, "db.save_answers", err)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

// readAnswers captures the whole request body as the answers document:
// JSON bodies verbatim, urlencoded form bodies as an object of field
// values (string, or list of strings for repeated fields).
func readAnswers(r *http.Request) (model.Document, error) {
	if strings.Contains(r.Header.Get("Content-Type"), "json") {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, errors.Wrap(err, "read body")
		}
		return model.Parse(string(body))
	}

	err := r.ParseForm()
	if err != nil {
		return nil, errors.Wrap(err, "parse form")
	}

	fields := make(map[string]any, len(r.PostForm))
	for name, values := range r.PostForm {
		if len(values) == 1 {
			fields[name] = values[0]
		} else {
			fields[name] = values
		}
	}

	body, err := json.Marshal(fields)
	if err != nil {
		return nil, errors.Wrap(err, "encode form fields")
	}
	return model.Document(body), nil
}
