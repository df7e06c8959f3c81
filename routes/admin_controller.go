package routes

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ajg/form"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/drugis/mcda-patient/app"
	"github.com/drugis/mcda-patient/httpx"
	"github.com/drugis/mcda-patient/model"
	"github.com/drugis/mcda-patient/token"
)

type questionnaireForm struct {
	Title     string `form:"title"`
	Problem   string `form:"problem"`
	Questions string `form:"questions"`
}

type generateURLsForm struct {
	URLs int `form:"urls"`
}

// parseQuestionnaireForm decodes an admin edit-form post. A JSON parse
// failure on problem/questions surfaces through the generic 500 path,
// not as a 400; the admin client pre-validates its input.
func parseQuestionnaireForm(r *http.Request) (q model.Questionnaire, err error) {
	var body questionnaireForm
	err = form.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		return q, errors.Wrap(err, "decode form")
	}

	q.Title = body.Title
	q.Problem, err = model.Parse(body.Problem)
	if err != nil {
		return q, errors.Wrap(err, "problem")
	}
	q.Questions, err = model.Parse(body.Questions)
	if err != nil {
		return q, errors.Wrap(err, "questions")
	}
	return q, nil
}

func ListQuestionnaires(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qnaires, err := app.Questionnaires.FindAll(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.get_questionnaires", err)
			return
		}

		app.Render(w, http.StatusOK, "admin/home.html", map[string]any{
			"questionnaires": qnaires,
		})
	}
}

func NewQuestionnaireForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app.Render(w, http.StatusOK, "admin/edit.html", map[string]any{
			"questionnaire_id": "new",
		})
	}
}

func EditQuestionnaireForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// any failure along the lookup reads as "not found"
		rawId := chi.URLParam(r, "id")
		id, err := strconv.Atoi(rawId)
		if err != nil {
			httpx.LogNotFoundf(w, "edit_questionnaire", "Questionnaire %s not found", rawId)
			return
		}

		qnaire, err := app.Questionnaires.FindByID(r.Context(), id)
		if err != nil {
			httpx.LogNotFoundf(w, "edit_questionnaire", "Questionnaire %s not found", rawId)
			return
		}

		problem, err := qnaire.Problem.Indent()
		if err != nil {
			httpx.LogInternalError(w, "edit_questionnaire.problem", err)
			return
		}
		questions, err := qnaire.Questions.Indent()
		if err != nil {
			httpx.LogInternalError(w, "edit_questionnaire.questions", err)
			return
		}

		app.Render(w, http.StatusOK, "admin/edit.html", map[string]any{
			"questionnaire_id": qnaire.ID,
			"questionnaire": map[string]any{
				"title":     qnaire.Title,
				"problem":   problem,
				"questions": questions,
			},
		})
	}
}

func CreateQuestionnaire(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qnaire, err := parseQuestionnaireForm(r)
		if err != nil {
			httpx.LogInternalError(w, "request.parse_questionnaire", err)
			return
		}

		id, err := app.Questionnaires.Insert(r.Context(), qnaire)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_questionnaire", err)
			return
		}

		http.Redirect(w, r, fmt.Sprintf("/admin/%d", id), http.StatusFound)
	}
}

func UpdateQuestionnaire(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawId := chi.URLParam(r, "id")
		id, err := strconv.Atoi(rawId)
		if err != nil {
			httpx.LogNotFoundf(w, "update_questionnaire", "Questionnaire %s not found", rawId)
			return
		}

		qnaire, err := app.Questionnaires.FindByID(r.Context(), id)
		if err != nil {
			httpx.LogNotFoundf(w, "update_questionnaire", "Questionnaire %s not found", rawId)
			return
		}

		update, err := parseQuestionnaireForm(r)
		if err != nil {
			httpx.LogInternalError(w, "request.parse_questionnaire", err)
			return
		}
		update.ID = qnaire.ID

		err = app.Questionnaires.Update(r.Context(), update)
		if err != nil {
			httpx.LogInternalError(w, "db.update_questionnaire", err)
			return
		}

		http.Redirect(w, r, fmt.Sprintf("/admin/%d", qnaire.ID), http.StatusFound)
	}
}

func GenerateURLs(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawId := chi.URLParam(r, "id")
		id, err := strconv.Atoi(rawId)
		if err != nil {
			httpx.LogNotFoundf(w, "generate_urls", "Questionnaire %s not found", rawId)
			return
		}

		qnaire, err := app.Questionnaires.FindByID(r.Context(), id)
		if err != nil {
			httpx.LogNotFoundf(w, "generate_urls", "Questionnaire %s not found", rawId)
			return
		}

		var body generateURLsForm
		err = form.NewDecoder(r.Body).Decode(&body)
		if err != nil {
			httpx.LogInternalError(w, "request.parse_urls", err)
			return
		}
		if body.URLs < 0 {
			// a negative count generates nothing, same as zero
			body.URLs = 0
		}

		results := make([]model.Result, body.URLs)
		for i := range results {
			results[i] = model.Result{
				QuestionnaireID: qnaire.ID,
				URL:             token.New(),
			}
		}

		err = app.Results.BulkInsert(r.Context(), results)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_results", err)
			return
		}

		http.Redirect(w, r, fmt.Sprintf("/admin/%d", qnaire.ID), http.StatusFound)
	}
}

func ViewQuestionnaire(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// a missing questionnaire degrades to the generic 500 here, not
		// the dedicated 404 the edit/update routes use; long-standing
		// asymmetry, kept until product decides otherwise
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogInternalError(w, "request.get_url_param.id", err)
			return
		}

		qnaire, err := app.Questionnaires.FindByID(r.Context(), id)
		if err != nil {
			httpx.LogInternalError(w, "db.get_questionnaire", err)
			return
		}

		results, err := app.Results.FindByQuestionnaire(r.Context(), qnaire.ID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_results", err)
			return
		}

		app.Render(w, http.StatusOK, "admin/view.html", map[string]any{
			"questionnaire": qnaire,
			"results":       results,
		})
	}
}

func ExportURLs(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogInternalError(w, "request.get_url_param.id", err)
			return
		}

		// existence check only; the row itself is unused
		qnaire, err := app.Questionnaires.FindByID(r.Context(), id)
		if err != nil {
			httpx.LogInternalError(w, "db.get_questionnaire", err)
			return
		}

		results, err := app.Results.FindByQuestionnaire(r.Context(), qnaire.ID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_results", err)
			return
		}

		urls := make([]string, len(results))
		for i, res := range results {
			urls[i] = app.WebHost + "/" + res.URL
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(strings.Join(urls, "\r\n")))
	}
}

func ExportResults(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogInternalError(w, "request.get_url_param.id", err)
			return
		}

		qnaire, err := app.Questionnaires.FindByID(r.Context(), id)
		if err != nil {
			httpx.LogInternalError(w, "db.get_questionnaire", err)
			return
		}

		results, err := app.Results.FindByQuestionnaire(r.Context(), qnaire.ID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_results", err)
			return
		}

		// raw rows, internal fields included
		render.JSON(w, r, results)
	}
}
