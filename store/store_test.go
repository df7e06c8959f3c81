package store_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/drugis/mcda-patient/config"
	"github.com/drugis/mcda-patient/database"
	"github.com/drugis/mcda-patient/model"
	"github.com/drugis/mcda-patient/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	cfg := config.Config{
		DBUrl: "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared",
	}
	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return store.New(db)
}

func mustInsert(t *testing.T, s store.Store, title string) int {
	t.Helper()
	id, err := s.Questionnaires.Insert(context.Background(), model.Questionnaire{
		Title:     title,
		Problem:   model.Document(`{}`),
		Questions: model.Document(`[]`),
	})
	if err != nil {
		t.Fatalf("insert questionnaire: %v", err)
	}
	return id
}

func TestQuestionnaireInsertAndFind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := mustInsert(t, s, "T")
	if id < 1 {
		t.Fatalf("expected auto-assigned id, got %d", id)
	}

	q, err := s.Questionnaires.FindByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if q.Title != "T" || string(q.Problem) != `{}` || string(q.Questions) != `[]` {
		t.Errorf("round trip changed row: %+v", q)
	}
}

func TestQuestionnaireFindByIDNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Questionnaires.FindByID(context.Background(), 99)
	if !store.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQuestionnaireFindAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	all, err := s.Questionnaires.FindAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty slice, got %d rows", len(all))
	}

	first := mustInsert(t, s, "first")
	second := mustInsert(t, s, "second")

	all, err = s.Questionnaires.FindAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != first || all[1].ID != second {
		t.Errorf("expected rows in id order, got %+v", all)
	}
}

func TestQuestionnaireUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := mustInsert(t, s, "before")

	err := s.Questionnaires.Update(ctx, model.Questionnaire{
		ID:        id,
		Title:     "after",
		Problem:   model.Document(`{"goal":"pick one"}`),
		Questions: model.Document(`["q1"]`),
	})
	if err != nil {
		t.Fatal(err)
	}

	q, err := s.Questionnaires.FindByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if q.Title != "after" || string(q.Problem) != `{"goal":"pick one"}` {
		t.Errorf("update did not persist: %+v", q)
	}
}

func TestQuestionnaireUpdateMissingRow(t *testing.T) {
	s := newTestStore(t)

	err := s.Questionnaires.Update(context.Background(), model.Questionnaire{ID: 404, Title: "x"})
	if !store.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResultBulkInsertAndFind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	qid := mustInsert(t, s, "T")

	err := s.Results.BulkInsert(ctx, []model.Result{
		{QuestionnaireID: qid, URL: "abc12345"},
		{QuestionnaireID: qid, URL: "def67890"},
	})
	if err != nil {
		t.Fatal(err)
	}

	results, err := s.Results.FindByQuestionnaire(ctx, qid)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if len(r.Answers) != 0 || r.LastVisited != nil || r.LastCompleted != nil {
			t.Errorf("fresh result should be empty: %+v", r)
		}
	}

	one, err := s.Results.FindByURL(ctx, "abc12345")
	if err != nil {
		t.Fatal(err)
	}
	if one.QuestionnaireID != qid {
		t.Errorf("expected questionnaire %d, got %d", qid, one.QuestionnaireID)
	}
}

func TestResultBulkInsertEmpty(t *testing.T) {
	s := newTestStore(t)

	err := s.Results.BulkInsert(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
}

func TestResultBulkInsertDuplicateURL(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	qid := mustInsert(t, s, "T")

	err := s.Results.BulkInsert(ctx, []model.Result{
		{QuestionnaireID: qid, URL: "same0000"},
		{QuestionnaireID: qid, URL: "same0000"},
	})
	if err == nil {
		t.Fatal("expected unique constraint failure")
	}

	// failed batch must not leave partial rows behind
	results, err := s.Results.FindByQuestionnaire(ctx, qid)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no rows after failed batch, got %d", len(results))
	}
}

func TestResultBulkInsertMissingQuestionnaire(t *testing.T) {
	s := newTestStore(t)

	err := s.Results.BulkInsert(context.Background(), []model.Result{
		{QuestionnaireID: 404, URL: "orphan00"},
	})
	if err == nil {
		t.Fatal("expected foreign key failure")
	}
}

func TestResultFindByURLNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Results.FindByURL(context.Background(), "zzzzzzzz")
	if !store.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveVisitedTouchesOnlyVisitTimestamp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	qid := mustInsert(t, s, "T")
	if err := s.Results.BulkInsert(ctx, []model.Result{{QuestionnaireID: qid, URL: "abc12345"}}); err != nil {
		t.Fatal(err)
	}
	r, _ := s.Results.FindByURL(ctx, "abc12345")

	if err := s.Results.SaveAnswers(ctx, r.ID, model.Document(`{"q1":"yes"}`), time.Now()); err != nil {
		t.Fatal(err)
	}
	before, _ := s.Results.FindByURL(ctx, "abc12345")

	visit := time.Now()
	if err := s.Results.SaveVisited(ctx, r.ID, visit); err != nil {
		t.Fatal(err)
	}

	after, err := s.Results.FindByURL(ctx, "abc12345")
	if err != nil {
		t.Fatal(err)
	}
	if after.LastVisited == nil {
		t.Fatal("expected last_visited to be set")
	}
	if string(after.Answers) != string(before.Answers) {
		t.Errorf("visit changed answers: %s != %s", after.Answers, before.Answers)
	}
	if before.LastCompleted == nil || after.LastCompleted == nil ||
		!after.LastCompleted.Equal(*before.LastCompleted) {
		t.Errorf("visit changed last_completed: %v != %v", after.LastCompleted, before.LastCompleted)
	}
}

func TestSaveAnswersOverwritesAndBumpsCompleted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	qid := mustInsert(t, s, "T")
	if err := s.Results.BulkInsert(ctx, []model.Result{{QuestionnaireID: qid, URL: "abc12345"}}); err != nil {
		t.Fatal(err)
	}
	r, _ := s.Results.FindByURL(ctx, "abc12345")

	submitted := time.Now()
	if err := s.Results.SaveAnswers(ctx, r.ID, model.Document(`{"q1":"yes"}`), submitted); err != nil {
		t.Fatal(err)
	}

	saved, err := s.Results.FindByURL(ctx, "abc12345")
	if err != nil {
		t.Fatal(err)
	}
	if string(saved.Answers) != `{"q1":"yes"}` {
		t.Errorf("answers = %s", saved.Answers)
	}
	if saved.LastCompleted == nil || saved.LastCompleted.Before(submitted.Truncate(time.Second)) {
		t.Errorf("last_completed = %v, want >= %v", saved.LastCompleted, submitted)
	}

	// resubmission always allowed, last write wins
	if err := s.Results.SaveAnswers(ctx, r.ID, model.Document(`{"q1":"no"}`), time.Now()); err != nil {
		t.Fatal(err)
	}
	saved, _ = s.Results.FindByURL(ctx, "abc12345")
	if string(saved.Answers) != `{"q1":"no"}` {
		t.Errorf("resubmission did not overwrite: %s", saved.Answers)
	}
}
