package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/drugis/mcda-patient/model"
)

type Results struct {
	db *sql.DB
}

// BulkInsert creates a batch of results in one transaction. A token
// collision trips the unique constraint on url and fails the whole
// batch; callers treat that as a generic persistence error.
func (s Results) BulkInsert(ctx context.Context, results []model.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "insert results: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO result (questionnaire_id, answers, url)
		VALUES (?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "insert results: prepare")
	}
	defer stmt.Close()

	for _, r := range results {
		_, err = stmt.ExecContext(ctx, r.QuestionnaireID, r.Answers, r.URL)
		if err != nil {
			return errors.Wrapf(err, "insert result %q", r.URL)
		}
	}

	return errors.Wrap(tx.Commit(), "insert results: commit")
}

func (s Results) FindByURL(ctx context.Context, url string) (r model.Result, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT id, questionnaire_id, answers, url, last_visited, last_completed
		FROM result
		WHERE url = ?`,
		url,
	).Scan(&r.ID, &r.QuestionnaireID, &r.Answers, &r.URL, &r.LastVisited, &r.LastCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return r, errors.Wrapf(ErrNotFound, "result %q", url)
	}
	if err != nil {
		return r, errors.Wrapf(err, "find result %q", url)
	}
	return r, nil
}

func (s Results) FindByQuestionnaire(ctx context.Context, questionnaireID int) ([]model.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, questionnaire_id, answers, url, last_visited, last_completed
		FROM result
		WHERE questionnaire_id = ?
		ORDER BY id`,
		questionnaireID,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "find results of questionnaire %d", questionnaireID)
	}
	defer rows.Close()

	results := []model.Result{}
	for rows.Next() {
		r := model.Result{}
		err = rows.Scan(&r.ID, &r.QuestionnaireID, &r.Answers, &r.URL, &r.LastVisited, &r.LastCompleted)
		if err != nil {
			return nil, errors.Wrapf(err, "find results of questionnaire %d: scan", questionnaireID)
		}
		results = append(results, r)
	}
	return results, errors.Wrapf(rows.Err(), "find results of questionnaire %d", questionnaireID)
}

// SaveVisited bumps the visit timestamp and nothing else.
func (s Results) SaveVisited(ctx context.Context, id int, t time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE result SET last_visited = ? WHERE id = ?`,
		t,
		id,
	)
	return errors.Wrapf(err, "save visit of result %d", id)
}

// SaveAnswers overwrites the answers document and bumps the completion
// timestamp. Last write wins.
func (s Results) SaveAnswers(ctx context.Context, id int, answers model.Document, t time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE result SET answers = ?, last_completed = ? WHERE id = ?`,
		answers,
		t,
		id,
	)
	return errors.Wrapf(err, "save answers of result %d", id)
}
