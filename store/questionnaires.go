package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/drugis/mcda-patient/model"
)

type Questionnaires struct {
	db *sql.DB
}

// Insert creates a questionnaire and returns its assigned id.
func (s Questionnaires) Insert(ctx context.Context, q model.Questionnaire) (int, error) {
	var id int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO questionnaire (title, problem, questions) VALUES (?, ?, ?)
		RETURNING id`,
		q.Title,
		q.Problem,
		q.Questions,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert questionnaire")
	}
	return id, nil
}

func (s Questionnaires) FindByID(ctx context.Context, id int) (q model.Questionnaire, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT id, title, problem, questions
		FROM questionnaire
		WHERE id = ?`,
		id,
	).Scan(&q.ID, &q.Title, &q.Problem, &q.Questions)
	if errors.Is(err, sql.ErrNoRows) {
		return q, errors.Wrapf(ErrNotFound, "questionnaire %d", id)
	}
	if err != nil {
		return q, errors.Wrapf(err, "find questionnaire %d", id)
	}
	return q, nil
}

func (s Questionnaires) FindAll(ctx context.Context) ([]model.Questionnaire, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, problem, questions
		FROM questionnaire
		ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "find questionnaires")
	}
	defer rows.Close()

	qnaires := []model.Questionnaire{}
	for rows.Next() {
		q := model.Questionnaire{}
		err = rows.Scan(&q.ID, &q.Title, &q.Problem, &q.Questions)
		if err != nil {
			return nil, errors.Wrap(err, "find questionnaires: scan")
		}
		qnaires = append(qnaires, q)
	}
	return qnaires, errors.Wrap(rows.Err(), "find questionnaires")
}

// Update merges title, problem and questions into an existing row.
func (s Questionnaires) Update(ctx context.Context, q model.Questionnaire) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE questionnaire
		SET title = ?, problem = ?, questions = ?
		WHERE id = ?`,
		q.Title,
		q.Problem,
		q.Questions,
		q.ID,
	)
	if err != nil {
		return errors.Wrapf(err, "update questionnaire %d", q.ID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "update questionnaire %d: verify", q.ID)
	}
	if n < 1 {
		return errors.Wrapf(ErrNotFound, "questionnaire %d", q.ID)
	}
	return nil
}
