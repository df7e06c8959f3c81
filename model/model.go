package model

import "time"

type Questionnaire struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Problem   Document `json:"problem"`
	Questions Document `json:"questions"`
}

type Result struct {
	ID              int        `json:"id"`
	QuestionnaireID int        `json:"questionnaire_id"`
	Answers         Document   `json:"answers"`
	URL             string     `json:"url"`
	LastVisited     *time.Time `json:"last_visited"`
	LastCompleted   *time.Time `json:"last_completed"`
}
