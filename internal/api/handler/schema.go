package handler

import "github.com/devforum/qa-board/internal/core/domain"

// --- Questions ---

type createQuestionRequest struct {
	Title       string   `json:"title" validate:"required,max=300"`
	Description string   `json:"description" validate:"required"`
	Tags        []string `json:"tags" validate:"dive,max=35"`
}

// updateQuestionRequest is a partial edit: absent fields stay unchanged.
type updateQuestionRequest struct {
	Title       *string  `json:"title" validate:"omitempty,max=300"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags" validate:"omitempty,dive,max=35"`
}

// --- Answers ---

type createAnswerRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
	Text       string `json:"text" validate:"required"`
}

type updateAnswerRequest struct {
	Text string `json:"text" validate:"required"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// voteRequest carries "up" or "down"; anything else is rejected by the
// ledger with "invalid vote type".
type voteRequest struct {
	Type domain.VoteDirection `json:"type"`
}

type acceptResponse struct {
	Message string           `json:"message"`
	Answers []*domain.Answer `json:"answers"`
}

// --- Notifications ---

type unreadCountResponse struct {
	Count int64 `json:"count"`
}

type markAllReadResponse struct {
	Updated int64 `json:"updated"`
}
