package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devforum/qa-board/internal/api/metrics"
	"github.com/devforum/qa-board/internal/core/domain"
	"github.com/devforum/qa-board/internal/core/ports"
)

// AnswerHandler handles HTTP requests for answers, their comments, votes and
// acceptance.
type AnswerHandler struct {
	service ports.AnswerService
}

func NewAnswerHandler(service ports.AnswerService) *AnswerHandler {
	return &AnswerHandler{service: service}
}

// Create handles POST /answers.
//
// @Summary      Answer a question
// @Description  Notifies the question author and any @mentioned users.
// @Tags         answers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAnswerRequest  true  "Answer"
// @Success      201   {object}  domain.Answer
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /answers [post]
func (h *AnswerHandler) Create(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req createAnswerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	a, err := h.service.Create(c.Request().Context(), ports.CreateAnswerInput{
		QuestionID: req.QuestionID,
		AuthorID:   p.UserID,
		Text:       req.Text,
	})
	if err != nil {
		return err
	}

	metrics.ContentCreatedTotal.WithLabelValues("answer").Inc()
	return c.JSON(http.StatusCreated, a)
}

// ListByQuestion handles GET /answers/:questionId.
//
// @Summary      List answers of a question
// @Description  Newest first, with authors and comments.
// @Tags         answers
// @Produce      json
// @Param        questionId  path      string  true  "Question ID"
// @Success      200         {array}   domain.Answer
// @Router       /answers/{questionId} [get]
func (h *AnswerHandler) ListByQuestion(c echo.Context) error {
	as, err := h.service.ListByQuestion(c.Request().Context(), c.Param("questionId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, as)
}

// Get handles GET /answers/single/:id.
//
// @Summary      Get an answer
// @Tags         answers
// @Produce      json
// @Param        id   path      string  true  "Answer ID"
// @Success      200  {object}  domain.Answer
// @Failure      404  {object}  map[string]string
// @Router       /answers/single/{id} [get]
func (h *AnswerHandler) Get(c echo.Context) error {
	a, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Update handles PATCH /answers/:id. Only the author may edit.
//
// @Summary      Edit an answer
// @Tags         answers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Answer ID"
// @Param        body  body      updateAnswerRequest  true  "New text"
// @Success      200   {object}  domain.Answer
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /answers/{id} [patch]
func (h *AnswerHandler) Update(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req updateAnswerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	a, err := h.service.Update(c.Request().Context(), c.Param("id"), p.UserID, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Delete handles DELETE /answers/:id. Authors and admins only.
//
// @Summary      Delete an answer
// @Tags         answers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Answer ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /answers/{id} [delete]
func (h *AnswerHandler) Delete(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), p.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Answer deleted successfully"})
}

// AddComment handles POST /answers/:id/comments.
//
// @Summary      Comment on an answer
// @Description  Notifies the answer author and any @mentioned users.
// @Tags         answers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Answer ID"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      201   {object}  domain.Comment
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /answers/{id}/comments [post]
func (h *AnswerHandler) AddComment(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cm, err := h.service.AddComment(c.Request().Context(), c.Param("id"), p.UserID, req.Text)
	if err != nil {
		return err
	}

	metrics.ContentCreatedTotal.WithLabelValues("comment").Inc()
	return c.JSON(http.StatusCreated, cm)
}

// DeleteComment handles DELETE /answers/:answerId/comments/:commentId.
//
// @Summary      Delete a comment
// @Tags         answers
// @Produce      json
// @Security     BearerAuth
// @Param        answerId   path      string  true  "Answer ID"
// @Param        commentId  path      string  true  "Comment ID"
// @Success      200        {object}  messageResponse
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /answers/{answerId}/comments/{commentId} [delete]
func (h *AnswerHandler) DeleteComment(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	err = h.service.DeleteComment(c.Request().Context(), c.Param("answerId"), c.Param("commentId"), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Comment deleted successfully"})
}

// Vote handles PATCH /answers/:id/vote.
//
// @Summary      Vote on an answer
// @Description  Switching direction moves the total by two; repeating a vote is rejected.
// @Tags         answers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Answer ID"
// @Param        body  body      voteRequest  true  "up or down"
// @Success      200   {object}  domain.Answer
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /answers/{id}/vote [patch]
func (h *AnswerHandler) Vote(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req voteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	a, err := h.service.Vote(c.Request().Context(), c.Param("id"), p.UserID, req.Type)
	metrics.VotesTotal.WithLabelValues(voteDirection(req.Type), voteResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// voteDirection keeps the metric label set bounded.
func voteDirection(d domain.VoteDirection) string {
	if d.Valid() {
		return string(d)
	}
	return "invalid"
}

func voteResult(err error) string {
	switch {
	case err == nil:
		return "recorded"
	case errors.Is(err, domain.ErrDuplicateVote):
		return "duplicate"
	default:
		return "error"
	}
}

// Accept handles PATCH /answers/:id/accept. Only the question author may
// accept; the previously accepted answer, if any, is unmarked.
//
// @Summary      Accept an answer
// @Tags         answers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Answer ID"
// @Success      200  {object}  acceptResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /answers/{id}/accept [patch]
func (h *AnswerHandler) Accept(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	as, err := h.service.Accept(c.Request().Context(), c.Param("id"), p.UserID)
	if err != nil {
		return err
	}

	metrics.AcceptsTotal.Inc()
	return c.JSON(http.StatusOK, acceptResponse{Message: "Answer accepted successfully", Answers: as})
}
