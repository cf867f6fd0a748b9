package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/devforum/qa-board/internal/api/metrics"
	"github.com/devforum/qa-board/internal/core/domain"
	"github.com/devforum/qa-board/internal/core/ports"
)

// HeaderTotalCount carries the number of questions matching a list query.
const HeaderTotalCount = "X-Total-Count"

// QuestionHandler handles HTTP requests for questions.
type QuestionHandler struct {
	service ports.QuestionService
}

func NewQuestionHandler(service ports.QuestionService) *QuestionHandler {
	return &QuestionHandler{service: service}
}

// List handles GET /questions.
//
// @Summary      List questions
// @Description  Newest first, with author and answer count. Paging is off unless limit is set.
// @Tags         questions
// @Produce      json
// @Param        tag     query     string  false  "Exact tag"
// @Param        search  query     string  false  "Case-insensitive text in title or description"
// @Param        page    query     int     false  "1-based page"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Success      200     {array}   domain.Question
// @Header       200     {integer}  X-Total-Count  "Total matching questions"
// @Failure      400     {object}  map[string]string
// @Router       /questions [get]
func (h *QuestionHandler) List(c echo.Context) error {
	var in ports.ListQuestionsInput
	if err := echo.QueryParamsBinder(c).
		String("tag", &in.Tag).
		String("search", &in.Search).
		Int("page", &in.Page).
		Int("limit", &in.Limit).
		BindError(); err != nil {
		return domain.Invalid("page and limit must be integers")
	}

	qs, total, err := h.service.List(c.Request().Context(), in)
	if err != nil {
		return err
	}

	c.Response().Header().Set(HeaderTotalCount, strconv.FormatInt(total, 10))
	return c.JSON(http.StatusOK, qs)
}

// Get handles GET /questions/:id.
//
// @Summary      Get a question
// @Description  Counts one view per viewer per window.
// @Tags         questions
// @Produce      json
// @Param        id   path      string  true  "Question ID"
// @Success      200  {object}  domain.Question
// @Failure      404  {object}  map[string]string
// @Router       /questions/{id} [get]
func (h *QuestionHandler) Get(c echo.Context) error {
	q, err := h.service.Get(c.Request().Context(), c.Param("id"), viewerKey(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, q)
}

// Create handles POST /questions.
//
// @Summary      Ask a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createQuestionRequest  true  "Question"
// @Success      201   {object}  domain.Question
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /questions [post]
func (h *QuestionHandler) Create(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req createQuestionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	q, err := h.service.Create(c.Request().Context(), ports.CreateQuestionInput{
		AuthorID:    p.UserID,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		return err
	}

	metrics.ContentCreatedTotal.WithLabelValues("question").Inc()
	return c.JSON(http.StatusCreated, q)
}

// Update handles PATCH /questions/:id. Only the author may edit.
//
// @Summary      Edit a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Question ID"
// @Param        body  body      updateQuestionRequest  true  "Fields to change"
// @Success      200   {object}  domain.Question
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /questions/{id} [patch]
func (h *QuestionHandler) Update(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req updateQuestionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	q, err := h.service.Update(c.Request().Context(), ports.UpdateQuestionInput{
		ID:          c.Param("id"),
		ActorID:     p.UserID,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, q)
}

// Delete handles DELETE /questions/:id. Removes every answer as well.
//
// @Summary      Delete a question
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Question ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /questions/{id} [delete]
func (h *QuestionHandler) Delete(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), p.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Question deleted successfully"})
}
