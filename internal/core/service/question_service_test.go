package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/devforum/qa-board/internal/core/domain"
	"github.com/devforum/qa-board/internal/core/ports"
)

type questionFixture struct {
	users     *stubUserRepo
	questions *stubQuestionRepo
	answers   *stubAnswerRepo
	views     *stubViewCounter
	svc       *QuestionService
}

func newQuestionFixture() *questionFixture {
	f := &questionFixture{
		users:     newStubUserRepo(),
		questions: newStubQuestionRepo(),
		answers:   newStubAnswerRepo(),
		views:     newStubViewCounter(),
	}
	f.svc = NewQuestionService(f.questions, f.answers, f.users, f.views, zerolog.Nop())
	f.users.add("alice", "alice", domain.RoleUser)
	f.users.add("bob", "bob", domain.RoleUser)
	f.users.add("root", "root", domain.RoleAdmin)
	return f
}

func (f *questionFixture) ask(t *testing.T, author, title string, tags ...string) *domain.Question {
	t.Helper()
	q, err := f.svc.Create(context.Background(), ports.CreateQuestionInput{
		AuthorID:    author,
		Title:       title,
		Description: "<p>details</p>",
		Tags:        tags,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return q
}

func TestQuestionService_Create(t *testing.T) {
	f := newQuestionFixture()

	q, err := f.svc.Create(context.Background(), ports.CreateQuestionInput{
		AuthorID:    "alice",
		Title:       "  How do channels work?  ",
		Description: `<p>Explain</p><script>alert(1)</script>`,
		Tags:        []string{"Go", "go", "Concurrency"},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if q.ID == "" {
		t.Fatalf("expected ID to be assigned")
	}
	if q.Title != "How do channels work?" {
		t.Fatalf("unexpected title %q", q.Title)
	}
	if q.Description != "<p>Explain</p>" {
		t.Fatalf("expected sanitized description, got %q", q.Description)
	}
	if len(q.Tags) != 2 || q.Tags[0] != "go" || q.Tags[1] != "concurrency" {
		t.Fatalf("unexpected tags %v", q.Tags)
	}
	if q.Views != 0 || q.AcceptedAnswer != "" {
		t.Fatalf("expected fresh counters, got views=%d accepted=%q", q.Views, q.AcceptedAnswer)
	}
	if q.Author == nil || q.Author.Username != "alice" {
		t.Fatalf("expected populated author, got %+v", q.Author)
	}
}

func TestQuestionService_Create_Validation(t *testing.T) {
	f := newQuestionFixture()

	cases := []ports.CreateQuestionInput{
		{AuthorID: "alice", Title: "", Description: "body"},
		{AuthorID: "alice", Title: "title", Description: "   "},
		{AuthorID: "alice", Title: "title", Description: "<script>x</script>"},
	}
	for _, in := range cases {
		if _, err := f.svc.Create(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error for %+v, got %v", in, err)
		}
	}
}

func TestQuestionService_List_FiltersAndCounts(t *testing.T) {
	f := newQuestionFixture()
	first := f.ask(t, "alice", "Goroutines", "go")
	time.Sleep(time.Millisecond)
	second := f.ask(t, "bob", "Indexes in Mongo", "mongodb")

	if err := f.answers.Create(context.Background(), &domain.Answer{QuestionID: first.ID, AuthorID: "bob"}); err != nil {
		t.Fatalf("seed answer: %v", err)
	}

	qs, total, err := f.svc.List(context.Background(), ports.ListQuestionsInput{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 2 || len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d (total %d)", len(qs), total)
	}
	if qs[0].ID != second.ID {
		t.Fatalf("expected newest first")
	}
	if qs[1].AnswersCount != 1 || qs[0].AnswersCount != 0 {
		t.Fatalf("unexpected answer counts: %d, %d", qs[0].AnswersCount, qs[1].AnswersCount)
	}

	qs, total, err = f.svc.List(context.Background(), ports.ListQuestionsInput{Tag: " GO "})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 1 || qs[0].ID != first.ID {
		t.Fatalf("expected tag filter to match the first question")
	}

	qs, _, err = f.svc.List(context.Background(), ports.ListQuestionsInput{Search: "mongo"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(qs) != 1 || qs[0].ID != second.ID {
		t.Fatalf("expected search to match the second question")
	}
}

func TestQuestionService_List_Empty(t *testing.T) {
	f := newQuestionFixture()

	qs, total, err := f.svc.List(context.Background(), ports.ListQuestionsInput{Limit: 500})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if qs == nil || len(qs) != 0 || total != 0 {
		t.Fatalf("expected empty non-nil list, got %v (total %d)", qs, total)
	}
}

func TestQuestionService_Get_CountsViewOncePerViewer(t *testing.T) {
	f := newQuestionFixture()
	q := f.ask(t, "alice", "Views")

	for i := 0; i < 3; i++ {
		if _, err := f.svc.Get(context.Background(), q.ID, "bob"); err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
	}
	got, err := f.svc.Get(context.Background(), q.ID, "10.0.0.1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Views != 2 {
		t.Fatalf("expected 2 distinct views, got %d", got.Views)
	}

	got, err = f.svc.Get(context.Background(), q.ID, "")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Views != 2 {
		t.Fatalf("anonymous read without key must not count, got %d", got.Views)
	}
}

func TestQuestionService_Get_ViewCounterFailureIsIgnored(t *testing.T) {
	f := newQuestionFixture()
	q := f.ask(t, "alice", "Views")
	f.views.err = errors.New("redis down")

	got, err := f.svc.Get(context.Background(), q.ID, "bob")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Views != 0 {
		t.Fatalf("expected view not to be counted, got %d", got.Views)
	}
}

func TestQuestionService_Get_NotFound(t *testing.T) {
	f := newQuestionFixture()

	if _, err := f.svc.Get(context.Background(), "missing", "bob"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestQuestionService_Update_AuthorOnly(t *testing.T) {
	f := newQuestionFixture()
	q := f.ask(t, "alice", "Original")
	title := "Edited"

	_, err := f.svc.Update(context.Background(), ports.UpdateQuestionInput{ID: q.ID, ActorID: "root", Title: &title})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected admins to be unable to edit, got %v", err)
	}

	empty := "   "
	updated, err := f.svc.Update(context.Background(), ports.UpdateQuestionInput{
		ID:          q.ID,
		ActorID:     "alice",
		Title:       &title,
		Description: &empty,
		Tags:        []string{"Edit"},
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "Edited" || updated.Description != "<p>details</p>" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "edit" {
		t.Fatalf("unexpected tags %v", updated.Tags)
	}
}

func TestQuestionService_Delete_CascadesAnswers(t *testing.T) {
	f := newQuestionFixture()
	q := f.ask(t, "alice", "Cascade")
	other := f.ask(t, "alice", "Keep")
	for _, qid := range []string{q.ID, q.ID, other.ID} {
		if err := f.answers.Create(context.Background(), &domain.Answer{QuestionID: qid, AuthorID: "bob"}); err != nil {
			t.Fatalf("seed answer: %v", err)
		}
	}

	if err := f.svc.Delete(context.Background(), q.ID, "bob"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for non-author, got %v", err)
	}

	if err := f.svc.Delete(context.Background(), q.ID, "alice"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := f.questions.FindByID(context.Background(), q.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected question to be gone, got %v", err)
	}
	if left, _ := f.answers.ListByQuestion(context.Background(), q.ID); len(left) != 0 {
		t.Fatalf("expected answers to be removed, %d left", len(left))
	}
	if kept, _ := f.answers.ListByQuestion(context.Background(), other.ID); len(kept) != 1 {
		t.Fatalf("expected unrelated answers to survive, got %d", len(kept))
	}
}

func TestQuestionService_Delete_Admin(t *testing.T) {
	f := newQuestionFixture()
	q := f.ask(t, "alice", "Moderated")

	if err := f.svc.Delete(context.Background(), q.ID, "root"); err != nil {
		t.Fatalf("expected admin delete to succeed, got %v", err)
	}
}

func TestQuestionService_Delete_AnswerCleanupFailureKeepsQuestion(t *testing.T) {
	f := newQuestionFixture()
	q := f.ask(t, "alice", "Retry me")
	if err := f.answers.Create(context.Background(), &domain.Answer{QuestionID: q.ID, AuthorID: "bob"}); err != nil {
		t.Fatalf("seed answer: %v", err)
	}
	f.answers.deleteByQuestionErr = errors.New("mongo: write concern timeout")

	if err := f.svc.Delete(context.Background(), q.ID, "alice"); err == nil {
		t.Fatalf("expected an error when answers cannot be removed")
	}
	if _, err := f.questions.FindByID(context.Background(), q.ID); err != nil {
		t.Fatalf("expected question to survive a failed cleanup, got %v", err)
	}

	f.answers.deleteByQuestionErr = nil
	if err := f.svc.Delete(context.Background(), q.ID, "alice"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if left, _ := f.answers.ListByQuestion(context.Background(), q.ID); len(left) != 0 {
		t.Fatalf("expected answers to be removed on retry, %d left", len(left))
	}
}
