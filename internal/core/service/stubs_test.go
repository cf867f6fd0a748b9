package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/devforum/qa-board/internal/core/domain"
	"github.com/devforum/qa-board/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories. Each mirrors the query semantics of the Mongo
// adapter it stands in for.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User // keyed by ID
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// add stores a user directly, bypassing hashing. Used to seed tests.
func (r *stubUserRepo) add(id, username, role string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := &domain.User{ID: id, Username: username, Email: username + "@example.com", Role: role}
	r.users[id] = u
	return cloneUser(u)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	stored := cloneUser(user)
	stored.ID = "u" + strconv.Itoa(r.seq)
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) FindByUsernames(_ context.Context, usernames []string) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[string]struct{}, len(usernames))
	for _, n := range usernames {
		want[n] = struct{}{}
	}
	var out []*domain.User
	for _, u := range r.users {
		if _, ok := want[u.Username]; ok {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id, role string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Role = role
	return cloneUser(u), nil
}

type stubSessionStore struct {
	revoked map[string]time.Duration
	err     error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{revoked: make(map[string]time.Duration)}
}

func (s *stubSessionStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.revoked[tokenID] = ttl
	return nil
}

func (s *stubSessionStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.revoked[tokenID]
	return ok, nil
}

type stubQuestionRepo struct {
	mu        sync.Mutex
	questions map[string]*domain.Question
	acceptSeq map[string]int64
	seq       int
}

func newStubQuestionRepo() *stubQuestionRepo {
	return &stubQuestionRepo{
		questions: make(map[string]*domain.Question),
		acceptSeq: make(map[string]int64),
	}
}

func cloneQuestion(q *domain.Question) *domain.Question {
	clone := *q
	clone.Tags = append([]string(nil), q.Tags...)
	return &clone
}

func (r *stubQuestionRepo) Create(_ context.Context, q *domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	q.ID = "q" + strconv.Itoa(r.seq)
	r.questions[q.ID] = cloneQuestion(q)
	return nil
}

func (r *stubQuestionRepo) FindByID(_ context.Context, id string) (*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return cloneQuestion(q), nil
}

func (r *stubQuestionRepo) List(_ context.Context, f ports.ListQuestionsFilter) ([]*domain.Question, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domain.Question
	for _, q := range r.questions {
		if f.Tag != "" && !containsString(q.Tags, f.Tag) {
			continue
		}
		if f.Search != "" {
			s := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(q.Title), s) && !strings.Contains(strings.ToLower(q.Description), s) {
				continue
			}
		}
		matched = append(matched, cloneQuestion(q))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	if f.Limit <= 0 {
		return matched, total, nil
	}
	skip := (f.Page - 1) * f.Limit
	if skip > len(matched) {
		return []*domain.Question{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubQuestionRepo) Update(_ context.Context, q *domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[q.ID]; !ok {
		return domain.ErrQuestionNotFound
	}
	r.questions[q.ID] = cloneQuestion(q)
	return nil
}

func (r *stubQuestionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(r.questions, id)
	return nil
}

func (r *stubQuestionRepo) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return domain.ErrQuestionNotFound
	}
	q.Views++
	return nil
}

func (r *stubQuestionRepo) NextAcceptSeq(_ context.Context, questionID, answerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[questionID]
	if !ok {
		return 0, domain.ErrQuestionNotFound
	}
	r.acceptSeq[questionID]++
	q.AcceptedAnswer = answerID
	return r.acceptSeq[questionID], nil
}

type stubViewCounter struct {
	seen map[string]bool
	err  error
}

func newStubViewCounter() *stubViewCounter {
	return &stubViewCounter{seen: make(map[string]bool)}
}

func (v *stubViewCounter) FirstView(_ context.Context, questionID, viewer string) (bool, error) {
	if v.err != nil {
		return false, v.err
	}
	key := questionID + "|" + viewer
	if v.seen[key] {
		return false, nil
	}
	v.seen[key] = true
	return true, nil
}

type stubAnswerRepo struct {
	mu         sync.Mutex
	answers    map[string]*domain.Answer
	acceptSeq  map[string]int64
	seq        int
	raceOnVote int // number of RecordVote calls that report a lost race

	deleteByQuestionErr error
}

func newStubAnswerRepo() *stubAnswerRepo {
	return &stubAnswerRepo{
		answers:   make(map[string]*domain.Answer),
		acceptSeq: make(map[string]int64),
	}
}

func cloneAnswer(a *domain.Answer) *domain.Answer {
	clone := *a
	clone.Voters = make(map[string]domain.VoteDirection, len(a.Voters))
	for k, v := range a.Voters {
		clone.Voters[k] = v
	}
	clone.Comments = append([]domain.Comment{}, a.Comments...)
	return &clone
}

func (r *stubAnswerRepo) Create(_ context.Context, a *domain.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	a.ID = "a" + strconv.Itoa(r.seq)
	r.answers[a.ID] = cloneAnswer(a)
	return nil
}

func (r *stubAnswerRepo) FindByID(_ context.Context, id string) (*domain.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.answers[id]
	if !ok {
		return nil, domain.ErrAnswerNotFound
	}
	return cloneAnswer(a), nil
}

func (r *stubAnswerRepo) ListByQuestion(_ context.Context, questionID string) ([]*domain.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Answer
	for _, a := range r.answers {
		if a.QuestionID == questionID {
			out = append(out, cloneAnswer(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubAnswerRepo) CountByQuestions(_ context.Context, questionIDs []string) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int64)
	for _, a := range r.answers {
		if containsString(questionIDs, a.QuestionID) {
			out[a.QuestionID]++
		}
	}
	return out, nil
}

func (r *stubAnswerRepo) UpdateText(_ context.Context, id, text string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.answers[id]
	if !ok {
		return domain.ErrAnswerNotFound
	}
	a.Text = text
	a.UpdatedAt = now
	return nil
}

func (r *stubAnswerRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.answers[id]; !ok {
		return domain.ErrAnswerNotFound
	}
	delete(r.answers, id)
	return nil
}

func (r *stubAnswerRepo) DeleteByQuestion(_ context.Context, questionID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteByQuestionErr != nil {
		return 0, r.deleteByQuestionErr
	}
	var n int64
	for id, a := range r.answers {
		if a.QuestionID == questionID {
			delete(r.answers, id)
			n++
		}
	}
	return n, nil
}

func (r *stubAnswerRepo) AddComment(_ context.Context, answerID string, c *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.answers[answerID]
	if !ok {
		return domain.ErrAnswerNotFound
	}
	r.seq++
	c.ID = "c" + strconv.Itoa(r.seq)
	a.Comments = append(a.Comments, *c)
	return nil
}

func (r *stubAnswerRepo) RemoveComment(_ context.Context, answerID, commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.answers[answerID]
	if !ok {
		return domain.ErrAnswerNotFound
	}
	for i, c := range a.Comments {
		if c.ID == commentID {
			a.Comments = append(a.Comments[:i], a.Comments[i+1:]...)
			return nil
		}
	}
	return domain.ErrCommentNotFound
}

// RecordVote is the compare-and-set: it only applies when the voter's stored
// direction still equals change.Previous.
func (r *stubAnswerRepo) RecordVote(_ context.Context, answerID, voterID string, change domain.VoteChange) (*domain.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.answers[answerID]
	if !ok {
		return nil, domain.ErrAnswerNotFound
	}
	if r.raceOnVote > 0 {
		r.raceOnVote--
		return nil, domain.ErrVoteRace
	}
	if a.Voters[voterID] != change.Previous {
		return nil, domain.ErrVoteRace
	}
	if a.Voters == nil {
		a.Voters = make(map[string]domain.VoteDirection)
	}
	a.Voters[voterID] = change.Next
	a.Votes += change.Delta
	return cloneAnswer(a), nil
}

func (r *stubAnswerRepo) MarkAccepted(_ context.Context, questionID, answerID string, seq int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.answers {
		if a.QuestionID != questionID || r.acceptSeq[id] >= seq {
			continue
		}
		a.IsAccepted = id == answerID
		r.acceptSeq[id] = seq
	}
	return nil
}

type stubNotificationRepo struct {
	mu    sync.Mutex
	items []*domain.Notification
	seq   int
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{}
}

func (r *stubNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	n.ID = "n" + strconv.Itoa(r.seq)
	clone := *n
	r.items = append(r.items, &clone)
	return nil
}

func (r *stubNotificationRepo) ListRecent(_ context.Context, userID string, limit int) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Notification
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].UserID != userID {
			continue
		}
		clone := *r.items[i]
		out = append(out, &clone)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id, userID string) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			clone := *n
			return &clone, nil
		}
	}
	return nil, domain.ErrNotificationNotFound
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, item := range r.items {
		if item.UserID == userID && !item.Read {
			item.Read = true
			n++
		}
	}
	return n, nil
}

func (r *stubNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, item := range r.items {
		if item.UserID == userID && !item.Read {
			n++
		}
	}
	return n, nil
}

// forUser returns the stored notifications addressed to userID in insert order.
func (r *stubNotificationRepo) forUser(userID string) []*domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// recordingDispatcher keeps enqueued jobs so tests can inspect or run them.
type recordingDispatcher struct {
	mu   sync.Mutex
	jobs []ports.NotificationJob
}

func (d *recordingDispatcher) Enqueue(job ports.NotificationJob) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
}

func (d *recordingDispatcher) drain() []ports.NotificationJob {
	d.mu.Lock()
	defer d.mu.Unlock()
	jobs := d.jobs
	d.jobs = nil
	return jobs
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
