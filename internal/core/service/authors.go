package service

import (
	"context"
	"fmt"

	"github.com/devforum/qa-board/internal/core/domain"
	"github.com/devforum/qa-board/internal/core/ports"
)

// authorDirectory resolves author IDs to public summaries with one batch
// lookup per call.
type authorDirectory struct {
	users ports.UserRepository
}

func (d authorDirectory) lookup(ctx context.Context, ids []string) (map[string]*domain.UserSummary, error) {
	out := make(map[string]*domain.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := d.users.FindByIDs(ctx, uniqueStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("resolve authors: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u.Summary()
	}
	return out, nil
}

// summaryOf returns the resolved author or a bare summary carrying only the ID
// when the user no longer resolves.
func summaryOf(byID map[string]*domain.UserSummary, id string) *domain.UserSummary {
	if s, ok := byID[id]; ok {
		return s
	}
	return &domain.UserSummary{ID: id}
}

func (d authorDirectory) populateQuestions(ctx context.Context, qs ...*domain.Question) error {
	ids := make([]string, 0, len(qs))
	for _, q := range qs {
		ids = append(ids, q.AuthorID)
	}
	byID, err := d.lookup(ctx, ids)
	if err != nil {
		return err
	}
	for _, q := range qs {
		q.Author = summaryOf(byID, q.AuthorID)
	}
	return nil
}

func (d authorDirectory) populateAnswers(ctx context.Context, as ...*domain.Answer) error {
	var ids []string
	for _, a := range as {
		ids = append(ids, a.AuthorID)
		for _, c := range a.Comments {
			ids = append(ids, c.AuthorID)
		}
	}
	byID, err := d.lookup(ctx, ids)
	if err != nil {
		return err
	}
	for _, a := range as {
		a.Author = summaryOf(byID, a.AuthorID)
		for i := range a.Comments {
			a.Comments[i].Author = summaryOf(byID, a.Comments[i].AuthorID)
		}
	}
	return nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
