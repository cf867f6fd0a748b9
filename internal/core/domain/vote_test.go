package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideVote(t *testing.T) {
	cases := []struct {
		name      string
		recorded  VoteDirection
		requested VoteDirection
		wantDelta int
		wantErr   error
	}{
		{"first up", "", VoteUp, 1, nil},
		{"first down", "", VoteDown, -1, nil},
		{"up to down", VoteUp, VoteDown, -2, nil},
		{"down to up", VoteDown, VoteUp, 2, nil},
		{"up twice", VoteUp, VoteUp, 0, ErrDuplicateVote},
		{"down twice", VoteDown, VoteDown, 0, ErrDuplicateVote},
		{"sideways", "", VoteDirection("sideways"), 0, ErrInvalidVoteType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			change, err := DecideVote(tc.recorded, tc.requested)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantDelta, change.Delta)
			assert.Equal(t, tc.requested, change.Next)
			assert.Equal(t, tc.recorded, change.Previous)
		})
	}
}

func TestAnswer_ApplyVote_Sequence(t *testing.T) {
	a := &Answer{}

	total, err := a.ApplyVote("u1", VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, VoteUp, a.Voters["u1"])

	total, err = a.ApplyVote("u2", VoteDown)
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	_, err = a.ApplyVote("u1", VoteUp)
	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, 0, a.Votes, "duplicate vote must not change the total")

	total, err = a.ApplyVote("u1", VoteDown)
	require.NoError(t, err)
	assert.Equal(t, -2, total)
	assert.Equal(t, VoteDown, a.Voters["u1"])
	assert.Len(t, a.Voters, 2)
}

func TestAnswer_ApplyVote_KeepsRunningTotal(t *testing.T) {
	// A total that disagrees with the voter map is adjusted, not rebuilt.
	a := &Answer{Votes: 10, Voters: map[string]VoteDirection{"u1": VoteUp}}

	total, err := a.ApplyVote("u2", VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 11, total)
}

func TestDuplicateVote_IsConflict(t *testing.T) {
	assert.ErrorIs(t, ErrDuplicateVote, ErrConflict)
	assert.ErrorIs(t, ErrInvalidVoteType, ErrValidation)
	assert.Equal(t, "you have already voted this way", ErrDuplicateVote.Error())
}
