package domain

// VoteDirection is the direction a user last voted on an answer.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Valid reports whether d is up or down.
func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}

func (d VoteDirection) weight() int {
	if d == VoteUp {
		return 1
	}
	return -1
}

// VoteChange is the ledger's decision for one vote: the direction it was
// based on (empty when the voter had none), the direction to record and the
// delta to add to the running total.
type VoteChange struct {
	Previous VoteDirection
	Next     VoteDirection
	Delta    int
}

// DecideVote applies the ledger rules to the direction currently recorded for
// a voter:
//
//	none      -> +1 / -1
//	same      -> ErrDuplicateVote, nothing changes
//	opposite  -> +2 / -2
func DecideVote(recorded, requested VoteDirection) (VoteChange, error) {
	if !requested.Valid() {
		return VoteChange{}, ErrInvalidVoteType
	}
	switch recorded {
	case "":
		return VoteChange{Next: requested, Delta: requested.weight()}, nil
	case requested:
		return VoteChange{}, ErrDuplicateVote
	default:
		return VoteChange{Previous: recorded, Next: requested, Delta: 2 * requested.weight()}, nil
	}
}

// ApplyVote records voterID's vote on the answer in memory and returns the
// new running total. The total is only ever adjusted by the decided delta;
// it is never recomputed from Voters.
func (a *Answer) ApplyVote(voterID string, requested VoteDirection) (int, error) {
	change, err := DecideVote(a.Voters[voterID], requested)
	if err != nil {
		return a.Votes, err
	}
	if a.Voters == nil {
		a.Voters = make(map[string]VoteDirection)
	}
	a.Voters[voterID] = change.Next
	a.Votes += change.Delta
	return a.Votes, nil
}
