package domain

import "time"

// Comment is owned by exactly one Answer and stored inside it.
type Comment struct {
	ID        string       `json:"_id"`
	AuthorID  string       `json:"-"`
	Author    *UserSummary `json:"author"`
	Text      string       `json:"text"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Answer is a reply to a Question. It carries its own vote ledger and the
// embedded comment thread.
type Answer struct {
	ID         string                   `json:"_id"`
	QuestionID string                   `json:"question"`
	AuthorID   string                   `json:"-"`
	Author     *UserSummary             `json:"author"`
	Text       string                   `json:"text"`
	Votes      int                      `json:"votes"`
	Voters     map[string]VoteDirection `json:"voters"`
	IsAccepted bool                     `json:"isAccepted"`
	Comments   []Comment                `json:"comments"`
	CreatedAt  time.Time                `json:"createdAt"`
	UpdatedAt  time.Time                `json:"updatedAt"`
}

// IsOwnedBy reports whether userID authored the answer.
func (a *Answer) IsOwnedBy(userID string) bool {
	return a.AuthorID != "" && a.AuthorID == userID
}

// Comment returns the embedded comment with the given ID.
func (a *Answer) Comment(id string) (*Comment, bool) {
	for i := range a.Comments {
		if a.Comments[i].ID == id {
			return &a.Comments[i], true
		}
	}
	return nil, false
}

// CanDelete reports whether actor may delete content authored by authorID.
// Authors may delete their own content; admins may delete anything.
func CanDelete(actor *User, authorID string) bool {
	if actor == nil {
		return false
	}
	return actor.ID == authorID || actor.IsAdmin()
}
