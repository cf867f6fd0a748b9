package domain

import "time"

// NotificationType is the event that produced a notification.
type NotificationType string

const (
	NotificationAnswer  NotificationType = "answer"
	NotificationComment NotificationType = "comment"
	NotificationMention NotificationType = "mention"
)

// Notification informs a user about activity on their content. Only Read
// ever changes after creation.
type Notification struct {
	ID        string           `json:"_id"`
	UserID    string           `json:"user"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Link      string           `json:"link,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

// QuestionLink is the client route of a question page.
func QuestionLink(questionID string) string {
	return "/questions/" + questionID
}

func answerMessage(title string) string {
	return `Someone answered your question: "` + title + `"`
}

const commentMessage = "Someone commented on your answer"

func mentionMessage(source NotificationType) string {
	if source == NotificationComment {
		return "You were mentioned in a comment"
	}
	return "You were mentioned in an answer"
}

// NewReplyNotification builds the direct notification for the owner of the
// content that was replied to: an answer on their question or a comment on
// their answer.
func NewReplyNotification(kind NotificationType, recipientID, questionID, questionTitle string, now time.Time) *Notification {
	msg := commentMessage
	if kind == NotificationAnswer {
		msg = answerMessage(questionTitle)
	}
	return &Notification{
		UserID:    recipientID,
		Type:      kind,
		Message:   msg,
		Link:      QuestionLink(questionID),
		CreatedAt: now,
	}
}

// NewMentionNotification builds the notification for a user mentioned in an
// answer or comment.
func NewMentionNotification(source NotificationType, recipientID, questionID string, now time.Time) *Notification {
	return &Notification{
		UserID:    recipientID,
		Type:      NotificationMention,
		Message:   mentionMessage(source),
		Link:      QuestionLink(questionID),
		CreatedAt: now,
	}
}
