package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devforum/qa-board/internal/core/domain"
)

const notificationsCollection = "notifications"

// NotificationRepository implements ports.NotificationRepository using MongoDB.
type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{col: db.Collection(notificationsCollection)}
}

type notificationDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      primitive.ObjectID `bson:"user"`
	Type      string             `bson:"type"`
	Message   string             `bson:"message"`
	Link      string             `bson:"link,omitempty"`
	Read      bool               `bson:"read"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *notificationDoc) toDomain() *domain.Notification {
	return &domain.Notification{
		ID:        d.ID.Hex(),
		UserID:    d.User.Hex(),
		Type:      domain.NotificationType(d.Type),
		Message:   d.Message,
		Link:      d.Link,
		Read:      d.Read,
		CreatedAt: d.CreatedAt,
	}
}

// Create persists a notification document and assigns n.ID.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	user, ok := objectID(n.UserID)
	if !ok {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := notificationDoc{
		User:      user,
		Type:      string(n.Type),
		Message:   n.Message,
		Link:      n.Link,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	n.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *NotificationRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	user, ok := objectID(userID)
	if !ok {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{"user": user}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	var docs []notificationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}

	out := make([]*domain.Notification, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// MarkRead sets read on the notification only when userID owns it; anything
// else reads as not found.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	user, ok := objectID(userID)
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc notificationDoc
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid, "user": user}, bson.M{"$set": bson.M{"read": true}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	user, ok := objectID(userID)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx, bson.M{"user": user, "read": false}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	user, ok := objectID(userID)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"user": user, "read": false})
}

func (r *NotificationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "read", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
