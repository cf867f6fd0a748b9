package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devforum/qa-board/internal/core/domain"
	"github.com/devforum/qa-board/internal/core/ports"
)

const questionsCollection = "questions"

// QuestionRepository implements ports.QuestionRepository using MongoDB.
type QuestionRepository struct {
	col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{col: db.Collection(questionsCollection)}
}

type questionDoc struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty"`
	Title          string              `bson:"title"`
	Description    string              `bson:"description"`
	Tags           []string            `bson:"tags"`
	Author         primitive.ObjectID  `bson:"author"`
	Views          int64               `bson:"views"`
	AcceptedAnswer *primitive.ObjectID `bson:"acceptedAnswer,omitempty"`
	// AcceptSeq is bumped on every accept; see NextAcceptSeq.
	AcceptSeq int64     `bson:"acceptSeq"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d *questionDoc) toDomain() *domain.Question {
	q := &domain.Question{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Tags:        d.Tags,
		AuthorID:    d.Author.Hex(),
		Views:       d.Views,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	if d.AcceptedAnswer != nil {
		q.AcceptedAnswer = d.AcceptedAnswer.Hex()
	}
	return q
}

// Create inserts a new question document and assigns q.ID.
func (r *QuestionRepository) Create(ctx context.Context, q *domain.Question) error {
	author, ok := objectID(q.AuthorID)
	if !ok {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := questionDoc{
		Title:       q.Title,
		Description: q.Description,
		Tags:        q.Tags,
		Author:      author,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	q.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*domain.Question, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc questionDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("find question: %w", err)
	}
	return doc.toDomain(), nil
}

// listFilter translates the list query parameters into a Mongo filter.
func listFilter(f ports.ListQuestionsFilter) bson.M {
	filter := bson.M{}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
	return filter
}

// List returns questions newest first together with the total matching count.
func (r *QuestionRepository) List(ctx context.Context, f ports.ListQuestionsFilter) ([]*domain.Question, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := listFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count questions: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * f.Limit)).SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}
	var docs []questionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode questions: %w", err)
	}

	out := make([]*domain.Question, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, total, nil
}

func (r *QuestionRepository) Update(ctx context.Context, q *domain.Question) error {
	oid, ok := objectID(q.ID)
	if !ok {
		return domain.ErrQuestionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":       q.Title,
		"description": q.Description,
		"tags":        q.Tags,
		"updatedAt":   q.UpdatedAt,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrQuestionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *QuestionRepository) IncrementViews(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrQuestionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

// NextAcceptSeq atomically bumps the question's accept sequence and points
// acceptedAnswer at answerID. The returned sequence fences the follow-up
// write on the answers collection.
func (r *QuestionRepository) NextAcceptSeq(ctx context.Context, questionID, answerID string) (int64, error) {
	qid, ok := objectID(questionID)
	if !ok {
		return 0, domain.ErrQuestionNotFound
	}
	aid, ok := objectID(answerID)
	if !ok {
		return 0, domain.ErrAnswerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"acceptSeq": 1},
		"$set": bson.M{"acceptedAnswer": aid, "updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"acceptSeq": 1})

	var out struct {
		AcceptSeq int64 `bson:"acceptSeq"`
	}
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": qid}, update, opts).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrQuestionNotFound
		}
		return 0, fmt.Errorf("accept answer: %w", err)
	}
	return out.AcceptSeq, nil
}

// EnsureIndexes creates the indexes used by the list endpoint.
func (r *QuestionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
