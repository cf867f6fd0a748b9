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

const answersCollection = "answers"

// AnswerRepository implements ports.AnswerRepository using MongoDB. Comments
// and the vote ledger are embedded in the answer document so every write to
// them is a single-document update.
type AnswerRepository struct {
	col *mongo.Collection
}

func NewAnswerRepository(db *mongo.Database) *AnswerRepository {
	return &AnswerRepository{col: db.Collection(answersCollection)}
}

type commentDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Author    primitive.ObjectID `bson:"author"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type answerDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Question   primitive.ObjectID `bson:"question"`
	Author     primitive.ObjectID `bson:"author"`
	Text       string             `bson:"text"`
	Votes      int                `bson:"votes"`
	Voters     map[string]string  `bson:"voters"`
	IsAccepted bool               `bson:"isAccepted"`
	// AcceptSeq is the sequence of the last accept applied to this answer.
	AcceptSeq int64        `bson:"acceptSeq"`
	Comments  []commentDoc `bson:"comments"`
	CreatedAt time.Time    `bson:"createdAt"`
	UpdatedAt time.Time    `bson:"updatedAt"`
}

func (d *answerDoc) toDomain() *domain.Answer {
	a := &domain.Answer{
		ID:         d.ID.Hex(),
		QuestionID: d.Question.Hex(),
		AuthorID:   d.Author.Hex(),
		Text:       d.Text,
		Votes:      d.Votes,
		Voters:     make(map[string]domain.VoteDirection, len(d.Voters)),
		IsAccepted: d.IsAccepted,
		Comments:   make([]domain.Comment, len(d.Comments)),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	for voter, dir := range d.Voters {
		a.Voters[voter] = domain.VoteDirection(dir)
	}
	for i, c := range d.Comments {
		a.Comments[i] = domain.Comment{
			ID:        c.ID.Hex(),
			AuthorID:  c.Author.Hex(),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		}
	}
	return a
}

// Create inserts the answer with an empty ledger and comment thread. Both are
// written as empty containers, not null, so later $set and $push succeed.
func (r *AnswerRepository) Create(ctx context.Context, a *domain.Answer) error {
	qid, ok := objectID(a.QuestionID)
	if !ok {
		return domain.ErrQuestionNotFound
	}
	author, ok := objectID(a.AuthorID)
	if !ok {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := answerDoc{
		Question:  qid,
		Author:    author,
		Text:      a.Text,
		Voters:    map[string]string{},
		Comments:  []commentDoc{},
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}
	a.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *AnswerRepository) FindByID(ctx context.Context, id string) (*domain.Answer, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrAnswerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc answerDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAnswerNotFound
		}
		return nil, fmt.Errorf("find answer: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AnswerRepository) ListByQuestion(ctx context.Context, questionID string) ([]*domain.Answer, error) {
	qid, ok := objectID(questionID)
	if !ok {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"question": qid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	var docs []answerDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}

	out := make([]*domain.Answer, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// CountByQuestions groups answers by question in one aggregation.
func (r *AnswerRepository) CountByQuestions(ctx context.Context, questionIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(questionIDs))
	oids := objectIDs(questionIDs)
	if len(oids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"question": bson.M{"$in": oids}}}},
		{{Key: "$group", Value: bson.M{"_id": "$question", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count answers: %w", err)
	}
	var rows []struct {
		Question primitive.ObjectID `bson:"_id"`
		Count    int64              `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode answer counts: %w", err)
	}
	for _, row := range rows {
		out[row.Question.Hex()] = row.Count
	}
	return out, nil
}

func (r *AnswerRepository) UpdateText(ctx context.Context, id, text string, now time.Time) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrAnswerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"text": text, "updatedAt": now}})
	if err != nil {
		return fmt.Errorf("update answer: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAnswerNotFound
	}
	return nil
}

func (r *AnswerRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrAnswerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete answer: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAnswerNotFound
	}
	return nil
}

func (r *AnswerRepository) DeleteByQuestion(ctx context.Context, questionID string) (int64, error) {
	qid, ok := objectID(questionID)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"question": qid})
	if err != nil {
		return 0, fmt.Errorf("delete answers: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *AnswerRepository) AddComment(ctx context.Context, answerID string, c *domain.Comment) error {
	aid, ok := objectID(answerID)
	if !ok {
		return domain.ErrAnswerNotFound
	}
	author, ok := objectID(c.AuthorID)
	if !ok {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := commentDoc{
		ID:        primitive.NewObjectID(),
		Author:    author,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": aid}, bson.M{"$push": bson.M{"comments": doc}})
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAnswerNotFound
	}
	c.ID = doc.ID.Hex()
	return nil
}

func (r *AnswerRepository) RemoveComment(ctx context.Context, answerID, commentID string) error {
	aid, ok := objectID(answerID)
	if !ok {
		return domain.ErrAnswerNotFound
	}
	cid, ok := objectID(commentID)
	if !ok {
		return domain.ErrCommentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": aid, "comments._id": cid}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$pull": bson.M{"comments": bson.M{"_id": cid}}})
	if err != nil {
		return fmt.Errorf("remove comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

// voteFilter matches the answer only while the voter's recorded direction is
// still prev. An empty prev means the voter has not voted yet.
func voteFilter(answerID primitive.ObjectID, voterID string, prev domain.VoteDirection) bson.M {
	key := "voters." + voterID
	filter := bson.M{"_id": answerID}
	if prev == "" {
		filter[key] = bson.M{"$exists": false}
	} else {
		filter[key] = string(prev)
	}
	return filter
}

// voteUpdate moves the running total by the decided delta and records the
// voter's new direction.
func voteUpdate(voterID string, change domain.VoteChange, now time.Time) bson.M {
	return bson.M{
		"$inc": bson.M{"votes": change.Delta},
		"$set": bson.M{"voters." + voterID: string(change.Next), "updatedAt": now},
	}
}

func (r *AnswerRepository) RecordVote(ctx context.Context, answerID, voterID string, change domain.VoteChange) (*domain.Answer, error) {
	aid, ok := objectID(answerID)
	if !ok {
		return nil, domain.ErrAnswerNotFound
	}
	if _, ok := objectID(voterID); !ok {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc answerDoc
	err := r.col.FindOneAndUpdate(ctx, voteFilter(aid, voterID, change.Previous), voteUpdate(voterID, change, time.Now().UTC()), opts).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("record vote: %w", err)
	}

	// No match: either the answer is gone or the voter's direction moved.
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": aid})
	if err != nil {
		return nil, fmt.Errorf("record vote: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrAnswerNotFound
	}
	return nil, domain.ErrVoteRace
}

// acceptFilter selects the question's answers that have not yet seen an
// accept with a sequence of seq or higher.
func acceptFilter(questionID primitive.ObjectID, seq int64) bson.M {
	return bson.M{"question": questionID, "acceptSeq": bson.M{"$lt": seq}}
}

// MarkAccepted flips isAccepted for every answer of the question in one
// update. Answers already stamped by a later accept are left alone, so when
// two accepts race the one with the higher sequence wins everywhere.
func (r *AnswerRepository) MarkAccepted(ctx context.Context, questionID, answerID string, seq int64) error {
	qid, ok := objectID(questionID)
	if !ok {
		return domain.ErrQuestionNotFound
	}
	aid, ok := objectID(answerID)
	if !ok {
		return domain.ErrAnswerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "isAccepted", Value: bson.M{"$eq": bson.A{"$_id", aid}}},
			{Key: "acceptSeq", Value: seq},
		}}},
	}
	if _, err := r.col.UpdateMany(ctx, acceptFilter(qid, seq), update); err != nil {
		return fmt.Errorf("mark accepted: %w", err)
	}
	return nil
}

// EnsureIndexes creates the index behind the per-question answer listing.
func (r *AnswerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "question", Value: 1}, {Key: "createdAt", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
