package mongorepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

type BoardRepository struct {
	coll *mongo.Collection
}

func NewBoardRepository(db *mongo.Database) *BoardRepository {
	return &BoardRepository{coll: db.Collection(boardsCollection)}
}

func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	now := time.Now()
	if board.CreatedAt.IsZero() {
		board.CreatedAt = now
	}
	board.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, newBoardDoc(board))
	return err
}

func (r *BoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var doc boardDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrBoardNotFound
		}
		return nil, err
	}
	return doc.toModel()
}

// ListForUser returns the boards the user owns or is a member of, newest first.
func (r *BoardRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"owner": userID.String()},
		bson.M{"members": userID.String()},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []boardDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	boards := make([]model.Board, 0, len(docs))
	for _, doc := range docs {
		board, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		boards = append(boards, *board)
	}
	return boards, nil
}

// Update replaces the whole board document. The last writer wins.
func (r *BoardRepository) Update(ctx context.Context, board *model.Board) error {
	board.UpdatedAt = time.Now()

	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": board.ID.String()}, newBoardDoc(board))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrBoardNotFound
	}
	return nil
}

func (r *BoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrBoardNotFound
	}
	return nil
}
