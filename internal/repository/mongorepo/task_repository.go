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
	"taskboard/internal/ordering"
	"taskboard/internal/repository"
)

type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection(tasksCollection)}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	now := time.Now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, newTaskDoc(task))
	return err
}

func (r *TaskRepository) findOne(ctx context.Context, filter bson.M) (*model.Task, error) {
	var doc taskDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrTaskNotFound
		}
		return nil, err
	}
	return doc.toModel()
}

func (r *TaskRepository) GetInBoard(ctx context.Context, boardID, id uuid.UUID) (*model.Task, error) {
	return r.findOne(ctx, bson.M{"_id": id.String(), "boardId": boardID.String()})
}

func (r *TaskRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"boardId": boardID.String()}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []taskDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0, len(docs))
	for _, doc := range docs {
		task, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, nil
}

// MaxPosition returns the highest position in a list, or -1 when it is empty.
func (r *TaskRepository) MaxPosition(ctx context.Context, boardID uuid.UUID, listID string) (int, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "position", Value: -1}}).
		SetProjection(bson.M{"position": 1})

	var doc struct {
		Position int `bson:"position"`
	}
	err := r.coll.FindOne(ctx, bson.M{"boardId": boardID.String(), "listId": listID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return -1, nil
		}
		return 0, err
	}
	return doc.Position, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = time.Now()

	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": task.ID.String()}, newTaskDoc(task))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrTaskNotFound
	}
	return nil
}

// ShiftPositions increments the position of every task of the list inside the
// shift's range with a single UpdateMany.
func (r *TaskRepository) ShiftPositions(ctx context.Context, boardID uuid.UUID, ls ordering.ListShift) error {
	rng := bson.M{"$gte": ls.Shift.Lo}
	if ls.Shift.Hi != ordering.Unbounded {
		rng["$lte"] = ls.Shift.Hi
	}
	filter := bson.M{"boardId": boardID.String(), "listId": ls.ListID, "position": rng}
	update := bson.M{
		"$inc": bson.M{"position": ls.Shift.Delta},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	_, err := r.coll.UpdateMany(ctx, filter, update)
	return err
}

func (r *TaskRepository) SetPlacement(ctx context.Context, boardID, id uuid.UUID, listID string, position int) (bool, error) {
	filter := bson.M{"_id": id.String(), "boardId": boardID.String()}
	update := bson.M{"$set": bson.M{"listId": listID, "position": position, "updatedAt": time.Now()}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// Relocate applies the shifts of a move and then stores the task's new
// placement. The writes are sequential and not transactional: a failure part
// way leaves the earlier shifts applied.
func (r *TaskRepository) Relocate(ctx context.Context, task *model.Task, plan []ordering.ListShift) error {
	for _, ls := range plan {
		if err := r.ShiftPositions(ctx, task.BoardID, ls); err != nil {
			return err
		}
	}

	matched, err := r.SetPlacement(ctx, task.BoardID, task.ID, task.ListID, task.Position)
	if err != nil {
		return err
	}
	if !matched {
		return repository.ErrTaskNotFound
	}
	return nil
}
