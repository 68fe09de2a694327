package task

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskdeck/taskdeck-backend/pkg/tasks"
)

func (dbService *TaskDBService) CreateTask(task tasks.Task) (tasks.Task, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	task.CreatedAt = time.Now().Unix()
	task.UpdatedAt = task.CreatedAt

	res, err := dbService.collectionTasks().InsertOne(ctx, task)
	if err != nil {
		return task, err
	}
	task.ID = res.InsertedID.(primitive.ObjectID)
	return task, nil
}

func (dbService *TaskDBService) GetTask(ownerID string, taskID string) (tasks.Task, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return tasks.Task{}, err
	}

	var task tasks.Task
	err = dbService.collectionTasks().FindOne(ctx, bson.M{"_id": _id, "ownerID": ownerID}).Decode(&task)
	return task, err
}

func (dbService *TaskDBService) GetTasksForOwner(ownerID string) ([]tasks.Task, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := dbService.collectionTasks().Find(ctx, bson.M{"ownerID": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	taskList := []tasks.Task{}
	if err := cursor.All(ctx, &taskList); err != nil {
		return nil, err
	}
	return taskList, nil
}

func (dbService *TaskDBService) CountTasksWithStatus(ownerID string, status tasks.TaskStatus, excludeTaskID string) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"ownerID": ownerID, "status": status}
	if excludeTaskID != "" {
		_id, err := primitive.ObjectIDFromHex(excludeTaskID)
		if err != nil {
			return 0, err
		}
		filter["_id"] = bson.M{"$ne": _id}
	}
	return dbService.collectionTasks().CountDocuments(ctx, filter)
}

// UpdateTaskStatus applies the workflow transition. Block reasons only exist
// on blocked tasks and completion stamps only on done tasks, so leaving
// either state clears the respective field.
func (dbService *TaskDBService) UpdateTaskStatus(ownerID string, taskID string, status tasks.TaskStatus, blockReason string) (tasks.Task, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return tasks.Task{}, err
	}

	set := bson.M{
		"status":    status,
		"updatedAt": time.Now().Unix(),
	}
	unset := bson.M{}

	if status == tasks.StatusBlocked {
		set["blockReason"] = blockReason
	} else {
		unset["blockReason"] = ""
	}

	if status == tasks.StatusDone {
		set["completedAt"] = time.Now().UnixMilli()
	} else {
		unset["completedAt"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var task tasks.Task
	err = dbService.collectionTasks().FindOneAndUpdate(
		ctx,
		bson.M{"_id": _id, "ownerID": ownerID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&task)
	return task, err
}

func (dbService *TaskDBService) UpdateTaskFields(ownerID string, taskID string, title *string, description *string, dueDate *int64) (tasks.Task, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return tasks.Task{}, err
	}

	set := bson.M{"updatedAt": time.Now().Unix()}
	if title != nil {
		set["title"] = *title
	}
	if description != nil {
		set["description"] = *description
	}
	if dueDate != nil {
		set["dueDate"] = *dueDate
	}

	var task tasks.Task
	err = dbService.collectionTasks().FindOneAndUpdate(
		ctx,
		bson.M{"_id": _id, "ownerID": ownerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&task)
	return task, err
}

func (dbService *TaskDBService) DeleteTask(ownerID string, taskID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return err
	}

	res, err := dbService.collectionTasks().DeleteOne(ctx, bson.M{"_id": _id, "ownerID": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount < 1 {
		return errors.New("task not found")
	}
	return nil
}

func (dbService *TaskDBService) DeleteTasksForOwner(ownerID string) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	res, err := dbService.collectionTasks().DeleteMany(ctx, bson.M{"ownerID": ownerID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
