package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/taskdeck/taskdeck-backend/pkg/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	COLLECTION_NAME_TASKS = "tasks"
)

type TaskDBService struct {
	DBClient     *mongo.Client
	timeout      int
	DBNamePrefix string
}

func NewTaskDBService(configs db.DBConfig) (*TaskDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)

	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()

	if err != nil {
		return nil, err
	}

	tdbSc := &TaskDBService{
		DBClient:     dbClient,
		timeout:      configs.Timeout,
		DBNamePrefix: configs.DBNamePrefix,
	}

	if configs.RunIndexCreation {
		tdbSc.CreateDefaultIndexes()
	}
	return tdbSc, nil
}

func (dbService *TaskDBService) getDBName() string {
	return dbService.DBNamePrefix + "taskdeck"
}

func (dbService *TaskDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *TaskDBService) collectionTasks() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_TASKS)
}

func (dbService *TaskDBService) CreateDefaultIndexes() {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionTasks().Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "ownerID", Value: 1},
					{Key: "status", Value: 1},
				},
			},
			{
				Keys: bson.D{
					{Key: "ownerID", Value: 1},
					{Key: "dueDate", Value: 1},
				},
			},
		},
	)
	if err != nil {
		slog.Error("Error creating indexes for tasks", slog.String("error", err.Error()))
	}
}
