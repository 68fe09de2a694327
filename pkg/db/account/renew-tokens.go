package account

import (
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	accountTypes "github.com/taskdeck/taskdeck-backend/pkg/account-management/types"
)

const (
	RENEW_TOKEN_GRACE_PERIOD     = 30 // seconds
	RENEW_TOKEN_DEFAULT_LIFETIME = 60 * 60 * 24 * 90
)

func (dbService *AccountDBService) CreateIndexesForRenewTokens() {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionRenewTokens().Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "accountID", Value: 1},
					{Key: "renewToken", Value: 1},
					{Key: "expiresAt", Value: 1},
				},
			},
			{
				Keys: bson.D{
					{Key: "expiresAt", Value: 1},
				},
				Options: options.Index().SetExpireAfterSeconds(RENEW_TOKEN_GRACE_PERIOD),
			},
			{
				Keys: bson.D{
					{Key: "renewToken", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
		},
	)
	if err != nil {
		slog.Error("Error creating indexes for renew tokens", slog.String("error", err.Error()))
	}
}

func (dbService *AccountDBService) CreateRenewToken(accountID string, renewToken string, lifetime int64, sessionID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	if lifetime <= 0 {
		lifetime = RENEW_TOKEN_DEFAULT_LIFETIME
	}

	rt := accountTypes.RenewToken{
		AccountID:  accountID,
		SessionID:  sessionID,
		RenewToken: renewToken,
		ExpiresAt:  time.Now().Add(time.Duration(lifetime) * time.Second),
	}
	_, err := dbService.collectionRenewTokens().InsertOne(ctx, rt)
	return err
}

// FindAndUpdateRenewToken looks up an unexpired renew token for the account
// and stamps nextToken on it. If the token was already rotated (nextToken
// set), the stored value wins, so a re-used refresh token within the grace
// period resolves to the same successor.
func (dbService *AccountDBService) FindAndUpdateRenewToken(accountID string, currentToken string, nextToken string) (accountTypes.RenewToken, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"accountID":  accountID,
		"renewToken": currentToken,
		"expiresAt":  bson.M{"$gt": time.Now()},
	}

	var rt accountTypes.RenewToken
	err := dbService.collectionRenewTokens().FindOneAndUpdate(
		ctx, filter,
		[]bson.M{
			{"$set": bson.M{"nextToken": bson.M{"$cond": bson.M{
				"if":   bson.M{"$eq": bson.A{bson.M{"$ifNull": bson.A{"$nextToken", ""}}, ""}},
				"then": nextToken,
				"else": "$nextToken",
			}}}},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&rt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return rt, errors.New("renew token not found")
		}
		return rt, err
	}
	return rt, nil
}

func (dbService *AccountDBService) DeleteRenewTokensForAccount(accountID string) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	res, err := dbService.collectionRenewTokens().DeleteMany(ctx, bson.M{"accountID": accountID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (dbService *AccountDBService) DeleteRenewTokensForSession(accountID string, sessionID string) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	res, err := dbService.collectionRenewTokens().DeleteMany(ctx, bson.M{
		"accountID": accountID,
		"sessionID": sessionID,
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
