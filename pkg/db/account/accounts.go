package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	accountTypes "github.com/taskdeck/taskdeck-backend/pkg/account-management/types"
)

func (dbService *AccountDBService) CreateIndexesForAccounts() {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionAccounts().Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "email", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{
					{Key: "timestamps.createdAt", Value: 1},
				},
			},
		},
	)
	if err != nil {
		slog.Error("Error creating indexes for accounts", slog.String("error", err.Error()))
	}
}

func (dbService *AccountDBService) AddAccount(account accountTypes.Account) (string, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	res, err := dbService.collectionAccounts().InsertOne(ctx, account)
	if err != nil {
		return "", err
	}
	id := res.InsertedID.(primitive.ObjectID)
	return id.Hex(), nil
}

// IsDuplicateKeyError reports whether an AddAccount failure was caused by the
// unique email index.
func IsDuplicateKeyError(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

func (dbService *AccountDBService) GetAccount(ctx context.Context, accountID string) (accountTypes.Account, error) {
	dbCtx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return accountTypes.Account{}, err
	}

	var account accountTypes.Account
	err = dbService.collectionAccounts().FindOne(dbCtx, bson.M{"_id": _id}).Decode(&account)
	return account, err
}

func (dbService *AccountDBService) GetAccountByEmail(email string) (accountTypes.Account, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var account accountTypes.Account
	err := dbService.collectionAccounts().FindOne(ctx, bson.M{"email": email}).Decode(&account)
	return account, err
}

// UpdateAccount applies a partial update to the profile fields. Only name and
// otpEnabled can be patched through this method.
func (dbService *AccountDBService) UpdateAccount(accountID string, name *string, otpEnabled *bool) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return err
	}

	update := bson.M{
		"timestamps.updatedAt": time.Now().Unix(),
	}
	if name != nil {
		update["name"] = *name
	}
	if otpEnabled != nil {
		update["otpEnabled"] = *otpEnabled
	}

	res, err := dbService.collectionAccounts().UpdateOne(ctx, bson.M{"_id": _id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return errors.New("account not found")
	}
	return nil
}

// SetOTPChallenge stores secret and expiry in one atomic patch, overwriting
// any outstanding challenge.
func (dbService *AccountDBService) SetOTPChallenge(ctx context.Context, accountID string, secret string, expiresAt int64) error {
	dbCtx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return err
	}

	res, err := dbService.collectionAccounts().UpdateOne(dbCtx,
		bson.M{"_id": _id},
		bson.M{"$set": bson.M{
			"otpSecret":            secret,
			"otpExpiresAt":         expiresAt,
			"timestamps.updatedAt": time.Now().Unix(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return errors.New("account not found")
	}
	return nil
}

// ConsumeOTPChallenge runs the compare and clear as a single filtered update:
// the patch only applies when the stored secret equals the submitted code and
// the challenge is unexpired. A non matching submission leaves the document
// untouched.
func (dbService *AccountDBService) ConsumeOTPChallenge(ctx context.Context, accountID string, code string, now int64) (bool, error) {
	dbCtx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return false, err
	}

	filter := bson.M{
		"_id":          _id,
		"otpSecret":    code,
		"otpExpiresAt": bson.M{"$gte": now},
	}
	update := bson.M{
		"$set": bson.M{
			"verifiedAt":           now,
			"timestamps.updatedAt": time.Now().Unix(),
		},
		"$unset": bson.M{
			"otpSecret":    "",
			"otpExpiresAt": "",
		},
	}

	res, err := dbService.collectionAccounts().UpdateOne(dbCtx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (dbService *AccountDBService) UpdateLoginTimestamps(accountID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return err
	}

	_, err = dbService.collectionAccounts().UpdateOne(ctx,
		bson.M{"_id": _id},
		bson.M{"$set": bson.M{
			"timestamps.lastLogin": time.Now().Unix(),
		}},
	)
	return err
}

func (dbService *AccountDBService) UpdateTokenRefreshTimestamp(accountID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return err
	}

	_, err = dbService.collectionAccounts().UpdateOne(ctx,
		bson.M{"_id": _id},
		bson.M{"$set": bson.M{
			"timestamps.lastTokenRefresh": time.Now().Unix(),
		}},
	)
	return err
}

// SaveFailedLoginAttempts replaces the stored attempt list. Callers prune
// stale entries before persisting so the list stays bounded.
func (dbService *AccountDBService) SaveFailedLoginAttempts(accountID string, attempts []int64) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return err
	}

	_, err = dbService.collectionAccounts().UpdateOne(ctx,
		bson.M{"_id": _id},
		bson.M{"$set": bson.M{"failedLoginAttempts": attempts}},
	)
	return err
}

func (dbService *AccountDBService) ResetFailedLoginAttempts(accountID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return err
	}

	_, err = dbService.collectionAccounts().UpdateOne(ctx,
		bson.M{"_id": _id},
		bson.M{"$set": bson.M{"failedLoginAttempts": []int64{}}},
	)
	return err
}

func (dbService *AccountDBService) CountRecentlyCreatedAccounts(interval int64) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"timestamps.createdAt": bson.M{"$gt": time.Now().Unix() - interval}}
	return dbService.collectionAccounts().CountDocuments(ctx, filter)
}

// DeleteUnverifiedAccounts removes accounts that never completed the
// verification step and were created before the given unix timestamp.
func (dbService *AccountDBService) DeleteUnverifiedAccounts(createdBefore int64) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"$or": bson.A{
			bson.M{"verifiedAt": bson.M{"$exists": false}},
			bson.M{"verifiedAt": 0},
		},
		"timestamps.createdAt": bson.M{"$lt": createdBefore},
	}
	res, err := dbService.collectionAccounts().DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (dbService *AccountDBService) DeleteAccount(accountID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return err
	}

	res, err := dbService.collectionAccounts().DeleteOne(ctx, bson.M{"_id": _id})
	if err != nil {
		return err
	}
	if res.DeletedCount < 1 {
		return errors.New("account not found")
	}
	return nil
}
