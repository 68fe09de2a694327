package types

import "time"

type RenewToken struct {
	AccountID  string    `bson:"accountID"`
	SessionID  string    `bson:"sessionID"`
	RenewToken string    `bson:"renewToken"`
	ExpiresAt  time.Time `bson:"expiresAt"`
	NextToken  string    `bson:"nextToken"` // token that replaces the current renew token
}
