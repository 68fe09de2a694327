package types

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Account struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Email             string `bson:"email" json:"email"`
	Name              string `bson:"name" json:"name"`
	Password          string `bson:"password" json:"-"`
	PreferredLanguage string `bson:"preferredLanguage" json:"preferredLanguage"`

	// VerifiedAt marks that the account completed identity verification at
	// least once. Set once per verification cycle, never cleared. Epoch ms.
	VerifiedAt int64 `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`

	// OtpEnabled forces an OTP challenge on every login, even after the
	// first verification.
	OtpEnabled bool `bson:"otpEnabled" json:"otpEnabled"`

	// OtpSecret and OtpExpiresAt describe the single outstanding OTP
	// challenge. Both are set or both are absent; issuing a new challenge
	// overwrites the previous one.
	OtpSecret    string `bson:"otpSecret,omitempty" json:"-"`
	OtpExpiresAt int64  `bson:"otpExpiresAt,omitempty" json:"-"`

	Timestamps Timestamps `bson:"timestamps" json:"timestamps"`

	// Rate limiting
	FailedLoginAttempts []int64 `bson:"failedLoginAttempts" json:"-"`
}

// OTPRequired implements the post-login policy gate: a never-verified
// account must verify, and an account with the toggle on re-verifies on
// every login.
func (a Account) OTPRequired() bool {
	return a.VerifiedAt == 0 || a.OtpEnabled
}

type Timestamps struct {
	CreatedAt        int64 `bson:"createdAt" json:"createdAt"`
	UpdatedAt        int64 `bson:"updatedAt" json:"updatedAt"`
	LastLogin        int64 `bson:"lastLogin" json:"lastLogin"`
	LastTokenRefresh int64 `bson:"lastTokenRefresh" json:"lastTokenRefresh"`
}
