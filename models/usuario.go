package models

import "time"

// Usuario is a dashboard login. Password holds the bcrypt hash and is never
// serialized back out.
type Usuario struct {
	UserID        string    `json:"userid" bson:"userid"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"-" bson:"password"`
	CreatedAt     time.Time `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	LastLogin     time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
}
