package models

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes the platform's user kinds.
type Role string

const (
	RoleClient       Role = "client"
	RoleProfessional Role = "professional"
	RoleAdmin        Role = "admin"
)

// User is an identity record. Professionals are users with RoleProfessional;
// the booking core only holds a weak reference to their ID.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Role      Role      `bson:"role" json:"role"`
	FCMToken  string    `bson:"fcmToken,omitempty" json:"fcmToken,omitempty"`
	Active    bool      `bson:"active" json:"active"`
	Approved  bool      `bson:"approved" json:"approved"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewUser builds a user with the required defaults set. All persistence paths
// must go through this constructor so that active/approved are never left to
// the storage layer.
func NewUser(name, email string, role Role) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Role:      role,
		Active:    true,
		Approved:  role != RoleProfessional, // professionals await admin approval
		CreatedAt: now,
		UpdatedAt: now,
	}
}
