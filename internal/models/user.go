package models

import "time"

// User is the full stored user row. The bcrypt hash never leaves the
// process: it is excluded from JSON serialization entirely.
type User struct {
	ID           int64     `json:"id"`
	PublicID     string    `json:"publicId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Photo        *string   `json:"photo"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser carries the fields needed to insert a user. PasswordHash is
// already hashed by the caller.
type NewUser struct {
	PublicID     string
	Name         string
	Email        string
	PasswordHash string
	Photo        *string
}

// UserPatch is a partial update: nil fields are left untouched.
type UserPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Photo        *string
}

// IsEmpty reports whether the patch would change nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil && p.Photo == nil
}

// Owner is the projection of a user embedded in post responses.
type Owner struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Photo *string `json:"photo"`
}

// Owner returns the post-embedded projection of the user.
func (u User) Owner() Owner {
	return Owner{ID: u.ID, Name: u.Name, Email: u.Email, Photo: u.Photo}
}
