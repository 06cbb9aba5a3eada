package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultProfilePicture is the placeholder assigned at registration until the
// user uploads their own picture.
var DefaultProfilePicture = MediaRef{
	ID:  "profiles/placeholder",
	URL: "https://res.cloudinary.com/ddwriwzgm/image/upload/v1727374339/imagenProyect/afpdiox30acmlfvcskww.jpg",
}

// User represents a registered account. PasswordHash is a bcrypt hash; the
// cleartext password is never stored or serialized.
type User struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Username          string               `bson:"username" json:"username"`
	PasswordHash      string               `bson:"passwords" json:"-"`
	Email             string               `bson:"email" json:"email"`
	ProfilePicture    MediaRef             `bson:"profilePicture" json:"profilePicture"`
	LikedPublications []primitive.ObjectID `bson:"likedPublications" json:"likedPublications"`
}

// Likes reports whether the user's liked-set contains the publication.
func (u *User) Likes(pub primitive.ObjectID) bool {
	for _, id := range u.LikedPublications {
		if id == pub {
			return true
		}
	}
	return false
}

// ProfileUpdate carries the optional fields of a profile mutation. Only
// non-nil fields are applied.
type ProfileUpdate struct {
	Email    *string
	Username *string
	Picture  *MediaRef
}

// UserRepository defines the port for user persistence. Lookups return
// (nil, nil) when no record matches. Uniqueness of email and username is
// enforced at write time by the callers, not by the store.
type UserRepository interface {
	Insert(ctx context.Context, u *User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)

	// EmailInUse and UsernameInUse report whether another user (any user
	// other than excluding) already holds the value. Pass
	// primitive.NilObjectID to check against every user.
	EmailInUse(ctx context.Context, email string, excluding primitive.ObjectID) (bool, error)
	UsernameInUse(ctx context.Context, username string, excluding primitive.ObjectID) (bool, error)

	UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (*User, error)

	AddLike(ctx context.Context, userID, pubID primitive.ObjectID) error
	RemoveLike(ctx context.Context, userID, pubID primitive.ObjectID) error
	// CountLikes counts the users whose liked-set contains the publication.
	CountLikes(ctx context.Context, pubID primitive.ObjectID) (int64, error)
}
