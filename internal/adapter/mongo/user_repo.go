package mongo

import (
	"context"
	"errors"

	"eventfeed/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepo implements domain.UserRepository on the users collection.
type UserRepo struct {
	col *mongo.Collection
}

// NewUserRepo wraps the DB as a UserRepository.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{col: db.users}
}

var _ domain.UserRepository = (*UserRepo)(nil)

// Insert persists a new user and returns its assigned id.
func (r *UserRepo) Insert(ctx context.Context, u *domain.User) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("unexpected inserted id type")
	}
	return id, nil
}

// GetByID retrieves one user, or (nil, nil) when absent.
func (r *UserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail retrieves the user with the given email, or (nil, nil).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByUsername retrieves the user with the given username, or (nil, nil).
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// EmailInUse reports whether any user other than excluding holds the email.
func (r *UserRepo) EmailInUse(ctx context.Context, email string, excluding primitive.ObjectID) (bool, error) {
	return r.inUse(ctx, "email", email, excluding)
}

// UsernameInUse reports whether any user other than excluding holds the
// username.
func (r *UserRepo) UsernameInUse(ctx context.Context, username string, excluding primitive.ObjectID) (bool, error) {
	return r.inUse(ctx, "username", username, excluding)
}

// UpdateProfile applies the non-nil fields and returns the updated record, or
// (nil, nil) when no such user exists.
func (r *UserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd domain.ProfileUpdate) (*domain.User, error) {
	set := bson.M{}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Username != nil {
		set["username"] = *upd.Username
	}
	if upd.Picture != nil {
		set["profilePicture"] = *upd.Picture
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u domain.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// AddLike inserts the publication into the user's liked-set. Re-adding an
// already present id is a no-op.
func (r *UserRepo) AddLike(ctx context.Context, userID, pubID primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, userID, bson.M{"$addToSet": bson.M{"likedPublications": pubID}})
	return err
}

// RemoveLike removes the publication from the user's liked-set.
func (r *UserRepo) RemoveLike(ctx context.Context, userID, pubID primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, userID, bson.M{"$pull": bson.M{"likedPublications": pubID}})
	return err
}

// CountLikes counts the users whose liked-set contains the publication.
func (r *UserRepo) CountLikes(ctx context.Context, pubID primitive.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"likedPublications": pubID})
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var u domain.User
	err := r.col.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) inUse(ctx context.Context, field, value string, excluding primitive.ObjectID) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{
		field: value,
		"_id": bson.M{"$ne": excluding},
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
