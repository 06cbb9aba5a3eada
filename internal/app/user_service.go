package app

import (
	"bytes"
	"context"
	"fmt"

	"eventfeed/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService encapsulates registration, profile mutation and the
// liked-publications relation.
type UserService struct {
	users domain.UserRepository
	pubs  domain.PublicationRepository
	media domain.MediaStore
	log   *zap.Logger
}

// NewUserService creates a UserService backed by the given repositories and
// media store.
func NewUserService(users domain.UserRepository, pubs domain.PublicationRepository, media domain.MediaStore, log *zap.Logger) *UserService {
	return &UserService{users: users, pubs: pubs, media: media, log: log}
}

// Register creates a new account. Email and username uniqueness are checked
// independently, both before the password is hashed.
func (s *UserService) Register(ctx context.Context, username, password, email string) error {
	if username == "" || password == "" || email == "" {
		return fmt.Errorf("%w: username, password and email are required", ErrValidation)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}

	existing, err = s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.users.Insert(ctx, &domain.User{
		Username:       username,
		PasswordHash:   string(hash),
		Email:          email,
		ProfilePicture: domain.DefaultProfilePicture,
	})
	return err
}

// UpdateProfile applies the supplied profile fields. Uniqueness of a new
// email or username is re-checked against every other user. A new picture
// replaces the stored reference; the previously hosted image is left in
// place.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, email, username string, picture *MediaFile) (*domain.User, error) {
	var upd domain.ProfileUpdate

	if email != "" {
		taken, err := s.users.EmailInUse(ctx, email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
		upd.Email = &email
	}

	if username != "" {
		taken, err := s.users.UsernameInUse(ctx, username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		upd.Username = &username
	}

	if picture != nil {
		if picture.ContentType != "image/jpeg" && picture.ContentType != "image/png" {
			return nil, fmt.Errorf("%w: unsupported picture format %q", ErrValidation, picture.ContentType)
		}
		ref, err := s.media.Upload(ctx, picture.Name, bytes.NewReader(picture.Data), int64(len(picture.Data)), picture.ContentType, domain.MediaPhoto)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMediaUpload, err)
		}
		upd.Picture = &ref
	}

	user, err := s.users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// ToggleLike adds the publication to the user's liked-set, or removes it if
// already present. Only the user record is mutated; the returned count is
// derived by counting the users whose liked-set contains the publication.
func (s *UserService) ToggleLike(ctx context.Context, userID primitive.ObjectID, rawPubID string) (liked bool, likes int64, err error) {
	pubID, err := primitive.ObjectIDFromHex(rawPubID)
	if err != nil {
		return false, 0, ErrInvalidID
	}

	pub, err := s.pubs.GetByID(ctx, pubID)
	if err != nil {
		return false, 0, err
	}
	if pub == nil {
		return false, 0, ErrNotFound
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, 0, err
	}
	if user == nil {
		return false, 0, ErrNotFound
	}

	if user.Likes(pubID) {
		if err := s.users.RemoveLike(ctx, userID, pubID); err != nil {
			return false, 0, err
		}
		liked = false
	} else {
		if err := s.users.AddLike(ctx, userID, pubID); err != nil {
			return false, 0, err
		}
		liked = true
	}

	likes, err = s.users.CountLikes(ctx, pubID)
	if err != nil {
		return liked, 0, err
	}
	return liked, likes, nil
}

// Profile returns the user's public fields together with the full records of
// every publication in their liked-set, each annotated as liked.
func (s *UserService) Profile(ctx context.Context, userID primitive.ObjectID) (*domain.User, []domain.Publication, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrNotFound
	}

	likedPubs, err := s.pubs.ListByIDs(ctx, user.LikedPublications)
	if err != nil {
		return nil, nil, err
	}
	for i := range likedPubs {
		likedPubs[i].Liked = true
	}
	return user, likedPubs, nil
}
