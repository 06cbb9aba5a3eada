// Package memory implements in-memory repositories for development and testing.
package memory

import (
	"context"
	"io"
	"sync"

	"eventfeed/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DB implements an in-memory database storage. The repository ports are
// exposed as views over the shared state.
type DB struct {
	mu           sync.Mutex
	publications []domain.Publication
	users        []domain.User
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.PublicationRepository = (*PublicationRepo)(nil)
var _ domain.UserRepository = (*UserRepo)(nil)
var _ domain.MediaStore = (*MediaStore)(nil)

// --- PublicationRepository ---

// PublicationRepo implements publication persistence.
type PublicationRepo struct {
	db *DB
}

// Publications returns the publication repository view.
func (db *DB) Publications() *PublicationRepo {
	return &PublicationRepo{db: db}
}

// Insert adds a publication and assigns it an id.
func (r *PublicationRepo) Insert(ctx context.Context, p *domain.Publication) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	id := primitive.NewObjectID()
	stored := *p
	stored.ID = id
	r.db.publications = append(r.db.publications, stored)
	return id, nil
}

// GetByID retrieves a publication by id, or (nil, nil) when absent.
func (r *PublicationRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Publication, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.publications {
		if r.db.publications[i].ID == id {
			// return a copy
			ret := r.db.publications[i]
			return &ret, nil
		}
	}
	return nil, nil
}

// List returns every publication.
func (r *PublicationRepo) List(ctx context.Context) ([]domain.Publication, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	result := make([]domain.Publication, len(r.db.publications))
	copy(result, r.db.publications)
	return result, nil
}

// ListByCategory returns the publications in one category.
func (r *PublicationRepo) ListByCategory(ctx context.Context, category string) ([]domain.Publication, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var result []domain.Publication
	for _, p := range r.db.publications {
		if p.Category == category {
			result = append(result, p)
		}
	}
	return result, nil
}

// ListByOwner returns the publications created by one user.
func (r *PublicationRepo) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]domain.Publication, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var result []domain.Publication
	for _, p := range r.db.publications {
		if p.Owner == owner {
			result = append(result, p)
		}
	}
	return result, nil
}

// ListByIDs returns the publications whose ids are in ids, in stored order.
func (r *PublicationRepo) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Publication, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	wanted := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var result []domain.Publication
	for _, p := range r.db.publications {
		if wanted[p.ID] {
			result = append(result, p)
		}
	}
	return result, nil
}

// Update applies the non-nil scalar fields. A missing id is a no-op.
func (r *PublicationRepo) Update(ctx context.Context, id primitive.ObjectID, upd domain.PublicationUpdate) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.publications {
		if r.db.publications[i].ID != id {
			continue
		}
		p := &r.db.publications[i]
		if upd.Title != nil {
			p.Title = *upd.Title
		}
		if upd.Description != nil {
			p.Description = *upd.Description
		}
		if upd.Location != nil {
			p.Location = *upd.Location
		}
		if upd.Category != nil {
			p.Category = *upd.Category
		}
		if upd.StartDate != nil {
			p.StartDate = *upd.StartDate
		}
		if upd.EndDate != nil {
			p.EndDate = *upd.EndDate
		}
		return nil
	}
	return nil
}

// AppendMedia appends the references to the publication's media lists.
func (r *PublicationRepo) AppendMedia(ctx context.Context, id primitive.ObjectID, photos, videos []domain.MediaRef) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.publications {
		if r.db.publications[i].ID == id {
			r.db.publications[i].Media.Photos = append(r.db.publications[i].Media.Photos, photos...)
			r.db.publications[i].Media.Videos = append(r.db.publications[i].Media.Videos, videos...)
			return nil
		}
	}
	return nil
}

// Delete removes a publication by id.
func (r *PublicationRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.publications {
		if r.db.publications[i].ID == id {
			r.db.publications = append(r.db.publications[:i], r.db.publications[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- UserRepository ---

// UserRepo implements user persistence.
type UserRepo struct {
	db *DB
}

// Users returns the user repository view.
func (db *DB) Users() *UserRepo {
	return &UserRepo{db: db}
}

// Insert adds a user and assigns it an id.
func (r *UserRepo) Insert(ctx context.Context, u *domain.User) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	id := primitive.NewObjectID()
	stored := *u
	stored.ID = id
	r.db.users = append(r.db.users, stored)
	return id, nil
}

// GetByID retrieves a user by id, or (nil, nil) when absent.
func (r *UserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.users {
		if r.db.users[i].ID == id {
			ret := r.db.users[i]
			return &ret, nil
		}
	}
	return nil, nil
}

// GetByEmail retrieves a user by email, or (nil, nil).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.users {
		if r.db.users[i].Email == email {
			ret := r.db.users[i]
			return &ret, nil
		}
	}
	return nil, nil
}

// GetByUsername retrieves a user by username, or (nil, nil).
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.users {
		if r.db.users[i].Username == username {
			ret := r.db.users[i]
			return &ret, nil
		}
	}
	return nil, nil
}

// EmailInUse reports whether another user holds the email.
func (r *UserRepo) EmailInUse(ctx context.Context, email string, excluding primitive.ObjectID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.users {
		if r.db.users[i].Email == email && r.db.users[i].ID != excluding {
			return true, nil
		}
	}
	return false, nil
}

// UsernameInUse reports whether another user holds the username.
func (r *UserRepo) UsernameInUse(ctx context.Context, username string, excluding primitive.ObjectID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.users {
		if r.db.users[i].Username == username && r.db.users[i].ID != excluding {
			return true, nil
		}
	}
	return false, nil
}

// UpdateProfile applies the non-nil fields and returns the updated record, or
// (nil, nil) when no such user exists.
func (r *UserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd domain.ProfileUpdate) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.users {
		if r.db.users[i].ID != id {
			continue
		}
		u := &r.db.users[i]
		if upd.Email != nil {
			u.Email = *upd.Email
		}
		if upd.Username != nil {
			u.Username = *upd.Username
		}
		if upd.Picture != nil {
			u.ProfilePicture = *upd.Picture
		}
		ret := *u
		return &ret, nil
	}
	return nil, nil
}

// AddLike inserts the publication into the user's liked-set if absent.
func (r *UserRepo) AddLike(ctx context.Context, userID, pubID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.users {
		if r.db.users[i].ID != userID {
			continue
		}
		for _, id := range r.db.users[i].LikedPublications {
			if id == pubID {
				return nil
			}
		}
		r.db.users[i].LikedPublications = append(r.db.users[i].LikedPublications, pubID)
		return nil
	}
	return nil
}

// RemoveLike removes the publication from the user's liked-set.
func (r *UserRepo) RemoveLike(ctx context.Context, userID, pubID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.users {
		if r.db.users[i].ID != userID {
			continue
		}
		liked := r.db.users[i].LikedPublications
		for j, id := range liked {
			if id == pubID {
				r.db.users[i].LikedPublications = append(liked[:j], liked[j+1:]...)
				return nil
			}
		}
		return nil
	}
	return nil
}

// CountLikes counts the users whose liked-set contains the publication.
func (r *UserRepo) CountLikes(ctx context.Context, pubID primitive.ObjectID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	for i := range r.db.users {
		for _, id := range r.db.users[i].LikedPublications {
			if id == pubID {
				n++
				break
			}
		}
	}
	return n, nil
}

// --- MediaStore ---

// MediaStore is an in-memory media store. Assets are held as bytes keyed by
// their assigned id.
type MediaStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    error
}

// NewMediaStore creates an empty in-memory media store.
func NewMediaStore() *MediaStore {
	return &MediaStore{objects: make(map[string][]byte)}
}

// FailUploads makes every subsequent Upload return err. Pass nil to recover.
func (m *MediaStore) FailUploads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

// Upload stores the content under a fresh id.
func (m *MediaStore) Upload(ctx context.Context, name string, content io.Reader, size int64, contentType string, kind domain.MediaKind) (domain.MediaRef, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return domain.MediaRef{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return domain.MediaRef{}, m.fail
	}

	id := string(kind) + "s/" + uuid.NewString()
	m.objects[id] = data
	return domain.MediaRef{ID: id, URL: "memory://" + id}, nil
}

// Delete removes the asset. Deleting an unknown id is not an error.
func (m *MediaStore) Delete(ctx context.Context, id string, kind domain.MediaKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, id)
	return nil
}

// Objects returns a snapshot of the stored asset ids.
func (m *MediaStore) Objects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.objects))
	for id := range m.objects {
		ids = append(ids, id)
	}
	return ids
}
