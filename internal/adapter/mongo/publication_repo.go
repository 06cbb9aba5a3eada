package mongo

import (
	"context"
	"errors"

	"eventfeed/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PublicationRepo implements domain.PublicationRepository on the
// publications collection.
type PublicationRepo struct {
	col *mongo.Collection
}

// NewPublicationRepo wraps the DB as a PublicationRepository.
func NewPublicationRepo(db *DB) *PublicationRepo {
	return &PublicationRepo{col: db.publications}
}

var _ domain.PublicationRepository = (*PublicationRepo)(nil)

// Insert persists a new publication and returns its assigned id.
func (r *PublicationRepo) Insert(ctx context.Context, p *domain.Publication) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("unexpected inserted id type")
	}
	return id, nil
}

// GetByID retrieves one publication, or (nil, nil) when absent.
func (r *PublicationRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Publication, error) {
	var p domain.Publication
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns every publication.
func (r *PublicationRepo) List(ctx context.Context) ([]domain.Publication, error) {
	return r.find(ctx, bson.M{})
}

// ListByCategory returns the publications in one category.
func (r *PublicationRepo) ListByCategory(ctx context.Context, category string) ([]domain.Publication, error) {
	return r.find(ctx, bson.M{"categorys": category})
}

// ListByOwner returns the publications created by one user.
func (r *PublicationRepo) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]domain.Publication, error) {
	return r.find(ctx, bson.M{"idUsers": owner})
}

// ListByIDs returns the publications whose ids are in ids.
func (r *PublicationRepo) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Publication, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// Update applies the non-nil scalar fields with a single $set.
func (r *PublicationRepo) Update(ctx context.Context, id primitive.ObjectID, upd domain.PublicationUpdate) error {
	set := bson.M{}
	if upd.Title != nil {
		set["titles"] = *upd.Title
	}
	if upd.Description != nil {
		set["descriptions"] = *upd.Description
	}
	if upd.Location != nil {
		set["locations"] = *upd.Location
	}
	if upd.Category != nil {
		set["categorys"] = *upd.Category
	}
	if upd.StartDate != nil {
		set["startDates"] = *upd.StartDate
	}
	if upd.EndDate != nil {
		set["endDates"] = *upd.EndDate
	}
	if len(set) == 0 {
		return nil
	}
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// AppendMedia pushes the new references onto the embedded media lists.
func (r *PublicationRepo) AppendMedia(ctx context.Context, id primitive.ObjectID, photos, videos []domain.MediaRef) error {
	push := bson.M{}
	if len(photos) > 0 {
		push["medias.photos"] = bson.M{"$each": photos}
	}
	if len(videos) > 0 {
		push["medias.videos"] = bson.M{"$each": videos}
	}
	if len(push) == 0 {
		return nil
	}
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$push": push})
	return err
}

// Delete removes the publication record.
func (r *PublicationRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *PublicationRepo) find(ctx context.Context, filter bson.M) ([]domain.Publication, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var items []domain.Publication
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
