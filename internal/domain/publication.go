// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Publication categories. The set is fixed; anything else is rejected at
// create and update time.
const (
	CategoryMusical  = "musical"
	CategoryCharity  = "charity"
	CategoryCultural = "cultural"
	CategorySocial   = "social"
)

// ValidCategory reports whether c is one of the known publication categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryMusical, CategoryCharity, CategoryCultural, CategorySocial:
		return true
	}
	return false
}

// Location is a publication's geographic position.
type Location struct {
	Lat  float64 `bson:"lat" json:"lat"`
	Long float64 `bson:"long" json:"long"`
}

// MediaLists holds the ordered photo and video references embedded in a
// publication. Entries are appended, never reordered; removal is by id.
type MediaLists struct {
	Photos []MediaRef `bson:"photos" json:"photos"`
	Videos []MediaRef `bson:"videos" json:"videos"`
}

// Publication represents a published event. Field names on the wire keep the
// original collection layout so existing clients continue to work.
type Publication struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"titles" json:"titles"`
	Description string             `bson:"descriptions" json:"descriptions"`
	Owner       primitive.ObjectID `bson:"idUsers" json:"idUsers"`
	Location    Location           `bson:"locations" json:"locations"`
	Category    string             `bson:"categorys" json:"categorys"`
	StartDate   string             `bson:"startDates" json:"startDates"`
	EndDate     string             `bson:"endDates" json:"endDates"`
	Media       MediaLists         `bson:"medias" json:"medias"`

	// Liked is derived per viewer and never stored.
	Liked bool `bson:"-" json:"liked"`
}

// PublicationUpdate carries the scalar fields of a publication update. Only
// non-nil fields are applied, so an omitted field never overwrites a stored
// value.
type PublicationUpdate struct {
	Title       *string
	Description *string
	Location    *Location
	Category    *string
	StartDate   *string
	EndDate     *string
}

// PublicationRepository defines the port for publication persistence.
// Lookups return (nil, nil) when no record matches.
type PublicationRepository interface {
	Insert(ctx context.Context, p *Publication) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Publication, error)
	List(ctx context.Context) ([]Publication, error)
	ListByCategory(ctx context.Context, category string) ([]Publication, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]Publication, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Publication, error)
	Update(ctx context.Context, id primitive.ObjectID, upd PublicationUpdate) error
	AppendMedia(ctx context.Context, id primitive.ObjectID, photos, videos []MediaRef) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
