package app

import (
	"bytes"
	"context"
	"fmt"

	"eventfeed/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MediaFile is one uploaded file as received by the transport layer. The
// content type is whatever the caller declared; bytes are never inspected.
type MediaFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// CreatePublicationRequest carries the scalar fields of a new publication.
type CreatePublicationRequest struct {
	Title       string
	Description string
	Category    string
	StartDate   string
	EndDate     string
	Location    *domain.Location
}

// PublicationService encapsulates the publication lifecycle use cases.
type PublicationService struct {
	pubs  domain.PublicationRepository
	media domain.MediaStore
	log   *zap.Logger
}

// NewPublicationService creates a PublicationService backed by the given
// repository and media store.
func NewPublicationService(pubs domain.PublicationRepository, media domain.MediaStore, log *zap.Logger) *PublicationService {
	return &PublicationService{pubs: pubs, media: media, log: log}
}

// Create validates the request, resolves every attached file through the
// media store, and persists one new publication. Any upload failure aborts
// the whole creation: nothing is persisted and already-uploaded assets from
// this request are removed again.
func (s *PublicationService) Create(ctx context.Context, owner primitive.ObjectID, req CreatePublicationRequest, files []MediaFile) (*domain.Publication, error) {
	if req.Title == "" || req.Description == "" || req.Category == "" ||
		req.StartDate == "" || req.EndDate == "" || req.Location == nil {
		return nil, fmt.Errorf("%w: titles, descriptions, locations, category, startDates and endDates are required", ErrValidation)
	}
	if !domain.ValidCategory(req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, req.Category)
	}

	photos, videos, err := s.uploadAll(ctx, files)
	if err != nil {
		return nil, err
	}

	p := &domain.Publication{
		Title:       req.Title,
		Description: req.Description,
		Owner:       owner,
		Location:    *req.Location,
		Category:    req.Category,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Media: domain.MediaLists{
			Photos: photos,
			Videos: videos,
		},
	}

	id, err := s.pubs.Insert(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return p, nil
}

// Get returns one publication. A syntactically invalid id fails before any
// store access is attempted.
func (s *PublicationService) Get(ctx context.Context, rawID string) (*domain.Publication, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, ErrInvalidID
	}
	p, err := s.pubs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// List returns every publication. An empty result is returned as-is; the
// transport layer decides how to render it.
func (s *PublicationService) List(ctx context.Context) ([]domain.Publication, error) {
	return s.pubs.List(ctx)
}

// ListByCategory returns the publications in one category.
func (s *PublicationService) ListByCategory(ctx context.Context, category string) ([]domain.Publication, error) {
	return s.pubs.ListByCategory(ctx, category)
}

// ListByOwner returns the publications created by one user.
func (s *PublicationService) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]domain.Publication, error) {
	return s.pubs.ListByOwner(ctx, owner)
}

// Update applies the non-nil scalar fields and appends any new media to the
// publication. Only the owner may update. All uploads are resolved and
// gathered before the record is touched.
func (s *PublicationService) Update(ctx context.Context, rawID string, caller primitive.ObjectID, upd domain.PublicationUpdate, files []MediaFile) (*domain.Publication, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, ErrInvalidID
	}
	p, err := s.pubs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	if p.Owner != caller {
		return nil, ErrNotOwner
	}

	if upd.Category != nil && !domain.ValidCategory(*upd.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, *upd.Category)
	}

	photos, videos, err := s.uploadAll(ctx, files)
	if err != nil {
		return nil, err
	}
	if len(photos) > 0 || len(videos) > 0 {
		if err := s.pubs.AppendMedia(ctx, id, photos, videos); err != nil {
			return nil, err
		}
	}

	if err := s.pubs.Update(ctx, id, upd); err != nil {
		return nil, err
	}

	updated, err := s.pubs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete removes a publication after attempting to delete every hosted asset
// it references. Asset deletion is best effort: a failure is logged and the
// cascade continues, and the record is removed regardless.
func (s *PublicationService) Delete(ctx context.Context, rawID string, caller primitive.ObjectID) error {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return ErrInvalidID
	}
	p, err := s.pubs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNotFound
	}
	if p.Owner != caller {
		return ErrNotOwner
	}

	for _, ref := range p.Media.Photos {
		if err := s.media.Delete(ctx, ref.ID, domain.MediaPhoto); err != nil {
			s.log.Warn("photo delete failed during cascade",
				zap.String("publication", rawID), zap.String("asset", ref.ID), zap.Error(err))
		}
	}
	for _, ref := range p.Media.Videos {
		if err := s.media.Delete(ctx, ref.ID, domain.MediaVideo); err != nil {
			s.log.Warn("video delete failed during cascade",
				zap.String("publication", rawID), zap.String("asset", ref.ID), zap.Error(err))
		}
	}

	return s.pubs.Delete(ctx, id)
}

// uploadAll resolves every file through the media store concurrently and
// joins the results before returning, so list order follows the submitted
// file order. On any failure it removes the assets that did make it.
func (s *PublicationService) uploadAll(ctx context.Context, files []MediaFile) (photos, videos []domain.MediaRef, err error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	type slot struct {
		kind domain.MediaKind
		ref  domain.MediaRef
		ok   bool
	}
	slots := make([]slot, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		kind, ok := domain.KindForContentType(f.ContentType)
		if !ok {
			continue
		}
		i, f := i, f
		g.Go(func() error {
			ref, err := s.media.Upload(gctx, f.Name, bytes.NewReader(f.Data), int64(len(f.Data)), f.ContentType, kind)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrMediaUpload, f.Name, err)
			}
			slots[i] = slot{kind: kind, ref: ref, ok: true}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, sl := range slots {
			if !sl.ok {
				continue
			}
			if derr := s.media.Delete(ctx, sl.ref.ID, sl.kind); derr != nil {
				s.log.Warn("cleanup of aborted upload failed",
					zap.String("asset", sl.ref.ID), zap.Error(derr))
			}
		}
		return nil, nil, err
	}

	for _, sl := range slots {
		if !sl.ok {
			continue
		}
		if sl.kind == domain.MediaPhoto {
			photos = append(photos, sl.ref)
		} else {
			videos = append(videos, sl.ref)
		}
	}
	return photos, videos, nil
}
