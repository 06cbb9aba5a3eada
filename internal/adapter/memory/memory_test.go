package memory

import (
	"context"
	"strings"
	"testing"

	"eventfeed/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPublicationRepo_InsertGetDelete(t *testing.T) {
	ctx := context.Background()
	pubs := New().Publications()

	id, err := pubs.Insert(ctx, &domain.Publication{Title: "Concert", Category: domain.CategoryMusical})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := pubs.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Title != "Concert" {
		t.Fatalf("expected stored publication, got %+v", got)
	}

	// Mutating the returned copy must not touch the stored record.
	got.Title = "Changed"
	again, _ := pubs.GetByID(ctx, id)
	if again.Title != "Concert" {
		t.Error("GetByID must return a copy")
	}

	if err := pubs.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	gone, err := pubs.GetByID(ctx, id)
	if err != nil || gone != nil {
		t.Errorf("expected (nil, nil) after delete, got %+v, %v", gone, err)
	}
}

func TestPublicationRepo_UpdateAppliesOnlyPresentFields(t *testing.T) {
	ctx := context.Background()
	pubs := New().Publications()

	id, _ := pubs.Insert(ctx, &domain.Publication{Title: "Old", Description: "Keep"})

	title := "New"
	if err := pubs.Update(ctx, id, domain.PublicationUpdate{Title: &title}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := pubs.GetByID(ctx, id)
	if got.Title != "New" || got.Description != "Keep" {
		t.Errorf("expected New/Keep, got %s/%s", got.Title, got.Description)
	}
}

func TestPublicationRepo_AppendMedia(t *testing.T) {
	ctx := context.Background()
	pubs := New().Publications()

	id, _ := pubs.Insert(ctx, &domain.Publication{Title: "Concert"})

	photos := []domain.MediaRef{{ID: "photos/1", URL: "memory://photos/1"}}
	videos := []domain.MediaRef{{ID: "videos/1", URL: "memory://videos/1"}}
	if err := pubs.AppendMedia(ctx, id, photos, videos); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, _ := pubs.GetByID(ctx, id)
	if len(got.Media.Photos) != 1 || len(got.Media.Videos) != 1 {
		t.Errorf("expected 1 photo and 1 video, got %+v", got.Media)
	}
}

func TestUserRepo_Likes(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	userID, _ := users.Insert(ctx, &domain.User{Username: "alice", Email: "alice@example.com"})
	pubID := primitive.NewObjectID()

	if err := users.AddLike(ctx, userID, pubID); err != nil {
		t.Fatalf("add like: %v", err)
	}
	// Re-adding is a no-op, like $addToSet.
	_ = users.AddLike(ctx, userID, pubID)

	n, err := users.CountLikes(ctx, pubID)
	if err != nil || n != 1 {
		t.Errorf("expected count 1, got %d (%v)", n, err)
	}

	if err := users.RemoveLike(ctx, userID, pubID); err != nil {
		t.Fatalf("remove like: %v", err)
	}
	n, _ = users.CountLikes(ctx, pubID)
	if n != 0 {
		t.Errorf("expected count 0 after removal, got %d", n)
	}
}

func TestUserRepo_InUseExcludesCaller(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	aliceID, _ := users.Insert(ctx, &domain.User{Username: "alice", Email: "alice@example.com"})
	_, _ = users.Insert(ctx, &domain.User{Username: "bob", Email: "bob@example.com"})

	taken, _ := users.EmailInUse(ctx, "alice@example.com", aliceID)
	if taken {
		t.Error("a user's own email is not a conflict")
	}
	taken, _ = users.EmailInUse(ctx, "bob@example.com", aliceID)
	if !taken {
		t.Error("another user's email is a conflict")
	}
	taken, _ = users.UsernameInUse(ctx, "bob", aliceID)
	if !taken {
		t.Error("another user's username is a conflict")
	}
}

func TestUserRepo_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	id, _ := users.Insert(ctx, &domain.User{Username: "alice", Email: "alice@example.com"})

	username := "alicia"
	got, err := users.UpdateProfile(ctx, id, domain.ProfileUpdate{Username: &username})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Username != "alicia" || got.Email != "alice@example.com" {
		t.Errorf("expected alicia/alice@example.com, got %s/%s", got.Username, got.Email)
	}

	missing, err := users.UpdateProfile(ctx, primitive.NewObjectID(), domain.ProfileUpdate{Username: &username})
	if err != nil || missing != nil {
		t.Errorf("expected (nil, nil) for an unknown user, got %+v, %v", missing, err)
	}
}

func TestMediaStore_UploadDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMediaStore()

	ref, err := store.Upload(ctx, "a.jpg", strings.NewReader("data"), 4, "image/jpeg", domain.MediaPhoto)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if ref.ID == "" || ref.URL == "" {
		t.Fatalf("expected populated ref, got %+v", ref)
	}
	if len(store.Objects()) != 1 {
		t.Errorf("expected 1 object, got %v", store.Objects())
	}

	if err := store.Delete(ctx, ref.ID, domain.MediaPhoto); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Deleting again is not an error.
	if err := store.Delete(ctx, ref.ID, domain.MediaPhoto); err != nil {
		t.Errorf("repeat delete: %v", err)
	}
	if len(store.Objects()) != 0 {
		t.Errorf("expected no objects, got %v", store.Objects())
	}
}
