package store_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"bboard/internal/domain"
	"bboard/internal/store"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	st := store.New(db)
	if err := st.AutoMigrate(); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return st
}

func TestDeleteUserData(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	top := &domain.Rubric{Name: "Electronics", Order: 1}
	if err := st.Rubrics().Create(ctx, top); err != nil {
		t.Fatalf("create rubric: %v", err)
	}
	sub := &domain.Rubric{Name: "Phones", Order: 1, ParentID: &top.ID}
	if err := st.Rubrics().Create(ctx, sub); err != nil {
		t.Fatalf("create rubric: %v", err)
	}

	user := &domain.User{
		ID:         uuid.New(),
		Username:   "alice",
		PassAlgo:   "argon2id",
		PassHash:   []byte("h"),
		PassSalt:   []byte("s"),
		PassParams: []byte("{}"),
		IsActive:   true,
	}
	if err := st.Users().Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	other := &domain.User{
		ID:         uuid.New(),
		Username:   "bob",
		PassAlgo:   "argon2id",
		PassHash:   []byte("h"),
		PassSalt:   []byte("s"),
		PassParams: []byte("{}"),
		IsActive:   true,
	}
	if err := st.Users().Create(ctx, other); err != nil {
		t.Fatalf("create other user: %v", err)
	}

	bb1 := &domain.Bb{RubricID: sub.ID, Title: "Phone", Contacts: "x", AuthorID: user.ID, Image: "images/main.jpg", IsActive: true}
	bb2 := &domain.Bb{RubricID: sub.ID, Title: "Charger", Contacts: "x", AuthorID: user.ID, IsActive: true}
	keep := &domain.Bb{RubricID: sub.ID, Title: "Bob's tablet", Contacts: "x", AuthorID: other.ID, IsActive: true}
	for _, bb := range []*domain.Bb{bb1, bb2, keep} {
		if err := st.Bbs().Create(ctx, bb); err != nil {
			t.Fatalf("create bb: %v", err)
		}
	}

	if err := st.Images().Create(ctx, &domain.AdditionalImage{BbID: bb1.ID, Image: "images/a.jpg"}); err != nil {
		t.Fatalf("create image: %v", err)
	}
	if err := st.Comments().Create(ctx, &domain.Comment{BbID: bb1.ID, Author: "guest", Content: "hi", IsActive: true}); err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if err := st.Comments().Create(ctx, &domain.Comment{BbID: keep.ID, Author: "guest", Content: "hi", IsActive: true}); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	counts, blobKeys, err := st.DeleteUserData(ctx, user.ID)
	if err != nil {
		t.Fatalf("delete user data: %v", err)
	}
	if counts["users"] != 1 || counts["bbs"] != 2 || counts["additionalImages"] != 1 || counts["comments"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}

	sort.Strings(blobKeys)
	want := []string{"images/a.jpg", "images/main.jpg"}
	if len(blobKeys) != len(want) || blobKeys[0] != want[0] || blobKeys[1] != want[1] {
		t.Fatalf("unexpected blob keys: %v", blobKeys)
	}

	if _, err := st.Users().GetByID(ctx, user.ID); !errors.Is(err, store.ErrRecordNotFound) {
		t.Fatalf("expected user gone, got %v", err)
	}
	// The other user's data is untouched.
	if _, err := st.Bbs().GetByID(ctx, keep.ID); err != nil {
		t.Fatalf("expected bob's listing intact, got %v", err)
	}
	comments, err := st.Comments().ListActiveByBb(ctx, keep.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected bob's comment intact, got %d", len(comments))
	}
}

func TestDeleteUserDataUnknownUser(t *testing.T) {
	st := newStore(t)

	counts, blobKeys, err := st.DeleteUserData(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("delete user data: %v", err)
	}
	if counts["users"] != 0 {
		t.Fatalf("expected zero user count, got %v", counts)
	}
	if len(blobKeys) != 0 {
		t.Fatalf("expected no blob keys, got %v", blobKeys)
	}
}
