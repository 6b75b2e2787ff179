// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/reelnotes/internal/models"
)

func TestCreateBlogPost_ContentLength(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	short := samplePost("Too short")
	short.Content = longText(150)
	if _, err := db.CreateBlogPost(ctx, short); !IsValidationError(err) {
		t.Errorf("150 character content err = %v, want validation error", err)
	}

	ok := samplePost("Just right")
	ok.Content = longText(200)
	created, err := db.CreateBlogPost(ctx, ok)
	if err != nil {
		t.Fatalf("200 character content: %v", err)
	}
	if created.Author != models.DefaultBlogAuthor {
		t.Errorf("Author = %q, want default", created.Author)
	}

	// Code points, not bytes: 200 multi-byte runes pass.
	runes := samplePost("Runes")
	runes.Content = strings.Repeat("é", 200)
	if _, err := db.CreateBlogPost(ctx, runes); err != nil {
		t.Errorf("200 rune content: %v", err)
	}
}

func TestBlogPostLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first, err := db.CreateBlogPost(ctx, samplePost("First"))
	if err != nil {
		t.Fatalf("CreateBlogPost: %v", err)
	}
	p := samplePost("Second")
	p.Author = "Dana"
	second, err := db.CreateBlogPost(ctx, p)
	if err != nil {
		t.Fatalf("CreateBlogPost: %v", err)
	}

	posts, err := db.ListBlogPosts(ctx)
	if err != nil {
		t.Fatalf("ListBlogPosts: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != second.ID || posts[1].ID != first.ID {
		t.Errorf("list order wrong: %+v", posts)
	}

	cover := "/uploads/blog-9-9.webp"
	blank := "  "
	updated, previous, err := db.UpdateBlogPost(ctx, second.ID, &models.BlogPostUpdate{
		CoverImage: &cover,
		Author:     &blank,
	})
	if err != nil {
		t.Fatalf("UpdateBlogPost: %v", err)
	}
	if updated.CoverImage != cover || previous.CoverImage != second.CoverImage {
		t.Errorf("cover swap wrong: updated %q previous %q", updated.CoverImage, previous.CoverImage)
	}
	if updated.Author != models.DefaultBlogAuthor {
		t.Errorf("blank author not defaulted: %q", updated.Author)
	}
	if updated.Content != second.Content {
		t.Errorf("absent content changed")
	}

	deleted, err := db.DeleteBlogPost(ctx, first.ID)
	if err != nil {
		t.Fatalf("DeleteBlogPost: %v", err)
	}
	if deleted.ID != first.ID {
		t.Errorf("deleted wrong post")
	}
	if _, err := db.GetBlogPost(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBlogPost after delete err = %v", err)
	}
	if _, _, err := db.UpdateBlogPost(ctx, first.ID, &models.BlogPostUpdate{CoverImage: &cover}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateBlogPost missing err = %v", err)
	}
}

func TestListBlogPosts_Empty(t *testing.T) {
	db := setupTestDB(t)

	posts, err := db.ListBlogPosts(context.Background())
	if err != nil {
		t.Fatalf("ListBlogPosts: %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Errorf("posts = %#v, want empty non-nil slice", posts)
	}
}
