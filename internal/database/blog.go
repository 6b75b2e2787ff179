// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package database

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/tomtom215/reelnotes/internal/models"
)

func blogKey(id string) string {
	return blogKeyPrefix + id
}

// CreateBlogPost assigns an ID and timestamps, defaults the author and
// stores p.
func (d *DB) CreateBlogPost(ctx context.Context, p *models.BlogPost) (_ *models.BlogPost, err error) {
	defer d.observe("create", collBlog, time.Now(), &err)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := *p
	now := d.timestamp()
	doc.ID = uuid.NewString()
	doc.Title = strings.TrimSpace(doc.Title)
	doc.Author = models.AuthorOrDefault(doc.Author)
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if err := validateDoc(&doc); err != nil {
		return nil, err
	}

	err = d.db.Update(func(txn *badger.Txn) error {
		return putDoc(txn, blogKey(doc.ID), &doc)
	})
	if err != nil {
		return nil, fmt.Errorf("create blog post: %w", err)
	}
	return &doc, nil
}

// GetBlogPost returns the post with the given id.
func (d *DB) GetBlogPost(ctx context.Context, id string) (_ *models.BlogPost, err error) {
	defer d.observe("get", collBlog, time.Now(), &err)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var p models.BlogPost
	err = d.db.View(func(txn *badger.Txn) error {
		return getDoc(txn, blogKey(id), &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListBlogPosts returns every post, newest first.
func (d *DB) ListBlogPosts(ctx context.Context) (_ []models.BlogPost, err error) {
	defer d.observe("list", collBlog, time.Now(), &err)

	posts, err := scanPrefix[models.BlogPost](ctx, d, blogKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	slices.SortStableFunc(posts, func(a, b models.BlogPost) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if posts == nil {
		posts = []models.BlogPost{}
	}
	return posts, nil
}

// UpdateBlogPost applies upd and returns the updated post together with the
// version it replaced.
func (d *DB) UpdateBlogPost(ctx context.Context, id string, upd *models.BlogPostUpdate) (updated, previous *models.BlogPost, err error) {
	defer d.observe("update", collBlog, time.Now(), &err)

	err = d.updateWithRetry(ctx, func(txn *badger.Txn) error {
		var cur models.BlogPost
		if err := getDoc(txn, blogKey(id), &cur); err != nil {
			return err
		}
		prev := cur

		upd.Apply(&cur, d.timestamp())
		if err := validateDoc(&cur); err != nil {
			return err
		}
		if err := putDoc(txn, blogKey(id), &cur); err != nil {
			return err
		}
		updated, previous = &cur, &prev
		return nil
	}, nil)
	if err != nil {
		return nil, nil, err
	}
	return updated, previous, nil
}

// DeleteBlogPost removes the post and returns the deleted document.
func (d *DB) DeleteBlogPost(ctx context.Context, id string) (_ *models.BlogPost, err error) {
	defer d.observe("delete", collBlog, time.Now(), &err)

	var deleted models.BlogPost
	err = d.updateWithRetry(ctx, func(txn *badger.Txn) error {
		if err := getDoc(txn, blogKey(id), &deleted); err != nil {
			return err
		}
		return deleteDoc(txn, blogKey(id))
	}, nil)
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}
