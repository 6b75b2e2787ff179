// Reelnotes - Movie Review and Blog Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelnotes

package models

import (
	"strings"
	"time"
)

// DefaultBlogAuthor is used when a post is created without an author.
const DefaultBlogAuthor = "Reelnotes Team"

// BlogPost is an editorial article.
type BlogPost struct {
	ID         string    `json:"id"`
	Title      string    `json:"title" validate:"notblank"`
	CoverImage string    `json:"coverImage" validate:"notblank"`
	Content    string    `json:"content" validate:"min=200"`
	Excerpt    string    `json:"excerpt" validate:"notblank"`
	Author     string    `json:"author"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BlogPostUpdate carries a partial blog post update. A nil field is left unchanged.
type BlogPostUpdate struct {
	Title      *string `json:"title" validate:"omitempty,notblank"`
	CoverImage *string `json:"coverImage" validate:"omitempty,notblank"`
	Content    *string `json:"content" validate:"omitempty,min=200"`
	Excerpt    *string `json:"excerpt" validate:"omitempty,notblank"`
	Author     *string `json:"author"`
}

// Apply copies every present field onto p and refreshes UpdatedAt.
func (u *BlogPostUpdate) Apply(p *BlogPost, now time.Time) {
	if u.Title != nil {
		p.Title = strings.TrimSpace(*u.Title)
	}
	if u.CoverImage != nil {
		p.CoverImage = *u.CoverImage
	}
	if u.Content != nil {
		p.Content = *u.Content
	}
	if u.Excerpt != nil {
		p.Excerpt = *u.Excerpt
	}
	if u.Author != nil {
		p.Author = AuthorOrDefault(*u.Author)
	}
	p.UpdatedAt = now
}

// AuthorOrDefault returns the trimmed author or DefaultBlogAuthor when blank.
func AuthorOrDefault(author string) string {
	if author = strings.TrimSpace(author); author == "" {
		return DefaultBlogAuthor
	}
	return author
}
