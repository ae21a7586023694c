package models

import (
	"errors"
	"fmt"
)

// Post is a row of the posts table.
type Post struct {
	ID      int64  `db:"id"      json:"id"`
	Title   string `db:"title"   json:"title"`
	Content string `db:"content" json:"content"`
}

// PostInput is the request body for create and update. Pointer fields tell
// an absent key apart from an empty string, which is a valid value.
type PostInput struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// ErrMissingField matches every ValidationError via errors.Is.
var ErrMissingField = errors.New("missing required field")

// ValidationError names the required field that was absent.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrMissingField
}

// Validate checks that title and content are both present.
func (in PostInput) Validate() error {
	if in.Title == nil {
		return &ValidationError{Field: "title"}
	}
	if in.Content == nil {
		return &ValidationError{Field: "content"}
	}
	return nil
}

// ToPost converts a validated input. Call Validate first.
func (in PostInput) ToPost() Post {
	var p Post
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	return p
}
