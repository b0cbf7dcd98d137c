package models

import (
	"fmt"
	"time"

	"intranet/core/app/activities"
	"intranet/core/storage"
	"intranet/core/types"

	"gorm.io/gorm"
)

// Post is a company news article
type Post struct {
	Id          uint                `json:"id" gorm:"primarykey"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	DeletedAt   gorm.DeletedAt      `json:"-" gorm:"index"`
	Title       string              `json:"title" gorm:"type:varchar(255)"`
	Slug        string              `json:"slug" gorm:"type:varchar(255);uniqueIndex"`
	Excerpt     string              `json:"excerpt" gorm:"type:text"`
	Content     string              `json:"content" gorm:"type:text"`
	Category    string              `json:"category" gorm:"type:varchar(100);index"`
	AuthorId    uint                `json:"author_id"`
	Published   bool                `json:"published"`
	IsPinned    bool                `json:"is_pinned"`
	PublishedAt types.DateTime      `json:"published_at" swaggertype:"string"`
	CoverImage  *storage.Attachment `json:"cover_image,omitempty" gorm:"-"`
}

// TableName returns the table name for the Post model
func (m *Post) TableName() string {
	return "news_posts"
}

// GetId returns the Id of the model
func (m *Post) GetId() uint {
	return m.Id
}

// GetModelName returns the model name
func (m *Post) GetModelName() string {
	return "post"
}

// CreatePostRequest represents the request payload for creating a Post
type CreatePostRequest struct {
	Title       string         `json:"title" binding:"required,max=255"`
	Slug        string         `json:"slug" binding:"omitempty,max=255"`
	Excerpt     string         `json:"excerpt"`
	Content     string         `json:"content" binding:"required"`
	Category    string         `json:"category"`
	Published   bool           `json:"published"`
	IsPinned    bool           `json:"is_pinned"`
	PublishedAt types.DateTime `json:"published_at" swaggertype:"string"`
}

// UpdatePostRequest represents the request payload for updating a Post
type UpdatePostRequest struct {
	Title       string         `json:"title,omitempty" binding:"omitempty,max=255"`
	Excerpt     string         `json:"excerpt,omitempty"`
	Content     string         `json:"content,omitempty"`
	Category    string         `json:"category,omitempty"`
	Published   *bool          `json:"published,omitempty"`
	IsPinned    *bool          `json:"is_pinned,omitempty"`
	PublishedAt types.DateTime `json:"published_at,omitempty" swaggertype:"string"`
}

// PostListResponse is the list form of a Post without its body
type PostListResponse struct {
	Id          uint           `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Excerpt     string         `json:"excerpt"`
	Category    string         `json:"category"`
	IsPinned    bool           `json:"is_pinned"`
	PublishedAt types.DateTime `json:"published_at"`
	CoverURL    string         `json:"cover_url,omitempty"`
}

// ToListResponse converts the model to a list response
func (m *Post) ToListResponse() *PostListResponse {
	resp := &PostListResponse{
		Id:          m.Id,
		Title:       m.Title,
		Slug:        m.Slug,
		Excerpt:     m.Excerpt,
		Category:    m.Category,
		IsPinned:    m.IsPinned,
		PublishedAt: m.PublishedAt,
	}
	if m.CoverImage != nil {
		resp.CoverURL = m.CoverImage.URL
	}
	return resp
}

func (m *Post) ActivityEntry() activities.Entry {
	return activities.Entry{
		UserId:      m.AuthorId,
		EntityId:    m.Slug,
		Description: fmt.Sprintf("Published %q", m.Title),
	}
}
