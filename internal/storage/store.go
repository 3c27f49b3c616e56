package storage

import (
	"context"
	"errors"
	"time"
)

type Store interface {
	// users
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// blog posts
	ListPosts(ctx context.Context) ([]*BlogPost, error)
	ListPublishedPosts(ctx context.Context, limit int64) ([]*BlogPost, error)
	GetPostByID(ctx context.Context, id int64) (*BlogPost, error)
	CreatePost(ctx context.Context, fields PostFields, authorID int64) (*BlogPost, error)
	UpdatePost(ctx context.Context, id int64, fields PostFields) (*BlogPost, error)
	SetPostPublished(ctx context.Context, id int64, published bool) (*BlogPost, error)
	DeletePost(ctx context.Context, id int64) error

	// contact inquiries
	CreateInquiry(ctx context.Context, fields InquiryFields) (*ContactInquiry, error)
	ListInquiries(ctx context.Context) ([]*ContactInquiry, error)
	DeleteInquiry(ctx context.Context, id int64) error

	Close() error
}

var (
	ErrNotFound        = errors.New("record not found")
	ErrUniqueViolation = errors.New("unique constraint violation")
	ErrCheckViolation  = errors.New("check constraint violation")
)

type User struct {
	ID           int64      `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	DeletedAt    *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// BlogPost is a row in blog_posts. A nil ImageURL means the post has no image.
type BlogPost struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Excerpt   string    `db:"excerpt" json:"excerpt"`
	Content   string    `db:"content" json:"content"`
	ImageURL  *string   `db:"image_url" json:"image_url,omitempty"`
	Published bool      `db:"published" json:"published"`
	AuthorID  int64     `db:"author_id" json:"author_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PostFields are the editable fields of a blog post. ID, author id and
// timestamps are owned by the store and never set from a payload.
type PostFields struct {
	Title     string  `json:"title"`
	Excerpt   string  `json:"excerpt"`
	Content   string  `json:"content"`
	ImageURL  *string `json:"image_url,omitempty"`
	Published bool    `json:"published"`
}

type ContactInquiry struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone,omitempty"`
	Company   string    `db:"company" json:"company,omitempty"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type InquiryFields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Message string `json:"message"`
}
