package sqlite

import (
	"context"
	"fmt"

	"sunsite/internal/storage"
)

func (s *Store) ListPosts(ctx context.Context) ([]*storage.BlogPost, error) {
	query := `SELECT * FROM blog_posts
		ORDER BY created_at DESC, id DESC`

	var posts []*storage.BlogPost
	if err := s.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", mapSqlError(err))
	}

	return posts, nil
}

func (s *Store) ListPublishedPosts(ctx context.Context, limit int64) ([]*storage.BlogPost, error) {
	query := `SELECT * FROM blog_posts
		WHERE published = 1
		ORDER BY created_at DESC, id DESC
		LIMIT ?`

	var posts []*storage.BlogPost
	if err := s.db.SelectContext(ctx, &posts, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list published posts: %w", mapSqlError(err))
	}

	return posts, nil
}

func (s *Store) GetPostByID(ctx context.Context, id int64) (*storage.BlogPost, error) {
	query := `SELECT * FROM blog_posts
		WHERE id = ?
		LIMIT 1`

	var post storage.BlogPost
	if err := s.db.GetContext(ctx, &post, query, id); err != nil {
		return nil, fmt.Errorf("cannot find post with ID %d: %w", id, mapSqlError(err))
	}

	return &post, nil
}

func (s *Store) CreatePost(ctx context.Context, fields storage.PostFields, authorID int64) (*storage.BlogPost, error) {
	query := `INSERT INTO blog_posts (title, excerpt, content, image_url, published, author_id)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING *`

	var post storage.BlogPost
	err := s.db.GetContext(ctx, &post, query,
		fields.Title, fields.Excerpt, fields.Content, fields.ImageURL, fields.Published, authorID)
	if err != nil {
		return nil, fmt.Errorf("could not create post: %w", mapSqlError(err))
	}

	return &post, nil
}

func (s *Store) UpdatePost(ctx context.Context, id int64, fields storage.PostFields) (*storage.BlogPost, error) {
	query := `UPDATE blog_posts
		SET title = ?, excerpt = ?, content = ?, image_url = ?, published = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING *`

	var post storage.BlogPost
	err := s.db.GetContext(ctx, &post, query,
		fields.Title, fields.Excerpt, fields.Content, fields.ImageURL, fields.Published, id)
	if err != nil {
		return nil, fmt.Errorf("could not update post %d: %w", id, mapSqlError(err))
	}

	return &post, nil
}

// SetPostPublished flips only the published flag; all other fields are untouched.
func (s *Store) SetPostPublished(ctx context.Context, id int64, published bool) (*storage.BlogPost, error) {
	query := `UPDATE blog_posts
		SET published = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING *`

	var post storage.BlogPost
	if err := s.db.GetContext(ctx, &post, query, published, id); err != nil {
		return nil, fmt.Errorf("could not set published on post %d: %w", id, mapSqlError(err))
	}

	return &post, nil
}

// DeletePost hard-deletes the row. Deleting an id that is already absent is
// not an error.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	query := `DELETE FROM blog_posts WHERE id = ?`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("could not delete post %d: %w", id, mapSqlError(err))
	}

	return nil
}
