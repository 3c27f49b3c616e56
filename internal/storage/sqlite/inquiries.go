package sqlite

import (
	"context"
	"fmt"

	"sunsite/internal/storage"
)

func (s *Store) CreateInquiry(ctx context.Context, fields storage.InquiryFields) (*storage.ContactInquiry, error) {
	query := `INSERT INTO contact_inquiries (name, email, phone, company, message)
		VALUES (?, ?, ?, ?, ?)
		RETURNING *`

	var inquiry storage.ContactInquiry
	err := s.db.GetContext(ctx, &inquiry, query,
		fields.Name, fields.Email, fields.Phone, fields.Company, fields.Message)
	if err != nil {
		return nil, fmt.Errorf("could not create inquiry: %w", mapSqlError(err))
	}

	return &inquiry, nil
}

func (s *Store) ListInquiries(ctx context.Context) ([]*storage.ContactInquiry, error) {
	query := `SELECT * FROM contact_inquiries
		ORDER BY created_at DESC, id DESC`

	var inquiries []*storage.ContactInquiry
	if err := s.db.SelectContext(ctx, &inquiries, query); err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", mapSqlError(err))
	}

	return inquiries, nil
}

// DeleteInquiry hard-deletes the row; an already absent id is not an error.
func (s *Store) DeleteInquiry(ctx context.Context, id int64) error {
	query := `DELETE FROM contact_inquiries WHERE id = ?`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("could not delete inquiry %d: %w", id, mapSqlError(err))
	}

	return nil
}
