package mysql

import (
	"context"
	"strconv"

	"github.com/boddenberg/rentease-api-go/internal/domain"
)

func (s *Store) CreateContactMessage(ctx context.Context, req *domain.ContactRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "MySQL.CreateContactMessage")
	defer span.End()

	const q = `INSERT INTO contact_messages (name, email, phone, subject, message)
		VALUES (?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, q, req.Name, req.Email, nullableString(req.Phone), nullableString(req.Subject), req.Message)
	if err != nil {
		return "", s.fail("ContactStore.CreateContactMessage", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", s.fail("ContactStore.CreateContactMessage", err)
	}
	return strconv.FormatInt(id, 10), nil
}
