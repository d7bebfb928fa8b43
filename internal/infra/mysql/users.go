package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/boddenberg/rentease-api-go/internal/domain"
)

type userRow struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	FullName     *string   `db:"full_name"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r userRow) toDomain() *domain.UserRecord {
	return &domain.UserRecord{
		User:         domain.User{ID: r.ID, Email: r.Email, FullName: r.FullName},
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.UserRecord, error) {
	return s.getUser(ctx, "UserStore.GetUserByEmail", `email = ?`, email)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.UserRecord, error) {
	return s.getUser(ctx, "UserStore.GetUserByID", `id = ?`, id)
}

func (s *Store) getUser(ctx context.Context, op, where string, arg any) (*domain.UserRecord, error) {
	ctx, span := tracer.Start(ctx, "MySQL."+op)
	defer span.End()

	q := `SELECT id, email, full_name, password_hash, created_at FROM users WHERE ` + where + ` LIMIT 1`

	var row userRow
	if err := s.db.GetContext(ctx, &row, q, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, s.fail(op, err)
	}
	return row.toDomain(), nil
}

func (s *Store) CreateUser(ctx context.Context, email, passwordHash string, fullName *string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "MySQL.CreateUser")
	defer span.End()

	const q = `INSERT INTO users (email, password_hash, full_name) VALUES (?, ?, ?)`

	res, err := s.db.ExecContext(ctx, q, email, passwordHash, fullName)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, &domain.ErrAlreadyExists{Message: "User already exists"}
		}
		return nil, s.fail("UserStore.CreateUser", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, s.fail("UserStore.CreateUser", err)
	}
	return &domain.User{ID: strconv.FormatInt(id, 10), Email: email, FullName: fullName}, nil
}
