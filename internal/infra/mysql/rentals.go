package mysql

import (
	"context"
	"strconv"
	"time"

	"github.com/boddenberg/rentease-api-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// rentalRow is the flat shape of a rental joined with its property.
type rentalRow struct {
	ID          string              `db:"id"`
	UserID      string              `db:"user_id"`
	PropertyID  string              `db:"property_id"`
	StartDate   string              `db:"start_date"`
	EndDate     string              `db:"end_date"`
	Status      domain.RentalStatus `db:"status"`
	TotalAmount *float64            `db:"total_amount"`
	Notes       *string             `db:"notes"`
	CreatedAt   time.Time           `db:"created_at"`
	UpdatedAt   time.Time           `db:"updated_at"`

	PropertyTitle   string            `db:"p_title"`
	PropertyAddress string            `db:"p_address"`
	PropertyCity    string            `db:"p_city"`
	PropertyState   *string           `db:"p_state"`
	PropertyImages  domain.StringList `db:"p_images"`
	PropertyPrice   float64           `db:"p_price"`
}

func (r rentalRow) toDomain() domain.RentalWithProperty {
	return domain.RentalWithProperty{
		Rental: domain.Rental{
			ID:          r.ID,
			UserID:      r.UserID,
			PropertyID:  r.PropertyID,
			StartDate:   r.StartDate,
			EndDate:     r.EndDate,
			Status:      r.Status,
			TotalAmount: r.TotalAmount,
			Notes:       r.Notes,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		},
		Property: domain.RentalProperty{
			ID:      r.PropertyID,
			Title:   r.PropertyTitle,
			Address: r.PropertyAddress,
			City:    r.PropertyCity,
			State:   r.PropertyState,
			Images:  r.PropertyImages.OrEmpty(),
			Price:   r.PropertyPrice,
		},
	}
}

func (s *Store) ListRentalsByUser(ctx context.Context, userID string) ([]domain.RentalWithProperty, error) {
	ctx, span := tracer.Start(ctx, "MySQL.ListRentalsByUser")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	const q = `SELECT r.id, r.user_id, r.property_id,
			DATE_FORMAT(r.start_date, '%Y-%m-%d') AS start_date,
			DATE_FORMAT(r.end_date, '%Y-%m-%d') AS end_date,
			r.status, r.total_amount, r.notes, r.created_at, r.updated_at,
			p.title AS p_title, p.address AS p_address, p.city AS p_city,
			p.state AS p_state, p.images AS p_images, p.price AS p_price
		FROM rentals r
		JOIN properties p ON r.property_id = p.id
		WHERE r.user_id = ?
		ORDER BY r.created_at DESC`

	var rows []rentalRow
	if err := s.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, s.fail("RentalStore.ListRentalsByUser", err)
	}

	out := make([]domain.RentalWithProperty, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) CreateRental(ctx context.Context, userID string, req *domain.CreateRentalRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "MySQL.CreateRental")
	defer span.End()

	const q = `INSERT INTO rentals (user_id, property_id, start_date, end_date, total_amount, notes)
		VALUES (?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, q, userID, string(req.PropertyID), req.StartDate, req.EndDate, req.TotalAmount, req.Notes)
	if err != nil {
		return "", s.fail("RentalStore.CreateRental", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", s.fail("RentalStore.CreateRental", err)
	}
	return strconv.FormatInt(id, 10), nil
}

func (s *Store) UpdateRentalStatus(ctx context.Context, id, userID string, status domain.RentalStatus) (int64, error) {
	ctx, span := tracer.Start(ctx, "MySQL.UpdateRentalStatus")
	defer span.End()

	const q = `UPDATE rentals SET status = ? WHERE id = ? AND user_id = ?`

	res, err := s.db.ExecContext(ctx, q, status, id, userID)
	if err != nil {
		return 0, s.fail("RentalStore.UpdateRentalStatus", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, s.fail("RentalStore.UpdateRentalStatus", err)
	}
	return n, nil
}
