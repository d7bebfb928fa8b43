package mysql

import (
	"context"
	"strconv"
	"time"

	"github.com/boddenberg/rentease-api-go/internal/domain"
)

// savedRow carries the saved-property columns under sp_ aliases so they
// never collide with the joined property columns.
type savedRow struct {
	SavedID        string    `db:"sp_id"`
	SavedUserID    string    `db:"sp_user_id"`
	SavedCreatedAt time.Time `db:"sp_created_at"`
	domain.Property
}

func (s *Store) ListSaved(ctx context.Context, userID string) ([]domain.SavedProperty, error) {
	ctx, span := tracer.Start(ctx, "MySQL.ListSaved")
	defer span.End()

	const q = `SELECT sp.id AS sp_id, sp.user_id AS sp_user_id, sp.created_at AS sp_created_at,
			p.id, p.title, p.description, p.address, p.city, p.state, p.zip_code, p.country,
			p.latitude, p.longitude, p.price, p.bedrooms, p.bathrooms, p.area_sqft,
			p.property_type, p.status, p.amenities, p.images, p.featured,
			p.created_at, p.updated_at
		FROM saved_properties sp
		JOIN properties p ON sp.property_id = p.id
		WHERE sp.user_id = ?
		ORDER BY sp.created_at DESC`

	var rows []savedRow
	if err := s.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, s.fail("SavedStore.ListSaved", err)
	}

	out := make([]domain.SavedProperty, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.SavedProperty{
			ID:         r.SavedID,
			UserID:     r.SavedUserID,
			PropertyID: r.Property.ID,
			CreatedAt:  r.SavedCreatedAt,
			Property:   r.Property,
		})
	}
	return out, nil
}

func (s *Store) IsSaved(ctx context.Context, userID, propertyID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "MySQL.IsSaved")
	defer span.End()

	const q = `SELECT EXISTS(
		SELECT 1 FROM saved_properties WHERE user_id = ? AND property_id = ?)`

	var saved bool
	if err := s.db.GetContext(ctx, &saved, q, userID, propertyID); err != nil {
		return false, s.fail("SavedStore.IsSaved", err)
	}
	return saved, nil
}

// SaveIfAbsent inserts only when the pair is not yet present, in one
// statement. A unique key on (user_id, property_id) backs it up.
func (s *Store) SaveIfAbsent(ctx context.Context, userID, propertyID string) (string, bool, error) {
	ctx, span := tracer.Start(ctx, "MySQL.SaveIfAbsent")
	defer span.End()

	const q = `INSERT INTO saved_properties (user_id, property_id)
		SELECT ?, ? FROM DUAL
		WHERE NOT EXISTS (
			SELECT 1 FROM saved_properties WHERE user_id = ? AND property_id = ?)`

	res, err := s.db.ExecContext(ctx, q, userID, propertyID, userID, propertyID)
	if err != nil {
		if isDuplicateEntry(err) {
			return "", false, nil
		}
		return "", false, s.fail("SavedStore.SaveIfAbsent", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", false, s.fail("SavedStore.SaveIfAbsent", err)
	}
	if n == 0 {
		return "", false, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", false, s.fail("SavedStore.SaveIfAbsent", err)
	}
	return strconv.FormatInt(id, 10), true, nil
}

func (s *Store) DeleteSaved(ctx context.Context, userID, propertyID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "MySQL.DeleteSaved")
	defer span.End()

	const q = `DELETE FROM saved_properties WHERE user_id = ? AND property_id = ?`

	res, err := s.db.ExecContext(ctx, q, userID, propertyID)
	if err != nil {
		return 0, s.fail("SavedStore.DeleteSaved", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, s.fail("SavedStore.DeleteSaved", err)
	}
	return n, nil
}
