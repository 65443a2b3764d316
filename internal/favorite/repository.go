package favorite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/evcraddock/litetravel/internal/trip"
)

// Repository provides owner-scoped operations on favorites.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a favorite repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `id, user_id, type, name, address, lat, lng, created_at`

// Add saves a favorite for userID. Saving a second place with the same
// name and type fails with ErrDuplicate.
func (r *Repository) Add(userID string, in Input) (*Favorite, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var count int
	if err := r.db.QueryRow(
		"SELECT COUNT(*) FROM favorites WHERE user_id = ? AND name = ? AND type = ?",
		userID, in.Name, string(in.Type),
	).Scan(&count); err != nil {
		return nil, fmt.Errorf("checking duplicates: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicate
	}

	var address sql.NullString
	if in.Address != nil && *in.Address != "" {
		address = sql.NullString{String: *in.Address, Valid: true}
	}

	id := uuid.NewString()
	if _, err := r.db.Exec(
		`INSERT INTO favorites (id, user_id, type, name, address, lat, lng, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, string(in.Type), in.Name, address, in.Location.Lat, in.Location.Lng, time.Now().UTC(),
	); err != nil {
		return nil, fmt.Errorf("inserting favorite: %w", err)
	}

	row := r.db.QueryRow(fmt.Sprintf("SELECT %s FROM favorites WHERE id = ?", selectColumns), id)
	f, err := scanFavorite(row)
	if err != nil {
		return nil, fmt.Errorf("reading back favorite: %w", err)
	}
	return f, nil
}

// List returns userID's favorites newest first, optionally restricted to one type.
func (r *Repository) List(userID string, typ trip.NodeType) (favorites []*Favorite, err error) {
	query := fmt.Sprintf("SELECT %s FROM favorites WHERE user_id = ?", selectColumns)
	args := []any{userID}
	if typ != "" {
		if !trip.ValidNodeType(string(typ)) {
			return nil, fmt.Errorf("%w: unknown type %q", ErrInvalid, typ)
		}
		query += " AND type = ?"
		args = append(args, string(typ))
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	favorites = []*Favorite{}
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		favorites = append(favorites, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating favorites: %w", err)
	}

	return favorites, nil
}

// Grouped returns userID's favorites split by type.
func (r *Repository) Grouped(userID string) (*Grouped, error) {
	all, err := r.List(userID, "")
	if err != nil {
		return nil, err
	}

	g := &Grouped{Spot: []*Favorite{}, Hotel: []*Favorite{}, Dining: []*Favorite{}}
	for _, f := range all {
		switch f.Type {
		case trip.NodeSpot:
			g.Spot = append(g.Spot, f)
		case trip.NodeHotel:
			g.Hotel = append(g.Hotel, f)
		case trip.NodeDining:
			g.Dining = append(g.Dining, f)
		}
	}
	return g, nil
}

// Delete removes one of userID's favorites.
func (r *Repository) Delete(userID, id string) error {
	result, err := r.db.Exec("DELETE FROM favorites WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func scanFavorite(row interface{ Scan(...any) error }) (*Favorite, error) {
	var f Favorite
	var typ string
	var address sql.NullString
	if err := row.Scan(&f.ID, &f.UserID, &typ, &f.Name, &address, &f.Location.Lat, &f.Location.Lng, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.Type = trip.NodeType(typ)
	if address.Valid {
		f.Address = &address.String
	}
	return &f, nil
}
