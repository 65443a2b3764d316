package plan

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/evcraddock/litetravel/internal/trip"
)

// Repository provides owner-scoped CRUD operations for plans.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a plan repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `id, user_id, title, description, content_json, created_at, updated_at`

// Create stores a new plan for userID. Content is normalized before saving.
func (r *Repository) Create(userID string, in Input) (*Plan, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(trip.Normalize(in.Content))
	if err != nil {
		return nil, fmt.Errorf("encoding content: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	if _, err := r.db.Exec(
		`INSERT INTO plans (id, user_id, title, description, content_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, userID, in.Title, nullString(in.Description), string(raw), now, now,
	); err != nil {
		return nil, fmt.Errorf("inserting plan: %w", err)
	}

	return r.Get(userID, id)
}

// Get returns one of userID's plans.
func (r *Repository) Get(userID, id string) (*Plan, error) {
	row := r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM plans WHERE id = ? AND user_id = ?", selectColumns),
		id, userID,
	)

	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying plan %s: %w", id, err)
	}
	return p, nil
}

// List returns summaries of userID's plans, most recently updated first.
func (r *Repository) List(userID string) (summaries []Summary, err error) {
	rows, err := r.db.Query(
		fmt.Sprintf("SELECT %s FROM plans WHERE user_id = ? ORDER BY updated_at DESC, rowid DESC", selectColumns),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	summaries = []Summary{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		summaries = append(summaries, p.Summary())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}

	return summaries, nil
}

// Update applies a partial update and bumps updated_at.
func (r *Repository) Update(userID, id string, u Update) (*Plan, error) {
	p, err := r.Get(userID, id)
	if err != nil {
		return nil, err
	}

	if u.Title != nil {
		if err := validateTitle(*u.Title); err != nil {
			return nil, err
		}
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = u.Description
	}
	if u.Content != nil {
		if err := validateContent(*u.Content); err != nil {
			return nil, err
		}
		p.Content = trip.Normalize(*u.Content)
	}

	raw, err := json.Marshal(p.Content)
	if err != nil {
		return nil, fmt.Errorf("encoding content: %w", err)
	}

	result, err := r.db.Exec(
		`UPDATE plans SET title = ?, description = ?, content_json = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		p.Title, nullString(p.Description), string(raw), time.Now().UTC(), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating plan: %w", err)
	}
	if err := expectOne(result); err != nil {
		return nil, err
	}

	return r.Get(userID, id)
}

// Delete removes one of userID's plans.
func (r *Repository) Delete(userID, id string) error {
	result, err := r.db.Exec("DELETE FROM plans WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return expectOne(result)
}

// Summary projects a plan into its list view.
func (p *Plan) Summary() Summary {
	return Summary{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		City:        p.Content.Meta.City,
		Dates:       p.Content.Meta.Dates,
		DaysCount:   len(p.Content.Days),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func scanPlan(row interface{ Scan(...any) error }) (*Plan, error) {
	var p Plan
	var desc sql.NullString
	var raw string
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &desc, &raw, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		p.Description = &desc.String
	}
	if err := json.Unmarshal([]byte(raw), &p.Content); err != nil {
		return nil, fmt.Errorf("decoding content of plan %s: %w", p.ID, err)
	}
	return &p, nil
}

func expectOne(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
