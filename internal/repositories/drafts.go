package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/shared"
)

// DraftRepository implements models.Repository[*models.Draft].
//
// Drafts are deleted outright once submitted or discarded.
type DraftRepository struct {
	db *sql.DB
}

// NewDraftRepository creates a new DraftRepository with the given database connection
func NewDraftRepository(db *sql.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

var _ models.Repository[*models.Draft] = (*DraftRepository)(nil)

// Create inserts a new draft with a generated ID
func (r *DraftRepository) Create(draft *models.Draft) error {
	now := time.Now()
	draft.DraftID = shared.GenerateID()
	draft.Created = now
	draft.Updated = now

	if err := draft.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fieldErrors, err := encodeMap(draft.FieldErrors)
	if err != nil {
		return err
	}

	stmt := `
		INSERT INTO drafts (id, movie_id, payload, field_errors, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(stmt, draft.DraftID, draft.MovieID, string(draft.Payload), fieldErrors, draft.Created, draft.Updated)
	if err != nil {
		return fmt.Errorf("failed to insert draft: %w", err)
	}
	return nil
}

// Get retrieves a draft by ID
func (r *DraftRepository) Get(id string) (*models.Draft, error) {
	stmt := `
		SELECT id, movie_id, payload, field_errors, created_at, updated_at
		FROM drafts
		WHERE id = ?
	`
	return r.scan(r.db.QueryRow(stmt, id))
}

// Update replaces the payload and field messages of a draft
func (r *DraftRepository) Update(draft *models.Draft) error {
	if err := draft.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fieldErrors, err := encodeMap(draft.FieldErrors)
	if err != nil {
		return err
	}

	now := time.Now()
	stmt := `
		UPDATE drafts
		SET movie_id = ?, payload = ?, field_errors = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(stmt, draft.MovieID, string(draft.Payload), fieldErrors, now, draft.DraftID)
	if err != nil {
		return fmt.Errorf("failed to update draft: %w", err)
	}
	if err := expectOne(result, shared.ErrDraftNotFound, draft.DraftID); err != nil {
		return err
	}

	draft.Updated = now
	return nil
}

// Delete removes a draft by ID
func (r *DraftRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return expectOne(result, shared.ErrDraftNotFound, id)
}

// List retrieves every draft, most recently updated first
func (r *DraftRepository) List() ([]*models.Draft, error) {
	stmt := `
		SELECT id, movie_id, payload, field_errors, created_at, updated_at
		FROM drafts
		ORDER BY updated_at DESC, id ASC
	`

	rows, err := r.db.Query(stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to query drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*models.Draft
	for rows.Next() {
		draft, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return drafts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *DraftRepository) scan(row scanner) (*models.Draft, error) {
	var (
		draft       models.Draft
		movieID     sql.NullInt64
		payload     string
		fieldErrors string
	)

	err := row.Scan(&draft.DraftID, &movieID, &payload, &fieldErrors, &draft.Created, &draft.Updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan draft: %w", err)
	}

	if movieID.Valid {
		id := movieID.Int64
		draft.MovieID = &id
	}
	draft.Payload = []byte(payload)
	if draft.FieldErrors, err = decodeMap(fieldErrors); err != nil {
		return nil, err
	}
	return &draft, nil
}
