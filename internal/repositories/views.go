package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/query"
	"github.com/desertthunder/moviex/internal/shared"
)

// ViewRepository implements models.Repository[*models.SavedView]. View names are unique.
type ViewRepository struct {
	db *sql.DB
}

// NewViewRepository creates a new ViewRepository with the given database connection
func NewViewRepository(db *sql.DB) *ViewRepository {
	return &ViewRepository{db: db}
}

var _ models.Repository[*models.SavedView] = (*ViewRepository)(nil)

// NewSavedView captures the paging, sort and filters of v under name. The page index is not kept.
func NewSavedView(name string, v query.ViewState) *models.SavedView {
	v = v.Normalize()
	filters := make(map[string]string, len(v.Filters))
	for k, val := range v.Filters {
		filters[k] = val
	}
	return &models.SavedView{
		Name:          name,
		PageSize:      v.Pagination.PageSize,
		SortField:     v.Sort.Field,
		SortDirection: string(v.Sort.Direction),
		Filters:       filters,
	}
}

// ViewState turns a saved view back into a view state on the first page.
func ViewState(sv *models.SavedView) query.ViewState {
	v := query.ViewState{
		Pagination: query.Pagination{PageSize: sv.PageSize},
		Sort:       query.Sort{Field: sv.SortField, Direction: query.Direction(sv.SortDirection)},
		Filters:    make(map[string]string, len(sv.Filters)),
	}
	for k, val := range sv.Filters {
		v.Filters[k] = val
	}
	return v.Normalize()
}

// Create inserts a new view with a generated ID
func (r *ViewRepository) Create(view *models.SavedView) error {
	view.ViewID = shared.GenerateID()
	view.Created = time.Now()

	if err := view.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	filters, err := encodeMap(view.Filters)
	if err != nil {
		return err
	}

	stmt := `
		INSERT INTO views (id, name, page_size, sort_field, sort_direction, filters, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(stmt, view.ViewID, view.Name, view.PageSize, view.SortField, view.SortDirection, filters, view.Created)
	if err != nil {
		return fmt.Errorf("failed to insert view %q: %w", view.Name, err)
	}
	return nil
}

// Get retrieves a view by ID
func (r *ViewRepository) Get(id string) (*models.SavedView, error) {
	return r.scan(r.db.QueryRow(selectViews+` WHERE id = ?`, id))
}

// GetByName retrieves a view by its name
func (r *ViewRepository) GetByName(name string) (*models.SavedView, error) {
	return r.scan(r.db.QueryRow(selectViews+` WHERE name = ?`, name))
}

// Update replaces every column of a view except its creation time
func (r *ViewRepository) Update(view *models.SavedView) error {
	if err := view.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	filters, err := encodeMap(view.Filters)
	if err != nil {
		return err
	}

	stmt := `
		UPDATE views
		SET name = ?, page_size = ?, sort_field = ?, sort_direction = ?, filters = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(stmt, view.Name, view.PageSize, view.SortField, view.SortDirection, filters, view.ViewID)
	if err != nil {
		return fmt.Errorf("failed to update view: %w", err)
	}
	return expectOne(result, shared.ErrViewNotFound, view.ViewID)
}

// Save creates the view or, when one with the same name exists, overwrites it.
func (r *ViewRepository) Save(view *models.SavedView) error {
	existing, err := r.GetByName(view.Name)
	if errors.Is(err, shared.ErrViewNotFound) {
		return r.Create(view)
	}
	if err != nil {
		return err
	}

	view.ViewID = existing.ViewID
	view.Created = existing.Created
	return r.Update(view)
}

// Delete removes a view by ID
func (r *ViewRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM views WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete view: %w", err)
	}
	return expectOne(result, shared.ErrViewNotFound, id)
}

// DeleteByName removes the view called name
func (r *ViewRepository) DeleteByName(name string) error {
	result, err := r.db.Exec(`DELETE FROM views WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete view: %w", err)
	}
	return expectOne(result, shared.ErrViewNotFound, name)
}

// List retrieves every view ordered by name
func (r *ViewRepository) List() ([]*models.SavedView, error) {
	rows, err := r.db.Query(selectViews + ` ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query views: %w", err)
	}
	defer rows.Close()

	var views []*models.SavedView
	for rows.Next() {
		view, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return views, nil
}

const selectViews = `SELECT id, name, page_size, sort_field, sort_direction, filters, created_at FROM views`

func (r *ViewRepository) scan(row scanner) (*models.SavedView, error) {
	var (
		view    models.SavedView
		filters string
	)

	err := row.Scan(&view.ViewID, &view.Name, &view.PageSize, &view.SortField, &view.SortDirection, &filters, &view.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrViewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan view: %w", err)
	}

	if view.Filters, err = decodeMap(filters); err != nil {
		return nil, err
	}
	return &view, nil
}
