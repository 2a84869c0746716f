package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// Draft is an editable record kept after the backend rejected it.
//
// Payload holds the JSON encoded editable form so it can be corrected and resubmitted.
type Draft struct {
	DraftID     string
	MovieID     *int64
	Payload     json.RawMessage
	FieldErrors map[string]string
	Created     time.Time
	Updated     time.Time
}

func (d *Draft) ID() string           { return d.DraftID }
func (d *Draft) CreatedAt() time.Time { return d.Created }
func (d *Draft) UpdatedAt() time.Time { return d.Updated }

func (d *Draft) Validate() error {
	if d.DraftID == "" {
		return fmt.Errorf("draft id is required")
	}
	if len(d.Payload) == 0 || !json.Valid(d.Payload) {
		return fmt.Errorf("draft payload must be valid JSON")
	}
	return nil
}

var viewNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// SavedView is a named catalog list preset.
type SavedView struct {
	ViewID        string
	Name          string
	PageSize      int
	SortField     string
	SortDirection string
	Filters       map[string]string
	Created       time.Time
}

func (v *SavedView) ID() string           { return v.ViewID }
func (v *SavedView) CreatedAt() time.Time { return v.Created }
func (v *SavedView) UpdatedAt() time.Time { return v.Created }

func (v *SavedView) Validate() error {
	if v.ViewID == "" {
		return fmt.Errorf("view id is required")
	}
	if !viewNamePattern.MatchString(v.Name) {
		return fmt.Errorf("view name %q must be 1-64 letters, digits, '.', '_' or '-'", v.Name)
	}
	if v.PageSize <= 0 {
		return fmt.Errorf("page size must be positive")
	}
	if v.SortField == "" {
		return fmt.Errorf("sort field is required")
	}
	if v.SortDirection != "asc" && v.SortDirection != "desc" {
		return fmt.Errorf("sort direction must be asc or desc")
	}
	return nil
}
