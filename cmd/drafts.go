package main

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/records"
	"github.com/desertthunder/moviex/internal/repositories"
	"github.com/desertthunder/moviex/internal/shared"
)

// withDrafts opens the local store for the duration of fn.
func (r *Runner) withDrafts(fn func(*repositories.DraftRepository) error) error {
	db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(repositories.NewDraftRepository(db))
}

func draftArg(cmd *cli.Command) (string, error) {
	id := cmd.StringArg("id")
	if id == "" {
		return "", fmt.Errorf("%w: draft id", shared.ErrMissingArgument)
	}
	return id, nil
}

func decodeDraft(d *models.Draft) (records.Editable, error) {
	var e records.Editable
	if err := json.Unmarshal(d.Payload, &e); err != nil {
		return e, fmt.Errorf("draft %s has an unreadable payload: %w", d.DraftID, err)
	}
	return e, nil
}

// DraftsList prints every stored draft, most recently touched first.
func (r *Runner) DraftsList(ctx context.Context, cmd *cli.Command) error {
	return r.withDrafts(func(repo *repositories.DraftRepository) error {
		drafts, err := repo.List()
		if err != nil {
			return err
		}
		if len(drafts) == 0 {
			r.writePlain("No drafts.\n")
			return nil
		}

		r.writePlainHeader(fmt.Sprintf("%d draft(s)", len(drafts)))
		for _, d := range drafts {
			name := "?"
			if e, err := decodeDraft(d); err == nil {
				name = e.Name
			}
			target := "new"
			if d.MovieID != nil {
				target = fmt.Sprintf("#%d", *d.MovieID)
			}
			fields := make([]string, 0, len(d.FieldErrors))
			for f := range d.FieldErrors {
				fields = append(fields, f)
			}
			slices.Sort(fields)
			r.writePlain("%s  %-6s %-28q %s  [%s]\n", d.DraftID, target, name,
				d.Updated.Format("2006-01-02 15:04"), strings.Join(fields, ", "))
		}
		return nil
	})
}

// DraftsShow prints a draft's fields and the messages the backend rejected it with.
func (r *Runner) DraftsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := draftArg(cmd)
	if err != nil {
		return err
	}

	return r.withDrafts(func(repo *repositories.DraftRepository) error {
		d, err := repo.Get(id)
		if err != nil {
			return err
		}
		e, err := decodeDraft(d)
		if err != nil {
			return err
		}

		r.writePlainHeader("Draft " + d.DraftID)
		r.writeEditable(e)
		if len(d.FieldErrors) > 0 {
			r.writePlainln("Field errors:")
			fields := make([]string, 0, len(d.FieldErrors))
			for f := range d.FieldErrors {
				fields = append(fields, f)
			}
			slices.Sort(fields)
			for _, f := range fields {
				r.writePlain("  %-22s %s\n", f, d.FieldErrors[f])
			}
		}
		return nil
	})
}

// DraftsSubmit applies --set assignments to a draft and sends it. The draft is deleted on success
// and updated with the new field errors on another validation failure.
func (r *Runner) DraftsSubmit(ctx context.Context, cmd *cli.Command) error {
	id, err := draftArg(cmd)
	if err != nil {
		return err
	}

	var draft *models.Draft
	var e records.Editable
	if err := r.withDrafts(func(repo *repositories.DraftRepository) error {
		if draft, err = repo.Get(id); err != nil {
			return err
		}
		e, err = decodeDraft(draft)
		return err
	}); err != nil {
		return err
	}

	if err := e.Apply(cmd.StringSlice("set")); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}
	if _, err := r.submit(ctx, e, draft); err != nil {
		return err
	}

	return r.withDrafts(func(repo *repositories.DraftRepository) error {
		return repo.Delete(id)
	})
}

// DraftsDiscard deletes a draft.
func (r *Runner) DraftsDiscard(ctx context.Context, cmd *cli.Command) error {
	id, err := draftArg(cmd)
	if err != nil {
		return err
	}
	if err := r.withDrafts(func(repo *repositories.DraftRepository) error { return repo.Delete(id) }); err != nil {
		return err
	}
	r.writePlain("✓ Discarded draft %s\n", id)
	return nil
}
