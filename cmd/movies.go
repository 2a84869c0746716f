package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviex/internal/catalog"
	"github.com/desertthunder/moviex/internal/formatter"
	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/operations"
	"github.com/desertthunder/moviex/internal/query"
	"github.com/desertthunder/moviex/internal/records"
	"github.com/desertthunder/moviex/internal/repositories"
	"github.com/desertthunder/moviex/internal/services"
	"github.com/desertthunder/moviex/internal/shared"
)

// filterFlags maps flag names to filter keys.
var filterFlags = map[string]string{
	"name":          "name",
	"genre":         "genre",
	"director-name": "directorName",
}

// viewFromFlags builds the view state from the config defaults, an optional saved view and the view flags.
func (r *Runner) viewFromFlags(cmd *cli.Command) (query.ViewState, error) {
	v := r.defaultView()

	if name := cmd.String("view"); name != "" {
		db, err := r.openStore()
		if err != nil {
			return v, err
		}
		defer db.Close()

		saved, err := repositories.NewViewRepository(db).GetByName(name)
		if err != nil {
			return v, err
		}
		v = repositories.ViewState(saved)
	}

	if cmd.IsSet("page") {
		page := cmd.Int("page")
		if page < 1 {
			return v, fmt.Errorf("%w: --page must be at least 1", shared.ErrInvalidFlag)
		}
		v.Pagination.PageIndex = page - 1
	}
	if cmd.IsSet("size") {
		size := cmd.Int("size")
		if size < 1 {
			return v, fmt.Errorf("%w: --size must be at least 1", shared.ErrInvalidFlag)
		}
		v.Pagination.PageSize = size
	}
	if token := cmd.String("sort"); token != "" {
		s, ok := query.ParseSort(token)
		if !ok || !query.IsSortField(s.Field) {
			return v, fmt.Errorf("%w: --sort %q, expected one of %s", shared.ErrInvalidFlag, token, strings.Join(query.SortFields, ", "))
		}
		v.Sort = s
	}
	if cmd.IsSet("desc") {
		v.Sort.Direction = query.Asc
		if cmd.Bool("desc") {
			v.Sort.Direction = query.Desc
		}
	}

	for flag, key := range filterFlags {
		if !cmd.IsSet(flag) {
			continue
		}
		value := strings.TrimSpace(cmd.String(flag))
		if flag == "genre" && value != "" {
			g, err := operations.ParseGenre(value)
			if err != nil {
				return v, err
			}
			value = string(g)
		}
		if v.Filters == nil {
			v.Filters = map[string]string{}
		}
		v.Filters[key] = value
	}
	return v.Normalize(), nil
}

// idArg reads a positive record id from the named argument.
func idArg(cmd *cli.Command, name string) (int64, error) {
	raw := cmd.StringArg(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", shared.ErrInvalidArgument, name, raw)
	}
	return id, nil
}

// MoviesList prints one page of the catalog.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	view, err := r.viewFromFlags(cmd)
	if err != nil {
		return err
	}

	store := catalog.New(r.client(ctx), view, catalog.Options{Logger: shared.WithLogger(r.logger, "component", "store")})
	if err := store.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to list movies: %w", err)
	}
	snap := store.Snapshot()

	if format == formatter.Text {
		sort := snap.View.Sort
		r.writePlainHeader(fmt.Sprintf("%s · sorted by %s %s", snap.PageLabel(), sort.Field, sort.Direction.Indicator()))
	}

	out, err := formatter.RenderMovies(format, "Movie catalog", snap.Movies)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// MoviesGet prints every editable field of one record.
func (r *Runner) MoviesGet(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	movie, err := r.client(ctx).GetMovie(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get movie %d: %w", id, err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(movie, true)
	}

	r.writePlainHeader(movie.Name)
	r.writeEditable(records.ToEditable(movie))
	if movie.CreationDate != "" {
		r.writePlain("%-22s %s\n", "creationDate", movie.CreationDate)
	}
	return nil
}

func (r *Runner) writeEditable(e records.Editable) {
	for _, name := range records.FieldNames() {
		value, _ := e.Get(name)
		if value == "" {
			value = "-"
		}
		r.writePlain("%-22s %s\n", name, value)
	}
}

// MoviesDelete removes one record.
func (r *Runner) MoviesDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.client(ctx).DeleteMovie(ctx, id); err != nil {
		return fmt.Errorf("failed to delete movie %d: %w", id, err)
	}
	r.writePlain("✓ Deleted movie #%d\n", id)
	return nil
}

// MoviesCreate builds a record from the template and --set assignments and creates it.
func (r *Runner) MoviesCreate(ctx context.Context, cmd *cli.Command) error {
	e := records.Template()
	if err := e.Apply(cmd.StringSlice("set")); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}
	_, err := r.submit(ctx, e, nil)
	return err
}

// MoviesEdit loads a record, applies --set assignments and updates it.
func (r *Runner) MoviesEdit(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	assignments := cmd.StringSlice("set")
	if len(assignments) == 0 {
		return fmt.Errorf("%w: at least one --set field=value", shared.ErrMissingArgument)
	}

	movie, err := r.client(ctx).GetMovie(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get movie %d: %w", id, err)
	}

	e := records.ToEditable(movie)
	if err := e.Apply(assignments); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}
	_, err = r.submit(ctx, e, nil)
	return err
}

// MoviesFields lists the field paths accepted by --set.
func (r *Runner) MoviesFields(ctx context.Context, cmd *cli.Command) error {
	for _, name := range records.FieldNames() {
		r.writePlain("%s\n", name)
	}
	return nil
}

// submit sends e to the backend. A validation failure stores e as a draft (updating draft when
// given) so it can be corrected with 'moviex drafts submit'.
func (r *Runner) submit(ctx context.Context, e records.Editable, draft *models.Draft) (*models.Movie, error) {
	saved, err := r.client(ctx).SaveMovie(ctx, records.ToWire(e))
	if err == nil {
		r.writePlain("✓ Saved movie #%s: %s\n", saved.IDString(), saved.Name)
		return saved, nil
	}

	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		return nil, fmt.Errorf("failed to save movie: %w", err)
	}

	id, derr := r.keepDraft(e, verr.Fields, draft)
	if derr != nil {
		r.logger.Error("failed to keep draft", "error", derr)
		return nil, err
	}

	r.writePlain("✗ %s\n", verr.Error())
	for _, field := range verr.FieldNames() {
		r.writePlain("  %-22s %s\n", field, verr.Fields[field])
	}
	r.writePlainln("Draft kept as %s. Fix it with 'moviex drafts submit %s --set field=value'.", id, id)
	return nil, err
}

func (r *Runner) keepDraft(e records.Editable, fieldErrors map[string]string, draft *models.Draft) (string, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("failed to encode draft: %w", err)
	}

	db, err := r.openStore()
	if err != nil {
		return "", err
	}
	defer db.Close()
	repo := repositories.NewDraftRepository(db)

	if draft == nil {
		draft = &models.Draft{MovieID: e.ID, Payload: payload, FieldErrors: fieldErrors}
		if err := repo.Create(draft); err != nil {
			return "", err
		}
		return draft.DraftID, nil
	}

	draft.Payload = payload
	draft.FieldErrors = fieldErrors
	if err := repo.Update(draft); err != nil {
		return "", err
	}
	return draft.DraftID, nil
}
