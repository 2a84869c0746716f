package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviex/internal/query"
	"github.com/desertthunder/moviex/internal/repositories"
	"github.com/desertthunder/moviex/internal/shared"
)

// ViewsSave stores the view selected by the flags under a name, replacing an existing one.
func (r *Runner) ViewsSave(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: view name", shared.ErrMissingArgument)
	}
	view, err := r.viewFromFlags(cmd)
	if err != nil {
		return err
	}

	db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewViewRepository(db).Save(repositories.NewSavedView(name, view)); err != nil {
		return err
	}
	r.writePlain("✓ Saved view %s: %s\n", name, describeView(view))
	return nil
}

// ViewsList prints every saved view.
func (r *Runner) ViewsList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	views, err := repositories.NewViewRepository(db).List()
	if err != nil {
		return err
	}
	if len(views) == 0 {
		r.writePlain("No saved views.\n")
		return nil
	}
	for _, v := range views {
		r.writePlain("%-20s %s\n", v.Name, describeView(repositories.ViewState(v)))
	}
	return nil
}

// ViewsDelete removes a saved view by name.
func (r *Runner) ViewsDelete(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: view name", shared.ErrMissingArgument)
	}

	db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewViewRepository(db).DeleteByName(name); err != nil {
		return err
	}
	r.writePlain("✓ Deleted view %s\n", name)
	return nil
}

// describeView renders e.g. "size=10 sort=name,asc genre=DRAMA".
func describeView(v query.ViewState) string {
	parts := []string{
		fmt.Sprintf("size=%d", v.Pagination.PageSize),
		"sort=" + v.Sort.Token(),
	}
	keys := make([]string, 0, len(v.Filters))
	for k := range v.Filters {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+v.Filters[k])
	}
	return strings.Join(parts, " ")
}
