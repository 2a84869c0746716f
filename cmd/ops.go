package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/operations"
)

// OpsDeleteGenre deletes every movie of the given genre.
func (r *Runner) OpsDeleteGenre(ctx context.Context, cmd *cli.Command) error {
	genre, err := r.gateway(ctx).DeleteByGenre(ctx, cmd.StringArg("genre"))
	if err != nil {
		return err
	}
	r.writePlain("✓ Deleted all %s movies\n", genre.Label())
	return nil
}

// OpsGoldenPalmSum prints the total golden palm count.
func (r *Runner) OpsGoldenPalmSum(ctx context.Context, cmd *cli.Command) error {
	sum, err := r.gateway(ctx).GoldenPalmSum(ctx)
	if err != nil {
		return err
	}
	r.writePlain("Total Golden Palms: %d\n", sum)
	return nil
}

// OpsTagline prints the names of movies whose tagline contains the substring.
func (r *Runner) OpsTagline(ctx context.Context, cmd *cli.Command) error {
	movies, err := r.gateway(ctx).FindByTagline(ctx, cmd.StringArg("substring"))
	if err != nil {
		return err
	}
	r.writePlain("Movies found:\n%s\n", operations.Names(movies, func(m models.Movie) string { return m.Name }))
	return nil
}

// OpsScreenwriters prints screenwriters whose movies never won an oscar.
func (r *Runner) OpsScreenwriters(ctx context.Context, cmd *cli.Command) error {
	people, err := r.gateway(ctx).ScreenwritersWithoutOscars(ctx)
	if err != nil {
		return err
	}
	r.writePlain("Screenwriters with no Oscars:\n%s\n", operations.Names(people, func(p models.Person) string { return p.Name }))
	return nil
}

// OpsRedistribute moves oscars between genres.
func (r *Runner) OpsRedistribute(ctx context.Context, cmd *cli.Command) error {
	from, to, err := r.gateway(ctx).RedistributeOscars(ctx, cmd.String("from"), cmd.String("to"))
	if err != nil {
		return err
	}
	r.writePlain("✓ Oscars redistributed from %s to %s\n", from.Label(), to.Label())
	return nil
}
