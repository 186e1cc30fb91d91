package commands

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize/english"
	"github.com/wolfeidau/mentorhub/internal/api"
	"github.com/wolfeidau/mentorhub/internal/notify"
)

// PathsCmd browses and enrolls in learning paths.
type PathsCmd struct {
	List   PathsListCmd   `cmd:"" help:"List learning paths"`
	Enroll PathsEnrollCmd `cmd:"" help:"Enroll in a learning path"`
}

type PathsListCmd struct {
	Level    string `help:"Level filter"`
	Enrolled bool   `help:"Only paths you are enrolled in"`
}

func (c *PathsListCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}

	res, err := a.GetLearningPaths(ctx, api.LearningPathsArgs{Level: c.Level})
	if err != nil {
		return loadError(err, "Learning paths not available", "Failed to load learning paths")
	}

	w := globals.out()
	tw := table(w)
	fmt.Fprintln(tw, "ID\tTITLE\tLEVEL\tMODULES\tLEARNERS\tENROLLED")
	shown := 0
	for _, p := range res.LearningPaths {
		if c.Enrolled && !p.Enrolled {
			continue
		}
		mark := ""
		if p.Enrolled {
			mark = "yes"
		}
		if !p.Published {
			mark += " (draft)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", p.ID, truncate(p.Title, 32), p.Level, len(p.Modules), english.Plural(p.EnrolledCount, "learner", ""), mark)
		shown++
	}
	tw.Flush()

	if shown == 0 {
		fmt.Fprintln(w, "No learning paths found.")
	}
	return nil
}

type PathsEnrollCmd struct {
	PathID string `arg:"" help:"Learning path ID"`
}

func (c *PathsEnrollCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.API()
	if err != nil {
		return err
	}
	_, err = a.EnrollInPath(ctx, c.PathID)
	return mutated(notify.MutationResult(globals.notifier(), err, "Enrolled", "Failed to enroll"))
}
