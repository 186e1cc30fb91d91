package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/wolfeidau/mentorhub/internal/api"
)

// EndpointsCmd prints the endpoint catalogue and which queries each mutation
// invalidates.
type EndpointsCmd struct {
	Graph bool `help:"Print only the invalidation graph"`
}

func (c *EndpointsCmd) Run(ctx context.Context, globals *Globals) error {
	w := globals.out()

	if !c.Graph {
		tw := table(w)
		fmt.Fprintln(tw, "NAME\tKIND\tMETHOD\tROUTE\tTAGS")
		for _, e := range api.Endpoints() {
			tags := make([]string, len(e.Tags))
			for i, t := range e.Tags {
				tags[i] = t.String()
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Name, e.Kind, e.Method, e.Template, strings.Join(tags, " "))
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	graph := api.Graph()
	names := make([]string, 0, len(graph))
	for name := range graph {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		affected := graph[name]
		if len(affected) == 0 {
			fmt.Fprintf(w, "%s -> (nothing)\n", name)
			continue
		}
		fmt.Fprintf(w, "%s -> %s\n", name, strings.Join(affected, ", "))
	}
	return nil
}
