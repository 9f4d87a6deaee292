package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gedtree/gedtree/pkg/errors"
	"github.com/gedtree/gedtree/pkg/gedcom"
	"github.com/gedtree/gedtree/pkg/gtr"
	"github.com/gedtree/gedtree/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output        string // output file path; empty writes text formats to stdout
	format        string // output format: "gtr", "dot", "svg", "png"
	siblings      bool   // include the focal person's siblings
	ancSiblings   bool   // include siblings of ancestors beyond the focal level
	maxAncestors  int    // ancestor generation limit (-1 unlimited)
	maxDescendant int    // descendant generation limit (-1 unlimited)
	dynamicLimits bool   // rebalance unused budget between directions
}

// newRenderCmd creates the render command for generating tree output.
//
// Default settings come from the config file when present, otherwise:
//   - format: gtr (genealogytree database markup)
//   - siblings and ancestor siblings: included
//   - generation limits: unlimited
func newRenderCmd(cfg config) *cobra.Command {
	opts := renderOpts{
		format:        cfg.Render.Format,
		siblings:      cfg.Render.Siblings,
		ancSiblings:   cfg.Render.AncestorSiblings,
		maxAncestors:  cfg.Render.MaxAncestorGenerations,
		maxDescendant: cfg.Render.MaxDescendantGenerations,
		dynamicLimits: cfg.Render.DynamicLimits,
	}

	cmd := &cobra.Command{
		Use:   "render [file] [person]",
		Short: "Render the tree around one person of a GEDCOM file",
		Long: `Render the sandclock tree around one person of a GEDCOM file: the
person's descendants and their ancestors with sibling context.

The person is identified by its GEDCOM cross-reference id, with or
without the surrounding @ delimiters (e.g. I0006 or @I0006@). Use
"gedtree browse" to find ids interactively.

Sibling context is included by default; disable it with
--siblings=false or --ancestor-siblings=false.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), args[0], args[1], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout for gtr/dot, derived from input for svg/png)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: gtr, dot, svg, png")
	cmd.Flags().BoolVar(&opts.siblings, "siblings", opts.siblings, "include the person's siblings")
	cmd.Flags().BoolVar(&opts.ancSiblings, "ancestor-siblings", opts.ancSiblings, "include siblings of ancestors")
	cmd.Flags().IntVar(&opts.maxAncestors, "max-ancestor-generations", opts.maxAncestors, "ancestor generation limit (-1 for unlimited)")
	cmd.Flags().IntVar(&opts.maxDescendant, "max-descendant-generations", opts.maxDescendant, "descendant generation limit (-1 for unlimited)")
	cmd.Flags().BoolVar(&opts.dynamicLimits, "dynamic-generation-limits", opts.dynamicLimits, "transfer unused generation budget between directions")

	return cmd
}

// runRender loads the file, builds the graph, and writes the requested
// format for the chosen person.
func runRender(ctx context.Context, input, personID string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	if err := errors.ValidateXref(personID); err != nil {
		return err
	}
	for _, limit := range []struct {
		name  string
		value int
	}{
		{"max-ancestor-generations", opts.maxAncestors},
		{"max-descendant-generations", opts.maxDescendant},
	} {
		if err := errors.ValidateGenerationLimit(limit.name, limit.value); err != nil {
			return err
		}
	}

	graph, err := loadGraph(ctx, input)
	if err != nil {
		return err
	}

	person, ok := graph.Person(strings.Trim(personID, "@"))
	if !ok {
		return errors.New(errors.ErrCodePersonNotFound, "no person with id %s in %s", personID, input)
	}

	treeOpts := gtr.Options{
		Siblings:                 opts.siblings,
		AncestorSiblings:         opts.ancSiblings,
		MaxAncestorGenerations:   opts.maxAncestors,
		MaxDescendantGenerations: opts.maxDescendant,
		DynamicLimits:            opts.dynamicLimits,
		Logger:                   logger,
	}

	prog := newProgress(logger)
	data, err := renderPerson(ctx, person, opts.format, treeOpts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s for %s", opts.format, person.ID))

	return writeOutput(input, opts, data)
}

// renderPerson produces the output bytes for one format.
func renderPerson(ctx context.Context, person *gtr.Person, format string, opts gtr.Options) ([]byte, error) {
	logger := loggerFromContext(ctx)

	switch format {
	case "gtr":
		out, err := gtr.Sandclock(person, opts)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	case "dot":
		return []byte(render.ToDOT(person, opts)), nil
	case "svg":
		logger.Debug("Rendering SVG via Graphviz")
		return render.RenderSVG(render.ToDOT(person, opts))
	case "png":
		logger.Debug("Rendering PNG via Graphviz")
		return render.RenderPNG(render.ToDOT(person, opts))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'gtr', 'dot', 'svg', or 'png')", format)
	}
}

// writeOutput writes the rendered bytes to the output path. Text formats
// default to stdout; image formats default to a path derived from the
// input file name.
func writeOutput(input string, opts *renderOpts, data []byte) error {
	path := opts.output
	if path == "" {
		if opts.format == "gtr" || opts.format == "dot" {
			_, err := os.Stdout.Write(data)
			return err
		}
		path = strings.TrimSuffix(input, filepath.Ext(input)) + "." + opts.format
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	printSuccess("Generated %s", path)
	return nil
}

// loadGraph parses a GEDCOM file and builds its family graph.
func loadGraph(ctx context.Context, path string) (*gtr.Graph, error) {
	logger := loggerFromContext(ctx)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "no such file: %s", path)
	}

	doc, err := gedcom.ParseFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parsing %s", path)
	}

	graph, err := gtr.Build(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "building family graph from %s", path)
	}
	logger.Debugf("Loaded %s: %d persons, %d families", path, graph.PersonCount(), graph.FamilyCount())
	return graph, nil
}
