package cli

import (
	"bytes"
	"context"
	"fmt"
	stdio "io"
	"os"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pamladder/pkg/errors"
	"github.com/matzehuels/pamladder/pkg/io"
	"github.com/matzehuels/pamladder/pkg/ladder"
	"github.com/matzehuels/pamladder/pkg/render/dot"
)

const (
	formatTXT  = "txt"
	formatJSON = "json"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	input  inputOpts
	output string // output file path, stdout when empty
	format string // dot, svg, txt or json
	labels bool   // draw atom labels instead of IDs
	title  string
}

// renderCommand creates the render command for drawing the ladder partition.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the ladder partition of a PAM model",
		Long: `Render partitions a model like scan does and draws the result: one
Graphviz cluster per ladder with one row per rail (dot, svg), a text dump of
every ladder's rails (txt), or the partition as JSON (json).`,
		Example: `  pamladder render model.json -o ladders.svg
  pamladder render --helix 8 --ring -f dot`,
		Args: func(cmd *cobra.Command, args []string) error { return opts.input.args(cmd, args) },
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args, &opts)
		},
	}

	opts.input.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg, dot, txt, json (overrides config)")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "draw atom labels instead of IDs (overrides config)")
	cmd.Flags().StringVar(&opts.title, "title", "", "diagram title")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	s, err := c.run(ctx, cmd, &opts.input, args)
	if err != nil {
		return err
	}
	format := s.cfg.Render.Format
	if cmd.Flags().Changed("format") {
		format = opts.format
	}
	if err := perrors.ValidateRenderFormat(format); err != nil {
		return err
	}
	labels := s.cfg.Render.Labels
	if cmd.Flags().Changed("labels") {
		labels = opts.labels
	}

	prog := newProgress(logger)
	data, err := renderPartition(ctx, s, format, dot.Options{Labels: labels, Title: opts.title})
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidPath, err, "write %s", opts.output)
	}
	prog.done(fmt.Sprintf("Rendered %d ladders as %s", len(s.result.Ladders), format))
	printFile(cmd.OutOrStdout(), opts.output)
	return nil
}

func renderPartition(ctx context.Context, s *session, format string, opts dot.Options) ([]byte, error) {
	ladders := s.result.Ladders
	switch format {
	case formatTXT:
		var buf bytes.Buffer
		writeDump(&buf, ladders)
		return buf.Bytes(), nil
	case formatJSON:
		var buf bytes.Buffer
		if err := io.WriteLadders(ladders, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return dot.Render(ctx, s.model, ladders, dot.Format(format), opts)
}

// writeDump writes the rails of every ladder, one ladder per block.
func writeDump(w stdio.Writer, ladders []*ladder.Ladder) {
	for _, l := range ladders {
		fmt.Fprintln(w, l.Dump(fmt.Sprint(l.Handle()), false, ladder.NoEnd))
	}
}
