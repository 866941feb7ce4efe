package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pamladder/pkg/io"
)

// scanOpts holds the command-line flags for the scan command.
type scanOpts struct {
	input  inputOpts
	json   bool // write the partition as JSON
	dump   bool // print every ladder's rails
	chunks bool // list the materialized chunks
}

// scanCommand creates the scan command, which partitions a model into
// ladders and reports the result.
func (c *CLI) scanCommand() *cobra.Command {
	opts := scanOpts{}

	cmd := &cobra.Command{
		Use:   "scan [file]",
		Short: "Partition a PAM model into ladders",
		Long: `Scan reads a PAM model (JSON atoms and bonds) or generates a straight
helix, partitions it into ladders and single-strand domains, and prints a
summary. Bonds named with --break and --form are edited after the first pass,
and a second pass then rebuilds only the ladders the edits touched.`,
		Example: `  pamladder scan model.json
  pamladder scan --helix 10 --break 4-5
  pamladder scan --helix 12 --linkers --json`,
		Args: func(cmd *cobra.Command, args []string) error { return opts.input.args(cmd, args) },
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd, args, &opts)
		},
	}

	opts.input.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "write the ladder partition as JSON")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "print the rails of every ladder")
	cmd.Flags().BoolVar(&opts.chunks, "chunks", false, "list the chunks materialized for every rail")

	return cmd
}

func (c *CLI) runScan(cmd *cobra.Command, args []string, opts *scanOpts) error {
	s, err := c.run(cmd.Context(), cmd, &opts.input, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	ladders := s.result.Ladders

	if opts.json {
		return io.WriteLadders(ladders, out)
	}
	if opts.dump {
		writeDump(out, ladders)
		return nil
	}
	if opts.chunks {
		printChunks(out, s.updater.Chunks())
		return nil
	}

	fmt.Fprintln(out, StyleTitle.Render(fmt.Sprintf("%d atoms, %d bonds", s.model.AtomCount(), s.model.BondCount())))
	printLadders(out, ladders)
	printStats(out, s.result)
	if n := countErrors(ladders); n > 0 {
		printWarning(out, "%d ladders have errors", n)
	} else {
		printSuccess(out, "partition is consistent")
	}
	return nil
}
