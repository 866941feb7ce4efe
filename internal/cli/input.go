package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pamladder/pkg/config"
	perrors "github.com/matzehuels/pamladder/pkg/errors"
	"github.com/matzehuels/pamladder/pkg/io"
	"github.com/matzehuels/pamladder/pkg/pam"
	"github.com/matzehuels/pamladder/pkg/updater"
)

// inputOpts holds the flags shared by scan and render: where the model comes
// from and which bond edits to replay on it.
type inputOpts struct {
	configPath string
	maxLength  int

	helix   int // generate a helix of this many bases instead of reading a file
	strands int
	noAxis  bool
	linkers bool
	ring    bool

	breaks []string // "a-b" bonds to remove after the first pass
	forms  []string // "a-b" bonds to add after the first pass
}

func (o *inputOpts) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", config.DefaultPath, "config file (TOML)")
	f.IntVar(&o.maxLength, "max-length", 0, "maximum ladder length in bases (overrides config)")
	f.IntVar(&o.helix, "helix", 0, "generate a straight helix of N bases instead of reading a file")
	f.IntVar(&o.strands, "strands", 2, "strands in the generated helix (1 or 2)")
	f.BoolVar(&o.noAxis, "no-axis", false, "generate a bare single strand without axis atoms")
	f.BoolVar(&o.linkers, "linkers", false, "insert linker atoms between strand atoms")
	f.BoolVar(&o.ring, "ring", false, "close the generated helix into a ring")
	f.StringSliceVar(&o.breaks, "break", nil, "remove bond A-B after the first pass (repeatable)")
	f.StringSliceVar(&o.forms, "form", nil, "add bond A-B, or directed strand bond A>B, after the first pass (repeatable)")
}

// args validates the positional input file against the --helix flag.
func (o *inputOpts) args(cmd *cobra.Command, args []string) error {
	if o.helix > 0 {
		return cobra.NoArgs(cmd, args)
	}
	if len(args) != 1 {
		return fmt.Errorf("expected an input file or --helix N")
	}
	return nil
}

// loadConfig reads the config file and applies flag overrides. A missing
// default config file is not an error.
func (c *CLI) loadConfig(cmd *cobra.Command, o *inputOpts) (config.Config, error) {
	load := config.Load
	if !cmd.Flags().Changed("config") {
		load = config.LoadOrDefault
	}
	cfg, err := load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("max-length") {
		cfg.MaxLadderLength = o.maxLength
	}
	if !c.verbose {
		level, err := log.ParseLevel(cfg.LogLevel)
		if err == nil {
			c.Logger.SetLevel(level)
		}
	}
	return cfg, cfg.Validate()
}

// loadModel reads the model from path or generates one from the helix flags.
func (o *inputOpts) loadModel(path string) (*pam.Model, error) {
	if o.helix == 0 {
		return io.ImportJSON(path)
	}
	m := pam.New()
	_, err := pam.AddHelix(m, o.helix, pam.HelixOptions{
		Strands: o.strands,
		NoAxis:  o.noAxis,
		Linkers: o.linkers,
		Ring:    o.ring,
	})
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "generate helix")
	}
	return m, nil
}

// edit is one bond change replayed between passes.
type edit struct {
	a, b pam.AtomID
	dir  int
	form bool
}

func (e edit) String() string {
	op := "break"
	if e.form {
		op = "form"
	}
	sep := "-"
	if e.dir == pam.DirForward {
		sep = ">"
	}
	return fmt.Sprintf("%s %d%s%d", op, e.a, sep, e.b)
}

func (o *inputOpts) edits() ([]edit, error) {
	var out []edit
	for _, group := range []struct {
		specs []string
		form  bool
	}{{o.breaks, false}, {o.forms, true}} {
		for _, s := range group.specs {
			a, b, dir, err := parseBondSpec(s)
			if err != nil {
				return nil, err
			}
			out = append(out, edit{a: a, b: b, dir: dir, form: group.form})
		}
	}
	return out, nil
}

// parseBondSpec parses "A-B" into two atom IDs, or "A>B" into two atom IDs
// and a bond direction pointing from A to B.
func parseBondSpec(s string) (a, b pam.AtomID, dir int, err error) {
	s = strings.TrimSpace(s)
	left, right, ok := strings.Cut(s, ">")
	if ok {
		dir = pam.DirForward
	} else if left, right, ok = strings.Cut(s, "-"); !ok {
		return 0, 0, 0, perrors.New(perrors.ErrCodeInvalidInput, "bond %q: want A-B or A>B", s)
	}
	x, errA := strconv.Atoi(left)
	y, errB := strconv.Atoi(right)
	if errA != nil || errB != nil || x <= 0 || y <= 0 {
		return 0, 0, 0, perrors.New(perrors.ErrCodeInvalidInput, "bond %q: atom IDs must be positive integers", s)
	}
	return pam.AtomID(x), pam.AtomID(y), dir, nil
}

// session is a model with its updater after all passes have run.
type session struct {
	model   *pam.Model
	updater *updater.Updater
	result  *updater.Result
	cfg     config.Config
}

// run loads the model, runs the first pass, replays the edits and runs a
// second pass when there were any.
func (c *CLI) run(ctx context.Context, cmd *cobra.Command, o *inputOpts, args []string) (*session, error) {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig(cmd, o)
	if err != nil {
		return nil, err
	}
	edits, err := o.edits()
	if err != nil {
		return nil, err
	}
	var path string
	if len(args) > 0 {
		path = args[0]
	}
	m, err := o.loadModel(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("model loaded", "atoms", m.AtomCount(), "bonds", m.BondCount())

	u := updater.New(m, updater.Options{MaxLadderLength: cfg.MaxLadderLength, Logger: logger})
	prog := newProgress(logger)
	res, err := u.Run(ctx)
	if err != nil {
		return nil, err
	}

	if len(edits) > 0 {
		for _, e := range edits {
			if err := e.apply(m); err != nil {
				return nil, err
			}
			logger.Debug("applied edit", "edit", e)
		}
		if res, err = u.Run(ctx); err != nil {
			return nil, err
		}
	}
	prog.done(fmt.Sprintf("Partitioned %d atoms into %d ladders", m.AtomCount(), len(res.Ladders)))

	return &session{model: m, updater: u, result: res, cfg: cfg}, nil
}

func (e edit) apply(m *pam.Model) error {
	var err error
	if e.form {
		err = m.Bond(e.a, e.b, e.dir)
	} else {
		err = m.Unbond(e.a, e.b)
	}
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "%s", e)
	}
	return nil
}
