package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/2beens/healthtracker/internal/nutrition"
	"github.com/2beens/healthtracker/internal/records"
	"github.com/2beens/healthtracker/internal/workouts"
	"github.com/2beens/healthtracker/pkg"

	"go.uber.org/multierr"
)

const (
	TableWorkouts  = "workouts"
	TableNutrition = "nutrition"
)

// Context is handed to every command's Run.
type Context struct {
	Ctx       context.Context
	Workouts  *workouts.Repo
	Nutrition *nutrition.Repo
	Out       io.Writer
}

func NewContext(ctx context.Context, workoutsPath, nutritionPath string, out io.Writer) *Context {
	return &Context{
		Ctx:       ctx,
		Workouts:  workouts.NewFileRepo(workoutsPath),
		Nutrition: nutrition.NewFileRepo(nutritionPath),
		Out:       out,
	}
}

type ImportCmd struct {
	Table string `arg:"" enum:"workouts,nutrition" help:"Table to replace (workouts or nutrition)."`
	File  string `arg:"" type:"existingfile" help:"CSV file to import. Prior entries are discarded."`
}

func (c *ImportCmd) Run(ctx *Context) error {
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	var imported int
	switch c.Table {
	case TableWorkouts:
		imported, err = ctx.Workouts.Import(ctx.Ctx, f)
	case TableNutrition:
		imported, err = ctx.Nutrition.Import(ctx.Ctx, f)
	default:
		return fmt.Errorf("unknown table: %s", c.Table)
	}
	if err != nil {
		return fmt.Errorf("import %s: %w", c.Table, err)
	}

	fmt.Fprintf(ctx.Out, "imported %d %s entries\n", imported, c.Table)
	return nil
}

type ExportCmd struct {
	Table  string `arg:"" enum:"workouts,nutrition" help:"Table to export (workouts or nutrition)."`
	Output string `short:"o" help:"Write to this file instead of stdout."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	var table *records.Table
	var err error
	switch c.Table {
	case TableWorkouts:
		table, err = ctx.Workouts.Table(ctx.Ctx)
	case TableNutrition:
		table, err = ctx.Nutrition.Table(ctx.Ctx)
	default:
		return fmt.Errorf("unknown table: %s", c.Table)
	}
	if err != nil {
		return err
	}
	if table.Len() == 0 {
		fmt.Fprintf(ctx.Out, "no %s data to export\n", c.Table)
		return nil
	}

	if c.Output == "" {
		return records.WriteCSV(ctx.Out, table)
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return err
	}
	return writeAndClose(f, table)
}

// writeAndClose writes the table as CSV to wc and closes it. A failed Close is reported.
func writeAndClose(wc io.WriteCloser, table *records.Table) (err error) {
	defer func() {
		err = multierr.Append(err, wc.Close())
	}()
	return records.WriteCSV(wc, table)
}

type RecentCmd struct {
	Table string `arg:"" enum:"workouts,nutrition" help:"Table to list (workouts or nutrition)."`
	Limit int    `short:"n" default:"10" help:"How many entries to show."`
}

func (c *RecentCmd) Run(ctx *Context) error {
	tw := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)

	switch c.Table {
	case TableWorkouts:
		entries, err := ctx.Workouts.Recent(ctx.Ctx, c.Limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(ctx.Out, "no workouts logged yet")
			return nil
		}
		fmt.Fprintln(tw, "DATE\tEXERCISE\tSETS\tREPS\tWEIGHT\tNOTES")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				e.Date, e.Exercise, fmtInt(e.Sets), fmtInt(e.Reps), fmtFloat(e.Weight), e.Notes)
		}
	case TableNutrition:
		entries, err := ctx.Nutrition.Recent(ctx.Ctx, c.Limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(ctx.Out, "no nutrition logged yet")
			return nil
		}
		fmt.Fprintln(tw, "DATE\tCALORIES\tPROTEIN\tCARBS\tFAT\tSUGAR\tNOTES")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.Date, fmtInt(e.Calories), fmtFloat(e.Protein), fmtFloat(e.Carbs), fmtFloat(e.Fat), fmtFloat(e.Sugar), e.Notes)
		}
	default:
		return fmt.Errorf("unknown table: %s", c.Table)
	}

	return tw.Flush()
}

type SummaryCmd struct {
	Unit string `arg:"" optional:"" default:"week" help:"Period to average over: day, week or month."`
}

func (c *SummaryCmd) Run(ctx *Context) error {
	unit, err := records.ParseUnit(c.Unit)
	if err != nil {
		return err
	}

	periods, err := ctx.Nutrition.Summary(ctx.Ctx, unit)
	if err != nil {
		return err
	}
	if len(periods) == 0 {
		fmt.Fprintln(ctx.Out, "no nutrition logged yet")
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PERIOD\tENTRIES\tCALORIES\tPROTEIN\tCARBS\tFAT\tSUGAR")
	for _, p := range periods {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			p.PeriodStart, p.Entries, fmtFloat(p.Calories), fmtFloat(p.Protein), fmtFloat(p.Carbs), fmtFloat(p.Fat), fmtFloat(p.Sugar))
	}
	return tw.Flush()
}

type ProgressCmd struct {
	Exercise string `arg:"" help:"Exercise label, matched exactly."`
}

func (c *ProgressCmd) Run(ctx *Context) error {
	entries, err := ctx.Workouts.Entries(ctx.Ctx)
	if err != nil {
		return err
	}

	progress, err := workouts.AnalyzeProgress(entries, c.Exercise)
	if errors.Is(err, workouts.ErrNoData) {
		fmt.Fprintf(ctx.Out, "no weight data for %s yet\n", c.Exercise)
		return nil
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tWEIGHT")
	for _, p := range progress.History {
		fmt.Fprintf(tw, "%s\t%s\n", p.Date, strconv.FormatFloat(p.Weight, 'f', -1, 64))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "start %.1f  current %.1f  delta %+.1f  change %+.1f%%\n",
		progress.Start, progress.Current, progress.Delta, progress.PctChange)
	return nil
}

type ExercisesCmd struct{}

func (c *ExercisesCmd) Run(ctx *Context) error {
	entries, err := ctx.Workouts.Entries(ctx.Ctx)
	if err != nil {
		return err
	}
	for _, exercise := range workouts.Exercises(entries) {
		fmt.Fprintln(ctx.Out, exercise)
	}
	return nil
}

func fmtInt(i *int) string {
	if i == nil {
		return "-"
	}
	return strconv.Itoa(*i)
}

func fmtFloat(f *float64) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

type BackupCmd struct {
	Output string `arg:"" type:"path" help:"Archive to write (tar.gz)."`
}

func (c *BackupCmd) Run(ctx *Context) (err error) {
	f, err := os.Create(c.Output)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	archived, err := pkg.Compress(f, ctx.Workouts.Path(), ctx.Nutrition.Path())
	if err != nil {
		return fmt.Errorf("backup: %w", err)
	}

	fmt.Fprintf(ctx.Out, "backed up %d files to %s\n", archived, c.Output)
	return nil
}
