package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/2beens/healthtracker/internal/cli"
	"github.com/2beens/healthtracker/internal/config"
	"github.com/2beens/healthtracker/internal/logging"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"
)

var CLI struct {
	Version  kong.VersionFlag
	Env      string `help:"Config environment (dev or prod)." default:"development"`
	Config   string `help:"Config file path; data dir and file names are read from it." type:"path" default:"./config.toml"`
	DataDir  string `help:"Data dir holding workouts.csv and nutrition.csv; skips the config file." type:"path"`
	LogLevel string `help:"Log level." default:"warn" enum:"trace,debug,info,warn,error"`

	Import    cli.ImportCmd    `cmd:"" help:"Replace a table with the contents of a CSV file."`
	Export    cli.ExportCmd    `cmd:"" help:"Export a table as CSV."`
	Recent    cli.RecentCmd    `cmd:"" help:"Show the latest entries of a table."`
	Summary   cli.SummaryCmd   `cmd:"" help:"Average nutrition per day, week or month."`
	Progress  cli.ProgressCmd  `cmd:"" help:"Show weight progress of an exercise."`
	Exercises cli.ExercisesCmd `cmd:"" help:"List logged exercises."`
	Backup    cli.BackupCmd    `cmd:"" help:"Archive both data files into a tar.gz."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("tracker"),
		kong.Description("Personal workout and nutrition tracker"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	logging.Setup(logging.Options{
		Level: CLI.LogLevel,
		Env:   CLI.Env,
	})

	workoutsPath, nutritionPath, err := dataPaths()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Debugf("workouts: %s, nutrition: %s", workoutsPath, nutritionPath)

	appCtx := cli.NewContext(context.Background(), workoutsPath, nutritionPath, os.Stdout)
	if err := kctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func dataPaths() (string, string, error) {
	if CLI.DataDir != "" {
		return filepath.Join(CLI.DataDir, config.DefaultWorkoutsFile),
			filepath.Join(CLI.DataDir, config.DefaultNutritionFile),
			nil
	}

	cfg, err := config.Load(CLI.Env, CLI.Config)
	if err != nil {
		return "", "", err
	}
	return cfg.WorkoutsPath(), cfg.NutritionPath(), nil
}
