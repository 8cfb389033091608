package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/qsim"
	"github.com/urfave/cli/v2"
)

var (
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "qsim",
	})
	config = qsim.NewConfig()
)

func main() {
	app := &cli.App{
		Name:  "qsim",
		Usage: "simulate small quantum registers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "configuration file (yaml, toml or json)",
				EnvVars: []string{"QSIM_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "debug, info, warn or error",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			runCommand(),
			estimateCommand(),
			correctCommand(),
			exploreCommand(),
			snapshotCommand(),
			inspectCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("qsim failed", "err", err)
		os.Exit(1)
	}
}

func setup(c *cli.Context) error {
	level, err := log.ParseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	cfg, err := qsim.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	config = cfg

	logger.Debug("configuration loaded",
		"max_qubits", cfg.MaxQubits,
		"tolerance", cfg.Tolerance,
		"workers", cfg.Workers,
	)
	return nil
}
