// Package cmd defines the sweeptask CLI commands.
package cmd

import (
	"fmt"

	"github.com/erikh/sweeptask/internal/cleanup"
	"github.com/erikh/sweeptask/internal/config"
	"github.com/erikh/sweeptask/internal/docs"
	"github.com/erikh/sweeptask/internal/testtask"
	"github.com/urfave/cli/v2"
)

// NewApp creates the sweeptask CLI application.
func NewApp() *cli.App {
	return &cli.App{
		Name:  "sweeptask",
		Usage: "Build-automation tasks: cleanup, docs, tests",
		Commands: []*cli.Command{
			cleanCommand(),
			cleanAllCommand(),
			cleanPythonCommand(),
			docsCommand(),
			testCommand(),
		},
	}
}

func dryRunFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "dry-run",
		Usage: "show what would be removed without removing anything",
	}
}

func workdirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "workdir",
		Value: ".",
		Usage: "directory to resolve patterns against",
	}
}

func loadSweeper(c *cli.Context) (*cleanup.Sweeper, error) {
	cfg, err := config.Load(c.String("workdir"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cleanup.New(cfg), nil
}

func cleanCommand() *cli.Command {
	return &cli.Command{
		Name:  "clean",
		Usage: "Remove temporary dirs/files to regain a clean state",
		Flags: []cli.Flag{dryRunFlag(), workdirFlag()},
		Action: func(c *cli.Context) error {
			s, err := loadSweeper(c)
			if err != nil {
				return err
			}
			// Deletion errors are reported per path and do not fail
			// the task.
			s.Clean(c.Bool("dry-run"))
			return nil
		},
	}
}

func cleanAllCommand() *cli.Command {
	return &cli.Command{
		Name:    "clean-all",
		Aliases: []string{"distclean"},
		Usage:   "Clean up everything, even the precious stuff",
		Flags:   []cli.Flag{dryRunFlag(), workdirFlag()},
		Action: func(c *cli.Context) error {
			s, err := loadSweeper(c)
			if err != nil {
				return err
			}
			s.CleanAll(c.Bool("dry-run"))
			return nil
		},
	}
}

func cleanPythonCommand() *cli.Command {
	return &cli.Command{
		Name:  "clean-python",
		Usage: "Remove python artifacts: bytecode caches, build/dist output",
		Flags: []cli.Flag{dryRunFlag(), workdirFlag()},
		Action: func(c *cli.Context) error {
			s, err := loadSweeper(c)
			if err != nil {
				return err
			}
			s.CleanPython(c.Bool("dry-run"))
			return nil
		},
	}
}

func docsCommand() *cli.Command {
	return &cli.Command{
		Name:  "docs",
		Usage: "Documentation tasks",
		Subcommands: []*cli.Command{
			{
				Name:  "build",
				Usage: "Build the documentation",
				Flags: []cli.Flag{workdirFlag()},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("workdir"))
					if err != nil {
						return fmt.Errorf("loading config: %w", err)
					}
					return docs.Build(c.Context, cfg)
				},
			},
			{
				Name:  "clean",
				Usage: "Remove generated documentation",
				Flags: []cli.Flag{dryRunFlag(), workdirFlag()},
				Action: func(c *cli.Context) error {
					s, err := loadSweeper(c)
					if err != nil {
						return err
					}
					return docs.Clean(s, c.Bool("dry-run"))
				},
			},
		},
	}
}

func testCommand() *cli.Command {
	return &cli.Command{
		Name:  "test",
		Usage: "Test-suite tasks",
		Subcommands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run the test suite",
				ArgsUsage: "[args...]",
				Flags:     []cli.Flag{workdirFlag()},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("workdir"))
					if err != nil {
						return fmt.Errorf("loading config: %w", err)
					}
					return testtask.Run(c.Context, cfg, c.Args().Slice()...)
				},
			},
			{
				Name:  "clean",
				Usage: "Remove test reports and caches",
				Flags: []cli.Flag{dryRunFlag(), workdirFlag()},
				Action: func(c *cli.Context) error {
					s, err := loadSweeper(c)
					if err != nil {
						return err
					}
					return testtask.Clean(s, c.Bool("dry-run"))
				},
			},
		},
	}
}
