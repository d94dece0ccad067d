package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rhino1998/unify/pkg/scenario"
	"github.com/urfave/cli/v3"
)

var verboseFlag = &cli.BoolFlag{
	Name:  "verbose",
	Usage: "log frame and stack activity to stderr",
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		pterm.DisableColor()
	}

	cmd := &cli.Command{
		Name:  "unify",
		Usage: "Check and resolve generic types against declarative fixtures",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run every case of a fixture and report the results",
				ArgsUsage: "<fixture.yaml|fixture.toml>",
				Flags:     []cli.Flag{verboseFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					fixture, err := loadFixture(c)
					if err != nil {
						return err
					}

					report, runErr := scenario.Run(ctx, newLogger(c), fixture)
					if report == nil {
						return runErr
					}

					err = printReport(report)
					if err != nil {
						return err
					}

					if runErr != nil {
						pterm.Error.Println(runErr)
						return fmt.Errorf("%d of %d results failed", report.Failed(), len(report.Results))
					}

					pterm.Success.Printfln("%d results passed", len(report.Results))

					return nil
				},
			},
			{
				Name:      "classes",
				Usage:     "List the classes a fixture declares",
				ArgsUsage: "<fixture.yaml|fixture.toml>",
				Flags:     []cli.Flag{verboseFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					fixture, err := loadFixture(c)
					if err != nil {
						return err
					}

					u, err := scenario.NewUniverse(fixture.Classes)
					if err != nil {
						return err
					}

					data := pterm.TableData{{"Class", "Parent", "Generics", "Kind"}}
					for _, cls := range u.Registry.Classes() {
						parent := "-"
						if cls.Parent() != nil {
							parent = cls.Parent().Name()
						}

						kind := cls.Kind().String()
						switch {
						case cls.IsEnum():
							kind = "enum"
						case cls.IsVariant():
							kind = "variant " + cls.VariantShape().String()
						}

						data = append(data, []string{cls.Name(), parent, strconv.Itoa(cls.Generics()), kind})
					}

					return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
				},
			},
		},
	}

	err := cmd.Run(ctx, os.Args)
	if err != nil {
		log.Fatalln(err)
	}
}

func newLogger(c *cli.Command) *slog.Logger {
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadFixture(c *cli.Command) (*scenario.Fixture, error) {
	if c.Args().Len() != 1 {
		return nil, fmt.Errorf("must provide exactly one fixture file as argument")
	}

	path := c.Args().First()

	return scenario.Load(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

func printReport(report *scenario.Report) error {
	data := pterm.TableData{{"Case", "Step", "Op", "Got", "Expected", ""}}
	for _, result := range report.Results {
		status := pterm.FgGreen.Sprint("ok")
		if !result.Pass {
			status = pterm.FgRed.Sprint("FAIL")
		}

		data = append(data, []string{
			result.Case,
			strconv.Itoa(result.Step),
			string(result.Op),
			result.Got,
			result.Expect,
			status,
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
