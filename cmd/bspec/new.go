package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"github.com/urfave/cli/v3"

	"github.com/rlch/bspec"
)

// New command errors.
var (
	ErrMissingScenarioName = errors.New("scenario name required")
	ErrBadScenarioName     = errors.New("scenario name must be a valid exported Go identifier")
	ErrBadExampleName      = errors.New("example name must carry a recognized prefix")
	ErrFileExists          = errors.New("file already exists")
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Scaffold a scenario type",
		ArgsUsage: "<ScenarioName>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output directory (default: current directory)",
			},
			&cli.StringFlag{
				Name:    "package",
				Aliases: []string{"p"},
				Usage:   "Go package name (default: output directory name)",
			},
			&cli.StringFlag{
				Name:    "example",
				Aliases: []string{"e"},
				Usage:   "name of the first example method",
				Value:   "When_the_scenario_runs",
			},
			&cli.BoolFlag{
				Name:  "skip",
				Usage: "mark the scenario skipped",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "overwrite an existing file",
			},
		},
		Action: runNew,
	}
}

func runNew(_ context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return ErrMissingScenarioName
	}

	if !validIdentifier(name) || !unicode.IsUpper(rune(name[0])) {
		return fmt.Errorf("%w: %s", ErrBadScenarioName, name)
	}

	example := cmd.String("example")
	if _, ok := bspec.RoleOf(example); !ok {
		return fmt.Errorf("%w: %s", ErrBadExampleName, example)
	}

	cfg := loadConfig()

	outDir := firstNonEmpty(cmd.String("out"), cfgGenerate(cfg).Out, ".")

	packageName := firstNonEmpty(cmd.String("package"), cfgGenerate(cfg).Package)
	if packageName == "" {
		abs, err := filepath.Abs(outDir)
		if err != nil {
			return err
		}

		packageName = filepath.Base(abs)
	}

	outPath := filepath.Join(outDir, snakeCase(name)+"_spec.go")

	if !cmd.Bool("force") {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("%w: %s", ErrFileExists, outPath)
		}
	}

	f := scaffoldScenario(packageName, name, example, cmd.Bool("skip"))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	if err := f.Save(outPath); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Printf("wrote %s\n", outPath)

	return nil
}

// scaffoldScenario builds the generated file: the scenario struct and one
// example method whose condition starts out pending.
func scaffoldScenario(packageName, name, example string, skip bool) *jen.File {
	f := jen.NewFile(packageName)
	f.ImportName(modulePath, "bspec")

	fields := []jen.Code{jen.Qual(modulePath, "Scenario")}
	if skip {
		fields = append(fields, jen.Qual(modulePath, "Skip"))
	}

	f.Type().Id(name).Struct(fields...)

	f.Func().Params(jen.Id("s").Op("*").Id(name)).Id(example).Params().Block(
		jen.Id("s").Dot("Establish").Op("=").Func().Params().Block(),
		jen.Id("s").Dot("Because").Op("=").Func().Params().Block(),
		jen.Id("s").Dot("It").Call(
			jen.Lit("should describe the expected outcome"),
			jen.Qual(modulePath, "Pending"),
		),
	)

	return f
}

func cfgGenerate(cfg *bspec.Config) bspec.GenerateConfig {
	if cfg == nil {
		return bspec.GenerateConfig{}
	}

	return cfg.Generate
}

func validIdentifier(s string) bool {
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' {
			continue
		}

		if i > 0 && unicode.IsDigit(r) {
			continue
		}

		return false
	}

	return s != ""
}

// snakeCase converts an exported type name to a file-friendly form:
// OrderCancellation becomes order_cancellation.
func snakeCase(s string) string {
	var b strings.Builder

	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}

			b.WriteRune(unicode.ToLower(r))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}
