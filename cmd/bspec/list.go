package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/boyter/gocodewalker"
	"github.com/urfave/cli/v3"

	"github.com/rlch/bspec"
)

// List command errors.
var ErrNoScenarios = errors.New("no scenarios found")

const modulePath = "github.com/rlch/bspec"

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List scenarios declared in Go source",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "output outlines as JSON",
			},
		},
		Action: runList,
	}
}

// scenarioOutline is a statically discovered scenario: a struct embedding
// the engine base, with its convention methods bucketed by role.
type scenarioOutline struct {
	Name     string   `json:"name"`
	File     string   `json:"file"`
	Skipped  bool     `json:"skipped,omitempty"`
	Arrange  []string `json:"arrange,omitempty"`
	Act      []string `json:"act,omitempty"`
	Examples []string `json:"examples,omitempty"`
	Teardown []string `json:"teardown,omitempty"`
}

func runList(_ context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		args = []string{"."}
	}

	files, err := collectGoFiles(args)
	if err != nil {
		return err
	}

	outlines, err := outlineScenarios(files)
	if err != nil {
		return err
	}

	if len(outlines) == 0 {
		return ErrNoScenarios
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(outlines)
	}

	for _, o := range outlines {
		printOutline(o)
	}

	return nil
}

func printOutline(o scenarioOutline) {
	header := o.Name
	if o.Skipped {
		header += " (skipped)"
	}

	fmt.Printf("%s  %s\n", header, o.File)

	for _, section := range []struct {
		label   string
		methods []string
	}{
		{"arrange", o.Arrange},
		{"act", o.Act},
		{"examples", o.Examples},
		{"teardown", o.Teardown},
	} {
		for _, m := range section.methods {
			fmt.Printf("  %-8s %s\n", section.label, m)
		}
	}

	fmt.Println()
}

// collectGoFiles expands file and directory arguments into a list of Go
// source files, respecting .gitignore when walking directories.
func collectGoFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if info.IsDir() {
			walked, err := walkGoFiles(arg)
			if err != nil {
				return nil, err
			}

			files = append(files, walked...)
		} else if strings.HasSuffix(arg, ".go") {
			files = append(files, arg)
		}
	}

	sort.Strings(files)

	return files, nil
}

func walkGoFiles(root string) ([]string, error) {
	fileListQueue := make(chan *gocodewalker.File, 100)

	fileWalker := gocodewalker.NewFileWalker(root, fileListQueue)
	fileWalker.AllowListExtensions = []string{"go"}

	var walkErr error

	fileWalker.SetErrorHandler(func(e error) bool {
		walkErr = e
		return true
	})

	var files []string

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for f := range fileListQueue {
			files = append(files, f.Location)
		}
	}()

	if err := fileWalker.Start(); err != nil {
		return nil, err
	}

	wg.Wait()

	return files, walkErr
}

// parsedDir holds the ASTs of one directory's files for two-pass analysis:
// scenario types first, then their methods.
type parsedDir struct {
	files map[string]*ast.File
}

// outlineScenarios parses the given files and reports every struct that
// embeds the scenario base, along with its classified convention methods.
// Static analysis only sees the default separator; types overriding
// WordSeparator list their methods unbucketed at runtime, not here.
func outlineScenarios(files []string) ([]scenarioOutline, error) {
	fset := token.NewFileSet()
	dirs := make(map[string]*parsedDir)

	for _, file := range files {
		f, err := parser.ParseFile(fset, file, nil, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			continue
		}

		dir := filepath.Dir(file)

		pd := dirs[dir]
		if pd == nil {
			pd = &parsedDir{files: make(map[string]*ast.File)}
			dirs[dir] = pd
		}

		pd.files[file] = f
	}

	var outlines []scenarioOutline

	for _, pd := range dirs {
		outlines = append(outlines, outlineDir(pd)...)
	}

	sort.Slice(outlines, func(i, j int) bool {
		if outlines[i].File != outlines[j].File {
			return outlines[i].File < outlines[j].File
		}

		return outlines[i].Name < outlines[j].Name
	})

	return outlines, nil
}

func outlineDir(pd *parsedDir) []scenarioOutline {
	scenarios := make(map[string]*scenarioOutline)

	// Pass 1: structs embedding the base directly, then structs embedding
	// those, until the set stops growing. Chained scenarios embed their
	// parent rather than the base.
	for {
		grew := false

		for file, f := range pd.files {
			pkgName := localPackageName(f)

			ast.Inspect(f, func(n ast.Node) bool {
				ts, ok := n.(*ast.TypeSpec)
				if !ok {
					return true
				}

				st, ok := ts.Type.(*ast.StructType)
				if !ok {
					return true
				}

				if _, seen := scenarios[ts.Name.Name]; seen {
					return true
				}

				if !embedsScenario(st, pkgName, scenarios) {
					return true
				}

				scenarios[ts.Name.Name] = &scenarioOutline{
					Name:    ts.Name.Name,
					File:    file,
					Skipped: embedsSelector(st, pkgName, "Skip"),
				}
				grew = true

				return true
			})
		}

		if !grew {
			break
		}
	}

	// Pass 2: convention methods on the discovered types.
	for _, f := range pd.files {
		for _, decl := range f.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil {
				continue
			}

			outline, ok := scenarios[receiverTypeName(fd)]
			if !ok {
				continue
			}

			if !conventionShape(fd) {
				continue
			}

			name := fd.Name.Name
			if !strings.Contains(name, bspec.DefaultSeparator) {
				continue
			}

			role, ok := bspec.RoleOf(name)
			if !ok {
				continue
			}

			switch role {
			case bspec.RoleArrange:
				outline.Arrange = append(outline.Arrange, name)
			case bspec.RoleAct:
				outline.Act = append(outline.Act, name)
			case bspec.RoleExample:
				outline.Examples = append(outline.Examples, name)
			case bspec.RoleTeardown:
				outline.Teardown = append(outline.Teardown, name)
			}
		}
	}

	result := make([]scenarioOutline, 0, len(scenarios))

	for _, o := range scenarios {
		// Reflection reports methods lexicographically; match it so the
		// outline reads in execution order.
		sort.Strings(o.Arrange)
		sort.Strings(o.Act)
		sort.Strings(o.Examples)
		sort.Strings(o.Teardown)

		result = append(result, *o)
	}

	return result
}

// localPackageName returns the identifier the file uses for the engine
// import, or "" when the file doesn't import it.
func localPackageName(f *ast.File) string {
	for _, imp := range f.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || path != modulePath {
			continue
		}

		if imp.Name != nil {
			return imp.Name.Name
		}

		return "bspec"
	}

	return ""
}

// embedsScenario reports whether the struct anonymously embeds the engine
// base or another already-discovered scenario type.
func embedsScenario(st *ast.StructType, pkgName string, known map[string]*scenarioOutline) bool {
	for _, field := range st.Fields.List {
		if len(field.Names) != 0 {
			continue
		}

		switch t := unwrapStar(field.Type).(type) {
		case *ast.SelectorExpr:
			if ident, ok := t.X.(*ast.Ident); ok &&
				pkgName != "" && ident.Name == pkgName && t.Sel.Name == "Scenario" {
				return true
			}
		case *ast.Ident:
			if _, ok := known[t.Name]; ok {
				return true
			}
		}
	}

	return false
}

// embedsSelector reports whether the struct anonymously embeds pkgName.sel.
func embedsSelector(st *ast.StructType, pkgName, sel string) bool {
	if pkgName == "" {
		return false
	}

	for _, field := range st.Fields.List {
		if len(field.Names) != 0 {
			continue
		}

		se, ok := unwrapStar(field.Type).(*ast.SelectorExpr)
		if !ok {
			continue
		}

		if ident, ok := se.X.(*ast.Ident); ok && ident.Name == pkgName && se.Sel.Name == sel {
			return true
		}
	}

	return false
}

func unwrapStar(expr ast.Expr) ast.Expr {
	if star, ok := expr.(*ast.StarExpr); ok {
		return star.X
	}

	return expr
}

func receiverTypeName(fd *ast.FuncDecl) string {
	if len(fd.Recv.List) != 1 {
		return ""
	}

	if ident, ok := unwrapStar(fd.Recv.List[0].Type).(*ast.Ident); ok {
		return ident.Name
	}

	return ""
}

// conventionShape mirrors the engine's method filter: exported, no
// parameters, no results.
func conventionShape(fd *ast.FuncDecl) bool {
	if !fd.Name.IsExported() {
		return false
	}

	ft := fd.Type

	if ft.Params != nil && len(ft.Params.List) != 0 {
		return false
	}

	if ft.Results != nil && len(ft.Results.List) != 0 {
		return false
	}

	return true
}
