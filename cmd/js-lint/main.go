package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"js-lint/analysis"
	"js-lint/config"

	"github.com/hashicorp/go-hclog"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var logger = hclog.New(&hclog.LoggerOptions{
	Name:   "js-lint",
	Output: os.Stderr,
	Level:  hclog.Info,
})

func prepareString(in string) string {
	lines := strings.Split(in, "\n")
	for idx := range lines {
		lines[idx] = strings.TrimLeft(lines[idx], " \t")
	}
	switch len(lines) {
	case 0:
		return ""
	case 1:
		return "\t" + lines[0]
	default:
		return fmt.Sprintf("\t%s\n\t...", lines[0])
	}
}

func walkJSFiles(from string, walk fs.WalkDirFunc) error {
	return filepath.WalkDir(from, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".js") && !strings.HasSuffix(d.Name(), ".mjs") {
			return nil
		}
		return walk(path, d, err)
	})
}

func collectFiles(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("could not stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = walkJSFiles(arg, func(path string, d fs.DirEntry, err error) error {
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// runFiles analyzes every file on a bounded worker pool. Results are keyed
// by path; reporting iterates sorted paths so output never depends on
// completion order. A failure in one file is logged and counted but never
// aborts the sibling files.
func runFiles(ctx context.Context, eng *analysis.Engine, files []string, apply bool, jobs int) (map[string]analysis.RunResult, int) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	var mu sync.Mutex
	results := map[string]analysis.RunResult{}
	failed := 0

	for _, file := range files {
		file := file
		g.Go(func() error {
			fail := func(what string, err error) error {
				logger.Error(what, "file", file, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return fail("could not read file", err)
			}

			res, err := eng.Run(ctx, file, data, analysis.RunOptions{Apply: apply})
			if err != nil {
				return fail("could not analyze file", err)
			}

			if res.Changed {
				if err := os.WriteFile(file, res.Source, 0o644); err != nil {
					return fail("could not write fixed file", err)
				}
			}

			mu.Lock()
			results[file] = res
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return results, failed
}

func report(files []string, results map[string]analysis.RunResult) (errors, saved int) {
	for _, file := range files {
		res, ok := results[file]
		if !ok {
			continue
		}
		if res.Changed {
			saved++
		}
		for _, diag := range res.Diagnostics {
			if diag.Severity == analysis.SeverityError {
				errors++
			}
			fmt.Printf("%s\t%s\t%s (%s)\n", diag.Range, file, diag.Message, diag.Code)
			if diag.Context != "" {
				fmt.Printf("\n%s\n\n", prepareString(diag.Context))
			}
		}
	}
	return errors, saved
}

func setupEngine(ctx *cli.Context) (*analysis.Engine, *config.Store, error) {
	store := config.NewStore()
	if path := ctx.String("config"); path != "" {
		if err := store.LoadFile(path); err != nil {
			return nil, nil, err
		}
	} else if err := store.LoadDir("."); err != nil {
		return nil, nil, err
	}

	eng, err := analysis.New(analysis.DefaultRules(), store)
	if err != nil {
		return nil, nil, err
	}
	return eng, store, nil
}

func jobCount(ctx *cli.Context, store *config.Store) int {
	if jobs := ctx.Int("jobs"); jobs > 0 {
		return jobs
	}
	return store.Current().WorkerCount()
}

func check(ctx *cli.Context) error {
	eng, store, err := setupEngine(ctx)
	if err != nil {
		return err
	}

	files, err := collectFiles(ctx.Args().Slice())
	if err != nil {
		return err
	}

	// The project config may opt into fixing by default.
	results, failed := runFiles(ctx.Context, eng, files, store.Current().Fix, jobCount(ctx, store))

	errors, _ := report(files, results)
	if errors+failed > 0 {
		return cli.Exit(fmt.Sprintf("%d error(s) found", errors+failed), 1)
	}
	return nil
}

func fix(ctx *cli.Context) error {
	eng, store, err := setupEngine(ctx)
	if err != nil {
		return err
	}

	files, err := collectFiles(ctx.Args().Slice())
	if err != nil {
		return err
	}

	results, failed := runFiles(ctx.Context, eng, files, true, jobCount(ctx, store))

	errors, saved := report(files, results)
	fmt.Printf("fixed %d file(s)\n", saved)

	// Implicit globals can't be fixed mechanically, but their names ride in
	// the diagnostic metadata; surface them so the user can seed the globals
	// list in js-lint.yaml.
	var globals []string
	seen := map[string]bool{}
	for _, file := range files {
		for _, d := range results[file].Diagnostics {
			if d.Code != analysis.CodeUndeclaredGlobal {
				continue
			}
			if name := d.Meta["identifier"]; name != "" && !seen[name] {
				seen[name] = true
				globals = append(globals, name)
			}
		}
	}
	if len(globals) > 0 {
		fmt.Printf("implicit globals detected: %s\n", strings.Join(globals, ", "))
	}
	if errors+failed > 0 {
		return cli.Exit(fmt.Sprintf("%d error(s) remain after fixing", errors+failed), 1)
	}
	return nil
}

func main() {
	app := cli.App{
		Name:  "js-lint",
		Usage: "lint JavaScript files, optionally rewriting them to fix defects",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a js-lint.yaml; defaults to the working directory's",
			},
			&cli.IntFlag{
				Name:  "jobs",
				Usage: "max files analyzed in parallel",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "check",
				Usage:     "report diagnostics without touching files",
				ArgsUsage: "[files or directories]",
				Action:    check,
			},
			{
				Name:      "fix",
				Usage:     "apply suggested fixes and report what remains",
				ArgsUsage: "[files or directories]",
				Action:    fix,
			},
		},
		ExitErrHandler: func(ctx *cli.Context, err error) {
			if err == nil {
				return
			}
			if exitErr, ok := err.(cli.ExitCoder); ok {
				logger.Error(err.Error())
				os.Exit(exitErr.ExitCode())
			}
			logger.Error(err.Error())
			os.Exit(1)
		},
	}
	_ = app.Run(os.Args)
}
