package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/templar-lang/templar/internal/cache"
	"github.com/templar-lang/templar/internal/config"
	"github.com/templar-lang/templar/internal/diagnostics"
	"github.com/templar-lang/templar/internal/parser"
	"github.com/templar-lang/templar/internal/pipeline"
	"github.com/templar-lang/templar/internal/project"
	"github.com/templar-lang/templar/internal/source"
	"github.com/templar-lang/templar/internal/transform"
)

const usage = `templar - type-checking toolchain for templates

Usage:
  templar check [flags] <file|dir>...   transform templates and report diagnostics
  templar emit <file>                   print the emitted program for one template
  templar cache clear                   drop all cached transform results
  templar version
  templar help

Flags for check/emit:
  --context <type>        context type bound in the emitted frame
  --type-params <clause>  type parameter clause for the emitted frame
  --global <name>         add an identifier to the in-scope set (repeatable)
  --no-cache              bypass the transform result cache
`

type options struct {
	contextType string
	typeParams  string
	globals     []string
	noCache     bool
	paths       []string
}

// Run is the CLI entry point. It returns the process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		fmt.Print(usage)
		return 0
	}
	command := args[0]
	rest := args[1:]

	switch command {
	case "help", "--help", "-h":
		fmt.Print(usage)
		return 0
	case "version", "--version":
		fmt.Printf("templar %s\n", config.Version)
		return 0
	case "cache":
		return runCache(rest)
	case "emit":
		return runEmit(rest)
	case "check":
		return runCheck(rest)
	default:
		// Bare paths imply check.
		return runCheck(args)
	}
}

func parseOptions(args []string) (*options, error) {
	opts := &options{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--no-cache":
			opts.noCache = true
		case arg == "--context" || arg == "--type-params" || arg == "--global":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a value", arg)
			}
			i++
			switch arg {
			case "--context":
				opts.contextType = args[i]
			case "--type-params":
				opts.typeParams = args[i]
			case "--global":
				opts.globals = append(opts.globals, args[i])
			}
		case strings.HasPrefix(arg, "--"):
			return nil, fmt.Errorf("unknown flag %s", arg)
		default:
			opts.paths = append(opts.paths, arg)
		}
	}
	return opts, nil
}

func runCheck(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "templar:", err)
		return 2
	}
	if len(opts.paths) == 0 {
		fmt.Fprintln(os.Stderr, "templar: check requires at least one file or directory")
		return 2
	}

	files, err := collectFiles(opts.paths)
	if err != nil {
		fmt.Fprintln(os.Stderr, "templar:", err)
		return 2
	}

	var store *cache.Cache
	if !opts.noCache {
		if store, err = openCache(); err != nil {
			// The cache is an accelerator; fall back to direct transforms.
			fmt.Fprintln(os.Stderr, "templar: cache disabled:", err)
		} else {
			defer store.Close()
		}
	}

	total := 0
	for _, file := range files {
		n, err := checkFile(file, opts, store)
		if err != nil {
			fmt.Fprintln(os.Stderr, "templar:", err)
			return 2
		}
		total += n
	}
	if total > 0 {
		fmt.Fprintf(os.Stderr, "%d problem(s) found\n", total)
		return 1
	}
	return 0
}

func checkFile(path string, opts *options, store *cache.Cache) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	src := string(data)
	tOpts, err := fileOptions(path, opts)
	if err != nil {
		return 0, err
	}

	if store != nil {
		key := cache.Key(src, tOpts)
		if entry, ok, err := store.Get(key); err == nil && ok {
			printDiagnostics(path, src, entry.Errors)
			return len(entry.Errors), nil
		}
		result := transform.TemplateToTypescript(src, tOpts)
		_ = store.Put(key, &cache.Entry{Code: result.Code, Errors: result.Errors})
		printDiagnostics(path, src, result.Errors)
		return len(result.Errors), nil
	}

	ctx := pipeline.NewPipelineContext(src)
	ctx.FilePath = path
	ctx.Options = tOpts
	final := pipeline.New(&parser.ParseProcessor{}, &transform.TransformProcessor{}).Run(ctx)
	printDiagnostics(path, src, final.Errors)
	return len(final.Errors), nil
}

func runEmit(args []string) int {
	opts, err := parseOptions(args)
	if err != nil || len(opts.paths) != 1 {
		fmt.Fprintln(os.Stderr, "templar: emit requires exactly one template file")
		return 2
	}
	path := opts.paths[0]
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "templar:", err)
		return 2
	}
	tOpts, err := fileOptions(path, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "templar:", err)
		return 2
	}
	result := transform.TemplateToTypescript(string(data), tOpts)
	printDiagnostics(path, string(data), result.Errors)
	if !result.HasCode() {
		return 1
	}
	fmt.Println(result.Code)
	if len(result.Errors) > 0 {
		return 1
	}
	return 0
}

func runCache(args []string) int {
	if len(args) != 1 || args[0] != "clear" {
		fmt.Fprintln(os.Stderr, "templar: usage: templar cache clear")
		return 2
	}
	store, err := openCache()
	if err != nil {
		fmt.Fprintln(os.Stderr, "templar:", err)
		return 2
	}
	defer store.Close()
	if err := store.Clear(); err != nil {
		fmt.Fprintln(os.Stderr, "templar:", err)
		return 2
	}
	return 0
}

func openCache() (*cache.Cache, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	dir = filepath.Join(dir, "templar")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return cache.Open(filepath.Join(dir, config.CacheFileName))
}

// fileOptions merges project config with command-line overrides.
func fileOptions(path string, opts *options) (transform.Options, error) {
	cfg, _, err := project.Discover(filepath.Dir(path))
	if err != nil {
		return transform.Options{}, err
	}
	tOpts := cfg.TransformOptions()
	if opts.contextType != "" {
		tOpts.ContextType = opts.contextType
	}
	if opts.typeParams != "" {
		tOpts.TypeParams = opts.typeParams
	}
	tOpts.IdentifiersInScope = append(tOpts.IdentifiersInScope, opts.globals...)
	return tOpts, nil
}

func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && config.HasSourceExt(p) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func printDiagnostics(path, src string, errs []*diagnostics.DiagnosticError) {
	if len(errs) == 0 {
		return
	}
	index := source.NewLineIndex(src)
	for _, err := range errs {
		line, col := index.Position(err.Span.Start)
		fmt.Printf("%s %s %s\n",
			bold(fmt.Sprintf("%s:%d:%d:", path, line, col)),
			red("error")+dim("["+string(err.Code)+"]")+":",
			err.Message)
	}
}
