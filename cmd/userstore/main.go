package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/dusk-indust/userstore/internal/config"
)

// CLI flags parsed from command line.
type cliFlags struct {
	Dir          string
	Backend      string
	Verbose      bool
	ServeMCP     bool
	ServeMCPHTTP string
	Version      bool
}

// version is set by goreleaser at build time.
var version = "dev"

const usage = `usage: userstore [flags] <command> [args]

commands:
  list                        print every user as JSON
  get <id|index>              print one user
  add [--id ID] <name> <age>  add a user (id defaults to a random UUID)
  remove <id|index>           remove a user
  export                      append every JSON user to the Word document
  import                      add Word users to the JSON document, skipping known ids
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	var flags cliFlags

	fs := flag.NewFlagSet("userstore", flag.ContinueOnError)
	fs.StringVar(&flags.Dir, "dir", ".", "directory holding userstore.yml and the backing files")
	fs.StringVar(&flags.Backend, "backend", "json", "backend for list/get/add/remove: json or word")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable verbose output")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as MCP server on stdio")
	fs.StringVar(&flags.ServeMCPHTTP, "serve-mcp-http", "", "run as MCP server over HTTP at this address")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Fprintln(stdout, version)
		return nil
	}

	cfg, err := config.Load(flags.Dir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Verbose = cfg.Verbose || flags.Verbose
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		defer log.SetOutput(os.Stderr)
	}

	if flags.ServeMCP || flags.ServeMCPHTTP != "" {
		return runServe(ctx, cfg, flags.ServeMCPHTTP)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "list", "get", "add", "remove":
		return runUsers(cfg, flags.Backend, cmd, cmdArgs, stdout)
	case "export":
		return runExport(ctx, cfg, stdout)
	case "import":
		return runImport(ctx, cfg, stdout)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
