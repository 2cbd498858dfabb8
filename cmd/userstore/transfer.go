package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dusk-indust/userstore/internal/catalog"
	"github.com/dusk-indust/userstore/internal/config"
)

func runExport(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	c, err := catalog.Open(ctx, cfg.JSONPath, cfg.WordPath, cfg.Verbose)
	if err != nil {
		return err
	}

	n, err := c.ExportToWord()
	if err != nil {
		return fmt.Errorf("export failed after %d users: %w", n, err)
	}
	fmt.Fprintf(stdout, "exported %d users to %s\n", n, cfg.WordPath)
	return nil
}

func runImport(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	c, err := catalog.Open(ctx, cfg.JSONPath, cfg.WordPath, cfg.Verbose)
	if err != nil {
		return err
	}

	res, err := c.ImportFromWord()
	if err != nil {
		return fmt.Errorf("import failed after %d users: %w", res.Added, err)
	}
	fmt.Fprintf(stdout, "imported %d users into %s\n", res.Added, cfg.JSONPath)
	if len(res.Skipped) > 0 {
		fmt.Fprintf(stdout, "skipped existing ids: %s\n", strings.Join(res.Skipped, ", "))
	}
	return nil
}
