// Package catalog pairs a JSON and a Word user service so records can be
// moved between the two backends.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/dusk-indust/userstore/internal/jsonstore"
	"github.com/dusk-indust/userstore/internal/store"
	"github.com/dusk-indust/userstore/internal/wordstore"
	"golang.org/x/sync/errgroup"
)

// Catalog holds one service per backend. Each service owns a different
// file; the Catalog itself adds no locking.
type Catalog struct {
	JSON *jsonstore.Service
	Word *wordstore.Service
}

// ImportResult summarizes an ImportFromWord run.
type ImportResult struct {
	Added   int
	Skipped []string // ids already present in the JSON backend
}

// Open loads both backends in parallel. The first load error cancels the
// other and is returned.
func Open(ctx context.Context, jsonPath, wordPath string, verbose bool) (*Catalog, error) {
	var c Catalog
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		svc, err := jsonstore.Open(jsonPath, jsonstore.WithVerbose(verbose))
		if err != nil {
			return fmt.Errorf("json backend: %w", err)
		}
		c.JSON = svc
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		svc, err := wordstore.Open(wordPath, wordstore.WithVerbose(verbose))
		if err != nil {
			return fmt.Errorf("word backend: %w", err)
		}
		c.Word = svc
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Printf("catalog: opened json=%d word=%d", c.JSON.Len(), c.Word.Len())
	return &c, nil
}

// ExportToWord appends every JSON user to the Word document in insertion
// order. It stops at the first failed write and returns how many users were
// appended before it.
func (c *Catalog) ExportToWord() (int, error) {
	n := 0
	for _, u := range c.JSON.GetAllUsers() {
		if err := c.Word.AddUser(u); err != nil {
			return n, fmt.Errorf("export %s: %w", u.ID(), err)
		}
		n++
	}
	log.Printf("catalog: exported %d users to %s", n, c.Word.Path())
	return n, nil
}

// ImportFromWord adds every Word user to the JSON backend. Ids that already
// exist there are skipped rather than treated as failures.
func (c *Catalog) ImportFromWord() (ImportResult, error) {
	var res ImportResult
	for _, u := range c.Word.GetAllUsers() {
		err := c.JSON.AddUser(u)
		switch {
		case errors.Is(err, store.ErrDuplicateID):
			res.Skipped = append(res.Skipped, u.ID())
		case err != nil:
			return res, fmt.Errorf("import %s: %w", u.ID(), err)
		default:
			res.Added++
		}
	}
	log.Printf("catalog: imported %d users into %s, skipped %d", res.Added, c.JSON.Path(), len(res.Skipped))
	return res, nil
}
