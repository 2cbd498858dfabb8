package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/dusk-indust/userstore/internal/config"
	"github.com/dusk-indust/userstore/internal/jsonstore"
	"github.com/dusk-indust/userstore/internal/mcptools"
	"github.com/dusk-indust/userstore/internal/user"
	"github.com/dusk-indust/userstore/internal/wordstore"
	"github.com/google/uuid"
)

// backend is the subset of operations the CLI shares between services.
// Keys are ids for the JSON backend and indices for the Word backend.
type backend interface {
	GetAllUsers() []user.User
	AddUser(u user.User) error
	get(key string) (user.User, bool, error)
	remove(key string) error
}

type jsonBackend struct{ *jsonstore.Service }

func (b jsonBackend) get(key string) (user.User, bool, error) {
	u, ok := b.GetUser(key)
	return u, ok, nil
}

func (b jsonBackend) remove(key string) error { return b.RemoveUser(key) }

type wordBackend struct{ *wordstore.Service }

func (b wordBackend) get(key string) (user.User, bool, error) {
	i, err := parseIndex(key)
	if err != nil {
		return user.User{}, false, err
	}
	u, ok := b.GetUser(i)
	return u, ok, nil
}

func (b wordBackend) remove(key string) error {
	i, err := parseIndex(key)
	if err != nil {
		return err
	}
	return b.RemoveUser(i)
}

func parseIndex(key string) (int, error) {
	i, err := strconv.Atoi(key)
	if err != nil {
		return 0, fmt.Errorf("word backend takes a numeric index, got %q", key)
	}
	return i, nil
}

func openBackend(cfg *config.Config, name string) (backend, error) {
	switch name {
	case "json":
		svc, err := jsonstore.Open(cfg.JSONPath, jsonstore.WithVerbose(cfg.Verbose))
		if err != nil {
			return nil, err
		}
		return jsonBackend{svc}, nil
	case "word":
		svc, err := wordstore.Open(cfg.WordPath, wordstore.WithVerbose(cfg.Verbose))
		if err != nil {
			return nil, err
		}
		return wordBackend{svc}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want json or word)", name)
	}
}

func runUsers(cfg *config.Config, backendName, cmd string, args []string, stdout io.Writer) error {
	b, err := openBackend(cfg, backendName)
	if err != nil {
		return err
	}

	switch cmd {
	case "list":
		return writeJSON(stdout, mcptools.Records(b.GetAllUsers()))

	case "get":
		if len(args) != 1 {
			return fmt.Errorf("usage: userstore get <id|index>")
		}
		u, ok, err := b.get(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %s not found", args[0])
		}
		return writeJSON(stdout, mcptools.Record(u))

	case "add":
		u, err := parseAddArgs(args)
		if err != nil {
			return err
		}
		if err := b.AddUser(u); err != nil {
			return err
		}
		return writeJSON(stdout, mcptools.Record(u))

	case "remove":
		if len(args) != 1 {
			return fmt.Errorf("usage: userstore remove <id|index>")
		}
		return b.remove(args[0])
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func parseAddArgs(args []string) (user.User, error) {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	id := fs.String("id", "", "user id (default: random UUID)")
	if err := fs.Parse(args); err != nil {
		return user.User{}, err
	}
	if fs.NArg() != 2 {
		return user.User{}, fmt.Errorf("usage: userstore add [--id ID] <name> <age>")
	}

	age, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return user.User{}, fmt.Errorf("age must be an integer, got %q", fs.Arg(1))
	}
	if *id == "" {
		*id = uuid.NewString()
	}
	return user.New(*id, fs.Arg(0), age), nil
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = w.Write(append(out, '\n'))
	return err
}
