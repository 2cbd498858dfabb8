// Package jsonstore keeps a collection of users in memory, keyed by
// identifier, and mirrors it to a JSON document on every mutation.
package jsonstore

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"slices"

	"github.com/dusk-indust/userstore/internal/store"
	"github.com/dusk-indust/userstore/internal/user"
)

// Service is the JSON-backed user service. Lookups by id are O(1); listing
// follows insertion order. A Service assumes it is the only writer of its
// backing file and is not safe for concurrent use.
type Service struct {
	path    string // empty means memory-only
	verbose bool
	users   map[string]user.User
	order   []string // insertion-order ids
}

// Option configures a Service.
type Option func(*Service)

// WithPath binds the service to a backing file. Used with Parse so an
// inline document is persisted on mutation.
func WithPath(path string) Option {
	return func(s *Service) { s.path = path }
}

// WithVerbose logs every successful mutation.
func WithVerbose(v bool) Option {
	return func(s *Service) { s.verbose = v }
}

// Open loads the JSON document at path. A missing file yields an empty
// collection; the file is created by the first mutation.
func Open(path string, opts ...Option) (*Service, error) {
	var users []user.User
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, &store.LoadError{Path: path, Err: err}
	default:
		if users, err = decodeUsers(data); err != nil {
			return nil, &store.LoadError{Path: path, Err: err}
		}
	}

	s := newService(users, opts)
	s.path = path
	return s, nil
}

// Parse builds a service from inline JSON text. Without WithPath the
// service never touches disk.
func Parse(text string, opts ...Option) (*Service, error) {
	users, err := decodeUsers([]byte(text))
	if err != nil {
		return nil, &store.LoadError{Err: err}
	}
	return newService(users, opts), nil
}

func newService(users []user.User, opts []Option) *Service {
	s := &Service{
		users: make(map[string]user.User, len(users)),
		order: make([]string, 0, len(users)),
	}
	for _, u := range users {
		s.users[u.ID()] = u
		s.order = append(s.order, u.ID())
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file, or "" for a memory-only service.
func (s *Service) Path() string { return s.path }

// Len returns the number of users held.
func (s *Service) Len() int { return len(s.order) }

// AddUser inserts u and rewrites the backing document. It returns a
// *store.DuplicateIDError if a user with the same id is already present.
// Invalid UTF-8 in the id or name is held as U+FFFD, the form it has on
// disk.
func (s *Service) AddUser(u user.User) error {
	u = storedUser(u)
	if _, exists := s.users[u.ID()]; exists {
		return &store.DuplicateIDError{ID: u.ID()}
	}

	order := append(slices.Clip(s.order), u.ID())
	if err := s.persist(order, map[string]user.User{u.ID(): u}); err != nil {
		return err
	}

	s.users[u.ID()] = u
	s.order = order
	if s.verbose {
		log.Printf("jsonstore: added id=%s total=%d", u.ID(), len(s.order))
	}
	return nil
}

// GetUser returns the user with the given id. The boolean is false when no
// such user exists.
func (s *Service) GetUser(id string) (user.User, bool) {
	u, ok := s.users[storedForm(id)]
	return u, ok
}

// RemoveUser deletes the user with the given id and rewrites the backing
// document. Removing an absent id is a no-op.
func (s *Service) RemoveUser(id string) error {
	id = storedForm(id)
	i := slices.Index(s.order, id)
	if i < 0 {
		return nil
	}

	order := slices.Delete(slices.Clone(s.order), i, i+1)
	if err := s.persist(order, nil); err != nil {
		return err
	}

	delete(s.users, id)
	s.order = order
	if s.verbose {
		log.Printf("jsonstore: removed id=%s total=%d", id, len(s.order))
	}
	return nil
}

// GetAllUsers returns every user in insertion order. The slice is a fresh
// copy on every call.
func (s *Service) GetAllUsers() []user.User {
	out := make([]user.User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.users[id])
	}
	return out
}

// persist writes the candidate collection described by order. Ids missing
// from s.users are resolved from pending.
func (s *Service) persist(order []string, pending map[string]user.User) error {
	if s.path == "" {
		return nil
	}

	users := make([]user.User, 0, len(order))
	for _, id := range order {
		if u, ok := pending[id]; ok {
			users = append(users, u)
			continue
		}
		users = append(users, s.users[id])
	}

	data, err := encodeUsers(users)
	if err != nil {
		return &store.PersistenceError{Path: s.path, Err: err}
	}
	err = store.WriteFileAtomic(s.path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return &store.PersistenceError{Path: s.path, Err: err}
	}
	return nil
}
