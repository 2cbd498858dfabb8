// Package wordstore keeps an ordered list of users backed by a .docx file,
// one paragraph per user. Users are addressed by position only.
package wordstore

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/dusk-indust/userstore/internal/docx"
	"github.com/dusk-indust/userstore/internal/store"
	"github.com/dusk-indust/userstore/internal/user"
)

// Service is the Word-backed user service. It assumes it is the only writer
// of its backing file and is not safe for concurrent use.
type Service struct {
	path    string
	verbose bool
	doc     *docx.Document
	users   []user.User
	paras   []int // paragraph index of each user, parallel to users
}

// Option configures a Service.
type Option func(*Service)

// WithVerbose logs every successful mutation.
func WithVerbose(v bool) Option {
	return func(s *Service) { s.verbose = v }
}

// Open loads the document at path, or starts a new empty document if the
// path does not exist yet. The new document is written on first mutation.
func Open(path string, opts ...Option) (*Service, error) {
	doc, err := docx.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		doc = docx.New()
	case err != nil:
		return nil, &store.LoadError{Path: path, Err: err}
	}

	s := &Service{path: path, doc: doc}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.index(); err != nil {
		return nil, &store.LoadError{Path: path, Err: err}
	}
	return s, nil
}

// index rebuilds users and paras from the document's paragraphs.
func (s *Service) index() error {
	s.users, s.paras = nil, nil
	for i, text := range s.doc.Paragraphs() {
		if !isRecord(text) {
			continue
		}
		u, err := parseRecord(text)
		if err != nil {
			return fmt.Errorf("paragraph %d: %w", i, err)
		}
		s.users = append(s.users, u)
		s.paras = append(s.paras, i)
	}
	return nil
}

// Path returns the backing file.
func (s *Service) Path() string { return s.path }

// Len returns the number of users held.
func (s *Service) Len() int { return len(s.users) }

// AddUser appends u as a new paragraph and saves the document. Duplicate
// ids are allowed.
func (s *Service) AddUser(u user.User) error {
	next := s.doc.Clone()
	next.AppendParagraph(formatRecord(u))
	if err := s.save(next); err != nil {
		return err
	}

	s.doc = next
	if err := s.index(); err != nil {
		return err
	}
	if s.verbose {
		log.Printf("wordstore: added id=%s index=%d", u.ID(), len(s.users)-1)
	}
	return nil
}

// GetUser returns the user at the zero-based index. The boolean is false
// for any index outside [0, Len).
func (s *Service) GetUser(index int) (user.User, bool) {
	if index < 0 || index >= len(s.users) {
		return user.User{}, false
	}
	return s.users[index], true
}

// RemoveUser deletes the user at index and saves the document. Later users
// shift down by one. It returns a *store.IndexOutOfRangeError for any index
// outside [0, Len).
func (s *Service) RemoveUser(index int) error {
	if index < 0 || index >= len(s.users) {
		return &store.IndexOutOfRangeError{Index: index, Len: len(s.users)}
	}

	next := s.doc.Clone()
	if err := next.RemoveParagraph(s.paras[index]); err != nil {
		return err
	}
	if err := s.save(next); err != nil {
		return err
	}

	removed := s.users[index]
	s.doc = next
	if err := s.index(); err != nil {
		return err
	}
	if s.verbose {
		log.Printf("wordstore: removed id=%s index=%d", removed.ID(), index)
	}
	return nil
}

// GetAllUsers returns every user in insertion order as a fresh slice.
func (s *Service) GetAllUsers() []user.User {
	out := make([]user.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *Service) save(doc *docx.Document) error {
	if err := doc.Save(s.path); err != nil {
		return &store.PersistenceError{Path: s.path, Err: err}
	}
	return nil
}
