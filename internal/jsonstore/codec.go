package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dusk-indust/userstore/internal/user"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// entry is the on-disk shape of one record.
type entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// decodeUsers parses a top-level JSON object of user objects, returning the
// users in document order. The nested "id" is authoritative; the outer key
// only has to be a key.
func decodeUsers(data []byte) ([]user.User, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty document")
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("top-level value must be an object, got %s", root.Type)
	}

	var (
		users   []user.User
		seen    = make(map[string]string) // nested id -> outer key
		loadErr error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		u, err := decodeEntry(value)
		if err != nil {
			loadErr = fmt.Errorf("entry %q: %w", key.String(), err)
			return false
		}
		if prev, dup := seen[u.ID()]; dup {
			loadErr = fmt.Errorf("entries %q and %q share id %q", prev, key.String(), u.ID())
			return false
		}
		if key.String() != u.ID() {
			log.Printf("jsonstore: outer key %q differs from id %q, keying by id", key.String(), u.ID())
		}
		seen[u.ID()] = key.String()
		users = append(users, u)
		return true
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return users, nil
}

// decodeEntry checks the type shape of one record object.
func decodeEntry(value gjson.Result) (user.User, error) {
	if !value.IsObject() {
		return user.User{}, fmt.Errorf("value must be an object, got %s", value.Type)
	}

	id := value.Get("id")
	if id.Type != gjson.String {
		return user.User{}, errors.New(`"id" must be a string`)
	}
	name := value.Get("name")
	if name.Type != gjson.String {
		return user.User{}, errors.New(`"name" must be a string`)
	}
	age := value.Get("age")
	if age.Type != gjson.Number {
		return user.User{}, errors.New(`"age" must be a number`)
	}
	n, err := strconv.Atoi(age.Raw)
	if err != nil {
		return user.User{}, fmt.Errorf(`"age" must be an integer, got %s`, age.Raw)
	}

	return user.New(id.String(), name.String(), n), nil
}

// encodeUsers renders users as an indented JSON object keyed by id, in the
// order given.
func encodeUsers(users []user.User) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, u := range users {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(u.ID())
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(entry{ID: u.ID(), Name: u.Name(), Age: u.Age()})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return pretty.Pretty(buf.Bytes()), nil
}

// storedForm returns s as it reads back from an encoded document.
// encoding/json writes every byte that is not valid UTF-8 as U+FFFD.
func storedForm(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
		} else {
			sb.WriteString(s[i : i+size])
		}
		i += size
	}
	return sb.String()
}

func storedUser(u user.User) user.User {
	return user.New(storedForm(u.ID()), storedForm(u.Name()), u.Age())
}
