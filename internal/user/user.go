// Package user defines the record shared by every storage backend.
package user

import "fmt"

// User is an immutable user record. Fields are fixed at construction and
// exposed through read accessors only.
type User struct {
	id   string
	name string
	age  int
}

// New returns a User with the given fields. No validation is performed.
func New(id, name string, age int) User {
	return User{id: id, name: name, age: age}
}

// ID returns the user's identifier.
func (u User) ID() string { return u.id }

// Name returns the user's display name.
func (u User) Name() string { return u.name }

// Age returns the user's age in years.
func (u User) Age() int { return u.age }

// Equal reports whether u and other carry the same id, name and age.
func (u User) Equal(other User) bool {
	return u == other
}

// String renders all three fields in a fixed order, e.g.
// "User{id=1, name=John, age=30}".
func (u User) String() string {
	return fmt.Sprintf("User{id=%s, name=%s, age=%d}", u.id, u.name, u.age)
}
