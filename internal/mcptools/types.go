package mcptools

import "github.com/dusk-indust/userstore/internal/user"

// --- MCP Tool Input/Output Types ---
// The MCP Go SDK derives each tool's JSON schema from these struct tags.

// UserRecord is the wire form of a user.
type UserRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// Record converts a user to its wire form.
func Record(u user.User) UserRecord {
	return UserRecord{ID: u.ID(), Name: u.Name(), Age: u.Age()}
}

// Records converts users to their wire form. The result is never nil.
func Records(users []user.User) []UserRecord {
	out := make([]UserRecord, 0, len(users))
	for _, u := range users {
		out = append(out, Record(u))
	}
	return out
}

// AddUserInput is the input for json_add_user and word_add_user.
type AddUserInput struct {
	ID   string `json:"id" jsonschema:"user identifier; must be unique in the JSON backend"`
	Name string `json:"name" jsonschema:"display name"`
	Age  int    `json:"age" jsonschema:"age in years"`
}

// AddUserOutput is the result of an add tool.
type AddUserOutput struct {
	Total int `json:"total"`
}

// GetJSONUserInput is the input for json_get_user.
type GetJSONUserInput struct {
	ID string `json:"id" jsonschema:"user identifier"`
}

// WordIndexInput is the input for word_get_user and word_remove_user.
type WordIndexInput struct {
	Index int `json:"index" jsonschema:"zero-based position in insertion order"`
}

// GetUserOutput is the result of a get tool. Found is false when the id or
// index does not match a user.
type GetUserOutput struct {
	Found bool        `json:"found"`
	User  *UserRecord `json:"user,omitempty"`
}

// RemoveJSONUserInput is the input for json_remove_user.
type RemoveJSONUserInput struct {
	ID string `json:"id" jsonschema:"user identifier; removing an unknown id is a no-op"`
}

// RemoveUserOutput is the result of a remove tool.
type RemoveUserOutput struct {
	Total int `json:"total"`
}

// ListUsersInput is the input for the list tools.
type ListUsersInput struct{}

// ListUsersOutput is the result of the list tools.
type ListUsersOutput struct {
	Users []UserRecord `json:"users"`
	Total int          `json:"total"`
}
