package mcptools

import (
	"context"
	"sync"

	"github.com/dusk-indust/userstore/internal/jsonstore"
	"github.com/dusk-indust/userstore/internal/user"
	"github.com/dusk-indust/userstore/internal/wordstore"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// UserToolService exposes the two user services as MCP tool handlers.
// The services themselves are single-owner, so every call is serialized.
type UserToolService struct {
	mu   sync.Mutex
	json *jsonstore.Service
	word *wordstore.Service
}

// NewUserToolService wraps the given backends.
func NewUserToolService(js *jsonstore.Service, ws *wordstore.Service) *UserToolService {
	return &UserToolService{json: js, word: ws}
}

// JSONAddUser adds a user to the JSON backend.
func (s *UserToolService) JSONAddUser(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input AddUserInput,
) (*mcp.CallToolResult, AddUserOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.json.AddUser(user.New(input.ID, input.Name, input.Age)); err != nil {
		return nil, AddUserOutput{}, err
	}
	return nil, AddUserOutput{Total: s.json.Len()}, nil
}

// JSONGetUser looks a user up by id.
func (s *UserToolService) JSONGetUser(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input GetJSONUserInput,
) (*mcp.CallToolResult, GetUserOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.json.GetUser(input.ID)
	if !ok {
		return nil, GetUserOutput{}, nil
	}
	rec := Record(u)
	return nil, GetUserOutput{Found: true, User: &rec}, nil
}

// JSONRemoveUser removes a user by id.
func (s *UserToolService) JSONRemoveUser(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input RemoveJSONUserInput,
) (*mcp.CallToolResult, RemoveUserOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.json.RemoveUser(input.ID); err != nil {
		return nil, RemoveUserOutput{}, err
	}
	return nil, RemoveUserOutput{Total: s.json.Len()}, nil
}

// JSONListUsers lists the JSON backend in insertion order.
func (s *UserToolService) JSONListUsers(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListUsersInput,
) (*mcp.CallToolResult, ListUsersOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.json.GetAllUsers()
	return nil, ListUsersOutput{Users: Records(users), Total: len(users)}, nil
}

// WordAddUser appends a user to the Word backend.
func (s *UserToolService) WordAddUser(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input AddUserInput,
) (*mcp.CallToolResult, AddUserOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.word.AddUser(user.New(input.ID, input.Name, input.Age)); err != nil {
		return nil, AddUserOutput{}, err
	}
	return nil, AddUserOutput{Total: s.word.Len()}, nil
}

// WordGetUser looks a user up by position.
func (s *UserToolService) WordGetUser(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input WordIndexInput,
) (*mcp.CallToolResult, GetUserOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.word.GetUser(input.Index)
	if !ok {
		return nil, GetUserOutput{}, nil
	}
	rec := Record(u)
	return nil, GetUserOutput{Found: true, User: &rec}, nil
}

// WordRemoveUser removes a user by position.
func (s *UserToolService) WordRemoveUser(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input WordIndexInput,
) (*mcp.CallToolResult, RemoveUserOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.word.RemoveUser(input.Index); err != nil {
		return nil, RemoveUserOutput{}, err
	}
	return nil, RemoveUserOutput{Total: s.word.Len()}, nil
}

// WordListUsers lists the Word backend in document order.
func (s *UserToolService) WordListUsers(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListUsersInput,
) (*mcp.CallToolResult, ListUsersOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.word.GetAllUsers()
	return nil, ListUsersOutput{Users: Records(users), Total: len(users)}, nil
}
