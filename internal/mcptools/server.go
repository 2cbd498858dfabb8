package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewUserMCPServer creates an MCP server with the 8 user tools registered,
// four per backend.
func NewUserMCPServer(svc *UserToolService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "userstore",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "json_add_user",
		Description: "Add a user to the JSON document. Fails if a user with the same id already exists.",
	}, svc.JSONAddUser)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "json_get_user",
		Description: "Look up a user in the JSON document by id. Returns found=false when there is no such user.",
	}, svc.JSONGetUser)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "json_remove_user",
		Description: "Remove a user from the JSON document by id. Removing an unknown id does nothing.",
	}, svc.JSONRemoveUser)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "json_list_users",
		Description: "List every user in the JSON document in insertion order.",
	}, svc.JSONListUsers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "word_add_user",
		Description: "Append a user paragraph to the Word document. Duplicate ids are allowed.",
	}, svc.WordAddUser)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "word_get_user",
		Description: "Read the user at a zero-based position in the Word document. Returns found=false for an out-of-range index.",
	}, svc.WordGetUser)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "word_remove_user",
		Description: "Remove the user at a zero-based position in the Word document. Later users shift down. Fails for an out-of-range index.",
	}, svc.WordRemoveUser)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "word_list_users",
		Description: "List every user in the Word document in order.",
	}, svc.WordListUsers)

	return server
}

// RunMCPServerStdio runs the server on stdio transport, blocking until stdin
// is closed or the context is cancelled.
func RunMCPServerStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunMCPServerHTTP serves the MCP tools over streamable HTTP at addr.
func RunMCPServerHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
