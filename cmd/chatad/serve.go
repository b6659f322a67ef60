package main

import (
	"fmt"

	"github.com/fwojciec/chatad/mcp"
)

// Run executes the serve command. Stdout belongs to the stdio transport,
// so nothing else is written there.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := mcp.NewServer(deps.Catalog, deps.Fetcher)

	var err error
	if c.Addr != "" {
		fmt.Fprintf(deps.Stderr, "Serving MCP on http://%s\n", c.Addr)
		err = srv.RunHTTP(deps.Ctx, c.Addr)
	} else {
		deps.Logger.Info("serving MCP over stdio")
		err = srv.Run(deps.Ctx)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	return nil
}
