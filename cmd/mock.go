package main

import (
	"context"
	"net"
	"strconv"

	"github.com/desertthunder/myflix/internal/server"
	"github.com/urfave/cli/v3"
)

// MockAPI serves the in-memory myFlix API until interrupted.
func (r *Runner) MockAPI(ctx context.Context, cmd *cli.Command) error {
	api, err := server.NewMockAPI(r.logger)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(cmd.String("host"), strconv.Itoa(int(cmd.Int("port"))))
	r.writePlain("Demo account: %s / %s\n", server.DemoUsername, server.DemoPassword)
	return server.Serve(ctx, addr, server.NewMockRouter(api, r.logger), r.logger, nil)
}
