package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/printmate/printmate/internal/client"
	"github.com/printmate/printmate/internal/model"
	"github.com/spf13/cobra"
)

// Options are the connection flags shared by every kiosk command.
type Options struct {
	Server     string
	Identifier string
	Password   string
	Timeout    time.Duration
}

// BindFlags registers the persistent connection flags, defaulting to PRINTMATE_* env vars.
func BindFlags(root *cobra.Command) *Options {
	opts := &Options{}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.Server, "server", envOr("PRINTMATE_SERVER", "http://localhost:8090"), "API base URL")
	flags.StringVar(&opts.Identifier, "identifier", os.Getenv("PRINTMATE_IDENTIFIER"), "email or phone number")
	flags.StringVar(&opts.Password, "password", os.Getenv("PRINTMATE_PASSWORD"), "account password")
	flags.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "per-request timeout")
	return opts
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func connect(ctx context.Context, opts *Options) (*client.Client, *model.Identity, error) {
	if opts.Identifier == "" || opts.Password == "" {
		return nil, nil, errors.New("--identifier and --password (or PRINTMATE_IDENTIFIER and PRINTMATE_PASSWORD) are required")
	}

	api, err := client.New(opts.Server, opts.Timeout)
	if err != nil {
		return nil, nil, err
	}

	identity, err := api.Login(ctx, opts.Identifier, opts.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("login failed: %s", describe(err))
	}
	return api, identity, nil
}

// describe turns client errors into messages fit for the kiosk screen.
func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, client.ErrNetwork):
		return "Network error. Check the connection and try again."
	case errors.Is(err, client.ErrNotJSON), errors.Is(err, client.ErrProtocol):
		return "Unexpected response from the server."
	case errors.Is(err, context.DeadlineExceeded):
		return "The server took too long to answer."
	}
	return err.Error()
}
