// Package cli is the passvault command-line client. Each subcommand is one
// call against the REST API; the access token is passed explicitly with
// --token or PASSVAULT_TOKEN, so the CLI keeps no state between runs.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passvault/internal/buildinfo"
	"github.com/dmitrijs2005/passvault/internal/client/api"
	"github.com/dmitrijs2005/passvault/internal/client/config"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/spf13/cobra"
)

// VaultClient is the subset of api.Client the commands call.
type VaultClient interface {
	SetToken(token string)
	Register(ctx context.Context, username, password string, requireSecondaryAuth bool) (*api.Account, error)
	Login(ctx context.Context, username, password string, confirmed bool) (*api.LoginResult, error)
	List(ctx context.Context) ([]api.Secret, error)
	Create(ctx context.Context, in api.NewSecret) (*api.Secret, error)
	Delete(ctx context.Context, id string) error
	Generate(ctx context.Context, opts api.GenerateOptions) (string, error)
}

var errNotLoggedIn = fmt.Errorf("%w: pass --token or set %s (see 'passvault login')", common.ErrorUnauthorized, common.TokenEnvName)

// App carries state shared by all subcommands of one invocation.
type App struct {
	getenv func(string) string

	configPath string
	server     string
	token      string
	timeout    time.Duration

	cfg    *config.Config
	client VaultClient
	reader *bufio.Reader
}

// NewRootCommand builds the passvault command tree. getenv is usually
// os.Getenv.
func NewRootCommand(getenv func(string) string) *cobra.Command {
	a := &App{getenv: getenv}

	root := &cobra.Command{
		Use:           "passvault",
		Short:         "Personal credential vault client",
		Long:          `passvault stores and retrieves login credentials kept on a passvault server.`,
		Version:       buildinfo.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to JSON config file")
	root.PersistentFlags().StringVar(&a.server, "server", "", "server base URL (default http://127.0.0.1:8080)")
	root.PersistentFlags().StringVar(&a.token, "token", "", "access token (default $"+common.TokenEnvName+")")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "request timeout (default 10s)")

	root.AddCommand(
		NewRegisterCommand(a),
		NewLoginCommand(a),
		NewListCommand(a),
		NewAddCommand(a),
		NewDeleteCommand(a),
		NewGenerateCommand(a),
		NewVersionCommand(),
	)

	return root
}

// setup resolves configuration and builds the API client. Flags given on
// the command line win over the config file and the environment.
func (a *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, a.getenv)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerURL = a.server
	}
	if flags.Changed("token") {
		cfg.Token = a.token
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = a.timeout
	}

	c, err := api.NewClient(cfg.ServerURL, nil, cfg.RequestTimeout)
	if err != nil {
		return err
	}
	c.SetToken(cfg.Token)

	a.cfg = cfg
	a.client = c
	a.reader = bufio.NewReader(cmd.InOrStdin())
	return nil
}

// vault returns the client for commands that need an access token.
func (a *App) vault() (VaultClient, error) {
	if a.cfg == nil || a.client == nil {
		return nil, errors.New("client is not initialized")
	}
	if a.cfg.Token == "" {
		return nil, errNotLoggedIn
	}
	return a.client, nil
}
