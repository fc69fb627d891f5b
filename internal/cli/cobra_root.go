package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"todomaster/internal/api"
	"todomaster/internal/config"
	"todomaster/internal/logging"
	"todomaster/internal/tui"
	"todomaster/internal/web"
)

// RuntimeFactory builds the process runtime from the loaded configuration
type RuntimeFactory func(cfg *config.Config, logger *log.Logger) (*api.Runtime, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	factory RuntimeFactory
	in      io.Reader
	out     io.Writer

	config  *config.Config
	logger  *log.Logger
	runtime *api.Runtime
	app     *App
}

// NewRootCommand creates the root cobra command with global flags. A nil
// factory uses api.New.
func NewRootCommand(factory RuntimeFactory) *RootCommand {
	if factory == nil {
		factory = api.New
	}
	root := &RootCommand{
		factory: factory,
		in:      os.Stdin,
		out:     os.Stdout,
	}

	root.cmd = &cobra.Command{
		Use:   "todo",
		Short: "Browse and manage todos from the terminal or the browser",
		Long: `TodoMaster (todo) lists, searches and edits todos kept by a remote JSON resource.

FEATURES:
  • Paginated list with case-insensitive search and status filter
  • Add, edit, toggle and delete todos (deletes ask first)
  • Instant start from a locally stored snapshot of the last list
  • Interactive terminal browser and a small web UI
  • Local accounts with password or social sign-in

EXAMPLES:
  todo signup                              # Create an account
  todo list                                # First page of todos
  todo list -s milk --status incomplete    # Search open todos
  todo add Buy milk                        # Add a todo
  todo edit 3 --completed                  # Mark todo 3 complete
  todo delete 3                            # Delete todo 3 after confirming
  todo browse                              # Interactive browser
  todo serve --addr :8080                  # Web UI

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > config file > defaults
  The config file is ~/.todo/config.toml, or the path in TODO_CONFIG or --config.

  Store Configuration:
    TODO_STORE_DIR                         Local data directory (default: ~/.todo)
    TODO_STORE_FILENAME                    Database filename (default: todo.db)

  Remote Configuration:
    TODO_REMOTE_BASE_URL                   Todo resource root (default: https://jsonplaceholder.typicode.com)
    TODO_REMOTE_TIMEOUT                    Request timeout (default: 15s)

  Cache Configuration:
    TODO_CACHE_STALE_TIME                  List freshness window (default: 5m)
    TODO_CACHE_SNAPSHOT_MAX_AGE            Ignore older snapshots, 0 keeps them (default: 0)

  Application Configuration:
    TODO_APP_TIMEOUT                       Command timeout (default: 60s)
    TODO_APP_VERBOSE                       Enable debug logging (default: false)
    TODO_LOG_LEVEL                         Log level (default: warn)

GETTING HELP:
  todo [command] --help                    # Get help for any specific command
  todo completion bash                     # Generate bash completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsRuntime(cmd) {
				return nil
			}
			return root.setup(cmd)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// SetIO replaces the terminal streams
func (r *RootCommand) SetIO(in io.Reader, out io.Writer) {
	r.in = in
	r.out = out
	r.cmd.SetIn(in)
	r.cmd.SetOut(out)
}

// SetArgs overrides the command line arguments
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// Command returns the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command and releases the runtime afterwards
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	defer r.close()
	return r.cmd.ExecuteContext(ctx)
}

func (r *RootCommand) close() {
	if r.runtime == nil {
		return
	}
	if err := r.runtime.Close(); err != nil {
		r.logger.Warn("close runtime failed", "err", err)
	}
	r.runtime = nil
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file (overrides TODO_CONFIG)")

	// Store configuration
	flags.String("store-dir", "", "Local data directory (overrides TODO_STORE_DIR)")
	flags.String("store-filename", "", "Database filename (overrides TODO_STORE_FILENAME)")

	// Remote configuration
	flags.String("remote-url", "", "Todo resource root (overrides TODO_REMOTE_BASE_URL)")
	flags.Duration("remote-timeout", 0, "Request timeout (overrides TODO_REMOTE_TIMEOUT)")

	// Cache configuration
	flags.Duration("stale-time", 0, "List freshness window (overrides TODO_CACHE_STALE_TIME)")
	flags.Duration("snapshot-max-age", 0, "Ignore older snapshots (overrides TODO_CACHE_SNAPSHOT_MAX_AGE)")

	// Validation configuration
	flags.Int("title-max-length", 0, "Maximum title length (overrides TODO_VALIDATION_TITLE_MAX)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Command timeout (overrides TODO_APP_TIMEOUT)")
	flags.BoolP("verbose", "v", false, "Enable debug logging (overrides TODO_APP_VERBOSE)")
	flags.String("log-level", "", "Log level: debug, info, warn, error (overrides TODO_LOG_LEVEL)")
}

// overridesFromFlags collects the flags the user actually set
func (r *RootCommand) overridesFromFlags(cmd *cobra.Command) *config.ConfigOverrides {
	flags := cmd.Flags()
	overrides := &config.ConfigOverrides{}

	if flags.Changed("store-dir") {
		v, _ := flags.GetString("store-dir")
		overrides.StoreDir = &v
	}
	if flags.Changed("store-filename") {
		v, _ := flags.GetString("store-filename")
		overrides.StoreFilename = &v
	}
	if flags.Changed("remote-url") {
		v, _ := flags.GetString("remote-url")
		overrides.RemoteBaseURL = &v
	}
	if flags.Changed("remote-timeout") {
		v, _ := flags.GetDuration("remote-timeout")
		overrides.RemoteTimeout = &v
	}
	if flags.Changed("stale-time") {
		v, _ := flags.GetDuration("stale-time")
		overrides.StaleTime = &v
	}
	if flags.Changed("snapshot-max-age") {
		v, _ := flags.GetDuration("snapshot-max-age")
		overrides.SnapshotMaxAge = &v
	}
	if flags.Changed("title-max-length") {
		v, _ := flags.GetInt("title-max-length")
		overrides.TitleMaxLength = &v
	}
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		overrides.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		overrides.Verbose = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		overrides.LogLevel = &v
	}
	if cmd.Name() == "serve" && flags.Changed("addr") {
		v, _ := flags.GetString("addr")
		overrides.ServerAddr = &v
	}
	return overrides
}

// needsRuntime is false for cobra's own help and completion commands
func needsRuntime(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// setup loads the configuration and builds the runtime for the command about to run
func (r *RootCommand) setup(cmd *cobra.Command) error {
	loader := config.NewLoader()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loader = loader.WithConfigFile(path)
	}
	cfg, err := loader.LoadWithOverrides(r.overridesFromFlags(cmd))
	if err != nil {
		return err
	}
	r.config = cfg
	r.logger = logging.NewFromConfig(cfg.Application.LogLevel, cfg.Application.Verbose)

	runtime, err := r.factory(cfg, r.logger)
	if err != nil {
		return err
	}
	r.runtime = runtime
	r.app = NewAppWithConfig(runtime.API, cfg).WithIO(r.in, r.out).WithLogger(r.logger)
	return nil
}

// run executes command behind the access gate with the configured timeout.
// Interactive commands get twice as long.
func (r *RootCommand) run(cmd *cobra.Command, access Access, command Command, args []string, interactive bool) error {
	timeout := r.getAppTimeout()
	if interactive {
		timeout *= 2
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	return r.app.registry.Run(ctx, access, command, args)
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	// List command
	var listOpts ListOptions
	listCmd := &cobra.Command{
		Use:   "list [search text]",
		Short: "List todos",
		Long: `List one page of todos, optionally filtered.

Search matches titles case-insensitively. Status is one of all, complete, incomplete.

Examples:
  todo list                        # First page of everything
  todo list milk                   # Titles containing "milk"
  todo list --status complete -p 2 # Second page of completed todos
  todo list --retry                # Reload after a failed fetch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, Protected, NewListCommand(r.app, listOpts), args, false)
		},
	}
	listCmd.Flags().StringVarP(&listOpts.Search, "search", "s", "", "Search text")
	listCmd.Flags().StringVar(&listOpts.Status, "status", "all", "Status filter: all, complete, incomplete")
	listCmd.Flags().IntVarP(&listOpts.Page, "page", "p", 1, "Page number")
	listCmd.Flags().BoolVar(&listOpts.Retry, "retry", false, "Invalidate the list and fetch again")

	// Show command
	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, Protected, NewShowCommand(r.app), args, false)
		},
	}

	// Add command
	addCmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a todo",
		Long:  "Add an incomplete todo. All arguments are joined into the title.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, Protected, NewAddCommand(r.app), args, false)
		},
	}

	// Edit command
	editCmd := &cobra.Command{
		Use:   "edit <id> [new title...]",
		Short: "Edit a todo",
		Long: `Change the title or completion of a todo. Fields not given keep their value.

Examples:
  todo edit 3 Buy oat milk         # New title
  todo edit 3 --completed          # Mark complete
  todo edit 3 --completed=false    # Mark incomplete`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts EditOptions
			if cmd.Flags().Changed("title") {
				title, _ := cmd.Flags().GetString("title")
				opts.Title = &title
			}
			if cmd.Flags().Changed("completed") {
				completed, _ := cmd.Flags().GetBool("completed")
				opts.Completed = &completed
			}
			return r.run(cmd, Protected, NewEditCommand(r.app, opts), args, false)
		},
	}
	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().Bool("completed", false, "Completion state")

	// Delete command
	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a todo",
		Long:  "Delete a todo. You will be asked to confirm; anything but y or yes cancels.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, Protected, NewDeleteCommand(r.app), args, true)
		},
	}

	// Refresh command
	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Drop the stored snapshot and reload from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, Protected, NewRefreshCommand(r.app), args, false)
		},
	}

	// Session commands
	var signupOpts CredentialOptions
	signupCmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, GuestOnly, NewSignupCommand(r.app, signupOpts), args, true)
		},
	}
	signupCmd.Flags().StringVar(&signupOpts.Name, "name", "", "Display name")
	signupCmd.Flags().StringVar(&signupOpts.Email, "email", "", "Email address")
	signupCmd.Flags().StringVar(&signupOpts.Password, "password", "", "Password")

	var loginOpts CredentialOptions
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a password or a social provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, GuestOnly, NewLoginCommand(r.app, loginOpts), args, true)
		},
	}
	loginCmd.Flags().StringVar(&loginOpts.Email, "email", "", "Email address")
	loginCmd.Flags().StringVar(&loginOpts.Password, "password", "", "Password")
	loginCmd.Flags().StringVar(&loginOpts.Provider, "provider", "", "Social provider, e.g. google")

	var logoutOpts LogoutOptions
	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, Public, NewLogoutCommand(r.app, logoutOpts), args, false)
		},
	}
	logoutCmd.Flags().BoolVar(&logoutOpts.All, "all", false, "Revoke every session of this account")

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, Protected, NewWhoamiCommand(r.app), args, false)
		},
	}

	// Browse command
	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse todos interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			browse := CommandFunc(func(context.Context, []string) error {
				return tui.Run(cmd.Context(), r.app.businessAPI, tui.Options{In: r.in, Out: r.out, AltScreen: true})
			})
			// Only the gate check is bounded by the timeout
			ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
			defer cancel()
			return r.app.registry.Run(ctx, Protected, browse, args)
		},
	}

	// Serve command
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if purged, err := r.runtime.Services.AuthService.PurgeExpiredSessions(ctx); err != nil {
				r.logger.Warn("purge expired sessions failed", "err", err)
			} else if purged > 0 {
				r.logger.Info("purged expired sessions", "count", purged)
			}

			server, err := web.NewServer(r.runtime.Services, r.config, r.logger)
			if err != nil {
				return err
			}
			r.app.printf("Serving on http://%s\n", r.config.Server.Addr)
			return server.ListenAndServe(ctx, r.config.Server.Addr)
		},
	}
	serveCmd.Flags().String("addr", "", "Listen address (overrides TODO_SERVER_ADDR)")

	// Add all subcommands to root
	r.cmd.AddCommand(
		listCmd,
		showCmd,
		addCmd,
		editCmd,
		deleteCmd,
		refreshCmd,
		signupCmd,
		loginCmd,
		logoutCmd,
		whoamiCmd,
		browseCmd,
		serveCmd,
	)
}
