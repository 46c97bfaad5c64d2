// menuctl serves the digital menu API and runs translation batches from the
// command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"digital-menu-api/config"
	"digital-menu-api/logger"
	"digital-menu-api/models"
	"digital-menu-api/routes"
	"digital-menu-api/translation"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "menuctl",
		Short: "Digital menu API server and translation tooling",
		Long: `menuctl runs the multi-tenant digital menu API.

Commands:
  serve       Start the HTTP API
  migrate     Create or update the database schema
  translate   Translate the content of one menu into target languages
  version     Show version information

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newTranslateCmd(),
		newVersionCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logger.Init(cfg.Server.Env, cfg.Log.Level), nil
}

// ---------------------------------------------------------------------------
// serve
// ---------------------------------------------------------------------------

func newServeCmd() *cobra.Command {
	var shutdownTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.IsProduction() {
				gin.SetMode(gin.ReleaseMode)
			}
			a, err := newApp(cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			srv := &http.Server{
				Addr:              ":" + cfg.Server.Port,
				Handler:           routes.NewRouter(a.handler, log, cfg.Server.CORSOrigins),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Server.Env))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serve: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Time allowed for in-flight requests on shutdown")
	return cmd
}

// ---------------------------------------------------------------------------
// migrate
// ---------------------------------------------------------------------------

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			db, err := config.OpenDB(cfg.Database)
			if err != nil {
				return err
			}
			if err := config.Migrate(db); err != nil {
				return err
			}
			log.Info("database migrated", zap.String("driver", cfg.Database.Driver))
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

type translateOptions struct {
	menuID      string
	ownerEmail  string
	langs       string
	kinds       string
	all         bool
	maxInFlight int
	server      string
	token       string
	timeout     time.Duration
}

func newTranslateCmd() *cobra.Command {
	var opts translateOptions

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate the content of one menu",
		Long: `Collect the translatable units of a menu and translate every selected unit
into every selected language.

Without --server the batch runs in process against the configured model and
is recorded as a translation job. With --server each pair is posted to the
batch route of a running API using --token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.menuID, "menu", "", "Menu id (required)")
	cmd.Flags().StringVar(&opts.ownerEmail, "owner", "", "Email of the menu owner (required)")
	cmd.Flags().StringVar(&opts.langs, "lang", "", "Target languages (comma-separated, default: en)")
	cmd.Flags().StringVar(&opts.kinds, "kinds", "", "Only translate these unit kinds (comma-separated)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Select every unit, names included")
	cmd.Flags().IntVar(&opts.maxInFlight, "max-in-flight", 1, "Maximum concurrent translation requests")
	cmd.Flags().StringVar(&opts.server, "server", "", "Base URL of a running API")
	cmd.Flags().StringVar(&opts.token, "token", "", "Bearer token for --server (or MENUCTL_TOKEN env var)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Abort the batch after this long (0 = no limit)")
	_ = cmd.MarkFlagRequired("menu")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

// buildSelection applies the command line choices to the collected units.
func buildSelection(units []translation.Unit, opts translateOptions) (*translation.Selection, error) {
	var langs []models.LanguageCode
	for _, l := range splitList(opts.langs) {
		if !models.IsTargetLanguage(l) {
			return nil, fmt.Errorf("unsupported language %q", l)
		}
		langs = append(langs, models.LanguageCode(l))
	}
	sel := translation.NewSelection(units, langs...)
	if opts.all {
		sel.SelectAll()
	}
	if kinds := splitList(opts.kinds); len(kinds) > 0 {
		sel.DeselectAll()
		for _, k := range kinds {
			kind, ok := translation.ParseKind(k)
			if !ok {
				return nil, fmt.Errorf("unknown kind %q", k)
			}
			sel.SetKind(kind, true)
		}
	}
	return sel, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runTranslate(ctx context.Context, opts translateOptions) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	owner, err := a.repos.Users.FindByEmail(ctx, opts.ownerEmail)
	if err != nil {
		return fmt.Errorf("owner %s: %w", opts.ownerEmail, err)
	}
	menu, err := a.repos.Menus.GetTree(ctx, owner.ID, opts.menuID, false)
	if err != nil {
		return fmt.Errorf("menu %s: %w", opts.menuID, err)
	}
	sel, err := buildSelection(a.handler.Collector.CollectTree(ctx, menu), opts)
	if err != nil {
		return err
	}
	log.Info("translation plan",
		zap.String("menu", menu.Name),
		zap.Int("units", sel.SelectedCount()),
		zap.Int("total_units", sel.TotalCount()),
		zap.Int("pairs", sel.PairCount()))

	var endpoint translation.Endpoint = translation.ServiceEndpoint{Service: a.handler.Translator, OwnerID: owner.ID}
	if opts.server != "" {
		token := opts.token
		if token == "" {
			token = os.Getenv("MENUCTL_TOKEN")
		}
		endpoint = translation.NewHTTPEndpoint(opts.server, token)
	}
	d := translation.NewDispatcher(endpoint, log)
	d.MaxInFlight = opts.maxInFlight
	d.Recorder = a.metrics
	d.OnProgress = func(p translation.Progress) {
		fmt.Fprintf(os.Stderr, "\r%d/%d translated, %d failed", p.Completed, p.Total, p.Failed)
	}

	var res translation.Result
	if opts.server != "" {
		res, err = d.Run(ctx, menu.ID, sel)
	} else {
		var job *models.TranslationJob
		job, res, err = a.handler.Jobs.Run(ctx, d, owner.ID, menu.ID, sel)
		if job != nil {
			log.Info("translation job recorded", zap.String("job_id", job.ID), zap.String("status", string(job.Status)))
		}
	}
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	for _, f := range res.Failures {
		log.Warn("pair failed", zap.String("unit", f.UnitID), zap.String("language", string(f.Language)), zap.String("error", f.Error))
	}
	switch {
	case res.Canceled:
		return fmt.Errorf("canceled: %s", res.Summary())
	case !res.OK():
		return fmt.Errorf("translation finished with errors: %s", res.Summary())
	}
	fmt.Printf("translated %d pairs\n", res.Completed)
	return nil
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("menuctl version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}
