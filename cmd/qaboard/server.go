package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/docgen"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/kalambet/qaboard/internal/api"
	"github.com/kalambet/qaboard/internal/config"
	"github.com/kalambet/qaboard/internal/logging"
	"github.com/kalambet/qaboard/internal/metrics"
	"github.com/kalambet/qaboard/internal/qa"
	"github.com/kalambet/qaboard/internal/storage"
	"github.com/kalambet/qaboard/internal/web"
	"github.com/kalambet/qaboard/internal/web/view"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the qaboard web server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServer(ctx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and report applied schema versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		printStep("Opening %s store...", cfg.Storage.Driver)
		backend, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DataDir, cfg.Storage.DSN)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer backend.Close()

		if err := backend.Migrate(); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}

		versions, err := backend.AppliedMigrations()
		if err != nil {
			return fmt.Errorf("reading schema versions: %w", err)
		}
		if versions != nil {
			printStatus("Schema versions", "%v", versions)
		}
		if cfg.Storage.Driver == storage.DriverSQLite {
			printStatus("Data dir", "%s", cfg.Storage.DataDir)
		}
		printSuccess("Schema is up to date")
		return nil
	},
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print Markdown documentation of the HTTP routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		views, err := view.New()
		if err != nil {
			return err
		}
		// Handlers are never invoked, so the stores can stay nil.
		r := web.NewHandler(web.Deps{Views: views})
		fmt.Fprintln(stdout, docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "github.com/kalambet/qaboard",
			Intro:       "Routes served by `qaboard serve`.",
		}))
		return nil
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		backend, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DataDir, cfg.Storage.DSN)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer backend.Close()

		questions, answers := wireStores(cfg, backend, nil)
		mcpSrv := api.NewMCPServer(api.MCPDeps{
			Questions: questions,
			Answers:   answers,
			Version:   version,
		})

		// stdout carries the protocol; keep status messages on stderr.
		if err := server.NewStdioServer(mcpSrv).Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("MCP stdio server: %w", err)
		}
		return nil
	},
}

// wireStores layers the question cache and metrics over the backend stores.
func wireStores(cfg config.Config, backend *storage.Backend, rec *metrics.Recorder) (qa.QuestionStore, qa.AnswerStore) {
	questions := metrics.InstrumentQuestions(
		qa.NewCachedQuestions(backend.Questions, cfg.Cache.QuestionTTLDuration()),
		rec,
	)
	answers := metrics.InstrumentAnswers(backend.Answers, rec)
	return questions, answers
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting qaboard", zap.String("version", version), zap.String("driver", cfg.Storage.Driver))

	backend, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DataDir, cfg.Storage.DSN)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Warn("closing storage", zap.Error(err))
		}
	}()

	rec, err := metrics.New()
	if err != nil {
		return err
	}

	views, err := view.New()
	if err != nil {
		return err
	}

	var limiter *rate.Limiter
	if cfg.Limits.SubmitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Limits.SubmitRPS), cfg.Limits.SubmitBurst)
	}

	questions, answers := wireStores(cfg, backend, rec)
	handler := web.NewHandler(web.Deps{
		Questions:     questions,
		Answers:       answers,
		Views:         views,
		Logger:        logger,
		Metrics:       rec,
		SubmitLimiter: limiter,
	})

	ln, err := net.Listen("tcp", cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Server.Addr(), err)
	}
	if cfg.Server.MaxConns > 0 {
		ln = netutil.LimitListener(ln, cfg.Server.MaxConns)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return logging.WithContext(ctx, logger)
		},
	}

	servers := []*http.Server{srv}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("qaboard listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if addr := cfg.Server.DiagAddr(); addr != "" {
		diagSrv := &http.Server{
			Addr:              addr,
			Handler:           diagRouter(rec),
			ReadHeaderTimeout: 10 * time.Second,
		}
		servers = append(servers, diagSrv)
		g.Go(func() error {
			logger.Info("diagnostics listening", zap.String("addr", addr))
			if err := diagSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("diagnostics server error: %w", err)
			}
			return nil
		})
	} else {
		printWarning("diagnostics server disabled (server.diag_port = 0)")
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, s := range servers {
			if err := s.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func diagRouter(rec *metrics.Recorder) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", rec.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	return r
}
