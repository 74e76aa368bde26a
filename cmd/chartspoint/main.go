package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"chartspoint/internal/app"
	"chartspoint/internal/tools/linkgraph"
	"chartspoint/internal/wordpress"
)

var (
	configPath string
	verbose    bool

	logger *zap.Logger
	cfg    app.Config
)

var rootCmd = &cobra.Command{
	Use:   "chartspoint",
	Short: "Static site generator and preview server for the ChartsPoint trading academy",
	Long: `chartspoint renders the Arabic trading-education site from the headless
WordPress CMS. Content is read over WPGraphQL and written as static HTML,
or served live by the preview server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = app.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render every page into the output directory",
	Long: `Renders the home page, pillar and cluster hubs, articles, author pages and
static pages, then writes sitemap.xml and robots.txt. When a MySQL DSN is
configured every page is archived and the report lists changed paths.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site live from the CMS",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print every article path as JSON",
	Args:  cobra.NoArgs,
	RunE:  runPaths,
}

var linkgraphCmd = &cobra.Command{
	Use:   "linkgraph",
	Short: "Export the internal-link graph grouped by editorial cluster",
	Long: `Reads the archived pages from MySQL when a DSN is configured, otherwise the
index.html files of the output directory, and writes the article link graph.`,
	Args: cobra.NoArgs,
	RunE: runLinkgraph,
}

var (
	outputDir   string
	concurrency int
	port        string
	graphOut    string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "chartspoint.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	buildCmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output directory (overrides config)")
	buildCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Pages rendered in parallel (overrides config)")
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides config)")
	linkgraphCmd.Flags().StringVar(&graphOut, "out", "reports/linkgraph.json", "Path to write the link graph JSON")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(linkgraphCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newService wires the GraphQL client and content service from cfg.
func newService() *wordpress.Service {
	client := wordpress.NewClient(wordpress.Options{
		Endpoint:   cfg.GraphQLURL,
		Username:   cfg.JWTUsername,
		Password:   cfg.JWTPassword,
		CacheTTL:   cfg.CacheTTL,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout},
		Logger:     logger,
	})
	return wordpress.NewService(client, wordpress.ServiceConfig{
		CMSBaseURL: cfg.CMSBaseURL,
		Features:   cfg.Features(),
		Logger:     logger,
	})
}

func newSite() (*app.Site, error) {
	renderer, err := app.NewRenderer(cfg.SiteURL)
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}
	return app.NewSite(newService(), renderer, cfg, logger), nil
}

// openArchive returns nil when no DSN is configured.
func openArchive(ctx context.Context) (*sql.DB, *app.Archive, error) {
	if cfg.DSN == "" {
		return nil, nil, nil
	}
	db, err := app.NewDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping db: %w", err)
	}
	if err := app.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, app.NewArchive(db), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func runBuild(cmd *cobra.Command, args []string) error {
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if concurrency > 0 {
		cfg.Concurrency = concurrency
	}

	ctx, stop := signalContext()
	defer stop()

	site, err := newSite()
	if err != nil {
		return err
	}

	db, archive, err := openArchive(ctx)
	if err != nil {
		return err
	}
	var recorder app.Recorder
	if archive != nil {
		defer db.Close()
		recorder = archive
	}

	report, err := app.NewBuilder(site, cfg, recorder, logger).Build(ctx)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d pages failed", report.Failed, report.Pages+report.Failed)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if port != "" {
		cfg.Port = port
	}

	site, err := newSite()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.NewServer(site, cfg, logger),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: app.WriteTimeout(cfg.RequestTimeout),
		IdleTimeout:  60 * time.Second,
	}

	shutdownCtx, stop := signalContext()
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("chartspoint listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-shutdownCtx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
	return nil
}

func runPaths(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	paths, err := newService().AllPostPaths(ctx)
	if err != nil {
		return fmt.Errorf("list paths: %w", err)
	}
	return writeJSON(cmd.OutOrStdout(), paths)
}

func runLinkgraph(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	var src linkgraph.Source = linkgraph.DirSource{Dir: cfg.OutputDir}
	db, archive, err := openArchive(ctx)
	if err != nil {
		return err
	}
	if archive != nil {
		defer db.Close()
		src = archive
	}

	g, err := linkgraph.NewExporter(cfg.SiteURL).Export(ctx, src, graphOut)
	if err != nil {
		return fmt.Errorf("export link graph: %w", err)
	}

	logger.Info("wrote link graph",
		zap.String("path", graphOut),
		zap.Int("clusters", g.Totals.Clusters),
		zap.Int("pages", g.Totals.Pages),
		zap.Int("links", g.Totals.Links),
		zap.Int("orphans", g.Totals.Orphans),
	)
	return nil
}
