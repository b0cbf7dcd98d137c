package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	appmodules "intranet/app"
	"intranet/app/jobs"
	coremodules "intranet/core/app"
	"intranet/core/app/search"
	"intranet/core/config"
	"intranet/core/database"
	"intranet/core/email"
	"intranet/core/emitter"
	"intranet/core/logger"
	"intranet/core/module"
	"intranet/core/router"
	"intranet/core/router/middleware"
	"intranet/core/scheduler"
	"intranet/core/storage"
	"intranet/core/websocket"
	"intranet/docs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/swaggo/swag"
	"golang.org/x/sync/errgroup"
)

// @title Intranet Portal API
// @description Dashboard, tasks, news, events, recognition and search for the company intranet
// @contact.name Portal Team
// @contact.email portal@example.com
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @version 1.0.0
// @BasePath /api
// @schemes http https
// @accept json
// @produce json
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your token with the prefix "Bearer "

// pushedEvents are relayed to connected dashboards over the websocket
var pushedEvents = []string{
	"tasks.create",
	"tasks.update",
	"tasks.delete",
	"tasks.moved",
	"dashboard.swapped",
	"dashboard.visibility",
	"dashboard.reset",
	"notifications.create",
	"news.published",
	"events.synced",
	"recognition.create",
	"actions.invoked",
	"activities.create",
}

// App represents the portal application with simplified initialization
type App struct {
	config      *config.Config
	db          *database.Database
	router      *router.Router
	logger      logger.Logger
	emitter     *emitter.Emitter
	storage     *storage.ActiveStorage
	emailSender email.Sender
	wsHub       *websocket.Hub
	registry    *search.Registry
	scheduler   *scheduler.CronScheduler

	verbose bool
	// first bootstrap failure; later steps are skipped once set
	err error
}

// New creates a new application instance
func New(verbose bool) *App {
	return &App{verbose: verbose}
}

// Start initializes the application and serves until ctx is cancelled
func (app *App) Start(ctx context.Context) error {
	return app.
		boot().
		initRouter().
		autoDiscoverModules().
		setupScheduler().
		setupRoutes().
		displayServerInfo().
		run(ctx)
}

// boot prepares everything shared by serve, migrate and search
func (app *App) boot() *App {
	return app.
		loadEnvironment().
		initConfig().
		initLogger().
		initDatabase().
		initInfrastructure()
}

func (app *App) step(fn func() error) *App {
	if app.err == nil {
		app.err = fn()
	}
	return app
}

// loadEnvironment loads environment variables
func (app *App) loadEnvironment() *App {
	// a missing .env file is fine, the environment may already be set
	_ = godotenv.Load()
	return app
}

// initConfig initializes configuration
func (app *App) initConfig() *App {
	return app.step(func() error {
		app.config = config.NewConfig()
		if err := app.config.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return nil
	})
}

// initLogger initializes the logger
func (app *App) initLogger() *App {
	return app.step(func() error {
		level := "info"
		if app.verbose {
			level = "debug"
		}
		log, err := logger.NewLogger(logger.Config{
			Environment: app.config.Env,
			LogPath:     "logs",
			Level:       level,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		app.logger = log
		return nil
	})
}

// initDatabase initializes the database connection
func (app *App) initDatabase() *App {
	return app.step(func() error {
		db, err := database.InitDB(app.config)
		if err != nil {
			app.logger.Error("Failed to initialize database", logger.Err(err))
			return fmt.Errorf("database initialization failed: %w", err)
		}
		app.db = db
		if app.verbose {
			app.logger.Info("Database connected", logger.String("driver", app.config.DBDriver))
		}
		return nil
	})
}

// initInfrastructure initializes core infrastructure components
func (app *App) initInfrastructure() *App {
	return app.step(func() error {
		app.emitter = emitter.New()
		app.registry = search.NewRegistry(app.logger)

		activeStorage, err := storage.NewActiveStorage(app.db.DB, storage.Config{
			Provider:  app.config.StorageProvider,
			Path:      app.config.StoragePath,
			BaseURL:   app.config.StorageBaseURL,
			APIKey:    app.config.StorageAPIKey,
			APISecret: app.config.StorageAPISecret,
			AccountID: app.config.StorageAccountID,
			Endpoint:  app.config.StorageEndpoint,
			Bucket:    app.config.StorageBucket,
			Region:    app.config.StorageRegion,
			CDN:       app.config.CDN,
		})
		if err != nil {
			app.logger.Error("Failed to initialize storage", logger.Err(err))
			return fmt.Errorf("storage initialization failed: %w", err)
		}
		app.storage = activeStorage

		// email is optional, the digest is skipped without a sender
		sender, err := email.NewSender(app.config, app.logger)
		if err != nil {
			app.logger.Warn("Email disabled", logger.Err(err))
		} else {
			app.emailSender = sender
		}

		if app.verbose {
			app.logger.Info("Infrastructure initialized",
				logger.String("storage", app.config.StorageProvider),
				logger.String("email", app.config.EmailProvider))
		}
		return nil
	})
}

// initRouter initializes the router with middleware
func (app *App) initRouter() *App {
	return app.step(func() error {
		app.router = router.New()
		app.setupMiddleware()
		app.setupStaticRoutes()
		app.initWebSocket()
		return nil
	})
}

// setupMiddleware configures recovery, request logging, CORS and authentication
func (app *App) setupMiddleware() {
	app.router.Use(middleware.Recovery(func(recovered any) {
		app.logger.Error("Handler panic", logger.Any("panic", recovered))
	}))

	app.router.Use(func(next router.HandlerFunc) router.HandlerFunc {
		return func(c *router.Context) error {
			path := c.Request.URL.Path
			if !app.config.Middleware.IsLoggingRequired(path) {
				return next(c)
			}
			start := time.Now()
			err := next(c)
			app.logger.Info("Request",
				logger.String("method", c.Request.Method),
				logger.String("path", path),
				logger.Int("status", c.Writer.Status()),
				logger.Duration("duration", time.Since(start)),
				logger.String("ip", c.ClientIP()),
			)
			return err
		}
	})

	if app.config.Middleware.CORSEnabled {
		app.router.Use(middleware.CORSMiddleware(app.config.Middleware.CORSOrigins))
	}
	if app.config.Middleware.AuthEnabled {
		app.router.Use(middleware.AuthMiddleware(app.config.JWTSecret, &app.config.Middleware))
	}
}

// setupStaticRoutes configures static file serving
func (app *App) setupStaticRoutes() {
	app.router.Static("/static", "./static")
	if app.config.StorageProvider == "local" {
		app.router.Static(app.config.StorageBaseURL, app.config.StoragePath)
	}
}

// initWebSocket initializes the WebSocket hub if enabled
func (app *App) initWebSocket() {
	if !app.config.WebSocketEnabled {
		return
	}
	app.wsHub = websocket.NewHub(app.logger)
	app.wsHub.Forward(app.emitter, pushedEvents...)
	app.wsHub.Routes(app.router.Group("/api"))

	if app.verbose {
		app.logger.Info("WebSocket initialized", logger.Int("events", len(pushedEvents)))
	}
}

func (app *App) dependencies() module.Dependencies {
	deps := module.Dependencies{
		DB:          app.db.DB,
		Logger:      app.logger,
		Emitter:     app.emitter,
		Storage:     app.storage,
		EmailSender: app.emailSender,
		Config:      app.config,
		Scheduler:   app.scheduler,
	}
	if app.router != nil {
		deps.Router = app.router.Group("/api")
	}
	return deps
}

// autoDiscoverModules registers core modules first, then app modules
func (app *App) autoDiscoverModules() *App {
	return app.step(func() error {
		deps := app.dependencies()
		initializer := module.NewInitializer(app.logger)

		core := module.NewCoreOrchestrator(initializer, coremodules.NewCoreModules(app.registry))
		coreInitialized, err := core.InitializeCoreModules(deps)
		if err != nil {
			return fmt.Errorf("failed to initialize core modules: %w", err)
		}

		apps := module.NewAppOrchestrator(initializer, appmodules.NewAppModules(app.registry))
		appInitialized, err := apps.InitializeAppModules(deps)
		if err != nil {
			return fmt.Errorf("failed to initialize app modules: %w", err)
		}

		if app.verbose {
			app.logger.Info("Modules initialized",
				logger.Int("core", len(coreInitialized)),
				logger.Int("app", len(appInitialized)),
				logger.Strings("search_sources", app.registry.Names()))
		}
		return nil
	})
}

// setupScheduler registers the cron jobs against the initialized modules
func (app *App) setupScheduler() *App {
	return app.step(func() error {
		app.scheduler = jobs.SetupScheduler(app.config, app.logger, appmodules.JobServices())
		return nil
	})
}

// setupRoutes sets up basic system routes
func (app *App) setupRoutes() *App {
	return app.step(func() error {
		app.router.GET("/health", func(c *router.Context) error {
			return c.JSON(http.StatusOK, map[string]any{
				"status":  "ok",
				"version": app.config.Version,
			})
		})

		docs.SwaggerInfo.Version = app.config.Version
		app.router.GET("/swagger/doc.json", func(c *router.Context) error {
			doc, err := swag.ReadDoc()
			if err != nil {
				return err
			}
			c.Writer.Header().Set("Content-Type", "application/json")
			c.Status(http.StatusOK)
			_, err = c.Writer.Write([]byte(doc))
			return err
		})

		app.router.GET("/api/jobs", func(c *router.Context) error {
			return c.JSON(http.StatusOK, app.scheduler.Tasks())
		})
		return nil
	})
}

// displayServerInfo shows server startup information
func (app *App) displayServerInfo() *App {
	if app.err != nil {
		return app
	}
	port := app.config.ServerPort
	fmt.Printf("\n\033[1;32mIntranet Portal Ready!\033[0m\n\n")
	fmt.Printf("\033[36mServer URLs:\033[0m\n")
	fmt.Printf("  Local:   http://localhost%s\n", port)
	fmt.Printf("  Network: http://%s%s\n\n", getLocalIP(), port)
	fmt.Printf("\033[36mAPI Documentation:\033[0m\n")
	fmt.Printf("  OpenAPI: http://localhost%s/swagger/doc.json\n\n", port)
	return app
}

// getLocalIP gets the local network IP address
func getLocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "localhost"
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String()
		}
	}
	return "localhost"
}

// run serves HTTP, the websocket hub and the scheduler until ctx is cancelled
func (app *App) run(ctx context.Context) error {
	if app.err != nil {
		return app.err
	}
	defer app.close()

	g, ctx := errgroup.WithContext(ctx)
	port := app.config.ServerPort

	g.Go(func() error {
		app.logger.Info("Server starting", logger.String("port", port))
		if err := app.router.Run(port); err != nil {
			if strings.Contains(err.Error(), "address already in use") {
				return fmt.Errorf("port %s is already in use, change SERVER_PORT: %w", port, err)
			}
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		app.logger.Info("Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.router.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return app.scheduler.Run(ctx)
	})
	if app.wsHub != nil {
		g.Go(func() error {
			return app.wsHub.Run(ctx)
		})
	}

	return g.Wait()
}

// migrate runs every module migration without mounting routes
func (app *App) migrate() error {
	app.boot()
	if app.err != nil {
		return app.err
	}
	defer app.close()

	deps := app.dependencies()
	initializer := module.NewInitializer(app.logger)
	if err := module.NewCoreOrchestrator(initializer, coremodules.NewCoreModules(app.registry)).MigrateCoreModules(deps); err != nil {
		return err
	}
	if err := module.NewAppOrchestrator(initializer, appmodules.NewAppModules(app.registry)).MigrateAppModules(deps); err != nil {
		return err
	}
	app.logger.Info("Migrations complete")
	return nil
}

// search runs one query against the sources of the visible widgets
func (app *App) search(req *search.SearchRequest) (*search.SearchResponse, error) {
	app.boot().autoDiscoverModules()
	if app.err != nil {
		return nil, app.err
	}
	defer app.close()

	service := search.NewSearchService(app.emitter, app.logger, app.registry, app.config.SearchDefaultLimit)
	return service.GlobalSearch(req)
}

func (app *App) close() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn("Failed to close database", logger.Err(err))
		}
	}
	if app.logger != nil {
		_ = app.logger.Sync()
	}
}

func newRootCommand() *cobra.Command {
	var verbose bool

	serve := func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return New(verbose).Start(ctx)
	}

	root := &cobra.Command{
		Use:           "intranet",
		Short:         "Intranet portal API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server, websocket hub and scheduled jobs",
		RunE:  serve,
	})

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and seed defaults",
		RunE: func(*cobra.Command, []string) error {
			return New(verbose).migrate()
		},
	})

	var types []string
	var limit int
	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the dashboard sources from the command line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := New(verbose).search(&search.SearchRequest{
				Query: strings.Join(args, " "),
				Types: types,
				Limit: limit,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, result := range resp.Results {
				fmt.Fprintf(out, "%.3f  %-12s %-12s %s\n", result.Score, result.Record.Widget, result.Record.Type, result.Record.Title)
			}
			fmt.Fprintln(out, resp.Summary)
			return nil
		},
	}
	searchCmd.Flags().StringSliceVarP(&types, "type", "t", nil, "only these record types (task, news, event, person, action, recognition, analytics)")
	searchCmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum results")
	root.AddCommand(searchCmd)

	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Printf("\n\033[31mApplication failed:\033[0m\n%v\n\n", err)
		os.Exit(1)
	}
}
