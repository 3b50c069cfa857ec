package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ridi/hms/internal/config"
	"github.com/ridi/hms/internal/domain/appointment"
	"github.com/ridi/hms/internal/domain/billing"
	"github.com/ridi/hms/internal/domain/dashboard"
	"github.com/ridi/hms/internal/domain/doctor"
	"github.com/ridi/hms/internal/domain/inventory"
	"github.com/ridi/hms/internal/domain/labtest"
	"github.com/ridi/hms/internal/domain/patient"
	"github.com/ridi/hms/internal/domain/prescription"
	"github.com/ridi/hms/internal/domain/profile"
	"github.com/ridi/hms/internal/domain/records"
	"github.com/ridi/hms/internal/domain/staff"
	"github.com/ridi/hms/internal/domain/vitals"
	"github.com/ridi/hms/internal/platform/auth"
	"github.com/ridi/hms/internal/platform/blobstore"
	"github.com/ridi/hms/internal/platform/db"
	"github.com/ridi/hms/internal/platform/events"
	"github.com/ridi/hms/internal/platform/middleware"
	"github.com/ridi/hms/internal/platform/websocket"
	"github.com/ridi/hms/migrations"
)

const version = "0.1.0"

// cliPrincipal is the identity used by command-line exports.
var cliPrincipal = auth.Principal{UserID: "cli", Email: "cli@localhost", Role: auth.RoleAdmin}

func main() {
	rootCmd := &cobra.Command{
		Use:          "hms-server",
		Short:        "Hospital management API server",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// connect loads configuration and opens the connection pool.
func connect(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			ctx := context.Background()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := newMigrator(pool, dir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Read migrations from this directory instead of the embedded set")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			ctx := context.Background()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := newMigrator(pool, dir).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printMigrationStatus(cmd.OutOrStdout(), statuses)
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Read migrations from this directory instead of the embedded set")
	cmd.AddCommand(statusCmd)

	return cmd
}

// newMigrator reads migrations from dir, or from the binary when dir is empty.
func newMigrator(pool *pgxpool.Pool, dir string) *db.Migrator {
	if dir == "" {
		return db.NewMigratorFS(pool, migrations.Files)
	}
	return db.NewMigrator(pool, dir)
}

func printMigrationStatus(w io.Writer, statuses []db.MigrationStatus) {
	fmt.Fprintf(w, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	fmt.Fprintln(w, "---------- ---------------------------------------- ---------- --------------------")
	for _, s := range statuses {
		status := "pending"
		appliedAt := ""
		if s.Applied {
			status = "applied"
			if s.Modified {
				status = "modified"
			}
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(w, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write reports to files",
	}

	patientCmd := &cobra.Command{
		Use:   "patient",
		Short: "Export a patient's complete record as PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			rawID, _ := cmd.Flags().GetString("id")
			out, _ := cmd.Flags().GetString("out")
			id, err := uuid.Parse(rawID)
			if err != nil {
				return fmt.Errorf("--id must be a patient uuid: %w", err)
			}
			if out == "" {
				out = fmt.Sprintf("patient_complete_record_%s.pdf", id)
			}
			return runExport(out, func(ctx context.Context, app *services, w io.Writer) error {
				return app.records.Export(ctx, cliPrincipal, id, w)
			})
		},
	}
	patientCmd.Flags().String("id", "", "Patient id")
	patientCmd.Flags().String("out", "", "Output file (default patient_complete_record_<id>.pdf)")
	_ = patientCmd.MarkFlagRequired("id")
	cmd.AddCommand(patientCmd)

	inventoryCmd := &cobra.Command{
		Use:   "inventory",
		Short: "Export inventory and low-stock items as xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			return runExport(out, func(ctx context.Context, app *services, w io.Writer) error {
				return app.inventory.Export(ctx, w)
			})
		},
	}
	inventoryCmd.Flags().String("out", "inventory.xlsx", "Output file")
	cmd.AddCommand(inventoryCmd)

	paymentsCmd := &cobra.Command{
		Use:   "payments",
		Short: "Export payments as xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			return runExport(out, func(ctx context.Context, app *services, w io.Writer) error {
				return app.billing.ExportPayments(ctx, w)
			})
		},
	}
	paymentsCmd.Flags().String("out", "payments.xlsx", "Output file")
	cmd.AddCommand(paymentsCmd)

	return cmd
}

type exportFunc func(ctx context.Context, app *services, w io.Writer) error

func runExport(out string, fn exportFunc) error {
	ctx := context.Background()
	cfg, pool, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	logger := newLogger(cfg.Env)
	ctx = logger.WithContext(ctx)
	app := newServices(cfg, pool, blobstore.NewPGStore(pool), events.NopPublisher{})
	return writeFileAtomic(out, func(w io.Writer) error { return fn(ctx, app, w) })
}

// writeFileAtomic renders into a temporary file next to path and renames it
// into place only when render succeeds.
func writeFileAtomic(path string, render func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".hms-export-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := render(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// services holds the wired domain services.
type services struct {
	patients      *patient.Service
	doctors       *doctor.Service
	staff         *staff.Service
	appointments  *appointment.Service
	prescriptions *prescription.Service
	vitals        *vitals.Service
	labs          *labtest.Service
	billing       *billing.Service
	inventory     *inventory.Service
	records       *records.Aggregator
	dashboard     *dashboard.Service
	profiles      *profile.Service
}

func newServices(cfg *config.Config, q db.Querier, store blobstore.Store, pub events.Publisher) *services {
	app := &services{
		patients:      patient.NewService(patient.NewRepoPG(q)),
		doctors:       doctor.NewService(doctor.NewRepoPG(q)),
		staff:         staff.NewService(staff.NewRepoPG(q)),
		appointments:  appointment.NewService(appointment.NewRepoPG(q)),
		prescriptions: prescription.NewService(prescription.NewRepoPG(q)),
		inventory:     inventory.NewService(inventory.NewRepoPG(q)),
		dashboard:     dashboard.NewService(dashboard.NewStorePG(q)),
		profiles:      profile.NewService(profile.NewRepoPG(q)),
	}
	app.vitals = vitals.NewService(vitals.NewRepoPG(q), app.patients)
	app.labs = labtest.NewService(labtest.NewCatalogRepoPG(q), labtest.NewOrderRepoPG(q), store, pub, cfg.PublicBaseURL)
	app.billing = billing.NewService(billing.NewPaymentRepoPG(q), billing.NewInvoiceRepoPG(q), store, pub, cfg.PublicBaseURL,
		billing.Hospital{Name: cfg.HospitalName, Address: cfg.HospitalAddress, Contact: cfg.HospitalContact})
	app.records = records.NewAggregator(app.patients, app.vitals, app.labs, app.billing)
	return app
}

func (app *services) registerRoutes(api *echo.Group) {
	patient.NewHandler(app.patients).RegisterRoutes(api)
	doctor.NewHandler(app.doctors).RegisterRoutes(api)
	staff.NewHandler(app.staff).RegisterRoutes(api)
	appointment.NewHandler(app.appointments).RegisterRoutes(api)
	prescription.NewHandler(app.prescriptions).RegisterRoutes(api)
	vitals.NewHandler(app.vitals).RegisterRoutes(api)
	labtest.NewHandler(app.labs).RegisterRoutes(api)
	billing.NewHandler(app.billing).RegisterRoutes(api)
	inventory.NewHandler(app.inventory).RegisterRoutes(api)
	records.NewHandler(app.records).RegisterRoutes(api)
	dashboard.NewHandler(app.dashboard).RegisterRoutes(api)
	profile.NewHandler(app.profiles).RegisterRoutes(api)
}

func newBlobStore(cfg *config.Config, q db.Querier) blobstore.Store {
	if cfg.StorageBackend == "memory" {
		return blobstore.NewInMemoryStore()
	}
	return blobstore.NewPGStore(q)
}

// newPublisher sends events to the live hub and, when brokers are
// configured, to Kafka.
func newPublisher(cfg *config.Config, hub *websocket.Hub) events.Publisher {
	if cfg.KafkaEnabled() {
		return events.Fanout{events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), hub}
	}
	return events.Fanout{hub}
}

func newAuthMiddleware(cfg *config.Config, roles auth.RoleResolver) echo.MiddlewareFunc {
	if cfg.IsDev() {
		return auth.DevAuthMiddleware()
	}
	return auth.JWTMiddleware(auth.JWTConfig{
		Issuer:     cfg.AuthIssuer,
		Audience:   cfg.AuthAudience,
		SigningKey: []byte(cfg.AuthJWTSecret),
		Skipper:    auth.AuthSkipper,
	}, roles)
}

// newEcho builds the server with global middleware, public endpoints and
// the /api/v1 routes.
func newEcho(cfg *config.Config, logger zerolog.Logger, app *services, store blobstore.Store, hub *websocket.Hub, roles auth.RoleResolver) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = 60 * time.Second

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	e.Use(middleware.BodyLimit(middleware.BodyLimitConfig{
		Default: "1M",
		Upload:  middleware.UploadLimit(blobstore.MaxFileSize),
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(newAuthMiddleware(cfg, roles))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	blobstore.NewHandler(store).RegisterRoutes(e)

	apiV1 := e.Group("/api/v1")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	app.registerRoutes(apiV1)
	websocket.NewHandler(hub, cfg.CORSOrigins).RegisterRoutes(apiV1)
	return e
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	store := newBlobStore(cfg, pool)
	hub := websocket.NewHub()
	pub := newPublisher(cfg, hub)
	defer pub.Close()
	if cfg.KafkaEnabled() {
		logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing events to kafka")
	}

	app := newServices(cfg, pool, store, pub)
	e := newEcho(cfg, logger, app, store, hub, auth.NewUserStorePG(pool))
	e.GET("/health/db", db.HealthHandler(pool, newMigrator(pool, "")))

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("storage", cfg.StorageBackend).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
