package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/config"
	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/database"
	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/logger"
	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/server"
	"github.com/Qu4nh/AI-Life-Coach/internal/llm"
	"github.com/Qu4nh/AI-Life-Coach/internal/scheduler"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the AI Life Coach API server",
		Long:  "Start the API server with all configured routes, middleware and the auto re-plan scheduler",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Run: func(cmd *cobra.Command, args []string) {
			showMigrationVersion()
		},
	})

	return migrateCmd
}

// NewUserCommand creates the user management command
func NewUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
		Long:  "Create and manage users in the system",
	}

	createUserCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		Run: func(cmd *cobra.Command, args []string) {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			displayName, _ := cmd.Flags().GetString("display-name")
			timezone, _ := cmd.Flags().GetString("timezone")

			if email == "" || password == "" {
				log.Fatal("Email and password are required")
			}

			createUser(email, password, displayName, timezone)
		},
	}

	createUserCmd.Flags().String("email", "", "User email (required)")
	createUserCmd.Flags().String("password", "", "User password (required)")
	createUserCmd.Flags().String("display-name", "", "User display name")
	createUserCmd.Flags().String("timezone", "Asia/Ho_Chi_Minh", "IANA timezone for daily planning")

	userCmd.AddCommand(createUserCmd)
	return userCmd
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	db, err := database.New(cfg.Database)
	if err != nil {
		appLogger.Fatalw("Failed to connect to database", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	llmClient, err := llm.NewGeminiClient(ctx, llm.Config{
		APIKey:          cfg.Gemini.APIKey,
		Model:           cfg.Gemini.Model,
		Temperature:     cfg.Gemini.Temperature,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		Timeout:         cfg.Gemini.Timeout,
	})
	if err != nil {
		appLogger.Fatalw("Failed to initialize Gemini client", "error", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			appLogger.Fatalw("Failed to connect to Redis", "error", err)
		}
		defer redisClient.Close()
	}

	srv, err := server.New(cfg, db, appLogger, llmClient, redisClient)
	if err != nil {
		appLogger.Fatalw("Failed to initialize server", "error", err)
	}

	if cfg.Planner.AutoReplanEnabled {
		replanner := scheduler.New(
			srv.UserRepository(),
			srv.AuthRepository(),
			srv.RoadmapService(),
			appLogger,
			cfg.App.Location(),
			cfg.Planner.AutoReplanHour,
		)
		replanner.Start(ctx)
		defer replanner.Stop()
	}

	go func() {
		appLogger.Infow("Starting AI Life Coach API server",
			"port", cfg.Server.Port,
			"environment", cfg.App.Environment,
		)
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			appLogger.Infow("Server stopped", "reason", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorw("Graceful shutdown failed", "error", err)
	}
}

const migrationsPath = "migrations"

func runMigration(direction string) {
	db := openDatabase()
	defer db.Close()

	var err error
	switch direction {
	case "up":
		err = db.Migrate(migrationsPath)
	case "down":
		err = db.MigrateDown(migrationsPath)
	}

	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	fmt.Printf("Migration %s completed successfully\n", direction)
}

func showMigrationVersion() {
	db := openDatabase()
	defer db.Close()

	version, dirty, err := db.MigrationVersion(migrationsPath)
	if err != nil {
		log.Fatalf("Failed to get migration version: %v", err)
	}

	fmt.Printf("Current migration version: %d\n", version)
	fmt.Printf("Dirty: %t\n", dirty)
}

func openDatabase() *database.DB {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	return db
}

func createUser(email, password, displayName, timezone string) {
	db := openDatabase()
	defer db.Close()

	if _, err := time.LoadLocation(timezone); err != nil {
		log.Fatalf("Invalid timezone %q: %v", timezone, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	query := `
		INSERT INTO users (id, email, password_hash, display_name, timezone, auto_replan, is_active)
		VALUES ($1, $2, $3, $4, $5, false, true)
		RETURNING id`

	var userID uuid.UUID
	err = db.DB.QueryRow(query, uuid.New(), email, string(hashedPassword), displayName, timezone).Scan(&userID)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User created successfully:\n")
	fmt.Printf("  ID: %s\n", userID)
	fmt.Printf("  Email: %s\n", email)
	if displayName != "" {
		fmt.Printf("  Name: %s\n", displayName)
	}
}
