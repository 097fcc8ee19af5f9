package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"entrybase/internal/domain/policy"
	"entrybase/internal/domain/sqlite"
	"entrybase/internal/domain/sqlite/repository"
	"entrybase/internal/http/handler"
	authmw "entrybase/internal/http/middleware"
	"entrybase/internal/service"
	"entrybase/internal/utils/validators"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const envVarsPrefix = "/entrybase/prod/"

const defaultTokenTTL = 24 * time.Hour

func main() {
	validate := validator.New()
	validators.Register(validate)

	// Loads env vars depending on environment
	if os.Getenv("GO_ENV") == "production" {
		loadProdEnv() // AWS SSM Parameter Store
	} else {
		// Loads from .env
		err := godotenv.Load()
		if err != nil {
			panic(err)
		}
	}

	secret := []byte(os.Getenv("JWT_SECRET"))
	if len(secret) == 0 {
		log.Fatalf("JWT_SECRET is not set")
	}

	// Init SQLite
	db, err := sqlite.Init()
	if err != nil {
		panic(err)
	}

	// Gettings repos
	entryRepo := repository.NewEntryRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Getting services
	entryPolicy := policy.NewEntryPolicy()
	entryService := service.NewEntryService(entryRepo, entryPolicy, validate)
	authService := service.NewAuthService(userRepo, validate, secret, tokenTTL())
	adminService := service.NewAdminService(entryRepo, userRepo, entryService)

	// Gettings handler
	entryRoutes := handler.NewEntryDefault(entryService)
	authRoutes := handler.NewAuthDefault(authService)
	adminRoutes := handler.NewAdminDefault(adminService)

	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("2M"))

	auth := authmw.NewAuthMiddleware(&authmw.AuthMiddlewareConfig{
		UserRepo: userRepo,
		Secret:   secret,
	})

	// Auth
	e.POST("/api/auth/register", authRoutes.Register)
	e.POST("/api/auth/login", authRoutes.Login)
	e.GET("/api/auth/me", authRoutes.Me, auth)

	// Entries
	entries := e.Group("/api/entries", auth)
	entries.GET("", entryRoutes.GetEntries)
	entries.GET("/search", entryRoutes.SearchEntries)
	entries.GET("/:id", entryRoutes.GetEntry)
	entries.POST("", entryRoutes.CreateEntry)
	entries.PUT("/:id", entryRoutes.UpdateEntry)
	entries.DELETE("/:id", entryRoutes.DeleteEntry)

	// Admin
	admin := e.Group("/api/admin", auth, authmw.AdminOnly())
	admin.GET("/entries", adminRoutes.GetAllEntries)
	admin.DELETE("/entries/:id", adminRoutes.DeleteEntry)
	admin.GET("/users", adminRoutes.GetUsers)
	admin.PUT("/users/:id/role", adminRoutes.UpdateRole)
	admin.GET("/stats", adminRoutes.GetStats)

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)

	port := os.Getenv("PORT")
	if port == "" {
		port = "7070"
	}

	if err := e.Start(":" + port); err != nil {
		panic(err)
	}
}

func tokenTTL() time.Duration {
	raw := os.Getenv("TOKEN_TTL_HOURS")
	if raw == "" {
		return defaultTokenTTL
	}

	hours, err := strconv.Atoi(raw)
	if err != nil || hours < 1 {
		log.Warnf("invalid TOKEN_TTL_HOURS %q, using default", raw)
		return defaultTokenTTL
	}
	return time.Duration(hours) * time.Hour
}

func loadProdEnv() {
	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("us-east-2"))
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	client := ssm.NewFromConfig(cfg)
	out, err := client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
		Path:           aws.String(envVarsPrefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})
	if err != nil {
		log.Fatalf("unable to load prod environment, %v", err)
	}

	prefixLength := len(envVarsPrefix)
	// Export vars
	for _, param := range out.Parameters {
		key := (*param.Name)[prefixLength:]
		value := *param.Value
		enverr := os.Setenv(key, value)
		if enverr != nil {
			log.Fatalf("unable to set environment variable, %v", enverr)
		}
	}
	log.Debugf("loaded %d prod environment variables", len(out.Parameters))
}

func healthCheckRoute(c echo.Context) error {
	return c.String(200, "OK")
}
