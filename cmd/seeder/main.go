// Command seeder provisions an API user and prints its bearer token.
// Only the token hash is stored, so the printed token cannot be recovered later.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/alexivanou/weather-favorites-api/internal/config"
	"github.com/alexivanou/weather-favorites-api/internal/database"
	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/alexivanou/weather-favorites-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	var (
		name  = flag.String("name", "", "User display name")
		email = flag.String("email", "", "User email, must be unique")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if strings.TrimSpace(*name) == "" || strings.TrimSpace(*email) == "" {
		logger.Fatal("Both -name and -email are required")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := database.Connect(context.Background(), cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	// Ensure schema exists, the memory database starts empty
	if err := database.Migrate(db, cfg.DB.Type); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repos := repository.NewRepositories(db, cfg.DB.Type)

	token := strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
	user := &model.User{
		Name:         strings.TrimSpace(*name),
		Email:        strings.TrimSpace(*email),
		APITokenHash: model.HashAPIToken(token),
	}
	if err := repos.User.Create(context.Background(), user); err != nil {
		logger.Fatal("Failed to create user", zap.Error(err))
	}

	logger.Info("User created", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	fmt.Println(token)
}
