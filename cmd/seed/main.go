package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"cozinhai/internal/config"
	"cozinhai/internal/db"
	apperrors "cozinhai/internal/errors"
	"cozinhai/internal/logging"
	"cozinhai/internal/model"
	"cozinhai/internal/service"
)

//go:embed demo.json
var demoData []byte

// SeedFile is the layout of the seed JSON.
type SeedFile struct {
	Users []SeedUser `json:"users"`
}

// SeedUser is one account with its favorites and reviews.
type SeedUser struct {
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Password  string         `json:"password"`
	Favorites []SeedFavorite `json:"favorites"`
	Reviews   []SeedReview   `json:"reviews"`
}

// SeedFavorite mirrors the add-favorite request body.
type SeedFavorite struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	RecipeImage string `json:"recipeImage"`
}

// SeedReview is a review left by the enclosing user.
type SeedReview struct {
	RecipeID string `json:"recipeId"`
	Title    string `json:"title"`
	Grade    int    `json:"grade"`
	Comment  string `json:"comment"`
}

func main() {
	file := flag.String("file", "", "seed JSON file (defaults to the embedded demo data)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.AppEnv, cfg.LogLevel)
	logger.Info("Starting seed script...")

	data, err := readSeed(*file)
	if err != nil {
		logger.WithError(err).Fatal("read seed data")
	}
	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		logger.WithError(err).Fatal("parse seed data")
	}

	ctx := context.Background()
	store, err := db.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("database init")
	}
	defer store.Close(ctx)

	accounts := service.NewAccountService(store.Users(), logger)
	reviews := service.NewReviewService(store, logger)

	created, skipped := 0, 0
	for _, u := range seed.Users {
		if err := seedUser(ctx, accounts, reviews, u); err != nil {
			if errors.Is(err, apperrors.ErrDuplicateEmail) {
				logger.WithField("email", u.Email).Info("Skipping existing user")
				skipped++
				continue
			}
			logger.WithError(err).WithField("email", u.Email).Fatal("seed user")
		}
		created++
	}

	logger.WithFields(logrus.Fields{"created": created, "skipped": skipped}).Info("Seed completed")
}

func readSeed(path string) ([]byte, error) {
	if path == "" {
		return demoData, nil
	}
	return os.ReadFile(path)
}

func seedUser(ctx context.Context, accounts service.AccountService, reviews service.ReviewService, u SeedUser) error {
	user, err := accounts.CreateAccount(ctx, u.Name, u.Email, u.Password)
	if err != nil {
		return err
	}
	// favorites are listed newest first; add the oldest first
	for i := len(u.Favorites) - 1; i >= 0; i-- {
		f := u.Favorites[i]
		fav := model.FavoriteRecipe{RecipeID: f.ID, Title: f.Title, RecipeImage: f.RecipeImage}
		if _, err := accounts.AddFavorite(ctx, user.ID, fav); err != nil {
			return fmt.Errorf("favorite %s: %w", f.ID, err)
		}
	}
	for _, r := range u.Reviews {
		title, comment, grade := r.Title, r.Comment, r.Grade
		in := service.ReviewInput{Title: &title, Comment: &comment, Grade: &grade}
		if _, err := reviews.UpsertReview(ctx, user.ID, r.RecipeID, in); err != nil {
			return fmt.Errorf("review %s: %w", r.RecipeID, err)
		}
	}
	return nil
}
