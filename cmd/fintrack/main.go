// Package main renders a user's dashboard in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/application/usecase/auth"
	"github.com/finance-tracker/ledger/internal/application/usecase/transaction"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/infra/db"
	"github.com/finance-tracker/ledger/internal/infra/dependency"
	"github.com/finance-tracker/ledger/internal/integration/notification"
	"github.com/finance-tracker/ledger/internal/integration/render"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fintrack:", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if it exists so FINTRACK_* defaults can come from it
	_ = godotenv.Load()

	email := flag.String("email", os.Getenv("FINTRACK_EMAIL"), "account email")
	password := flag.String("password", os.Getenv("FINTRACK_PASSWORD"), "account password")
	dateFrom := flag.String("from", "", "first day to include (YYYY-MM-DD)")
	dateTo := flag.String("to", "", "last day to include (YYYY-MM-DD)")
	categoryID := flag.String("category", "", "category ID to filter by")
	txnType := flag.String("type", "", "expense or income")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if *email == "" || *password == "" {
		return fmt.Errorf("email and password are required")
	}

	filters, err := transaction.ParseFilterState(*dateFrom, *dateTo, *categoryID, *txnType)
	if err != nil {
		return err
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	feed, redisClient := notification.NewFeed(ctx, cfg.Redis, cfg.Notifications)
	if redisClient != nil {
		defer redisClient.Close()
	}

	injector := dependency.NewInjector(cfg, database.DB(), dependency.Options{Feed: feed})

	login, err := injector.UseCases.Login.Execute(ctx, auth.LoginUserInput{
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		return err
	}
	defer func() {
		_, _ = injector.UseCases.Logout.Execute(context.Background(), auth.LogoutUserInput{
			UserID:       login.Identity.UserID,
			RefreshToken: login.RefreshToken,
		})
		injector.Dashboards.Forget(login.Identity.UserID)
	}()

	view := injector.Dashboards.ViewFor(login.Identity)
	if err := view.ApplyFilters(ctx, filters); err != nil {
		if domainerror.IsValidation(err) {
			return err
		}
		// Fetch failures are shown in the rendered footer.
		slog.Warn("Dashboard load failed", "error", err)
	}

	render.NewTerminal(os.Stdout, injector.Formatter).Render(login.Identity.DisplayName, view.Snapshot())
	return nil
}
