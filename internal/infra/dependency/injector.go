// Package dependency provides dependency injection for the application.
package dependency

import (
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/auth"
	"github.com/finance-tracker/ledger/internal/application/usecase/category"
	"github.com/finance-tracker/ledger/internal/application/usecase/dashboard"
	"github.com/finance-tracker/ledger/internal/application/usecase/transaction"
	"github.com/finance-tracker/ledger/internal/infra/server/router"
	"github.com/finance-tracker/ledger/internal/integration/adapters"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/middleware"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
	"github.com/finance-tracker/ledger/internal/integration/render"
)

// UseCases exposes the use cases that entrypoints other than HTTP drive.
type UseCases struct {
	Login  *auth.LoginUserUseCase
	Logout *auth.LogoutUserUseCase
}

// Injector holds all application dependencies.
type Injector struct {
	Config     *config.Config
	DB         *gorm.DB
	Router     *router.Router
	Dashboards *dashboard.Registry
	Formatter  *render.Formatter
	UseCases   UseCases
}

// Options carries collaborators that are built outside the injector.
type Options struct {
	// Feed receives user notifications.
	Feed adapter.NotificationFeed
	// RedisHealth reports whether Redis answers; nil when Redis is not used.
	RedisHealth func() bool
	// Clock defaults to the system clock.
	Clock adapter.Clock
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, opts Options) *Injector {
	clock := opts.Clock
	if clock == nil {
		clock = adapter.SystemClock{}
	}

	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)

	// Create adapters/services
	passwordService := adapters.NewPasswordService(cfg.JWT.BcryptCost)
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, adapters.TokenLifetimes{
		Access:  cfg.JWT.AccessTokenExpiry,
		Refresh: cfg.JWT.RefreshTokenExpiry,
	}, tokenRepo)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(userRepo, tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)
	getCurrentUserUseCase := auth.NewGetCurrentUserUseCase(userRepo)

	// Create category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo)

	// Create transaction use cases
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo)
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(transactionRepo, categoryRepo, clock)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(transactionRepo, categoryRepo, clock)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(transactionRepo)

	// A view idle for a whole refresh lifetime belongs to a session that is gone.
	dashboards := dashboard.NewRegistry(dashboard.Dependencies{
		ListTransactions:  listTransactionsUseCase,
		CreateTransaction: createTransactionUseCase,
		UpdateTransaction: updateTransactionUseCase,
		DeleteTransaction: deleteTransactionUseCase,
		ListCategories:    listCategoriesUseCase,
		Notifier:          opts.Feed,
		Clock:             clock,
	}, cfg.JWT.RefreshTokenExpiry)

	formatter := render.NewFormatter(cfg.Display)
	presenter := dto.NewPresenter(formatter)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, opts.RedisHealth)

	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
		refreshTokenUseCase,
		logoutUseCase,
		dashboards,
	)

	userController := controller.NewUserController(getCurrentUserUseCase)

	categoryController := controller.NewCategoryController(
		listCategoriesUseCase,
		createCategoryUseCase,
	)

	transactionController := controller.NewTransactionController(
		listTransactionsUseCase,
		getCurrentUserUseCase,
		dashboards,
		presenter,
	)

	dashboardController := controller.NewDashboardController(
		getCurrentUserUseCase,
		dashboards,
		presenter,
	)

	var notificationController *controller.NotificationController
	if opts.Feed != nil {
		notificationController = controller.NewNotificationController(opts.Feed)
	}

	// Create middleware
	loginRateLimiter := middleware.NewRateLimiter(cfg.Server.Environment)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		authController,
		userController,
		categoryController,
		transactionController,
		dashboardController,
		notificationController,
		loginRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config:     cfg,
		DB:         db,
		Router:     r,
		Dashboards: dashboards,
		Formatter:  formatter,
		UseCases: UseCases{
			Login:  loginUseCase,
			Logout: logoutUseCase,
		},
	}
}
