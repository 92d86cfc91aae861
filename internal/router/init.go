package router

import (
	"github.com/budgetwise/backend/internal/application"
	"github.com/budgetwise/backend/internal/container"
	pginfra "github.com/budgetwise/backend/internal/infrastructure/postgres"
	handlers "github.com/budgetwise/backend/internal/interface/http"
	"github.com/budgetwise/backend/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the
// router registry. Called once during application startup.
func InitModules(r *Registry) {
	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	budgetRepo := pginfra.NewBudgetRepository(container.GetPGPool())

	authSvc := application.NewAuthService(
		userRepo,
		container.GetJWT(),
		container.GetLogger(),
		container.GetRabbitPub(),
		container.GetConfig(),
	)
	budgetSvc := application.NewBudgetService(budgetRepo, container.GetLogger())

	authHandler := handlers.NewAuthHandler(authSvc, container.GetLogger())
	budgetHandler := handlers.NewBudgetHandler(budgetSvc, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewBudgetModule(budgetHandler, container.GetJWT()))
}
