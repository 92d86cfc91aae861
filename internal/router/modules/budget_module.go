package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/budgetwise/backend/internal/container"
	handlers "github.com/budgetwise/backend/internal/interface/http"
	"github.com/budgetwise/backend/internal/interface/middleware"
	"github.com/budgetwise/backend/pkg/helpers"
)

// BudgetModule wires the budget CRUD endpoints. Every route sits behind the
// bearer-token middleware; /default must be registered before /:id so Gin
// does not swallow it as a parameter.
type BudgetModule struct {
	Handler *handlers.BudgetHandler
	JWT     *helpers.JWTManager
}

func NewBudgetModule(h *handlers.BudgetHandler, jwt *helpers.JWTManager) *BudgetModule {
	return &BudgetModule{Handler: h, JWT: jwt}
}

func (m *BudgetModule) Register(rg *gin.RouterGroup) {
	budgets := rg.Group("/budgets")
	budgets.Use(middleware.Auth(m.JWT))
	budgets.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		budgets.GET("", m.Handler.List)
		budgets.GET("/default", m.Handler.GetDefault)
		budgets.GET("/:id", m.Handler.Get)
		budgets.POST("", m.Handler.Create)
		budgets.PUT("/:id", m.Handler.Update)
		budgets.DELETE("/:id", m.Handler.Delete)
	}
}
