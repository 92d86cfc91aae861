package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/budgetwise/backend/internal/application"
	"github.com/budgetwise/backend/internal/domain/entity"
	"github.com/budgetwise/backend/internal/interface/middleware"
	"github.com/budgetwise/backend/pkg/response"
	"github.com/budgetwise/backend/pkg/validation"
)

type BudgetHandler struct {
	Svc    *application.BudgetService
	Logger *logrus.Logger
}

func NewBudgetHandler(svc *application.BudgetService, logger *logrus.Logger) *BudgetHandler {
	return &BudgetHandler{Svc: svc, Logger: logger}
}

type createBudgetRequest struct {
	Name      string `json:"name" binding:"required"`
	Currency  string `json:"currency"`
	IsDefault bool   `json:"isDefault"`
}

// updateBudgetRequest uses pointers for partial-update semantics: an absent
// field, not an empty value, means "leave unchanged".
type updateBudgetRequest struct {
	Name      *string `json:"name"`
	Currency  *string `json:"currency"`
	IsDefault *bool   `json:"isDefault"`
}

type budgetPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	IsDefault bool      `json:"isDefault"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func projectBudget(b *entity.Budget) budgetPayload {
	return budgetPayload{
		ID:        b.ID,
		Name:      b.Name,
		Currency:  b.Currency,
		IsDefault: b.IsDefault,
		UserID:    b.UserID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// List GET /api/budgets
func (h *BudgetHandler) List(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)

	budgets, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "error fetching budgets", nil)
		return
	}

	payload := make([]budgetPayload, 0, len(budgets))
	for i := range budgets {
		payload = append(payload, projectBudget(&budgets[i]))
	}
	response.Success(c, http.StatusOK, payload, "budgets", nil)
}

// GetDefault GET /api/budgets/default
func (h *BudgetHandler) GetDefault(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)

	b, err := h.Svc.GetDefault(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, application.ErrBudgetNotFound) {
			response.Error[any](c, http.StatusNotFound, "no budgets found for user", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "error fetching default budget", nil)
		return
	}
	response.Success(c, http.StatusOK, projectBudget(b), "default budget", nil)
}

// Get GET /api/budgets/:id
func (h *BudgetHandler) Get(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)

	b, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrBudgetNotFound) {
			response.Error[any](c, http.StatusNotFound, "budget not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "error fetching budget", nil)
		return
	}
	response.Success(c, http.StatusOK, projectBudget(b), "budget", nil)
}

// Create POST /api/budgets
func (h *BudgetHandler) Create(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)

	var req createBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "budget name is required", validation.ToDetails(err))
		return
	}

	b, err := h.Svc.Create(c.Request.Context(), userID, application.CreateBudgetInput{
		Name:      req.Name,
		Currency:  req.Currency,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "error creating budget", nil)
		return
	}
	response.Success(c, http.StatusCreated, projectBudget(b), "budget created", nil)
}

// Update PUT /api/budgets/:id
func (h *BudgetHandler) Update(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)

	var req updateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	b, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), application.UpdateBudgetInput{
		Name:      req.Name,
		Currency:  req.Currency,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		if errors.Is(err, application.ErrBudgetNotFound) {
			response.Error[any](c, http.StatusNotFound, "budget not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "error updating budget", nil)
		return
	}
	response.Success(c, http.StatusOK, projectBudget(b), "budget updated", nil)
}

// Delete DELETE /api/budgets/:id
func (h *BudgetHandler) Delete(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)

	err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, application.ErrBudgetNotFound):
			response.Error[any](c, http.StatusNotFound, "budget not found", nil)
		case errors.Is(err, application.ErrLastBudget):
			response.Error[any](c, http.StatusBadRequest, "cannot delete the only budget, create another budget first", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "error deleting budget", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, nil, "budget deleted successfully", nil)
}
