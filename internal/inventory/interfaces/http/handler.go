package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	authhttp "github.com/wyfcoding/inventory/internal/auth/interfaces/http"
	"github.com/wyfcoding/inventory/internal/inventory/application"
	"github.com/wyfcoding/inventory/internal/inventory/domain"
	"github.com/wyfcoding/inventory/pkg/logger"
	"github.com/wyfcoding/inventory/pkg/response"
)

// InventoryRedirect is where successful mutations send the browser.
const InventoryRedirect = "/inventory"

// Handler serves the inventory listing, dashboard, and product mutations.
// Every route sits behind RequireUser, so the owning user is always present.
type Handler struct {
	query     *application.QueryService
	dashboard *application.DashboardService
	command   *application.CommandService
}

func NewHandler(query *application.QueryService, dashboard *application.DashboardService, command *application.CommandService) *Handler {
	return &Handler{query: query, dashboard: dashboard, command: command}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, requireUser gin.HandlerFunc) {
	g := r.Group("/v1", requireUser)
	g.GET("/inventory", h.List)
	g.POST("/inventory", h.Create)
	g.POST("/inventory/:id/delete", h.Delete)
	g.GET("/dashboard", h.Dashboard)
}

// List answers ?q= and ?page=. A missing, malformed, or non-positive page is
// page 1.
func (h *Handler) List(c *gin.Context) {
	user := authhttp.CurrentUser(c)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	result, err := h.query.ListProducts(c.Request.Context(), user.ID, c.Query("q"), page)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list products", "user_id", user.ID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to list products", "")
		return
	}

	response.Success(c, result)
}

func (h *Handler) Dashboard(c *gin.Context) {
	user := authhttp.CurrentUser(c)

	snapshot, err := h.dashboard.ComputeDashboard(c.Request.Context(), user.ID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to compute dashboard", "user_id", user.ID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to compute dashboard", "")
		return
	}

	response.Success(c, snapshot)
}

// Create accepts form or JSON input. The redirect to the listing happens only
// on the success path, after the insert has committed.
func (h *Handler) Create(c *gin.Context) {
	user := authhttp.CurrentUser(c)

	var input application.ProductInput
	if err := c.ShouldBind(&input); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "invalid_request")
		return
	}

	_, err := h.command.CreateProduct(c.Request.Context(), user.ID, input)
	if err != nil {
		if ve, ok := domain.AsValidation(err); ok {
			response.FieldErrors(c, ve.Fields)
			return
		}
		if errors.Is(err, domain.ErrDuplicateSKU) {
			response.ErrorWithStatus(c, http.StatusConflict, domain.ErrDuplicateSKU.Error(), "duplicate_sku")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to create product", "")
		return
	}

	c.Redirect(http.StatusSeeOther, InventoryRedirect)
}

// Delete is a silent no-op for unknown or foreign-owned ids.
func (h *Handler) Delete(c *gin.Context) {
	user := authhttp.CurrentUser(c)

	if err := h.command.DeleteProduct(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to delete product", "")
		return
	}

	c.Redirect(http.StatusSeeOther, InventoryRedirect)
}
