package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grievance-service/internal/api/dto"
	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/service"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

// GrievancesHandler manages student-facing grievance endpoints.
type GrievancesHandler struct {
	service *service.GrievanceService
}

// NewGrievancesHandler constructs handler.
func NewGrievancesHandler(grievanceService *service.GrievanceService) *GrievancesHandler {
	return &GrievancesHandler{service: grievanceService}
}

// CreateGrievance POST /grievances.
func (h *GrievancesHandler) CreateGrievance(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateGrievanceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("description required", nil)
	}

	grievance, err := h.service.Raise(c.Context(), principal.User, service.RaiseInput{
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewGrievanceResponse(*grievance)})
}

// ListGrievances GET /grievances.
func (h *GrievancesHandler) ListGrievances(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	grievances, err := h.service.ListForStudent(c.Context(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceListResponse(grievances)})
}

// GetGrievance GET /grievances/:id.
func (h *GrievancesHandler) GetGrievance(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	grievance, err := h.service.Get(c.Context(), principal.Actor, principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceResponse(*grievance)})
}

// ListCategories GET /grievances/categories.
func (h *GrievancesHandler) ListCategories(c *fiber.Ctx) error {
	items := make([]dto.CategoryResponse, 0)
	for _, category := range domain.Categories() {
		items = append(items, dto.CategoryResponse{
			ID:       category.ID,
			Label:    category.Label,
			Priority: string(category.Priority),
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
