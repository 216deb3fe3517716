package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grievance-service/internal/api/dto"
	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/lifecycle"
	"github.com/spec-kit/grievance-service/internal/service"
	"github.com/spec-kit/grievance-service/internal/view"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

// StaffGrievancesHandler manages coordinator and admin dashboard endpoints.
type StaffGrievancesHandler struct {
	service *service.GrievanceService
}

// NewStaffGrievancesHandler constructs handler.
func NewStaffGrievancesHandler(grievanceService *service.GrievanceService) *StaffGrievancesHandler {
	return &StaffGrievancesHandler{service: grievanceService}
}

// ListGrievances GET /staff/grievances?filter=&date=.
func (h *StaffGrievancesHandler) ListGrievances(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	date, err := parseDateQuery(c.Query("date"))
	if err != nil {
		return err
	}
	grievances, err := h.service.Query(c.Context(), principal.Actor, view.Filter(c.Query("filter")), date)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceListResponse(grievances)})
}

// Overview GET /staff/grievances/overview.
func (h *StaffGrievancesHandler) Overview(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	date, err := parseDateQuery(c.Query("date"))
	if err != nil {
		return err
	}
	buckets, err := h.service.Overview(c.Context(), principal.Actor, view.Filter(c.Query("filter")), date)
	if err != nil {
		return err
	}
	resp := dto.OverviewResponse{
		Urgent:   grievanceResponses(buckets.Urgent),
		Active:   grievanceResponses(buckets.Active),
		Resolved: grievanceResponses(buckets.Resolved),
	}
	return c.JSON(fiber.Map{"data": resp})
}

// GetGrievance GET /staff/grievances/:id.
func (h *StaffGrievancesHandler) GetGrievance(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	grievance, err := h.service.Get(c.Context(), principal.Actor, principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceResponse(*grievance)})
}

// ListTargets GET /staff/grievances/:id/targets.
func (h *StaffGrievancesHandler) ListTargets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	targets, err := h.service.ValidTargets(c.Context(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TargetsResponse{Targets: targets}})
}

// Transition POST /staff/grievances/:id/transition.
func (h *StaffGrievancesHandler) Transition(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	grievance, err := h.service.Transition(c.Context(), principal.Actor, c.Params("id"), lifecycle.TransitionRequest{
		Status:      req.Status,
		ForwardedTo: req.ForwardedTo,
		Remarks:     req.Remarks,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceResponse(*grievance)})
}

func parseDateQuery(val string) (*time.Time, error) {
	if val == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", val, time.Local)
	if err != nil {
		return nil, apperrors.NewValidationError("date must be YYYY-MM-DD", map[string]any{"date": val})
	}
	return &t, nil
}

func grievanceResponses(list []domain.Grievance) []dto.GrievanceResponse {
	out := make([]dto.GrievanceResponse, 0, len(list))
	for _, g := range list {
		out = append(out, dto.NewGrievanceResponse(g))
	}
	return out
}
