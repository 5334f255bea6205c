package handlers

import (
	"math"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/intake-service/internal/api/dto"
	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/service"
	errorutil "github.com/spec-kit/intake-service/pkg/util/errorutil"
)

// TicketsHandler manages the public intake endpoints.
type TicketsHandler struct {
	intake *service.IntakeService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(intakeService *service.IntakeService) *TicketsHandler {
	return &TicketsHandler{intake: intakeService}
}

// Submit POST /tickets.
func (h *TicketsHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if req.ServiceID == "" || req.EntityID == "" || req.Subject == "" || req.Description == "" || req.Category == "" {
		return errorutil.NewValidationError("service_id, entity_id, subject, description, category required", nil)
	}

	input := service.SubmitInput{
		ServiceID:      req.ServiceID,
		EntityID:       req.EntityID,
		Subject:        req.Subject,
		Description:    req.Description,
		Category:       req.Category,
		Priority:       domain.TicketPriority(req.Priority),
		SubmitterEmail: req.SubmitterEmail,
		SubmitterPhone: req.SubmitterPhone,
		Channel:        domain.TicketChannel(req.Channel),
		QRCodeID:       req.QRCodeID,
		CallerKey:      c.IP(),
	}
	result, err := h.intake.Submit(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.SubmitTicketResponse{
		TicketID:     result.TicketID,
		TicketNumber: result.TicketNumber,
		Status:       string(result.Status),
		CreatedAt:    result.CreatedAt,
		SLA: dto.SLASummaryResponse{
			ResponseTarget:   result.SLA.ResponseTarget,
			ResolutionTarget: result.SLA.ResolutionTarget,
			Priority:         string(result.SLA.Priority),
			EstimatedDays:    result.SLA.EstimatedDays,
		},
	}})
}

// Get GET /tickets/:number.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	detail, err := h.intake.Lookup(c.UserContext(), c.IP(), c.Params("number"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(detail)})
}

// Verification GET /tickets/verification.
func (h *TicketsHandler) Verification(c *fiber.Ctx) error {
	required, count, err := h.intake.VerificationRequired(c.UserContext(), c.IP())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.VerificationResponse{
		CaptchaRequired:     required,
		SubmissionsInWindow: count,
	}})
}

func ticketDetail(detail *service.TicketDetail) dto.TicketDetailResponse {
	ticket := detail.Ticket
	resp := dto.TicketDetailResponse{
		TicketID:       ticket.ID,
		TicketNumber:   ticket.TicketNumber,
		ServiceID:      ticket.ServiceID,
		EntityID:       ticket.EntityID,
		Category:       ticket.CategorySlug,
		Subject:        ticket.Subject,
		Description:    ticket.Description,
		Status:         string(ticket.Status),
		Priority:       string(ticket.Priority),
		Channel:        string(ticket.Channel),
		SubmitterEmail: ticket.SubmitterEmail,
		SubmitterPhone: ticket.SubmitterPhone,
		QRCodeID:       ticket.QRCodeID,
		CreatedAt:      ticket.CreatedAt,
		Activity:       make([]dto.ActivityEntryResponse, 0, len(detail.Activity)),
	}
	if detail.SLA != nil {
		resp.SLA = &dto.SLASummaryResponse{
			ResponseTarget:   detail.SLA.ResponseTarget,
			ResolutionTarget: detail.SLA.ResolutionTarget,
			Priority:         string(ticket.Priority),
			EstimatedDays:    int(math.Ceil(detail.SLA.ResolutionTarget.Sub(ticket.CreatedAt).Hours() / 24)),
		}
	}
	for _, entry := range detail.Activity {
		resp.Activity = append(resp.Activity, dto.ActivityEntryResponse{
			EventType:   string(entry.EventType),
			Actor:       entry.Actor,
			Description: entry.Description,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return resp
}
