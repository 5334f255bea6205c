package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/events"
	"github.com/spec-kit/intake-service/internal/observability"
	"github.com/spec-kit/intake-service/internal/persistence"
	"github.com/spec-kit/intake-service/internal/ratelimit"
	"github.com/spec-kit/intake-service/internal/repository"
	"github.com/spec-kit/intake-service/internal/sequence"
	"github.com/spec-kit/intake-service/internal/sla"
	errorutil "github.com/spec-kit/intake-service/pkg/util/errorutil"
)

// maxAllocationAttempts bounds the retry loop around ticket-number unique
// violations before a SEQUENCE_CONFLICT surfaces.
const maxAllocationAttempts = 5

// IntakeService runs the public submission workflow: rate-limit check,
// reference checks, then one atomic unit of work allocating the ticket
// number and writing the ticket, its SLA record, and its creation activity
// entry together.
type IntakeService struct {
	limiter    *ratelimit.Limiter
	uow        persistence.UnitOfWork
	db         repository.DB
	catalog    repository.CatalogRepository
	tickets    repository.TicketRepository
	slas       repository.SLARepository
	activity   repository.ActivityRepository
	allocator  sequence.Allocator
	calculator *sla.Calculator
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	clock      func() time.Time

	captchaThreshold int64
}

// IntakeDependencies bundles collaborators for the intake service.
type IntakeDependencies struct {
	Limiter          *ratelimit.Limiter
	UnitOfWork       persistence.UnitOfWork
	DB               repository.DB
	CatalogRepo      repository.CatalogRepository
	TicketRepo       repository.TicketRepository
	SLARepo          repository.SLARepository
	ActivityRepo     repository.ActivityRepository
	Allocator        sequence.Allocator
	Calculator       *sla.Calculator
	Dispatcher       events.Dispatcher
	Metrics          *observability.Metrics
	Logger           *zap.Logger
	CaptchaThreshold int64
}

// NewIntakeService constructs the service.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	return &IntakeService{
		limiter:          deps.Limiter,
		uow:              deps.UnitOfWork,
		db:               deps.DB,
		catalog:          deps.CatalogRepo,
		tickets:          deps.TicketRepo,
		slas:             deps.SLARepo,
		activity:         deps.ActivityRepo,
		allocator:        deps.Allocator,
		calculator:       deps.Calculator,
		dispatcher:       deps.Dispatcher,
		metrics:          deps.Metrics,
		logger:           deps.Logger,
		clock:            time.Now,
		captchaThreshold: deps.CaptchaThreshold,
	}
}

// SubmitInput is an already-validated submission payload plus the caller's
// rate-limit identity. Shape and business-rule validation happen upstream.
type SubmitInput struct {
	ServiceID      string
	EntityID       string
	Subject        string
	Description    string
	Category       string
	Priority       domain.TicketPriority
	SubmitterEmail *string
	SubmitterPhone *string
	Channel        domain.TicketChannel
	QRCodeID       *string
	CallerKey      string
}

// SLASummary is the SLA portion of a submission result.
type SLASummary struct {
	ResponseTarget   time.Time
	ResolutionTarget time.Time
	Priority         domain.TicketPriority
	EstimatedDays    int
}

// SubmitResult is returned on a committed submission.
type SubmitResult struct {
	TicketID     string
	TicketNumber string
	Status       domain.TicketStatus
	CreatedAt    time.Time
	SLA          SLASummary
}

// TicketDetail is a ticket with its SLA summary and activity trail.
type TicketDetail struct {
	Ticket   *domain.Ticket
	SLA      *domain.SlaRecord
	Activity []domain.ActivityEvent
}

// Submit executes the intake workflow. Submissions are not idempotent:
// resubmitting an identical payload creates a second ticket with a fresh
// number.
func (s *IntakeService) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	decision, err := s.limiter.Check(ctx, input.CallerKey, ratelimit.ClassTicketSubmit)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	if !decision.Allowed {
		s.metrics.RecordRateLimitDenial()
		return nil, errorutil.NewRateLimited(decision.RetryAfter)
	}

	category, err := s.verifyReferences(ctx, input)
	if err != nil {
		return nil, err
	}

	result, err := s.submitOnce(ctx, input, category)
	for attempt := 2; err != nil && errors.Is(err, repository.ErrDuplicateTicketNumber) && attempt <= maxAllocationAttempts; attempt++ {
		s.metrics.RecordSequenceConflict()
		s.logger.Warn("ticket number collision, retrying allocation",
			zap.Int("attempt", attempt))
		result, err = s.submitOnce(ctx, input, category)
	}
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateTicketNumber) {
			s.metrics.RecordSequenceConflict()
			return nil, errorutil.NewSequenceConflict(maxAllocationAttempts)
		}
		return nil, errorutil.NewTransactionFailed(err)
	}

	s.metrics.RecordSubmission()
	s.publishCreated(ctx, result, input)
	return result, nil
}

// verifyReferences performs the read-only catalog lookups. Any miss rejects
// the submission before a transaction is opened.
func (s *IntakeService) verifyReferences(ctx context.Context, input SubmitInput) (*domain.Category, error) {
	entity, err := s.catalog.GetEntity(ctx, s.db, input.EntityID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errorutil.NewReferenceNotFound("entity", fmt.Sprintf("entity %s not found", input.EntityID))
	}
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	if !entity.IsActive {
		return nil, errorutil.NewReferenceNotFound("entity", fmt.Sprintf("entity %s is inactive", input.EntityID))
	}

	svc, err := s.catalog.GetService(ctx, s.db, input.ServiceID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errorutil.NewReferenceNotFound("service", fmt.Sprintf("service %s not found", input.ServiceID))
	}
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	if !svc.IsActive {
		return nil, errorutil.NewReferenceNotFound("service", fmt.Sprintf("service %s is inactive", input.ServiceID))
	}
	if svc.EntityID != entity.ID {
		return nil, errorutil.NewReferenceNotFound("service", fmt.Sprintf("service %s does not belong to entity %s", input.ServiceID, input.EntityID))
	}

	category, err := s.catalog.GetCategory(ctx, s.db, input.Category)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errorutil.NewReferenceNotFound("category", fmt.Sprintf("category %s not found", input.Category))
	}
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	if !category.IsActive {
		return nil, errorutil.NewReferenceNotFound("category", fmt.Sprintf("category %s is inactive", input.Category))
	}
	return category, nil
}

// submitOnce runs one transactional attempt: allocate, insert ticket, insert
// SLA record, append activity. Everything rolls back together on error.
func (s *IntakeService) submitOnce(ctx context.Context, input SubmitInput, category *domain.Category) (*SubmitResult, error) {
	var result *SubmitResult
	err := s.uow.WithinTx(ctx, func(ctx context.Context, db repository.DB) error {
		now := s.clock().UTC()
		scope := domain.ScopeFor(now)

		seq, err := s.allocator.Next(ctx, db, scope)
		if err != nil {
			return err
		}
		number, err := domain.FormatTicketNumber(scope, seq)
		if err != nil {
			return err
		}

		targets := s.calculator.Targets(now, input.Priority, sla.CategorySLA{
			BaseHours:         category.BaseHours,
			ResponseBaseHours: category.ResponseBaseHours,
		})
		if targets.DefaultApplied && input.Priority != "" {
			s.logger.Warn("no SLA definition for priority, default applied",
				zap.String("requested", string(input.Priority)),
				zap.String("applied", string(targets.Priority)))
		}

		ticket := &domain.Ticket{
			TicketNumber:   number,
			ServiceID:      input.ServiceID,
			EntityID:       input.EntityID,
			CategorySlug:   category.Slug,
			Subject:        strings.TrimSpace(input.Subject),
			Description:    strings.TrimSpace(input.Description),
			Status:         domain.TicketStatusOpen,
			Priority:       targets.Priority,
			SubmitterEmail: input.SubmitterEmail,
			SubmitterPhone: input.SubmitterPhone,
			Channel:        input.Channel,
			QRCodeID:       input.QRCodeID,
			CreatedAt:      now,
		}
		if ticket.Channel == "" {
			ticket.Channel = domain.ChannelWeb
		}
		if err := s.tickets.Insert(ctx, db, ticket); err != nil {
			return err
		}

		record := &domain.SlaRecord{
			TicketID:         ticket.ID,
			ResponseTarget:   targets.ResponseTarget,
			ResolutionTarget: targets.ResolutionTarget,
			Breached:         false,
		}
		if err := s.slas.Insert(ctx, db, record); err != nil {
			return fmt.Errorf("insert sla record: %w", err)
		}

		entry := &domain.ActivityEvent{
			TicketID:    ticket.ID,
			EventType:   domain.ActivityTicketCreated,
			Actor:       domain.ActorSystem,
			Description: fmt.Sprintf("ticket %s created via %s", number, ticket.Channel),
			CreatedAt:   now,
		}
		if err := s.activity.Append(ctx, db, entry); err != nil {
			return fmt.Errorf("append activity: %w", err)
		}

		result = &SubmitResult{
			TicketID:     ticket.ID,
			TicketNumber: number,
			Status:       ticket.Status,
			CreatedAt:    now,
			SLA: SLASummary{
				ResponseTarget:   targets.ResponseTarget,
				ResolutionTarget: targets.ResolutionTarget,
				Priority:         targets.Priority,
				EstimatedDays:    targets.EstimatedDays,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Lookup fetches a ticket by its canonical number together with its SLA
// record and activity trail.
func (s *IntakeService) Lookup(ctx context.Context, callerKey, number string) (*TicketDetail, error) {
	decision, err := s.limiter.Check(ctx, callerKey, ratelimit.ClassTicketLookup)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	if !decision.Allowed {
		s.metrics.RecordRateLimitDenial()
		return nil, errorutil.NewRateLimited(decision.RetryAfter)
	}

	if !domain.ValidTicketNumber(number) {
		return nil, errorutil.NewValidationError("malformed ticket number", map[string]any{
			"ticket_number": number,
		})
	}

	ticket, err := s.tickets.GetByNumber(ctx, s.db, number)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errorutil.NewNotFound("ticket", map[string]any{"ticket_number": number})
	}
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}

	record, err := s.slas.GetByTicket(ctx, s.db, ticket.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, errorutil.NewInternalError(err)
	}
	trail, err := s.activity.ListByTicket(ctx, s.db, ticket.ID)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	return &TicketDetail{Ticket: ticket, SLA: record, Activity: trail}, nil
}

// VerificationRequired reports whether the caller should face extra friction
// (e.g. a CAPTCHA) before the next submission. Read-only peek; no slot is
// consumed.
func (s *IntakeService) VerificationRequired(ctx context.Context, callerKey string) (bool, int64, error) {
	required, err := s.limiter.RequiresEscalatedVerification(ctx, callerKey, ratelimit.ClassTicketSubmit, s.captchaThreshold)
	if err != nil {
		return false, 0, errorutil.NewInternalError(err)
	}
	count, err := s.limiter.PeekCount(ctx, callerKey, ratelimit.ClassTicketSubmit)
	if err != nil {
		return false, 0, errorutil.NewInternalError(err)
	}
	return required, count, nil
}

func (s *IntakeService) publishCreated(ctx context.Context, result *SubmitResult, input SubmitInput) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketCreated,
		TicketID:  result.TicketID,
		Actor:     domain.ActorSystem,
		Timestamp: result.CreatedAt,
		Payload: events.TicketCreatedPayload{
			TicketNumber: result.TicketNumber,
			ServiceID:    input.ServiceID,
			EntityID:     input.EntityID,
			Category:     input.Category,
			Priority:     result.SLA.Priority,
			Channel:      input.Channel,
		},
	})
}
