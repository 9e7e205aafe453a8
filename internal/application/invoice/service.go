package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/timebill/backend/internal/domain/identity"
	"github.com/timebill/backend/internal/domain/invoice"
	"github.com/timebill/backend/internal/domain/partner"
	"github.com/timebill/backend/internal/domain/shared"
	"github.com/timebill/backend/internal/domain/timetracking"
	"github.com/timebill/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ServiceConfig holds invoicing settings
type ServiceConfig struct {
	NumberGenerator   string
	NumberPrefix      string
	MaxNumberAttempts int
	ReservationTTL    time.Duration
}

// DefaultServiceConfig returns the date generator with three attempts
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		NumberGenerator:   invoice.NumberGeneratorDate,
		MaxNumberAttempts: 3,
		ReservationTTL:    30 * time.Second,
	}
}

// InvoiceService handles invoice generation and lifecycle operations
type InvoiceService struct {
	customerRepo   partner.CustomerRepository
	userRepo       identity.UserRepository
	templateRepo   invoice.TemplateRepository
	invoiceRepo    invoice.InvoiceRepository
	timesheetRepo  timetracking.TimesheetRepository
	txScope        TransactionScope
	reservations   shared.ReservationStore
	eventPublisher shared.EventPublisher
	metrics        Metrics
	validate       *validator.Validate
	logger         *zap.Logger
	config         ServiceConfig
	now            func() time.Time
}

// InvoiceServiceOption is a functional option for configuring the service
type InvoiceServiceOption func(*InvoiceService)

// WithReservationStore claims numbers in a shared store before they are persisted
func WithReservationStore(store shared.ReservationStore) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.reservations = store
	}
}

// WithEventPublisher sets the publisher for invoice domain events
func WithEventPublisher(publisher shared.EventPublisher) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.eventPublisher = publisher
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(metrics Metrics) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.metrics = metrics
	}
}

// WithServiceConfig overrides the default settings
func WithServiceConfig(cfg ServiceConfig) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.config = cfg
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.now = now
	}
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	customerRepo partner.CustomerRepository,
	userRepo identity.UserRepository,
	templateRepo invoice.TemplateRepository,
	invoiceRepo invoice.InvoiceRepository,
	timesheetRepo timetracking.TimesheetRepository,
	txScope TransactionScope,
	logger *zap.Logger,
	opts ...InvoiceServiceOption,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &InvoiceService{
		customerRepo:  customerRepo,
		userRepo:      userRepo,
		templateRepo:  templateRepo,
		invoiceRepo:   invoiceRepo,
		timesheetRepo: timesheetRepo,
		txScope:       txScope,
		validate:      validator.New(),
		logger:        logger,
		config:        DefaultServiceConfig(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config.MaxNumberAttempts <= 0 {
		s.config.MaxNumberAttempts = 1
	}
	return s
}

// CreateInvoice bills the selected entries and persists the invoice.
// A number taken concurrently between lookup and commit triggers a fresh attempt.
func (s *InvoiceService) CreateInvoice(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create",
		telemetry.WithAttribute("tenant_id", tenantID.String()),
		telemetry.WithAttribute("customer_id", req.CustomerID.String()),
	)
	defer span.End()

	start := s.now()
	log := s.logger.With(
		zap.String("tenant_id", tenantID.String()),
		zap.String("customer_id", req.CustomerID.String()),
		zap.String("template_id", req.TemplateID.String()),
	)

	inv, model, err := s.create(ctx, tenantID, req, log)
	if s.metrics != nil {
		s.metrics.RecordGenerationDuration(ctx, tenantID, s.now().Sub(start), err == nil)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		log.Warn("Invoice creation failed", zap.Error(err))
		return nil, err
	}

	s.publishEvents(ctx, inv, log)
	if s.metrics != nil {
		s.metrics.RecordInvoiceCreated(ctx, tenantID, inv.Currency.String(), inv.Total)
	}

	telemetry.SetAttribute(span, "invoice_number", inv.InvoiceNumber)
	fields := []zap.Field{
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
	}
	if gross, err := inv.Gross(); err == nil {
		fields = append(fields, zap.Stringer("total", gross))
	}
	log.Info("Invoice created", fields...)

	resp := ToInvoiceResponse(inv)
	resp.Lines = ToInvoiceLines(model.Calculator().Entries())
	return &resp, nil
}

func (s *InvoiceService) create(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest, log *zap.Logger) (*invoice.Invoice, *invoice.Model, error) {
	model, entries, err := s.buildModel(ctx, tenantID, req, log)
	if err != nil {
		return nil, nil, err
	}

	// Entries billed again keep their flag; only fresh ones are claimed.
	entryIDs := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		if !e.Exported {
			entryIDs = append(entryIDs, e.ID)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= s.config.MaxNumberAttempts; attempt++ {
		inv, err := s.persist(ctx, tenantID, model, entryIDs, req.Comment)
		if err == nil {
			return inv, model, nil
		}
		if !errors.Is(err, invoice.ErrDuplicateInvoiceNumber) {
			return nil, nil, err
		}
		lastErr = err
		if s.metrics != nil {
			s.metrics.RecordNumberCollision(ctx, tenantID)
		}
		log.Warn("Invoice number taken concurrently, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.config.MaxNumberAttempts),
		)
	}
	return nil, nil, fmt.Errorf("no unique invoice number after %d attempts: %w", s.config.MaxNumberAttempts, lastErr)
}

// persist runs one numbering attempt in a transaction
func (s *InvoiceService) persist(ctx context.Context, tenantID uuid.UUID, model *invoice.Model, entryIDs []uuid.UUID, comment string) (*invoice.Invoice, error) {
	var created *invoice.Invoice
	var lookup *reservingLookup

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoiceRepo := repos.InvoiceRepo()
		lookup = newReservingLookup(invoiceRepo, s.reservations, s.config.ReservationTTL)

		generator, err := invoice.NewNumberGenerator(s.config.NumberGenerator, lookup, invoiceRepo, s.config.NumberPrefix)
		if err != nil {
			return err
		}
		model.SetNumberGenerator(generator)

		inv := invoice.NewInvoice(tenantID)
		// Events raised by SetModel carry the identifier the row is stored under.
		inv.AssignID()
		if err := inv.SetModel(ctx, model); err != nil {
			return err
		}
		if comment != "" {
			inv.SetComment(comment)
		}

		if err := invoiceRepo.Save(ctx, inv); err != nil {
			return err
		}
		if err := repos.TimesheetRepo().MarkExported(ctx, tenantID, entryIDs); err != nil {
			return fmt.Errorf("failed to claim timesheets: %w", err)
		}

		created = inv
		return nil
	})
	if err != nil {
		if lookup != nil {
			if relErr := lookup.release(ctx); relErr != nil {
				s.logger.Warn("Failed to release invoice number reservation", zap.Error(relErr))
			}
		}
		return nil, err
	}
	return created, nil
}

// PreviewInvoice computes an invoice without persisting or reserving anything.
// The number shown is the one the next CreateInvoice would most likely receive.
func (s *InvoiceService) PreviewInvoice(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*PreviewResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "preview")
	defer span.End()

	log := s.logger.With(
		zap.String("tenant_id", tenantID.String()),
		zap.String("customer_id", req.CustomerID.String()),
	)

	model, _, err := s.buildModel(ctx, tenantID, req, log)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	generator, err := invoice.NewNumberGenerator(s.config.NumberGenerator, s.invoiceRepo, s.invoiceRepo, s.config.NumberPrefix)
	if err != nil {
		return nil, err
	}
	model.SetNumberGenerator(generator)
	number, err := generator.Generate(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	calc := model.Calculator()
	log.Debug("Invoice previewed", zap.String("invoice_number", number))

	return &PreviewResponse{
		InvoiceNumber: number,
		InvoiceDate:   model.InvoiceDate(),
		DueDate:       model.DueDate(),
		Currency:      model.Currency().String(),
		Calculator:    calc.ID(),
		Subtotal:      calc.Subtotal(),
		Vat:           calc.Vat(),
		Tax:           calc.Tax(),
		Total:         calc.Total(),
		TimeWorked:    calc.TimeWorked(),
		Lines:         ToInvoiceLines(calc.Entries()),
	}, nil
}

// buildModel loads the collaborators and selects the entries
func (s *InvoiceService) buildModel(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest, log *zap.Logger) (*invoice.Model, []*timetracking.Timesheet, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, shared.NewInvalidArgument(err.Error())
	}

	query := req.Query()
	if err := query.Validate(); err != nil {
		return nil, nil, err
	}

	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load customer: %w", err)
	}
	if customer == nil {
		return nil, nil, shared.NewDomainError(shared.CodeNotFound, "Customer not found")
	}

	template, err := s.templateRepo.FindByIDForTenant(ctx, tenantID, req.TemplateID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load invoice template: %w", err)
	}
	if template == nil {
		return nil, nil, shared.NewDomainError(shared.CodeNotFound, "Invoice template not found")
	}

	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, req.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, nil, shared.NewDomainError(shared.CodeNotFound, "User not found")
	}

	entries, err := s.timesheetRepo.FindForInvoice(ctx, tenantID, query.Criteria())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to select timesheets: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil, invoice.ErrNoBillableEntries
	}
	log.Debug("Selected timesheets for invoice", zap.Int("entries", len(entries)))

	calculator, err := invoice.NewCalculator(template.Calculator)
	if err != nil {
		return nil, nil, err
	}

	invoiceDate := s.now()
	if req.InvoiceDate != nil {
		invoiceDate = *req.InvoiceDate
	}

	model := invoice.NewModel(tenantID)
	model.SetCustomer(customer)
	model.SetTemplate(template)
	model.SetUser(user)
	model.SetInvoiceDate(invoiceDate)
	model.SetQuery(query)
	model.AddEntries(entries...)
	model.SetCalculator(calculator)

	return model, entries, nil
}

// ChangeStatus moves an invoice to another status.
// Paid invoices get the given payment date, or now when they have none yet.
func (s *InvoiceService) ChangeStatus(ctx context.Context, tenantID, invoiceID uuid.UUID, req ChangeStatusRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "change_status",
		telemetry.WithAttribute("invoice_id", invoiceID.String()),
		telemetry.WithAttribute("status", req.Status),
	)
	defer span.End()

	if err := s.validate.Struct(req); err != nil {
		if req.Status != "" && !invoice.Status(req.Status).IsValid() {
			return nil, invoice.ErrUnknownStatus
		}
		return nil, shared.NewInvalidArgument(err.Error())
	}

	inv, err := s.load(ctx, tenantID, invoiceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := inv.SetStatus(invoice.Status(req.Status)); err != nil {
		return nil, err
	}
	if inv.IsPaid() {
		switch {
		case req.PaymentDate != nil:
			inv.SetPaymentDate(*req.PaymentDate)
		case inv.PaymentDate == nil:
			inv.SetPaymentDate(s.now())
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	log := s.logger.With(zap.String("tenant_id", tenantID.String()), zap.String("invoice_id", invoiceID.String()))
	s.publishEvents(ctx, inv, log)
	log.Info("Invoice status changed",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("status", inv.Status.String()),
	)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// SetComment replaces the comment of an invoice
func (s *InvoiceService) SetComment(ctx context.Context, tenantID, invoiceID uuid.UUID, comment string) (*InvoiceResponse, error) {
	inv, err := s.load(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	inv.SetComment(comment)
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetInvoice retrieves an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.load(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// ListInvoices retrieves invoices with filtering and pagination
func (s *InvoiceService) ListInvoices(ctx context.Context, tenantID uuid.UUID, filter ListInvoicesFilter) (*shared.Paginated[InvoiceResponse], error) {
	if err := s.validate.Struct(filter); err != nil {
		return nil, shared.NewInvalidArgument(err.Error())
	}

	domainFilter := invoice.InvoiceFilter{Filter: shared.DefaultFilter(), CustomerID: filter.CustomerID}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Status != "" {
		status := invoice.Status(filter.Status)
		domainFilter.Status = &status
	}

	invoices, total, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToInvoiceResponses(invoices), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// ListOverdue returns open invoices past their due date
func (s *InvoiceService) ListOverdue(ctx context.Context, tenantID uuid.UUID) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindOverdue(ctx, tenantID, s.now())
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponses(invoices), nil
}

func (s *InvoiceService) load(ctx context.Context, tenantID, invoiceID uuid.UUID) (*invoice.Invoice, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Invoice not found")
	}
	return inv, nil
}

func (s *InvoiceService) publishEvents(ctx context.Context, inv *invoice.Invoice, log *zap.Logger) {
	events := inv.GetDomainEvents()
	inv.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		log.Warn("Failed to publish invoice events", zap.Error(err), zap.Int("events", len(events)))
	}
}
