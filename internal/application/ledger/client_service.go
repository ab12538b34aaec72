package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicebook/backend/internal/domain/ledger"
	"github.com/invoicebook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ClientService handles client registration and lookup
type ClientService struct {
	clientRepo ledger.ClientRepository
	publisher  shared.EventPublisher
	clock      shared.Clock
	logger     *zap.Logger
}

// ClientServiceOption configures a ClientService
type ClientServiceOption func(*ClientService)

// WithClientClock overrides the clock used for timestamps
func WithClientClock(clock shared.Clock) ClientServiceOption {
	return func(s *ClientService) { s.clock = clock }
}

// WithClientEventPublisher sets the publisher for client events
func WithClientEventPublisher(publisher shared.EventPublisher) ClientServiceOption {
	return func(s *ClientService) { s.publisher = publisher }
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo ledger.ClientRepository, logger *zap.Logger, opts ...ClientServiceOption) *ClientService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ClientService{
		clientRepo: clientRepo,
		clock:      shared.SystemClock,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateClient registers a new client with a zero balance
func (s *ClientService) CreateClient(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	opts := ledger.ClientOptions{
		Phone: req.Phone,
		Note:  req.Note,
	}
	if req.IsFavorite != nil {
		opts.IsFavorite = *req.IsFavorite
	}

	client, err := ledger.NewClient(req.Name, opts, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	s.logger.Info("client created",
		zap.String("client_id", client.ID.String()),
		zap.String("name", client.Name),
	)
	s.publish(ctx, client.GetDomainEvents()...)
	client.ClearDomainEvents()

	response := ToClientResponse(client)
	return &response, nil
}

// ListClients returns every client, favorites first
func (s *ClientService) ListClients(ctx context.Context) ([]ClientResponse, error) {
	clients, err := s.clientRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToClientResponses(clients), nil
}

// GetClient retrieves a client by ID
func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// SetFavorite toggles the favorite flag and returns the updated client
func (s *ClientService) SetFavorite(ctx context.Context, id uuid.UUID, req SetFavoriteRequest) (*ClientResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.clientRepo.SetFavorite(ctx, id, *req.IsFavorite); err != nil {
		return nil, err
	}
	return s.GetClient(ctx, id)
}

func (s *ClientService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish client events", zap.Error(err))
	}
}
