package clients

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"github.com/vfg2006/agency-dashboard/infrastructure/repository"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
	"github.com/vfg2006/agency-dashboard/pkg/log"
	"github.com/vfg2006/agency-dashboard/pkg/utils"
)

const maxSlugAttempts = 5

var (
	ErrFetchClients = errors.New("erro ao buscar clientes")
	ErrSaveClient   = errors.New("erro ao gravar cliente")
	ErrSlugTaken    = errors.New("slug já utilizado")
	ErrInvalidName  = errors.New("nome do cliente inválido")
)

type ClientService interface {
	List(ctx context.Context, scope domain.Scope, filter domain.ClientFilter) ([]*domain.Client, error)
	Get(ctx context.Context, scope domain.Scope, id string) (*domain.Client, error)
	Create(ctx context.Context, scope domain.Scope, req *domain.CreateClientRequest) (*domain.Client, error)
	Update(ctx context.Context, scope domain.Scope, req *domain.UpdateClientRequest) (*domain.Client, error)
}

type Service struct {
	clientRepo repository.ClientRepository
	validator  *validator.Validate
	newSuffix  func() (string, error)
}

func NewService(clientRepo repository.ClientRepository) *Service {
	return &Service{
		clientRepo: clientRepo,
		validator:  validator.New(),
		newSuffix:  utils.GenerateID,
	}
}

// List devolve todos os clientes para admin; o cliente enxerga apenas o próprio registro
func (s *Service) List(ctx context.Context, scope domain.Scope, filter domain.ClientFilter) ([]*domain.Client, error) {
	tenant, err := scope.TenantFilter()
	if err != nil {
		return nil, err
	}
	if tenant != nil {
		filter.ClientID = tenant
	}

	clients, err := s.clientRepo.List(ctx, filter)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao listar clientes")
		return nil, apiErrors.New(ErrFetchClients, apiErrors.ErrDatabaseOperation, "Falha ao listar clientes")
	}

	return clients, nil
}

func (s *Service) Get(ctx context.Context, scope domain.Scope, id string) (*domain.Client, error) {
	if !scope.CanAccessTenant(&id) {
		return nil, domain.ErrForbidden
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		log.ForContext(ctx).WithFields(log.Fields{
			"client_id": id,
			"error":     err.Error(),
		}).Error("Erro ao buscar cliente")
		return nil, apiErrors.New(ErrFetchClients, apiErrors.ErrDatabaseOperation, "Falha ao buscar cliente")
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	return client, nil
}

func (s *Service) Create(ctx context.Context, scope domain.Scope, req *domain.CreateClientRequest) (*domain.Client, error) {
	if !scope.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	req.Name = strings.TrimSpace(req.Name)
	req.ContactEmail = utils.NonEmptyPtr(req.ContactEmail)
	if err := s.validator.Struct(req); err != nil {
		return nil, apiErrors.New(domain.ErrInvalidInput, apiErrors.ErrInvalidRequest, err.Error())
	}

	clientSlug, err := s.availableSlug(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	client, err := s.clientRepo.Create(ctx, &domain.Client{
		Name:               req.Name,
		Slug:               clientSlug,
		ContactName:        req.ContactName,
		ContactEmail:       req.ContactEmail,
		ContactPhone:       req.ContactPhone,
		MetaAdAccountID:    req.MetaAdAccountID,
		MetaPixelID:        req.MetaPixelID,
		MetaPageID:         req.MetaPageID,
		InstagramAccountID: req.InstagramAccountID,
		IsActive:           true,
	})
	if err != nil {
		if errors.Is(err, repository.ErrSlugTaken) {
			return nil, apiErrors.New(ErrSlugTaken, apiErrors.ErrResourceConflict, "Já existe um cliente com este slug")
		}
		log.ForContext(ctx).WithError(err).Error("Erro ao criar cliente")
		return nil, apiErrors.New(ErrSaveClient, apiErrors.ErrDatabaseOperation, "Falha ao criar cliente")
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"client_id": client.ID,
		"slug":      client.Slug,
	}).Info("Cliente criado")

	return client, nil
}

// availableSlug gera o slug a partir do nome; em colisão acrescenta um sufixo aleatório
func (s *Service) availableSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		return "", apiErrors.New(ErrInvalidName, apiErrors.ErrInvalidFormat, "O nome precisa conter letras ou números")
	}

	candidate := base
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		existing, err := s.clientRepo.GetBySlug(ctx, candidate)
		if err != nil {
			log.ForContext(ctx).WithError(err).Error("Erro ao verificar slug")
			return "", apiErrors.New(ErrSaveClient, apiErrors.ErrDatabaseOperation, "Falha ao verificar slug")
		}
		if existing == nil {
			return candidate, nil
		}

		suffix, err := s.newSuffix()
		if err != nil {
			return "", apiErrors.New(err, apiErrors.ErrInternalServer, "Falha ao gerar sufixo do slug")
		}
		candidate = base + "-" + suffix
	}

	return "", apiErrors.New(ErrSlugTaken, apiErrors.ErrResourceConflict, "Não foi possível gerar um slug único")
}

func (s *Service) Update(ctx context.Context, scope domain.Scope, req *domain.UpdateClientRequest) (*domain.Client, error) {
	if !scope.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apiErrors.New(domain.ErrInvalidInput, apiErrors.ErrMissingRequiredData, "O nome do cliente é obrigatório")
		}
		req.Name = &name
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, apiErrors.New(domain.ErrInvalidInput, apiErrors.ErrInvalidRequest, err.Error())
	}

	client, err := s.clientRepo.Update(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		log.ForContext(ctx).WithFields(log.Fields{
			"client_id": req.ID,
			"error":     err.Error(),
		}).Error("Erro ao atualizar cliente")
		return nil, apiErrors.New(ErrSaveClient, apiErrors.ErrDatabaseOperation, "Falha ao atualizar cliente")
	}

	return client, nil
}
