package leads

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vfg2006/agency-dashboard/infrastructure/repository"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
	"github.com/vfg2006/agency-dashboard/pkg/log"
	"github.com/vfg2006/agency-dashboard/pkg/utils"
)

var (
	ErrFetchLeads    = errors.New("erro ao buscar leads")
	ErrSaveLead      = errors.New("erro ao gravar lead")
	ErrInvalidStatus = errors.New("status de lead inválido")
)

type LeadService interface {
	List(ctx context.Context, scope domain.Scope, filter domain.LeadFilter) ([]*domain.Lead, error)
	Get(ctx context.Context, scope domain.Scope, id string) (*domain.Lead, error)
	Create(ctx context.Context, scope domain.Scope, req *domain.CreateLeadRequest) (*domain.Lead, error)
	Update(ctx context.Context, scope domain.Scope, req *domain.UpdateLeadRequest) (*domain.Lead, error)
	UpdateStatus(ctx context.Context, scope domain.Scope, id string, status domain.LeadStatus) (*domain.Lead, error)
	Board(ctx context.Context, scope domain.Scope, filter domain.LeadFilter) (*Board, error)
}

type Service struct {
	leadRepo  repository.LeadRepository
	validator *validator.Validate
}

func NewService(leadRepo repository.LeadRepository) *Service {
	return &Service{
		leadRepo:  leadRepo,
		validator: validator.New(),
	}
}

func (s *Service) List(ctx context.Context, scope domain.Scope, filter domain.LeadFilter) ([]*domain.Lead, error) {
	tenant, err := scope.TenantFilter()
	if err != nil {
		return nil, err
	}
	if tenant != nil {
		filter.ClientID = tenant
	}

	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apiErrors.New(ErrInvalidStatus, apiErrors.ErrInvalidFormat, ErrInvalidStatus.Error())
	}

	leads, err := s.leadRepo.List(ctx, filter)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao listar leads")
		return nil, apiErrors.New(ErrFetchLeads, apiErrors.ErrDatabaseOperation, "Falha ao listar leads")
	}

	return leads, nil
}

// Get devolve ErrNotFound também para leads de outro tenant ou sem tenant quando o escopo é de cliente
func (s *Service) Get(ctx context.Context, scope domain.Scope, id string) (*domain.Lead, error) {
	if _, err := scope.TenantFilter(); err != nil {
		return nil, err
	}

	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		log.ForContext(ctx).WithFields(log.Fields{
			"lead_id": id,
			"error":   err.Error(),
		}).Error("Erro ao buscar lead")
		return nil, apiErrors.New(ErrFetchLeads, apiErrors.ErrDatabaseOperation, "Falha ao buscar lead")
	}
	if lead == nil || !scope.CanAccessTenant(lead.ClientID) {
		return nil, domain.ErrNotFound
	}

	return lead, nil
}

func (s *Service) Create(ctx context.Context, scope domain.Scope, req *domain.CreateLeadRequest) (*domain.Lead, error) {
	tenant, err := scope.TenantFilter()
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = utils.NonEmptyPtr(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, apiErrors.New(domain.ErrInvalidInput, apiErrors.ErrInvalidRequest, err.Error())
	}

	status := req.Status
	if status == "" {
		status = domain.LeadStatusNew
	}
	if !status.Valid() {
		return nil, apiErrors.New(ErrInvalidStatus, apiErrors.ErrInvalidFormat, ErrInvalidStatus.Error())
	}

	clientID := utils.NonEmptyPtr(req.ClientID)
	if tenant != nil {
		clientID = tenant
	}

	lead, err := s.leadRepo.Create(ctx, &domain.Lead{
		ClientID: clientID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    utils.NonEmptyPtr(req.Phone),
		Status:   status,
		Source:   utils.NonEmptyPtr(req.Source),
		Notes:    utils.NonEmptyPtr(req.Notes),
	})
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao criar lead")
		return nil, apiErrors.New(ErrSaveLead, apiErrors.ErrDatabaseOperation, "Falha ao criar lead")
	}

	return lead, nil
}

func (s *Service) Update(ctx context.Context, scope domain.Scope, req *domain.UpdateLeadRequest) (*domain.Lead, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apiErrors.New(domain.ErrInvalidInput, apiErrors.ErrMissingRequiredData, "O nome do lead é obrigatório")
		}
		req.Name = &name
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, apiErrors.New(domain.ErrInvalidInput, apiErrors.ErrInvalidRequest, err.Error())
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, apiErrors.New(ErrInvalidStatus, apiErrors.ErrInvalidFormat, ErrInvalidStatus.Error())
	}

	// o lead precisa ser visível ao escopo antes da escrita
	if _, err := s.Get(ctx, scope, req.ID); err != nil {
		return nil, err
	}

	lead, err := s.leadRepo.Update(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		log.ForContext(ctx).WithFields(log.Fields{
			"lead_id": req.ID,
			"error":   err.Error(),
		}).Error("Erro ao atualizar lead")
		return nil, apiErrors.New(ErrSaveLead, apiErrors.ErrDatabaseOperation, "Falha ao atualizar lead")
	}

	return lead, nil
}

// UpdateStatus é a ação disparada ao soltar um card no kanban; a última escrita prevalece
func (s *Service) UpdateStatus(ctx context.Context, scope domain.Scope, id string, status domain.LeadStatus) (*domain.Lead, error) {
	if !status.Valid() {
		return nil, apiErrors.New(ErrInvalidStatus, apiErrors.ErrInvalidFormat, ErrInvalidStatus.Error())
	}

	if _, err := s.Get(ctx, scope, id); err != nil {
		return nil, err
	}

	lead, err := s.leadRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		log.ForContext(ctx).WithFields(log.Fields{
			"lead_id": id,
			"status":  status,
			"error":   err.Error(),
		}).Error("Erro ao atualizar status do lead")
		return nil, apiErrors.New(ErrSaveLead, apiErrors.ErrDatabaseOperation, "Falha ao atualizar status do lead")
	}

	return lead, nil
}

func (s *Service) Board(ctx context.Context, scope domain.Scope, filter domain.LeadFilter) (*Board, error) {
	filter.Status = nil

	leads, err := s.List(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	return BuildBoard(leads), nil
}
