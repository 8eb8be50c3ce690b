package campaigns

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
	ErrFetchCampaigns = errors.New("erro ao buscar campanhas")
	ErrSaveCampaign   = errors.New("erro ao gravar campanha")
	ErrInvalidPeriod  = errors.New("data final anterior à data inicial")
)

type CampaignService interface {
	List(ctx context.Context, scope domain.Scope, filter domain.CampaignFilter) ([]*domain.Campaign, error)
	Get(ctx context.Context, scope domain.Scope, id string) (*domain.Campaign, error)
	Create(ctx context.Context, scope domain.Scope, req *domain.CreateCampaignRequest) (*domain.Campaign, error)
	Update(ctx context.Context, scope domain.Scope, req *domain.UpdateCampaignRequest) (*domain.Campaign, error)
}

type Service struct {
	campaignRepo repository.CampaignRepository
	validator    *validator.Validate
}

func NewService(campaignRepo repository.CampaignRepository) *Service {
	return &Service{
		campaignRepo: campaignRepo,
		validator:    validator.New(),
	}
}

func (s *Service) List(ctx context.Context, scope domain.Scope, filter domain.CampaignFilter) ([]*domain.Campaign, error) {
	tenant, err := scope.TenantFilter()
	if err != nil {
		return nil, err
	}
	if tenant != nil {
		filter.ClientID = tenant
	}

	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apiErrors.New(domain.ErrInvalidInput, apiErrors.ErrInvalidFormat, "Status de campanha inválido")
	}
	if filter.Platform != nil && !filter.Platform.Valid() {
		return nil, apiErrors.New(domain.ErrInvalidInput, apiErrors.ErrInvalidFormat, "Plataforma de campanha inválida")
	}

	campaigns, err := s.campaignRepo.List(ctx, filter)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao listar campanhas")
		return nil, apiErrors.New(ErrFetchCampaigns, apiErrors.ErrDatabaseOperation, "Falha ao listar campanhas")
	}

	return campaigns, nil
}

// Get devolve ErrNotFound também quando a campanha é de outro tenant
func (s *Service) Get(ctx context.Context, scope domain.Scope, id string) (*domain.Campaign, error) {
	if _, err := scope.TenantFilter(); err != nil {
		return nil, err
	}

	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		log.ForContext(ctx).WithFields(log.Fields{
			"campaign_id": id,
			"error":       err.Error(),
		}).Error("Erro ao buscar campanha")
		return nil, apiErrors.New(ErrFetchCampaigns, apiErrors.ErrDatabaseOperation, "Falha ao buscar campanha")
	}
	if campaign == nil || !scope.CanAccessTenant(&campaign.ClientID) {
		return nil, domain.ErrNotFound
	}

	return campaign, nil
}

func (s *Service) Create(ctx context.Context, scope domain.Scope, req *domain.CreateCampaignRequest) (*domain.Campaign, error) {
	if !scope.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, apiErrors.New(domain.ErrInvalidInput, apiErrors.ErrInvalidRequest, err.Error())
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, apiErrors.New(ErrInvalidPeriod, apiErrors.ErrInvalidFormat, ErrInvalidPeriod.Error())
	}

	status := req.Status
	if status == "" {
		status = domain.CampaignStatusDraft
	}

	campaign := &domain.Campaign{
		ClientID:       req.ClientID,
		Name:           req.Name,
		Platform:       req.Platform,
		Status:         status,
		Budget:         req.Budget,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		MetaCampaignID: utils.NonEmptyPtr(req.MetaCampaignID),
	}
	if cost := utils.NonEmptyPtr(req.MonthlyCost); cost != nil {
		campaign.MonthlyCost = *cost
	}

	created, err := s.campaignRepo.Create(ctx, campaign)
	if err != nil {
		log.ForContext(ctx).WithFields(log.Fields{
			"client_id": req.ClientID,
			"error":     err.Error(),
		}).Error("Erro ao criar campanha")
		return nil, apiErrors.New(ErrSaveCampaign, apiErrors.ErrDatabaseOperation, "Falha ao criar campanha")
	}

	return created, nil
}

func (s *Service) Update(ctx context.Context, scope domain.Scope, req *domain.UpdateCampaignRequest) (*domain.Campaign, error) {
	if !scope.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apiErrors.New(domain.ErrInvalidInput, apiErrors.ErrMissingRequiredData, "O nome da campanha é obrigatório")
		}
		req.Name = &name
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, apiErrors.New(domain.ErrInvalidInput, apiErrors.ErrInvalidRequest, err.Error())
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, apiErrors.New(ErrInvalidPeriod, apiErrors.ErrInvalidFormat, ErrInvalidPeriod.Error())
	}

	campaign, err := s.campaignRepo.Update(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		log.ForContext(ctx).WithFields(log.Fields{
			"campaign_id": req.ID,
			"error":       err.Error(),
		}).Error("Erro ao atualizar campanha")
		return nil, apiErrors.New(ErrSaveCampaign, apiErrors.ErrDatabaseOperation, "Falha ao atualizar campanha")
	}

	return campaign, nil
}
