package contacting

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vfg2006/agency-dashboard/infrastructure/integrator/crm"
	"github.com/vfg2006/agency-dashboard/infrastructure/repository"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
	"github.com/vfg2006/agency-dashboard/pkg/log"
	"github.com/vfg2006/agency-dashboard/pkg/utils"
)

const (
	GuideSource = "guide"

	MissingFieldsMessage = "Name, email, and phone are required"
	SubmitFailedMessage  = "Failed to submit form"

	defaultListLimit = 100
)

var (
	ErrMissingFields = errors.New("nome, email e telefone são obrigatórios")
	ErrSaveContact   = errors.New("erro ao gravar contato")
	ErrFetchContacts = errors.New("erro ao buscar contatos")
)

type ContactService interface {
	SubmitGuide(ctx context.Context, req *domain.GuideRequest) (*domain.ContactSubmission, error)
	ListSubmissions(ctx context.Context, scope domain.Scope, limit uint64) ([]*domain.ContactSubmission, error)
}

type Service struct {
	submissionRepo repository.ContactSubmissionRepository
	leadRepo       repository.LeadRepository
	crm            crm.Integrator
	validator      *validator.Validate
}

func NewService(
	submissionRepo repository.ContactSubmissionRepository,
	leadRepo repository.LeadRepository,
	crmIntegrator crm.Integrator,
) *Service {
	return &Service{
		submissionRepo: submissionRepo,
		leadRepo:       leadRepo,
		crm:            crmIntegrator,
		validator:      validator.New(),
	}
}

// SubmitGuide grava o envio do formulário do guia. Apenas a gravação da submissão é crítica;
// a criação do contato no CRM e o registro do lead são efeitos colaterais com falha registrada em log.
func (s *Service) SubmitGuide(ctx context.Context, req *domain.GuideRequest) (*domain.ContactSubmission, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	if err := s.validator.Struct(req); err != nil {
		return nil, apiErrors.New(ErrMissingFields, apiErrors.ErrMissingRequiredData, MissingFieldsMessage)
	}

	submission, err := s.submissionRepo.Create(ctx, &domain.ContactSubmission{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		BusinessName: utils.NonEmptyPtr(req.BusinessName),
		Message:      utils.NonEmptyPtr(req.Message),
		Source:       GuideSource,
	})
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao gravar submissão do guia")
		return nil, apiErrors.New(ErrSaveContact, apiErrors.ErrDatabaseOperation, SubmitFailedMessage)
	}

	logger := log.ForContext(ctx).WithField("submission_id", submission.ID)

	if s.crm != nil {
		if err := s.crm.CreateContact(ctx, submission); err != nil {
			logger.WithError(err).Warn("Erro ao criar contato no CRM, seguindo sem o contato")
		}
	}

	if _, err := s.leadRepo.Create(ctx, guideLead(submission)); err != nil {
		logger.WithError(err).Warn("Erro ao registrar lead do guia, submissão mantida")
	}

	logger.Info("Submissão do guia recebida")

	return submission, nil
}

// guideLead monta o lead sem tenant a partir da submissão
func guideLead(submission *domain.ContactSubmission) *domain.Lead {
	notes := make([]string, 0, 2)
	if submission.BusinessName != nil {
		notes = append(notes, "Empresa: "+*submission.BusinessName)
	}
	if submission.Message != nil {
		notes = append(notes, *submission.Message)
	}

	source := GuideSource
	lead := &domain.Lead{
		Name:   submission.Name,
		Email:  utils.StringPtr(submission.Email),
		Phone:  utils.StringPtr(submission.Phone),
		Status: domain.LeadStatusNew,
		Source: &source,
	}
	if len(notes) > 0 {
		lead.Notes = utils.StringPtr(strings.Join(notes, "\n"))
	}

	return lead
}

func (s *Service) ListSubmissions(ctx context.Context, scope domain.Scope, limit uint64) ([]*domain.ContactSubmission, error) {
	if !scope.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	if limit == 0 {
		limit = defaultListLimit
	}

	submissions, err := s.submissionRepo.List(ctx, limit)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao listar submissões do guia")
		return nil, apiErrors.New(ErrFetchContacts, apiErrors.ErrDatabaseOperation, "Falha ao listar submissões")
	}

	return submissions, nil
}
