package crm

import (
	"context"
	"strings"

	"github.com/vfg2006/agency-dashboard/infrastructure/integrator/crm/crmclient"
	crmdomain "github.com/vfg2006/agency-dashboard/infrastructure/integrator/crm/domain"
	"github.com/vfg2006/agency-dashboard/internal/config"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/log"
)

type Integrator interface {
	CreateContact(ctx context.Context, submission *domain.ContactSubmission) error
}

type CRMService struct {
	cfg    config.CRM
	client crmclient.Client
}

func New(cfg config.CRM, client crmclient.Client) *CRMService {
	return &CRMService{
		cfg:    cfg,
		client: client,
	}
}

// CreateContact envia o contato capturado pelo formulário; sem configuração vira no-op
func (s *CRMService) CreateContact(ctx context.Context, submission *domain.ContactSubmission) error {
	if !s.cfg.Enabled() || s.client == nil {
		log.ForContext(ctx).Debug("crm: integração desabilitada, contato não enviado")
		return nil
	}

	contact := FactoryContact(s.cfg, submission)

	resp, err := s.client.CreateContact(ctx, contact)
	if err != nil {
		return err
	}

	log.ForContext(ctx).WithField("crm_contact_id", resp.Contact.ID).Debug("crm: contato criado")

	return nil
}

func FactoryContact(cfg config.CRM, submission *domain.ContactSubmission) crmdomain.Contact {
	firstName, lastName := splitName(submission.Name)

	contact := crmdomain.Contact{
		FirstName:  firstName,
		LastName:   lastName,
		Name:       submission.Name,
		Email:      submission.Email,
		Phone:      submission.Phone,
		LocationID: cfg.LocationID,
		Source:     submission.Source,
		Tags:       cfg.Tags,
	}

	if submission.BusinessName != nil {
		contact.CompanyName = *submission.BusinessName
	}

	return contact
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
