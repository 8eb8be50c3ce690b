package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/internal/usecases/authenticating"
	authmocks "github.com/vfg2006/agency-dashboard/internal/usecases/authenticating/mocks"
	campaignmocks "github.com/vfg2006/agency-dashboard/internal/usecases/campaigns/mocks"
	"github.com/vfg2006/agency-dashboard/internal/usecases/clients"
	clientmocks "github.com/vfg2006/agency-dashboard/internal/usecases/clients/mocks"
	contactmocks "github.com/vfg2006/agency-dashboard/internal/usecases/contacting/mocks"
	insightmocks "github.com/vfg2006/agency-dashboard/internal/usecases/insighting/mocks"
	"github.com/vfg2006/agency-dashboard/internal/usecases/leads"
	leadmocks "github.com/vfg2006/agency-dashboard/internal/usecases/leads/mocks"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
	"github.com/vfg2006/agency-dashboard/pkg/log"
	"github.com/vfg2006/agency-dashboard/pkg/utils"
)

type pageMocks struct {
	auth      *authmocks.MockAuthenticator
	clients   *clientmocks.MockClientService
	campaigns *campaignmocks.MockCampaignService
	leads     *leadmocks.MockLeadService
	insights  *insightmocks.MockInsighter
	contacts  *contactmocks.MockContactService
}

func newPageMocks(t *testing.T) pageMocks {
	log.SetupTestLogger()
	ctrl := gomock.NewController(t)
	return pageMocks{
		auth:      authmocks.NewMockAuthenticator(ctrl),
		clients:   clientmocks.NewMockClientService(ctrl),
		campaigns: campaignmocks.NewMockCampaignService(ctrl),
		leads:     leadmocks.NewMockLeadService(ctrl),
		insights:  insightmocks.NewMockInsighter(ctrl),
		contacts:  contactmocks.NewMockContactService(ctrl),
	}
}

func (m pageMocks) dashboard() DashboardServices {
	return DashboardServices{
		Clients:   m.clients,
		Campaigns: m.campaigns,
		Leads:     m.leads,
		Insights:  m.insights,
		Now:       func() time.Time { return time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC) },
	}
}

func (m pageMocks) admin() AdminServices {
	return AdminServices{
		Authenticator: m.auth,
		Clients:       m.clients,
		Campaigns:     m.campaigns,
		Contacts:      m.contacts,
	}
}

var (
	tenantID       = "c1"
	clientIdentity = &domain.Identity{UserID: "u2", Email: "cliente@example.com", Role: domain.RoleClient, ClientID: &tenantID}
	adminIdentity  = &domain.Identity{UserID: "u1", Email: "admin@example.com", Role: domain.RoleAdmin}
)

func TestDashboard_RenderizaSecoesQueCarregaram(t *testing.T) {
	m := newPageMocks(t)

	m.insights.EXPECT().ClientMetrics(gomock.Any(), clientIdentity.Scope(), nil, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.Scope, _ *string, period domain.InsightFilters) (*domain.ClientMetrics, error) {
			assert.Equal(t, "2025-03-01", period.StartDate.Format(time.DateOnly))
			assert.Equal(t, "2025-03-30", period.EndDate.Format(time.DateOnly))
			return nil, errors.New("timeout")
		})
	m.leads.EXPECT().List(gomock.Any(), clientIdentity.Scope(), domain.LeadFilter{}).
		Return([]*domain.Lead{{ID: "l1", Name: "Maria Souza", Status: domain.LeadStatusNew}}, nil)
	m.campaigns.EXPECT().List(gomock.Any(), clientIdentity.Scope(), domain.CampaignFilter{}).
		Return([]*domain.Campaign{{ID: "k1", Name: "Promo Verão", Platform: domain.CampaignPlatformMeta, Status: domain.CampaignStatusActive, MonthlyCost: "1500"}}, nil)

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/dashboard", nil), clientIdentity)
	rec := serve(Pages(testRenderer(t), m.dashboard()), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Maria Souza")
	assert.Contains(t, body, "Promo Verão")
	assert.Contains(t, body, "R$ 1.500,00")
	assert.Contains(t, body, "Não foi possível carregar as métricas.")
	assert.NotContains(t, body, "/admin/clients")
}

func TestDashboard_AdminCarregaSeletorDeClientes(t *testing.T) {
	m := newPageMocks(t)
	selected := "c9"

	m.clients.EXPECT().List(gomock.Any(), adminIdentity.Scope(), domain.ClientFilter{}).
		Return([]*domain.Client{{ID: "c9", Name: "Clínica Sol"}}, nil)
	m.insights.EXPECT().ClientMetrics(gomock.Any(), adminIdentity.Scope(), &selected, gomock.Any()).
		Return(&domain.ClientMetrics{Spend: 1234.5, Impressions: 10000, CTR: 2.5}, nil)
	m.leads.EXPECT().List(gomock.Any(), adminIdentity.Scope(), domain.LeadFilter{ClientID: &selected}).Return(nil, nil)
	m.campaigns.EXPECT().List(gomock.Any(), adminIdentity.Scope(), domain.CampaignFilter{ClientID: &selected}).Return(nil, nil)

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/dashboard?client_id=c9&start_date=2025-03-01&end_date=2025-03-15", nil), adminIdentity)
	rec := serve(Pages(testRenderer(t), m.dashboard()), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Clínica Sol")
	assert.Contains(t, body, "R$ 1.234,50")
	assert.Contains(t, body, "10,000")
	assert.Contains(t, body, `value="2025-03-15"`)
	assert.Contains(t, body, "/admin/clients")
}

func TestPages_SemIdentidadeVaiParaLogin(t *testing.T) {
	m := newPageMocks(t)

	for _, path := range []string{"/dashboard", "/dashboard/leads", "/dashboard/campaigns", "/dashboard/metrics", "/dashboard/campaigns/k1"} {
		rec := serve(Pages(testRenderer(t), m.dashboard()), httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestLeadsPage_Kanban(t *testing.T) {
	m := newPageMocks(t)

	m.leads.EXPECT().Board(gomock.Any(), clientIdentity.Scope(), domain.LeadFilter{Search: "maria"}).
		Return(leads.BuildBoard([]*domain.Lead{
			{ID: "l1", Name: "Maria Souza", Status: domain.LeadStatusNew},
			{ID: "l2", Name: "Maria Lima", Status: domain.LeadStatusLost},
		}), nil)

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/dashboard/leads?q=maria", nil), clientIdentity)
	rec := serve(Pages(testRenderer(t), m.dashboard()), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Novo (1)")
	assert.Contains(t, body, "Perdido (1)")
	assert.Contains(t, body, "Contatado (0)")
	assert.Contains(t, body, `action="/dashboard/leads/l1/status"`)
}

func TestMoveLead(t *testing.T) {
	t.Run("board já mostra o lead na coluna nova", func(t *testing.T) {
		m := newPageMocks(t)

		m.leads.EXPECT().UpdateStatus(gomock.Any(), clientIdentity.Scope(), "l1", domain.LeadStatusContacted).
			Return(&domain.Lead{ID: "l1", Status: domain.LeadStatusContacted}, nil)
		m.leads.EXPECT().Board(gomock.Any(), clientIdentity.Scope(), domain.LeadFilter{Search: "maria"}).
			Return(leads.BuildBoard([]*domain.Lead{
				{ID: "l1", Name: "Maria Souza", Status: domain.LeadStatusNew},
				{ID: "l2", Name: "Maria Lima", Status: domain.LeadStatusNew},
			}), nil)

		req := withIdentity(formRequest(http.MethodPost, "/dashboard/leads/l1/status", url.Values{
			"status": {"contacted"},
			"q":      {"maria"},
		}), clientIdentity)
		rec := serve(Pages(testRenderer(t), m.dashboard()), req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Lead atualizado.")
		assert.Contains(t, body, "Novo (1)")
		assert.Contains(t, body, "Contatado (1)")
		assert.Contains(t, body, `name="q" value="maria"`)
	})

	t.Run("falha na gravação mostra a página de erro", func(t *testing.T) {
		m := newPageMocks(t)

		m.leads.EXPECT().UpdateStatus(gomock.Any(), clientIdentity.Scope(), "l9", domain.LeadStatusContacted).
			Return(nil, domain.ErrNotFound)
		m.leads.EXPECT().Board(gomock.Any(), clientIdentity.Scope(), domain.LeadFilter{}).
			Return(leads.BuildBoard(nil), nil)

		req := withIdentity(formRequest(http.MethodPost, "/dashboard/leads/l9/status", url.Values{"status": {"contacted"}}), clientIdentity)
		rec := serve(Pages(testRenderer(t), m.dashboard()), req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Registro não encontrado.")
	})
}

func TestCampaignPage(t *testing.T) {
	t.Run("campanha de outro tenant", func(t *testing.T) {
		m := newPageMocks(t)
		m.campaigns.EXPECT().Get(gomock.Any(), clientIdentity.Scope(), "k2").Return(nil, domain.ErrNotFound)

		req := withIdentity(httptest.NewRequest(http.MethodGet, "/dashboard/campaigns/k2", nil), clientIdentity)
		rec := serve(Pages(testRenderer(t), m.dashboard()), req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Registro não encontrado.")
	})

	t.Run("série diária", func(t *testing.T) {
		m := newPageMocks(t)
		day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
		campaign := &domain.Campaign{ID: "k1", ClientID: "c1", Name: "Promo Verão", Platform: domain.CampaignPlatformBoth}

		m.campaigns.EXPECT().Get(gomock.Any(), clientIdentity.Scope(), "k1").Return(campaign, nil)
		m.insights.EXPECT().ListMetrics(gomock.Any(), clientIdentity.Scope(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.Scope, filter domain.MetricsFilter) ([]*domain.CampaignMetrics, error) {
				assert.Equal(t, "k1", utils.Deref(filter.CampaignID))
				return []*domain.CampaignMetrics{
					{CampaignID: "k1", Platform: domain.MetricsPlatformMeta, PeriodStart: day, PeriodEnd: day, Spend: 10, Clicks: 3},
					{CampaignID: "k1", Platform: domain.MetricsPlatformInstagram, PeriodStart: day, PeriodEnd: day, Spend: 5, Clicks: 1},
				}, nil
			})

		req := withIdentity(httptest.NewRequest(http.MethodGet, "/dashboard/campaigns/k1", nil), clientIdentity)
		rec := serve(Pages(testRenderer(t), m.dashboard()), req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "10/03/2025")
		assert.Contains(t, body, "R$ 15,00")
		assert.Contains(t, body, "Facebook &#43; Instagram")
	})
}

func TestCampaignsPage_FiltroInvalido(t *testing.T) {
	m := newPageMocks(t)
	status := domain.CampaignStatus("archived")

	m.campaigns.EXPECT().List(gomock.Any(), clientIdentity.Scope(), domain.CampaignFilter{Status: &status}).
		Return(nil, apiErrors.New(domain.ErrInvalidInput, apiErrors.ErrInvalidRequest, "Status de campanha inválido"))

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/dashboard/campaigns?status=archived", nil), clientIdentity)
	rec := serve(Pages(testRenderer(t), m.dashboard()), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Status de campanha inválido")
	assert.Contains(t, rec.Body.String(), "Nenhuma campanha encontrada.")
}

func TestCreateClient(t *testing.T) {
	t.Run("sucesso abre a página do cliente", func(t *testing.T) {
		m := newPageMocks(t)
		m.clients.EXPECT().Create(gomock.Any(), adminIdentity.Scope(), &domain.CreateClientRequest{
			Name:            "Clínica São João",
			MetaAdAccountID: utils.StringPtr("act_1"),
		}).Return(&domain.Client{ID: "c9", Name: "Clínica São João"}, nil)

		req := withIdentity(formRequest(http.MethodPost, "/admin/clients", url.Values{
			"name":               {"Clínica São João"},
			"meta_ad_account_id": {"act_1"},
			"contact_email":      {"  "},
		}), adminIdentity)
		rec := serve(Admin(testRenderer(t), m.admin()), req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/clients/c9?ok=client_saved", rec.Header().Get("Location"))
	})

	t.Run("slug em uso renderiza o formulário com erro", func(t *testing.T) {
		m := newPageMocks(t)
		m.clients.EXPECT().Create(gomock.Any(), adminIdentity.Scope(), gomock.Any()).
			Return(nil, apiErrors.New(clients.ErrSlugTaken, apiErrors.ErrResourceConflict, "Slug já utilizado"))
		m.clients.EXPECT().List(gomock.Any(), adminIdentity.Scope(), domain.ClientFilter{}).Return(nil, nil)
		m.contacts.EXPECT().ListSubmissions(gomock.Any(), adminIdentity.Scope(), uint64(submissionsLimit)).Return(nil, nil)

		req := withIdentity(formRequest(http.MethodPost, "/admin/clients", url.Values{"name": {"Clínica Sol"}}), adminIdentity)
		rec := serve(Admin(testRenderer(t), m.admin()), req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "Slug já utilizado")
		assert.Contains(t, rec.Body.String(), `value="Clínica Sol"`)
	})
}

func TestCreateClientCampaign_DataInvalida(t *testing.T) {
	m := newPageMocks(t)
	m.clients.EXPECT().Get(gomock.Any(), adminIdentity.Scope(), "c1").Return(&domain.Client{ID: "c1", Name: "Clínica Sol"}, nil)
	m.campaigns.EXPECT().List(gomock.Any(), adminIdentity.Scope(), gomock.Any()).Return(nil, nil)
	m.auth.EXPECT().ListProfiles(gomock.Any(), adminIdentity.Scope(), gomock.Any()).Return(nil, nil)

	req := withIdentity(formRequest(http.MethodPost, "/admin/clients/c1/campaigns", url.Values{
		"name":       {"Promo"},
		"platform":   {"meta"},
		"start_date": {"31/12/2025"},
	}), adminIdentity)
	rec := serve(Admin(testRenderer(t), m.admin()), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Data inválida: start_date")
}

func TestInviteUser(t *testing.T) {
	t.Run("sucesso", func(t *testing.T) {
		m := newPageMocks(t)
		m.auth.EXPECT().InviteUser(gomock.Any(), adminIdentity.Scope(), &domain.InviteUserRequest{
			Email:    "novo@example.com",
			Role:     domain.RoleClient,
			ClientID: utils.StringPtr("c1"),
		}).Return(&domain.Profile{ID: "u3"}, nil)

		req := withIdentity(formRequest(http.MethodPost, "/admin/users/invite", url.Values{
			"email":     {"novo@example.com"},
			"role":      {"client"},
			"client_id": {"c1"},
		}), adminIdentity)
		rec := serve(Admin(testRenderer(t), m.admin()), req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/users?ok=invited", rec.Header().Get("Location"))
	})

	t.Run("falha parcial é exibida", func(t *testing.T) {
		m := newPageMocks(t)
		m.auth.EXPECT().InviteUser(gomock.Any(), adminIdentity.Scope(), gomock.Any()).
			Return(nil, apiErrors.New(authenticating.ErrProfileNotSaved, apiErrors.ErrPartialFailure, authenticating.ErrProfileNotSaved.Error()))
		m.auth.EXPECT().ListProfiles(gomock.Any(), adminIdentity.Scope(), domain.ProfileFilter{}).
			Return([]*domain.Profile{{ID: "u2", Email: "cliente@example.com", Role: domain.RoleClient, ClientID: &tenantID, IsActive: true}}, nil)
		m.clients.EXPECT().List(gomock.Any(), adminIdentity.Scope(), domain.ClientFilter{}).
			Return([]*domain.Client{{ID: "c1", Name: "Clínica Sol"}}, nil)

		req := withIdentity(formRequest(http.MethodPost, "/admin/users/invite", url.Values{"email": {"novo@example.com"}, "role": {"admin"}}), adminIdentity)
		rec := serve(Admin(testRenderer(t), m.admin()), req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "usuário convidado, mas o perfil não foi gravado")
		assert.Contains(t, body, "cliente@example.com")
		assert.Contains(t, body, "<td>Clínica Sol</td>")
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("desativa o perfil quando o checkbox não vem", func(t *testing.T) {
		m := newPageMocks(t)
		role := domain.RoleClient
		inactive := false
		m.auth.EXPECT().UpdateProfile(gomock.Any(), adminIdentity.Scope(), &domain.UpdateProfileRequest{
			ID:       "u2",
			Role:     &role,
			ClientID: utils.StringPtr("c1"),
			IsActive: &inactive,
		}).Return(&domain.Profile{ID: "u2", Role: domain.RoleClient, ClientID: &tenantID}, nil)

		req := withIdentity(formRequest(http.MethodPost, "/admin/profiles/u2", url.Values{
			"role":      {"client"},
			"client_id": {"c1"},
		}), adminIdentity)
		rec := serve(Admin(testRenderer(t), m.admin()), req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/users?ok=profile_saved", rec.Header().Get("Location"))
	})

	t.Run("admin não leva cliente vinculado", func(t *testing.T) {
		m := newPageMocks(t)
		m.auth.EXPECT().UpdateProfile(gomock.Any(), adminIdentity.Scope(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.Scope, req *domain.UpdateProfileRequest) (*domain.Profile, error) {
				assert.Equal(t, domain.RoleAdmin, *req.Role)
				assert.Equal(t, "", *req.ClientID)
				assert.True(t, *req.IsActive)
				return &domain.Profile{ID: "u2", Role: domain.RoleAdmin, IsActive: true}, nil
			})

		req := withIdentity(formRequest(http.MethodPost, "/admin/profiles/u2", url.Values{
			"role":      {"admin"},
			"client_id": {"c1"},
			"is_active": {"true"},
		}), adminIdentity)
		rec := serve(Admin(testRenderer(t), m.admin()), req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})

	t.Run("erro volta para a lista com a mensagem", func(t *testing.T) {
		m := newPageMocks(t)
		m.auth.EXPECT().UpdateProfile(gomock.Any(), adminIdentity.Scope(), gomock.Any()).
			Return(nil, apiErrors.New(domain.ErrInvalidInput, apiErrors.ErrInvalidRequest, "Você não pode remover o próprio acesso de administrador"))
		m.auth.EXPECT().ListProfiles(gomock.Any(), adminIdentity.Scope(), domain.ProfileFilter{}).
			Return([]*domain.Profile{{ID: "u2", Email: "cliente@example.com", Role: domain.RoleClient, ClientID: &tenantID, IsActive: true}}, nil)
		m.clients.EXPECT().List(gomock.Any(), adminIdentity.Scope(), domain.ClientFilter{}).
			Return([]*domain.Client{{ID: "c1", Name: "Clínica Sol"}}, nil)

		req := withIdentity(formRequest(http.MethodPost, "/admin/profiles/u1", url.Values{"role": {"client"}}), adminIdentity)
		rec := serve(Admin(testRenderer(t), m.admin()), req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Você não pode remover o próprio acesso de administrador")
		assert.Contains(t, body, `action="/admin/profiles/u2"`)
		assert.Contains(t, body, `<option value="c1" selected>Clínica Sol</option>`)
	})
}
