package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/internal/usecases/campaigns"
	"github.com/vfg2006/agency-dashboard/internal/usecases/clients"
	"github.com/vfg2006/agency-dashboard/internal/usecases/insighting"
	"github.com/vfg2006/agency-dashboard/internal/usecases/leads"
	"github.com/vfg2006/agency-dashboard/internal/web"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
	"github.com/vfg2006/agency-dashboard/pkg/log"
	"github.com/vfg2006/agency-dashboard/pkg/utils"
)

const recentLeadsLimit = 5

// DashboardServices reúne as actions usadas pelas páginas do painel
type DashboardServices struct {
	Clients   clients.ClientService
	Campaigns campaigns.CampaignService
	Leads     leads.LeadService
	Insights  insighting.Insighter
	Now       func() time.Time
}

func (s DashboardServices) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type dashboardView struct {
	Period      periodView
	ClientID    string
	Clients     []*domain.Client
	Metrics     *domain.ClientMetrics
	RecentLeads []*domain.Lead
	Campaigns   []*domain.Campaign
}

type leadsView struct {
	Search   string
	ClientID string
	Clients  []*domain.Client
	Board    *leads.Board
}

type campaignsView struct {
	Search    string
	Status    string
	Platform  string
	Campaigns []*domain.Campaign
}

type campaignView struct {
	Period   periodView
	Campaign *domain.Campaign
	Series   []insighting.DailyPoint
}

type metricsView struct {
	Period   periodView
	ClientID string
	Clients  []*domain.Client
	Summary  *domain.ClientMetrics
	Series   []insighting.DailyPoint
}

// adminClients carrega a lista do seletor de clientes; para clientes a lista fica vazia
func adminClients(g *errgroup.Group, r *http.Request, services DashboardServices, identity *domain.Identity, dest *[]*domain.Client) {
	if !identity.IsAdmin() {
		return
	}
	g.Go(func() error {
		list, err := services.Clients.List(r.Context(), identity.Scope(), domain.ClientFilter{})
		if err != nil {
			return errors.Wrap(err, "clientes")
		}
		*dest = list
		return nil
	})
}

// logPartial registra a primeira seção que falhou; as demais são renderizadas normalmente
func logPartial(r *http.Request, page string, err error) {
	if err == nil {
		return
	}
	log.ForContext(r.Context()).WithError(err).WithField("page", page).Warn("Seção da página não carregada, renderizando vazia")
}

func Dashboard(renderer *web.Renderer, services DashboardServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := pageIdentity(w, r)
		if !ok {
			return
		}

		ctx := r.Context()
		scope := identity.Scope()
		period, periodView := requestPeriod(r, services.now())
		clientID := utils.NonEmpty(queryString(r, "client_id"))

		view := dashboardView{Period: periodView, ClientID: utils.Deref(clientID)}

		var g errgroup.Group
		adminClients(&g, r, services, identity, &view.Clients)
		g.Go(func() error {
			metrics, err := services.Insights.ClientMetrics(ctx, scope, clientID, period)
			if err != nil {
				return errors.Wrap(err, "métricas")
			}
			view.Metrics = metrics
			return nil
		})
		g.Go(func() error {
			list, err := services.Leads.List(ctx, scope, domain.LeadFilter{ClientID: clientID})
			if err != nil {
				return errors.Wrap(err, "leads")
			}
			if len(list) > recentLeadsLimit {
				list = list[:recentLeadsLimit]
			}
			view.RecentLeads = list
			return nil
		})
		g.Go(func() error {
			list, err := services.Campaigns.List(ctx, scope, domain.CampaignFilter{ClientID: clientID})
			if err != nil {
				return errors.Wrap(err, "campanhas")
			}
			view.Campaigns = list
			return nil
		})
		logPartial(r, "dashboard", g.Wait())

		page := newPage(r, identity, "Resumo", "dashboard")
		page.Data = view
		renderer.Render(w, http.StatusOK, "dashboard", page)
	}
}

func LeadsPage(renderer *web.Renderer, services DashboardServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := pageIdentity(w, r)
		if !ok {
			return
		}

		clientID := utils.NonEmpty(queryString(r, "client_id"))
		view := leadsView{
			Search:   queryString(r, "q"),
			ClientID: utils.Deref(clientID),
		}

		var g errgroup.Group
		adminClients(&g, r, services, identity, &view.Clients)
		g.Go(func() error {
			board, err := services.Leads.Board(r.Context(), identity.Scope(), domain.LeadFilter{ClientID: clientID, Search: view.Search})
			if err != nil {
				return errors.Wrap(err, "board")
			}
			view.Board = board
			return nil
		})
		logPartial(r, "leads", g.Wait())

		page := newPage(r, identity, "Leads", "leads")
		page.Data = view
		renderer.Render(w, http.StatusOK, "leads", page)
	}
}

// MoveLead é o fallback sem JavaScript do kanban: o formulário do card envia o novo status.
// A gravação e a leitura do board correm em paralelo; o board devolvido já mostra o lead na coluna nova.
func MoveLead(renderer *web.Renderer, services DashboardServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := pageIdentity(w, r)
		if !ok {
			return
		}

		if err := r.ParseForm(); err != nil {
			renderError(w, r, renderer, identity, apiErrors.New(domain.ErrInvalidInput, apiErrors.ErrInvalidRequest, "Formato de requisição inválido"))
			return
		}

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		status := domain.LeadStatus(formString(r, "status"))
		clientID := utils.NonEmpty(formString(r, "client_id"))
		view := leadsView{
			Search:   formString(r, "q"),
			ClientID: utils.Deref(clientID),
		}

		var updateErr error
		var g errgroup.Group
		adminClients(&g, r, services, identity, &view.Clients)
		g.Go(func() error {
			_, updateErr = services.Leads.UpdateStatus(r.Context(), identity.Scope(), id, status)
			return nil
		})
		g.Go(func() error {
			board, err := services.Leads.Board(r.Context(), identity.Scope(), domain.LeadFilter{ClientID: clientID, Search: view.Search})
			if err != nil {
				return errors.Wrap(err, "board")
			}
			view.Board = board
			return nil
		})
		boardErr := g.Wait()

		if updateErr != nil {
			renderError(w, r, renderer, identity, updateErr)
			return
		}
		logPartial(r, "leads", boardErr)

		if view.Board != nil {
			view.Board = view.Board.Move(id, status)
		}

		page := newPage(r, identity, "Leads", "leads")
		page.Flash = flashMessages["lead_moved"]
		page.Data = view
		renderer.Render(w, http.StatusOK, "leads", page)
	}
}

func CampaignsPage(renderer *web.Renderer, services DashboardServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := pageIdentity(w, r)
		if !ok {
			return
		}

		view := campaignsView{
			Search:   queryString(r, "q"),
			Status:   queryString(r, "status"),
			Platform: queryString(r, "platform"),
		}

		filter := domain.CampaignFilter{Search: view.Search}
		if view.Status != "" {
			status := domain.CampaignStatus(view.Status)
			filter.Status = &status
		}
		if view.Platform != "" {
			platform := domain.CampaignPlatform(view.Platform)
			filter.Platform = &platform
		}

		page := newPage(r, identity, "Campanhas", "campaigns")

		list, err := services.Campaigns.List(r.Context(), identity.Scope(), filter)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				page.Error = apiErrors.MessageFor(err, "Filtro inválido")
			}
			logPartial(r, "campaigns", err)
		}
		view.Campaigns = list

		page.Data = view
		renderer.Render(w, http.StatusOK, "campaigns", page)
	}
}

func CampaignPage(renderer *web.Renderer, services DashboardServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := pageIdentity(w, r)
		if !ok {
			return
		}

		ctx := r.Context()
		scope := identity.Scope()
		id := httprouter.ParamsFromContext(ctx).ByName("id")

		campaign, err := services.Campaigns.Get(ctx, scope, id)
		if err != nil {
			renderError(w, r, renderer, identity, err)
			return
		}

		period, periodView := requestPeriod(r, services.now())
		view := campaignView{Period: periodView, Campaign: campaign}

		metrics, err := services.Insights.ListMetrics(ctx, scope, domain.MetricsFilter{
			ClientID:   &campaign.ClientID,
			CampaignID: &campaign.ID,
			Period:     period,
		})
		logPartial(r, "campaign", err)
		view.Series = insighting.DailySeries(metrics)

		page := newPage(r, identity, campaign.Name, "campaigns")
		page.Data = view
		renderer.Render(w, http.StatusOK, "campaign", page)
	}
}

func MetricsPage(renderer *web.Renderer, services DashboardServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := pageIdentity(w, r)
		if !ok {
			return
		}

		ctx := r.Context()
		scope := identity.Scope()
		period, periodView := requestPeriod(r, services.now())
		clientID := utils.NonEmpty(queryString(r, "client_id"))

		view := metricsView{Period: periodView, ClientID: utils.Deref(clientID)}

		var g errgroup.Group
		adminClients(&g, r, services, identity, &view.Clients)
		g.Go(func() error {
			summary, err := services.Insights.ClientMetrics(ctx, scope, clientID, period)
			if err != nil {
				return errors.Wrap(err, "resumo")
			}
			view.Summary = summary
			return nil
		})
		g.Go(func() error {
			rows, err := services.Insights.ListMetrics(ctx, scope, domain.MetricsFilter{ClientID: clientID, Period: period})
			if err != nil {
				return errors.Wrap(err, "série diária")
			}
			view.Series = insighting.DailySeries(rows)
			return nil
		})
		logPartial(r, "metrics", g.Wait())

		page := newPage(r, identity, "Métricas", "metrics")
		page.Data = view
		renderer.Render(w, http.StatusOK, "metrics", page)
	}
}
