package handler

import (
	"net/http"

	"github.com/vfg2006/agency-dashboard/internal/api/handler/router"
	"github.com/vfg2006/agency-dashboard/internal/usecases/authenticating"
	"github.com/vfg2006/agency-dashboard/internal/usecases/contacting"
	"github.com/vfg2006/agency-dashboard/internal/usecases/leads"
	"github.com/vfg2006/agency-dashboard/internal/web"
	"github.com/vfg2006/agency-dashboard/pkg/middleware"
)

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: MetricsHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator, cookies middleware.SessionCookies, renderer *web.Renderer) []router.Route {
	return []router.Route{
		{
			Path:    "/",
			Method:  http.MethodGet,
			Handler: Root(),
		},
		{
			Path:    "/login",
			Method:  http.MethodGet,
			Handler: LoginPage(renderer),
		},
		{
			Path:    "/login",
			Method:  http.MethodPost,
			Handler: Login(service, cookies, renderer),
		},
		{
			Path:    "/auth/signout",
			Method:  http.MethodGet,
			Handler: SignOut(service, cookies),
		},
		{
			Path:    "/auth/signout",
			Method:  http.MethodPost,
			Handler: SignOut(service, cookies),
		},
	}
}

// Pages são as páginas do painel; o acesso é decidido pelo guard no middleware de sessão
func Pages(renderer *web.Renderer, services DashboardServices) []router.Route {
	return []router.Route{
		{
			Path:    "/dashboard",
			Method:  http.MethodGet,
			Handler: Dashboard(renderer, services),
		},
		{
			Path:    "/dashboard/leads",
			Method:  http.MethodGet,
			Handler: LeadsPage(renderer, services),
		},
		{
			Path:    "/dashboard/leads/:id/status",
			Method:  http.MethodPost,
			Handler: MoveLead(renderer, services),
		},
		{
			Path:    "/dashboard/campaigns",
			Method:  http.MethodGet,
			Handler: CampaignsPage(renderer, services),
		},
		{
			Path:    "/dashboard/campaigns/:id",
			Method:  http.MethodGet,
			Handler: CampaignPage(renderer, services),
		},
		{
			Path:    "/dashboard/metrics",
			Method:  http.MethodGet,
			Handler: MetricsPage(renderer, services),
		},
	}
}

func Admin(renderer *web.Renderer, services AdminServices) []router.Route {
	return []router.Route{
		{
			Path:    "/admin/clients",
			Method:  http.MethodGet,
			Handler: AdminClients(renderer, services),
		},
		{
			Path:    "/admin/clients",
			Method:  http.MethodPost,
			Handler: CreateClient(renderer, services),
		},
		{
			Path:    "/admin/clients/:id",
			Method:  http.MethodGet,
			Handler: AdminClient(renderer, services),
		},
		{
			Path:    "/admin/clients/:id",
			Method:  http.MethodPost,
			Handler: UpdateClient(renderer, services),
		},
		{
			Path:    "/admin/clients/:id/campaigns",
			Method:  http.MethodPost,
			Handler: CreateClientCampaign(renderer, services),
		},
		{
			Path:    "/admin/users",
			Method:  http.MethodGet,
			Handler: AdminUsers(renderer, services),
		},
		{
			Path:    "/admin/users/invite",
			Method:  http.MethodPost,
			Handler: InviteUser(renderer, services),
		},
		{
			Path:    "/admin/profiles/:id",
			Method:  http.MethodPost,
			Handler: UpdateUser(renderer, services),
		},
	}
}

func Guide(service contacting.ContactService) []router.Route {
	return []router.Route{
		{
			Path:    "/api/guide",
			Method:  http.MethodPost,
			Handler: SubmitGuide(service),
		},
	}
}

func Leads(service leads.LeadService) []router.Route {
	return []router.Route{
		{
			Path:        "/api/leads",
			Method:      http.MethodPost,
			Handler:     CreateLead(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/api/leads/:id/status",
			Method:      http.MethodPatch,
			Handler:     UpdateLeadStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Sync(service MetricsSync) []router.Route {
	return []router.Route{
		{
			Path:        "/api/admin/sync/run",
			Method:      http.MethodPost,
			Handler:     RunSync(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/api/admin/sync/status",
			Method:      http.MethodGet,
			Handler:     SyncStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
