package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/internal/usecases/authenticating"
	"github.com/vfg2006/agency-dashboard/internal/usecases/campaigns"
	"github.com/vfg2006/agency-dashboard/internal/usecases/clients"
	"github.com/vfg2006/agency-dashboard/internal/usecases/contacting"
	"github.com/vfg2006/agency-dashboard/internal/web"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
	"github.com/vfg2006/agency-dashboard/pkg/log"
)

const submissionsLimit = 50

// AdminServices reúne as actions das páginas administrativas
type AdminServices struct {
	Authenticator authenticating.Authenticator
	Clients       clients.ClientService
	Campaigns     campaigns.CampaignService
	Contacts      contacting.ContactService
}

type adminClientsView struct {
	Search      string
	Clients     []*domain.Client
	Submissions []*domain.ContactSubmission
	Form        *domain.CreateClientRequest
}

type adminClientView struct {
	Client    *domain.Client
	Campaigns []*domain.Campaign
	Profiles  []*domain.Profile
}

type adminUsersView struct {
	Profiles    []*domain.Profile
	Clients     []*domain.Client
	ClientNames map[string]string
}

func AdminClients(renderer *web.Renderer, services AdminServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := pageIdentity(w, r)
		if !ok {
			return
		}
		renderAdminClients(w, r, renderer, services, identity, http.StatusOK, nil, "")
	}
}

func renderAdminClients(
	w http.ResponseWriter,
	r *http.Request,
	renderer *web.Renderer,
	services AdminServices,
	identity *domain.Identity,
	status int,
	form *domain.CreateClientRequest,
	formError string,
) {
	ctx := r.Context()
	scope := identity.Scope()
	view := adminClientsView{Search: queryString(r, "q"), Form: form}

	var g errgroup.Group
	g.Go(func() error {
		list, err := services.Clients.List(ctx, scope, domain.ClientFilter{Search: view.Search})
		if err != nil {
			return errors.Wrap(err, "clientes")
		}
		view.Clients = list
		return nil
	})
	g.Go(func() error {
		list, err := services.Contacts.ListSubmissions(ctx, scope, submissionsLimit)
		if err != nil {
			return errors.Wrap(err, "contatos do guia")
		}
		view.Submissions = list
		return nil
	})
	logPartial(r, "admin_clients", g.Wait())

	page := newPage(r, identity, "Clientes", "clients")
	page.Error = formError
	page.Data = view
	renderer.Render(w, status, "admin_clients", page)
}

// CreateClient cria o cliente pelo formulário e abre a página dele
func CreateClient(renderer *web.Renderer, services AdminServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := pageIdentity(w, r)
		if !ok {
			return
		}

		if err := r.ParseForm(); err != nil {
			renderAdminClients(w, r, renderer, services, identity, http.StatusBadRequest, nil, "Formato de requisição inválido")
			return
		}

		req := &domain.CreateClientRequest{
			Name:               formString(r, "name"),
			ContactName:        formOptional(r, "contact_name"),
			ContactEmail:       formOptional(r, "contact_email"),
			ContactPhone:       formOptional(r, "contact_phone"),
			MetaAdAccountID:    formOptional(r, "meta_ad_account_id"),
			MetaPixelID:        formOptional(r, "meta_pixel_id"),
			MetaPageID:         formOptional(r, "meta_page_id"),
			InstagramAccountID: formOptional(r, "instagram_account_id"),
		}

		client, err := services.Clients.Create(r.Context(), identity.Scope(), req)
		if err != nil {
			status := apiErrors.StatusFor(apiErrors.CodeFor(err))
			renderAdminClients(w, r, renderer, services, identity, status, req, apiErrors.MessageFor(err, "Não foi possível criar o cliente"))
			return
		}

		log.ForContext(r.Context()).WithField("client_id", client.ID).Info("Cliente criado")
		seeOther(w, r, "/admin/clients/"+client.ID+"?ok=client_saved")
	}
}

func AdminClient(renderer *web.Renderer, services AdminServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := pageIdentity(w, r)
		if !ok {
			return
		}
		renderAdminClient(w, r, renderer, services, identity, http.StatusOK, "")
	}
}

func renderAdminClient(
	w http.ResponseWriter,
	r *http.Request,
	renderer *web.Renderer,
	services AdminServices,
	identity *domain.Identity,
	status int,
	formError string,
) {
	ctx := r.Context()
	scope := identity.Scope()
	id := httprouter.ParamsFromContext(ctx).ByName("id")

	client, err := services.Clients.Get(ctx, scope, id)
	if err != nil {
		renderError(w, r, renderer, identity, err)
		return
	}

	view := adminClientView{Client: client}

	var g errgroup.Group
	g.Go(func() error {
		list, err := services.Campaigns.List(ctx, scope, domain.CampaignFilter{ClientID: &client.ID})
		if err != nil {
			return errors.Wrap(err, "campanhas")
		}
		view.Campaigns = list
		return nil
	})
	g.Go(func() error {
		role := domain.RoleClient
		list, err := services.Authenticator.ListProfiles(ctx, scope, domain.ProfileFilter{Role: &role, ClientID: &client.ID})
		if err != nil {
			return errors.Wrap(err, "usuários")
		}
		view.Profiles = list
		return nil
	})
	logPartial(r, "admin_client", g.Wait())

	page := newPage(r, identity, client.Name, "clients")
	page.Error = formError
	page.Data = view
	renderer.Render(w, status, "admin_client", page)
}

// UpdateClient aplica o formulário de edição; campos em branco não são alterados
func UpdateClient(renderer *web.Renderer, services AdminServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := pageIdentity(w, r)
		if !ok {
			return
		}

		if err := r.ParseForm(); err != nil {
			renderAdminClient(w, r, renderer, services, identity, http.StatusBadRequest, "Formato de requisição inválido")
			return
		}

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		active := formString(r, "is_active") == "true"
		name := formString(r, "name")

		req := &domain.UpdateClientRequest{
			ID:                 id,
			Name:               &name,
			ContactName:        formOptional(r, "contact_name"),
			ContactEmail:       formOptional(r, "contact_email"),
			ContactPhone:       formOptional(r, "contact_phone"),
			MetaAdAccountID:    formOptional(r, "meta_ad_account_id"),
			MetaPixelID:        formOptional(r, "meta_pixel_id"),
			MetaPageID:         formOptional(r, "meta_page_id"),
			InstagramAccountID: formOptional(r, "instagram_account_id"),
			IsActive:           &active,
		}

		if _, err := services.Clients.Update(r.Context(), identity.Scope(), req); err != nil {
			status := apiErrors.StatusFor(apiErrors.CodeFor(err))
			renderAdminClient(w, r, renderer, services, identity, status, apiErrors.MessageFor(err, "Não foi possível salvar o cliente"))
			return
		}

		seeOther(w, r, "/admin/clients/"+id+"?ok=client_saved")
	}
}

// CreateClientCampaign cria uma campanha para o cliente da URL
func CreateClientCampaign(renderer *web.Renderer, services AdminServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := pageIdentity(w, r)
		if !ok {
			return
		}

		if err := r.ParseForm(); err != nil {
			renderAdminClient(w, r, renderer, services, identity, http.StatusBadRequest, "Formato de requisição inválido")
			return
		}

		clientID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		req, err := campaignForm(r, clientID)
		if err == nil {
			_, err = services.Campaigns.Create(r.Context(), identity.Scope(), req)
		}
		if err != nil {
			status := apiErrors.StatusFor(apiErrors.CodeFor(err))
			renderAdminClient(w, r, renderer, services, identity, status, apiErrors.MessageFor(err, "Não foi possível criar a campanha"))
			return
		}

		seeOther(w, r, "/admin/clients/"+clientID+"?ok=campaign_created")
	}
}

func campaignForm(r *http.Request, clientID string) (*domain.CreateCampaignRequest, error) {
	budget, err := formFloat(r, "budget")
	if err != nil {
		return nil, err
	}
	startDate, err := formDate(r, "start_date")
	if err != nil {
		return nil, err
	}
	endDate, err := formDate(r, "end_date")
	if err != nil {
		return nil, err
	}

	return &domain.CreateCampaignRequest{
		ClientID:       clientID,
		Name:           formString(r, "name"),
		Platform:       domain.CampaignPlatform(formString(r, "platform")),
		Status:         domain.CampaignStatus(formString(r, "status")),
		Budget:         budget,
		MonthlyCost:    formOptional(r, "monthly_cost"),
		StartDate:      startDate,
		EndDate:        endDate,
		MetaCampaignID: formOptional(r, "meta_campaign_id"),
	}, nil
}

func AdminUsers(renderer *web.Renderer, services AdminServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := pageIdentity(w, r)
		if !ok {
			return
		}
		renderAdminUsers(w, r, renderer, services, identity, http.StatusOK, "")
	}
}

func renderAdminUsers(
	w http.ResponseWriter,
	r *http.Request,
	renderer *web.Renderer,
	services AdminServices,
	identity *domain.Identity,
	status int,
	formError string,
) {
	ctx := r.Context()
	scope := identity.Scope()
	view := adminUsersView{ClientNames: map[string]string{}}

	var g errgroup.Group
	g.Go(func() error {
		list, err := services.Authenticator.ListProfiles(ctx, scope, domain.ProfileFilter{Search: queryString(r, "q")})
		if err != nil {
			return errors.Wrap(err, "usuários")
		}
		view.Profiles = list
		return nil
	})
	g.Go(func() error {
		list, err := services.Clients.List(ctx, scope, domain.ClientFilter{})
		if err != nil {
			return errors.Wrap(err, "clientes")
		}
		view.Clients = list
		return nil
	})
	logPartial(r, "admin_users", g.Wait())

	for _, client := range view.Clients {
		view.ClientNames[client.ID] = client.Name
	}

	page := newPage(r, identity, "Usuários", "users")
	page.Error = formError
	page.Data = view
	renderer.Render(w, status, "admin_users", page)
}

// InviteUser convida pelo servidor de autenticação e grava o perfil; a falha parcial é exibida
func InviteUser(renderer *web.Renderer, services AdminServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := pageIdentity(w, r)
		if !ok {
			return
		}

		if err := r.ParseForm(); err != nil {
			renderAdminUsers(w, r, renderer, services, identity, http.StatusBadRequest, "Formato de requisição inválido")
			return
		}

		req := &domain.InviteUserRequest{
			Email:    formString(r, "email"),
			FullName: formOptional(r, "full_name"),
			Role:     domain.Role(formString(r, "role")),
			ClientID: formOptional(r, "client_id"),
		}

		if _, err := services.Authenticator.InviteUser(r.Context(), identity.Scope(), req); err != nil {
			status := apiErrors.StatusFor(apiErrors.CodeFor(err))
			renderAdminUsers(w, r, renderer, services, identity, status, apiErrors.MessageFor(err, "Não foi possível enviar o convite"))
			return
		}

		seeOther(w, r, "/admin/users?ok=invited")
	}
}

// UpdateUser altera papel, cliente vinculado e ativação de um perfil.
// O checkbox is_active ausente desativa o perfil.
func UpdateUser(renderer *web.Renderer, services AdminServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := pageIdentity(w, r)
		if !ok {
			return
		}

		if err := r.ParseForm(); err != nil {
			renderAdminUsers(w, r, renderer, services, identity, http.StatusBadRequest, "Formato de requisição inválido")
			return
		}

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		active := formString(r, "is_active") == "true"
		role := domain.Role(formString(r, "role"))
		clientID := formString(r, "client_id")
		if role == domain.RoleAdmin {
			clientID = ""
		}

		req := &domain.UpdateProfileRequest{
			ID:       id,
			ClientID: &clientID,
			IsActive: &active,
		}
		if role != "" {
			req.Role = &role
		}

		profile, err := services.Authenticator.UpdateProfile(r.Context(), identity.Scope(), req)
		if err != nil {
			status := apiErrors.StatusFor(apiErrors.CodeFor(err))
			renderAdminUsers(w, r, renderer, services, identity, status, apiErrors.MessageFor(err, "Não foi possível salvar o usuário"))
			return
		}

		log.ForContext(r.Context()).WithFields(log.Fields{
			"user_id":   profile.ID,
			"role":      profile.Role,
			"is_active": profile.IsActive,
		}).Info("Perfil de usuário atualizado")
		seeOther(w, r, "/admin/users?ok=profile_saved")
	}
}
