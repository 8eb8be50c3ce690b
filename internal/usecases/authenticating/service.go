package authenticating

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vfg2006/agency-dashboard/infrastructure/integrator/supabase/authclient"
	"github.com/vfg2006/agency-dashboard/infrastructure/repository"
	"github.com/vfg2006/agency-dashboard/internal/config"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
	"github.com/vfg2006/agency-dashboard/pkg/log"
)

// AuthProvider são os fluxos do usuário no servidor de autenticação
type AuthProvider interface {
	Configured() bool
	SignInWithPassword(ctx context.Context, email, password string) (*authclient.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*authclient.Session, error)
	GetUser(ctx context.Context, accessToken string) (*authclient.User, error)
	SignOut(ctx context.Context, accessToken string) error
}

// AdminProvider são as operações com a service role key
type AdminProvider interface {
	InviteUserByEmail(ctx context.Context, email string, opts authclient.InviteOptions) (*authclient.User, error)
}

// AdminFactory cria um AdminProvider novo a cada operação administrativa
type AdminFactory func() AdminProvider

type SessionResolver interface {
	ResolveSession(ctx context.Context, tokens domain.SessionTokens) (*domain.Identity, *domain.SessionTokens, error)
}

type Authenticator interface {
	SessionResolver
	SignIn(ctx context.Context, email, password string) (*domain.Identity, *domain.SessionTokens, error)
	SignOut(ctx context.Context, tokens domain.SessionTokens)
	InviteUser(ctx context.Context, scope domain.Scope, req *domain.InviteUserRequest) (*domain.Profile, error)
	ListProfiles(ctx context.Context, scope domain.Scope, filter domain.ProfileFilter) ([]*domain.Profile, error)
	GetProfile(ctx context.Context, scope domain.Scope, id string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, scope domain.Scope, req *domain.UpdateProfileRequest) (*domain.Profile, error)
}

type Service struct {
	auth        AuthProvider
	newAdmin    AdminFactory
	profileRepo repository.ProfileRepository
	jwtSecret   string
	inviteURL   string
	validator   *validator.Validate
}

func NewService(
	auth AuthProvider,
	newAdmin AdminFactory,
	profileRepo repository.ProfileRepository,
	cfg *config.Config,
) *Service {
	return &Service{
		auth:        auth,
		newAdmin:    newAdmin,
		profileRepo: profileRepo,
		jwtSecret:   cfg.Supabase.JWTSecret,
		inviteURL:   cfg.App.SiteURL + cfg.Session.LoginPath,
		validator:   validator.New(),
	}
}

// NewAdminFactory devolve a fábrica padrão baseada em authclient.NewAdminClient
func NewAdminFactory(cfg config.Supabase) AdminFactory {
	return func() AdminProvider {
		return authclient.NewAdminClient(cfg)
	}
}

type verifiedUser struct {
	id    string
	email string
}

// ResolveSession valida os tokens do cookie. Sem tokens ou com tokens recusados o resultado é anônimo (nil, nil, nil).
// Quando o servidor de autenticação não pode ser consultado, devolve erro e o chamador decide seguir sem sessão.
func (s *Service) ResolveSession(ctx context.Context, tokens domain.SessionTokens) (*domain.Identity, *domain.SessionTokens, error) {
	if tokens.Empty() {
		return nil, nil, nil
	}

	if s.auth == nil || !s.auth.Configured() {
		return nil, nil, authclient.ErrNotConfigured
	}

	user, err := s.verify(ctx, tokens.AccessToken)
	var refreshed *domain.SessionTokens

	if err != nil {
		if !IsRejected(err) {
			return nil, nil, err
		}

		if tokens.RefreshToken == "" {
			return nil, nil, nil
		}

		session, refreshErr := s.auth.RefreshSession(ctx, tokens.RefreshToken)
		if refreshErr != nil {
			if IsRejected(refreshErr) {
				log.ForContext(ctx).Debug("Refresh token recusado, seguindo como anônimo")
				return nil, nil, nil
			}
			return nil, nil, refreshErr
		}

		newTokens := session.Tokens()
		refreshed = &newTokens
		user = &verifiedUser{id: session.User.ID, email: session.User.Email}
	}

	identity := &domain.Identity{
		UserID: user.id,
		Email:  user.email,
	}
	if err := s.loadProfile(ctx, identity); err != nil {
		log.ForContext(ctx).WithField("user_id", identity.UserID).Info("Perfil desativado, sessão descartada")
		return nil, nil, nil
	}

	return identity, refreshed, nil
}

func (s *Service) verify(ctx context.Context, accessToken string) (*verifiedUser, error) {
	if accessToken == "" {
		return nil, authclient.ErrUnauthorized
	}

	if s.jwtSecret != "" {
		claims, err := authclient.VerifyAccessToken(accessToken, s.jwtSecret)
		if err != nil {
			return nil, err
		}
		return &verifiedUser{id: claims.Subject, email: claims.Email}, nil
	}

	user, err := s.auth.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	return &verifiedUser{id: user.ID, email: user.Email}, nil
}

// loadProfile preenche papel e tenant; falha na consulta deixa o papel vazio (não admin).
// Perfil desativado devolve ErrUserInactive e a identidade não deve ser usada.
func (s *Service) loadProfile(ctx context.Context, identity *domain.Identity) error {
	profile, err := s.profileRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		log.ForContext(ctx).WithFields(log.Fields{
			"user_id": identity.UserID,
			"error":   err.Error(),
		}).Warn("Erro ao buscar perfil do usuário, seguindo sem papel")
		return nil
	}

	if profile == nil {
		log.ForContext(ctx).WithField("user_id", identity.UserID).Warn("Usuário autenticado sem perfil")
		return nil
	}

	if !profile.IsActive {
		return ErrUserInactive
	}

	identity.Role = profile.Role
	identity.ClientID = profile.ClientID
	if identity.Email == "" {
		identity.Email = profile.Email
	}

	return nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.Identity, *domain.SessionTokens, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, nil, apiErrors.New(ErrInvalidCredentials, apiErrors.ErrMissingRequiredData, "Email e senha são obrigatórios")
	}

	if s.auth == nil || !s.auth.Configured() {
		return nil, nil, apiErrors.New(ErrAuthUnavailable, apiErrors.ErrAuthUnavailable, "Autenticação não configurada")
	}

	session, err := s.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		if IsRejected(err) {
			return nil, nil, apiErrors.New(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "Email ou senha inválidos")
		}
		log.ForContext(ctx).WithError(err).Error("Erro ao autenticar usuário")
		return nil, nil, apiErrors.New(ErrAuthUnavailable, apiErrors.ErrAuthUnavailable, "Não foi possível autenticar agora")
	}

	tokens := session.Tokens()

	identity := &domain.Identity{
		UserID: session.User.ID,
		Email:  session.User.Email,
	}
	if err := s.loadProfile(ctx, identity); err != nil {
		log.ForContext(ctx).WithField("user_id", identity.UserID).Warn("Login recusado para perfil desativado")
		s.SignOut(ctx, tokens)
		return nil, nil, apiErrors.New(err, apiErrors.ErrUserDisabled, "Usuário desativado. Fale com a agência.")
	}

	return identity, &tokens, nil
}

// SignOut encerra a sessão remota em best effort; o cookie é sempre limpo pelo chamador
func (s *Service) SignOut(ctx context.Context, tokens domain.SessionTokens) {
	if s.auth == nil || !s.auth.Configured() || tokens.AccessToken == "" {
		return
	}

	if err := s.auth.SignOut(ctx, tokens.AccessToken); err != nil {
		log.ForContext(ctx).WithError(err).Warn("Erro ao encerrar sessão no servidor de autenticação")
	}
}

// InviteUser convida o usuário e grava o perfil. São duas etapas sem atomicidade:
// a primeira falha é reportada e nada é desfeito.
func (s *Service) InviteUser(ctx context.Context, scope domain.Scope, req *domain.InviteUserRequest) (*domain.Profile, error) {
	if !scope.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, apiErrors.New(ErrInvalidRequest, apiErrors.ErrInvalidRequest, err.Error())
	}

	if req.Role == domain.RoleClient && (req.ClientID == nil || *req.ClientID == "") {
		return nil, apiErrors.New(domain.ErrInvalidInput, apiErrors.ErrMissingRequiredData, "Usuários de cliente precisam de um cliente vinculado")
	}
	if req.Role == domain.RoleAdmin {
		req.ClientID = nil
	}

	data := map[string]any{"role": string(req.Role)}
	if req.FullName != nil {
		data["full_name"] = *req.FullName
	}

	user, err := s.newAdmin().InviteUserByEmail(ctx, req.Email, authclient.InviteOptions{
		RedirectTo: s.inviteURL,
		Data:       data,
	})
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao convidar usuário")
		switch {
		case errors.Is(err, authclient.ErrUserExists):
			return nil, apiErrors.New(ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, "Já existe um usuário com este email")
		case IsUnavailable(err):
			return nil, apiErrors.New(ErrAuthUnavailable, apiErrors.ErrAuthUnavailable, "Servidor de autenticação indisponível")
		default:
			return nil, apiErrors.New(err, apiErrors.ErrExternalService, "Falha ao convidar usuário")
		}
	}

	profile, err := s.profileRepo.Upsert(ctx, &domain.Profile{
		ID:       user.ID,
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
		ClientID: req.ClientID,
		IsActive: true,
	})
	if err != nil {
		log.ForContext(ctx).WithFields(log.Fields{
			"user_id": user.ID,
			"error":   err.Error(),
		}).Error("Usuário convidado, mas o perfil não foi gravado")
		return nil, apiErrors.New(ErrProfileNotSaved, apiErrors.ErrPartialFailure, ErrProfileNotSaved.Error())
	}

	return profile, nil
}

func (s *Service) ListProfiles(ctx context.Context, scope domain.Scope, filter domain.ProfileFilter) ([]*domain.Profile, error) {
	if scope.IsAdmin() {
		return s.profileRepo.List(ctx, filter)
	}

	if scope.UserID == "" {
		return nil, domain.ErrForbidden
	}

	profile, err := s.profileRepo.GetByID(ctx, scope.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return []*domain.Profile{}, nil
	}

	return []*domain.Profile{profile}, nil
}

func (s *Service) GetProfile(ctx context.Context, scope domain.Scope, id string) (*domain.Profile, error) {
	if !scope.IsAdmin() && scope.UserID != id {
		return nil, domain.ErrForbidden
	}

	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}

	return profile, nil
}

func (s *Service) UpdateProfile(ctx context.Context, scope domain.Scope, req *domain.UpdateProfileRequest) (*domain.Profile, error) {
	if !scope.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, apiErrors.New(ErrInvalidRequest, apiErrors.ErrInvalidRequest, err.Error())
	}

	// O admin não pode se desativar nem deixar de ser admin pela própria sessão
	if req.ID == scope.UserID &&
		((req.IsActive != nil && !*req.IsActive) || (req.Role != nil && *req.Role != domain.RoleAdmin)) {
		return nil, apiErrors.New(domain.ErrInvalidInput, apiErrors.ErrInvalidRequest, "Você não pode remover o próprio acesso de administrador")
	}

	current, err := s.GetProfile(ctx, scope, req.ID)
	if err != nil {
		return nil, err
	}

	merged := *current
	if req.Role != nil {
		merged.Role = *req.Role
	}
	if req.ClientID != nil {
		if strings.TrimSpace(*req.ClientID) == "" {
			merged.ClientID = nil
		} else {
			merged.ClientID = req.ClientID
		}
	}
	if err := merged.Validate(); err != nil {
		return nil, apiErrors.New(err, apiErrors.ErrMissingRequiredData, "Usuários de cliente precisam de um cliente vinculado")
	}

	return s.profileRepo.Update(ctx, req)
}
