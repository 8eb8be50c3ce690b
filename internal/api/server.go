package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/vfg2006/agency-dashboard/internal/api/handler"
	"github.com/vfg2006/agency-dashboard/internal/api/handler/router"
	"github.com/vfg2006/agency-dashboard/internal/config"
	"github.com/vfg2006/agency-dashboard/internal/usecases/authenticating"
	"github.com/vfg2006/agency-dashboard/internal/usecases/campaigns"
	"github.com/vfg2006/agency-dashboard/internal/usecases/clients"
	"github.com/vfg2006/agency-dashboard/internal/usecases/contacting"
	"github.com/vfg2006/agency-dashboard/internal/usecases/guarding"
	"github.com/vfg2006/agency-dashboard/internal/usecases/insighting"
	"github.com/vfg2006/agency-dashboard/internal/usecases/leads"
	"github.com/vfg2006/agency-dashboard/internal/web"
	"github.com/vfg2006/agency-dashboard/pkg/log"
	"github.com/vfg2006/agency-dashboard/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
}

// Services são as dependências das rotas, montadas em cmd/api
type Services struct {
	Database      handler.Pinger
	Authenticator authenticating.Authenticator
	Clients       clients.ClientService
	Campaigns     campaigns.CampaignService
	Leads         leads.LeadService
	Insights      insighting.Insighter
	Contacts      contacting.ContactService
	MetricsSync   handler.MetricsSync
}

func New(config *config.Config, services Services) (*Server, error) {
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, services, renderer),
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
	}

	return srv, nil
}

// NewHandler monta as rotas e a cadeia de middlewares globais
func NewHandler(config *config.Config, services Services, renderer *web.Renderer) http.Handler {
	cookies := middleware.NewSessionCookies(config.Session)

	dashboardServices := handler.DashboardServices{
		Clients:   services.Clients,
		Campaigns: services.Campaigns,
		Leads:     services.Leads,
		Insights:  services.Insights,
	}

	adminServices := handler.AdminServices{
		Authenticator: services.Authenticator,
		Clients:       services.Clients,
		Campaigns:     services.Campaigns,
		Contacts:      services.Contacts,
	}

	rt := router.New(
		router.WithInstrumentation(middleware.Metrics),
		router.WithNotFound(handler.NotFound(renderer)),
		router.WithRoutes(handler.Healthcheck(services.Database)...),
		router.WithRoutes(handler.Authentication(services.Authenticator, cookies, renderer)...),
		router.WithRoutes(handler.Pages(renderer, dashboardServices)...),
		router.WithRoutes(handler.Admin(renderer, adminServices)...),
		router.WithRoutes(handler.Guide(services.Contacts)...),
		router.WithRoutes(handler.Leads(services.Leads)...),
		router.WithRoutes(handler.Sync(services.MetricsSync)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins),
		middleware.SessionMiddleware(services.Authenticator, guarding.NewGuard(config.Session), cookies),
	}

	return alice.New(middlewares...).Then(rt)
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		log.L.WithFields(log.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.L.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	// Aguardar pelo sinal ou pelo cancelamento do contexto
	select {
	case <-done:
		log.L.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		log.L.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.L.WithFields(log.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.L.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	log.L.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	log.L.Info("Servidor HTTP desligado com sucesso")
	return nil
}
