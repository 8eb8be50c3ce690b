package main

import (
	"context"

	"github.com/vfg2006/agency-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/agency-dashboard/infrastructure/integrator/crm"
	"github.com/vfg2006/agency-dashboard/infrastructure/integrator/crm/crmclient"
	"github.com/vfg2006/agency-dashboard/infrastructure/integrator/meta"
	"github.com/vfg2006/agency-dashboard/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/agency-dashboard/infrastructure/integrator/supabase/authclient"
	"github.com/vfg2006/agency-dashboard/infrastructure/repository"
	"github.com/vfg2006/agency-dashboard/internal/api"
	"github.com/vfg2006/agency-dashboard/internal/config"
	"github.com/vfg2006/agency-dashboard/internal/scheduler"
	"github.com/vfg2006/agency-dashboard/internal/usecases/authenticating"
	"github.com/vfg2006/agency-dashboard/internal/usecases/campaigns"
	"github.com/vfg2006/agency-dashboard/internal/usecases/clients"
	"github.com/vfg2006/agency-dashboard/internal/usecases/contacting"
	"github.com/vfg2006/agency-dashboard/internal/usecases/insighting"
	"github.com/vfg2006/agency-dashboard/internal/usecases/leads"
	"github.com/vfg2006/agency-dashboard/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.L.Fatal(err)
	}

	// Nível, formato e destino dos logs
	log.Configure(log.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	log.L.Infof("Nível de log configurado para: %s", cfg.Log.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	clientRepo := repository.NewClientRepository(pgConn)
	profileRepo := repository.NewProfileRepository(pgConn)
	leadRepo := repository.NewLeadRepository(pgConn)
	campaignRepo := repository.NewCampaignRepository(pgConn)
	metricsRepo := repository.NewCampaignMetricsRepository(pgConn)
	submissionRepo := repository.NewContactSubmissionRepository(pgConn)

	authenticator := authenticating.NewService(
		authclient.NewClient(cfg.Supabase),
		authenticating.NewAdminFactory(cfg.Supabase),
		profileRepo,
		cfg,
	)

	metaIntegrator := meta.New(cfg.Meta, metaclient.NewClient(cfg.Meta))
	crmIntegrator := crm.New(cfg.CRM, crmclient.NewClient(cfg.CRM))

	clientService := clients.NewService(clientRepo)
	campaignService := campaigns.NewService(campaignRepo)
	leadService := leads.NewService(leadRepo)
	insightService := insighting.NewService(campaignRepo, metricsRepo, leadRepo)
	contactService := contacting.NewService(submissionRepo, leadRepo, crmIntegrator)

	// Único agendador em segundo plano: sincronização de métricas da Meta
	metricsSyncService := scheduler.NewMetricsSyncService(
		clientRepo,
		campaignRepo,
		metricsRepo,
		metaIntegrator,
		cfg,
	)

	if err := metricsSyncService.Start(ctx); err != nil {
		log.L.WithError(err).Error("Erro ao iniciar o agendador de sincronização de métricas da Meta")
	} else {
		log.L.Info("Agendador de sincronização de métricas da Meta iniciado com sucesso")
	}

	server, err := api.New(cfg, api.Services{
		Database:      pgConn,
		Authenticator: authenticator,
		Clients:       clientService,
		Campaigns:     campaignService,
		Leads:         leadService,
		Insights:      insightService,
		Contacts:      contactService,
		MetricsSync:   metricsSyncService,
	})
	if err != nil {
		log.L.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		log.L.Error(err)
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	log.L.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
