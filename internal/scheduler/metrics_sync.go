package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vfg2006/agency-dashboard/infrastructure/integrator/meta"
	"github.com/vfg2006/agency-dashboard/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/agency-dashboard/infrastructure/repository"
	"github.com/vfg2006/agency-dashboard/internal/config"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/log"
	"github.com/vfg2006/agency-dashboard/pkg/utils"
)

// MetricsSyncConfig representa a configuração do agendador de métricas de campanhas
type MetricsSyncConfig struct {
	CronSchedule        string
	LookbackDays        int
	RequestDelaySeconds int
	MaxConcurrentJobs   int
	SyncEnabled         bool
}

// SyncResult resume uma execução da sincronização
type SyncResult struct {
	StartedAt         time.Time `json:"started_at"`
	CompletedAt       time.Time `json:"completed_at"`
	PeriodStart       string    `json:"period_start"`
	PeriodEnd         string    `json:"period_end"`
	Clients           int       `json:"clients"`
	FailedClients     int       `json:"failed_clients"`
	RowsUpserted      int       `json:"rows_upserted"`
	UnmatchedRows     int       `json:"unmatched_rows"`
	TokenExpired      bool      `json:"token_expired"`
	ManuallyTriggered bool      `json:"manually_triggered"`
}

// SyncStatus é o corpo do endpoint de status
type SyncStatus struct {
	Enabled           bool        `json:"sync_enabled"`
	CronSchedule      string      `json:"sync_cron"`
	LookbackDays      int         `json:"sync_lookback_days"`
	MaxConcurrentJobs int         `json:"sync_max_concurrent"`
	RequestDelay      int         `json:"sync_request_delay_s"`
	Running           bool        `json:"running"`
	LastResult        *SyncResult `json:"last_result,omitempty"`
}

// MetricsSyncService gerencia o agendamento e execução da sincronização de métricas da Meta.
// É o único worker em segundo plano e não compartilha estado com as requisições.
type MetricsSyncService struct {
	scheduler    *gocron.Scheduler
	config       MetricsSyncConfig
	clientRepo   repository.ClientRepository
	campaignRepo repository.CampaignRepository
	metricsRepo  repository.CampaignMetricsRepository
	metaService  meta.Integrator
	syncRunning  bool
	syncMutex    sync.Mutex
	lastResult   *SyncResult
	now          func() time.Time
	sleep        func(time.Duration)
}

// NewMetricsSyncService cria uma nova instância do serviço de sincronização de métricas
func NewMetricsSyncService(
	clientRepo repository.ClientRepository,
	campaignRepo repository.CampaignRepository,
	metricsRepo repository.CampaignMetricsRepository,
	metaService meta.Integrator,
	appConfig *config.Config,
) *MetricsSyncService {
	syncConfig := MetricsSyncConfig{
		CronSchedule:        appConfig.MetricsSync.CronSchedule,
		LookbackDays:        appConfig.MetricsSync.LookbackDays,
		RequestDelaySeconds: appConfig.MetricsSync.RequestDelaySeconds,
		MaxConcurrentJobs:   appConfig.MetricsSync.MaxConcurrentJobs,
		SyncEnabled:         appConfig.MetricsSync.Enabled,
	}
	if syncConfig.LookbackDays <= 0 {
		syncConfig.LookbackDays = 7
	}
	if syncConfig.MaxConcurrentJobs <= 0 {
		syncConfig.MaxConcurrentJobs = 1
	}

	log.L.WithFields(log.Fields{
		"cron_schedule":         syncConfig.CronSchedule,
		"lookback_days":         syncConfig.LookbackDays,
		"request_delay_seconds": syncConfig.RequestDelaySeconds,
		"max_concurrent_jobs":   syncConfig.MaxConcurrentJobs,
		"sync_enabled":          syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de métricas da Meta carregada")

	return &MetricsSyncService{
		scheduler:    gocron.NewScheduler(time.Local),
		config:       syncConfig,
		clientRepo:   clientRepo,
		campaignRepo: campaignRepo,
		metricsRepo:  metricsRepo,
		metaService:  metaService,
		now:          time.Now,
		sleep:        time.Sleep,
	}
}

// Start inicia o agendador
func (s *MetricsSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		log.L.Info("Sincronização de métricas da Meta desabilitada por configuração")
		return nil
	}

	log.L.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de métricas da Meta")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runExclusive(ctx, false)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de métricas da Meta: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.Info("Parando agendador de sincronização de métricas da Meta")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualSync inicia uma sincronização em segundo plano; devolve falso se já houver uma em andamento
func (s *MetricsSyncService) TriggerManualSync(ctx context.Context) bool {
	if !s.tryStart() {
		log.L.Info("Sincronização de métricas já em andamento, ignorando solicitação manual")
		return false
	}

	log.L.Info("Iniciando sincronização manual de métricas da Meta")
	go func() {
		defer s.finish()
		s.Sync(ctx, true)
	}()

	return true
}

func (s *MetricsSyncService) GetStatus() SyncStatus {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := SyncStatus{
		Enabled:           s.config.SyncEnabled,
		CronSchedule:      s.config.CronSchedule,
		LookbackDays:      s.config.LookbackDays,
		MaxConcurrentJobs: s.config.MaxConcurrentJobs,
		RequestDelay:      s.config.RequestDelaySeconds,
		Running:           s.syncRunning,
	}
	if s.lastResult != nil {
		result := *s.lastResult
		status.LastResult = &result
	}

	return status
}

func (s *MetricsSyncService) runExclusive(ctx context.Context, manual bool) {
	if !s.tryStart() {
		log.L.Info("Sincronização de métricas já em andamento, ignorando")
		return
	}
	defer s.finish()

	s.Sync(ctx, manual)
}

func (s *MetricsSyncService) tryStart() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}
	s.syncRunning = true
	return true
}

func (s *MetricsSyncService) finish() {
	s.syncMutex.Lock()
	s.syncRunning = false
	s.syncMutex.Unlock()
}

// Sync sincroniza o período de lookback de todos os clientes com conta de anúncios
func (s *MetricsSyncService) Sync(ctx context.Context, manual bool) SyncResult {
	start, end := utils.DefaultPeriod(s.now(), s.config.LookbackDays)
	result := SyncResult{
		StartedAt:         s.now(),
		PeriodStart:       start.Format(time.DateOnly),
		PeriodEnd:         end.Format(time.DateOnly),
		ManuallyTriggered: manual,
	}

	defer func() {
		result.CompletedAt = s.now()
		s.syncMutex.Lock()
		s.lastResult = &result
		s.syncMutex.Unlock()
	}()

	clients, err := s.clientRepo.ListWithMetaAccount(ctx)
	if err != nil {
		log.L.WithError(err).Error("Erro ao buscar clientes para sincronização de métricas")
		return result
	}

	if len(clients) == 0 {
		log.L.Info("Nenhum cliente com conta de anúncios para sincronização de métricas")
		return result
	}

	log.L.WithFields(log.Fields{
		"clients":    len(clients),
		"start_date": result.PeriodStart,
		"end_date":   result.PeriodEnd,
	}).Info("Iniciando sincronização de métricas da Meta")

	period := domain.InsightFilters{StartDate: &start, EndDate: &end}

	var (
		wg            sync.WaitGroup
		mu            sync.Mutex
		tokenExpired  atomic.Bool
		semaphore     = make(chan struct{}, s.config.MaxConcurrentJobs)
		requestsDelay = time.Duration(s.config.RequestDelaySeconds) * time.Second
	)

	for _, client := range clients {
		if tokenExpired.Load() {
			break
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(c *domain.Client) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			if tokenExpired.Load() {
				return
			}

			upserted, unmatched, err := s.syncClient(ctx, c, period)

			mu.Lock()
			result.Clients++
			result.RowsUpserted += upserted
			result.UnmatchedRows += unmatched
			if err != nil {
				result.FailedClients++
			}
			mu.Unlock()

			if errors.Is(err, metaclient.ErrTokenExpired) {
				tokenExpired.Store(true)
				log.L.Error("Token da Meta expirado, sincronização interrompida")
				return
			}

			if requestsDelay > 0 {
				s.sleep(requestsDelay)
			}
		}(client)
	}

	wg.Wait()
	result.TokenExpired = tokenExpired.Load()

	log.L.WithFields(log.Fields{
		"duration":       s.now().Sub(result.StartedAt).String(),
		"clients":        result.Clients,
		"failed_clients": result.FailedClients,
		"rows_upserted":  result.RowsUpserted,
		"unmatched_rows": result.UnmatchedRows,
	}).Info("Sincronização de métricas da Meta concluída")

	return result
}

// syncClient grava as linhas de insights associadas às campanhas do cliente
func (s *MetricsSyncService) syncClient(ctx context.Context, client *domain.Client, period domain.InsightFilters) (int, int, error) {
	logger := log.L.WithFields(log.Fields{
		"client_id":          client.ID,
		"meta_ad_account_id": utils.Deref(client.MetaAdAccountID),
	})

	campaigns, err := s.campaignRepo.ListSyncable(ctx, client.ID)
	if err != nil {
		logger.WithError(err).Error("Erro ao buscar campanhas sincronizáveis")
		return 0, 0, err
	}
	if len(campaigns) == 0 {
		logger.Debug("Cliente sem campanhas vinculadas à Meta")
		return 0, 0, nil
	}

	byExternalID := make(map[string]*domain.Campaign, len(campaigns))
	for _, campaign := range campaigns {
		byExternalID[utils.Deref(campaign.MetaCampaignID)] = campaign
	}

	insights, err := s.metaService.GetPlatformInsights(ctx, utils.Deref(client.MetaAdAccountID), period)
	if err != nil {
		logger.WithError(err).Error("Erro ao obter insights da Meta para o cliente")
		return 0, 0, err
	}

	rows, unmatched := FactoryCampaignMetrics(client.ID, byExternalID, insights)
	if len(rows) == 0 {
		return 0, unmatched, nil
	}

	upserted, err := s.metricsRepo.Upsert(ctx, rows)
	if err != nil {
		logger.WithError(err).Error("Erro ao gravar métricas de campanhas")
		return 0, unmatched, err
	}

	logger.WithFields(log.Fields{
		"rows":      upserted,
		"unmatched": unmatched,
	}).Info("Métricas do cliente sincronizadas")

	return upserted, unmatched, nil
}

// FactoryCampaignMetrics converte insights em linhas de métricas; insights de campanhas não cadastradas são contados e descartados
func FactoryCampaignMetrics(clientID string, campaigns map[string]*domain.Campaign, insights []domain.PlatformInsight) ([]*domain.CampaignMetrics, int) {
	rows := make([]*domain.CampaignMetrics, 0, len(insights))
	unmatched := 0

	for _, insight := range insights {
		campaign, ok := campaigns[insight.ExternalCampaignID]
		if !ok {
			unmatched++
			continue
		}

		rows = append(rows, &domain.CampaignMetrics{
			CampaignID:  campaign.ID,
			ClientID:    clientID,
			Platform:    insight.Platform,
			PeriodStart: insight.DateStart,
			PeriodEnd:   insight.DateStop,
			Spend:       insight.Spend,
			Impressions: insight.Impressions,
			Clicks:      insight.Clicks,
			Bookings:    insight.Bookings,
		})
	}

	return rows, unmatched
}
