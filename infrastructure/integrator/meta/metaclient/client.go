package metaclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	metadomain "github.com/vfg2006/agency-dashboard/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/agency-dashboard/internal/config"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrNotConfigured = errors.New("meta: token de acesso não configurado")
	ErrTokenExpired  = errors.New("meta: token de acesso expirado, é necessário reautorizar")
)

const maxPages = 50

type Client interface {
	GetCampaignInsights(ctx context.Context, adAccountID string, period domain.InsightFilters) ([]metadomain.CampaignInsight, error)
}

type MetaClient struct {
	cfg        config.Meta
	httpClient *http.Client
}

func NewClient(cfg config.Meta) *MetaClient {
	return &MetaClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetCampaignInsights busca os insights diários das campanhas da conta, por plataforma, seguindo paging.next
func (c *MetaClient) GetCampaignInsights(ctx context.Context, adAccountID string, period domain.InsightFilters) ([]metadomain.CampaignInsight, error) {
	if c.cfg.AccessToken == "" {
		return nil, ErrNotConfigured
	}
	if period.StartDate == nil || period.EndDate == nil {
		return nil, fmt.Errorf("meta: período obrigatório: %w", domain.ErrInvalidInput)
	}

	timeRange := fmt.Sprintf("{\"since\":\"%s\",\"until\":\"%s\"}", period.StartDate.Format(time.DateOnly), period.EndDate.Format(time.DateOnly))

	params := url.Values{}
	params.Add("level", "campaign")
	params.Add("fields", "account_id,campaign_id,campaign_name,spend,impressions,clicks,actions")
	params.Add("breakdowns", "publisher_platform")
	params.Add("time_increment", "1")
	params.Add("time_range", timeRange)
	params.Add("limit", "500")
	params.Add("access_token", c.cfg.AccessToken)

	next := fmt.Sprintf("%s/%s/insights?%s", c.cfg.URL, accountPath(adAccountID), params.Encode())

	insights := make([]metadomain.CampaignInsight, 0)
	for page := 0; next != "" && page < maxPages; page++ {
		var response metadomain.InsightsResponse
		if err := c.get(ctx, next, &response); err != nil {
			return nil, err
		}

		insights = append(insights, response.Data...)
		next = response.Paging.Next
	}

	if next != "" {
		log.L.WithField("ad_account_id", adAccountID).Warn("meta: limite de páginas atingido, insights truncados")
	}

	return insights, nil
}

func (c *MetaClient) get(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		log.L.WithError(err).Error("Erro ao criar a requisição")
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.L.WithError(err).Error("Erro ao fazer a requisição")
		return err
	}
	defer resp.Body.Close()

	body, err := HandleResponse(resp)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		log.L.WithError(err).Error("Erro ao decodificar JSON")
		return err
	}

	return nil
}

// HandleResponse lê a resposta e converte erros da Graph API, detectando token expirado
func HandleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	var errorResp metadomain.ErrorResponse
	if parseErr := json.Unmarshal(body, &errorResp); parseErr == nil {
		if errorResp.IsTokenExpired() {
			log.L.Warnf("Token expirado detectado pela API Meta. Código: %d, Subcódigo: %d",
				errorResp.Error.Code, errorResp.Error.ErrorSubcode)
			return nil, fmt.Errorf("%w: %s", ErrTokenExpired, errorResp.Error.Message)
		}
		return nil, &metadomain.APIError{StatusCode: resp.StatusCode, Details: errorResp.Error}
	}

	return nil, &metadomain.APIError{
		StatusCode: resp.StatusCode,
		Details:    metadomain.ErrorDetails{Message: string(body)},
	}
}

func accountPath(adAccountID string) string {
	if strings.HasPrefix(adAccountID, "act_") {
		return adAccountID
	}
	return "act_" + adAccountID
}
