package crmclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	crmdomain "github.com/vfg2006/agency-dashboard/infrastructure/integrator/crm/domain"
	"github.com/vfg2006/agency-dashboard/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const contactsPath = "/contacts/"

type Client interface {
	CreateContact(ctx context.Context, contact crmdomain.Contact) (*crmdomain.ContactResponse, error)
}

type CRMClient struct {
	http *resty.Client
}

// NewClient cria o cliente HTTP do CRM. Não há retentativas: a chamada é best effort.
func NewClient(cfg config.CRM) *CRMClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("Authorization", "Bearer "+cfg.APIKey).
		SetHeader("Version", "2021-07-28").
		SetRetryCount(0).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &CRMClient{http: client}
}

func (c *CRMClient) CreateContact(ctx context.Context, contact crmdomain.Contact) (*crmdomain.ContactResponse, error) {
	var result crmdomain.ContactResponse
	var apiErr crmdomain.ErrorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(contact).
		SetResult(&result).
		SetError(&apiErr).
		Post(contactsPath)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a requisição: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("requisição falhou com status: %s (%v)", resp.Status(), apiErr.Message)
	}

	return &result, nil
}
