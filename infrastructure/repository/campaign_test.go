package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-dashboard/internal/domain"
)

func TestCampaignRepository_List_CustoMensalTexto(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewCampaignRepository(conn)
	now := time.Now()
	clientID := "c1"

	mock.ExpectQuery(`SELECT (.+) FROM campaigns WHERE client_id = \$1 ORDER BY created_at DESC`).
		WithArgs(clientID).
		WillReturnRows(sqlmock.NewRows(campaignColumns).
			AddRow("k1", clientID, "Black Friday", "meta", "active", 500.0, "150", nil, nil, "123", now, now).
			AddRow("k2", clientID, "Verão", "instagram", "draft", nil, nil, nil, nil, nil, now, now))

	campaigns, err := repo.List(context.Background(), domain.CampaignFilter{ClientID: &clientID})

	require.NoError(t, err)
	require.Len(t, campaigns, 2)
	assert.Equal(t, domain.CampaignPlatformMeta, campaigns[0].Platform)
	assert.Equal(t, "150", campaigns[0].MonthlyCost)
	assert.Equal(t, 500.0, *campaigns[0].Budget)
	assert.Nil(t, campaigns[1].MonthlyCost)
	assert.Nil(t, campaigns[1].Budget)
	assert.Nil(t, campaigns[1].MetaCampaignID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepository_ListSyncable(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewCampaignRepository(conn)

	mock.ExpectQuery(`SELECT (.+) FROM campaigns WHERE client_id = \$1 AND meta_campaign_id IS NOT NULL AND meta_campaign_id <> \$2`).
		WithArgs("c1", "").
		WillReturnRows(sqlmock.NewRows(campaignColumns))

	campaigns, err := repo.ListSyncable(context.Background(), "c1")

	require.NoError(t, err)
	assert.Empty(t, campaigns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepository_Create_StatusPadrao(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewCampaignRepository(conn)
	now := time.Now()
	monthlyCost := " 200 "

	mock.ExpectQuery(`INSERT INTO campaigns`).
		WithArgs("c1", "Lançamento", "both", "draft", nil, "200", nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("k1", now, now))

	campaign, err := repo.Create(context.Background(), &domain.Campaign{
		ClientID:    "c1",
		Name:        "Lançamento",
		Platform:    domain.CampaignPlatformBoth,
		MonthlyCost: &monthlyCost,
	})

	require.NoError(t, err)
	assert.Equal(t, "k1", campaign.ID)
	assert.Equal(t, domain.CampaignStatusDraft, campaign.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
