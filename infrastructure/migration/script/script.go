package script

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/agency-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/agency-dashboard/pkg/log"
)

const (
	oldUniqueConstraint = "campaign_metrics_campaign_period_key"
	newUniqueConstraint = "campaign_metrics_campaign_platform_period_key"
	oldPeriodIndex      = "idx_campaign_metrics_client_period"
	newPeriodIndex      = "idx_campaign_metrics_client_platform_period"
)

// ResyncResult resume o que o script alterou
type ResyncResult struct {
	ColumnAdded     bool
	ConstraintAdded bool
	DeletedRows     int64
	Elapsed         time.Duration
}

type step struct {
	description string
	run         func(ctx context.Context, tx *sql.Tx, result *ResyncResult) error
}

// ResyncMetrics adiciona a coluna platform em campaign_metrics, recria a chave única e o índice
// incluindo a plataforma e apaga todas as linhas para que a próxima sincronização da Meta as preencha.
// Não é idempotente: cada execução apaga as métricas existentes.
func ResyncMetrics(ctx context.Context, conn postgres.Conn) (*ResyncResult, error) {
	logger := log.ForContext(ctx)
	logger.Info("Iniciando script de ressincronização de métricas...")

	startTime := time.Now()
	result := &ResyncResult{}

	steps := []step{
		{"Adicionando coluna platform em campaign_metrics", addPlatformColumn},
		{"Removendo constraint única antiga", execStatement("ALTER TABLE campaign_metrics DROP CONSTRAINT IF EXISTS " + oldUniqueConstraint)},
		{"Removendo índice antigo", execStatement("DROP INDEX IF EXISTS " + oldPeriodIndex)},
		{"Adicionando constraint única com platform", addPlatformConstraint},
		{"Criando índice por cliente, plataforma e período", execStatement("CREATE INDEX IF NOT EXISTS " + newPeriodIndex + " ON campaign_metrics (client_id, platform, period_start)")},
		{"Apagando métricas para forçar nova sincronização", deleteMetrics},
	}

	err := conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for i, s := range steps {
			logger.WithFields(log.Fields{
				"step":  i + 1,
				"total": len(steps),
			}).Info(s.description)

			if err := s.run(ctx, tx, result); err != nil {
				logger.WithError(err).Errorf("ERRO na etapa %d/%d: %s", i+1, len(steps), s.description)
				return errors.Wrap(err, s.description)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Elapsed = time.Since(startTime)
	logger.WithFields(log.Fields{
		"column_added":     result.ColumnAdded,
		"constraint_added": result.ConstraintAdded,
		"deleted_rows":     result.DeletedRows,
	}).Infof("Ressincronização concluída em %v", result.Elapsed)

	return result, nil
}

func addPlatformColumn(ctx context.Context, tx *sql.Tx, result *ResyncResult) error {
	var columnExists bool
	err := tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_name = 'campaign_metrics'
			AND column_name = 'platform'
		)
	`).Scan(&columnExists)
	if err != nil {
		return errors.Wrap(err, "verificar coluna platform")
	}

	if columnExists {
		log.ForContext(ctx).Info("Coluna platform já existe na tabela campaign_metrics")
		return nil
	}

	if _, err := tx.ExecContext(ctx, "ALTER TABLE campaign_metrics ADD COLUMN platform TEXT NOT NULL DEFAULT 'meta'"); err != nil {
		return err
	}

	result.ColumnAdded = true
	return nil
}

func addPlatformConstraint(ctx context.Context, tx *sql.Tx, result *ResyncResult) error {
	var constraintExists bool
	err := tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.table_constraints
			WHERE table_name = 'campaign_metrics'
			AND constraint_type = 'UNIQUE'
			AND constraint_name = $1
		)
	`, newUniqueConstraint).Scan(&constraintExists)
	if err != nil {
		return errors.Wrap(err, "verificar constraint existente")
	}

	if constraintExists {
		log.ForContext(ctx).Info("Constraint única com platform já existe")
		return nil
	}

	_, err = tx.ExecContext(ctx, "ALTER TABLE campaign_metrics ADD CONSTRAINT "+newUniqueConstraint+
		" UNIQUE (campaign_id, platform, period_start, period_end)")
	if err != nil {
		return err
	}

	result.ConstraintAdded = true
	return nil
}

func deleteMetrics(ctx context.Context, tx *sql.Tx, result *ResyncResult) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM campaign_metrics")
	if err != nil {
		return err
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return err
	}

	result.DeletedRows = deleted
	return nil
}

func execStatement(statement string) func(context.Context, *sql.Tx, *ResyncResult) error {
	return func(ctx context.Context, tx *sql.Tx, _ *ResyncResult) error {
		_, err := tx.ExecContext(ctx, statement)
		return err
	}
}
