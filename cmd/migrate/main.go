package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/vfg2006/agency-dashboard/infrastructure/database/migrations"
	"github.com/vfg2006/agency-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/agency-dashboard/infrastructure/migration/script"
	"github.com/vfg2006/agency-dashboard/internal/config"
	"github.com/vfg2006/agency-dashboard/pkg/log"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Migrações do banco de dados do dashboard",
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newDatabaseCommand("up", "Aplica as migrações pendentes", func(ctx context.Context, conn *postgres.Connection) error {
			return migrations.Apply(ctx, conn.DB)
		}),
		newDatabaseCommand("status", "Mostra o estado de cada migração", func(ctx context.Context, conn *postgres.Connection) error {
			return migrations.Status(ctx, conn.DB)
		}),
		newDatabaseCommand("rollback", "Desfaz a última migração aplicada", func(ctx context.Context, conn *postgres.Connection) error {
			return migrations.Rollback(ctx, conn.DB)
		}),
		newDatabaseCommand("resync-metrics", "Recria a chave de campaign_metrics com platform e apaga as métricas", func(ctx context.Context, conn *postgres.Connection) error {
			_, err := script.ResyncMetrics(ctx, conn)
			return err
		}),
	)

	return cmd
}

// newDatabaseCommand abre a conexão com DATABASE_URL e executa run
func newDatabaseCommand(use, short string, run func(context.Context, *postgres.Connection) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			log.Configure(log.Options{Level: cfg.Log.Level})

			ctx := cmd.Context()
			conn, err := postgres.NewConnection(ctx, cfg.Database)
			if err != nil {
				log.L.WithError(err).Error("Erro ao conectar ao PostgreSQL")
				return err
			}
			defer conn.Close()

			if err := run(ctx, conn); err != nil {
				log.L.WithError(err).Errorf("Falha ao executar %s", use)
				return err
			}

			log.L.Infof("Comando %s concluído", use)
			return nil
		},
	}
}
