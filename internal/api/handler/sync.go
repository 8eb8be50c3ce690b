package handler

import (
	"context"
	"net/http"

	"github.com/vfg2006/agency-dashboard/internal/scheduler"
	"github.com/vfg2006/agency-dashboard/pkg/log"
)

// MetricsSync é a parte do agendador exposta aos administradores
type MetricsSync interface {
	TriggerManualSync(ctx context.Context) bool
	GetStatus() scheduler.SyncStatus
}

type syncRunResponse struct {
	Message string `json:"message"`
	Started bool   `json:"started"`
}

// RunSync dispara a sincronização de métricas; 202 quando iniciada e 409 se já houver uma em andamento
func RunSync(service MetricsSync) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.ForContext(r.Context()).Info("INIT - RunSync")

		// A sincronização continua depois da resposta
		if !service.TriggerManualSync(context.WithoutCancel(r.Context())) {
			writeJSON(w, http.StatusConflict, syncRunResponse{Message: "Sincronização já em andamento"})
			return
		}

		writeJSON(w, http.StatusAccepted, syncRunResponse{Message: "Sincronização iniciada com sucesso", Started: true})
	}
}

func SyncStatus(service MetricsSync) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, service.GetStatus())
	}
}
