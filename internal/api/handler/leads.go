package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/internal/usecases/leads"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
	"github.com/vfg2006/agency-dashboard/pkg/middleware"
)

type UpdateLeadStatusRequest struct {
	Status domain.LeadStatus `json:"status"`
}

func CreateLead(service leads.LeadService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.IdentityFromContext(r.Context())

		var req domain.CreateLeadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		lead, err := service.Create(r.Context(), identity.Scope(), &req)
		if err != nil {
			apiErrors.WriteFromError(w, err, "Erro ao criar lead")
			return
		}

		writeJSON(w, http.StatusCreated, lead)
	}
}

// UpdateLeadStatus é chamado pelo arrastar e soltar do kanban; a última escrita prevalece
func UpdateLeadStatus(service leads.LeadService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.IdentityFromContext(r.Context())
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req UpdateLeadStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		lead, err := service.UpdateStatus(r.Context(), identity.Scope(), id, req.Status)
		if err != nil {
			apiErrors.WriteFromError(w, err, "Erro ao atualizar status do lead")
			return
		}

		writeJSON(w, http.StatusOK, lead)
	}
}
