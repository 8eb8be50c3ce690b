package handler

import (
	"errors"
	"net/http"

	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/internal/usecases/contacting"
)

// SubmitGuide recebe o formulário público do guia.
// 200 {success: true}; 400 com a mensagem de campos obrigatórios; 500 quando a submissão não é gravada.
func SubmitGuide(service contacting.ContactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.GuideRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, domain.GuideResponse{Success: false, Message: contacting.MissingFieldsMessage})
			return
		}

		if _, err := service.SubmitGuide(r.Context(), &req); err != nil {
			if errors.Is(err, contacting.ErrMissingFields) {
				writeJSON(w, http.StatusBadRequest, domain.GuideResponse{Success: false, Message: contacting.MissingFieldsMessage})
				return
			}
			writeJSON(w, http.StatusInternalServerError, domain.GuideResponse{Success: false, Message: contacting.SubmitFailedMessage})
			return
		}

		writeJSON(w, http.StatusOK, domain.GuideResponse{Success: true})
	}
}
