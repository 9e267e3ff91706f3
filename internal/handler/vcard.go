package handler

import (
	"fmt"
	"net/http"

	"github.com/kittipos/namecard-bff-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// downloadVCardHandler serves the composed vCard as an attachment. The view
// record is written by the service after the response body is already
// determined, so tracking failures cannot reach the client.
func downloadVCardHandler(svc *service.VCardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cardID := chi.URLParam(r, "cardId")

		doc, filename, err := svc.GenerateVCard(r.Context(), cardID, viewerIP(r))
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}

		w.Header().Set("Content-Type", "text/vcard; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(doc))
	}
}
