package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/kittipos/namecard-bff-go/internal/service"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	qrMinSize     = 64
	qrMaxSize     = 1024
	qrDefaultSize = 256
)

// cardQRHandler renders a PNG QR code pointing at the card's public page.
func cardQRHandler(svc *service.CardsService, publicBaseURL string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cardID := chi.URLParam(r, "cardId")

		card, err := svc.GetCard(r.Context(), cardID)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}

		size := qrDefaultSize
		if raw := r.URL.Query().Get("size"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				size = n
			}
		}
		if size < qrMinSize {
			size = qrMinSize
		}
		if size > qrMaxSize {
			size = qrMaxSize
		}

		shareURL := fmt.Sprintf("%s/c/%s", publicBaseURL, card.Slug)
		png, err := qrcode.Encode(shareURL, qrcode.Medium, size)
		if err != nil {
			logger.Error("qr encoding failed",
				zap.String("card_id", cardID),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, "failed to render QR code")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}
