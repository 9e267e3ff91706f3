package handler

import (
	"net/http"

	"github.com/kittipos/namecard-bff-go/internal/domain"
	"github.com/kittipos/namecard-bff-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func getProfileHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userId")
		profile, err := svc.GetProfile(r.Context(), userID)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func updateProfileHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userId")
		var updates map[string]any
		if err := decodeBody(r, &updates); err != nil {
			handleServiceError(w, logger, err)
			return
		}
		profile, err := svc.UpdateProfile(r.Context(), userID, updates)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func listAddressesHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userId")
		addresses, err := svc.ListAddresses(r.Context(), userID)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, addresses)
	}
}

func createAddressHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userId")
		var addr domain.Address
		if err := decodeBody(r, &addr); err != nil {
			handleServiceError(w, logger, err)
			return
		}
		addr.UserID = userID
		created, err := svc.CreateAddress(r.Context(), &addr)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateAddressHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addressID := chi.URLParam(r, "addressId")
		var updates map[string]any
		if err := decodeBody(r, &updates); err != nil {
			handleServiceError(w, logger, err)
			return
		}
		addr, err := svc.UpdateAddress(r.Context(), addressID, updates)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, addr)
	}
}

func deleteAddressHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addressID := chi.URLParam(r, "addressId")
		if err := svc.DeleteAddress(r.Context(), addressID); err != nil {
			handleServiceError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
