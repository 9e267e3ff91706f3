package handler

import (
	"net/http"

	"github.com/kittipos/namecard-bff-go/internal/domain"
	"github.com/kittipos/namecard-bff-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func listTemplatesHandler(svc *service.TemplatesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templates, err := svc.ListTemplates(r.Context())
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, templates)
	}
}

func getTemplateHandler(svc *service.TemplatesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templateID := chi.URLParam(r, "templateId")
		tpl, err := svc.GetTemplate(r.Context(), templateID)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, tpl)
	}
}

func createTemplateHandler(svc *service.TemplatesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.CreateTemplateRequest
		if err := decodeBody(r, &req); err != nil {
			handleServiceError(w, logger, err)
			return
		}
		tpl, err := svc.CreateTemplate(r.Context(), &req)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, tpl)
	}
}

func updateTemplateHandler(svc *service.TemplatesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templateID := chi.URLParam(r, "templateId")
		var updates map[string]any
		if err := decodeBody(r, &updates); err != nil {
			handleServiceError(w, logger, err)
			return
		}
		tpl, err := svc.UpdateTemplate(r.Context(), templateID, updates)
		if err != nil {
			handleServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, tpl)
	}
}

func deleteTemplateHandler(svc *service.TemplatesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templateID := chi.URLParam(r, "templateId")
		if err := svc.DeleteTemplate(r.Context(), templateID); err != nil {
			handleServiceError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
