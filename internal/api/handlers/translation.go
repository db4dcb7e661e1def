package handlers

import (
	"context"
	"net/http"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/translation"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/go-chi/chi/v5"
)

type TranslationService interface {
	Get(ctx context.Context, objectType string, id, shopID int) (*translation.Translation, error)
	Save(ctx context.Context, t *translation.Translation) error
	Delete(ctx context.Context, objectType string, id, shopID int) error
}

// TranslationHandler maintains the per shop texts of catalog objects.
type TranslationHandler struct {
	translations TranslationService
	logger       interfaces.LoggerPort
}

func NewTranslationHandler(translations TranslationService, logger interfaces.LoggerPort) *TranslationHandler {
	return &TranslationHandler{translations: translations, logger: logger}
}

func translationKey(r *http.Request) (string, int, int, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return "", 0, 0, err
	}
	shopID, err := pathID(r, "shopID")
	if err != nil {
		return "", 0, 0, err
	}
	return chi.URLParam(r, "type"), id, shopID, nil
}

func (h *TranslationHandler) Get(w http.ResponseWriter, r *http.Request) {
	objectType, id, shopID, err := translationKey(r)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to load translation")
		return
	}

	t, err := h.translations.Get(r.Context(), objectType, id, shopID)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to load translation")
		return
	}
	writeData(w, r, http.StatusOK, t)
}

// Put replaces the translated fields. The address comes from the path.
func (h *TranslationHandler) Put(w http.ResponseWriter, r *http.Request) {
	objectType, id, shopID, err := translationKey(r)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to save translation")
		return
	}

	var fields translation.Fields
	if err := decodeJSON(r, &fields); err != nil {
		writeError(w, r, h.logger, err, "failed to save translation")
		return
	}

	t := &translation.Translation{Type: objectType, ID: id, ShopID: shopID, Fields: fields}
	if err := h.translations.Save(r.Context(), t); err != nil {
		writeError(w, r, h.logger, err, "failed to save translation")
		return
	}
	writeData(w, r, http.StatusOK, t)
}

func (h *TranslationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	objectType, id, shopID, err := translationKey(r)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to delete translation")
		return
	}

	if err := h.translations.Delete(r.Context(), objectType, id, shopID); err != nil {
		writeError(w, r, h.logger, err, "failed to delete translation")
		return
	}
	writeData(w, r, http.StatusOK, nil)
}
