package importstate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"larder-service/api"
	"larder-service/internal/models"
	"larder-service/pkg/response"
	"larder-service/pkg/sl"
)

type StateImporter interface {
	ImportState(ctx context.Context, doc *models.Document) (api.SaveStatus, error)
}

type Response struct {
	response.Response
	Persistence api.SaveStatus `json:"persistence"`
}

// New replaces the whole in-memory state with the posted document.
func New(log *slog.Logger, importer StateImporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.state.importstate.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var doc models.Document

		if err := render.DecodeJSON(r.Body, &doc); err != nil {
			log.Error("Failed to decode document", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode document"))
			return
		}

		saved, err := importer.ImportState(r.Context(), &doc)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Document invalid", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "document is invalid"))
			return
		}

		if err != nil {
			log.Error("Failed to import state", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to import state"))
			return
		}

		log.Info("State imported")

		render.JSON(w, r, Response{
			Persistence: saved,
		})
	}
}
