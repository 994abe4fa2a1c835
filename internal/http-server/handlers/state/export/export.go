package export

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"larder-service/internal/models"
)

type StateExporter interface {
	ExportState(ctx context.Context) *models.Document
}

// New dumps the whole in-memory state as the persistence document.
func New(log *slog.Logger, exporter StateExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, exporter.ExportState(r.Context()))
	}
}
