package overlaps

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"larder-service/api"
	"larder-service/pkg/response"
	"larder-service/pkg/sl"
)

type OverlapReader interface {
	DayOverlaps(ctx context.Context, week, day string) (*api.OverlapsResponse, error)
}

type Response struct {
	response.Response
	api.OverlapsResponse
}

func New(log *slog.Logger, reader OverlapReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.timetable.overlaps.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		week := chi.URLParam(r, "week")
		day := r.URL.Query().Get("day")

		resp, err := reader.DayOverlaps(r.Context(), week, day)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Unknown day", slog.String("day", day))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "day is invalid"))
			return
		}

		if err != nil {
			log.Error("Failed to compute overlaps", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to compute overlaps"))
			return
		}

		render.JSON(w, r, Response{
			OverlapsResponse: *resp,
		})
	}
}
