package grid

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"larder-service/api"
	"larder-service/pkg/response"
	"larder-service/pkg/sl"
)

type WeekReader interface {
	WeekGrid(ctx context.Context, week string) (*api.WeekResponse, error)
}

type Response struct {
	response.Response
	api.WeekResponse
}

func New(log *slog.Logger, reader WeekReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.timetable.grid.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		week := chi.URLParam(r, "week")

		resp, err := reader.WeekGrid(r.Context(), week)
		if err != nil {
			log.Error("Failed to read week grid", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to read week grid"))
			return
		}

		render.JSON(w, r, Response{
			WeekResponse: *resp,
		})
	}
}
