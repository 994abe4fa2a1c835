package shifts

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

type ShiftReader interface {
	DayShifts(ctx context.Context, week, day string) (*api.ShiftsResponse, error)
}

type Response struct {
	response.Response
	api.ShiftsResponse
}

func New(log *slog.Logger, reader ShiftReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.timetable.shifts.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		week := chi.URLParam(r, "week")
		day := r.URL.Query().Get("day")

		resp, err := reader.DayShifts(r.Context(), week, day)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Unknown day", slog.String("day", day))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "day is invalid"))
			return
		}

		if err != nil {
			log.Error("Failed to compute shifts", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to compute shifts"))
			return
		}

		render.JSON(w, r, Response{
			ShiftsResponse: *resp,
		})
	}
}
