package clearday

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"larder-service/api"
	"larder-service/pkg/response"
	"larder-service/pkg/sl"
)

type DayClearer interface {
	ClearWorkerDay(ctx context.Context, req *api.ClearDayRequest) (api.SaveStatus, error)
}

type Request struct {
	api.ClearDayRequest
}

type Response struct {
	response.Response
	Persistence api.SaveStatus `json:"persistence"`
}

func New(log *slog.Logger, clearer DayClearer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.timetable.clearday.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		saved, err := clearer.ClearWorkerDay(r.Context(), &req.ClearDayRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Clear-day validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "day or date is invalid"))
			return
		}

		if err != nil {
			log.Error("Failed to clear worker day", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to clear worker day"))
			return
		}

		log.Info("Worker day cleared", slog.Int("worker_id", req.WorkerID), slog.String("day", req.Day))

		render.JSON(w, r, Response{
			Persistence: saved,
		})
	}
}
