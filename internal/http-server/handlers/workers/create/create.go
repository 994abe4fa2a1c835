package create

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

type WorkerCreator interface {
	AddWorker(ctx context.Context, req *api.WorkerRequest) (*api.WorkerResponse, api.SaveStatus, error)
}

type Request struct {
	api.WorkerRequest
}

type Response struct {
	response.Response
	Worker      api.WorkerResponse `json:"worker"`
	Persistence api.SaveStatus     `json:"persistence"`
}

func New(log *slog.Logger, creator WorkerCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.create.New"

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

		log.Info("Request body decoded", slog.Any("request", req))

		worker, saved, err := creator.AddWorker(r.Context(), &req.WorkerRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Worker validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "name, position or availability is invalid"))
			return
		}

		if err != nil {
			log.Error("Failed to add worker", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to add worker"))
			return
		}

		log.Info("Worker added", slog.Int("worker_id", worker.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Worker:      *worker,
			Persistence: saved,
		})
	}
}
