package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"larder-service/api"
	"larder-service/pkg/response"
	"larder-service/pkg/sl"
)

type WorkerGetter interface {
	GetWorker(ctx context.Context, id int) (*api.WorkerResponse, error)
}

type Response struct {
	response.Response
	Worker api.WorkerResponse `json:"worker"`
}

func New(log *slog.Logger, getter WorkerGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			log.Error("Invalid worker id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "worker id must be an integer"))
			return
		}

		worker, err := getter.GetWorker(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Worker not found", slog.Int("worker_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "worker not found"))
			return
		}

		if err != nil {
			log.Error("Failed to get worker", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get worker"))
			return
		}

		render.JSON(w, r, Response{
			Worker: *worker,
		})
	}
}
