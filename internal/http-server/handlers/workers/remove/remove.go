package remove

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

type WorkerRemover interface {
	RemoveWorker(ctx context.Context, id int) (api.SaveStatus, error)
}

type Response struct {
	response.Response
	Persistence api.SaveStatus `json:"persistence"`
}

func New(log *slog.Logger, remover WorkerRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.remove.New"

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

		saved, err := remover.RemoveWorker(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Worker not found", slog.Int("worker_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "worker not found"))
			return
		}

		if err != nil {
			log.Error("Failed to remove worker", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to remove worker"))
			return
		}

		log.Info("Worker removed", slog.Int("worker_id", id))

		render.JSON(w, r, Response{
			Persistence: saved,
		})
	}
}
