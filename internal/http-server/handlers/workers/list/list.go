package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"larder-service/api"
	"larder-service/pkg/response"
	"larder-service/pkg/sl"
)

type WorkerLister interface {
	ListWorkers(ctx context.Context) ([]api.WorkerResponse, error)
}

type Response struct {
	response.Response
	Workers []api.WorkerResponse `json:"workers"`
}

func New(log *slog.Logger, lister WorkerLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.list.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		workers, err := lister.ListWorkers(r.Context())
		if err != nil {
			log.Error("Failed to list workers", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list workers"))
			return
		}

		render.JSON(w, r, Response{
			Workers: workers,
		})
	}
}
