package remove

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

type OrderRemover interface {
	RemoveOrder(ctx context.Context, orderID string) (api.SaveStatus, error)
}

type Response struct {
	response.Response
	Persistence api.SaveStatus `json:"persistence"`
}

func New(log *slog.Logger, remover OrderRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.remove.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		orderID := chi.URLParam(r, "id")

		saved, err := remover.RemoveOrder(r.Context(), orderID)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Order not found", slog.String("order_id", orderID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "order not found"))
			return
		}

		if err != nil {
			log.Error("Failed to remove order", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to remove order"))
			return
		}

		log.Info("Order removed", slog.String("order_id", orderID))

		render.JSON(w, r, Response{
			Persistence: saved,
		})
	}
}
