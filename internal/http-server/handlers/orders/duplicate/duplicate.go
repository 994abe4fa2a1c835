package duplicate

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

type OrderDuplicator interface {
	DuplicateOrder(ctx context.Context, orderID string) (*api.OrderResponse, api.SaveStatus, error)
}

type Response struct {
	response.Response
	Order       api.OrderResponse `json:"order"`
	Persistence api.SaveStatus    `json:"persistence"`
}

func New(log *slog.Logger, duplicator OrderDuplicator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.duplicate.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		orderID := chi.URLParam(r, "id")

		order, saved, err := duplicator.DuplicateOrder(r.Context(), orderID)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Order not found", slog.String("order_id", orderID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "order not found"))
			return
		}

		if err != nil {
			log.Error("Failed to duplicate order", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to duplicate order"))
			return
		}

		log.Info("Order duplicated", slog.String("source_id", orderID), slog.String("order_id", order.OrderID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Order:       *order,
			Persistence: saved,
		})
	}
}
