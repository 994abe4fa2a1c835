package get

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

type OrderGetter interface {
	GetOrder(ctx context.Context, orderID string) (*api.OrderResponse, error)
}

type Response struct {
	response.Response
	Order api.OrderResponse `json:"order"`
}

func New(log *slog.Logger, getter OrderGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		orderID := chi.URLParam(r, "id")

		order, err := getter.GetOrder(r.Context(), orderID)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Order not found", slog.String("order_id", orderID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "order not found"))
			return
		}

		if err != nil {
			log.Error("Failed to get order", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get order"))
			return
		}

		render.JSON(w, r, Response{
			Order: *order,
		})
	}
}
