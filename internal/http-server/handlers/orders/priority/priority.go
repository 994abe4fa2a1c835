package priority

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

type PriorityUpdater interface {
	UpdateOrderPriority(ctx context.Context, orderID, priority string) (*api.OrderResponse, api.SaveStatus, error)
}

type Request struct {
	api.PriorityUpdateRequest
}

type Response struct {
	response.Response
	Order       api.OrderResponse `json:"order"`
	Persistence api.SaveStatus    `json:"persistence"`
}

func New(log *slog.Logger, updater PriorityUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.priority.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		orderID := chi.URLParam(r, "id")

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		order, saved, err := updater.UpdateOrderPriority(r.Context(), orderID, req.Priority)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Unknown priority", slog.String("priority", req.Priority))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "unknown priority value"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Order not found", slog.String("order_id", orderID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "order not found"))
			return
		}

		if err != nil {
			log.Error("Failed to update priority", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to update priority"))
			return
		}

		log.Info("Order priority updated", slog.String("order_id", orderID), slog.String("priority", req.Priority))

		render.JSON(w, r, Response{
			Order:       *order,
			Persistence: saved,
		})
	}
}
