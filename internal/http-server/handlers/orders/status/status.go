package status

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

type StatusUpdater interface {
	UpdateOrderStatus(ctx context.Context, orderID, status string) (*api.OrderResponse, api.SaveStatus, error)
}

type Request struct {
	api.StatusUpdateRequest
}

type Response struct {
	response.Response
	Order       api.OrderResponse `json:"order"`
	Persistence api.SaveStatus    `json:"persistence"`
}

func New(log *slog.Logger, updater StatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.status.New"

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

		order, saved, err := updater.UpdateOrderStatus(r.Context(), orderID, req.Status)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Unknown status", slog.String("status", req.Status))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "unknown status value"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Order not found", slog.String("order_id", orderID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "order not found"))
			return
		}

		if err != nil {
			log.Error("Failed to update status", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to update status"))
			return
		}

		log.Info("Order status updated", slog.String("order_id", orderID), slog.String("status", req.Status))

		render.JSON(w, r, Response{
			Order:       *order,
			Persistence: saved,
		})
	}
}
