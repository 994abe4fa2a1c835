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

type OrderCreator interface {
	CreateOrder(ctx context.Context, req *api.OrderRequest, idempotencyKey *string) (*api.OrderResponse, api.SaveStatus, error)
}

type Request struct {
	api.OrderRequest
}

type Response struct {
	response.Response
	Order       api.OrderResponse `json:"order"`
	Persistence api.SaveStatus    `json:"persistence"`
}

func New(log *slog.Logger, creator OrderCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.create.New"

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

		idempotencyKey := r.Header.Get("Idempotency-Key")
		var idempotencyKeyPtr *string
		if idempotencyKey != "" {
			idempotencyKeyPtr = &idempotencyKey
		}

		order, saved, err := creator.CreateOrder(r.Context(), &req.OrderRequest, idempotencyKeyPtr)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Order validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "customer_name and items are required"))
			return
		}

		if err != nil {
			log.Error("Failed to create order", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create order"))
			return
		}

		log.Info("Order created", slog.String("order_id", order.OrderID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Order:       *order,
			Persistence: saved,
		})
	}
}
