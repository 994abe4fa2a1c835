package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"larder-service/api"
	"larder-service/pkg/response"
	"larder-service/pkg/sl"
)

type OrderLister interface {
	ListOrders(ctx context.Context, q *api.OrderListQuery) ([]api.OrderResponse, error)
}

type Response struct {
	response.Response
	Orders []api.OrderResponse `json:"orders"`
}

// New lists orders filtered and sorted by query params: status, priority,
// due_within_days, sort (due_date_asc, due_date_desc, priority,
// created_asc).
func New(log *slog.Logger, lister OrderLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.list.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		q := api.OrderListQuery{
			Status:   r.URL.Query().Get("status"),
			Priority: r.URL.Query().Get("priority"),
			Sort:     r.URL.Query().Get("sort"),
		}

		if raw := r.URL.Query().Get("due_within_days"); raw != "" {
			days, err := strconv.Atoi(raw)
			if err != nil {
				log.Error("Invalid due_within_days", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "due_within_days must be an integer"))
				return
			}
			q.DueWithinDays = &days
		}

		orders, err := lister.ListOrders(r.Context(), &q)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Invalid filter", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "unknown status, priority or sort key"))
			return
		}

		if err != nil {
			log.Error("Failed to list orders", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list orders"))
			return
		}

		render.JSON(w, r, Response{
			Orders: orders,
		})
	}
}
