package remove

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

type SlotRemover interface {
	RemoveSlotAssignment(ctx context.Context, req *api.RemoveSlotRequest) (api.SaveStatus, error)
}

type Request struct {
	api.RemoveSlotRequest
}

type Response struct {
	response.Response
	Persistence api.SaveStatus `json:"persistence"`
}

func New(log *slog.Logger, remover SlotRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.timetable.remove.New"

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

		saved, err := remover.RemoveSlotAssignment(r.Context(), &req.RemoveSlotRequest)

		if errors.Is(err, response.ErrRange) {
			log.Error("Slot invalid", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.RANGE_INVALID), "slot not on the grid"))
			return
		}

		if errors.Is(err, response.ErrValidation) {
			log.Error("Removal validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "day or date is invalid"))
			return
		}

		if err != nil {
			log.Error("Failed to remove slot assignment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to remove slot assignment"))
			return
		}

		log.Info("Slot assignment removed",
			slog.Int("worker_id", req.WorkerID),
			slog.String("day", req.Day),
			slog.String("slot", req.Slot),
		)

		render.JSON(w, r, Response{
			Persistence: saved,
		})
	}
}
