package assign

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

type ShiftAssigner interface {
	AssignShift(ctx context.Context, req *api.AssignRequest) (*api.ShiftsResponse, api.SaveStatus, error)
}

type Request struct {
	api.AssignRequest
}

type Response struct {
	response.Response
	Shifts      api.ShiftsResponse `json:"shifts"`
	Persistence api.SaveStatus     `json:"persistence"`
}

func New(log *slog.Logger, assigner ShiftAssigner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.timetable.assign.New"

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

		shifts, saved, err := assigner.AssignShift(r.Context(), &req.AssignRequest)

		if errors.Is(err, response.ErrRange) {
			log.Error("Slot range invalid", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.RANGE_INVALID), "slot not on the grid or start after end"))
			return
		}

		if errors.Is(err, response.ErrValidation) {
			log.Error("Assignment validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "day or date is invalid"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Worker not found", slog.Int("worker_id", req.WorkerID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "worker not found"))
			return
		}

		if err != nil {
			log.Error("Failed to assign shift", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to assign shift"))
			return
		}

		log.Info("Shift assigned",
			slog.Int("worker_id", req.WorkerID),
			slog.String("day", req.Day),
			slog.String("start", req.StartSlot),
			slog.String("end", req.EndSlot),
		)

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Shifts:      *shifts,
			Persistence: saved,
		})
	}
}
