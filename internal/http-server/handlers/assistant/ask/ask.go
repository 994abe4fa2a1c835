package ask

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"larder-service/api"
	"larder-service/pkg/response"
	"larder-service/pkg/sl"
)

type Replier interface {
	Reply(question string) string
}

type Request struct {
	api.AssistantRequest
}

type Response struct {
	response.Response
	api.AssistantResponse
}

func New(log *slog.Logger, replier Replier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.assistant.ask.New"

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

		if strings.TrimSpace(req.Question) == "" {
			log.Error("Question is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), "question is required"))
			return
		}

		render.JSON(w, r, Response{
			AssistantResponse: api.AssistantResponse{Reply: replier.Reply(req.Question)},
		})
	}
}
