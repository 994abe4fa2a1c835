package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"larder-service/api"
	"larder-service/pkg/response"
)

type JobsReader interface {
	ShopJobs(ctx context.Context) *api.JobsResponse
	JobDescriptions(ctx context.Context) *api.JobDescriptionsResponse
}

type JobsReply struct {
	response.Response
	api.JobsResponse
}

type DescriptionsReply struct {
	response.Response
	api.JobDescriptionsResponse
}

// New serves the static recurring-task table.
func New(log *slog.Logger, reader JobsReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, JobsReply{
			JobsResponse: *reader.ShopJobs(r.Context()),
		})
	}
}

// Descriptions serves the task-tag description map.
func Descriptions(log *slog.Logger, reader JobsReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, DescriptionsReply{
			JobDescriptionsResponse: *reader.JobDescriptions(r.Context()),
		})
	}
}
