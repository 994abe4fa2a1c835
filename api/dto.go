package api

import (
	"time"

	"larder-service/internal/models"
)

// SaveStatus reports the outcome of the write-through flush that follows
// every mutating command. A failed flush does not roll the command back;
// the caller decides whether to retry.
type SaveStatus struct {
	Saved bool   `json:"saved"`
	Error string `json:"error,omitempty"`
}

type WorkerRequest struct {
	Name             string   `json:"name"`
	Position         string   `json:"position"`
	Availability     []string `json:"availability"`
	UnavailableDates []string `json:"unavailable_dates"`
	HoursPerWeek     int      `json:"hours_per_week"`
	Skills           []string `json:"skills"`
}

type WorkerResponse struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Position         string   `json:"position"`
	Availability     []string `json:"availability"`
	UnavailableDates []string `json:"unavailable_dates"`
	HoursPerWeek     int      `json:"hours_per_week"`
	Skills           []string `json:"skills"`
	Color            string   `json:"color"`
}

// OrderRequest items reuse the ledger item decoding, so each entry may be a
// plain string or a structured record.
type OrderRequest struct {
	CustomerName    string         `json:"customer_name"`
	CustomerContact string         `json:"customer_contact,omitempty"`
	CustomerEmail   string         `json:"customer_email,omitempty"`
	Items           []models.Item  `json:"items"`
	DueDate         time.Time      `json:"due_date"`
	Priority        string         `json:"priority,omitempty"`
	Notes           string         `json:"notes,omitempty"`
}

type OrderResponse struct {
	OrderID         string        `json:"order_id"`
	CustomerName    string        `json:"customer_name"`
	CustomerContact string        `json:"customer_contact,omitempty"`
	CustomerEmail   string        `json:"customer_email,omitempty"`
	Items           []models.Item `json:"items"`
	DueDate         time.Time     `json:"due_date"`
	CreatedDate     time.Time     `json:"created_date"`
	Status          string        `json:"status"`
	Priority        string        `json:"priority"`
	Notes           string        `json:"notes,omitempty"`
	TotalPrice      float64       `json:"total_price,omitempty"`
	Overdue         bool          `json:"overdue"`
	Urgent          bool          `json:"urgent"`
	IdempotencyKey  string        `json:"idempotency_key,omitempty"`
}

type OrderListQuery struct {
	Status        string `json:"status,omitempty"`
	Priority      string `json:"priority,omitempty"`
	DueWithinDays *int   `json:"due_within_days,omitempty"`
	Sort          string `json:"sort,omitempty"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

type PriorityUpdateRequest struct {
	Priority string `json:"priority"`
}

// AssignRequest targets a week either by key ("2026-W35") or by any date
// inside it; the key wins when both are present, and an empty pair means the
// current week.
type AssignRequest struct {
	Week      string `json:"week,omitempty"`
	Date      string `json:"date,omitempty"`
	Day       string `json:"day"`
	WorkerID  int    `json:"worker_id"`
	StartSlot string `json:"start_slot"`
	EndSlot   string `json:"end_slot"`
}

type RemoveSlotRequest struct {
	Week     string `json:"week,omitempty"`
	Date     string `json:"date,omitempty"`
	Day      string `json:"day"`
	Slot     string `json:"slot"`
	WorkerID int    `json:"worker_id"`
}

type ClearDayRequest struct {
	Week     string `json:"week,omitempty"`
	Date     string `json:"date,omitempty"`
	Day      string `json:"day"`
	WorkerID int    `json:"worker_id"`
}

type Shift struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Overlap struct {
	Slot      string `json:"slot"`
	WorkerIDs []int  `json:"worker_ids"`
}

type WeekResponse struct {
	Week string          `json:"week"`
	Grid []string        `json:"grid"`
	Days models.WeekGrid `json:"days"`
}

type ShiftsResponse struct {
	Week   string          `json:"week"`
	Day    string          `json:"day"`
	Shifts map[int][]Shift `json:"shifts"`
}

type OverlapsResponse struct {
	Week     string    `json:"week"`
	Day      string    `json:"day"`
	Overlaps []Overlap `json:"overlaps"`
}

type JobsResponse struct {
	Jobs map[string]map[string][]string `json:"shop_jobs"`
}

type JobDescriptionsResponse struct {
	Descriptions map[string]string `json:"job_descriptions"`
}

type AssistantRequest struct {
	Question string `json:"question"`
}

type AssistantResponse struct {
	Reply string `json:"reply"`
}
