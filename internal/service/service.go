package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"larder-service/api"
	"larder-service/internal/jobs"
	"larder-service/internal/ledger"
	"larder-service/internal/lock"
	"larder-service/internal/models"
	"larder-service/internal/registry"
	"larder-service/internal/timetable"
	"larder-service/pkg/response"
)

const (
	flushLockKey    = "shop-state"
	flushLockTTL    = 10 * time.Second
	replayCacheSize = 512
)

// Gateway is the persistence collaborator: it saves and loads the whole
// shop document.
type Gateway interface {
	Save(ctx context.Context, doc *models.Document) error
	Load(ctx context.Context) (*models.Document, error)
}

// Service owns the in-memory stores and runs every command against them.
// Commands run one at a time; multi-step mutations such as range assignment
// and the worker-removal cascade appear atomic to readers.
type Service struct {
	mu sync.Mutex

	registry  *registry.Registry
	timetable *timetable.Store
	ledger    *ledger.Ledger
	jobs      *jobs.Table

	gateway Gateway
	locker  lock.Locker

	// replay maps Idempotency-Key values to the order id they created.
	replay *lru.Cache[string, string]

	now func() time.Time
}

func NewService(reg *registry.Registry, tt *timetable.Store, led *ledger.Ledger, jobsTable *jobs.Table, gateway Gateway, locker lock.Locker) (*Service, error) {
	const op = "service.NewService"

	replay, err := lru.New[string, string](replayCacheSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Service{
		registry:  reg,
		timetable: tt,
		ledger:    led,
		jobs:      jobsTable,
		gateway:   gateway,
		locker:    locker,
		replay:    replay,
		now:       time.Now,
	}, nil
}

// SetClock overrides the service clock for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
	s.ledger.SetClock(now)
}

// flush writes the whole document through the gateway under the advisory
// lock. The in-memory state stays authoritative either way; the returned
// status tells the caller whether the save landed.
func (s *Service) flush(ctx context.Context) api.SaveStatus {
	ok, err := s.locker.Lock(ctx, flushLockKey, flushLockTTL)
	if err != nil {
		return api.SaveStatus{Error: err.Error()}
	}
	if !ok {
		return api.SaveStatus{Error: response.ErrLocked.Error()}
	}
	defer s.locker.Unlock(ctx, flushLockKey)

	if err := s.gateway.Save(ctx, s.exportLocked()); err != nil {
		return api.SaveStatus{Error: err.Error()}
	}

	return api.SaveStatus{Saved: true}
}

// #### workers ####

func (s *Service) AddWorker(ctx context.Context, req *api.WorkerRequest) (*api.WorkerResponse, api.SaveStatus, error) {
	const op = "service.AddWorker"

	s.mu.Lock()
	defer s.mu.Unlock()

	worker, err := s.registry.Add(
		req.Name,
		models.Position(req.Position),
		req.Availability,
		req.UnavailableDates,
		req.HoursPerWeek,
		req.Skills,
	)
	if err != nil {
		return nil, api.SaveStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	resp := toWorkerResponse(*worker)

	return &resp, s.flush(ctx), nil
}

func (s *Service) GetWorker(ctx context.Context, id int) (*api.WorkerResponse, error) {
	const op = "service.GetWorker"

	s.mu.Lock()
	defer s.mu.Unlock()

	worker, err := s.registry.Get(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := toWorkerResponse(*worker)

	return &resp, nil
}

func (s *Service) ListWorkers(ctx context.Context) ([]api.WorkerResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	workers := s.registry.List()
	out := make([]api.WorkerResponse, 0, len(workers))
	for _, w := range workers {
		out = append(out, toWorkerResponse(w))
	}

	return out, nil
}

// RemoveWorker deletes the worker and purges its id from every timetable
// slot in the same command, so dangling assignments are never queryable.
func (s *Service) RemoveWorker(ctx context.Context, id int) (api.SaveStatus, error) {
	const op = "service.RemoveWorker"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.Remove(id); err != nil {
		return api.SaveStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	s.timetable.PurgeWorker(id)

	return s.flush(ctx), nil
}

// #### orders ####

// CreateOrder honors an optional Idempotency-Key: a replayed key returns the
// originally created order instead of creating a second one. When the client
// supplies no key, a generated one is returned so it can retry safely.
func (s *Service) CreateOrder(ctx context.Context, req *api.OrderRequest, idempotencyKey *string) (*api.OrderResponse, api.SaveStatus, error) {
	const op = "service.CreateOrder"

	s.mu.Lock()
	defer s.mu.Unlock()

	key := uuid.NewString()
	if idempotencyKey != nil {
		key = *idempotencyKey

		if orderID, ok := s.replay.Get(key); ok {
			existing, err := s.ledger.Get(orderID)
			if err == nil {
				resp := s.toOrderResponse(*existing)
				resp.IdempotencyKey = key
				return &resp, api.SaveStatus{Saved: true}, nil
			}
			// The order the key created has since been removed; fall
			// through and create a fresh one.
			s.replay.Remove(key)
		}
	}

	priority := models.Priority(req.Priority)
	if req.Priority == "" {
		priority = models.PriorityMedium
	}

	order, err := s.ledger.Add(models.Order{
		CustomerName:    req.CustomerName,
		CustomerContact: req.CustomerContact,
		CustomerEmail:   req.CustomerEmail,
		Items:           req.Items,
		DueDate:         req.DueDate,
		Priority:        priority,
		Notes:           req.Notes,
	})
	if err != nil {
		return nil, api.SaveStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	s.replay.Add(key, order.OrderID)

	resp := s.toOrderResponse(*order)
	resp.IdempotencyKey = key

	return &resp, s.flush(ctx), nil
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*api.OrderResponse, error) {
	const op = "service.GetOrder"

	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.ledger.Get(orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := s.toOrderResponse(*order)

	return &resp, nil
}

func (s *Service) ListOrders(ctx context.Context, q *api.OrderListQuery) ([]api.OrderResponse, error) {
	const op = "service.ListOrders"

	s.mu.Lock()
	defer s.mu.Unlock()

	var filter ledger.Filter

	if q.Status != "" && q.Status != "All" {
		status := models.OrderStatus(q.Status)
		filter.Status = &status
	}

	if q.Priority != "" && q.Priority != "All" {
		priority := models.Priority(q.Priority)
		filter.Priority = &priority
	}

	if q.DueWithinDays != nil {
		within := time.Duration(*q.DueWithinDays) * 24 * time.Hour
		filter.DueWithin = &within
	}

	filter.SortKey = ledger.SortKey(q.Sort)
	if q.Sort == "" {
		filter.SortKey = ledger.SortDueAsc
	}

	orders, err := s.ledger.FilterAndSort(filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]api.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, s.toOrderResponse(o))
	}

	return out, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, orderID, status string) (*api.OrderResponse, api.SaveStatus, error) {
	const op = "service.UpdateOrderStatus"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.UpdateStatus(orderID, models.OrderStatus(status)); err != nil {
		return nil, api.SaveStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	order, err := s.ledger.Get(orderID)
	if err != nil {
		return nil, api.SaveStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	resp := s.toOrderResponse(*order)

	return &resp, s.flush(ctx), nil
}

func (s *Service) UpdateOrderPriority(ctx context.Context, orderID, priority string) (*api.OrderResponse, api.SaveStatus, error) {
	const op = "service.UpdateOrderPriority"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.UpdatePriority(orderID, models.Priority(priority)); err != nil {
		return nil, api.SaveStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	order, err := s.ledger.Get(orderID)
	if err != nil {
		return nil, api.SaveStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	resp := s.toOrderResponse(*order)

	return &resp, s.flush(ctx), nil
}

func (s *Service) DuplicateOrder(ctx context.Context, orderID string) (*api.OrderResponse, api.SaveStatus, error) {
	const op = "service.DuplicateOrder"

	s.mu.Lock()
	defer s.mu.Unlock()

	dup, err := s.ledger.Duplicate(orderID)
	if err != nil {
		return nil, api.SaveStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	resp := s.toOrderResponse(*dup)

	return &resp, s.flush(ctx), nil
}

func (s *Service) RemoveOrder(ctx context.Context, orderID string) (api.SaveStatus, error) {
	const op = "service.RemoveOrder"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Remove(orderID); err != nil {
		return api.SaveStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.flush(ctx), nil
}

// #### timetable ####

// weekKey resolves the targeted week: explicit key, then date, then the
// current week.
func (s *Service) weekKey(week, date string) (string, error) {
	const op = "service.weekKey"

	if week != "" {
		return week, nil
	}

	if date != "" {
		ref, err := time.Parse("2006-01-02", date)
		if err != nil {
			return "", fmt.Errorf("%s: invalid date %q: %w", op, date, response.ErrValidation)
		}
		return timetable.WeekKey(ref), nil
	}

	return timetable.WeekKey(s.now()), nil
}

func (s *Service) AssignShift(ctx context.Context, req *api.AssignRequest) (*api.ShiftsResponse, api.SaveStatus, error) {
	const op = "service.AssignShift"

	s.mu.Lock()
	defer s.mu.Unlock()

	week, err := s.weekKey(req.Week, req.Date)
	if err != nil {
		return nil, api.SaveStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.registry.Get(req.WorkerID); err != nil {
		return nil, api.SaveStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.timetable.AssignRange(week, req.Day, req.WorkerID, req.StartSlot, req.EndSlot); err != nil {
		return nil, api.SaveStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := s.dayShiftsLocked(week, req.Day)
	if err != nil {
		return nil, api.SaveStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	return resp, s.flush(ctx), nil
}

func (s *Service) RemoveSlotAssignment(ctx context.Context, req *api.RemoveSlotRequest) (api.SaveStatus, error) {
	const op = "service.RemoveSlotAssignment"

	s.mu.Lock()
	defer s.mu.Unlock()

	week, err := s.weekKey(req.Week, req.Date)
	if err != nil {
		return api.SaveStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.timetable.RemoveFromSlot(week, req.Day, req.Slot, req.WorkerID); err != nil {
		return api.SaveStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.flush(ctx), nil
}

func (s *Service) ClearWorkerDay(ctx context.Context, req *api.ClearDayRequest) (api.SaveStatus, error) {
	const op = "service.ClearWorkerDay"

	s.mu.Lock()
	defer s.mu.Unlock()

	week, err := s.weekKey(req.Week, req.Date)
	if err != nil {
		return api.SaveStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.timetable.ClearWorkerDay(week, req.Day, req.WorkerID); err != nil {
		return api.SaveStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.flush(ctx), nil
}

func (s *Service) WeekGrid(ctx context.Context, week string) (*api.WeekResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &api.WeekResponse{
		Week: week,
		Grid: s.timetable.Grid(),
		Days: s.timetable.Week(week),
	}, nil
}

func (s *Service) DayShifts(ctx context.Context, week, day string) (*api.ShiftsResponse, error) {
	const op = "service.DayShifts"

	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.dayShiftsLocked(week, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

func (s *Service) dayShiftsLocked(week, day string) (*api.ShiftsResponse, error) {
	shifts, err := s.timetable.Shifts(week, day)
	if err != nil {
		return nil, err
	}

	out := make(map[int][]api.Shift, len(shifts))
	for id, blocks := range shifts {
		for _, b := range blocks {
			out[id] = append(out[id], api.Shift{Start: b.Start, End: b.End})
		}
	}

	return &api.ShiftsResponse{Week: week, Day: day, Shifts: out}, nil
}

func (s *Service) DayOverlaps(ctx context.Context, week, day string) (*api.OverlapsResponse, error) {
	const op = "service.DayOverlaps"

	s.mu.Lock()
	defer s.mu.Unlock()

	overlaps, err := s.timetable.Overlaps(week, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]api.Overlap, 0, len(overlaps))
	for _, o := range overlaps {
		out = append(out, api.Overlap{Slot: o.Slot, WorkerIDs: o.WorkerIDs})
	}

	return &api.OverlapsResponse{Week: week, Day: day, Overlaps: out}, nil
}

// #### jobs ####

func (s *Service) ShopJobs(ctx context.Context) *api.JobsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &api.JobsResponse{Jobs: s.jobs.Jobs()}
}

func (s *Service) JobDescriptions(ctx context.Context) *api.JobDescriptionsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &api.JobDescriptionsResponse{Descriptions: s.jobs.Descriptions()}
}

// #### assistant state ####

// Workers implements the assistant's state view.
func (s *Service) Workers() []models.Worker {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.registry.List()
}

// Orders implements the assistant's state view.
func (s *Service) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.List()
}

// #### state export / import ####

func (s *Service) ExportState(ctx context.Context) *models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.exportLocked()
}

func (s *Service) exportLocked() *models.Document {
	workers := s.registry.List()

	colors := make(map[string]string, len(workers))
	for _, w := range workers {
		colors[strconv.Itoa(w.ID)] = w.Color
	}

	return &models.Document{
		Workers:         workers,
		Orders:          s.ledger.List(),
		Timetable:       s.timetable.Export(),
		ShopJobs:        s.jobs.Jobs(),
		JobDescriptions: s.jobs.Descriptions(),
		WorkerColors:    colors,
	}
}

// ImportState replaces every store wholesale. Missing document keys fall
// back to built-in defaults, never to the prior in-memory value.
func (s *Service) ImportState(ctx context.Context, doc *models.Document) (api.SaveStatus, error) {
	const op = "service.ImportState"

	if doc == nil {
		return api.SaveStatus{}, fmt.Errorf("%s: document is empty: %w", op, response.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.importLocked(doc)

	return s.flush(ctx), nil
}

func (s *Service) importLocked(doc *models.Document) {
	colors := make(map[int]string, len(doc.WorkerColors))
	for key, color := range doc.WorkerColors {
		if id, err := strconv.Atoi(key); err == nil {
			colors[id] = color
		}
	}

	s.registry.Replace(doc.Workers, colors)
	s.ledger.Replace(doc.Orders)
	s.timetable.Replace(doc.Timetable)
	s.jobs.Replace(doc.ShopJobs, doc.JobDescriptions)
}

// LoadFromGateway pulls the persisted document at startup. A missing
// document is not an error: the stores start from defaults.
func (s *Service) LoadFromGateway(ctx context.Context) error {
	const op = "service.LoadFromGateway"

	doc, err := s.gateway.Load(ctx)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.importLocked(doc)

	return nil
}

// #### mapping ####

func toWorkerResponse(w models.Worker) api.WorkerResponse {
	return api.WorkerResponse{
		ID:               w.ID,
		Name:             w.Name,
		Position:         string(w.Position),
		Availability:     w.Availability,
		UnavailableDates: w.UnavailableDates,
		HoursPerWeek:     w.HoursPerWeek,
		Skills:           w.Skills,
		Color:            w.Color,
	}
}

func (s *Service) toOrderResponse(o models.Order) api.OrderResponse {
	now := s.now()

	return api.OrderResponse{
		OrderID:         o.OrderID,
		CustomerName:    o.CustomerName,
		CustomerContact: o.CustomerContact,
		CustomerEmail:   o.CustomerEmail,
		Items:           o.Items,
		DueDate:         o.DueDate,
		CreatedDate:     o.CreatedDate,
		Status:          string(o.Status),
		Priority:        string(o.Priority),
		Notes:           o.Notes,
		TotalPrice:      o.TotalPrice,
		Overdue:         ledger.Overdue(o, now),
		Urgent:          ledger.Urgent(o, now),
	}
}
