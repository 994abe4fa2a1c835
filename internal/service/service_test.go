package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larder-service/api"
	"larder-service/internal/jobs"
	"larder-service/internal/ledger"
	"larder-service/internal/lock"
	"larder-service/internal/models"
	"larder-service/internal/registry"
	"larder-service/internal/timetable"
	"larder-service/pkg/response"
)

var base = time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)

type fakeGateway struct {
	saved    *models.Document
	failSave bool
	loadDoc  *models.Document
}

func (g *fakeGateway) Save(ctx context.Context, doc *models.Document) error {
	if g.failSave {
		return errors.New("disk full")
	}
	g.saved = doc
	return nil
}

func (g *fakeGateway) Load(ctx context.Context) (*models.Document, error) {
	if g.loadDoc == nil {
		return nil, response.ErrNotFound
	}
	return g.loadDoc, nil
}

func newTestService(t *testing.T, gw *fakeGateway) *Service {
	t.Helper()

	grid, err := timetable.New("07:30", "18:00", 30*time.Minute)
	require.NoError(t, err)

	s, err := NewService(
		registry.New([]string{"red", "green", "blue"}),
		grid,
		ledger.New(12.50),
		jobs.Defaults(),
		gw,
		lock.Noop{},
	)
	require.NoError(t, err)

	s.SetClock(func() time.Time { return base })

	return s
}

func addTestWorker(t *testing.T, s *Service, name string) *api.WorkerResponse {
	t.Helper()

	w, saved, err := s.AddWorker(context.Background(), &api.WorkerRequest{
		Name:         name,
		Position:     string(models.PositionButcher),
		Availability: []string{"Monday", "Friday"},
		HoursPerWeek: 40,
	})
	require.NoError(t, err)
	require.True(t, saved.Saved)

	return w
}

func TestAddWorkerFlushesThrough(t *testing.T) {
	gw := &fakeGateway{}
	s := newTestService(t, gw)

	w := addTestWorker(t, s, "John MacLeod")
	assert.Equal(t, 1, w.ID)
	assert.Equal(t, "red", w.Color)

	require.NotNil(t, gw.saved)
	require.Len(t, gw.saved.Workers, 1)
	assert.Equal(t, "John MacLeod", gw.saved.Workers[0].Name)
	assert.Equal(t, "red", gw.saved.WorkerColors["1"])
}

func TestFlushFailureKeepsMutation(t *testing.T) {
	gw := &fakeGateway{failSave: true}
	s := newTestService(t, gw)

	w, saved, err := s.AddWorker(context.Background(), &api.WorkerRequest{
		Name:     "Sarah Campbell",
		Position: string(models.PositionShopAssistant),
	})
	require.NoError(t, err)

	// The command succeeded in memory; only the flush failed.
	assert.False(t, saved.Saved)
	assert.Contains(t, saved.Error, "disk full")

	got, err := s.GetWorker(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sarah Campbell", got.Name)
}

func TestRemoveWorkerCascadesIntoTimetable(t *testing.T) {
	gw := &fakeGateway{}
	s := newTestService(t, gw)

	w := addTestWorker(t, s, "John MacLeod")
	other := addTestWorker(t, s, "Michael Fraser")

	_, saved, err := s.AssignShift(context.Background(), &api.AssignRequest{
		Week: "2026-W35", Day: "Monday", WorkerID: w.ID, StartSlot: "08:00", EndSlot: "12:00",
	})
	require.NoError(t, err)
	require.True(t, saved.Saved)

	_, _, err = s.AssignShift(context.Background(), &api.AssignRequest{
		Week: "2026-W36", Day: "Friday", WorkerID: w.ID, StartSlot: "09:00", EndSlot: "10:00",
	})
	require.NoError(t, err)

	_, _, err = s.AssignShift(context.Background(), &api.AssignRequest{
		Week: "2026-W35", Day: "Monday", WorkerID: other.ID, StartSlot: "08:00", EndSlot: "12:00",
	})
	require.NoError(t, err)

	saved, err = s.RemoveWorker(context.Background(), w.ID)
	require.NoError(t, err)
	require.True(t, saved.Saved)

	doc := s.ExportState(context.Background())
	for week, days := range doc.Timetable {
		for day, slots := range days {
			for slot, ids := range slots {
				assert.NotContains(t, ids, w.ID, "%s %s %s", week, day, slot)
			}
		}
	}

	shifts, err := s.DayShifts(context.Background(), "2026-W35", "Monday")
	require.NoError(t, err)
	assert.NotContains(t, shifts.Shifts, w.ID)
	assert.Contains(t, shifts.Shifts, other.ID)
}

func TestAssignShiftUnknownWorker(t *testing.T) {
	s := newTestService(t, &fakeGateway{})

	_, _, err := s.AssignShift(context.Background(), &api.AssignRequest{
		Week: "2026-W35", Day: "Monday", WorkerID: 99, StartSlot: "08:00", EndSlot: "09:00",
	})
	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestAssignShiftDefaultsToCurrentWeek(t *testing.T) {
	s := newTestService(t, &fakeGateway{})
	w := addTestWorker(t, s, "John MacLeod")

	_, _, err := s.AssignShift(context.Background(), &api.AssignRequest{
		Day: "Monday", WorkerID: w.ID, StartSlot: "08:00", EndSlot: "09:00",
	})
	require.NoError(t, err)

	week := timetable.WeekKey(base)
	shifts, err := s.DayShifts(context.Background(), week, "Monday")
	require.NoError(t, err)
	assert.Contains(t, shifts.Shifts, w.ID)
}

func TestCreateOrderIdempotencyReplay(t *testing.T) {
	s := newTestService(t, &fakeGateway{})

	key := "retry-123"
	req := &api.OrderRequest{
		CustomerName: "Highland Hotel",
		Items:        []models.Item{{Kind: models.ItemStructured, Name: "Beef Mince", Quantity: 5, Unit: models.UnitKg}},
		DueDate:      base.AddDate(0, 0, 2),
	}

	first, _, err := s.CreateOrder(context.Background(), req, &key)
	require.NoError(t, err)

	second, saved, err := s.CreateOrder(context.Background(), req, &key)
	require.NoError(t, err)
	assert.True(t, saved.Saved)
	assert.Equal(t, first.OrderID, second.OrderID)

	orders, err := s.ListOrders(context.Background(), &api.OrderListQuery{})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestCreateOrderGeneratesKey(t *testing.T) {
	s := newTestService(t, &fakeGateway{})

	order, _, err := s.CreateOrder(context.Background(), &api.OrderRequest{
		CustomerName: "Local Cafe",
		Items:        []models.Item{{Kind: models.ItemFreeform, Text: "8kg Bacon"}},
		DueDate:      base.AddDate(0, 0, 5),
	}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, order.IdempotencyKey)
}

func TestListOrdersFilters(t *testing.T) {
	s := newTestService(t, &fakeGateway{})

	mk := func(name string, dueDays int, status string) {
		o, _, err := s.CreateOrder(context.Background(), &api.OrderRequest{
			CustomerName: name,
			Items:        []models.Item{{Kind: models.ItemFreeform, Text: "meat"}},
			DueDate:      base.AddDate(0, 0, dueDays),
		}, nil)
		require.NoError(t, err)
		if status != string(models.StatusPending) {
			_, _, err = s.UpdateOrderStatus(context.Background(), o.OrderID, status)
			require.NoError(t, err)
		}
	}

	mk("A", 5, "Pending")
	mk("B", 1, "In Progress")
	mk("C", 2, "Pending")

	out, err := s.ListOrders(context.Background(), &api.OrderListQuery{Status: "Pending", Sort: "due_date_asc"})
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "C", out[0].CustomerName)
	assert.Equal(t, "A", out[1].CustomerName)

	// "All" means no constraint.
	out, err = s.ListOrders(context.Background(), &api.OrderListQuery{Status: "All"})
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestOrderResponseClassification(t *testing.T) {
	s := newTestService(t, &fakeGateway{})

	order, _, err := s.CreateOrder(context.Background(), &api.OrderRequest{
		CustomerName: "Local Cafe",
		Items:        []models.Item{{Kind: models.ItemFreeform, Text: "meat"}},
		DueDate:      base.Add(24 * time.Hour),
	}, nil)
	require.NoError(t, err)

	assert.False(t, order.Overdue)
	assert.True(t, order.Urgent)
}

func TestExportImportRoundTrip(t *testing.T) {
	gw := &fakeGateway{}
	s := newTestService(t, gw)

	w := addTestWorker(t, s, "John MacLeod")
	_, _, err := s.CreateOrder(context.Background(), &api.OrderRequest{
		CustomerName: "Highland Hotel",
		Items: []models.Item{
			{Kind: models.ItemFreeform, Text: "3 Whole Chickens"},
			{Kind: models.ItemStructured, Name: "Pork Shoulder", Quantity: 10, Unit: models.UnitKg},
		},
		DueDate: base.AddDate(0, 0, 2),
	}, nil)
	require.NoError(t, err)

	_, _, err = s.AssignShift(context.Background(), &api.AssignRequest{
		Week: "2026-W35", Day: "Monday", WorkerID: w.ID, StartSlot: "08:00", EndSlot: "12:00",
	})
	require.NoError(t, err)

	doc := s.ExportState(context.Background())

	fresh := newTestService(t, &fakeGateway{})
	saved, err := fresh.ImportState(context.Background(), doc)
	require.NoError(t, err)
	require.True(t, saved.Saved)

	assert.Equal(t, doc, fresh.ExportState(context.Background()))
}

func TestImportStateMissingKeysFallBack(t *testing.T) {
	s := newTestService(t, &fakeGateway{})
	addTestWorker(t, s, "John MacLeod")

	// A bare document wipes workers/orders but restores default jobs.
	saved, err := s.ImportState(context.Background(), &models.Document{})
	require.NoError(t, err)
	require.True(t, saved.Saved)

	workers, err := s.ListWorkers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, workers)

	jobsResp := s.ShopJobs(context.Background())
	assert.NotEmpty(t, jobsResp.Jobs)
	assert.NotEmpty(t, s.JobDescriptions(context.Background()).Descriptions)
}

func TestLoadFromGateway(t *testing.T) {
	// Missing document starts from defaults.
	s := newTestService(t, &fakeGateway{})
	require.NoError(t, s.LoadFromGateway(context.Background()))

	// A persisted document is restored wholesale.
	gw := &fakeGateway{loadDoc: &models.Document{
		Workers:      []models.Worker{{ID: 4, Name: "Michael Fraser", Position: models.PositionButcher}},
		WorkerColors: map[string]string{"4": "#abcdef"},
	}}
	s = newTestService(t, gw)
	require.NoError(t, s.LoadFromGateway(context.Background()))

	w, err := s.GetWorker(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Michael Fraser", w.Name)
	assert.Equal(t, "#abcdef", w.Color)
}
