package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"larder-service/internal/models"
)

var base = time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)

type fakeState struct {
	workers []models.Worker
	orders  []models.Order
}

func (f *fakeState) Workers() []models.Worker { return f.workers }
func (f *fakeState) Orders() []models.Order   { return f.orders }

func newTestAssistant(state *fakeState) *Assistant {
	a := New(state)
	a.SetClock(func() time.Time { return base })
	return a
}

func TestWorkersReply(t *testing.T) {
	a := newTestAssistant(&fakeState{workers: []models.Worker{
		{ID: 1, Name: "John MacLeod"},
		{ID: 2, Name: "Sarah Campbell"},
	}})

	reply := a.Reply("Who is on the STAFF this week?")
	assert.Contains(t, reply, "2 workers")
	assert.Contains(t, reply, "John MacLeod")
	assert.Contains(t, reply, "Sarah Campbell")

	empty := newTestAssistant(&fakeState{})
	assert.Equal(t, "There are no workers registered yet.", empty.Reply("any workers?"))
}

func TestOrdersReply(t *testing.T) {
	a := newTestAssistant(&fakeState{orders: []models.Order{
		{OrderID: "ORD001", CustomerName: "Highland Hotel", Status: models.StatusPending, DueDate: base.AddDate(0, 0, 4)},
		{OrderID: "ORD002", CustomerName: "Local Cafe", Status: models.StatusPending, DueDate: base.AddDate(0, 0, 3)},
		{OrderID: "ORD003", CustomerName: "Walk-in", Status: models.StatusCompleted, DueDate: base.AddDate(0, 0, 1)},
	}})

	reply := a.Reply("what orders are coming up?")
	assert.Contains(t, reply, "2 pending orders")
	// Completed orders never win "next due" even with an earlier date.
	assert.Contains(t, reply, "ORD002")
	assert.Contains(t, reply, "Local Cafe")

	empty := newTestAssistant(&fakeState{})
	assert.Equal(t, "There are no pending orders.", empty.Reply("any deliveries today?"))
}

func TestUrgencyReply(t *testing.T) {
	a := newTestAssistant(&fakeState{orders: []models.Order{
		{OrderID: "ORD001", Status: models.StatusPending, DueDate: base.AddDate(0, 0, -1)},
		{OrderID: "ORD002", Status: models.StatusPending, DueDate: base.Add(24 * time.Hour)},
		{OrderID: "ORD003", Status: models.StatusPending, DueDate: base.AddDate(0, 0, 10)},
	}})

	reply := a.Reply("anything overdue?")
	assert.Contains(t, reply, "1 orders are overdue")
	assert.Contains(t, reply, "1 more are due within two days")

	calm := newTestAssistant(&fakeState{orders: []models.Order{
		{OrderID: "ORD001", Status: models.StatusPending, DueDate: base.AddDate(0, 0, 10)},
	}})
	assert.Equal(t, "Nothing is overdue and nothing is due in the next two days.", calm.Reply("are we late on anything?"))
}

func TestUrgencyBeatsOrderKeyword(t *testing.T) {
	a := newTestAssistant(&fakeState{})

	// A question matching both groups routes to the urgency reply.
	reply := a.Reply("which orders are urgent?")
	assert.Equal(t, "Nothing is overdue and nothing is due in the next two days.", reply)
}

func TestTimetableAndFallbackReplies(t *testing.T) {
	a := newTestAssistant(&fakeState{})

	assert.Contains(t, a.Reply("how do I read the roster?"), "30-minute slots")
	assert.Contains(t, a.Reply("what's the weather like?"), "I can help with")
}
