package assistant

import (
	"fmt"
	"strings"
	"time"

	"larder-service/internal/ledger"
	"larder-service/internal/models"
)

// StateReader is the slice of shop state the assistant can see.
type StateReader interface {
	Workers() []models.Worker
	Orders() []models.Order
}

// Assistant pattern-matches question keywords to canned replies built from
// live shop state. It does no language understanding.
type Assistant struct {
	state StateReader
	now   func() time.Time
}

func New(state StateReader) *Assistant {
	return &Assistant{state: state, now: time.Now}
}

// SetClock overrides the assistant clock for tests.
func (a *Assistant) SetClock(now func() time.Time) {
	a.now = now
}

func (a *Assistant) Reply(question string) string {
	q := strings.ToLower(question)

	switch {
	case containsAny(q, "overdue", "late", "urgent"):
		return a.urgencyReply()
	case containsAny(q, "worker", "staff", "employee"):
		return a.workersReply()
	case containsAny(q, "timetable", "roster", "schedule", "shift"):
		return "You can view and manage the timetable in the rostering section. Shifts are built from 30-minute slots; overlapping assignments are flagged for review."
	case containsAny(q, "order", "delivery"):
		return a.ordersReply()
	}

	return "I can help with workers, timetables and orders. Try asking about staff, the schedule, or upcoming orders."
}

func (a *Assistant) workersReply() string {
	workers := a.state.Workers()
	if len(workers) == 0 {
		return "There are no workers registered yet."
	}

	names := make([]string, 0, len(workers))
	for _, w := range workers {
		names = append(names, w.Name)
	}

	return fmt.Sprintf("We have %d workers: %s.", len(names), strings.Join(names, ", "))
}

func (a *Assistant) ordersReply() string {
	var pending []models.Order
	for _, o := range a.state.Orders() {
		if o.Status == models.StatusPending {
			pending = append(pending, o)
		}
	}

	if len(pending) == 0 {
		return "There are no pending orders."
	}

	next := pending[0]
	for _, o := range pending[1:] {
		if o.DueDate.Before(next.DueDate) {
			next = o
		}
	}

	return fmt.Sprintf("We have %d pending orders. The next one due is %s for %s.", len(pending), next.OrderID, next.CustomerName)
}

func (a *Assistant) urgencyReply() string {
	now := a.now()

	var overdue, urgent int
	for _, o := range a.state.Orders() {
		if ledger.Overdue(o, now) {
			overdue++
		} else if ledger.Urgent(o, now) {
			urgent++
		}
	}

	if overdue == 0 && urgent == 0 {
		return "Nothing is overdue and nothing is due in the next two days."
	}

	return fmt.Sprintf("%d orders are overdue and %d more are due within two days.", overdue, urgent)
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
