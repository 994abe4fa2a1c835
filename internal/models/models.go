package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type Position string

const (
	PositionButcher       Position = "Butcher"
	PositionShopAssistant Position = "Shop Assistant"
	PositionManager       Position = "Manager"
	PositionCleaner       Position = "Cleaner"
)

func (p Position) Valid() bool {
	switch p {
	case PositionButcher, PositionShopAssistant, PositionManager, PositionCleaner:
		return true
	}
	return false
}

type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusInProgress OrderStatus = "In Progress"
	StatusCompleted  OrderStatus = "Completed"
	StatusCancelled  OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank orders priorities for sorting: High sorts before Medium before Low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

type Unit string

const (
	UnitKg   Unit = "kg"
	UnitG    Unit = "g"
	UnitEach Unit = "each"
	UnitPack Unit = "pack"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitKg, UnitG, UnitEach, UnitPack:
		return true
	}
	return false
}

// Weekdays is the fixed day ordering used everywhere a timetable is walked.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func ValidWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

type ItemKind string

const (
	ItemFreeform   ItemKind = "freeform"
	ItemStructured ItemKind = "structured"
)

// Item is a single order line. Older documents store items as plain strings,
// newer ones as structured records; both decode into the same tagged value
// and serialize back to their original shape.
type Item struct {
	Kind     ItemKind
	Text     string
	Name     string
	Quantity float64
	Unit     Unit
	Notes    string
}

type structuredItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     Unit    `json:"unit"`
	Notes    string  `json:"notes,omitempty"`
}

func (i *Item) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("failed to parse freeform item: %w", err)
		}
		*i = Item{Kind: ItemFreeform, Text: text}
		return nil
	}

	var rec structuredItem
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("failed to parse structured item: %w", err)
	}
	*i = Item{
		Kind:     ItemStructured,
		Name:     rec.Name,
		Quantity: rec.Quantity,
		Unit:     rec.Unit,
		Notes:    rec.Notes,
	}
	return nil
}

func (i Item) MarshalJSON() ([]byte, error) {
	if i.Kind == ItemFreeform {
		return json.Marshal(i.Text)
	}
	return json.Marshal(structuredItem{
		Name:     i.Name,
		Quantity: i.Quantity,
		Unit:     i.Unit,
		Notes:    i.Notes,
	})
}

type Worker struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Position         Position `json:"position"`
	Availability     []string `json:"availability"`
	UnavailableDates []string `json:"unavailable_dates"`
	HoursPerWeek     int      `json:"hours_per_week"`
	Skills           []string `json:"skills"`

	// Color lives in the worker_colors map of the persisted document,
	// not inline on the worker record.
	Color string `json:"-"`
}

type Order struct {
	OrderID         string      `json:"order_id"`
	CustomerName    string      `json:"customer_name"`
	CustomerContact string      `json:"customer_contact,omitempty"`
	CustomerEmail   string      `json:"customer_email,omitempty"`
	Items           []Item      `json:"items"`
	DueDate         time.Time   `json:"due_date"`
	CreatedDate     time.Time   `json:"created_date"`
	Status          OrderStatus `json:"status"`
	Priority        Priority    `json:"priority"`
	Notes           string      `json:"notes,omitempty"`
	TotalPrice      float64     `json:"total_price,omitempty"`
}

// WeekGrid maps weekday -> slot label -> assigned worker ids.
type WeekGrid map[string]map[string][]int

// Document is the durable representation of one shop instance, exchanged
// wholesale with the persistence gateway.
type Document struct {
	Workers         []Worker                       `json:"workers"`
	Orders          []Order                        `json:"orders"`
	Timetable       map[string]WeekGrid            `json:"timetable"`
	ShopJobs        map[string]map[string][]string `json:"shop_jobs"`
	JobDescriptions map[string]string              `json:"job_descriptions"`
	WorkerColors    map[string]string              `json:"worker_colors"`
}
