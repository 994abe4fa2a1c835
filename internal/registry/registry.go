package registry

import (
	"fmt"
	"slices"
	"strings"

	"larder-service/internal/models"
	"larder-service/pkg/response"
)

// DefaultPalette is the display-color rotation for newly added workers.
var DefaultPalette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe",
}

// Registry holds worker records in insertion order.
type Registry struct {
	workers []*models.Worker
	palette []string
}

func New(palette []string) *Registry {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &Registry{palette: palette}
}

// Add creates a worker. The id is max(existing)+1 and the color is the
// palette entry at the current worker count, cycling once the palette is
// exhausted, so color assignment is reproducible.
func (r *Registry) Add(name string, position models.Position, availability []string, unavailableDates []string, hoursPerWeek int, skills []string) (*models.Worker, error) {
	const op = "registry.Registry.Add"

	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%s: name is empty: %w", op, response.ErrValidation)
	}

	if !position.Valid() {
		return nil, fmt.Errorf("%s: unknown position %q: %w", op, position, response.ErrValidation)
	}

	for _, day := range availability {
		if !models.ValidWeekday(day) {
			return nil, fmt.Errorf("%s: unknown availability day %q: %w", op, day, response.ErrValidation)
		}
	}

	maxID := 0
	for _, w := range r.workers {
		if w.ID > maxID {
			maxID = w.ID
		}
	}

	worker := &models.Worker{
		ID:               maxID + 1,
		Name:             name,
		Position:         position,
		Availability:     slices.Clone(availability),
		UnavailableDates: slices.Clone(unavailableDates),
		HoursPerWeek:     hoursPerWeek,
		Skills:           slices.Clone(skills),
		Color:            r.palette[len(r.workers)%len(r.palette)],
	}

	r.workers = append(r.workers, worker)

	return worker, nil
}

func (r *Registry) Get(id int) (*models.Worker, error) {
	const op = "registry.Registry.Get"

	for _, w := range r.workers {
		if w.ID == id {
			return w, nil
		}
	}

	return nil, fmt.Errorf("%s: worker %d: %w", op, id, response.ErrNotFound)
}

// List returns the workers in insertion order.
func (r *Registry) List() []models.Worker {
	out := make([]models.Worker, 0, len(r.workers))
	for _, w := range r.workers {
		out = append(out, *w)
	}
	return out
}

// Remove deletes a worker. Unlike list-filter removal, a missing id is
// surfaced so the caller can decide what to do.
func (r *Registry) Remove(id int) error {
	const op = "registry.Registry.Remove"

	for i, w := range r.workers {
		if w.ID == id {
			r.workers = slices.Delete(r.workers, i, i+1)
			return nil
		}
	}

	return fmt.Errorf("%s: worker %d: %w", op, id, response.ErrNotFound)
}

// Replace swaps in a whole worker set; colors are taken from the supplied
// map when present, otherwise re-derived from the palette.
func (r *Registry) Replace(workers []models.Worker, colors map[int]string) {
	r.workers = make([]*models.Worker, 0, len(workers))
	for i := range workers {
		w := workers[i]
		if c, ok := colors[w.ID]; ok {
			w.Color = c
		} else {
			w.Color = r.palette[len(r.workers)%len(r.palette)]
		}
		r.workers = append(r.workers, &w)
	}
}
