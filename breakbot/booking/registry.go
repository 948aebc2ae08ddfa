package booking

import "time"

// Category is a configured break type. The key is the stable identifier used
// for storage and lookups everywhere; the display name is presentation only.
type Category struct {
	Key         string
	Name        string
	DurationMin int
	Capacity    int
}

func (c Category) Duration() time.Duration {
	return time.Duration(c.DurationMin) * time.Minute
}

// Registry is the immutable category table, built once at process start.
type Registry struct {
	byKey map[string]Category
	order []string
}

func NewRegistry(categories ...Category) *Registry {
	r := &Registry{byKey: make(map[string]Category, len(categories))}
	for _, c := range categories {
		if _, exists := r.byKey[c.Key]; exists {
			continue
		}
		r.byKey[c.Key] = c
		r.order = append(r.order, c.Key)
	}
	return r
}

// DefaultRegistry returns the reference deployment's category table.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Category{Key: "lunch", Name: "🍽 Lunch", DurationMin: 45, Capacity: 5},
		Category{Key: "smoke", Name: "🚬 Smoke break", DurationMin: 10, Capacity: 3},
	)
}

func (r *Registry) Lookup(key string) (Category, bool) {
	c, ok := r.byKey[key]
	return c, ok
}

// Categories returns all categories in registration order.
func (r *Registry) Categories() []Category {
	out := make([]Category, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byKey[key])
	}
	return out
}
