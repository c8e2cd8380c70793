package supplier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Registry manages registered suppliers.
type Registry struct {
	suppliers map[string]Supplier
	mu        sync.RWMutex
}

// NewRegistry creates a new supplier registry.
func NewRegistry() *Registry {
	return &Registry{
		suppliers: make(map[string]Supplier),
	}
}

// Register adds a supplier to the registry.
func (r *Registry) Register(s Supplier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers[s.Name()] = s
}

// Get returns a supplier by name.
func (r *Registry) Get(name string) (Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.suppliers[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrSupplierNotFound, name)
}

// All returns all registered suppliers.
func (r *Registry) All() []Supplier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		result = append(result, s)
	}
	return result
}

// Names returns the names of all registered suppliers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.suppliers))
	for name := range r.suppliers {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered suppliers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.suppliers)
}

// ListAllOrders fetches recent orders from all registered suppliers in
// parallel. Errors from individual suppliers are collected but don't fail
// the entire request.
func (r *Registry) ListAllOrders(ctx context.Context, since time.Time) (map[string][]Order, []error) {
	suppliers := r.All()
	if len(suppliers) == 0 {
		return nil, []error{ErrSupplierNotFound}
	}

	results := make(map[string][]Order, len(suppliers))
	errs := make([]error, 0)
	mu := &sync.Mutex{}

	g, ctx := errgroup.WithContext(ctx)

	for _, s := range suppliers {
		s := s
		g.Go(func() error {
			orders, err := s.ListOrders(ctx, since)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
				return nil // continue with other suppliers
			}
			results[s.Name()] = orders
			return nil
		})
	}

	g.Wait()
	return results, errs
}
