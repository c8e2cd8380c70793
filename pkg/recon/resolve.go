package recon

import (
	"context"
	"fmt"
	"strings"

	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Resolver maps a supplier order reference to exactly one platform order.
//
// References come in two shapes: an order number the customer saw
// ("#362673", sometimes without the marker), or the platform's opaque
// numeric order id. Order numbers go through the platform's name search,
// which can return several near matches; the resolver only ever accepts an
// exact, case-insensitive name match. Accepting the first search result
// here once attached a customer's tracking to a different customer's
// order, which is why this is a hard gate and not a heuristic.
type Resolver struct {
	platform platform.Client
	logger   *otelzap.Logger

	// numberPrefix is the store's order-number sequence prefix ("36" for a
	// store whose orders run #36xxxx). A reference starting with it, with
	// or without the leading '#', is treated as an order name.
	numberPrefix string
}

// NewResolver creates a resolver. numberPrefix identifies name-shaped
// references; empty means only '#'-prefixed references are name-shaped.
func NewResolver(client platform.Client, numberPrefix string, logger *otelzap.Logger) *Resolver {
	return &Resolver{
		platform:     client,
		logger:       logger,
		numberPrefix: numberPrefix,
	}
}

// IsNameReference reports whether ref looks like a human-facing order name
// rather than an opaque order id.
func (r *Resolver) IsNameReference(ref string) bool {
	if strings.HasPrefix(ref, "#") {
		return true
	}
	return r.numberPrefix != "" && strings.HasPrefix(ref, r.numberPrefix)
}

// orderName normalizes a name-shaped reference to the platform's display
// form, which always carries the '#' marker.
func orderName(ref string) string {
	if strings.HasPrefix(ref, "#") {
		return ref
	}
	return "#" + ref
}

// Resolve maps a supplier reference to its platform order.
// Returns platform.ErrOrderNotFound when nothing matches, and
// ErrAmbiguousMatch when the search returned candidates but none exactly
// equal the reference. Callers treat both as not-found; neither is ever
// resolved by guessing.
func (r *Resolver) Resolve(ctx context.Context, ref string) (*platform.Order, error) {
	if !r.IsNameReference(ref) {
		order, err := r.platform.GetOrderByID(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("lookup by id %q: %w", ref, err)
		}
		return order, nil
	}

	name := orderName(ref)
	candidates, err := r.platform.FindOrdersByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("search for %q: %w", name, err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("search for %q: %w", name, platform.ErrOrderNotFound)
	}

	var exact *platform.Order
	exactCount := 0
	for i := range candidates {
		if strings.EqualFold(candidates[i].Name, name) {
			exact = &candidates[i]
			exactCount++
		}
	}

	if exactCount != 1 {
		r.logger.Warn("No exact order match, refusing to guess",
			zap.String("reference", name),
			zap.Int("candidates", len(candidates)),
			zap.Int("exact_matches", exactCount),
		)
		return nil, fmt.Errorf("search for %q returned %d candidates: %w",
			name, len(candidates), ErrAmbiguousMatch)
	}

	return exact, nil
}

// Verify re-checks a resolved order against its supplier reference. It is
// the last line of defence before tracking is attached: a mismatch here is
// a MismatchError, never a soft error. Only name-shaped references can be
// verified; id-shaped lookups are exact by construction.
func (r *Resolver) Verify(order *platform.Order, ref string) error {
	if !r.IsNameReference(ref) {
		return nil
	}
	if !strings.EqualFold(order.Name, orderName(ref)) {
		return &MismatchError{Reference: orderName(ref), Resolved: order.Name}
	}
	return nil
}
