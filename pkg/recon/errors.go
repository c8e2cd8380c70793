package recon

import (
	"errors"
	"fmt"
)

// Sentinel errors for the reconciliation core.
var (
	// ErrAmbiguousMatch indicates a name search returned candidates but
	// none matched exactly. Treated as not-found, never guessed.
	ErrAmbiguousMatch = errors.New("ambiguous order match")

	// ErrCriticalMismatch indicates a resolved order's name does not equal
	// the supplier's reference. Attaching tracking here would put one
	// customer's shipment on another customer's order.
	ErrCriticalMismatch = errors.New("order identity mismatch")

	// ErrNoClaimableItems indicates the eligible line-item subset was empty
	// after vendor filtering and SKU intersection.
	ErrNoClaimableItems = errors.New("no claimable items for supplier")

	// ErrAlreadySubmitted indicates a fulfillment was already submitted for
	// this platform order within the current cycle.
	ErrAlreadySubmitted = errors.New("fulfillment already submitted this cycle")
)

// MismatchError carries both sides of an identity mismatch so operators can
// see exactly which orders were confused.
type MismatchError struct {
	Reference string // what the supplier said
	Resolved  string // what the platform lookup returned
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("order mismatch: supplier=%s, platform=%s", e.Reference, e.Resolved)
}

// Is makes MismatchError match ErrCriticalMismatch.
func (e *MismatchError) Is(target error) bool {
	return target == ErrCriticalMismatch
}
