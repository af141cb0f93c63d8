package order

import (
	"fmt"
	"time"

	"canteen/internal/pkg/errs"
)

// Kind tags an order with its ordering variant. All kinds share the same
// aggregate and lifecycle; kind-specific rules (minimum per-item quantity,
// cancellation window) live in Policy values injected by the composition
// root, not in separate code paths.
type Kind int

const (
	// KindUnknown represents an invalid or undefined kind.
	KindUnknown Kind = iota

	// KindRegular is an ordinary single-meal order.
	KindRegular

	// KindBulk is a group order; each line item must meet a minimum quantity.
	KindBulk

	// KindPreOrder is placed ahead of time and may be cancelled at any point
	// while it is still Pending.
	KindPreOrder
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		KindRegular:  "regular",
		KindBulk:     "bulk",
		KindPreOrder: "preorder",
	}
}

// Validate checks if the Kind value is one of the defined variants.
func (k Kind) Validate() error {
	if _, ok := getKindStrings()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%d is not a valid order kind", k))
	}
	return nil
}

// String returns the lowercase name of the kind, as used on the wire.
func (k Kind) String() string {
	if str, ok := getKindStrings()[k]; ok {
		return str
	}
	return "unknown"
}

// KindFromString parses a kind name as received from API requests.
func KindFromString(name string) (Kind, error) {
	for kind, str := range getKindStrings() {
		if str == name {
			return kind, nil
		}
	}
	return KindUnknown, errs.NewValueIsInvalidErrorWithCause("kind",
		fmt.Errorf("%q is not a valid order kind", name))
}

// Policy holds the kind-specific rules applied around the shared lifecycle.
type Policy struct {
	// MinItemQuantity is the minimum quantity each line item must carry.
	// Zero means no minimum.
	MinItemQuantity int

	// CancellationWindow is how long after creation the owner may cancel.
	// Zero means the window imposes no time limit.
	CancellationWindow time.Duration

	// CancellableWhilePending permits cancellation regardless of elapsed
	// time as long as the order has not left Pending.
	CancellableWhilePending bool
}

// PolicySet maps each kind to its policy. Handlers receive a PolicySet from
// the composition root instead of hard-coding per-kind behavior.
type PolicySet map[Kind]Policy

// DefaultPolicies returns the production policy table: regular and bulk
// orders get a fixed five-minute cancellation window, bulk orders require at
// least six units per line item, and pre-orders stay cancellable while
// Pending.
func DefaultPolicies() PolicySet {
	return PolicySet{
		KindRegular: {
			CancellationWindow: 5 * time.Minute,
		},
		KindBulk: {
			MinItemQuantity:    6,
			CancellationWindow: 5 * time.Minute,
		},
		KindPreOrder: {
			CancellableWhilePending: true,
		},
	}
}

// PolicyFor returns the policy for the given kind, or a zero policy if the
// set has no entry for it.
func (ps PolicySet) PolicyFor(kind Kind) Policy {
	return ps[kind]
}
