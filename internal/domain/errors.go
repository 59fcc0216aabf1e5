package domain

import "errors"

var (
	ErrOrderNotFound            = errors.New("order not found")
	ErrForbidden                = errors.New("action not permitted for actor")
	ErrInvalidStateTransition   = errors.New("invalid escrow state transition")
	ErrConcurrentModification   = errors.New("order was modified concurrently, reload and retry")
	ErrEmptyCart                = errors.New("cart is empty")
	ErrDisputeWindowClosed      = errors.New("auto-finalize deadline has passed")
	ErrInvalidResolution        = errors.New("dispute resolution must be released_to_seller or released_to_buyer")
	ErrInvalidFulfillmentStatus = errors.New("unknown fulfillment status")
	ErrUnknownAction            = errors.New("unknown escrow action")
	ErrInvalidFilter            = errors.New("invalid order filter")
)
