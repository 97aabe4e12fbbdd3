package repository

import "errors"

// Sentinel errors surfaced by transactional repository operations so the
// service layer can map them onto its error taxonomy.
var (
	ErrInsufficientStock  = errors.New("insufficient stock for variant")
	ErrVariantInactive    = errors.New("variant is not active")
	ErrDiscountExhausted  = errors.New("discount usage limit reached")
	ErrDiscountNotUsable  = errors.New("discount is not usable")
	ErrStateConflict      = errors.New("order is not in the expected state")
	ErrAlreadyReviewed    = errors.New("order has already been reviewed")
	ErrEmptyCart          = errors.New("cart is empty")
)
