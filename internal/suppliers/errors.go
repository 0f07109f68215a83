package suppliers

import "errors"

// Domain errors for the supplier lifecycle.
var (
	// ErrNotFound indicates the requested supplier was not found.
	ErrNotFound = errors.New("supplier not found")
	// ErrDuplicateID indicates an insert with an id that already exists.
	ErrDuplicateID = errors.New("supplier with this id already exists")
	// ErrSupplierActive rejects deletion of an active supplier.
	ErrSupplierActive = errors.New("Supplier is active and cannot be deleted")
)
