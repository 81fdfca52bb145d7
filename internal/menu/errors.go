package menu

import "errors"

var (
	// ErrProfileNotFound means the authenticated identity has no profile
	// record. There is no safe tenant default, so the caller must handle it.
	ErrProfileNotFound = errors.New("user profile not found")

	// ErrPermissionDenied rejects a menu mutation before any store call when
	// the acting user lacks the admin or pizzeria role, or targets a record
	// belonging to another tenant.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrOverrideConflict flags more than one override record for the same
	// (tenant, master item) pair. The writer's upsert prevents this; the
	// merge tolerates it deterministically, and the integrity audit reports
	// it with this error.
	ErrOverrideConflict = errors.New("duplicate override for master item")
)
