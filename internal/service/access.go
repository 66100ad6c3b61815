package service

import (
	"mailflow/internal/models"
	"mailflow/internal/repository"
)

// The access gate. Every entry point routes its caller through these
// three predicates instead of re-implementing role checks inline.

// ScopeFor returns the visibility scope for a caller: nothing for an
// unauthenticated caller, everything for staff and managers, otherwise
// only the caller's own records.
func ScopeFor(user *models.User) repository.Scope {
	if user == nil {
		return repository.ScopeNone()
	}
	if user.IsStaff || user.IsSuperuser || user.IsManager {
		return repository.ScopeAll()
	}
	return repository.ScopeOwner(user.ID)
}

// CanMutate reports whether the caller may create, update or delete
// records. Managers without staff privilege see everything but are
// read-only; this is checked before every mutating operation.
func CanMutate(user *models.User) bool {
	if user == nil {
		return false
	}
	if user.IsManager && !user.IsStaff && !user.IsSuperuser {
		return false
	}
	return true
}

// CanDisable reports whether the caller holds the elevated permission to
// force any mailing to finished, independent of ownership.
func CanDisable(user *models.User) bool {
	if user == nil {
		return false
	}
	return user.IsSuperuser || user.IsStaff || user.CanDisableMailing
}
