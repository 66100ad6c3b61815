package service

import (
	"testing"

	"mailflow/internal/models"
	"mailflow/internal/repository"
)

func TestScopeFor(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
		want repository.Scope
	}{
		{"anonymous sees nothing", nil, repository.ScopeNone()},
		{"owner sees own rows", NewTestOwner(), repository.ScopeOwner(1)},
		{"manager sees everything", NewTestManager(), repository.ScopeAll()},
		{"staff sees everything", NewTestStaff(), repository.ScopeAll()},
		{"superuser sees everything", &models.User{ID: 9, IsSuperuser: true}, repository.ScopeAll()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			AssertEqual(t, ScopeFor(tt.user), tt.want)
		})
	}
}

func TestCanMutate(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
		want bool
	}{
		{"anonymous cannot mutate", nil, false},
		{"owner can mutate", NewTestOwner(), true},
		{"manager is read-only", NewTestManager(), false},
		{"staff can mutate", NewTestStaff(), true},
		{"manager with staff can mutate", &models.User{ID: 9, IsManager: true, IsStaff: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			AssertEqual(t, CanMutate(tt.user), tt.want)
		})
	}
}

func TestCanDisable(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
		want bool
	}{
		{"anonymous cannot disable", nil, false},
		{"plain owner cannot disable", NewTestOwner(), false},
		{"manager with flag can disable", NewTestManager(), true},
		{"staff can disable", NewTestStaff(), true},
		{"superuser can disable", &models.User{ID: 9, IsSuperuser: true}, true},
		{"flag alone is enough", &models.User{ID: 9, CanDisableMailing: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			AssertEqual(t, CanDisable(tt.user), tt.want)
		})
	}
}
