package rbac

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/healthsys/clinic-api/internal/domain"
)

func newTestAuthorizer() *Authorizer {
	return NewAuthorizer(DefaultPermissions(), zap.NewNop(), nil)
}

func TestAuthorizePermissionTable(t *testing.T) {
	a := newTestAuthorizer()

	tests := []struct {
		name string
		role domain.Role
		perm Permission
		want Decision
	}{
		{"admin can view dashboard", domain.RoleAdmin, PermViewDashboard, Allowed},
		{"admin can delete patient", domain.RoleAdmin, PermDeletePatient, Allowed},
		{"admin can manage users", domain.RoleAdmin, PermManageUsers, Allowed},

		{"doctor can register patient", domain.RoleDoctor, PermRegisterPatient, Allowed},
		{"doctor can create consultation", domain.RoleDoctor, PermCreateConsultation, Allowed},
		{"doctor cannot delete patient", domain.RoleDoctor, PermDeletePatient, Denied},
		{"doctor cannot manage inventory", domain.RoleDoctor, PermManageInventory, Denied},
		{"doctor cannot dispense", domain.RoleDoctor, PermDispensePrescription, Denied},

		{"nurse can view patients", domain.RoleNurse, PermViewPatients, Allowed},
		{"nurse can update patient", domain.RoleNurse, PermUpdatePatient, Allowed},
		{"nurse cannot create consultation", domain.RoleNurse, PermCreateConsultation, Denied},
		{"nurse cannot delete patient", domain.RoleNurse, PermDeletePatient, Denied},
		{"nurse cannot manage users", domain.RoleNurse, PermManageUsers, Denied},

		{"pharmacist can view inventory", domain.RolePharmacist, PermViewInventory, Allowed},
		{"pharmacist can manage inventory", domain.RolePharmacist, PermManageInventory, Allowed},
		{"pharmacist can dispense", domain.RolePharmacist, PermDispensePrescription, Allowed},
		{"pharmacist cannot register patient", domain.RolePharmacist, PermRegisterPatient, Denied},
		{"pharmacist cannot view patients", domain.RolePharmacist, PermViewPatients, Denied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Authorize(tt.role, tt.perm))
		})
	}
}

func TestAuthorizeUnknownPermissionFailsClosed(t *testing.T) {
	a := newTestAuthorizer()

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleDoctor, domain.RoleNurse, domain.RolePharmacist} {
		assert.Equal(t, Denied, a.Authorize(role, Permission("export_everything")),
			"unknown permission must deny %s", role)
	}
}

func TestAuthorizeUnknownRoleIsDenied(t *testing.T) {
	a := newTestAuthorizer()

	assert.Equal(t, Denied, a.Authorize(domain.Role("intern"), PermViewDashboard))
	assert.Equal(t, Denied, a.Authorize(domain.Role(""), PermViewDashboard))
}

func TestAuthorizeActorMatchesAuthorize(t *testing.T) {
	a := newTestAuthorizer()

	claims := &domain.Claims{UserID: uuid.New(), Email: "n.hassan@healthsys.demo", Role: domain.RoleNurse}

	assert.Equal(t, Allowed, a.AuthorizeActor(claims, PermViewPatients))
	assert.Equal(t, Denied, a.AuthorizeActor(claims, PermDispensePrescription))
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "allowed", Allowed.String())
	assert.Equal(t, "denied", Denied.String())
}
