package rbac

import (
	"go.uber.org/zap"

	"github.com/healthsys/clinic-api/internal/domain"
	"github.com/healthsys/clinic-api/pkg/metrics"
)

// Permission names a gated operation. The table mapping permissions to
// allowed roles is loaded once at startup and read-only afterwards, so
// authorization decisions need no locking.
type Permission string

const (
	PermViewDashboard        Permission = "view_dashboard"
	PermViewPatients         Permission = "view_patients"
	PermRegisterPatient      Permission = "register_patient"
	PermUpdatePatient        Permission = "update_patient"
	PermDeletePatient        Permission = "delete_patient"
	PermViewConsultations    Permission = "view_consultations"
	PermCreateConsultation   Permission = "create_consultation"
	PermViewInventory        Permission = "view_inventory"
	PermManageInventory      Permission = "manage_inventory"
	PermViewPrescriptions    Permission = "view_prescriptions"
	PermCreatePrescription   Permission = "create_prescription"
	PermDispensePrescription Permission = "dispense_prescription"
	PermViewUsers            Permission = "view_users"
	PermManageUsers          Permission = "manage_users"
)

type Decision int

const (
	Denied Decision = iota
	Allowed
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "denied"
}

// RoleSet is the set of roles permitted to exercise one permission.
type RoleSet map[domain.Role]struct{}

func roles(rs ...domain.Role) RoleSet {
	set := make(RoleSet, len(rs))
	for _, r := range rs {
		set[r] = struct{}{}
	}
	return set
}

// DefaultPermissions is the shipped permission table. A permission absent
// from the table has an empty allowed set: deny-all, never allow-all.
func DefaultPermissions() map[Permission]RoleSet {
	all := roles(domain.RoleAdmin, domain.RoleDoctor, domain.RoleNurse, domain.RolePharmacist)
	clinical := roles(domain.RoleAdmin, domain.RoleDoctor, domain.RoleNurse)

	return map[Permission]RoleSet{
		PermViewDashboard:        all,
		PermViewPatients:         clinical,
		PermRegisterPatient:      clinical,
		PermUpdatePatient:        clinical,
		PermDeletePatient:        roles(domain.RoleAdmin),
		PermViewConsultations:    clinical,
		PermCreateConsultation:   roles(domain.RoleAdmin, domain.RoleDoctor),
		PermViewInventory:        all,
		PermManageInventory:      roles(domain.RoleAdmin, domain.RolePharmacist),
		PermViewPrescriptions:    all,
		PermCreatePrescription:   roles(domain.RoleAdmin, domain.RoleDoctor),
		PermDispensePrescription: roles(domain.RoleAdmin, domain.RolePharmacist),
		PermViewUsers:            roles(domain.RoleAdmin),
		PermManageUsers:          roles(domain.RoleAdmin),
	}
}

// Authorizer decides whether a role may exercise a permission. Denials
// are always logged with the actor's identity for audit; grants are
// logged at debug.
type Authorizer struct {
	permissions map[Permission]RoleSet
	log         *zap.Logger
	metrics     *metrics.Collector
}

func NewAuthorizer(permissions map[Permission]RoleSet, log *zap.Logger, collector *metrics.Collector) *Authorizer {
	return &Authorizer{
		permissions: permissions,
		log:         log,
		metrics:     collector,
	}
}

// Authorize returns Allowed iff the role is a member of the permission's
// allowed set. Unknown permissions fail closed.
func (a *Authorizer) Authorize(role domain.Role, perm Permission) Decision {
	decision := Denied
	if allowed, ok := a.permissions[perm]; ok {
		if _, member := allowed[role]; member {
			decision = Allowed
		}
	}

	if a.metrics != nil {
		a.metrics.AuthzDecisionsTotal.WithLabelValues(string(perm), decision.String()).Inc()
	}

	return decision
}

// AuthorizeActor is the logging variant used by the request path, where
// the actor's identity is known.
func (a *Authorizer) AuthorizeActor(claims *domain.Claims, perm Permission) Decision {
	decision := a.Authorize(claims.Role, perm)

	if decision == Denied {
		a.log.Warn("authorization denied",
			zap.String("user_id", claims.UserID.String()),
			zap.String("role", string(claims.Role)),
			zap.String("permission", string(perm)),
		)
	} else {
		a.log.Debug("authorization granted",
			zap.String("user_id", claims.UserID.String()),
			zap.String("role", string(claims.Role)),
			zap.String("permission", string(perm)),
		)
	}

	return decision
}
