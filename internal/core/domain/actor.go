package domain

// Actor is the resolved acting user handed to services by the transport
// layer. Role gating happens before core operations are invoked; services
// use the actor only for domain rules (ownership, campus scoping, the
// administrative cancellation override) and for audit attribution.
type Actor struct {
	UserID   string
	Role     UserRole
	CampusID string
}

// CanManageCampus reports whether the actor administers the given campus.
// Super admins manage every campus; campus admins only their own.
func (a Actor) CanManageCampus(campusID string) bool {
	switch a.Role {
	case RoleSuperAdmin:
		return true
	case RoleCampusAdmin:
		return a.CampusID == campusID
	default:
		return false
	}
}
