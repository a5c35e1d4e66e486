package domain

type Role string

// Role strings are issued by the external identity service and trusted as-is.
const (
	RoleSuperAdmin Role = "super_admin"
	RoleChaQuanLy  Role = "cha_quan_ly" // managing priest
	RoleChaXu      Role = "cha_xu"      // parish priest
	RoleThuKy      Role = "thu_ky"      // secretary
	RoleKeToan     Role = "ke_toan"     // accountant
)

// Actor is the authenticated caller of an operation, resolved from the
// bearer token by the HTTP layer.
type Actor struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// CanApprove reports whether the role may batch-approve or reject ledger
// entries.
func (r Role) CanApprove() bool {
	return r == RoleSuperAdmin || r == RoleChaQuanLy
}

// CanSubmit reports whether the role may create pending entries or bridge
// contract payments.
func (r Role) CanSubmit() bool {
	switch r {
	case RoleSuperAdmin, RoleChaQuanLy, RoleChaXu, RoleThuKy, RoleKeToan:
		return true
	}
	return false
}

// CanViewAudit reports whether the role may read the audit trail.
func (r Role) CanViewAudit() bool {
	return r == RoleSuperAdmin || r == RoleChaQuanLy
}
