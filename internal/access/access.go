// Package access holds the role model and the permission decision used by
// every admin route. Nothing here touches the database or the request.
package access

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpBulk   Operation = "bulk"
)

type Resource string

const (
	ResourceCountry    Resource = "country"
	ResourceGameType   Resource = "game_type"
	ResourceGame       Resource = "game"
	ResourcePrediction Resource = "prediction"
	ResourceProgram    Resource = "program"
	ResourceResult     Resource = "result"
	ResourceUser       Resource = "user"
)

// Caller is the authenticated identity of a request.
type Caller struct {
	UserID   uint
	Username string
	Role     Role
}

// IsAdmin is nil-safe.
func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

var (
	anyRole   = []Role{RoleAdmin, RoleEditor, RoleViewer}
	adminOnly = []Role{RoleAdmin}
	editorial = []Role{RoleAdmin, RoleEditor}
)

type rule struct {
	read  []Role
	write []Role
}

var rules = map[Resource]rule{
	ResourceCountry:    {read: anyRole, write: adminOnly},
	ResourceGameType:   {read: anyRole, write: adminOnly},
	ResourceGame:       {read: anyRole, write: adminOnly},
	ResourceResult:     {read: anyRole, write: adminOnly},
	ResourceProgram:    {read: anyRole, write: adminOnly},
	ResourcePrediction: {read: anyRole, write: editorial},
	ResourceUser:       {read: adminOnly, write: adminOnly},
}

// Allowed decides whether caller may perform op on resource. An anonymous
// caller is never allowed on the admin family.
func Allowed(caller *Caller, op Operation, res Resource) bool {
	if caller == nil {
		return false
	}
	r, ok := rules[res]
	if !ok {
		return false
	}
	roles := r.write
	if op == OpRead {
		roles = r.read
	}
	for _, role := range roles {
		if caller.Role == role {
			return true
		}
	}
	return false
}

// CanModifyOwned is the row-level check for owned rows such as predictions:
// admins may touch anything, everyone else only what they own.
func CanModifyOwned(caller *Caller, ownerID *uint) bool {
	if caller == nil {
		return false
	}
	if caller.IsAdmin() {
		return true
	}
	return ownerID != nil && *ownerID == caller.UserID
}
