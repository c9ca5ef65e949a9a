// gate.go - Role based authorization decisions
//
// The gate never touches a store: it only looks at the Identity resolved for
// the request. Record-level checks (who may see which sale) live next to it in
// AuthorizeSaleAccess but are applied by the services after loading the record.

package auth

// Role is the role an authenticated user holds.
type Role int

const (
	RoleOwner Role = iota + 1
	RoleAttendant
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "store_owner"
	case RoleAttendant:
		return "store_attendant"
	default:
		return "unknown"
	}
}

// Requirement is the positive role requirement of an endpoint.
type Requirement int

const (
	RequireOwner Requirement = iota + 1
	RequireAttendant
	RequireEither
)

func (r Requirement) String() string {
	switch r {
	case RequireOwner:
		return "owner"
	case RequireAttendant:
		return "attendant"
	case RequireEither:
		return "either"
	default:
		return "unknown"
	}
}

// Deny reasons returned to clients.
const (
	ReasonLoginOwner     = "please login as a store owner"
	ReasonLoginAttendant = "please login as a store attendant"
	ReasonLogin          = "please login"
	ReasonNotSaleMaker   = "you didn't make this sale"
)

// Decision is the outcome of an authorization check. Unauthenticated is set on
// denials caused by a missing identity so callers can tell 401 from 403.
type Decision struct {
	Allowed         bool
	Reason          string
	Unauthenticated bool
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(id *Identity, reason string) Decision {
	return Decision{Reason: reason, Unauthenticated: id == nil}
}

// Authorize checks id against a single requirement.
func Authorize(id *Identity, req Requirement) Decision {
	switch req {
	case RequireOwner:
		if id != nil && id.IsAdmin {
			return allow()
		}
		return deny(id, ReasonLoginOwner)
	case RequireAttendant:
		if id != nil && !id.IsAdmin {
			return allow()
		}
		return deny(id, ReasonLoginAttendant)
	case RequireEither:
		if id != nil {
			return allow()
		}
		return deny(id, ReasonLogin)
	default:
		// unknown requirements fail closed
		return deny(id, ReasonLogin)
	}
}

// Forbid denies id when it holds role, whatever else the endpoint requires.
// Unauthenticated callers hold no role and pass.
func Forbid(id *Identity, role Role) Decision {
	if id != nil && id.Role() == role {
		return deny(id, "a "+roleLabel(role)+" cannot perform this action")
	}
	return allow()
}

func roleLabel(r Role) string {
	if r == RoleOwner {
		return "store owner"
	}
	return "store attendant"
}

// Policy composes a positive requirement with role exclusions. Every rule
// must pass; the reported reason is the first failing rule, requirement first.
type Policy struct {
	Require Requirement
	Exclude []Role
}

// Evaluate runs the policy against id.
func (p Policy) Evaluate(id *Identity) Decision {
	if d := Authorize(id, p.Require); !d.Allowed {
		return d
	}
	for _, role := range p.Exclude {
		if d := Forbid(id, role); !d.Allowed {
			return d
		}
	}
	return allow()
}

// AuthorizeSaleAccess is the record-level check for reading one sale: owners
// read every sale, attendants only the ones they recorded.
func AuthorizeSaleAccess(id *Identity, attendantEmail string) Decision {
	switch {
	case id == nil:
		return deny(id, ReasonLogin)
	case id.IsAdmin, id.Email == attendantEmail:
		return allow()
	default:
		return deny(id, ReasonNotSaleMaker)
	}
}
