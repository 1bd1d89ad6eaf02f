package domain

// Scope is the resolved tenant visibility of a caller, produced by the auth
// layer before any core operation runs. It is either unrestricted (super scope)
// or pinned to exactly one company. The core never inspects roles; it only asks
// a Scope whether a company is reachable.
type Scope struct {
	unrestricted bool
	companyID    int32
}

// ScopeAll returns the privileged scope that may target any company.
func ScopeAll() Scope {
	return Scope{unrestricted: true}
}

// ScopeCompany returns a scope restricted to a single company.
func ScopeCompany(companyID int32) Scope {
	return Scope{companyID: companyID}
}

// Unrestricted reports whether the scope may reach every tenant.
func (s Scope) Unrestricted() bool {
	return s.unrestricted
}

// CompanyID returns the pinned company and true, or 0 and false for the
// unrestricted scope.
func (s Scope) CompanyID() (int32, bool) {
	if s.unrestricted {
		return 0, false
	}
	return s.companyID, true
}

// Allows reports whether a record owned by companyID is visible to the scope.
func (s Scope) Allows(companyID int32) bool {
	return s.unrestricted || s.companyID == companyID
}
