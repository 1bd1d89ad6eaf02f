package domain

import "time"

// Company is the tenant boundary. Every other entity carries a CompanyID and is
// only reachable through a Scope that allows that company.
type Company struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedOn time.Time `json:"created_on"`
}
