// Package roles defines the closed set of operator roles and their parsing.
package roles

import "fmt"

type Role string

const (
	SuperAdmin  Role = "super_admin"
	Secretario  Role = "secretario"
	ChefeNucleo Role = "chefe_nucleo"
)

// InvalidRoleError reports a value outside the closed role set. Matching is
// exact: no trimming, no case folding.
type InvalidRoleError struct {
	Value string
}

func (e *InvalidRoleError) Error() string {
	return fmt.Sprintf("invalid role %q", e.Value)
}

func Parse(value string) (Role, error) {
	r := Role(value)
	if !r.Valid() {
		return "", &InvalidRoleError{Value: value}
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case SuperAdmin, Secretario, ChefeNucleo:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
