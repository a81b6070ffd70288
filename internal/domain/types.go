package domain

import (
	"fmt"
	"strings"
)

// Role is a closed set of account kinds. Only Customer, Agency and Admin implement it.
type Role interface {
	Name() string
	isRole()
}

type Customer struct {
	Email string `json:"email"`
}

type Agency struct {
	CompanyName  string `json:"companyName"`
	ContactPhone string `json:"contactPhone,omitempty"`
	Verified     bool   `json:"verified"`
}

type Admin struct{}

func (Customer) Name() string { return "customer" }
func (Agency) Name() string   { return "agency" }
func (Admin) Name() string    { return "admin" }

func (Customer) isRole() {}
func (Agency) isRole()   {}
func (Admin) isRole()    {}

// ParseRole maps a role tag plus its attributes onto a Role variant.
func ParseRole(tag, email, company string, verified bool) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "customer":
		return Customer{Email: email}, nil
	case "agency":
		return Agency{CompanyName: company, Verified: verified}, nil
	case "admin":
		return Admin{}, nil
	default:
		return nil, ValidationError{Field: "role", Msg: fmt.Sprintf("unknown role %q", tag)}
	}
}

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"-"`
}
