package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"travellink/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Account is a login identity. The role attributes mirror domain.Role.
type Account struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	CompanyName  string `json:"companyName,omitempty"`
	Verified     bool   `json:"verified"`
	passwordHash []byte
}

func (a Account) DomainRole() (domain.Role, error) {
	return domain.ParseRole(a.Role, a.Email, a.CompanyName, a.Verified)
}

const DemoPassword = "password"

var demoAccounts = []Account{
	{ID: "1", Email: "customer@demo.com", Name: "Demo Customer", Role: "customer"},
	{ID: "2", Email: "agency@demo.com", Name: "Mountain Explorers", Role: "agency", CompanyName: "Mountain Explorers", Verified: true},
	{ID: "3", Email: "unverified@demo.com", Name: "Coastal Trails", Role: "agency", CompanyName: "Coastal Trails"},
	{ID: "4", Email: "admin@demo.com", Name: "Platform Admin", Role: "admin"},
}

// AccountDirectory is an in-memory set of accounts keyed by lower-cased email.
type AccountDirectory struct {
	byEmail map[string]Account
}

// NewDemoDirectory hashes the demo password for every demo account at the given bcrypt cost.
func NewDemoDirectory(cost int) (*AccountDirectory, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	d := &AccountDirectory{byEmail: make(map[string]Account, len(demoAccounts))}
	for _, a := range demoAccounts {
		a.passwordHash = hash
		d.byEmail[strings.ToLower(a.Email)] = a
	}
	return d, nil
}

func (d *AccountDirectory) Authenticate(email, password string) (Account, error) {
	invalid := domain.UnauthorizedError{Msg: "invalid email or password"}
	a, ok := d.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return Account{}, invalid
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return Account{}, invalid
	}
	return a, nil
}

type Claims struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Company  string `json:"company,omitempty"`
	Verified bool   `json:"verified,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func (s TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s TokenService) Issue(a Account) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.TTL)
	claims := Claims{
		Email:    a.Email,
		Name:     a.Name,
		Role:     a.Role,
		Company:  a.CompanyName,
		Verified: a.Verified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, domain.InternalError{Msg: "failed to sign token", Err: err}
	}
	return signed, exp, nil
}

// Parse verifies token and rebuilds the caller's RequestContext.
func (s TokenService) Parse(token string) (domain.RequestContext, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		msg := "invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "token expired"
		}
		return domain.RequestContext{}, domain.UnauthorizedError{Msg: msg, Err: err}
	}
	role, err := domain.ParseRole(claims.Role, claims.Email, claims.Company, claims.Verified)
	if err != nil {
		return domain.RequestContext{}, domain.UnauthorizedError{Msg: "invalid role claim", Err: err}
	}
	return domain.RequestContext{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   role,
	}, nil
}
