package service

import (
	"errors"
	"fmt"
	"strings"

	"go-retail-pos/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid role or password")
	ErrUnknownRole        = errors.New("unknown role")
)

// AuthService gates the two till roles with one configured password each.
type AuthService interface {
	Login(role, password, name string) (*LoginResponse, error)
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

type authService struct {
	hashes map[string][]byte
}

var defaultNames = map[string]string{
	jwt.RoleAdmin:   "Admin",
	jwt.RoleCashier: "Cashier",
}

// NewAuthService hashes the configured passwords once so plaintext is not kept around.
func NewAuthService(adminPassword, cashierPassword string) (AuthService, error) {
	s := &authService{hashes: make(map[string][]byte, 2)}
	for role, pw := range map[string]string{jwt.RoleAdmin: adminPassword, jwt.RoleCashier: cashierPassword} {
		if pw == "" {
			return nil, fmt.Errorf("empty password for role %s", role)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash %s password: %w", role, err)
		}
		s.hashes[role] = hash
	}
	return s, nil
}

func (s *authService) Login(role, password, name string) (*LoginResponse, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	hash, ok := s.hashes[role]
	if !ok {
		return nil, ErrUnknownRole
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultNames[role]
	}

	token, err := jwt.GenerateToken(role, name)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{Token: token, Role: role, Name: name}, nil
}
