package models

import (
	"fmt"
	"strings"
)

// Role is closed: every switch over it must handle RoleAdmin and RoleAgent.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleAgent Role = "agent"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleAgent:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}
