package auth

import "strings"

type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleUser    Role = "User"
)

type credentials struct {
	password string
	role     Role
}

// Hardcoded user table, this storefront has no user registration.
var users = map[string]credentials{
	"admin":   {password: "admin123", role: RoleAdmin},
	"manager": {password: "manager123", role: RoleManager},
	"user":    {password: "user123", role: RoleUser},
}

// Authenticate checks a username/password pair against the user table.
// Usernames are case-insensitive.
func Authenticate(username, password string) (Role, bool) {
	c, ok := users[strings.ToLower(username)]
	if !ok || c.password != password {
		return "", false
	}
	return c.role, true
}

func validRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}
