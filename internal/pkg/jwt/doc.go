// Package jwt issues and verifies the HS512 bearer tokens that identify the
// caller, and carries verified claims through a context.
package jwt
