// Package auth provides identity for staff dashboards: registration, login
// with HMAC-signed session tokens, and the role policy every protected
// operation runs through.
package auth

import (
	"strings"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
)

// Allow grants access when the caller's role is one of the required roles.
// Every role-gated operation uses this single check instead of repeating
// its own conditional.
func Allow(role string, required ...string) error {
	for _, r := range required {
		if role == r {
			return nil
		}
	}
	return apperrors.Forbidden(strings.Join(required, " or ") + " access required")
}
