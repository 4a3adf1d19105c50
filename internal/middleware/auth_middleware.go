package middleware

import (
	"strings"

	"github.com/akramer2025-dev/brandstore-sub001/internal/model"
	"github.com/akramer2025-dev/brandstore-sub001/internal/repository"
	"github.com/akramer2025-dev/brandstore-sub001/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		tokenString := parts[1]

		// Validate token
		claims, err := jwt.ValidateToken(tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// Check strict session against DB
		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}

		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}

		// Set user info in context for downstream handlers
		c.Locals("user_id", claims.UserID.String())
		c.Locals("user_email", claims.Email)
		c.Locals("user_name", claims.Name)
		c.Locals("user_role", claims.RoleCode)
		c.Locals("user_privileges", claims.Privileges)
		if claims.VendorID != "" {
			c.Locals("vendor_id", claims.VendorID)
		}

		return c.Next()
	}
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get privileges from context (set by RequireAuth)
		privileges, ok := c.Locals("user_privileges").([]string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}

		// Check if user has the required privilege
		for _, p := range privileges {
			if p == requiredPrivilege {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
		})
	}
}

// RequireAnyPrivilege checks if the user has at least one of the specified privileges
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals("user_privileges").([]string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, userPriv := range privileges {
			for _, reqPriv := range requiredPrivileges {
				if userPriv == reqPriv {
					return c.Next()
				}
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires one of " + strings.Join(requiredPrivileges, ", ") + " privileges",
		})
	}
}

// RequireVendorScope resolves which vendor the request operates on.
// VENDOR users are pinned to their own store; admins pass ?vendor_id= or
// :vendorId to pick one.
func RequireVendorScope() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)

		if role == model.RoleVendor {
			raw, ok := c.Locals("vendor_id").(string)
			if !ok || raw == "" {
				return c.Status(403).JSON(fiber.Map{"error": "User is not bound to a vendor"})
			}
			vendorID, err := uuid.Parse(raw)
			if err != nil {
				return c.Status(403).JSON(fiber.Map{"error": "Invalid vendor binding"})
			}
			c.Locals("scope_vendor_id", vendorID)
			return c.Next()
		}

		// Admin side: explicit vendor selection
		raw := c.Params("vendorId")
		if raw == "" {
			raw = c.Query("vendor_id")
		}
		if raw == "" {
			return c.Status(400).JSON(fiber.Map{"error": "vendor_id is required"})
		}
		vendorID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid vendor_id"})
		}
		c.Locals("scope_vendor_id", vendorID)
		return c.Next()
	}
}

// VendorScope reads the vendor resolved by RequireVendorScope.
func VendorScope(c *fiber.Ctx) (uuid.UUID, bool) {
	vendorID, ok := c.Locals("scope_vendor_id").(uuid.UUID)
	return vendorID, ok
}

// VendorPin returns the caller's own store binding for id-addressed routes.
// Admin sessions carry no pin (nil) and may touch any vendor's rows. A VENDOR
// session with a broken binding pins to uuid.Nil, which matches nothing.
func VendorPin(c *fiber.Ctx) *uuid.UUID {
	role, _ := c.Locals("user_role").(string)
	if role != model.RoleVendor {
		return nil
	}
	raw, _ := c.Locals("vendor_id").(string)
	id, _ := uuid.Parse(raw)
	return &id
}
