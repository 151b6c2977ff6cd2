package middleware

import (
	"slices"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/dtos"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	catalog_repo "github.com/ArkadyKonoplya/shepherd-backend/internal/repo/catalog-repo"
	"github.com/gofiber/fiber/v2"
)

// RequireFarmRoles prüft, ob der angemeldete Benutzer auf dem Farm aus dem
// Pfadparameter "farm_id" eine der erlaubten Rollen trägt.
func RequireFarmRoles(catalog catalog_repo.CatalogRepoContract, allowedRoles ...entity.FarmRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(string)
		if !ok || userID == "" {
			// Ist kein Benutzer vorhanden, wird ein 401 Unauthorized zurückgegeben. Bei fehlender Berechtigung erfolgt ein 403 Forbidden.
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error",
				"error": dtos.ErrorResponse{
					Code:    fiber.StatusUnauthorized,
					Message: "Kein Zugriff, kein Benutzer gefunden.",
				},
			})
		}

		farmID := c.Params("farm_id")
		if farmID == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status": "error",
				"error": dtos.ErrorResponse{
					Code:    fiber.StatusForbidden,
					Message: "Sie haben hier nicht zu melden",
				},
			})
		}

		role, err := catalog.GetFarmRole(c.Context(), farmID, userID)
		if err != nil || role == nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status": "error",
				"error": dtos.ErrorResponse{
					Code:    fiber.StatusForbidden,
					Message: "Sie haben hier nicht zu melden",
				},
			})
		}

		if slices.Contains(allowedRoles, *role) {
			// Bei erfolgreicher Prüfung wird der nächste Handler (c.Next()) aufgerufen.
			c.Locals("farm_role", string(*role))
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status": "error",
			"error": dtos.ErrorResponse{
				Code:    fiber.StatusForbidden,
				Message: "Sie haben hier nicht zu melden",
			},
		})
	}
}
