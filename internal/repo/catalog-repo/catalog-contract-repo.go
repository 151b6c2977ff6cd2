package catalog_repo

import (
	"context"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
)

// CatalogRepoContract resolves the reference data the lifecycle engine hangs
// tasks off: plans, activities, equipment, farm membership and push devices.
// Everything here is read-only from the engine's point of view.
type CatalogRepoContract interface {
	ResolvePlan(ctx context.Context, planID string) (*entity.PlanEntity, *app_errors.AppError)
	ResolveActivity(ctx context.Context, ref entity.ActivityRef) (*entity.ActivityEntity, *app_errors.AppError)
	ResolveUser(ctx context.Context, userID string) (*entity.UserEntity, *app_errors.AppError)
	ResolveEquipment(ctx context.Context, equipmentID string) (*entity.EquipmentEntity, *app_errors.AppError)
	CheckFarmMember(ctx context.Context, farmID, userID string) (bool, *app_errors.AppError)
	GetFarmRole(ctx context.Context, farmID, userID string) (*entity.FarmRole, *app_errors.AppError)
	ListFarmUserIDs(ctx context.Context, planID string, excludeUserID *string) ([]string, *app_errors.AppError)
	GetDefaultFarm(ctx context.Context, userID string) (*entity.FarmMember, *app_errors.AppError)
	ListActiveDeviceTokens(ctx context.Context, userIDs []string) ([]string, *app_errors.AppError)
}
