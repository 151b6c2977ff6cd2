package catalog_repo

import (
	"context"
	"errors"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatalogRepo struct {
	db *pgxpool.Pool
}

func NewCatalogRepo(db *pgxpool.Pool) CatalogRepoContract {
	return &CatalogRepo{
		db: db,
	}
}

func (r *CatalogRepo) ResolvePlan(ctx context.Context, planID string) (*entity.PlanEntity, *app_errors.AppError) {
	query := `
	SELECT p.id, p.plan_year, p.crop_id, COALESCE(c.name, ''), p.location_id, COALESCE(l.name, ''), p.farm_id
	FROM plans p
	LEFT JOIN crops c ON c.id = p.crop_id
	LEFT JOIN locations l ON l.id = p.location_id
	WHERE p.id = $1
		AND p.deleted_at IS NULL;
	`

	var plan entity.PlanEntity
	if err := r.db.QueryRow(ctx, query, planID).Scan(&plan.ID, &plan.PlanYear, &plan.CropID, &plan.CropName, &plan.LocationID, &plan.LocationName, &plan.FarmID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "plan_not_found", nil)
		}
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", err)
	}

	return &plan, nil
}

func (r *CatalogRepo) ResolveActivity(ctx context.Context, ref entity.ActivityRef) (*entity.ActivityEntity, *app_errors.AppError) {
	var (
		query  string
		id     string
		custom bool
	)

	if standardID, ok := ref.StandardID(); ok {
		query = `
		SELECT id, name FROM activities
		WHERE id = $1
			AND deleted_at IS NULL;
		`
		id = standardID
	} else if customID, ok := ref.CustomID(); ok {
		query = `
		SELECT id, name FROM custom_activities
		WHERE id = $1
			AND deleted_at IS NULL;
		`
		id = customID
		custom = true
	} else {
		return nil, app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrValidation, "activity_required", nil)
	}

	var activity entity.ActivityEntity
	if err := r.db.QueryRow(ctx, query, id).Scan(&activity.ID, &activity.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "activity_not_found", nil)
		}
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", err)
	}
	activity.Custom = custom

	return &activity, nil
}

func (r *CatalogRepo) ResolveUser(ctx context.Context, userID string) (*entity.UserEntity, *app_errors.AppError) {
	query := `
	SELECT id, email, password_hash, first_name, last_name, username, is_active, created_at, updated_at
	FROM users
	WHERE id = $1;
	`

	var user entity.UserEntity
	if err := r.db.QueryRow(ctx, query, userID).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.Username, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "user_not_found", nil)
		}
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", err)
	}

	return &user, nil
}

func (r *CatalogRepo) ResolveEquipment(ctx context.Context, equipmentID string) (*entity.EquipmentEntity, *app_errors.AppError) {
	query := `
	SELECT id, name FROM equipment
	WHERE id = $1
		AND deleted_at IS NULL;
	`

	var equipment entity.EquipmentEntity
	if err := r.db.QueryRow(ctx, query, equipmentID).Scan(&equipment.ID, &equipment.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "equipment_not_found", nil)
		}
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", err)
	}

	return &equipment, nil
}

func (r *CatalogRepo) CheckFarmMember(ctx context.Context, farmID, userID string) (bool, *app_errors.AppError) {
	query := `
	SELECT EXISTS (
		SELECT 1
		FROM farm_members
		WHERE farm_id = $1
			AND user_id = $2
	);
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, farmID, userID).Scan(&exists); err != nil {
		return false, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", err)
	}
	return exists, nil
}

func (r *CatalogRepo) GetFarmRole(ctx context.Context, farmID, userID string) (*entity.FarmRole, *app_errors.AppError) {
	query := `
	SELECT role FROM farm_members
	WHERE farm_id = $1
		AND user_id = $2;
	`

	var role entity.FarmRole
	if err := r.db.QueryRow(ctx, query, farmID, userID).Scan(&role); err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	return &role, nil
}

// ListFarmUserIDs fans a plan out to everyone on its farm, minus the actor
// who triggered the broadcast.
func (r *CatalogRepo) ListFarmUserIDs(ctx context.Context, planID string, excludeUserID *string) ([]string, *app_errors.AppError) {
	query := `
	SELECT fm.user_id
	FROM farm_members fm
	JOIN plans p ON p.farm_id = fm.farm_id
	WHERE p.id = $1
		AND ($2::uuid IS NULL OR fm.user_id != $2);
	`

	rows, err := r.db.Query(ctx, query, planID, excludeUserID)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, app_errors.MapPgxError(err)
		}
		userIDs = append(userIDs, userID)
	}

	if err := rows.Err(); err != nil {
		return nil, app_errors.MapPgxError(err)
	}

	return userIDs, nil
}

func (r *CatalogRepo) GetDefaultFarm(ctx context.Context, userID string) (*entity.FarmMember, *app_errors.AppError) {
	query := `
	SELECT farm_id, user_id, role, default_farm, joined_at
	FROM farm_members
	WHERE user_id = $1
		AND default_farm = true;
	`

	var member entity.FarmMember
	if err := r.db.QueryRow(ctx, query, userID).Scan(&member.FarmID, &member.UserID, &member.Role, &member.DefaultFarm, &member.JoinedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.NewAppError(fiber.StatusNotFound, app_errors.ErrNotFound, "default_farm_not_found", nil)
		}
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", err)
	}

	return &member, nil
}

func (r *CatalogRepo) ListActiveDeviceTokens(ctx context.Context, userIDs []string) ([]string, *app_errors.AppError) {
	query := `
	SELECT registration_id
	FROM user_devices
	WHERE user_id = ANY($1)
		AND active = true;
	`

	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, app_errors.MapPgxError(err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, app_errors.MapPgxError(err)
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, app_errors.MapPgxError(err)
	}

	return tokens, nil
}
