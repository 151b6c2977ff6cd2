package auth_repo

import (
	"context"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	app_errors "github.com/ArkadyKonoplya/shepherd-backend/internal/errors"
)

// AuthRepoContract reicht die Methoden für das AuthRepo weiter.
type AuthRepoContract interface {
	CountUsers(ctx context.Context, filter entity.UserCountFilter) (int64, *app_errors.AppError)
	SaveUser(ctx context.Context, model entity.UserEntity) (string, *app_errors.AppError)
	FindByEmail(ctx context.Context, email string) (*entity.UserEntity, *app_errors.AppError)
	FindByUsername(ctx context.Context, username string) (*entity.UserEntity, *app_errors.AppError)
	IsUserActive(ctx context.Context, userID string) (bool, *app_errors.AppError)
	UpsertDevice(ctx context.Context, device entity.DeviceEntity) *app_errors.AppError
	DeactivateDevice(ctx context.Context, userID, deviceID string) *app_errors.AppError
}
