package worker_handler

import (
	"github.com/ArkadyKonoplya/shepherd-backend/internal/push"
	catalog_repo "github.com/ArkadyKonoplya/shepherd-backend/internal/repo/catalog-repo"
	task_repo "github.com/ArkadyKonoplya/shepherd-backend/internal/repo/task-repo"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WorkerHandler struct {
	db     *pgxpool.Pool
	tr     task_repo.TaskRepoContract
	cr     catalog_repo.CatalogRepoContract
	pusher push.Pusher
}

func NewWorkerHandler(db *pgxpool.Pool, pusher push.Pusher) *WorkerHandler {
	return &WorkerHandler{
		db:     db,
		tr:     task_repo.NewTaskRepo(db),
		cr:     catalog_repo.NewCatalogRepo(db),
		pusher: pusher,
	}
}
