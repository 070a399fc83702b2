package repository

import (
	"sevasetu-backend/dal"
	"sevasetu-backend/models"
	"sevasetu-backend/utils/logger"
)

type Repository struct {
	Task  *TaskRepository
	User  *UserRepository
	Audit *AuditRepository
}

func NewRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *Repository {
	return &Repository{
		Task:  NewTaskRepository(db, cfg, log),
		User:  NewUserRepository(db, cfg, log),
		Audit: NewAuditRepository(db, cfg, log),
	}
}
