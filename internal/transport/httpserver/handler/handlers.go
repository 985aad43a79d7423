package handler

import (
	affiliatedomain "cendra-go/internal/domain/affiliate"
	censusdomain "cendra-go/internal/domain/census"
	dashboarddomain "cendra-go/internal/domain/dashboard"
	directoratedomain "cendra-go/internal/domain/directorate"
	entitydomain "cendra-go/internal/domain/entity"
	newsdomain "cendra-go/internal/domain/news"
	treasurydomain "cendra-go/internal/domain/treasury"
	userdomain "cendra-go/internal/domain/user"
	"cendra-go/internal/storage"
	"cendra-go/pkg/logger"
)

type Services struct {
	Users       *userdomain.Service
	Entities    *entitydomain.Service
	Affiliates  *affiliatedomain.Service
	Directorate *directoratedomain.Service
	Census      *censusdomain.Service
	Treasury    *treasurydomain.Service
	News        *newsdomain.Service
	Dashboard   *dashboarddomain.Service
}

type Handlers struct {
	Users       *userdomain.Service
	Entities    *entitydomain.Service
	Affiliates  *affiliatedomain.Service
	Directorate *directoratedomain.Service
	Census      *censusdomain.Service
	Treasury    *treasurydomain.Service
	News        *newsdomain.Service
	Dashboard   *dashboarddomain.Service
	files       storage.Presigner
	log         logger.Logger
}

func New(services Services, files storage.Presigner, log logger.Logger) *Handlers {
	if files == nil {
		files = storage.Disabled{}
	}
	return &Handlers{
		Users:       services.Users,
		Entities:    services.Entities,
		Affiliates:  services.Affiliates,
		Directorate: services.Directorate,
		Census:      services.Census,
		Treasury:    services.Treasury,
		News:        services.News,
		Dashboard:   services.Dashboard,
		files:       files,
		log:         log,
	}
}
