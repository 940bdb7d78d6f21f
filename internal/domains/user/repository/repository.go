package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"hostly/config"
	"hostly/infras/otel"
	"hostly/infras/postgres"
	"hostly/internal/domains/user/model"
	"hostly/internal/seed"
	gDto "hostly/shared/dto"
	gRepo "hostly/shared/repository"

	"github.com/rs/zerolog/log"
)

type User interface {
	Insert(ctx context.Context, user model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Store[model.User]
}

func New(cfg *config.Config, db *postgres.Connection, otel otel.Otel) User {
	users := seed.Users(cfg)

	repo := &repositoryImpl{
		Store: gRepo.New(model.EntityName, model.TableName, model.FieldID, db, otel, users...),
	}

	if db.Enabled() {
		repo.bootstrap(context.Background(), users)
	}

	return repo
}

// bootstrap inserts the configured administrators into Postgres unless their email is taken.
func (repo *repositoryImpl) bootstrap(ctx context.Context, users []model.User) {
	for _, user := range users {
		exist, err := repo.Exist(ctx, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{
				gDto.Filter{Field: model.FieldEmail, Value: user.Email, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			},
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to look up bootstrap administrator")

			continue
		}

		if exist {
			continue
		}

		if err := repo.Insert(ctx, user); err != nil {
			log.Error().Err(err).Str("email", user.Email).Msg("failed to insert bootstrap administrator")

			continue
		}

		log.Info().Str("email", user.Email).Msg("Bootstrap administrator created")
	}
}
