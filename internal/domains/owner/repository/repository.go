package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"hostly/infras/otel"
	"hostly/infras/postgres"
	"hostly/internal/domains/owner/model"
	"hostly/internal/seed"
	gDto "hostly/shared/dto"
	gRepo "hostly/shared/repository"
)

type Owner interface {
	Insert(ctx context.Context, owner model.Owner) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Owner, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Owner, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Store[model.Owner]
}

func New(db *postgres.Connection, otel otel.Otel) Owner {
	return &repositoryImpl{
		Store: gRepo.New(model.EntityName, model.TableName, model.FieldID, db, otel, seed.Owners()...),
	}
}

// FindByAccount returns the owner record registered under an account email. A zero Owner
// means the account is not linked to any owner.
func FindByAccount(ctx context.Context, repo Owner, email string) (model.Owner, error) {
	if email == "" {
		return model.Owner{}, nil
	}

	return repo.Get(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldEmail, Operator: gDto.FilterOperatorEq, Value: email, Table: model.TableName},
		},
	})
}
