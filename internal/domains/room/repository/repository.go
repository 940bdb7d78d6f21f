package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"hostly/infras/otel"
	"hostly/infras/postgres"
	"hostly/internal/domains/room/model"
	"hostly/internal/seed"
	gDto "hostly/shared/dto"
	gRepo "hostly/shared/repository"
)

type Room interface {
	Insert(ctx context.Context, room model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Store[model.Room]
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Store: gRepo.New(model.EntityName, model.TableName, model.FieldID, db, otel, seed.Rooms()...),
	}
}
