package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hostly/config"
	"hostly/infras/otel/mocks"
	ownerMocks "hostly/internal/domains/owner/mocks"
	ownerModel "hostly/internal/domains/owner/model"
	propertyMocks "hostly/internal/domains/property/mocks"
	roomMocks "hostly/internal/domains/room/mocks"
	"hostly/internal/domains/room/model"
	"hostly/internal/domains/room/model/dto"
	"hostly/internal/domains/room/service"
	"hostly/shared/cache"
	"hostly/shared/constant"
	gDto "hostly/shared/dto"
	"hostly/shared/failure"
)

func newService(t *testing.T) (*roomMocks.MockRoom, *propertyMocks.MockProperty, service.Room) {
	t.Helper()

	repo, properties, _, svc := newServiceWithOwners(t)

	return repo, properties, svc
}

func newServiceWithOwners(t *testing.T) (*roomMocks.MockRoom, *propertyMocks.MockProperty, *ownerMocks.MockOwner, service.Room) {
	t.Helper()

	ctrl := gomock.NewController(t)
	otel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	repo := roomMocks.NewMockRoom(ctrl)
	properties := propertyMocks.NewMockProperty(ctrl)
	owners := ownerMocks.NewMockOwner(ctrl)

	return repo, properties, owners, service.New(repo, properties, owners, cfg, cache.NewMemoryCache(otel), otel)
}

func TestRoomService_Create(t *testing.T) {
	req := dto.CreateRoomRequest{PropertyID: "PRP-001", Number: "104", RoomType: "twin", PricePerNight: 140.456}

	tests := []struct {
		name      string
		setupMock func(repo *roomMocks.MockRoom, properties *propertyMocks.MockProperty)
		wantCode  int
	}{
		{
			name: "successful creation",
			setupMock: func(repo *roomMocks.MockRoom, properties *propertyMocks.MockProperty) {
				properties.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, room model.Room) error {
					assert.Equal(t, model.StatusAvailable, room.Status)
					assert.InDelta(t, 140.46, room.PricePerNight, 0.0001)

					return nil
				})
			},
		},
		{
			name: "unknown property",
			setupMock: func(_ *roomMocks.MockRoom, properties *propertyMocks.MockProperty) {
				properties.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate room number",
			setupMock: func(repo *roomMocks.MockRoom, properties *propertyMocks.MockProperty) {
				properties.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "repository error",
			setupMock: func(repo *roomMocks.MockRoom, properties *propertyMocks.MockProperty) {
				properties.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, properties, svc := newService(t)
			tt.setupMock(repo, properties)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "USR-001")
			res, err := svc.Create(ctx, req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "104", res.Number)
		})
	}
}

func TestRoomService_GetAll(t *testing.T) {
	repo, _, svc := newService(t)

	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Room{
		{ID: "RM-101", PropertyID: "PRP-001", Number: "101", Status: model.StatusOccupied},
		{ID: "RM-102", PropertyID: "PRP-001", Number: "102", Status: model.StatusAvailable},
	}, nil)

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 2}, gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Rooms, 2)
	assert.Equal(t, "occupied", res.Rooms[0].Status)
}

func TestRoomService_UpdateStatus(t *testing.T) {
	t.Run("sets status", func(t *testing.T) {
		repo, _, svc := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			assert.Equal(t, model.StatusMaintenance, fields[model.FieldStatus])

			return nil
		})

		assert.NoError(t, svc.UpdateStatus(context.Background(), dto.UpdateRoomStatusRequest{Status: model.StatusMaintenance}, "RM-103"))
	})

	t.Run("missing room", func(t *testing.T) {
		repo, _, svc := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.UpdateStatus(context.Background(), dto.UpdateRoomStatusRequest{Status: model.StatusAvailable}, "RM-999")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func ownerContext(email string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserRole, constant.RoleOwner)

	return context.WithValue(ctx, constant.ContextKeyUserEmail, email)
}

func TestRoomService_OwnerAccounts(t *testing.T) {
	marta := ownerModel.Owner{ID: "OWN-001", Email: "marta@seaside.example"}

	t.Run("status of a room in an owned property", func(t *testing.T) {
		repo, properties, owners, svc := newServiceWithOwners(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any(), model.FieldID, model.FieldPropertyID).Return(model.Room{ID: "RM-101", PropertyID: "PRP-001"}, nil)
		owners.EXPECT().Get(gomock.Any(), gomock.Any()).Return(marta, nil)
		properties.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		err := svc.UpdateStatus(ownerContext(marta.Email), dto.UpdateRoomStatusRequest{Status: model.StatusMaintenance}, "RM-101")
		require.NoError(t, err)
	})

	t.Run("room in another owner's property", func(t *testing.T) {
		repo, properties, owners, svc := newServiceWithOwners(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any(), model.FieldID, model.FieldPropertyID).Return(model.Room{ID: "RM-301", PropertyID: "PRP-003"}, nil)
		owners.EXPECT().Get(gomock.Any(), gomock.Any()).Return(marta, nil)
		properties.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.UpdateStatus(ownerContext(marta.Email), dto.UpdateRoomStatusRequest{Status: model.StatusMaintenance}, "RM-301")
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("account without an owner record", func(t *testing.T) {
		_, properties, owners, svc := newServiceWithOwners(t)

		properties.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		owners.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownerModel.Owner{}, nil)

		_, err := svc.Create(ownerContext("guest@example.com"), dto.CreateRoomRequest{PropertyID: "PRP-001", Number: "105", RoomType: "double", PricePerNight: 90})
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}
