package service_test

import (
	"bedcall/config"
	"bedcall/infras/otel/mocks"
	hostMocks "bedcall/internal/domains/host/mocks"
	"bedcall/internal/domains/host/model"
	"bedcall/internal/domains/host/model/dto"
	"bedcall/internal/domains/host/service"
	cacheMocks "bedcall/shared/cache/mocks"
	"bedcall/shared/constant"
	gDto "bedcall/shared/dto"
	"bedcall/shared/failure"
	gModel "bedcall/shared/model"
	"bedcall/shared/timezone"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newService(t *testing.T) (service.Host, *hostMocks.MockHost, *cacheMocks.MockRedisCache) {
	ctrl := gomock.NewController(t)

	mockRepo := hostMocks.NewMockHost(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel()), mockRepo, mockCache
}

func TestHostService_Register(t *testing.T) {
	svc, mockRepo, mockCache := newService(t)

	registeredAt := timezone.Now()
	existing := model.Host{
		ID:            "host-1",
		PhoneNumber:   "+15551230000",
		Name:          "Grace",
		TotalBeds:     2,
		IsRegistered:  false,
		CallFrequency: model.FrequencyWeekly,
		RegisteredAt:  &registeredAt,
	}

	tests := []struct {
		name      string
		req       dto.RegisterHostRequest
		setupMock func()
		wantErr   bool
		check     func(t *testing.T, res dto.HostResponse)
	}{
		{
			name: "new phone number is inserted as registered weekly host",
			req:  dto.RegisterHostRequest{PhoneNumber: "+15559990000", Name: "Ada", TotalBeds: 3},
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Host{}, nil)
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, host model.Host) error {
						assert.True(t, host.IsRegistered)
						assert.Equal(t, model.FrequencyWeekly, host.CallFrequency)
						assert.Equal(t, 3, host.TotalBeds)
						assert.NotNil(t, host.RegisteredAt)

						return nil
					})
			},
			check: func(t *testing.T, res dto.HostResponse) {
				assert.Equal(t, "+15559990000", res.PhoneNumber)
				assert.NotEmpty(t, res.ID)
			},
		},
		{
			name: "known phone number is updated in place",
			req:  dto.RegisterHostRequest{PhoneNumber: existing.PhoneNumber, TotalBeds: 4, CallFrequency: model.FrequencySpecial},
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
						assert.Equal(t, 4, fields[model.FieldTotalBeds])
						assert.Equal(t, true, fields[model.FieldIsRegistered])
						assert.Equal(t, model.FrequencySpecial, fields[model.FieldCallFrequency])
						assert.NotContains(t, fields, model.FieldName)
						assert.NotContains(t, fields, model.FieldRegisteredAt)

						return 1, nil
					})
				mockCache.EXPECT().Delete(gomock.Any(), "host:get:host-1").Return(nil)

				updated := existing
				updated.TotalBeds = 4
				updated.IsRegistered = true
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(updated, nil)
			},
			check: func(t *testing.T, res dto.HostResponse) {
				assert.Equal(t, "host-1", res.ID)
				assert.Equal(t, 4, res.TotalBeds)
				assert.True(t, res.IsRegistered)
			},
		},
		{
			name: "lookup failure",
			req:  dto.RegisterHostRequest{PhoneNumber: "+15559990000"},
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Host{}, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyActor, "ops")
			res, err := svc.Register(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			tt.check(t, res)
		})
	}
}

func TestHostService_Get(t *testing.T) {
	svc, mockRepo, mockCache := newService(t)

	host := model.Host{
		ID:            "host-1",
		PhoneNumber:   "+15551230000",
		TotalBeds:     2,
		IsRegistered:  true,
		CallFrequency: model.FrequencyWeekly,
		Metadata:      gModel.Metadata{CreatedAt: timezone.Now(), ModifiedAt: timezone.Now()},
	}

	tests := []struct {
		name      string
		id        string
		setupMock func()
		wantCode  int
	}{
		{
			name: "cache miss loads from repository",
			id:   "host-1",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), "host:get:host-1", gomock.Any()).Return(errors.New("redis: nil"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(host, nil)
				mockCache.EXPECT().Save(gomock.Any(), "host:get:host-1", gomock.Any(), 3600).Return(nil)
			},
		},
		{
			name: "cache hit",
			id:   "host-1",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), "host:get:host-1", gomock.Any()).Return(nil)
			},
		},
		{
			name: "unknown host",
			id:   "missing",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis: nil"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Host{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			_, err := svc.Get(context.Background(), tt.id)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestHostService_Update(t *testing.T) {
	svc, mockRepo, mockCache := newService(t)

	beds := 5

	tests := []struct {
		name      string
		req       dto.UpdateHostRequest
		setupMock func()
		wantCode  int
	}{
		{
			name:      "empty request",
			req:       dto.UpdateHostRequest{},
			setupMock: func() {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "updates beds",
			req:  dto.UpdateHostRequest{TotalBeds: &beds},
			setupMock: func() {
				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
						assert.Equal(t, 5, fields[model.FieldTotalBeds])
						assert.Equal(t, "ops", fields[constant.FieldModifiedBy])

						return 1, nil
					})
				mockCache.EXPECT().Delete(gomock.Any(), "host:get:host-1").Return(nil)
			},
		},
		{
			name: "no row matched",
			req:  dto.UpdateHostRequest{Name: "Ada"},
			setupMock: func() {
				mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyActor, "ops")
			err := svc.Update(ctx, tt.req, "host-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestHostService_GetAll(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(12, nil)
	mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Host{{ID: "a"}, {ID: "b"}}, nil)

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	require.NoError(t, err)
	assert.Equal(t, 12, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Hosts, 2)
}
