package service_test

import (
	"bedcall/config"
	otelMocks "bedcall/infras/otel/mocks"
	s3Mocks "bedcall/infras/s3/mocks"
	campaignMocks "bedcall/internal/domains/campaign/mocks"
	"bedcall/internal/domains/campaign/model"
	"bedcall/internal/domains/campaign/model/dto"
	"bedcall/internal/domains/campaign/service"
	queueMocks "bedcall/internal/domains/queue/mocks"
	queueModel "bedcall/internal/domains/queue/model"
	queueDto "bedcall/internal/domains/queue/model/dto"
	queueService "bedcall/internal/domains/queue/service"
	responseMocks "bedcall/internal/domains/response/mocks"
	responseModel "bedcall/internal/domains/response/model"
	"bedcall/internal/events"
	eventMocks "bedcall/internal/events/mocks"
	cacheMocks "bedcall/shared/cache/mocks"
	"bedcall/shared/constant"
	gDto "bedcall/shared/dto"
	"bedcall/shared/failure"
	"bedcall/shared/timezone"
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc       service.Campaign
	campaigns *campaignMocks.MockCampaign
	entries   *queueMocks.MockQueue
	responses *responseMocks.MockResponse
	queue     *queueMocks.MockQueueService
	publisher *eventMocks.MockPublisher
	cache     *cacheMocks.MockRedisCache
	s3        *s3Mocks.MockS3
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	cfg.Dispatch.BatchSize = 4

	f := fixture{
		campaigns: campaignMocks.NewMockCampaign(ctrl),
		entries:   queueMocks.NewMockQueue(ctrl),
		responses: responseMocks.NewMockResponse(ctrl),
		queue:     queueMocks.NewMockQueueService(ctrl),
		publisher: eventMocks.NewMockPublisher(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		s3:        s3Mocks.NewMockS3(ctrl),
	}

	f.svc = service.New(service.Dependencies{
		Config:       cfg,
		Otel:         otelMocks.NewOtel(),
		Cache:        f.cache,
		Campaigns:    f.campaigns,
		QueueEntries: f.entries,
		Responses:    f.responses,
		Queue:        f.queue,
		Publisher:    f.publisher,
		S3:           f.s3,
	})

	return f
}

func openCampaign() model.Campaign {
	return model.Campaign{
		ID:            "c-1",
		TargetDate:    timezone.Today().AddDate(0, 0, 3),
		BedsNeeded:    6,
		BedsConfirmed: 4,
		Status:        model.StatusActive,
	}
}

func nextWeek() string {
	return timezone.Format(timezone.Today().AddDate(0, 0, 7), constant.DateOnlyFormat)
}

// idFilter matches a by-id filter group for the id captured on insert.
type idFilter struct {
	id string
}

func (m *idFilter) Matches(x any) bool {
	group, ok := x.(gDto.FilterGroup)
	if !ok || len(group.Filters) != 1 {
		return false
	}

	filter, ok := group.Filters[0].(gDto.Filter)

	return ok && m.id != "" && filter.Field == model.FieldID && filter.Value == m.id
}

func (m *idFilter) String() string {
	return "filter by id " + m.id
}

func TestCampaignService_Create(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateCampaignRequest
		setup   func(f fixture)
		wantErr int
		check   func(t *testing.T, res dto.CreateCampaignResponse)
	}{
		{
			name: "creates the campaign and builds its queue",
			req:  dto.CreateCampaignRequest{TargetDate: nextWeek(), BedsNeeded: 6},
			setup: func(f fixture) {
				f.campaigns.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, campaign model.Campaign) error {
						assert.Equal(t, model.StatusPending, campaign.Status)
						assert.Equal(t, 6, campaign.BedsNeeded)
						assert.NotEmpty(t, campaign.ID)

						return nil
					})
				f.queue.EXPECT().Build(gomock.Any(), gomock.Any()).Return(queueDto.BuildResult{Queued: 3}, nil)
			},
			check: func(t *testing.T, res dto.CreateCampaignResponse) {
				assert.Equal(t, 3, res.Queued)
				assert.Equal(t, 6, res.Campaign.StillNeeded)
				assert.Empty(t, res.Warning)
			},
		},
		{
			name: "start calling publishes a trigger",
			req:  dto.CreateCampaignRequest{TargetDate: nextWeek(), BedsNeeded: 2, StartCalling: true},
			setup: func(f fixture) {
				f.campaigns.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.queue.EXPECT().Build(gomock.Any(), gomock.Any()).Return(queueDto.BuildResult{Queued: 1}, nil)
				f.publisher.EXPECT().PublishDispatchTrigger(gomock.Any(), gomock.Any(), events.ReasonCreated).Return(nil)
			},
			check: func(t *testing.T, res dto.CreateCampaignResponse) {
				assert.Equal(t, 1, res.Queued)
			},
		},
		{
			name: "no eligible hosts still creates the campaign",
			req:  dto.CreateCampaignRequest{TargetDate: nextWeek(), StartCalling: true},
			setup: func(f fixture) {
				f.campaigns.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.queue.EXPECT().Build(gomock.Any(), gomock.Any()).Return(queueDto.BuildResult{}, queueService.ErrNoEligibleHosts)
			},
			check: func(t *testing.T, res dto.CreateCampaignResponse) {
				assert.Zero(t, res.Queued)
				assert.NotEmpty(t, res.Warning)
				assert.NotEmpty(t, res.Campaign.ID)
			},
		},
		{
			name:    "past target date is rejected",
			req:     dto.CreateCampaignRequest{TargetDate: "2001-01-06", BedsNeeded: 2},
			setup:   func(fixture) {},
			wantErr: http.StatusBadRequest,
		},
		{
			name:    "negative bed count is rejected",
			req:     dto.CreateCampaignRequest{TargetDate: nextWeek(), BedsNeeded: -1},
			setup:   func(fixture) {},
			wantErr: http.StatusBadRequest,
		},
		{
			name: "queue build failure removes the campaign",
			req:  dto.CreateCampaignRequest{TargetDate: nextWeek(), BedsNeeded: 2},
			setup: func(f fixture) {
				inserted := &idFilter{}
				f.campaigns.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, campaign model.Campaign) error {
					inserted.id = campaign.ID

					return nil
				})
				f.queue.EXPECT().Build(gomock.Any(), gomock.Any()).Return(queueDto.BuildResult{}, errors.New("db down"))
				f.campaigns.EXPECT().Delete(gomock.Any(), inserted).Return(nil)
			},
			wantErr: http.StatusInternalServerError,
		},
		{
			name: "cleanup failure still reports the build error",
			req:  dto.CreateCampaignRequest{TargetDate: nextWeek(), BedsNeeded: 2},
			setup: func(f fixture) {
				f.campaigns.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.queue.EXPECT().Build(gomock.Any(), gomock.Any()).Return(queueDto.BuildResult{}, errors.New("db down"))
				f.campaigns.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("db still down"))
			},
			wantErr: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			res, err := f.svc.Create(context.Background(), tt.req)
			if tt.wantErr != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			tt.check(t, res)
		})
	}
}

func TestCampaignService_Get(t *testing.T) {
	t.Run("cache hit skips the repository", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().
			Get(gomock.Any(), model.CacheKey("c-1"), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				value.(*dto.CampaignResponse).ID = "c-1"

				return nil
			})

		res, err := f.svc.Get(context.Background(), "c-1")
		require.NoError(t, err)
		assert.Equal(t, "c-1", res.ID)
	})

	t.Run("cache miss loads and saves", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.campaigns.EXPECT().GetByID(gomock.Any(), "c-1").Return(openCampaign(), nil)
		f.cache.EXPECT().Save(gomock.Any(), model.CacheKey("c-1"), gomock.Any(), 60).Return(nil)

		res, err := f.svc.Get(context.Background(), "c-1")
		require.NoError(t, err)
		assert.Equal(t, 2, res.StillNeeded)
	})

	t.Run("unknown campaign", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.campaigns.EXPECT().GetByID(gomock.Any(), "nope").Return(model.Campaign{}, nil)

		_, err := f.svc.Get(context.Background(), "nope")
		assert.ErrorIs(t, err, model.ErrCampaignNotFound)
	})
}

func TestCampaignService_Cancel(t *testing.T) {
	t.Run("open campaign is cancelled", func(t *testing.T) {
		f := newFixture(t)
		f.campaigns.EXPECT().GetByID(gomock.Any(), "c-1").Return(openCampaign(), nil)
		f.campaigns.EXPECT().SetStatus(gomock.Any(), "c-1", model.OpenStatuses, model.StatusCancelled, gomock.Any()).Return(true, nil)
		f.cache.EXPECT().Delete(gomock.Any(), model.CacheKey("c-1")).Return(nil)
		f.publisher.EXPECT().
			PublishCampaignEvent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, event events.CampaignEvent) error {
				assert.Equal(t, events.TypeCampaignCancelled, event.Type)

				return nil
			})

		require.NoError(t, f.svc.Cancel(context.Background(), "c-1"))
	})

	t.Run("closed campaign conflicts", func(t *testing.T) {
		f := newFixture(t)
		f.campaigns.EXPECT().GetByID(gomock.Any(), "c-1").Return(openCampaign(), nil)
		f.campaigns.EXPECT().SetStatus(gomock.Any(), "c-1", gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

		err := f.svc.Cancel(context.Background(), "c-1")
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestCampaignService_Start(t *testing.T) {
	t.Run("publishes a trigger by default", func(t *testing.T) {
		f := newFixture(t)
		f.campaigns.EXPECT().GetByID(gomock.Any(), "c-1").Return(openCampaign(), nil)
		f.publisher.EXPECT().PublishDispatchTrigger(gomock.Any(), "c-1", events.ReasonStart).Return(nil)

		res, err := f.svc.Start(context.Background(), "c-1", false)
		require.NoError(t, err)
		assert.True(t, res.Queued)
		assert.Nil(t, res.Drain)
	})

	t.Run("drains inline with the configured batch size", func(t *testing.T) {
		f := newFixture(t)
		f.campaigns.EXPECT().GetByID(gomock.Any(), "c-1").Return(openCampaign(), nil)
		f.queue.EXPECT().Drain(gomock.Any(), "c-1", 4).Return(queueDto.DrainResult{CampaignID: "c-1", Rounds: 2, Completed: true}, nil)

		res, err := f.svc.Start(context.Background(), "c-1", true)
		require.NoError(t, err)
		require.NotNil(t, res.Drain)
		assert.True(t, res.Drain.Completed)
	})

	t.Run("closed campaign cannot start", func(t *testing.T) {
		f := newFixture(t)
		closed := openCampaign()
		closed.Status = model.StatusCompleted
		f.campaigns.EXPECT().GetByID(gomock.Any(), "c-1").Return(closed, nil)

		_, err := f.svc.Start(context.Background(), "c-1", false)
		assert.ErrorIs(t, err, service.ErrCampaignNotOpen)
	})

	t.Run("trigger failure is returned", func(t *testing.T) {
		f := newFixture(t)
		f.campaigns.EXPECT().GetByID(gomock.Any(), "c-1").Return(openCampaign(), nil)
		f.publisher.EXPECT().PublishDispatchTrigger(gomock.Any(), "c-1", events.ReasonStart).Return(errors.New("broker down"))

		_, err := f.svc.Start(context.Background(), "c-1", false)
		assert.Error(t, err)
	})
}

func expectReport(f fixture) {
	now := timezone.Now()
	f.campaigns.EXPECT().GetByID(gomock.Any(), "c-1").Return(openCampaign(), nil)
	f.entries.EXPECT().CountByStatus(gomock.Any(), "c-1").Return(map[string]int{
		queueModel.StatusAccepted: 1,
		queueModel.StatusPending:  2,
	}, nil)
	f.entries.EXPECT().GetCandidates(gomock.Any(), "c-1").Return([]queueModel.Candidate{
		{Entry: queueModel.Entry{ID: "e-1", HostID: "h-1", Priority: 0, Status: queueModel.StatusAccepted, QueuedAt: now}, HostName: "Anna", TotalBeds: 4},
		{Entry: queueModel.Entry{ID: "e-2", HostID: "h-2", Priority: 1, Status: queueModel.StatusPending, QueuedAt: now}, HostName: "Ben", TotalBeds: 3},
	}, nil)
	f.responses.EXPECT().GetByCampaign(gomock.Any(), "c-1").Return([]responseModel.Response{
		{ID: "r-1", CampaignID: "c-1", HostID: "h-1", BedsOffered: 4, ResponseType: responseModel.TypeAccepted, Method: responseModel.MethodOutboundCall, RespondedAt: now},
	}, nil)
}

func TestCampaignService_Report(t *testing.T) {
	f := newFixture(t)
	expectReport(f)

	res, err := f.svc.Report(context.Background(), "c-1")
	require.NoError(t, err)

	assert.Equal(t, 4, res.Campaign.BedsConfirmed)
	assert.Equal(t, 2, res.Campaign.StillNeeded)
	assert.Equal(t, 2, res.StatusCounts[queueModel.StatusPending])
	require.Len(t, res.Queue, 2)
	assert.Equal(t, "Anna", res.Queue[0].HostName)
	require.Len(t, res.Responses, 1)
	assert.Equal(t, responseModel.TypeAccepted, res.Responses[0].ResponseType)
}

func TestCampaignService_ExportReport(t *testing.T) {
	t.Run("uploads a workbook with one sheet per section", func(t *testing.T) {
		f := newFixture(t)
		expectReport(f)

		f.s3.EXPECT().
			Upload(gomock.Any(), "reports", gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, fileName, _ string, data []byte) (string, error) {
				assert.Contains(t, fileName, "campaign-c-1-")

				xl, err := excelize.OpenReader(bytes.NewReader(data))
				require.NoError(t, err)
				defer func() { _ = xl.Close() }()

				assert.Equal(t, []string{"Summary", "Queue", "Responses"}, xl.GetSheetList())

				rows, err := xl.GetRows("Queue")
				require.NoError(t, err)
				require.Len(t, rows, 3)
				assert.Equal(t, "Anna", rows[1][1])

				return "https://files.example.org/reports/" + fileName, nil
			})

		res, err := f.svc.ExportReport(context.Background(), "c-1")
		require.NoError(t, err)
		assert.Contains(t, res.URL, res.FileName)
	})

	t.Run("upload failure is returned", func(t *testing.T) {
		f := newFixture(t)
		expectReport(f)
		f.s3.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("denied"))

		_, err := f.svc.ExportReport(context.Background(), "c-1")
		assert.Error(t, err)
	})
}
