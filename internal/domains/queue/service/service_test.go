package service_test

import (
	"bedcall/config"
	"bedcall/infras/jwt"
	otelMocks "bedcall/infras/otel/mocks"
	"bedcall/infras/telephony"
	campaignModel "bedcall/internal/domains/campaign/model"
	"bedcall/internal/domains/campaign/schedule"
	hostModel "bedcall/internal/domains/host/model"
	"bedcall/internal/domains/queue/model"
	"bedcall/internal/domains/queue/model/dto"
	"bedcall/internal/domains/queue/service"
	responseModel "bedcall/internal/domains/response/model"
	eventMocks "bedcall/internal/events/mocks"
	"bedcall/internal/memstore"
	cacheMocks "bedcall/shared/cache/mocks"
	"bedcall/shared/failure"
	"bedcall/shared/timezone"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const campaignID = "campaign-1"

type fakeSender struct {
	mu     sync.Mutex
	dialed []telephony.DialRequest
	fail   map[string]error
}

func (f *fakeSender) Dial(_ context.Context, req telephony.DialRequest) (telephony.DialResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail[req.To]; err != nil {
		return telephony.DialResult{}, err
	}

	f.dialed = append(f.dialed, req)

	return telephony.DialResult{CallID: fmt.Sprintf("CA%03d", len(f.dialed)), Status: telephony.CallStatusQueued}, nil
}

func (f *fakeSender) calls() []telephony.DialRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]telephony.DialRequest(nil), f.dialed...)
}

type harness struct {
	svc     service.Queue
	store   *memstore.Store
	sender  *fakeSender
	cache   *cacheMocks.MockRedisCache
	tokens  jwt.JWT
	config  *config.Config
	publish *eventMocks.MockPublisher
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "bedcall"
	cfg.Telephony.AnswerURL = "https://voice.example.org/answer"
	cfg.Telephony.PublicURL = "https://bedcall.example.org/"
	cfg.Telephony.FromNumber = "+15550000000"
	cfg.Telephony.CallbackSecret = "callback-secret"
	cfg.Telephony.CallTokenTTL = time.Hour
	cfg.Dispatch.BatchSize = 5
	cfg.Dispatch.DialTimeout = time.Second
	cfg.Dispatch.LockTTL = time.Minute
	cfg.Dispatch.StaleCallingAfter = 10 * time.Minute
	cfg.Dispatch.MaxDrainRounds = 20
	cfg.Schedule.EventRule = "FREQ=WEEKLY;BYDAY=SA"

	return cfg
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	ctrl := gomock.NewController(t)
	cfg := testConfig()
	store := memstore.New()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().TryLock(gomock.Any(), gomock.Any(), gomock.Any()).Return("token", true, nil).AnyTimes()
	mockCache.EXPECT().Unlock(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	mockPublisher := eventMocks.NewMockPublisher(ctrl)
	mockPublisher.EXPECT().PublishDispatchTrigger(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockPublisher.EXPECT().PublishCampaignEvent(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	sender := &fakeSender{fail: map[string]error{}}
	tokens := jwt.New(cfg)

	svc := service.New(service.Dependencies{
		Config:    cfg,
		Otel:      otelMocks.NewOtel(),
		Tx:        store,
		Cache:     mockCache,
		Queue:     store.QueueRepository(),
		Campaigns: store.CampaignRepository(),
		Hosts:     store.HostRepository(),
		Telephony: sender,
		JWT:       tokens,
		Publisher: mockPublisher,
		Planner:   schedule.NewPlannerWithCalendar(cfg.Schedule.EventRule, nil),
		Rand:      rand.New(rand.NewPCG(7, 11)),
	})

	return &harness{svc: svc, store: store, sender: sender, cache: mockCache, tokens: tokens, config: cfg, publish: mockPublisher}
}

func (h *harness) campaign(needed int, status string) {
	h.store.PutCampaign(campaignModel.Campaign{
		ID:         campaignID,
		TargetDate: timezone.StartOfDay(timezone.Now()).AddDate(0, 0, 2),
		BedsNeeded: needed,
		Status:     status,
	})
}

func (h *harness) host(id string, beds int) {
	h.store.PutHost(hostModel.Host{
		ID:            id,
		PhoneNumber:   "+1555" + id,
		Name:          "Host " + id,
		TotalBeds:     beds,
		IsRegistered:  true,
		CallFrequency: hostModel.FrequencyWeekly,
	})
}

// queue writes a fixed-order queue so dispatch order does not depend on the shuffle.
func (h *harness) queue(t *testing.T, hostIDs ...string) {
	t.Helper()

	now := timezone.Now()
	entries := make([]model.Entry, len(hostIDs))

	for i, hostID := range hostIDs {
		entries[i] = model.Entry{
			ID:         "entry-" + hostID,
			CampaignID: campaignID,
			HostID:     hostID,
			Priority:   i,
			Status:     model.StatusPending,
			QueuedAt:   now,
		}
	}

	require.NoError(t, h.store.QueueRepository().ReplaceTx(context.Background(), nil, campaignID, entries))
}

func statuses(entries []model.Entry) map[string]string {
	result := make(map[string]string, len(entries))
	for _, entry := range entries {
		result[entry.HostID] = entry.Status
	}

	return result
}

func tokenFrom(t *testing.T, callback string) string {
	t.Helper()

	parsed, err := url.Parse(callback)
	require.NoError(t, err)

	return parsed.Query().Get("token")
}

func TestStatusForCallOutcome(t *testing.T) {
	tests := []struct {
		callStatus string
		want       string
		final      bool
	}{
		{telephony.CallStatusCompleted, model.StatusAnswered, true},
		{telephony.CallStatusAnswered, model.StatusAnswered, true},
		{telephony.CallStatusNoAnswer, model.StatusNoAnswer, true},
		{telephony.CallStatusBusy, model.StatusNoAnswer, true},
		{telephony.CallStatusFailed, model.StatusFailed, true},
		{telephony.CallStatusCanceled, model.StatusFailed, true},
		{"COMPLETED", model.StatusAnswered, true},
		{telephony.CallStatusQueued, "", false},
		{telephony.CallStatusInitiated, "", false},
		{telephony.CallStatusRinging, "", false},
		{telephony.CallStatusInProgress, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.callStatus, func(t *testing.T) {
			got, final := service.StatusForCallOutcome(tt.callStatus)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.final, final)
		})
	}
}

func TestQueueService_Build(t *testing.T) {
	ctx := context.Background()

	t.Run("orders never accepted hosts ahead and skips ineligible ones", func(t *testing.T) {
		h := newHarness(t)
		h.campaign(10, campaignModel.StatusPending)
		h.host("fresh", 2)
		h.host("veteran", 3)
		h.host("zero-beds", 0)
		h.store.PutHost(hostModel.Host{ID: "special", PhoneNumber: "+1555900", TotalBeds: 2, IsRegistered: true, CallFrequency: hostModel.FrequencySpecial})
		h.store.PutHost(hostModel.Host{ID: "unregistered", PhoneNumber: "+1555901", TotalBeds: 2, CallFrequency: hostModel.FrequencyWeekly})

		require.NoError(t, h.store.ResponseRepository().Insert(ctx, responseModel.Response{
			ID: "r-1", CampaignID: "old", HostID: "veteran", BedsOffered: 3,
			ResponseType: responseModel.TypeAccepted, RespondedAt: timezone.Now().AddDate(0, 0, -7),
		}))

		res, err := h.svc.Build(ctx, campaignID)
		require.NoError(t, err)

		assert.Equal(t, 2, res.Queued)
		require.Len(t, res.Entries, 2)
		assert.Equal(t, "fresh", res.Entries[0].HostID)
		assert.Equal(t, 0, res.Entries[0].Priority)
		assert.Equal(t, "veteran", res.Entries[1].HostID)
		assert.Equal(t, 1, res.Entries[1].Priority)
		assert.Greater(t, res.Entries[0].FairnessScore, res.Entries[1].FairnessScore)

		for _, entry := range h.store.Entries(campaignID) {
			assert.Equal(t, model.StatusPending, entry.Status)
		}
	})

	t.Run("rebuilding replaces the queue instead of appending", func(t *testing.T) {
		h := newHarness(t)
		h.campaign(10, campaignModel.StatusPending)
		h.host("a", 2)
		h.host("b", 3)
		h.host("c", 4)

		first, err := h.svc.Build(ctx, campaignID)
		require.NoError(t, err)

		second, err := h.svc.Build(ctx, campaignID)
		require.NoError(t, err)

		assert.Equal(t, first.Queued, second.Queued)
		assert.Len(t, h.store.Entries(campaignID), 3)
	})

	t.Run("special campaign includes special hosts", func(t *testing.T) {
		h := newHarness(t)
		h.store.PutCampaign(campaignModel.Campaign{ID: campaignID, Status: campaignModel.StatusPending, IsSpecial: true})
		h.host("weekly", 2)
		h.store.PutHost(hostModel.Host{ID: "special", PhoneNumber: "+1555900", TotalBeds: 2, IsRegistered: true, CallFrequency: hostModel.FrequencySpecial})

		res, err := h.svc.Build(ctx, campaignID)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Queued)
	})

	t.Run("refuses while a call is live", func(t *testing.T) {
		h := newHarness(t)
		h.campaign(10, campaignModel.StatusActive)
		h.host("a", 2)
		h.queue(t, "a")

		claimed, err := h.store.QueueRepository().Claim(ctx, "entry-a", "a")
		require.NoError(t, err)
		require.True(t, claimed)

		_, err = h.svc.Build(ctx, campaignID)
		require.ErrorIs(t, err, service.ErrCallInProgress)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("unknown campaign", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.svc.Build(ctx, "missing")
		require.ErrorIs(t, err, campaignModel.ErrCampaignNotFound)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("no eligible hosts leaves the queue empty", func(t *testing.T) {
		h := newHarness(t)
		h.campaign(10, campaignModel.StatusPending)
		h.host("empty", 0)

		_, err := h.svc.Build(ctx, campaignID)
		require.ErrorIs(t, err, service.ErrNoEligibleHosts)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
		assert.Empty(t, h.store.Entries(campaignID))
		assert.Equal(t, campaignModel.StatusPending, h.store.Campaign(campaignID).Status)
	})
}

func TestQueueService_Dispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("stops once dialed beds cover what is still needed", func(t *testing.T) {
		h := newHarness(t)
		h.campaign(10, campaignModel.StatusPending)
		h.host("eight", 8)
		h.host("five", 5)
		h.host("three", 3)
		h.queue(t, "eight", "five", "three")

		res, err := h.svc.Dispatch(ctx, campaignID, 5)
		require.NoError(t, err)

		assert.Equal(t, 2, res.Called)
		assert.Equal(t, 13, res.BedsLocked)
		assert.Equal(t, 10, res.StillNeeded)
		assert.Equal(t, map[string]string{
			"eight": model.StatusCalling,
			"five":  model.StatusCalling,
			"three": model.StatusPending,
		}, statuses(h.store.Entries(campaignID)))
		assert.Equal(t, campaignModel.StatusActive, h.store.Campaign(campaignID).Status)
		assert.Len(t, h.store.CallLogs(), 2)
	})

	t.Run("dial request carries answer and signed callback urls", func(t *testing.T) {
		h := newHarness(t)
		message := "https://cdn.example.org/message.mp3"
		h.store.PutCampaign(campaignModel.Campaign{ID: campaignID, BedsNeeded: 2, Status: campaignModel.StatusActive, CustomMessageURL: &message})
		h.host("a", 2)
		h.queue(t, "a")

		_, err := h.svc.Dispatch(ctx, campaignID, 5)
		require.NoError(t, err)

		calls := h.sender.calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "+1555a", calls[0].To)

		answer, err := url.Parse(calls[0].AnswerURL)
		require.NoError(t, err)
		assert.Equal(t, campaignID, answer.Query().Get("campaign_id"))
		assert.Equal(t, "a", answer.Query().Get("host_id"))
		assert.Equal(t, "entry-a", answer.Query().Get("queue_entry_id"))
		assert.Equal(t, message, answer.Query().Get("message_url"))

		assert.Contains(t, calls[0].StatusCallbackURL, "https://bedcall.example.org/v1/telephony/status?token=")

		claims, err := h.tokens.ValidateCallToken(tokenFrom(t, calls[0].StatusCallbackURL))
		require.NoError(t, err)
		assert.Equal(t, "entry-a", claims.QueueEntryID)

		entry := h.store.EntryForHost(campaignID, "a")
		require.NotNil(t, entry.ProviderCallID)
		assert.Equal(t, "CA001", *entry.ProviderCallID)
	})

	t.Run("counts beds already in flight", func(t *testing.T) {
		h := newHarness(t)
		h.campaign(10, campaignModel.StatusActive)
		h.host("eight", 8)
		h.host("five", 5)
		h.host("three", 3)
		h.queue(t, "eight", "five", "three")

		_, err := h.store.QueueRepository().Claim(ctx, "entry-eight", "eight")
		require.NoError(t, err)

		res, err := h.svc.Dispatch(ctx, campaignID, 5)
		require.NoError(t, err)

		assert.Equal(t, 8, res.BedsInFlight)
		assert.Equal(t, 1, res.Called)
		assert.Equal(t, model.StatusPending, h.store.EntryForHost(campaignID, "three").Status)
	})

	t.Run("no bed target dials the whole batch", func(t *testing.T) {
		h := newHarness(t)
		h.campaign(0, campaignModel.StatusActive)
		h.host("a", 8)
		h.host("b", 5)
		h.host("c", 3)
		h.queue(t, "a", "b", "c")

		res, err := h.svc.Dispatch(ctx, campaignID, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Called)
		assert.Equal(t, model.StatusPending, h.store.EntryForHost(campaignID, "c").Status)
	})

	t.Run("terminal campaign is never dialed", func(t *testing.T) {
		for _, status := range []string{campaignModel.StatusCompleted, campaignModel.StatusCancelled} {
			h := newHarness(t)
			h.campaign(10, status)
			h.host("a", 8)
			h.queue(t, "a")

			res, err := h.svc.Dispatch(ctx, campaignID, 5)
			require.NoError(t, err)

			assert.True(t, res.Terminal, status)
			assert.Equal(t, 0, res.Called, status)
			assert.Empty(t, h.sender.calls(), status)
		}
	})

	t.Run("filled campaign completes without dialing", func(t *testing.T) {
		h := newHarness(t)
		h.store.PutCampaign(campaignModel.Campaign{ID: campaignID, BedsNeeded: 4, BedsConfirmed: 4, Status: campaignModel.StatusActive})
		h.host("a", 8)
		h.queue(t, "a")

		res, err := h.svc.Dispatch(ctx, campaignID, 5)
		require.NoError(t, err)

		assert.True(t, res.Completed)
		assert.Equal(t, 0, res.Called)
		assert.Equal(t, campaignModel.StatusCompleted, h.store.Campaign(campaignID).Status)
		assert.NotNil(t, h.store.Campaign(campaignID).CompletedAt)
	})

	t.Run("exhausted queue completes the campaign", func(t *testing.T) {
		h := newHarness(t)
		h.campaign(10, campaignModel.StatusActive)

		res, err := h.svc.Dispatch(ctx, campaignID, 5)
		require.NoError(t, err)

		assert.True(t, res.Completed)
		assert.Equal(t, campaignModel.StatusCompleted, h.store.Campaign(campaignID).Status)
	})

	t.Run("another dispatcher holds the lock", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := memstore.New()
		mockCache := cacheMocks.NewMockRedisCache(ctrl)
		mockCache.EXPECT().TryLock(gomock.Any(), "dispatch:"+campaignID, time.Minute).Return("", false, nil)

		svc := service.New(service.Dependencies{
			Config:    testConfig(),
			Otel:      otelMocks.NewOtel(),
			Cache:     mockCache,
			Campaigns: store.CampaignRepository(),
			Queue:     store.QueueRepository(),
		})

		res, err := svc.Dispatch(ctx, campaignID, 5)
		require.NoError(t, err)
		assert.True(t, res.Busy)
		assert.Equal(t, 0, res.Called)
	})

	t.Run("lock outage falls back to the claim", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := memstore.New()
		store.PutCampaign(campaignModel.Campaign{ID: campaignID, BedsNeeded: 2, Status: campaignModel.StatusActive})
		store.PutHost(hostModel.Host{ID: "a", PhoneNumber: "+1555a", TotalBeds: 2, IsRegistered: true, CallFrequency: hostModel.FrequencyWeekly})
		require.NoError(t, store.QueueRepository().ReplaceTx(ctx, nil, campaignID, []model.Entry{{ID: "entry-a", CampaignID: campaignID, HostID: "a", Status: model.StatusPending}}))

		mockCache := cacheMocks.NewMockRedisCache(ctrl)
		mockCache.EXPECT().TryLock(gomock.Any(), gomock.Any(), gomock.Any()).Return("", false, errors.New("redis down"))

		cfg := testConfig()
		svc := service.New(service.Dependencies{
			Config:    cfg,
			Otel:      otelMocks.NewOtel(),
			Cache:     mockCache,
			Campaigns: store.CampaignRepository(),
			Queue:     store.QueueRepository(),
			Telephony: &fakeSender{},
			JWT:       jwt.New(cfg),
		})

		res, err := svc.Dispatch(ctx, campaignID, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Called)
	})

	t.Run("per host failures do not abort the batch", func(t *testing.T) {
		h := newHarness(t)
		h.campaign(0, campaignModel.StatusActive)
		h.host("ok", 2)
		h.host("down", 2)
		h.store.PutHost(hostModel.Host{ID: "nophone", TotalBeds: 2, IsRegistered: true, CallFrequency: hostModel.FrequencyWeekly})
		h.host("busy", 2)
		h.queue(t, "nophone", "down", "busy", "ok")

		// busy is live for another campaign
		require.NoError(t, h.store.QueueRepository().ReplaceTx(ctx, nil, "other", []model.Entry{{ID: "other-busy", CampaignID: "other", HostID: "busy", Status: model.StatusPending}}))
		_, err := h.store.QueueRepository().Claim(ctx, "other-busy", "busy")
		require.NoError(t, err)

		h.sender.fail["+1555down"] = telephony.ErrDialRejected

		res, err := h.svc.Dispatch(ctx, campaignID, 5)
		require.NoError(t, err)

		require.Len(t, res.Results, 4)
		assert.Equal(t, 1, res.Called)

		byHost := map[string]dto.HostResult{}
		for _, result := range res.Results {
			byHost[result.HostID] = result
		}

		assert.Equal(t, dto.HostResultFailed, byHost["nophone"].Status)
		assert.Equal(t, service.ErrMissingPhoneNumber.Error(), byHost["nophone"].Error)
		assert.Equal(t, dto.HostResultFailed, byHost["down"].Status)
		assert.Contains(t, byHost["down"].Error, service.ErrDialInitiationFailed.Error())
		assert.Equal(t, dto.HostResultSkippedConflict, byHost["busy"].Status)
		assert.Equal(t, dto.HostResultDialed, byHost["ok"].Status)

		assert.Equal(t, map[string]string{
			"nophone": model.StatusFailed,
			"down":    model.StatusFailed,
			"busy":    model.StatusPending,
			"ok":      model.StatusCalling,
		}, statuses(h.store.Entries(campaignID)))

		down := h.store.EntryForHost(campaignID, "down")
		require.NotNil(t, down.LastError)
		assert.Contains(t, *down.LastError, service.ErrDialInitiationFailed.Error())
	})

	t.Run("concurrent dispatchers never double dial", func(t *testing.T) {
		h := newHarness(t)
		h.campaign(0, campaignModel.StatusActive)

		hostIDs := make([]string, 12)
		for i := range hostIDs {
			hostIDs[i] = fmt.Sprintf("h%02d", i)
			h.host(hostIDs[i], 1)
		}

		h.queue(t, hostIDs...)

		var wg sync.WaitGroup

		for range 4 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, err := h.svc.Dispatch(ctx, campaignID, 12)
				assert.NoError(t, err)
			}()
		}

		wg.Wait()

		seen := map[string]int{}
		for _, call := range h.sender.calls() {
			seen[call.To]++
		}

		assert.Len(t, seen, 12)

		for to, count := range seen {
			assert.Equal(t, 1, count, to)
		}
	})
}

func TestQueueService_HandleStatus(t *testing.T) {
	ctx := context.Background()

	dial := func(t *testing.T) (*harness, string) {
		t.Helper()

		h := newHarness(t)
		h.campaign(10, campaignModel.StatusActive)
		h.host("a", 4)
		h.queue(t, "a")

		_, err := h.svc.Dispatch(ctx, campaignID, 5)
		require.NoError(t, err)

		calls := h.sender.calls()
		require.Len(t, calls, 1)

		return h, tokenFrom(t, calls[0].StatusCallbackURL)
	}

	t.Run("completed call settles to answered", func(t *testing.T) {
		h, token := dial(t)

		err := h.svc.HandleStatus(ctx, dto.StatusCallback{Token: token, CallSid: "CA001", CallStatus: telephony.CallStatusCompleted})
		require.NoError(t, err)

		assert.Equal(t, model.StatusAnswered, h.store.EntryForHost(campaignID, "a").Status)
		require.Len(t, h.store.CallLogs(), 1)
		assert.Equal(t, telephony.CallStatusCompleted, h.store.CallLogs()[0].Status)
	})

	t.Run("busy settles to no answer", func(t *testing.T) {
		h, token := dial(t)

		require.NoError(t, h.svc.HandleStatus(ctx, dto.StatusCallback{Token: token, CallSid: "CA001", CallStatus: telephony.CallStatusBusy}))
		assert.Equal(t, model.StatusNoAnswer, h.store.EntryForHost(campaignID, "a").Status)
	})

	t.Run("progress states leave the entry calling", func(t *testing.T) {
		h, token := dial(t)

		require.NoError(t, h.svc.HandleStatus(ctx, dto.StatusCallback{Token: token, CallSid: "CA001", CallStatus: telephony.CallStatusRinging}))
		assert.Equal(t, model.StatusCalling, h.store.EntryForHost(campaignID, "a").Status)
	})

	t.Run("recorded answer is not overwritten", func(t *testing.T) {
		h, token := dial(t)

		moved, err := h.store.QueueRepository().Transition(ctx, "entry-a", []string{model.StatusCalling}, model.StatusAccepted, nil)
		require.NoError(t, err)
		require.True(t, moved)

		require.NoError(t, h.svc.HandleStatus(ctx, dto.StatusCallback{Token: token, CallSid: "CA001", CallStatus: telephony.CallStatusCompleted}))
		assert.Equal(t, model.StatusAccepted, h.store.EntryForHost(campaignID, "a").Status)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		h, _ := dial(t)

		err := h.svc.HandleStatus(ctx, dto.StatusCallback{Token: "forged", CallSid: "CA001", CallStatus: telephony.CallStatusCompleted})
		require.ErrorIs(t, err, failure.InvalidCallToken)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
		assert.Equal(t, model.StatusCalling, h.store.EntryForHost(campaignID, "a").Status)
	})

	t.Run("falls back to the provider call id", func(t *testing.T) {
		h, _ := dial(t)

		token, err := h.tokens.GenerateCallToken("unknown-entry", campaignID, "a")
		require.NoError(t, err)

		require.NoError(t, h.svc.HandleStatus(ctx, dto.StatusCallback{Token: token, CallSid: "CA001", CallStatus: telephony.CallStatusNoAnswer}))
		assert.Equal(t, model.StatusNoAnswer, h.store.EntryForHost(campaignID, "a").Status)
	})
}

func TestQueueService_Drain(t *testing.T) {
	ctx := context.Background()

	t.Run("dials until the queue is exhausted", func(t *testing.T) {
		h := newHarness(t)
		h.campaign(0, campaignModel.StatusPending)
		h.host("a", 1)
		h.host("b", 1)
		h.host("c", 1)
		h.queue(t, "a", "b", "c")

		res, err := h.svc.Drain(ctx, campaignID, 2)
		require.NoError(t, err)

		assert.True(t, res.Completed)
		assert.Equal(t, 3, res.Called)
		assert.Equal(t, 3, res.Rounds)
		assert.Equal(t, campaignModel.StatusCompleted, h.store.Campaign(campaignID).Status)
	})

	t.Run("stops at the round limit while calls are in flight", func(t *testing.T) {
		h := newHarness(t)
		h.config.Dispatch.MaxDrainRounds = 3
		h.campaign(2, campaignModel.StatusActive)
		h.host("a", 2)
		h.host("b", 2)
		h.queue(t, "a", "b")

		res, err := h.svc.Drain(ctx, campaignID, 5)
		require.NoError(t, err)

		assert.Equal(t, 1, res.Called)
		assert.Equal(t, 3, res.Rounds)
		assert.Equal(t, dto.DrainStoppedMaxRounds, res.Stopped)
	})

	t.Run("cancelled context stops the drain", func(t *testing.T) {
		h := newHarness(t)
		h.campaign(2, campaignModel.StatusActive)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		res, err := h.svc.Drain(cancelled, campaignID, 5)
		require.NoError(t, err)
		assert.Equal(t, dto.DrainStoppedContext, res.Stopped)
		assert.Equal(t, 0, res.Rounds)
	})

	t.Run("terminal campaign ends the drain", func(t *testing.T) {
		h := newHarness(t)
		h.campaign(2, campaignModel.StatusCancelled)

		res, err := h.svc.Drain(ctx, campaignID, 5)
		require.NoError(t, err)
		assert.True(t, res.Terminal)
		assert.Equal(t, 1, res.Rounds)
	})
}

func TestQueueService_Sweep(t *testing.T) {
	ctx := context.Background()

	t.Run("demotes calls without a status callback", func(t *testing.T) {
		h := newHarness(t)
		h.campaign(10, campaignModel.StatusActive)
		h.host("stale", 2)
		h.host("fresh", 2)
		h.queue(t, "stale", "fresh")

		queue := h.store.QueueRepository()
		_, err := queue.Claim(ctx, "entry-stale", "stale")
		require.NoError(t, err)
		_, err = queue.Claim(ctx, "entry-fresh", "fresh")
		require.NoError(t, err)

		// Age the stale call by rewriting it with an older called_at.
		old := timezone.Now().Add(-time.Hour)
		stale := h.store.EntryForHost(campaignID, "stale")
		stale.CalledAt = &old
		fresh := h.store.EntryForHost(campaignID, "fresh")
		require.NoError(t, queue.ReplaceTx(ctx, nil, campaignID, []model.Entry{stale, fresh}))

		res, err := h.svc.Sweep(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, res.Demoted)
		assert.Equal(t, model.StatusNoAnswer, h.store.EntryForHost(campaignID, "stale").Status)
		assert.Equal(t, model.StatusCalling, h.store.EntryForHost(campaignID, "fresh").Status)
	})

	t.Run("completes campaigns whose date has passed", func(t *testing.T) {
		h := newHarness(t)
		h.store.PutCampaign(campaignModel.Campaign{ID: "past", TargetDate: timezone.Now().AddDate(0, 0, -3), Status: campaignModel.StatusActive})
		h.campaign(10, campaignModel.StatusPending)

		res, err := h.svc.Sweep(ctx)
		require.NoError(t, err)

		assert.Equal(t, int64(1), res.CompletedCampaigns)
		assert.Equal(t, campaignModel.StatusCompleted, h.store.Campaign("past").Status)
		assert.Equal(t, campaignModel.StatusPending, h.store.Campaign(campaignID).Status)
	})

	t.Run("schedules the next campaign when none is upcoming", func(t *testing.T) {
		h := newHarness(t)
		h.config.Schedule.AutoCreate = true
		h.host("a", 2)

		res, err := h.svc.Sweep(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, res.CreatedCampaignID)

		created := h.store.Campaign(res.CreatedCampaignID)
		assert.Equal(t, campaignModel.StatusPending, created.Status)
		assert.Equal(t, time.Saturday, created.TargetDate.Weekday())
		assert.Equal(t, 0, created.BedsNeeded)
		assert.Len(t, h.store.Entries(res.CreatedCampaignID), 1)

		again, err := h.svc.Sweep(ctx)
		require.NoError(t, err)
		assert.Empty(t, again.CreatedCampaignID)
	})

	t.Run("schedules even when nobody is eligible yet", func(t *testing.T) {
		h := newHarness(t)
		h.config.Schedule.AutoCreate = true

		res, err := h.svc.Sweep(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, res.CreatedCampaignID)
	})
}
