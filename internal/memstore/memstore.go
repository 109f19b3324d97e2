// Package memstore keeps campaigns, hosts, queue entries and responses in memory behind the
// repository interfaces. It backs the dispatch and recorder scenario tests, which need state
// that survives across many repository calls.
package memstore

import (
	campaignModel "bedcall/internal/domains/campaign/model"
	campaignRepo "bedcall/internal/domains/campaign/repository"
	hostModel "bedcall/internal/domains/host/model"
	hostRepo "bedcall/internal/domains/host/repository"
	queueModel "bedcall/internal/domains/queue/model"
	queueRepo "bedcall/internal/domains/queue/repository"
	responseModel "bedcall/internal/domains/response/model"
	responseRepo "bedcall/internal/domains/response/repository"
	gDto "bedcall/shared/dto"
	"bedcall/shared/timezone"
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

type Store struct {
	mu        sync.Mutex
	campaigns map[string]campaignModel.Campaign
	hosts     map[string]hostModel.Host
	entries   map[string]queueModel.Entry
	responses []responseModel.Response
	callLogs  map[string]queueModel.CallLog

	rowMu    sync.Mutex
	rowLocks map[string]*sync.Mutex
	held     map[*sqlx.Tx][]*sync.Mutex
}

func New() *Store {
	return &Store{
		campaigns: map[string]campaignModel.Campaign{},
		hosts:     map[string]hostModel.Host{},
		entries:   map[string]queueModel.Entry{},
		callLogs:  map[string]queueModel.CallLog{},
		rowLocks:  map[string]*sync.Mutex{},
		held:      map[*sqlx.Tx][]*sync.Mutex{},
	}
}

// WithTx runs fn with a placeholder tx that only identifies the transaction. Row locks taken
// through it are released when fn returns. Writes are not rolled back on error.
func (s *Store) WithTx(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	tx := &sqlx.Tx{}

	defer func() {
		s.rowMu.Lock()
		locks := s.held[tx]
		delete(s.held, tx)
		s.rowMu.Unlock()

		for _, lock := range locks {
			lock.Unlock()
		}
	}()

	return fn(tx)
}

// lockRow blocks until key is free and holds it for the rest of tx. A nil tx locks nothing.
func (s *Store) lockRow(tx *sqlx.Tx, key string) {
	if tx == nil {
		return
	}

	s.rowMu.Lock()
	lock, ok := s.rowLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.rowLocks[key] = lock
	}

	for _, heldLock := range s.held[tx] {
		if heldLock == lock {
			s.rowMu.Unlock()

			return
		}
	}
	s.rowMu.Unlock()

	lock.Lock()

	s.rowMu.Lock()
	s.held[tx] = append(s.held[tx], lock)
	s.rowMu.Unlock()
}

func (s *Store) PutCampaign(campaign campaignModel.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.campaigns[campaign.ID] = campaign
}

func (s *Store) PutHost(host hostModel.Host) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hosts[host.ID] = host
}

func (s *Store) Campaign(id string) campaignModel.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.campaigns[id]
}

func (s *Store) Host(id string) hostModel.Host {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hosts[id]
}

// Entries returns the queue of a campaign in priority order.
func (s *Store) Entries(campaignID string) []queueModel.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.entriesLocked(campaignID)
}

func (s *Store) entriesLocked(campaignID string) []queueModel.Entry {
	var entries []queueModel.Entry

	for _, entry := range s.entries {
		if entry.CampaignID == campaignID {
			entries = append(entries, entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority < entries[j].Priority
		}

		return entries[i].QueuedAt.Before(entries[j].QueuedAt)
	})

	return entries
}

// EntryForHost returns the campaign entry of a host, or the zero entry.
func (s *Store) EntryForHost(campaignID, hostID string) queueModel.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.entries {
		if entry.CampaignID == campaignID && entry.HostID == hostID {
			return entry
		}
	}

	return queueModel.Entry{}
}

func (s *Store) Responses() []responseModel.Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.responses)
}

func (s *Store) CallLogs() []queueModel.CallLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := make([]queueModel.CallLog, 0, len(s.callLogs))
	for _, log := range s.callLogs {
		logs = append(logs, log)
	}

	return logs
}

func (s *Store) QueueRepository() queueRepo.Queue {
	return &queueStore{store: s}
}

func (s *Store) CampaignRepository() campaignRepo.Campaign {
	return &campaignStore{store: s}
}

func (s *Store) HostRepository() hostRepo.Host {
	return &hostStore{store: s}
}

func (s *Store) ResponseRepository() responseRepo.Response {
	return &responseStore{store: s}
}

// filterValue returns the value of the first equality filter on field.
func filterValue(filter gDto.FilterGroup, field string) (any, bool) {
	for _, item := range filter.Filters {
		switch f := item.(type) {
		case gDto.Filter:
			if f.Field == field {
				return f.Value, true
			}
		case gDto.FilterGroup:
			if value, ok := filterValue(f, field); ok {
				return value, true
			}
		}
	}

	return nil, false
}

type queueStore struct {
	queueRepo.Queue
	store *Store
}

func (q *queueStore) GetByID(_ context.Context, id string) (queueModel.Entry, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	return q.store.entries[id], nil
}

func (q *queueStore) GetByProviderCallID(_ context.Context, callID string) (queueModel.Entry, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	for _, entry := range q.store.entries {
		if entry.ProviderCallID != nil && *entry.ProviderCallID == callID {
			return entry, nil
		}
	}

	return queueModel.Entry{}, nil
}

func (q *queueStore) HasCalling(_ context.Context, campaignID string) (bool, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	for _, entry := range q.store.entries {
		if entry.CampaignID == campaignID && entry.Status == queueModel.StatusCalling {
			return true, nil
		}
	}

	return false, nil
}

func (q *queueStore) ReplaceTx(_ context.Context, _ *sqlx.Tx, campaignID string, entries []queueModel.Entry) error {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	for id, entry := range q.store.entries {
		if entry.CampaignID == campaignID {
			delete(q.store.entries, id)
		}
	}

	for _, entry := range entries {
		q.store.entries[entry.ID] = entry
	}

	return nil
}

func (q *queueStore) GetHistory(_ context.Context, hostIDs []string) (map[string]queueModel.History, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	histories := map[string]queueModel.History{}

	for _, response := range q.store.responses {
		if !slices.Contains(hostIDs, response.HostID) {
			continue
		}

		history := histories[response.HostID]
		history.HostID = response.HostID

		switch response.ResponseType {
		case responseModel.TypeAccepted:
			history.AcceptedCount++

			if history.LastAcceptedAt == nil || response.RespondedAt.After(*history.LastAcceptedAt) {
				respondedAt := response.RespondedAt
				history.LastAcceptedAt = &respondedAt
			}
		case responseModel.TypeDeclined:
			history.DeclinedCount++
		}

		histories[response.HostID] = history
	}

	return histories, nil
}

func (q *queueStore) InFlightBeds(_ context.Context, campaignID string) (int, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	beds := 0

	for _, entry := range q.store.entries {
		if entry.CampaignID == campaignID && entry.Status == queueModel.StatusCalling {
			beds += q.store.hosts[entry.HostID].TotalBeds
		}
	}

	return beds, nil
}

func (q *queueStore) candidate(entry queueModel.Entry) queueModel.Candidate {
	host := q.store.hosts[entry.HostID]

	return queueModel.Candidate{
		Entry:       entry,
		PhoneNumber: host.PhoneNumber,
		HostName:    host.Name,
		TotalBeds:   host.TotalBeds,
	}
}

func (q *queueStore) NextPending(_ context.Context, campaignID string, limit int) ([]queueModel.Candidate, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	var candidates []queueModel.Candidate

	for _, entry := range q.store.entriesLocked(campaignID) {
		if len(candidates) == limit {
			break
		}

		if entry.Status == queueModel.StatusPending {
			candidates = append(candidates, q.candidate(entry))
		}
	}

	return candidates, nil
}

func (q *queueStore) GetCandidates(_ context.Context, campaignID string) ([]queueModel.Candidate, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	entries := q.store.entriesLocked(campaignID)

	candidates := make([]queueModel.Candidate, len(entries))
	for i, entry := range entries {
		candidates[i] = q.candidate(entry)
	}

	return candidates, nil
}

func (q *queueStore) CountByStatus(_ context.Context, campaignID string) (map[string]int, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	counts := map[string]int{}

	for _, entry := range q.store.entries {
		if entry.CampaignID == campaignID {
			counts[entry.Status]++
		}
	}

	return counts, nil
}

func (q *queueStore) Claim(_ context.Context, entryID, hostID string) (bool, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	entry, ok := q.store.entries[entryID]
	if !ok || entry.Status != queueModel.StatusPending {
		return false, nil
	}

	for id, other := range q.store.entries {
		if id != entryID && other.HostID == hostID && other.Status == queueModel.StatusCalling {
			return false, nil
		}
	}

	now := timezone.Now()
	entry.Status = queueModel.StatusCalling
	entry.CalledAt = &now
	entry.LastError = nil
	q.store.entries[entryID] = entry

	return true, nil
}

func applyFields(entry queueModel.Entry, fields map[string]any) queueModel.Entry {
	for key, value := range fields {
		switch key {
		case queueModel.FieldProviderCallID:
			callID, _ := value.(string)
			entry.ProviderCallID = &callID
		case queueModel.FieldLastError:
			reason, _ := value.(string)
			entry.LastError = &reason
		case queueModel.FieldRespondedAt:
			if at, ok := value.(time.Time); ok {
				entry.RespondedAt = &at
			}
		}
	}

	return entry
}

func (q *queueStore) Transition(_ context.Context, entryID string, from []string, to string, fields map[string]any) (bool, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	entry, ok := q.store.entries[entryID]
	if !ok || !slices.Contains(from, entry.Status) {
		return false, nil
	}

	entry = applyFields(entry, fields)
	entry.Status = to
	q.store.entries[entryID] = entry

	return true, nil
}

func (q *queueStore) TransitionForHostTx(_ context.Context, _ *sqlx.Tx, campaignID, hostID string, from []string, to string) (bool, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	moved := false

	for id, entry := range q.store.entries {
		if entry.CampaignID != campaignID || entry.HostID != hostID || !slices.Contains(from, entry.Status) {
			continue
		}

		now := timezone.Now()
		entry.Status = to
		entry.RespondedAt = &now
		q.store.entries[id] = entry
		moved = true
	}

	return moved, nil
}

func (q *queueStore) DemoteStale(_ context.Context, before time.Time) ([]queueModel.Entry, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	var demoted []queueModel.Entry

	for id, entry := range q.store.entries {
		if entry.Status != queueModel.StatusCalling || entry.CalledAt == nil || !entry.CalledAt.Before(before) {
			continue
		}

		reason := "no status callback received"
		entry.Status = queueModel.StatusNoAnswer
		entry.LastError = &reason
		q.store.entries[id] = entry
		demoted = append(demoted, entry)
	}

	return demoted, nil
}

func (q *queueStore) InsertCallLog(_ context.Context, log queueModel.CallLog) error {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	q.store.callLogs[log.CallSID] = log

	return nil
}

func (q *queueStore) UpdateCallLogStatus(_ context.Context, callSID, status string) error {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	if log, ok := q.store.callLogs[callSID]; ok {
		log.Status = status
		q.store.callLogs[callSID] = log
	}

	return nil
}

type campaignStore struct {
	campaignRepo.Campaign
	store *Store
}

func (c *campaignStore) Insert(_ context.Context, campaign campaignModel.Campaign) error {
	c.store.PutCampaign(campaign)

	return nil
}

func (c *campaignStore) GetByID(_ context.Context, id string) (campaignModel.Campaign, error) {
	return c.store.Campaign(id), nil
}

func (c *campaignStore) SetStatus(_ context.Context, id string, from []string, to, actor string) (bool, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	campaign, ok := c.store.campaigns[id]
	if !ok || !slices.Contains(from, campaign.Status) {
		return false, nil
	}

	campaign.Status = to
	campaign.ModifiedBy = actor

	if to == campaignModel.StatusCompleted {
		now := timezone.Now()
		campaign.CompletedAt = &now
	}

	c.store.campaigns[id] = campaign

	return true, nil
}

func (c *campaignStore) LockTx(_ context.Context, tx *sqlx.Tx, id string) error {
	c.store.lockRow(tx, "campaign:"+id)

	return nil
}

func (c *campaignStore) IncrementConfirmedTx(_ context.Context, _ *sqlx.Tx, campaignID, hostID string, beds int, actor string) (bool, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	campaign, ok := c.store.campaigns[campaignID]
	if !ok {
		return false, nil
	}

	for _, entry := range c.store.entries {
		if entry.CampaignID == campaignID && entry.HostID == hostID && entry.Status == queueModel.StatusAccepted {
			return false, nil
		}
	}

	campaign.BedsConfirmed += beds
	campaign.ModifiedBy = actor
	c.store.campaigns[campaignID] = campaign

	return true, nil
}

func (c *campaignStore) GetActive(_ context.Context) ([]campaignModel.Campaign, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	var active []campaignModel.Campaign

	for _, campaign := range c.store.campaigns {
		if campaign.Status == campaignModel.StatusActive {
			active = append(active, campaign)
		}
	}

	sort.Slice(active, func(i, j int) bool {
		if !active[i].TargetDate.Equal(active[j].TargetDate) {
			return active[i].TargetDate.Before(active[j].TargetDate)
		}

		return active[i].ID < active[j].ID
	})

	return active, nil
}

func (c *campaignStore) CompletePast(_ context.Context, today time.Time) (int64, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	var completed int64

	for id, campaign := range c.store.campaigns {
		if slices.Contains(campaignModel.OpenStatuses, campaign.Status) && campaign.TargetDate.Before(today) {
			now := timezone.Now()
			campaign.Status = campaignModel.StatusCompleted
			campaign.CompletedAt = &now
			c.store.campaigns[id] = campaign
			completed++
		}
	}

	return completed, nil
}

func (c *campaignStore) ExistsUpcoming(_ context.Context, today time.Time) (bool, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	for _, campaign := range c.store.campaigns {
		if slices.Contains(campaignModel.OpenStatuses, campaign.Status) && !campaign.TargetDate.Before(today) {
			return true, nil
		}
	}

	return false, nil
}

type hostStore struct {
	hostRepo.Host
	store *Store
}

func (h *hostStore) GetByID(_ context.Context, id string) (hostModel.Host, error) {
	return h.store.Host(id), nil
}

func (h *hostStore) GetEligible(_ context.Context, includeSpecial bool) ([]hostModel.Host, error) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	frequencies := hostModel.Frequencies(includeSpecial)

	var hosts []hostModel.Host

	for _, host := range h.store.hosts {
		if host.IsRegistered && host.TotalBeds >= 1 && slices.Contains(frequencies, host.CallFrequency) {
			hosts = append(hosts, host)
		}
	}

	sort.Slice(hosts, func(i, j int) bool { return hosts[i].ID < hosts[j].ID })

	return hosts, nil
}

// UpdateTx understands the id filter and the total_beds field, which is all the recorder writes.
func (h *hostStore) UpdateTx(_ context.Context, _ *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	value, ok := filterValue(filter, hostModel.FieldID)
	if !ok {
		return 0, nil
	}

	id, _ := value.(string)

	host, ok := h.store.hosts[id]
	if !ok {
		return 0, nil
	}

	if beds, ok := req[hostModel.FieldTotalBeds].(int); ok {
		host.TotalBeds = beds
	}

	h.store.hosts[id] = host

	return 1, nil
}

type responseStore struct {
	responseRepo.Response
	store *Store
}

func (r *responseStore) Insert(_ context.Context, response responseModel.Response) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.responses = append(r.store.responses, response)

	return nil
}

func (r *responseStore) InsertTx(ctx context.Context, _ *sqlx.Tx, response responseModel.Response) error {
	return r.Insert(ctx, response)
}

func (r *responseStore) GetByCampaign(_ context.Context, campaignID string) ([]responseModel.Response, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var responses []responseModel.Response

	for _, response := range r.store.responses {
		if response.CampaignID == campaignID {
			responses = append(responses, response)
		}
	}

	return responses, nil
}
