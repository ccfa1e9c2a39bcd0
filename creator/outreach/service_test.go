package outreach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"

	contractx "github.com/wavelaunch/creator-backend/creator/contract"
	recorderx "github.com/wavelaunch/creator-backend/creator/recorder"
)

type fakeCreatorStore struct {
	creators map[uuid.UUID]contractx.Creator
}

func (f *fakeCreatorStore) Create(ctx context.Context, nc contractx.NewCreator) (*contractx.Creator, error) {
	if err := nc.Validate(); err != nil {
		return nil, err
	}
	c := contractx.Creator{
		ID:          uuid.New(),
		Name:        nc.Name,
		Handle:      nc.Handle,
		Email:       nc.Email,
		PhoneNumber: nc.PhoneNumber,
	}
	if f.creators == nil {
		f.creators = map[uuid.UUID]contractx.Creator{}
	}
	f.creators[c.ID] = c
	return &c, nil
}

func (f *fakeCreatorStore) Get(ctx context.Context, id uuid.UUID) (*contractx.Creator, error) {
	c, ok := f.creators[id]
	if !ok {
		return nil, fmt.Errorf("%w: creator %s", contractx.ErrNotFound, id)
	}
	return &c, nil
}

func (f *fakeCreatorStore) List(ctx context.Context) ([]contractx.Creator, error) {
	out := make([]contractx.Creator, 0, len(f.creators))
	for _, c := range f.creators {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCreatorStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*contractx.Creator, error) {
	c, ok := f.creators[id]
	if !ok {
		return nil, fmt.Errorf("%w: creator %s", contractx.ErrNotFound, id)
	}
	c.Status = status
	f.creators[id] = c
	return &c, nil
}

type fakeActivityStore struct {
	insertErr error
	inserted  []contractx.Activity
}

func (f *fakeActivityStore) Insert(ctx context.Context, a *contractx.Activity) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, *a)
	return nil
}

func (f *fakeActivityStore) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]contractx.Activity, error) {
	return append([]contractx.Activity(nil), f.inserted...), nil
}

func (f *fakeActivityStore) ListEmailByCreator(ctx context.Context, creatorID uuid.UUID) ([]contractx.Activity, error) {
	return nil, nil
}

type fakeCallProvider struct {
	result     *contractx.CallResult
	err        error
	placements []contractx.CallPlacement
	analyses   []string
}

func (f *fakeCallProvider) Place(ctx context.Context, p contractx.CallPlacement) (*contractx.CallResult, error) {
	f.placements = append(f.placements, p)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &contractx.CallResult{CallID: "call-1"}, nil
}

func (f *fakeCallProvider) Analyze(ctx context.Context, callID string) (map[string]any, error) {
	f.analyses = append(f.analyses, callID)
	if f.err != nil {
		return nil, f.err
	}
	return map[string]any{"summary": "went well"}, nil
}

func (f *fakeCallProvider) Status(ctx context.Context, callID string) (string, error) {
	return "completed", nil
}

type fakeEmailProvider struct {
	err        error
	deliveries []contractx.EmailDelivery
}

func (f *fakeEmailProvider) Send(ctx context.Context, d contractx.EmailDelivery) (*contractx.EmailResult, error) {
	f.deliveries = append(f.deliveries, d)
	if f.err != nil {
		return nil, f.err
	}
	return &contractx.EmailResult{MessageID: "msg-1", From: "agency@wavelaunch.io"}, nil
}

func newTestService(
	t *testing.T,
	creators *fakeCreatorStore,
	activities *fakeActivityStore,
	calls *fakeCallProvider,
	emails *fakeEmailProvider,
) *Service {
	t.Helper()
	rec, err := recorderx.New(activities)
	if err != nil {
		t.Fatalf("recorder.New() error = %v", err)
	}
	svc, err := New(creators, rec, calls, emails)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return svc
}

func seedCreator(store *fakeCreatorStore, c contractx.Creator) uuid.UUID {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if store.creators == nil {
		store.creators = map[uuid.UUID]contractx.Creator{}
	}
	store.creators[c.ID] = c
	return c.ID
}

func TestCallWithoutPhoneNumber(t *testing.T) {
	t.Parallel()

	creators := &fakeCreatorStore{}
	id := seedCreator(creators, contractx.Creator{Name: "Ana", Handle: "ana_v", Email: "ana@x.com"})
	calls := &fakeCallProvider{}

	svc := newTestService(t, creators, &fakeActivityStore{}, calls, &fakeEmailProvider{})
	_, err := svc.Call(context.Background(), id, contractx.CallRequest{Prompt: "negotiate"})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(calls.placements) != 0 {
		t.Fatalf("provider must not be contacted, got %d placements", len(calls.placements))
	}
}

func TestCallAppliesDefaultsAndRecords(t *testing.T) {
	t.Parallel()

	creators := &fakeCreatorStore{}
	id := seedCreator(creators, contractx.Creator{Name: "Ana", Handle: "ana_v", PhoneNumber: "+15551234567"})
	activities := &fakeActivityStore{}
	calls := &fakeCallProvider{}

	svc := newTestService(t, creators, activities, calls, &fakeEmailProvider{})
	result, err := svc.Call(context.Background(), id, contractx.CallRequest{Prompt: "negotiate sponsorship"})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if result.CallID != "call-1" {
		t.Fatalf("unexpected call id %q", result.CallID)
	}

	if len(calls.placements) != 1 {
		t.Fatalf("expected one placement, got %d", len(calls.placements))
	}
	p := calls.placements[0]
	if p.Language != "en" || p.Voice != "nat" || p.MaxDuration != 12 {
		t.Fatalf("defaults not applied: %+v", p)
	}
	if p.PhoneNumber != "+15551234567" {
		t.Fatalf("unexpected phone number %q", p.PhoneNumber)
	}

	if len(activities.inserted) != 1 {
		t.Fatalf("expected one activity record, got %d", len(activities.inserted))
	}
	a := activities.inserted[0]
	if a.ActivityType != contractx.ActivityCallMade {
		t.Fatalf("unexpected activity type %q", a.ActivityType)
	}
	if !strings.Contains(a.Body(), "ana_v") {
		t.Fatalf("activity body missing handle: %q", a.Body())
	}
}

func TestCallRecordTruncatesPromptOnRuneBoundary(t *testing.T) {
	t.Parallel()

	creators := &fakeCreatorStore{}
	id := seedCreator(creators, contractx.Creator{Name: "Ana", Handle: "ana_v", PhoneNumber: "+15551234567"})
	activities := &fakeActivityStore{}

	prompt := strings.Repeat("é", 150)
	svc := newTestService(t, creators, activities, &fakeCallProvider{}, &fakeEmailProvider{})
	if _, err := svc.Call(context.Background(), id, contractx.CallRequest{Prompt: prompt}); err != nil {
		t.Fatalf("Call() error = %v", err)
	}

	if len(activities.inserted) != 1 {
		t.Fatalf("expected one activity record, got %d", len(activities.inserted))
	}
	body := activities.inserted[0].Body()
	if !utf8.ValidString(body) {
		t.Fatalf("recorded body contains invalid UTF-8: %q", body)
	}
	if !strings.Contains(body, strings.Repeat("é", 100)+"...") {
		t.Fatalf("prompt not truncated at 100 runes: %q", body)
	}
	if strings.Contains(body, strings.Repeat("é", 101)) {
		t.Fatalf("prompt exceeds the 100-rune cap: %q", body)
	}
}

func TestCallSucceedsWhenRecordFails(t *testing.T) {
	t.Parallel()

	creators := &fakeCreatorStore{}
	id := seedCreator(creators, contractx.Creator{Name: "Ana", Handle: "ana_v", PhoneNumber: "+15551234567"})
	activities := &fakeActivityStore{
		insertErr: fmt.Errorf("%w: connection refused", contractx.ErrStorage),
	}

	svc := newTestService(t, creators, activities, &fakeCallProvider{}, &fakeEmailProvider{})
	result, err := svc.Call(context.Background(), id, contractx.CallRequest{Prompt: "negotiate"})
	if err != nil {
		t.Fatalf("a completed call must not fail on a logging error, got %v", err)
	}
	if result == nil || result.CallID == "" {
		t.Fatalf("expected the provider result, got %+v", result)
	}
}

func TestCallProviderErrorsPropagate(t *testing.T) {
	t.Parallel()

	creators := &fakeCreatorStore{}
	id := seedCreator(creators, contractx.Creator{Name: "Ana", Handle: "ana_v", PhoneNumber: "+15551234567"})
	activities := &fakeActivityStore{}
	calls := &fakeCallProvider{err: fmt.Errorf("%w: slow down", contractx.ErrRateLimited)}

	svc := newTestService(t, creators, activities, calls, &fakeEmailProvider{})
	_, err := svc.Call(context.Background(), id, contractx.CallRequest{Prompt: "negotiate"})
	if !errors.Is(err, contractx.ErrRateLimited) {
		t.Fatalf("expected rate-limit error, got %v", err)
	}
	if len(activities.inserted) != 0 {
		t.Fatalf("failed call must not be recorded, got %d records", len(activities.inserted))
	}
}

func TestEmailWithoutAddress(t *testing.T) {
	t.Parallel()

	creators := &fakeCreatorStore{}
	id := seedCreator(creators, contractx.Creator{Name: "Ana", Handle: "ana_v", PhoneNumber: "+15551234567"})
	emails := &fakeEmailProvider{}

	svc := newTestService(t, creators, &fakeActivityStore{}, &fakeCallProvider{}, emails)
	_, err := svc.Email(context.Background(), id, contractx.EmailRequest{Subject: "Offer", Body: "Terms inside"})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(emails.deliveries) != 0 {
		t.Fatalf("provider must not be contacted, got %d deliveries", len(emails.deliveries))
	}
}

func TestEmailSendsAndRecords(t *testing.T) {
	t.Parallel()

	creators := &fakeCreatorStore{}
	id := seedCreator(creators, contractx.Creator{Name: "Ana", Handle: "ana_v", Email: "ana@x.com"})
	activities := &fakeActivityStore{}
	emails := &fakeEmailProvider{}

	svc := newTestService(t, creators, activities, &fakeCallProvider{}, emails)
	result, err := svc.Email(context.Background(), id, contractx.EmailRequest{
		Subject: "Sponsorship offer",
		Body:    "Quote attached",
		CC:      "manager@x.com",
	})
	if err != nil {
		t.Fatalf("Email() error = %v", err)
	}
	if result.MessageID != "msg-1" {
		t.Fatalf("unexpected message id %q", result.MessageID)
	}

	if len(emails.deliveries) != 1 {
		t.Fatalf("expected one delivery, got %d", len(emails.deliveries))
	}
	if emails.deliveries[0].To != "ana@x.com" {
		t.Fatalf("unexpected recipient %q", emails.deliveries[0].To)
	}

	if len(activities.inserted) != 1 {
		t.Fatalf("expected one activity record, got %d", len(activities.inserted))
	}
	if activities.inserted[0].ActivityType != contractx.ActivityEmailSent {
		t.Fatalf("unexpected activity type %q", activities.inserted[0].ActivityType)
	}
}

func TestCreateCreatorRecordsCreation(t *testing.T) {
	t.Parallel()

	activities := &fakeActivityStore{}
	svc := newTestService(t, &fakeCreatorStore{}, activities, &fakeCallProvider{}, &fakeEmailProvider{})

	creator, err := svc.CreateCreator(context.Background(), contractx.NewCreator{
		Name:   "Ana",
		Handle: "ana_v",
		Email:  "ana@x.com",
	})
	if err != nil {
		t.Fatalf("CreateCreator() error = %v", err)
	}

	if len(activities.inserted) != 1 {
		t.Fatalf("expected one activity record, got %d", len(activities.inserted))
	}
	a := activities.inserted[0]
	if a.ActivityType != contractx.ActivityCreatorCreated {
		t.Fatalf("unexpected activity type %q", a.ActivityType)
	}
	if a.CreatorID != creator.ID {
		t.Fatalf("activity bound to %s, want %s", a.CreatorID, creator.ID)
	}
}

func TestUpdateStatusRecordsChange(t *testing.T) {
	t.Parallel()

	creators := &fakeCreatorStore{}
	id := seedCreator(creators, contractx.Creator{Name: "Ana", Handle: "ana_v"})
	activities := &fakeActivityStore{}

	svc := newTestService(t, creators, activities, &fakeCallProvider{}, &fakeEmailProvider{})
	creator, err := svc.UpdateStatus(context.Background(), id, "negotiating")
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if creator.Status != "negotiating" {
		t.Fatalf("unexpected status %q", creator.Status)
	}

	if len(activities.inserted) != 1 {
		t.Fatalf("expected one activity record, got %d", len(activities.inserted))
	}
	if activities.inserted[0].ActivityType != contractx.ActivityStatusChanged {
		t.Fatalf("unexpected activity type %q", activities.inserted[0].ActivityType)
	}

	if _, err := svc.UpdateStatus(context.Background(), id, "   "); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected validation error for blank status, got %v", err)
	}
}

func TestAnalyzeCallRecordsAnalysis(t *testing.T) {
	t.Parallel()

	creators := &fakeCreatorStore{}
	id := seedCreator(creators, contractx.Creator{Name: "Ana", Handle: "ana_v"})
	activities := &fakeActivityStore{}
	calls := &fakeCallProvider{}

	svc := newTestService(t, creators, activities, calls, &fakeEmailProvider{})
	analysis, err := svc.AnalyzeCall(context.Background(), id, "call-7")
	if err != nil {
		t.Fatalf("AnalyzeCall() error = %v", err)
	}
	if analysis["summary"] != "went well" {
		t.Fatalf("unexpected analysis %+v", analysis)
	}
	if len(calls.analyses) != 1 || calls.analyses[0] != "call-7" {
		t.Fatalf("unexpected analyze calls %+v", calls.analyses)
	}
	if len(activities.inserted) != 1 || activities.inserted[0].ActivityType != contractx.ActivityCallAnalyzed {
		t.Fatalf("expected one call_analyzed record, got %+v", activities.inserted)
	}
}

func TestUnknownCreator(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &fakeCreatorStore{}, &fakeActivityStore{}, &fakeCallProvider{}, &fakeEmailProvider{})

	_, err := svc.Call(context.Background(), uuid.New(), contractx.CallRequest{Prompt: "hello"})
	if !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
