// Package outreach orchestrates creator-facing actions: calls, emails,
// registration, and status changes, each followed by a timeline record.
package outreach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/wavelaunch/creator-backend/creator/contract"
	recorderx "github.com/wavelaunch/creator-backend/creator/recorder"
)

// Service wires the creator registry, the activity recorder, and the two
// outbound providers. All collaborators are injected once at startup.
type Service struct {
	creators contractx.CreatorStore
	recorder *recorderx.Recorder
	calls    contractx.CallProvider
	emails   contractx.EmailProvider
}

func New(
	creators contractx.CreatorStore,
	rec *recorderx.Recorder,
	calls contractx.CallProvider,
	emails contractx.EmailProvider,
) (*Service, error) {
	if creators == nil {
		return nil, errors.New("creator store is required")
	}
	if rec == nil {
		return nil, errors.New("recorder is required")
	}
	if calls == nil {
		return nil, errors.New("call provider is required")
	}
	if emails == nil {
		return nil, errors.New("email provider is required")
	}
	return &Service{
		creators: creators,
		recorder: rec,
		calls:    calls,
		emails:   emails,
	}, nil
}

func (s *Service) ListCreators(ctx context.Context) ([]contractx.Creator, error) {
	return s.creators.List(ctx)
}

func (s *Service) GetCreator(ctx context.Context, id uuid.UUID) (*contractx.Creator, error) {
	return s.creators.Get(ctx, id)
}

// CreateCreator registers a creator and records the creator_created event.
// The registration write is primary, so a failed activity write here still
// fails the request.
func (s *Service) CreateCreator(ctx context.Context, nc contractx.NewCreator) (*contractx.Creator, error) {
	creator, err := s.creators.Create(ctx, nc)
	if err != nil {
		return nil, err
	}

	_, err = s.recorder.Record(ctx, creator.ID, contractx.ActivityCreatorCreated, "", map[string]any{
		"body": fmt.Sprintf("Creator %s (@%s) created in system", creator.Name, creator.Handle),
	})
	if err != nil {
		return nil, err
	}

	return creator, nil
}

// UpdateStatus changes the creator's lifecycle label and records the
// status_changed event.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*contractx.Creator, error) {
	if strings.TrimSpace(status) == "" {
		return nil, fmt.Errorf("%w: status is required", contractx.ErrValidation)
	}

	creator, err := s.creators.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	_, err = s.recorder.Record(ctx, id, contractx.ActivityStatusChanged, "", map[string]any{
		"body": fmt.Sprintf("Creator status changed to %s", status),
	})
	if err != nil {
		return nil, err
	}

	return creator, nil
}

// LogActivity appends a caller-supplied event to the timeline.
func (s *Service) LogActivity(
	ctx context.Context,
	creatorID uuid.UUID,
	activityType contractx.ActivityType,
	body string,
	status string,
	at time.Time,
) (*contractx.Activity, error) {
	return s.recorder.RecordAt(ctx, creatorID, activityType, status, map[string]any{"body": body}, at)
}

// Call places an automated call to the creator. Missing phone number fails
// with a validation error before the provider is contacted. Once the
// provider accepted the call, a failed activity write is logged and the
// request still succeeds: the real-world action already happened.
func (s *Service) Call(ctx context.Context, creatorID uuid.UUID, req contractx.CallRequest) (*contractx.CallResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("%w: call prompt is required", contractx.ErrValidation)
	}

	creator, err := s.creators.Get(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(creator.PhoneNumber) == "" {
		return nil, fmt.Errorf("%w: creator has no phone number", contractx.ErrValidation)
	}

	req = req.WithDefaults()
	result, err := s.calls.Place(ctx, contractx.CallPlacement{
		PhoneNumber: creator.PhoneNumber,
		Name:        creator.Name,
		Handle:      creator.Handle,
		Prompt:      req.Prompt,
		Language:    req.Language,
		Voice:       req.Voice,
		MaxDuration: req.MaxDuration,
		CreatorID:   creatorID,
	})
	if err != nil {
		return nil, err
	}

	s.recordAfterAction(ctx, creatorID, contractx.ActivityCallMade, fmt.Sprintf(
		"Automated call initiated to %s (@%s):\n- Language: %s\n- Voice: %s\n- Duration: %d minutes\n- Prompt: %s",
		creator.Name, creator.Handle, req.Language, req.Voice, req.MaxDuration, truncate(req.Prompt, 100),
	))

	return result, nil
}

// Email sends an email to the creator. Missing email address fails with a
// validation error before the provider is contacted.
func (s *Service) Email(ctx context.Context, creatorID uuid.UUID, req contractx.EmailRequest) (*contractx.EmailResult, error) {
	if strings.TrimSpace(req.Subject) == "" {
		return nil, fmt.Errorf("%w: email subject is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, fmt.Errorf("%w: email body is required", contractx.ErrValidation)
	}

	creator, err := s.creators.Get(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(creator.Email) == "" {
		return nil, fmt.Errorf("%w: creator has no email address", contractx.ErrValidation)
	}

	result, err := s.emails.Send(ctx, contractx.EmailDelivery{
		To:      creator.Email,
		From:    req.FromEmail,
		Subject: req.Subject,
		Body:    req.Body,
		CC:      req.CC,
		BCC:     req.BCC,
	})
	if err != nil {
		return nil, err
	}

	s.recordAfterAction(ctx, creatorID, contractx.ActivityEmailSent, fmt.Sprintf(
		"Email sent to %s (@%s):\nSubject: %s\nTo: %s\nFrom: %s\nContent: %s",
		creator.Name, creator.Handle, req.Subject, creator.Email, result.From, truncate(req.Body, 500),
	))

	return result, nil
}

// AnalyzeCall runs the provider's post-call analysis and records the
// call_analyzed event.
func (s *Service) AnalyzeCall(ctx context.Context, creatorID uuid.UUID, callID string) (map[string]any, error) {
	if strings.TrimSpace(callID) == "" {
		return nil, fmt.Errorf("%w: call id is required", contractx.ErrValidation)
	}

	if _, err := s.creators.Get(ctx, creatorID); err != nil {
		return nil, err
	}

	analysis, err := s.calls.Analyze(ctx, callID)
	if err != nil {
		return nil, err
	}

	s.recordAfterAction(ctx, creatorID, contractx.ActivityCallAnalyzed, fmt.Sprintf(
		"Call %s analyzed", callID,
	))

	return analysis, nil
}

// recordAfterAction logs the activity for an already-completed external
// action. A storage failure here must not turn the completed action into a
// user-visible error, so it is only logged.
func (s *Service) recordAfterAction(ctx context.Context, creatorID uuid.UUID, activityType contractx.ActivityType, body string) {
	_, err := s.recorder.Record(ctx, creatorID, activityType, "", map[string]any{"body": body})
	if err != nil {
		log.Warn().
			Err(err).
			Str("creator_id", creatorID.String()).
			Str("activity_type", string(activityType)).
			Msg("action succeeded but activity record failed")
	}
}

// truncate shortens s to at most n runes. Cutting on runes keeps a
// multibyte character at the boundary from leaving invalid UTF-8 in the
// recorded body.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
