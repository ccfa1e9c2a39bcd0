// Package contractgen derives a contract-document draft from a creator's
// email history via a text-generation backend.
package contractgen

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/wavelaunch/creator-backend/creator/contract"
)

const systemInstruction = "You are a legal contract generator. Generate a professional and formal contract " +
	"based on the email conversations between the agency and the creator. Extract key details like scope of work, " +
	"compensation, and timelines from the conversations."

// Synthesizer runs the Fetch -> Normalize -> Render -> Generate pipeline.
// It is read-only over history: re-running produces a fresh (possibly
// different) document because the generation backend is non-deterministic.
type Synthesizer struct {
	activities contractx.ActivityStore
	generator  contractx.TextGenerator
}

func New(activities contractx.ActivityStore, generator contractx.TextGenerator) (*Synthesizer, error) {
	if activities == nil {
		return nil, errors.New("activity store is required")
	}
	if generator == nil {
		return nil, errors.New("text generator is required")
	}
	return &Synthesizer{activities: activities, generator: generator}, nil
}

// Generate produces the raw contract text for a creator. The output is not
// validated as a complete contract; that is a human-review concern.
func (s *Synthesizer) Generate(ctx context.Context, creatorID uuid.UUID) (string, error) {
	activities, err := s.activities.ListEmailByCreator(ctx, creatorID)
	if err != nil {
		return "", err
	}
	if len(activities) == 0 {
		return "", fmt.Errorf("%w: no email conversations for creator %s", contractx.ErrNotFound, creatorID)
	}

	entries := normalize(activities)
	if len(entries) == 0 {
		return "", fmt.Errorf("%w: no valid email conversations for creator %s", contractx.ErrNotFound, creatorID)
	}

	text, err := s.generator.GenerateText(ctx, systemInstruction, renderPrompt(entries))
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrGeneration, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: backend returned an empty document", contractx.ErrGeneration)
	}

	return text, nil
}

// normalize projects email activities into conversation entries. Records
// with missing metadata or a blank body are skipped, not fatal.
func normalize(activities []contractx.Activity) []contractx.ConversationEntry {
	entries := make([]contractx.ConversationEntry, 0, len(activities))
	for _, a := range activities {
		if a.Metadata == nil {
			log.Warn().Str("activity_id", a.ID.String()).Msg("skipping activity without metadata")
			continue
		}
		body := a.Body()
		if strings.TrimSpace(body) == "" {
			log.Warn().Str("activity_id", a.ID.String()).Msg("skipping activity without body")
			continue
		}
		to, _ := a.Metadata["to"].(string)
		entries = append(entries, contractx.ConversationEntry{
			Timestamp: a.CreatedAt,
			To:        to,
			Body:      body,
			Status:    a.Status,
		})
	}
	return entries
}

// renderPrompt turns entries into one chronological narrative block inside
// the contract-generation scaffold. Sort is stable so entries with equal
// timestamps keep their original order.
func renderPrompt(entries []contractx.ConversationEntry) string {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})

	paragraphs := make([]string, 0, len(entries))
	for _, e := range entries {
		paragraphs = append(paragraphs, fmt.Sprintf(
			"Timestamp: %s\nTo: %s\nStatus: %s\nMessage: %s",
			e.Timestamp.Format(time.RFC3339), e.To, e.Status, e.Body,
		))
	}

	return fmt.Sprintf(`Based on the following email conversations between the agency and the creator, generate a formal contract.

CONVERSATION HISTORY:
%s

Please generate a formal contract that includes:
1. Introduction and parties involved (extract names and roles from the conversations)
2. Scope of work (based on discussed deliverables and expectations)
3. Compensation details (extract any mentioned payments, rates, or financial terms)
4. Timeline and deliverables (based on discussed dates and milestones)
5. Terms and conditions (standard terms plus any specific terms mentioned)
6. Termination clauses
7. Signatures section

Note: Ensure all key details mentioned in the conversations are reflected in the appropriate sections of the contract.`,
		strings.Join(paragraphs, "\n\n"))
}
