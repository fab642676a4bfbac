package usecase

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"text/template"
	"time"

	"github.com/cazehq/bizcon/internal/entity"
	"github.com/cazehq/bizcon/internal/infra/integration/calendar"
	"github.com/cazehq/bizcon/internal/infra/metrics"
)

const (
	availabilityWindow = 7 * 24 * time.Hour
	slotDuration       = time.Hour
)

// ProposeMeetingUseCase runs the draft half of the orchestration pipeline:
// product -> owner -> slot -> event -> draft. Strictly sequential, each step
// with one failure mode; a failure short-circuits the rest. Dispatch is a
// separate, human-gated use case.
type ProposeMeetingUseCase struct {
	Leads     LeadRepositoryInterface
	Knowledge KnowledgeStore
	LLM       LanguageModel
	Calendar  CalendarService
	Owners    OwnerResolver
	Locks     *KeyedMutex

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewProposeMeetingUseCase(
	leads LeadRepositoryInterface,
	knowledge KnowledgeStore,
	languageModel LanguageModel,
	cal CalendarService,
	owners OwnerResolver,
	locks *KeyedMutex,
) *ProposeMeetingUseCase {
	return &ProposeMeetingUseCase{
		Leads:     leads,
		Knowledge: knowledge,
		LLM:       languageModel,
		Calendar:  cal,
		Owners:    owners,
		Locks:     locks,
		Now:       time.Now,
	}
}

func (uc *ProposeMeetingUseCase) Execute(ctx context.Context, leadID string) (*entity.MeetingProposal, error) {
	uc.Locks.Lock(leadID)
	defer uc.Locks.Unlock(leadID)

	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lead %s: %w", leadID, err)
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}

	return uc.draft(ctx, lead)
}

// draft runs steps 1-6 for an already-loaded lead. The caller holds the
// per-lead lock.
func (uc *ProposeMeetingUseCase) draft(ctx context.Context, lead *entity.Lead) (*entity.MeetingProposal, error) {
	// Step 1: product extraction from the company corpus.
	products, err := uc.extractProducts(ctx)
	if err != nil {
		return nil, err
	}

	// Step 2: take the first extracted product. No matching against the
	// lead's expressed interest yet.
	product := products[0]

	// Step 3: responsible person, falling back down the resolver chain.
	owner, err := uc.Owners.Resolve(ctx, product)
	if err != nil || owner == nil {
		// The chain ends in a static resolver, so this is belt and braces.
		owner = &entity.Owner{Name: "Default Owner", Email: "default-owner@yourcompany.com"}
	}

	// Step 4: earliest mutually free hour-aligned slot in the window.
	from := uc.Now()
	busy, err := uc.Calendar.FreeBusy(ctx, []string{lead.Email, owner.Email}, from, from.Add(availabilityWindow))
	if err != nil {
		return nil, &TechnicalError{Code: "CalendarUnavailable", Message: fmt.Sprintf("free/busy lookup failed: %v", err)}
	}

	slot, ok := findEarliestFreeSlot(from, availabilityWindow, busy)
	if !ok {
		return nil, ErrNoAvailableSlot
	}

	// Step 5: calendar event with both parties and a conferencing link.
	link, err := uc.Calendar.CreateEvent(ctx, calendar.EventInput{
		Summary:   "Scheduled Meeting: " + product,
		Start:     slot,
		End:       slot.Add(slotDuration),
		Attendees: []string{lead.Email, owner.Email},
	})
	if err != nil || link == "" {
		return nil, ErrMeetingCreationFailed
	}

	// Step 6: compose the draft and persist it, replacing any prior draft
	// wholesale.
	proposal := &entity.MeetingProposal{
		Product:     product,
		Responsible: *owner,
		Slot:        slot,
		MeetingLink: link,
	}

	body, err := renderInviteEmail(lead, proposal)
	if err != nil {
		return nil, fmt.Errorf("failed to render invite body: %w", err)
	}
	proposal.EmailContent = body

	if err := uc.Leads.SaveMeetingDraft(ctx, lead.ID, body, proposal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to persist meeting draft: %w", err)
	}

	metrics.RecordMeetingDraft()
	log.Printf("[meeting] drafted %s meeting for lead %s at %s", product, lead.ID, slot.Format(time.RFC3339))
	return proposal, nil
}

func (uc *ProposeMeetingUseCase) extractProducts(ctx context.Context) ([]string, error) {
	corpus, err := uc.Knowledge.Corpus(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: "KnowledgeStoreUnavailable", Message: fmt.Sprintf("corpus fetch failed: %v", err)}
	}
	if strings.TrimSpace(corpus) == "" {
		return nil, ErrNoProductsFound
	}

	raw, err := uc.LLM.Complete(ctx, []entity.Message{
		{Role: entity.RoleUser, Content: productExtractionPrompt(corpus)},
	})
	if err != nil {
		return nil, fmt.Errorf("product extraction failed: %w", err)
	}

	var products []string
	for _, p := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			products = append(products, trimmed)
		}
	}
	if len(products) == 0 {
		return nil, ErrNoProductsFound
	}
	return products, nil
}

// findEarliestFreeSlot scans hour by hour across the whole window for the
// first 1-hour slot, starting one hour from now, that overlaps no busy
// interval of either party.
func findEarliestFreeSlot(from time.Time, window time.Duration, busy map[string][]calendar.Interval) (time.Time, bool) {
	var all []calendar.Interval
	for _, intervals := range busy {
		all = append(all, intervals...)
	}

	end := from.Add(window)
	for start := from.Truncate(time.Hour).Add(time.Hour); !start.Add(slotDuration).After(end); start = start.Add(time.Hour) {
		if slotIsFree(start, start.Add(slotDuration), all) {
			return start, true
		}
	}
	return time.Time{}, false
}

func slotIsFree(start, end time.Time, busy []calendar.Interval) bool {
	for _, b := range busy {
		if b.Overlaps(start, end) {
			return false
		}
	}
	return true
}

var inviteTemplate = template.Must(template.New("invite").Parse(`Hi {{.LeadName}},

Thank you for your interest in {{.Product}}. I'd love to walk you through it in a short call.

When: {{.Slot}} (UTC)
Who: {{.OwnerName}} ({{.OwnerEmail}})
Join: {{.Link}}

If the time doesn't suit you, just reply to this email and we'll find another.

{{.OwnerName}}`))

func renderInviteEmail(lead *entity.Lead, proposal *entity.MeetingProposal) (string, error) {
	data := struct {
		LeadName   string
		Product    string
		Slot       string
		OwnerName  string
		OwnerEmail string
		Link       string
	}{
		LeadName:   lead.Name,
		Product:    proposal.Product,
		Slot:       proposal.Slot.UTC().Format("Monday, 2 January 2006 at 15:04"),
		OwnerName:  proposal.Responsible.Name,
		OwnerEmail: proposal.Responsible.Email,
		Link:       proposal.MeetingLink,
	}

	var body bytes.Buffer
	if err := inviteTemplate.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}
