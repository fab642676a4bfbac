package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cazehq/bizcon/internal/entity"
	"github.com/cazehq/bizcon/internal/infra/integration/llm"
	"github.com/cazehq/bizcon/internal/infra/metrics"
	"github.com/cazehq/bizcon/internal/infra/queue"
)

// SessionManager owns the per-lead conversation state machine: it decides
// whether to resume or restart, drives one turn at a time, and hands
// terminated transcripts to the classification queue.
type SessionManager struct {
	Leads       LeadRepositoryInterface
	Knowledge   KnowledgeStore
	LLM         LanguageModel
	Transcripts TranscriptStore
	Queue       QueueProducerInterface
	Locks       *KeyedMutex

	mu       sync.Mutex
	sessions map[string]*entity.ConversationSession
}

func NewSessionManager(
	leads LeadRepositoryInterface,
	knowledge KnowledgeStore,
	languageModel LanguageModel,
	transcripts TranscriptStore,
	producer QueueProducerInterface,
	locks *KeyedMutex,
) *SessionManager {
	return &SessionManager{
		Leads:       leads,
		Knowledge:   knowledge,
		LLM:         languageModel,
		Transcripts: transcripts,
		Queue:       producer,
		Locks:       locks,
		sessions:    make(map[string]*entity.ConversationSession),
	}
}

type TurnResult struct {
	Response string `json:"response"`
	Ended    bool   `json:"ended"`
}

// HandleTurn processes one user turn for a lead. An empty message opens the
// conversation: it returns the greeting, or the resume prompt when a prior
// chat summary exists.
func (s *SessionManager) HandleTurn(ctx context.Context, leadID, message string) (*TurnResult, error) {
	lead, err := s.Leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lead %s: %w", leadID, err)
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}

	s.Locks.Lock(leadID)
	defer s.Locks.Unlock(leadID)

	sess := s.session(leadID)

	// The transcript file is the durable source: a fresh in-memory session for
	// a lead mid-conversation (no chat summary yet, since classification only
	// runs at termination) picks up where the stored turns left off.
	if sess.State == entity.SessionNotStarted && lead.ChatSummary == "" {
		s.restore(sess)
	}

	switch sess.State {
	case entity.SessionEnded:
		return nil, ErrSessionEnded

	case entity.SessionNotStarted:
		if lead.ChatSummary != "" {
			sess.State = entity.SessionAwaitingChoice
			if strings.TrimSpace(message) == "" {
				return &TurnResult{Response: resumePrompt(lead.ChatSummary)}, nil
			}
			return s.handleContinuationChoice(ctx, sess, lead, message)
		}

		greeting, err := s.open(ctx, sess, lead)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(message) == "" {
			return &TurnResult{Response: greeting}, nil
		}
		return s.turn(ctx, sess, lead, message)

	case entity.SessionAwaitingChoice:
		if strings.TrimSpace(message) == "" {
			return &TurnResult{Response: resumePrompt(lead.ChatSummary)}, nil
		}
		return s.handleContinuationChoice(ctx, sess, lead, message)

	default: // SessionActive
		if strings.TrimSpace(message) == "" {
			return &TurnResult{Response: lastAssistantReply(sess)}, nil
		}
		return s.turn(ctx, sess, lead, message)
	}
}

// EndSession drops the in-memory session, so a fresh one is created on the
// next turn. Used after classification completes.
func (s *SessionManager) EndSession(leadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, leadID)
}

func (s *SessionManager) session(leadID string) *entity.ConversationSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[leadID]
	if !ok {
		sess = entity.NewConversationSession(leadID)
		s.sessions[leadID] = sess
	}
	return sess
}

// restore seeds a new session from the persisted transcript. The stored turns
// carry no context message; the next turn prepends a fresh one.
func (s *SessionManager) restore(sess *entity.ConversationSession) {
	history, err := s.Transcripts.Load(sess.LeadID)
	if err != nil {
		log.Printf("[session] failed to restore transcript for lead %s: %v", sess.LeadID, err)
		return
	}
	if len(history) == 0 {
		return
	}

	sess.Messages = history
	sess.State = entity.SessionActive
}

// open assembles the context message from the knowledge store seeded with the
// lead's profile, issues one completion, and activates the session with the
// assistant's greeting.
func (s *SessionManager) open(ctx context.Context, sess *entity.ConversationSession, lead *entity.Lead) (string, error) {
	companyContext, err := s.Knowledge.Query(ctx, "company information and user information", 3)
	if err != nil {
		return "", fmt.Errorf("failed to build conversation context: %w", err)
	}

	sess.SetContext(buildContextMessage(companyContext, lead))

	greeting, err := s.complete(ctx, sess, lead)
	if err != nil {
		return "", err
	}

	sess.Append(entity.RoleAI, greeting)
	sess.State = entity.SessionActive
	s.persist(sess)
	return greeting, nil
}

func (s *SessionManager) handleContinuationChoice(ctx context.Context, sess *entity.ConversationSession, lead *entity.Lead, message string) (*TurnResult, error) {
	choice := strings.ToLower(strings.TrimSpace(message))

	switch entity.ContinueChoice(choice) {
	case entity.ChoiceContinue:
		sess.ContinueChoice = entity.ChoiceContinue
		// A single context turn carries the prior summary; SetContext
		// replaces, so a repeated resume never duplicates it.
		sess.SetContext(buildResumeContextMessage(lead.ChatSummary))

		reply, err := s.complete(ctx, sess, lead)
		if err != nil {
			return nil, err
		}
		sess.Append(entity.RoleAI, reply)
		sess.State = entity.SessionActive
		s.persist(sess)
		return &TurnResult{Response: reply}, nil

	case entity.ChoiceStartFresh:
		sess.ContinueChoice = entity.ChoiceStartFresh
		sess.Reset()
		greeting, err := s.open(ctx, sess, lead)
		if err != nil {
			return nil, err
		}
		return &TurnResult{Response: greeting}, nil

	default:
		// Recovered locally: re-prompt without transitioning.
		return &TurnResult{Response: ErrInvalidContinuationChoice.Message}, nil
	}
}

func (s *SessionManager) turn(ctx context.Context, sess *entity.ConversationSession, lead *entity.Lead, message string) (*TurnResult, error) {
	sess.Append(entity.RoleUser, message)

	query := fmt.Sprintf("%s\n%s %s %s", message, lead.Name, lead.Company, lead.Description)
	companyContext, err := s.Knowledge.Query(ctx, query, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh conversation context: %w", err)
	}
	sess.SetContext(buildContextMessage(companyContext, lead))

	reply, err := s.complete(ctx, sess, lead)
	if err != nil {
		return nil, err
	}

	sess.Append(entity.RoleAI, reply)
	s.persist(sess)

	if !containsTerminalPhrase(reply) {
		return &TurnResult{Response: reply}, nil
	}

	sess.State = entity.SessionEnded
	metrics.RecordConversationEnded()

	payload := queue.ClassificationPayload{LeadID: lead.ID, Transcript: sess.Transcript()}
	if err := s.Queue.PublishClassification(ctx, payload); err != nil {
		// The conversation ended either way; the transcript file remains for
		// a manual re-run.
		log.Printf("[session] CRITICAL: conversation ended but classification publish failed for lead %s: %v", lead.ID, err)
	}

	return &TurnResult{Response: reply, Ended: true}, nil
}

// complete issues one Language Model call over the full message sequence. A
// content-policy rejection forces the session to Ended without classification.
func (s *SessionManager) complete(ctx context.Context, sess *entity.ConversationSession, lead *entity.Lead) (string, error) {
	reply, err := s.LLM.Complete(ctx, sess.Messages)
	if err != nil {
		if errors.Is(err, llm.ErrContentFiltered) {
			sess.State = entity.SessionEnded
			s.persist(sess)
			return "", ErrContentPolicyRejection
		}
		return "", fmt.Errorf("language model call failed for lead %s: %w", lead.ID, err)
	}
	return reply, nil
}

func (s *SessionManager) persist(sess *entity.ConversationSession) {
	if err := s.Transcripts.Save(sess.LeadID, sess.Transcript()); err != nil {
		log.Printf("[session] failed to persist transcript for lead %s: %v", sess.LeadID, err)
	}
}

func lastAssistantReply(sess *entity.ConversationSession) string {
	for i := len(sess.Messages) - 1; i >= 0; i-- {
		if sess.Messages[i].Role == entity.RoleAI {
			return sess.Messages[i].Content
		}
	}
	return ""
}
