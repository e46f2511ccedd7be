// Package dispatch runs one conversational turn end to end: load session,
// route, invoke the chosen agent, persist the updated session.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"careline/config"
	"careline/models"
	"careline/services/agents"
	"careline/services/router"
	"careline/services/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service owns the turn lifecycle. Agents never touch the store; all
// session reads and writes happen here, serialized per session ID.
type Service struct {
	store      session.Store
	classifier *router.Classifier
	agents     map[models.AgentLabel]agents.Agent
	greeting   *agents.GreetingAgent
	locks      *keyLock
	logger     *zap.Logger
}

func NewService(store session.Store, classifier *router.Classifier, greeting *agents.GreetingAgent, rest []agents.Agent, logger *zap.Logger) *Service {
	m := map[models.AgentLabel]agents.Agent{
		models.AgentGreeting: greeting,
	}
	for _, a := range rest {
		m[a.Label()] = a
	}
	return &Service{
		store:      store,
		classifier: classifier,
		agents:     m,
		greeting:   greeting,
		locks:      newKeyLock(),
		logger:     logger,
	}
}

// Turn processes one user message. sessionID may be empty, in which case a
// new conversation is started under a generated ID. clientHistory seeds a
// brand-new session only; an existing server-side session always wins.
func (s *Service) Turn(ctx context.Context, sessionID, message string, clientHistory []models.Turn) (result models.TurnResult) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	s.locks.lock(sessionID)
	defer s.locks.unlock(sessionID)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic during turn",
				zap.Any("panic", r), zap.String("session", sessionID))
			result = s.apologyResult(sessionID)
		}
	}()

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error("session load failed", zap.Error(err), zap.String("session", sessionID))
		return s.apologyResult(sessionID)
	}
	if sess == nil {
		sess = models.NewSession(sessionID, clientHistory)
	}

	resp := s.handle(ctx, message, sess)

	sess.Append(message, resp.Message)
	sess.ActiveAgent = resp.Agent
	sess.MergeContext(resp.ContextPatch)
	sess.UpdatedAt = time.Now().UTC()

	if err := s.store.Put(ctx, sess); err != nil {
		// The reply is still good; the next turn just starts from older state.
		s.logger.Error("session save failed", zap.Error(err), zap.String("session", sessionID))
	}

	return models.TurnResult{
		Message:   resp.Message,
		Agent:     resp.Agent,
		SessionID: sessionID,
		Context:   sess.Context,
		Slots:     resp.Slots,
		History:   sess.History,
	}
}

func (s *Service) handle(ctx context.Context, message string, sess *models.Session) models.AgentResponse {
	// The first turn of a conversation always opens with the welcome flow,
	// regardless of what the user led with.
	if len(sess.History) == 0 {
		resp := s.greeting.HandleWelcome(ctx, message, sess)
		if resp.ContextPatch == nil {
			resp.ContextPatch = map[string]any{}
		}
		resp.ContextPatch["greeted"] = true
		return resp
	}

	decision := s.classifier.Classify(ctx, message, sess)

	agent, ok := s.agents[decision.RouteTo]
	if !ok {
		s.logger.Warn("router produced unknown agent label, using fallback",
			zap.String("label", string(decision.RouteTo)), zap.String("session", sess.ID))
		agent = s.agents[models.AgentFallback]
	}

	s.logger.Info("dispatching turn",
		zap.String("session", sess.ID),
		zap.String("agent", string(agent.Label())),
		zap.String("reason", decision.Reason))

	return agent.Handle(ctx, message, sess)
}

func (s *Service) apologyResult(sessionID string) models.TurnResult {
	return models.TurnResult{
		Message: fmt.Sprintf("I apologize, something went wrong on our end. Please try again, or call us at %s for immediate assistance.",
			config.AppConfig.HospitalPhone),
		Agent:     models.AgentFallback,
		SessionID: sessionID,
		Context:   map[string]any{"error": true},
	}
}
