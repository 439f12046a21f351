// Package onboarding runs the conversational onboarding flow: each user turn
// goes to the model, profile data is pulled out of the reply, and the
// per-user topic state machine advances on completion markers.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/infrastructure/logger"
	"github.com/gdugdh24/mutual-backend/internal/infrastructure/userlock"
	"github.com/gdugdh24/mutual-backend/internal/markers"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MaxMessageRunes     = 2000
	DefaultHistoryLimit = 100
	MaxHistoryLimit     = 500
)

// Completer produces the model's reply to a conversation whose last message
// is from the user.
type Completer interface {
	Complete(ctx context.Context, system string, history []*domain.ConversationMessage) (string, error)
}

type Config struct {
	LLMTimeout  time.Duration
	MaxHistory  int
	TurnLockTTL time.Duration
}

type OnboardingUseCase struct {
	conversations repository.ConversationRepository
	profiles      repository.ProfileRepository
	llm           Completer
	locker        userlock.Locker
	logger        *zap.Logger
	cfg           Config
}

func NewOnboardingUseCase(
	conversations repository.ConversationRepository,
	profiles repository.ProfileRepository,
	llm Completer,
	locker userlock.Locker,
	logger *zap.Logger,
	cfg Config,
) *OnboardingUseCase {
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 30 * time.Second
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 200
	}
	if cfg.TurnLockTTL <= 0 {
		cfg.TurnLockTTL = cfg.LLMTimeout + 30*time.Second
	}
	return &OnboardingUseCase{
		conversations: conversations,
		profiles:      profiles,
		llm:           llm,
		locker:        locker,
		logger:        logger,
		cfg:           cfg,
	}
}

type TurnResult struct {
	Reply            string                  `json:"reply"`
	CurrentTopic     string                  `json:"current_topic"`
	OnboardingStatus domain.OnboardingStatus `json:"onboarding_status"`
}

type Status struct {
	CurrentTopic         string                  `json:"current_topic"`
	TopicsCompleted      []string                `json:"topics_completed"`
	OnboardingStatus     domain.OnboardingStatus `json:"onboarding_status"`
	ProfileCompleteness  float64                 `json:"profile_completeness"`
	ProfileSetupComplete bool                    `json:"profile_setup_complete"`
}

// ProcessMessage runs one onboarding turn for user. The user's message is
// kept even if the model call fails; everything the reply changes is
// committed together.
func (uc *OnboardingUseCase) ProcessMessage(ctx context.Context, user *domain.User, message string) (*TurnResult, error) {
	if !user.ProfileSetupComplete {
		return nil, domain.ErrProfileSetupRequired
	}

	unlock, ok, err := uc.locker.TryLock(ctx, "onboarding:"+user.ID.String(), uc.cfg.TurnLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire turn lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrTurnInProgress
	}
	defer unlock()

	state, err := uc.conversations.GetOrCreateState(ctx, user.ID, FirstTopic())
	if err != nil {
		return nil, fmt.Errorf("load conversation state: %w", err)
	}
	if state.IsCompleted() {
		return nil, domain.ErrOnboardingCompleted
	}

	text := markers.SanitizeUserInput(message)
	if text == "" || utf8.RuneCountInString(text) > MaxMessageRunes {
		return nil, domain.ErrInvalidInput
	}

	topic := state.CurrentTopic
	userMsg := &domain.ConversationMessage{
		ID:      uuid.New(),
		UserID:  user.ID,
		Role:    domain.RoleUser,
		Content: text,
		Topic:   &topic,
	}
	if err := uc.conversations.AddMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	history, err := uc.conversations.GetRecentMessages(ctx, user.ID, uc.cfg.MaxHistory)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	profile, err := uc.profiles.GetByUserID(ctx, user.ID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		profile = domain.NewProfile(user.ID)
	} else if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	raw, err := uc.complete(ctx, BuildSystemPrompt(topic, user, profile), history)
	if err != nil {
		uc.logger.Error("onboarding completion failed",
			zap.String("user_id", user.ID.String()),
			zap.String("topic", topic),
			zap.Error(err),
		)
		return nil, domain.ErrLLMUnavailable
	}

	extraction := markers.Extract(raw)
	for _, skipped := range extraction.Skipped {
		uc.logger.Warn("dropped malformed profile update",
			zap.String("user_id", user.ID.String()),
			zap.Error(skipped),
		)
	}
	profileDirty := ApplyProfileUpdates(profile, extraction.Updates)

	advance(state, raw)

	reply := &domain.ConversationMessage{
		ID:      uuid.New(),
		UserID:  user.ID,
		Role:    domain.RoleAssistant,
		Content: markers.CleanResponse(raw),
		Topic:   &topic,
	}

	turn := repository.Turn{State: state, Reply: reply}
	if profileDirty {
		turn.Profile = profile
	}
	if err := uc.conversations.CommitTurn(ctx, turn); err != nil {
		return nil, fmt.Errorf("commit turn: %w", err)
	}

	uc.logger.Debug("onboarding turn processed",
		zap.String("user_id", user.ID.String()),
		zap.String("topic", topic),
		zap.String("next_topic", state.CurrentTopic),
		zap.Bool("profile_updated", profileDirty),
		zap.String("reply", logger.Truncate(reply.Content, 80)),
	)

	return &TurnResult{
		Reply:            reply.Content,
		CurrentTopic:     state.CurrentTopic,
		OnboardingStatus: state.OnboardingStatus,
	}, nil
}

func (uc *OnboardingUseCase) complete(ctx context.Context, system string, history []*domain.ConversationMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.LLMTimeout)
	defer cancel()

	raw, err := uc.llm.Complete(ctx, system, history)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(raw) == "" {
		return "", errors.New("empty completion")
	}
	return raw, nil
}

// advance moves the state machine on the markers in a raw reply. Completion
// of a topic is recorded once; status only ever moves to completed.
func advance(state *domain.ConversationState, raw string) {
	topicDone := markers.HasTopicComplete(raw)
	onboardingDone := markers.HasOnboardingComplete(raw)

	if topicDone || onboardingDone {
		state.MarkTopicCompleted(state.CurrentTopic)
		state.CurrentTopic = NextTopic(state.CurrentTopic)
	}
	if onboardingDone {
		state.OnboardingStatus = domain.OnboardingCompleted
	}
}

func (uc *OnboardingUseCase) GetStatus(ctx context.Context, user *domain.User) (*Status, error) {
	state, err := uc.conversations.GetOrCreateState(ctx, user.ID, FirstTopic())
	if err != nil {
		return nil, fmt.Errorf("load conversation state: %w", err)
	}

	completeness := 0.0
	profile, err := uc.profiles.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		completeness = profile.ProfileCompleteness
	case !errors.Is(err, domain.ErrProfileNotFound):
		return nil, fmt.Errorf("load profile: %w", err)
	}

	topics := []string(state.TopicsCompleted)
	if topics == nil {
		topics = []string{}
	}
	return &Status{
		CurrentTopic:         state.CurrentTopic,
		TopicsCompleted:      topics,
		OnboardingStatus:     state.OnboardingStatus,
		ProfileCompleteness:  completeness,
		ProfileSetupComplete: user.ProfileSetupComplete,
	}, nil
}

func (uc *OnboardingUseCase) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.ConversationMessage, error) {
	if limit < 1 || limit > MaxHistoryLimit || offset < 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.conversations.GetMessages(ctx, userID, limit, offset)
}

// Intro returns the fixed opening lines shown before the first turn.
func (uc *OnboardingUseCase) Intro(user *domain.User) []string {
	return []string{
		"Hey, I'm Mutual. Just so you know, I'm an AI, not a real person. I'm here to get to know the real you, " +
			"not the dating profile version. Everything here stays between us unless you choose otherwise. " +
			"No wrong answers, and the more real you are with me, the easier it is for me to find someone you'll click with.",
		fmt.Sprintf("So %s, tell me some things you like. Literally anything: hobbies, TV shows, food, places, "+
			"something weird, doesn't matter. Just whatever comes to mind.", user.FirstName()),
	}
}
