package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"yatra/internal/domain"
	"yatra/internal/history"
	"yatra/internal/voice"
)

// Farewell is the reply to an exit phrase.
const Farewell = "Goodbye! Have a safe journey!"

var exitPhrases = map[string]struct{}{"exit": {}, "quit": {}, "bye": {}}

// IsExit reports whether s ends the conversation.
func IsExit(s string) bool {
	_, ok := exitPhrases[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Session is one user's profile and conversation. It is never shared
// between users.
type Session struct {
	ID string

	planner      *Planner
	conversation *Conversation
	speaker      voice.Speaker
	history      *history.History

	mu      sync.Mutex
	profile *domain.UserProfile
}

// NewSession starts a session over shared pipelines. A nil speaker is silent.
func NewSession(planner *Planner, conversation *Conversation, speaker voice.Speaker, window int) *Session {
	if speaker == nil {
		speaker = voice.Nop{}
	}
	return &Session{
		ID:           uuid.NewString(),
		planner:      planner,
		conversation: conversation,
		speaker:      speaker,
		history:      history.New(window),
	}
}

// SetProfile stores the submitted profile.
func (s *Session) SetProfile(p domain.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &p
}

// Profile returns the submitted profile, if any.
func (s *Session) Profile() (domain.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return domain.UserProfile{}, false
	}
	return *s.profile, true
}

// Plan generates a tour plan for the stored profile.
func (s *Session) Plan(ctx context.Context) domain.PlanResult {
	p, ok := s.Profile()
	if !ok {
		return domain.PlanResult{FinalText: "Error generating plan: " + domain.ErrInvalidProfile.Error() + ": no profile submitted"}
	}
	return s.planner.GenerateTourPlan(ctx, p)
}

// Ask answers one chat message. Exit phrases get the farewell without
// reaching the pipeline and are not recorded; done is then true.
func (s *Session) Ask(ctx context.Context, message string) (reply string, done bool) {
	if IsExit(message) {
		return Farewell, true
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", false
	}
	reply = s.conversation.Respond(ctx, message, s.history.Window())
	s.history.Append(domain.RoleUser, message)
	s.history.Append(domain.RoleAssistant, reply)
	return reply, false
}

// Speak reads text aloud; failures are only logged by the speaker.
func (s *Session) Speak(ctx context.Context, text string) {
	_ = s.speaker.Speak(ctx, text)
}

// History returns the full transcript.
func (s *Session) History() []domain.Turn { return s.history.Transcript() }

// Window returns the turns eligible for generation context.
func (s *Session) Window() []domain.Turn { return s.history.Window() }
