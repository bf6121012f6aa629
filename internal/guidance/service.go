package guidance

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"career-backend/internal/bounded"
	"career-backend/internal/catalog"
	"career-backend/internal/generation"
	"career-backend/internal/profiles"
	"career-backend/internal/shared/cache"
	"career-backend/internal/shared/metrics"
	"career-backend/internal/shared/telemetry"
	"career-backend/internal/structured"
)

// Per-endpoint budgets for the generation call.
const (
	RecommendationsTimeout = 8 * time.Second
	ChatTimeout            = 8 * time.Second
	SkillGapTimeout        = 15 * time.Second
	MarketTimeout          = 15 * time.Second

	conversationWriteTimeout = 5 * time.Second
	defaultMarketCacheTTL    = 30 * time.Minute
)

// Generator is the subset of the generation client the services use.
type Generator interface {
	Available() bool
	CurrentModel() string
	Generate(ctx context.Context, prompt string, maxAttempts int) (string, error)
}

// CareerLister supplies catalog careers to the recommendations fallback.
type CareerLister interface {
	ListCareers(ctx context.Context, limit int) ([]catalog.Career, error)
}

type Timeouts struct {
	Recommendations time.Duration
	SkillGap        time.Duration
	Market          time.Duration
	Chat            time.Duration
}

// DefaultTimeouts are the production budgets.
var DefaultTimeouts = Timeouts{
	Recommendations: RecommendationsTimeout,
	SkillGap:        SkillGapTimeout,
	Market:          MarketTimeout,
	Chat:            ChatTimeout,
}

// Outcome reports which path produced a result.
type Outcome struct {
	Kind  bounded.Outcome
	Model string
	Err   error
}

func (o Outcome) UsedFallback() bool {
	return o.Kind != bounded.OutcomeCompleted && o.Kind != bounded.OutcomeCached
}

type Service struct {
	Gen           Generator
	Careers       CareerLister
	Conversations ConversationRepo
	Cache         cache.Cache
	CacheTTL      time.Duration
	Timeouts      Timeouts
	MaxAttempts   int
	Now           func() time.Time
	// Pick chooses the chat fallback template; rand.IntN when nil.
	Pick func(n int) int

	pending sync.WaitGroup
}

func NewService(gen Generator, careers CareerLister, conversations ConversationRepo, c cache.Cache) *Service {
	return &Service{
		Gen:           gen,
		Careers:       careers,
		Conversations: conversations,
		Cache:         c,
		CacheTTL:      defaultMarketCacheTTL,
		Timeouts:      DefaultTimeouts,
		MaxAttempts:   generation.DefaultMaxAttempts,
		Now:           time.Now,
	}
}

func (s *Service) available() bool {
	return s.Gen != nil && s.Gen.Available()
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	return s.Gen.Generate(ctx, prompt, s.MaxAttempts)
}

func (s *Service) outcome(kind bounded.Outcome, err error) Outcome {
	o := Outcome{Kind: kind, Err: err}
	if s.available() {
		o.Model = s.Gen.CurrentModel()
	}
	return o
}

func (s *Service) timestamp() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Recommendations suggests careers for the profile.
func (s *Service) Recommendations(ctx context.Context, pc profiles.Context) ([]Recommendation, Outcome) {
	recs, res := bounded.Resolve(ctx, bounded.Call[[]Recommendation]{
		Operation: "recommendations",
		Timeout:   s.Timeouts.Recommendations,
		Available: s.available(),
		Work: func(ctx context.Context) ([]Recommendation, error) {
			text, err := s.generate(ctx, recommendationsPrompt(pc))
			if err != nil {
				return nil, err
			}
			raw, ok := structured.ExtractList(text)
			if !ok {
				return nil, nil
			}
			return NormalizeRecommendations(raw), nil
		},
		Empty:    func(r []Recommendation) bool { return len(r) == 0 },
		Fallback: func() []Recommendation { return FallbackRecommendations(s.catalogCareers(ctx)) },
	})
	return recs, s.outcome(res.Outcome, res.Err)
}

func (s *Service) catalogCareers(ctx context.Context) []catalog.Career {
	if s.Careers == nil {
		return nil
	}
	careers, err := s.Careers.ListCareers(context.WithoutCancel(ctx), maxRecommendations)
	if err != nil {
		telemetry.Warn("guidance.catalog_unavailable", map[string]any{"error": err})
		return nil
	}
	return careers
}

// SkillGap measures the profile against target.
func (s *Service) SkillGap(ctx context.Context, pc profiles.Context, target string) (SkillGapAnalysis, Outcome) {
	analysis, res := bounded.Resolve(ctx, bounded.Call[SkillGapAnalysis]{
		Operation: "skill_gap",
		Timeout:   s.Timeouts.SkillGap,
		Available: s.available(),
		Work: func(ctx context.Context) (SkillGapAnalysis, error) {
			text, err := s.generate(ctx, skillGapPrompt(pc, target))
			if err != nil {
				return SkillGapAnalysis{}, err
			}
			raw, ok := structured.ExtractMapping(text)
			if !ok {
				return SkillGapAnalysis{}, nil
			}
			return NormalizeSkillGap(raw, pc.Skills, target), nil
		},
		Empty: func(a SkillGapAnalysis) bool {
			return len(a.RequiredSkillsForGoals) == 0 && len(a.SkillsGap) == 0
		},
		Fallback: func() SkillGapAnalysis { return FallbackSkillGap(pc, target) },
		Fields:   map[string]any{"target_career": target},
	})
	return analysis, s.outcome(res.Outcome, res.Err)
}

// MarketAnalysis resolves q and analyzes the job market for it. Model
// results are cached; the cache is only consulted while generation is
// available so that the unavailable path is exactly the fallback.
func (s *Service) MarketAnalysis(ctx context.Context, q MarketQuery) (MarketAnalysis, string, Outcome) {
	q = q.Resolved()
	key := marketCacheKey(q)

	if s.available() && s.Cache != nil {
		if cached, ok := cache.GetJSON[MarketAnalysis](ctx, s.Cache, key); ok {
			metrics.ObserveCache("market", "hit")
			metrics.ObserveGeneration("market", string(bounded.OutcomeCached), 0)
			return cached, q.CareerField, s.outcome(bounded.OutcomeCached, nil)
		}
		metrics.ObserveCache("market", "miss")
	}

	analysis, res := bounded.Resolve(ctx, bounded.Call[MarketAnalysis]{
		Operation: "market",
		Timeout:   s.Timeouts.Market,
		Available: s.available(),
		Work: func(ctx context.Context) (MarketAnalysis, error) {
			text, err := s.generate(ctx, marketPrompt(q))
			if err != nil {
				return MarketAnalysis{}, err
			}
			raw, ok := structured.ExtractMapping(text)
			if !ok || !hasMarketData(raw) {
				return MarketAnalysis{}, nil
			}
			return NormalizeMarketAnalysis(raw, q.CareerField), nil
		},
		Empty:    func(a MarketAnalysis) bool { return a.OverallTrends.Trend == "" },
		Fallback: func() MarketAnalysis { return FallbackMarketAnalysis(q) },
		Fields:   map[string]any{"career_field": q.CareerField},
	})

	if res.Outcome == bounded.OutcomeCompleted && s.Cache != nil {
		ttl := s.CacheTTL
		if ttl <= 0 {
			ttl = defaultMarketCacheTTL
		}
		cache.SetJSON(context.WithoutCancel(ctx), s.Cache, key, analysis, ttl)
	}
	return analysis, q.CareerField, s.outcome(res.Outcome, res.Err)
}

func marketCacheKey(q MarketQuery) string {
	parts := []string{q.CareerField, q.Industry, q.Location, q.ExperienceLevel}
	if pc := q.Profile; pc != nil {
		parts = append(parts, string(pc.Level), strings.Join(pc.Skills, ","), strings.Join(pc.Interests, ","),
			strings.Join(pc.PreferredIndustries, ","))
	}
	return cache.Key("market", parts...)
}

// ChatReply is the result of one chat turn.
type ChatReply struct {
	Response  string `json:"response"`
	Exception string `json:"exception,omitempty"`
}

// Chat answers one message. Successful model replies are stored in the
// background; storage failures are logged and never affect the reply.
func (s *Service) Chat(ctx context.Context, userID string, pc profiles.Context, req ChatRequest) (ChatReply, Outcome) {
	text, res := bounded.Resolve(ctx, bounded.Call[string]{
		Operation: "chat",
		Timeout:   s.Timeouts.Chat,
		Available: s.available(),
		Work: func(ctx context.Context) (string, error) {
			return s.generate(ctx, chatPrompt(pc, req))
		},
		Empty:    func(t string) bool { return strings.TrimSpace(t) == "" },
		Fallback: func() string { return FallbackChat(pc, s.pick) },
		Fields:   map[string]any{"user_id": userID},
	})
	out := s.outcome(res.Outcome, res.Err)
	if res.UsedFallback() {
		return ChatReply{Response: text, Exception: exceptionText(res.Outcome, res.Err)}, out
	}
	s.storeConversation(ctx, Conversation{
		UserID:   userID,
		Message:  req.Message,
		Response: text,
		Model:    out.Model,
	})
	return ChatReply{Response: text}, out
}

func (s *Service) pick(n int) int {
	if s.Pick != nil {
		return s.Pick(n)
	}
	return rand.IntN(n)
}

func exceptionText(kind bounded.Outcome, err error) string {
	switch {
	case kind == bounded.OutcomeUnavailable:
		return generation.ErrUnavailable.Error()
	case err != nil:
		return err.Error()
	case kind == bounded.OutcomeEmpty:
		return generation.ErrEmptyResponse.Error()
	default:
		return string(kind)
	}
}

func (s *Service) storeConversation(ctx context.Context, c Conversation) {
	if s.Conversations == nil {
		return
	}
	c.CreatedAt = s.timestamp().UTC()
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), conversationWriteTimeout)
		defer cancel()
		if err := s.Conversations.Append(wctx, c); err != nil {
			telemetry.Warn("guidance.conversation_store_failed", map[string]any{"user_id": c.UserID, "error": err})
		}
	}()
}

// History returns the user's stored conversations, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]Conversation, error) {
	if s.Conversations == nil {
		return []Conversation{}, nil
	}
	return s.Conversations.ListByUser(ctx, userID, limit)
}

// Wait blocks until background conversation writes finish or ctx ends.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("pending conversation writes"), ctx.Err())
	}
}
