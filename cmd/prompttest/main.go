package main

// Run one guidance operation against a profile file and print the
// normalized result with its outcome:
//   go run ./cmd/prompttest -profile profile.json -op skill-gap -career "Data Scientist"

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"career-backend/internal/catalog"
	"career-backend/internal/generation"
	"career-backend/internal/guidance"
	"career-backend/internal/profiles"
	"career-backend/internal/shared/config"
	"career-backend/internal/shared/telemetry"
)

type options struct {
	Op          string
	ProfilePath string
	Career      string
	Industry    string
	Location    string
	Message     string
}

type report struct {
	Operation string `json:"operation"`
	Outcome   string `json:"outcome"`
	Model     string `json:"model,omitempty"`
	Fallback  bool   `json:"fallback"`
	Error     string `json:"error,omitempty"`
	Result    any    `json:"result"`
}

func main() {
	var opts options
	flag.StringVar(&opts.Op, "op", "recommendations", "recommendations, skill-gap, market or chat")
	flag.StringVar(&opts.ProfilePath, "profile", "", "Path to profile JSON")
	flag.StringVar(&opts.Career, "career", "", "Target career (skill-gap) or career field (market)")
	flag.StringVar(&opts.Industry, "industry", "", "Industry (market)")
	flag.StringVar(&opts.Location, "location", "", "Location (market)")
	flag.StringVar(&opts.Message, "message", "", "Chat message")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		exitErr(err)
	}
	telemetry.Setup("career-prompttest", cfg.Env)
	telemetry.SetOutput(os.Stderr)
	ctx := context.Background()
	gen := generation.New(ctx, generation.Options{
		APIKey:      cfg.GeminiAPIKey,
		Models:      cfg.GeminiModels,
		MaxAttempts: cfg.GenerationMaxAttempts,
		HTTPTimeout: cfg.GenerationHTTPTimeout,
	})
	if err := run(ctx, opts, gen, os.Stdout); err != nil {
		exitErr(err)
	}
}

func run(ctx context.Context, opts options, gen guidance.Generator, out io.Writer) error {
	profile, err := loadProfile(opts.ProfilePath)
	if err != nil {
		return err
	}
	careers := catalog.NewMemoryRepo()
	if _, err := catalog.Seed(ctx, careers); err != nil {
		return err
	}
	svc := guidance.NewService(gen, careers, guidance.NewMemoryConversations(), nil)
	pc := profile.Context()

	var (
		result  any
		outcome guidance.Outcome
	)
	switch strings.ToLower(strings.TrimSpace(opts.Op)) {
	case "recommendations":
		result, outcome = svc.Recommendations(ctx, pc)
	case "skill-gap":
		result, outcome = svc.SkillGap(ctx, pc, opts.Career)
	case "market":
		var analysis guidance.MarketAnalysis
		analysis, _, outcome = svc.MarketAnalysis(ctx, guidance.MarketQuery{
			CareerField: opts.Career,
			Industry:    opts.Industry,
			Location:    opts.Location,
			Profile:     &pc,
		})
		result = analysis
	case "chat":
		if strings.TrimSpace(opts.Message) == "" {
			return errors.New("-message is required for chat")
		}
		result, outcome = svc.Chat(ctx, profile.ID, pc, guidance.ChatRequest{Message: opts.Message})
	default:
		return fmt.Errorf("unknown operation %q", opts.Op)
	}
	if err := svc.Wait(ctx); err != nil {
		return err
	}

	rep := report{
		Operation: opts.Op,
		Outcome:   string(outcome.Kind),
		Model:     outcome.Model,
		Fallback:  outcome.UsedFallback(),
		Result:    result,
	}
	if outcome.Err != nil {
		rep.Error = outcome.Err.Error()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func loadProfile(path string) (profiles.Profile, error) {
	if strings.TrimSpace(path) == "" {
		return profiles.Profile{}, errors.New("-profile is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return profiles.Profile{}, fmt.Errorf("read profile: %w", err)
	}
	var p profiles.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return profiles.Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	if p.ID == "" {
		p.ID = "prompttest"
	}
	return p, nil
}

func exitErr(err error) {
	telemetry.Error("prompttest.failed", map[string]any{"error": err})
	os.Exit(1)
}
