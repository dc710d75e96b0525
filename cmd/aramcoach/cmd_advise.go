package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aramcoach/internal/facts"
	"aramcoach/internal/guardrail"
	"aramcoach/internal/orchestrator"
	signalpkg "aramcoach/internal/signal"
	"aramcoach/internal/strategy"
	"aramcoach/internal/threat"
	"aramcoach/internal/types"
)

var (
	advisePatch    string
	adviseMode     string
	adviseAlly     []string
	adviseEnemy    []string
	adviseChampion string
	adviseQuestion string
	adviseTimeout  time.Duration
)

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Produce a validated strategy for a draft",
	Long: `Runs the full coaching loop for the given rosters and prints the
result as JSON: the final draft, threat scores, the evidence it cites,
and the violation history of every attempt.

Examples:
  aramcoach advise --ally Ashe,Soraka,Sion,Lux,Jax --enemy Katarina,Ziggs,Braum,Varus,Leona --champion Ashe
  aramcoach advise --champion Ashe --mode ingame_qa --question "when do I buy anti-heal?"`,
	RunE: runAdvise,
}

func init() {
	adviseCmd.Flags().StringVar(&advisePatch, "patch", "", "patch to load facts for (default from config)")
	adviseCmd.Flags().StringVar(&adviseMode, "mode", string(types.ModePreGame), "pre_game or ingame_qa")
	adviseCmd.Flags().StringSliceVar(&adviseAlly, "ally", nil, "ally champions, comma separated")
	adviseCmd.Flags().StringSliceVar(&adviseEnemy, "enemy", nil, "enemy champions, comma separated")
	adviseCmd.Flags().StringVar(&adviseChampion, "champion", "", "the champion you are playing")
	adviseCmd.Flags().StringVar(&adviseQuestion, "question", "", "free-text question (ingame_qa mode)")
	adviseCmd.Flags().DurationVar(&adviseTimeout, "timeout", 2*time.Minute, "overall run timeout")
}

func runAdvise(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), adviseTimeout)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	req, err := buildRequest()
	if err != nil {
		return err
	}

	store, err := facts.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening facts store: %w", err)
	}
	defer store.Close()

	source, err := facts.NewCachedSource(store, 0)
	if err != nil {
		return fmt.Errorf("wrapping facts store: %w", err)
	}

	generator, err := buildGenerator(ctx)
	if err != nil {
		return err
	}

	var signals types.SignalSource
	if cfg.Signal.Enabled {
		signals = signalpkg.NewHTTPSource(cfg.Signal.BaseURL, cfg.Signal.Timeout, logger)
	}

	orch := orchestrator.New(orchestrator.Deps{
		Facts:     source,
		Scorer:    threat.NewEstimator(signals, logger),
		Generator: generator,
		Validator: guardrail.New(guardrail.Config{
			MaxSummarySentences: cfg.Guardrail.MaxSummarySentences,
			StatTolerance:       cfg.Guardrail.StatTolerance,
		}),
	}, orchestrator.Config{
		MaxAttempts: cfg.MaxAttempts,
		EvidenceK:   cfg.EvidenceK,
	}, logger)

	res, err := orch.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	if res.Degraded {
		logger.Warn("result is degraded", zap.Int("attempts", res.AttemptsUsed))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func buildRequest() (types.RequestContext, error) {
	req := types.RequestContext{
		Patch:      advisePatch,
		Mode:       types.Mode(adviseMode),
		Ally:       roster(adviseAlly),
		Enemy:      roster(adviseEnemy),
		MyChampion: adviseChampion,
		Question:   adviseQuestion,
	}
	if req.Patch == "" {
		req.Patch = cfg.DefaultPatch
	}

	switch req.Mode {
	case types.ModePreGame:
		if len(req.Ally) == 0 || len(req.Enemy) == 0 {
			return req, fmt.Errorf("pre_game mode needs --ally and --enemy")
		}
	case types.ModeIngameQA:
		if req.MyChampion == "" || req.Question == "" {
			return req, fmt.Errorf("ingame_qa mode needs --champion and --question")
		}
	default:
		return req, fmt.Errorf("unknown mode %q", adviseMode)
	}
	return req, nil
}

func buildGenerator(ctx context.Context) (types.DraftGenerator, error) {
	switch cfg.LLM.Provider {
	case "gemini":
		return strategy.NewGemini(ctx, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Timeout, logger)
	case "heuristic":
		return strategy.Heuristic{}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

func roster(names []string) []types.RosterEntry {
	var out []types.RosterEntry
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, types.RosterEntry{Champion: name})
	}
	return out
}
