package strategy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/godilite/ticket-classifier/internal/llm"
	"github.com/godilite/ticket-classifier/internal/service"
	"github.com/godilite/ticket-classifier/pkg/cache"
	"github.com/godilite/ticket-classifier/pkg/lazy"
)

const defaultCacheTTL = 10 * time.Minute

// ZeroShotConfig configures a ZeroShot strategy.
type ZeroShotConfig struct {
	// Labels are the candidate categories, in preference order for ties.
	Labels []string
	// ModelName namespaces cached results.
	ModelName string
	CacheTTL  time.Duration
}

// ZeroShot asks an LLM to rank the candidate labels and returns the top one.
type ZeroShot struct {
	labels    []string
	labelsKey string
	modelName string
	client    *lazy.Cell[llm.Completer]
	cache     cache.Cacher
	cacheTTL  time.Duration
	sf        singleflight.Group
	logger    *zap.Logger
}

// NewZeroShot creates the strategy. newClient runs on first use; a failure is
// returned to that caller and retried on the next request.
func NewZeroShot(newClient func(ctx context.Context) (llm.Completer, error), cacher cache.Cacher, cfg ZeroShotConfig, logger *zap.Logger) *ZeroShot {
	if newClient == nil {
		panic("client constructor must not be nil")
	}
	if len(cfg.Labels) == 0 {
		panic("zero-shot classification needs at least one candidate label")
	}
	if cacher == nil {
		cacher = cache.Nop{}
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	labelsSum := sha256.Sum256([]byte(strings.Join(cfg.Labels, "\x00")))
	return &ZeroShot{
		labels:    append([]string(nil), cfg.Labels...),
		labelsKey: hex.EncodeToString(labelsSum[:4]),
		modelName: cfg.ModelName,
		client:    lazy.New(newClient),
		cache:     cacher,
		cacheTTL:  cfg.CacheTTL,
		logger:    logger.Named("zeroshot"),
	}
}

func (z *ZeroShot) Classify(ctx context.Context, text string) (string, error) {
	return cache.FindAndCache(ctx, z.cache, &z.sf, z.cacheKey(text), z.cacheTTL, z.logger,
		func(ctx context.Context) (string, error) {
			return z.rank(ctx, text)
		})
}

func (z *ZeroShot) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "zeroshot:" + z.modelName + ":" + z.labelsKey + ":" + hex.EncodeToString(sum[:])
}

func (z *ZeroShot) rank(ctx context.Context, text string) (string, error) {
	client, err := z.client.Get(ctx)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) || errors.Is(err, llm.ErrUnknownProvider) {
			return "", service.NewDetailedError(service.ErrConfiguration,
				fmt.Sprintf("Zero-shot classifier is not configured: %v", err), err)
		}
		return "", service.NewDetailedError(service.ErrModelFailure,
			fmt.Sprintf("Failed to initialise zero-shot classifier: %v", err), err)
	}

	reply, err := client.Complete(ctx, rankingSystemPrompt, rankingUserPrompt(text, z.labels))
	if err != nil {
		return "", service.NewDetailedError(service.ErrModelFailure,
			fmt.Sprintf("Zero-shot classification failed: %v", err), err)
	}

	ranking := parseRanking(reply, z.labels)
	if len(ranking) == 0 {
		z.logger.Warn("no candidate label in model reply", zap.String("reply", truncate(reply, 200)))
		return "", service.NewDetailedError(service.ErrModelFailure,
			"Zero-shot classification returned no usable label", nil)
	}
	return ranking[0], nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
