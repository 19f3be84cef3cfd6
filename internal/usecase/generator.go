package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"DraftFlow/internal/domain"
	"DraftFlow/internal/ports"
	"DraftFlow/internal/week"
)

const topicLookbackMonths = 6

// GeneratorDeps wires all collaborators into the batch generator.
type GeneratorDeps struct {
	Customers  ports.CustomerRepository
	Drafts     ports.DraftRepository
	UsedTopics ports.UsedTopicRepository
	Generator  ports.DraftGenerator
	DraftCount int
	Logger     *slog.Logger
}

// Generator creates each customer's weekly draft batch.
type Generator struct {
	customers  ports.CustomerRepository
	drafts     ports.DraftRepository
	usedTopics ports.UsedTopicRepository
	generator  ports.DraftGenerator
	draftCount int
	logger     *slog.Logger
}

// NewGenerator constructs the batch generator; DraftCount defaults to 3.
func NewGenerator(deps GeneratorDeps) *Generator {
	count := deps.DraftCount
	if count <= 0 {
		count = 3
	}
	return &Generator{
		customers:  deps.Customers,
		drafts:     deps.Drafts,
		usedTopics: deps.UsedTopics,
		generator:  deps.Generator,
		draftCount: count,
		logger:     deps.Logger,
	}
}

// GenerateForCustomer creates this week's batch for one customer. If any
// draft already exists for the week the call is a no-op, so repeated runs
// never produce a second batch. Returns the number of drafts written.
func (g *Generator) GenerateForCustomer(ctx context.Context, customer domain.Customer, now time.Time) (int, error) {
	weekKey := week.Key(now)

	exists, err := g.drafts.HasDraftsForWeek(ctx, customer.ID, weekKey)
	if err != nil {
		return 0, fmt.Errorf("check existing batch: %w", err)
	}
	if exists {
		g.info("batch already exists, skipping", "customer", customer.Name, "week", weekKey)
		return 0, nil
	}

	var usedTitles []string
	if g.usedTopics != nil {
		since := now.AddDate(0, -topicLookbackMonths, 0)
		usedTitles, err = g.usedTopics.RecentTitles(ctx, customer.ID, since)
		if err != nil {
			return 0, fmt.Errorf("load used topics: %w", err)
		}
	}

	generated, err := g.generator.Generate(ctx, customer, usedTitles, g.draftCount)
	if err != nil {
		return 0, fmt.Errorf("generate drafts: %w", err)
	}
	if len(generated) == 0 {
		return 0, fmt.Errorf("generator produced no drafts")
	}

	// Inserts are not transactional; a partially written batch still counts
	// as this week's batch and is picked up by the pending-draft checks.
	dayKey := week.DayKey(now)
	written := 0
	for _, d := range generated {
		draft := domain.Draft{
			ID:         uuid.NewString(),
			CustomerID: customer.ID,
			WeekOf:     dayKey,
			Title:      d.Title,
			Content:    d.Content,
			Status:     domain.DraftPending,
		}
		if err := g.drafts.InsertDraft(ctx, draft); err != nil {
			return written, fmt.Errorf("insert draft %q: %w", d.Title, err)
		}
		written++
	}

	g.info("batch generated", "customer", customer.Name, "week", weekKey, "drafts", written)
	return written, nil
}

// GenerateForCustomerID looks up a single customer and generates their batch.
func (g *Generator) GenerateForCustomerID(ctx context.Context, customerID string, now time.Time) (int, error) {
	customer, err := g.customers.CustomerByID(ctx, customerID)
	if err != nil {
		return 0, fmt.Errorf("load customer: %w", err)
	}
	return g.GenerateForCustomer(ctx, customer, now)
}

// GenerateForAll runs generation for every active customer. A customer whose
// generation fails is logged and skipped; the loop continues and the customer
// is retried naturally on the next scheduled run.
func (g *Generator) GenerateForAll(ctx context.Context, now time.Time) error {
	customers, err := g.customers.ActiveCustomers(ctx)
	if err != nil {
		return fmt.Errorf("load active customers: %w", err)
	}

	succeeded, failed := 0, 0
	for _, customer := range customers {
		if _, err := g.GenerateForCustomer(ctx, customer, now); err != nil {
			failed++
			g.error("generation failed", "customer", customer.Name, "error", err)
			continue
		}
		succeeded++
	}

	g.info("generation pass done", "customers", len(customers), "succeeded", succeeded, "failed", failed)
	return nil
}

// RegenerateAll purges every pending draft system-wide and generates fresh
// batches for all active customers.
func (g *Generator) RegenerateAll(ctx context.Context, now time.Time) error {
	if err := g.drafts.DeleteAllPending(ctx); err != nil {
		return fmt.Errorf("purge pending drafts: %w", err)
	}
	g.info("pending drafts purged")
	return g.GenerateForAll(ctx, now)
}

func (g *Generator) info(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Info(msg, args...)
	}
}

func (g *Generator) error(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Error(msg, args...)
	}
}
