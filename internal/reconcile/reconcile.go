// Package reconcile runs the statement pipeline: validate and parse the
// uploaded file, load outstanding bills, match, and report.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/conciliador/internal/config"
	"github.com/cleared-dev/conciliador/internal/importer"
	"github.com/cleared-dev/conciliador/internal/logger"
	"github.com/cleared-dev/conciliador/internal/matching"
	"github.com/cleared-dev/conciliador/internal/model"
)

// ErrNoPendingBills means there was nothing to match the statement against.
var ErrNoPendingBills = errors.New("no pending bills to reconcile against")

// BillSource supplies the outstanding bills for a run.
type BillSource interface {
	PendingBills(ctx context.Context, includePartial bool) ([]model.Bill, error)
}

// Options configure a Service.
type Options struct {
	Import         importer.Options
	Matching       matching.Config
	IncludePartial bool
}

// OptionsFromConfig maps conciliador.yaml settings onto pipeline options.
func OptionsFromConfig(cfg *config.Config) Options {
	strategy, _ := importer.ParseTextStrategy(cfg.Import.TextStrategy)
	return Options{
		Import: importer.Options{
			HeaderScanRows: cfg.Import.HeaderScanRows,
			Strategy:       strategy,
			Year:           cfg.Import.Year,
			MaxBytes:       cfg.Import.MaxBytes(),
		},
		Matching: matching.Config{
			Thresholds: matching.Thresholds{
				High:           cfg.Matching.High,
				Medium:         cfg.Matching.Medium,
				Low:            cfg.Matching.Low,
				SafeMinReasons: cfg.Matching.SafeMinReasons,
			},
		},
		IncludePartial: cfg.Matching.IncludePartial,
	}
}

// Report is the outcome of reconciling one statement.
type Report struct {
	File         string
	Transactions []model.Transaction // statement order
	Candidates   []model.MatchCandidate
	Stats        model.Stats
	PendingBills int
}

// Service reconciles statements against a bill source.
type Service struct {
	bills BillSource
	opts  Options
	log   zerolog.Logger
}

// NewService creates a Service. A logger carried by the context of a call
// takes precedence over log.
func NewService(bills BillSource, opts Options, log zerolog.Logger) *Service {
	return &Service{bills: bills, opts: opts, log: log}
}

// Thresholds returns the confidence tiers in use.
func (s *Service) Thresholds() matching.Thresholds {
	return s.opts.Matching.Thresholds
}

// Extract validates and parses a statement. password overrides the
// configured PDF password when set.
func (s *Service) Extract(ctx context.Context, name string, data []byte, password string) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := s.opts.Import
	if password != "" {
		opts.Password = password
	}
	txns, err := importer.Load(name, data, opts, logger.FromContextOr(ctx, s.log))
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", name, err)
	}
	return txns, nil
}

// Reconcile extracts the statement and matches it against pending bills.
func (s *Service) Reconcile(ctx context.Context, name string, data []byte, password string) (*Report, error) {
	txns, err := s.Extract(ctx, name, data, password)
	if err != nil {
		return nil, err
	}

	bills, err := s.bills.PendingBills(ctx, s.opts.IncludePartial)
	if err != nil {
		return nil, fmt.Errorf("loading bills: %w", err)
	}
	if len(bills) == 0 {
		return nil, ErrNoPendingBills
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := logger.FromContextOr(ctx, s.log)
	result := matching.NewMatcher(s.opts.Matching, log).Run(txns, bills)
	log.Info().
		Str("file", name).
		Int("transactions", result.Stats.TotalTransactions).
		Int("bills", len(bills)).
		Int("matches", result.Stats.TotalMatches).
		Int("high", result.Stats.HighConfidence).
		Msg("statement reconciled")

	return &Report{
		File:         name,
		Transactions: txns,
		Candidates:   result.Candidates,
		Stats:        result.Stats,
		PendingBills: len(bills),
	}, nil
}
