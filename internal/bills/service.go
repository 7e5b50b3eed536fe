package bills

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/conciliador/internal/model"
)

// DefaultFile is the bills CSV written by "conciliador init".
const DefaultFile = "bills.csv"

// Service holds a bill export in file order.
type Service struct {
	bills []model.Bill
}

// NewService creates a Service from a slice of bills.
func NewService(bills []model.Bill) *Service {
	return &Service{bills: bills}
}

// Load reads a bills CSV and returns a Service.
func Load(path string) (*Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bills: %w", err)
	}
	defer f.Close()

	bills, err := ReadBills(f)
	if err != nil {
		return nil, fmt.Errorf("reading bills %s: %w", filepath.Base(path), err)
	}
	return NewService(bills), nil
}

// All returns all bills in file order.
func (s *Service) All() []model.Bill {
	return s.bills
}

// Pending returns the bills still awaiting payment. Partially paid bills
// are included only when includePartial is set.
func (s *Service) Pending(includePartial bool) []model.Bill {
	var result []model.Bill
	for _, b := range s.bills {
		if b.Status == model.BillPending || (includePartial && b.Status == model.BillPartial) {
			result = append(result, b)
		}
	}
	return result
}

// Save writes the bills to path, creating parent directories.
func (s *Service) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating bills dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating bills file: %w", err)
	}
	defer f.Close()

	if err := WriteBills(f, s.bills); err != nil {
		return fmt.Errorf("writing bills: %w", err)
	}
	return nil
}

// PendingBills returns Pending(includePartial).
func (s *Service) PendingBills(_ context.Context, includePartial bool) ([]model.Bill, error) {
	return s.Pending(includePartial), nil
}

// File is a bill source that rereads its CSV on every request, so edits to
// the export are seen by a running server.
type File struct {
	Path string
	Log  zerolog.Logger
}

// PendingBills loads the file and returns its outstanding bills. Validation
// problems are logged as warnings.
func (f File) PendingBills(_ context.Context, includePartial bool) ([]model.Bill, error) {
	svc, err := Load(f.Path)
	if err != nil {
		return nil, err
	}
	for _, verr := range Validate(svc.All()) {
		f.Log.Warn().Str("bill", verr.BillID).Str("rule", string(verr.Rule)).Msg(verr.Description)
	}
	return svc.Pending(includePartial), nil
}
