// Package memory provides the in-process sheet store. Sheets live only for
// the lifetime of the process.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/iho/billsplit/internal/domain"
)

// SheetRepository implements usecase.SheetRepository with a guarded map.
// Readers receive copies, and the ledger inside a sheet is immutable, so a
// returned sheet never changes under its holder.
type SheetRepository struct {
	mu     sync.RWMutex
	sheets map[string]*domain.Sheet
	order  []string
}

// NewSheetRepository creates an empty SheetRepository.
func NewSheetRepository() *SheetRepository {
	return &SheetRepository{
		sheets: make(map[string]*domain.Sheet),
	}
}

// Create stores a new sheet.
func (r *SheetRepository) Create(ctx context.Context, sheet *domain.Sheet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sheets[sheet.ID]; ok {
		return fmt.Errorf("sheet %s already exists", sheet.ID)
	}

	stored := *sheet
	r.sheets[sheet.ID] = &stored
	r.order = append(r.order, sheet.ID)
	return nil
}

// GetByID retrieves a sheet by ID.
func (r *SheetRepository) GetByID(ctx context.Context, id string) (*domain.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	sheet, ok := r.sheets[id]
	if !ok {
		return nil, domain.ErrSheetNotFound
	}
	out := *sheet
	return &out, nil
}

// List returns sheets in creation order.
func (r *SheetRepository) List(ctx context.Context, limit, offset int) ([]*domain.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	sheets := []*domain.Sheet{}
	if limit <= 0 || offset < 0 || offset >= len(r.order) {
		return sheets, nil
	}

	end := offset + limit
	if end > len(r.order) {
		end = len(r.order)
	}
	for _, id := range r.order[offset:end] {
		out := *r.sheets[id]
		sheets = append(sheets, &out)
	}
	return sheets, nil
}

// Update runs fn against a working copy of the sheet while holding the write
// lock and stores the copy only when fn succeeds.
func (r *SheetRepository) Update(ctx context.Context, id string, fn func(sheet *domain.Sheet) error) (*domain.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sheets[id]
	if !ok {
		return nil, domain.ErrSheetNotFound
	}

	working := *current
	if err := fn(&working); err != nil {
		return nil, err
	}
	working.ID = id

	r.sheets[id] = &working
	out := working
	return &out, nil
}

// Delete removes a sheet.
func (r *SheetRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sheets[id]; !ok {
		return domain.ErrSheetNotFound
	}
	delete(r.sheets, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count returns the number of stored sheets.
func (r *SheetRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sheets)
}
