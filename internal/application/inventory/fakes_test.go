package inventory_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/restops-core/internal/application/inventory"
	"github.com/tu-usuario/restops-core/internal/domain"
	"github.com/tu-usuario/restops-core/internal/domain/entity"
)

// store es la persistencia en memoria para los tests de casos de uso. Los
// fakes implementan los puertos del dominio sin transacciones reales: cada
// test corre secuencial, así que la atomicidad no se ejercita aquí.
type store struct {
	items       map[string]*entity.InventoryItem
	locations   map[string]*entity.Location
	batches     []*entity.StockBatch
	movements   []*entity.StockMovement
	menuItems   map[string]*entity.MenuItem
	ingredients map[string][]*entity.RecipeIngredient
	mappings    map[string]*entity.AccountMapping // key: companyID + "|" + locationID
	entries     []*entity.JournalEntry
	batchSeq    int64
	movementSeq int64
}

func newStore() *store {
	return &store{
		items:       map[string]*entity.InventoryItem{},
		locations:   map[string]*entity.Location{},
		menuItems:   map[string]*entity.MenuItem{},
		ingredients: map[string][]*entity.RecipeIngredient{},
		mappings:    map[string]*entity.AccountMapping{},
	}
}

func (s *store) repos() inventory.Repos {
	return inventory.Repos{
		Items:     &fakeItemRepo{s},
		Locations: &fakeLocationRepo{s},
		Batches:   &fakeBatchRepo{s},
		Movements: &fakeMovementRepo{s},
		Recipes:   &fakeRecipeRepo{s},
		Mappings:  &fakeMappingRepo{s},
		Journal:   &fakeJournalRepo{s},
	}
}

// fakeTxRunner pasa los repos del store al callback. Sin rollback: los tests
// de caso de uso verifican la lógica, no la atomicidad de PostgreSQL.
type fakeTxRunner struct {
	s *store
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(r inventory.Repos) error) error {
	return fn(r.s.repos())
}

// ── ItemRepository ────────────────────────────────────────────────────────────

type fakeItemRepo struct{ s *store }

func (f *fakeItemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	f.s.items[item.ID] = item
	return nil
}

func (f *fakeItemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	return f.s.items[id], nil
}

func (f *fakeItemRepo) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.InventoryItem, error) {
	for _, it := range f.s.items {
		if it.CompanyID == companyID && it.SKU == sku {
			return it, nil
		}
	}
	return nil, nil
}

func (f *fakeItemRepo) UpdateLastCost(_ context.Context, itemID string, cost decimal.Decimal) error {
	it, ok := f.s.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	it.LastCost = cost
	return nil
}

func (f *fakeItemRepo) Deactivate(_ context.Context, id string) error {
	it, ok := f.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.Active = false
	return nil
}

func (f *fakeItemRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, it := range f.s.items {
		if it.CompanyID == companyID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) ListBelowReorder(_ context.Context, companyID, locationID string) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, it := range f.s.items {
		if it.CompanyID != companyID || !it.Active || !it.ReorderLevel.IsPositive() {
			continue
		}
		var remaining decimal.Decimal
		for _, b := range f.s.batches {
			if b.ItemID == it.ID && (locationID == "" || b.LocationID == locationID) {
				remaining = remaining.Add(b.Remaining)
			}
		}
		if remaining.LessThan(it.ReorderLevel) {
			out = append(out, it)
		}
	}
	return out, nil
}

// ── LocationRepository ────────────────────────────────────────────────────────

type fakeLocationRepo struct{ s *store }

func (f *fakeLocationRepo) Create(_ context.Context, loc *entity.Location) error {
	f.s.locations[loc.ID] = loc
	return nil
}

func (f *fakeLocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	return f.s.locations[id], nil
}

func (f *fakeLocationRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range f.s.locations {
		if l.CompanyID == companyID {
			out = append(out, l)
		}
	}
	return out, nil
}

// ── BatchRepository ───────────────────────────────────────────────────────────

type fakeBatchRepo struct{ s *store }

func (f *fakeBatchRepo) Create(_ context.Context, b *entity.StockBatch) error {
	f.s.batchSeq++
	b.Seq = f.s.batchSeq
	f.s.batches = append(f.s.batches, b)
	return nil
}

func (f *fakeBatchRepo) GetByID(_ context.Context, id string) (*entity.StockBatch, error) {
	for _, b := range f.s.batches {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockBatch, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeBatchRepo) ListOpenForUpdate(_ context.Context, itemID, locationID string) ([]*entity.StockBatch, error) {
	var out []*entity.StockBatch
	for _, b := range f.s.batches {
		if b.ItemID == itemID && b.LocationID == locationID && !b.Exhausted() {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ReceivedAt.Equal(out[j].ReceivedAt) {
			return out[i].ReceivedAt.Before(out[j].ReceivedAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func (f *fakeBatchRepo) LatestOpen(ctx context.Context, itemID, locationID string) (*entity.StockBatch, error) {
	open, _ := f.ListOpenForUpdate(ctx, itemID, locationID)
	if len(open) == 0 {
		return nil, nil
	}
	return open[len(open)-1], nil
}

func (f *fakeBatchRepo) OldestOpen(ctx context.Context, itemID, locationID string) (*entity.StockBatch, error) {
	open, _ := f.ListOpenForUpdate(ctx, itemID, locationID)
	if len(open) == 0 {
		return nil, nil
	}
	return open[0], nil
}

func (f *fakeBatchRepo) UpdateRemaining(ctx context.Context, id string, remaining decimal.Decimal) error {
	b, _ := f.GetByID(ctx, id)
	if b == nil {
		return domain.ErrBatchNotFound
	}
	b.Remaining = remaining
	return nil
}

func (f *fakeBatchRepo) RemainingByItem(_ context.Context, itemID, locationID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	for _, b := range f.s.batches {
		if b.ItemID == itemID && b.LocationID == locationID {
			total = total.Add(b.Remaining)
		}
	}
	return total, nil
}

func (f *fakeBatchRepo) RemainingTotals(_ context.Context, companyID, locationID string) (map[string]decimal.Decimal, error) {
	totals := map[string]decimal.Decimal{}
	for _, b := range f.s.batches {
		if b.CompanyID == companyID && (locationID == "" || b.LocationID == locationID) {
			totals[b.ItemID] = totals[b.ItemID].Add(b.Remaining)
		}
	}
	return totals, nil
}

func (f *fakeBatchRepo) Valuation(_ context.Context, companyID, locationID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	for _, b := range f.s.batches {
		if b.CompanyID == companyID && (locationID == "" || b.LocationID == locationID) && !b.Exhausted() {
			total = total.Add(b.Remaining.Mul(b.UnitCost))
		}
	}
	return total, nil
}

// ── MovementRepository ────────────────────────────────────────────────────────

type fakeMovementRepo struct{ s *store }

func (f *fakeMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if m.IdempotencyKey != "" {
		for _, prev := range f.s.movements {
			if prev.CompanyID == m.CompanyID && prev.IdempotencyKey == m.IdempotencyKey {
				// Misma semántica que el índice único en PostgreSQL.
				return domain.ErrConcurrentUpdate
			}
		}
	}
	f.s.movementSeq++
	m.Seq = f.s.movementSeq
	f.s.movements = append(f.s.movements, m)
	return nil
}

func (f *fakeMovementRepo) ListByItem(_ context.Context, itemID string, from, to *time.Time, _, _ int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range f.s.movements {
		if m.ItemID != itemID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMovementRepo) ListByCorrelation(_ context.Context, correlationID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range f.s.movements {
		if m.CorrelationID == correlationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMovementRepo) ListByOrderRef(_ context.Context, companyID, orderRef string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range f.s.movements {
		if m.CompanyID == companyID && m.OrderRef == orderRef {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMovementRepo) FindCorrelationByIdempotencyKey(_ context.Context, companyID, key string) (string, error) {
	for _, m := range f.s.movements {
		if m.CompanyID == companyID && m.IdempotencyKey == key {
			return m.CorrelationID, nil
		}
	}
	return "", nil
}

func (f *fakeMovementRepo) SumByItem(_ context.Context, companyID, locationID string, asOf time.Time) (map[string]decimal.Decimal, error) {
	totals := map[string]decimal.Decimal{}
	for _, m := range f.s.movements {
		if m.CompanyID != companyID || m.NegativeStock {
			continue
		}
		if locationID != "" && m.LocationID != locationID {
			continue
		}
		if m.CreatedAt.After(asOf) {
			continue
		}
		totals[m.ItemID] = totals[m.ItemID].Add(m.Quantity)
	}
	return totals, nil
}

// ── RecipeRepository ──────────────────────────────────────────────────────────

type fakeRecipeRepo struct{ s *store }

func (f *fakeRecipeRepo) GetMenuItem(_ context.Context, id string) (*entity.MenuItem, error) {
	return f.s.menuItems[id], nil
}

func (f *fakeRecipeRepo) ListIngredients(_ context.Context, menuItemID string) ([]*entity.RecipeIngredient, error) {
	return f.s.ingredients[menuItemID], nil
}

func (f *fakeRecipeRepo) CreateMenuItem(_ context.Context, item *entity.MenuItem) error {
	f.s.menuItems[item.ID] = item
	return nil
}

func (f *fakeRecipeRepo) CreateIngredient(_ context.Context, row *entity.RecipeIngredient) error {
	f.s.ingredients[row.MenuItemID] = append(f.s.ingredients[row.MenuItemID], row)
	return nil
}

// ── AccountMappingRepository ──────────────────────────────────────────────────

type fakeMappingRepo struct{ s *store }

func (f *fakeMappingRepo) Resolve(_ context.Context, companyID, locationID string) (*entity.AccountMapping, error) {
	if m, ok := f.s.mappings[companyID+"|"+locationID]; ok {
		return m, nil
	}
	return f.s.mappings[companyID+"|"], nil
}

func (f *fakeMappingRepo) Upsert(_ context.Context, mapping *entity.AccountMapping) error {
	f.s.mappings[mapping.CompanyID+"|"+mapping.LocationID] = mapping
	return nil
}

// ── JournalRepository ─────────────────────────────────────────────────────────

type fakeJournalRepo struct{ s *store }

func (f *fakeJournalRepo) Create(_ context.Context, entry *entity.JournalEntry) error {
	f.s.entries = append(f.s.entries, entry)
	return nil
}

func (f *fakeJournalRepo) ListByCorrelation(_ context.Context, correlationID string) ([]*entity.JournalEntry, error) {
	var out []*entity.JournalEntry
	for _, e := range f.s.entries {
		if e.CorrelationID == correlationID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeJournalRepo) AccountBalance(_ context.Context, companyID, accountID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	for _, e := range f.s.entries {
		if e.CompanyID != companyID {
			continue
		}
		for _, l := range e.Lines {
			if l.AccountID == accountID {
				balance = balance.Add(l.Debit).Sub(l.Credit)
			}
		}
	}
	return balance, nil
}
