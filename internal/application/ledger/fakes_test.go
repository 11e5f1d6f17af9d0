package ledger_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba: un almacén en memoria que implementa los puertos de
// persistencia y un TxRunner que emula Commit/Rollback clonando el estado.
// Así los casos de uso se prueban con la misma semántica transaccional que
// tendrían contra PostgreSQL (en particular: rollback total ante error).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu          sync.Mutex
	products    map[string]*entity.Product
	batches     map[string]*entity.Batch
	adjustments map[string]*entity.Adjustment
}

func newMemStore() *memStore {
	return &memStore{
		products:    make(map[string]*entity.Product),
		batches:     make(map[string]*entity.Batch),
		adjustments: make(map[string]*entity.Adjustment),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for id, b := range s.batches {
		cb := *b
		c.batches[id] = &cb
	}
	for id, a := range s.adjustments {
		ca := *a
		c.adjustments[id] = &ca
	}
	return c
}

func (s *memStore) restore(from *memStore) {
	s.products = from.products
	s.batches = from.batches
	s.adjustments = from.adjustments
}

// fakeTxRunner emula la transacción: clona el estado antes de fn y lo
// restaura completo si fn falla (rollback).
type fakeTxRunner struct {
	store *memStore
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	adjRepo repository.AdjustmentRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snapshot := r.store.clone()
	err := fn(&fakeProductRepo{s: r.store}, &fakeBatchRepo{s: r.store}, &fakeAdjustmentRepo{s: r.store})
	if err != nil {
		r.store.restore(snapshot)
	}
	return err
}

// ── ProductRepository ─────────────────────────────────────────────────────────

type fakeProductRepo struct{ s *memStore }

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func (r *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) UpdateStock(productID string, stock int64) error {
	if p, ok := r.s.products[productID]; ok {
		p.Stock = stock
	}
	return nil
}

func (r *fakeProductRepo) UpdateCost(productID string, cost decimal.Decimal) error {
	if p, ok := r.s.products[productID]; ok {
		p.Cost = cost
	}
	return nil
}

func (r *fakeProductRepo) SetRetail(parentID, retailID string, rate int64) error {
	if p, ok := r.s.products[parentID]; ok {
		p.RetailID = &retailID
		p.RetailRate = rate
	}
	return nil
}

func (r *fakeProductRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.StoreID == storeID && p.DeletedAt == nil {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListIDs(storeID string) ([]string, error) {
	var ids []string
	for _, p := range r.s.products {
		if p.DeletedAt == nil && (storeID == "" || p.StoreID == storeID) {
			ids = append(ids, p.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *fakeProductRepo) ListBelowThreshold(storeID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.StoreID == storeID && p.DeletedAt == nil && p.LowStock != nil && p.Stock <= *p.LowStock {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── BatchRepository ───────────────────────────────────────────────────────────

type fakeBatchRepo struct{ s *memStore }

var _ repository.BatchRepository = (*fakeBatchRepo)(nil)

// fefoLess replica el ORDER BY del adaptador real: vencimiento ascendente con
// nulos al final, recepción ascendente como desempate.
func fefoLess(a, b *entity.Batch) bool {
	return a.ExpiresBefore(b)
}

func (r *fakeBatchRepo) list(productID string, onlyActive bool) []*entity.Batch {
	var out []*entity.Batch
	for _, b := range r.s.batches {
		if b.ProductID != productID {
			continue
		}
		if onlyActive && b.Stock <= 0 {
			continue
		}
		cb := *b
		out = append(out, &cb)
	}
	sort.SliceStable(out, func(i, j int) bool { return fefoLess(out[i], out[j]) })
	return out
}

func (r *fakeBatchRepo) ListActive(productID string) ([]*entity.Batch, error) {
	return r.list(productID, true), nil
}

func (r *fakeBatchRepo) ListByProduct(productID string) ([]*entity.Batch, error) {
	return r.list(productID, false), nil
}

func (r *fakeBatchRepo) GetByID(id string) (*entity.Batch, error) {
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	cb := *b
	return &cb, nil
}

func (r *fakeBatchRepo) Create(b *entity.Batch) error {
	cb := *b
	r.s.batches[b.ID] = &cb
	return nil
}

func (r *fakeBatchRepo) UpdateStock(batchID string, stock int64) error {
	if b, ok := r.s.batches[batchID]; ok {
		b.Stock = stock
	}
	return nil
}

func (r *fakeBatchRepo) Delete(batchID string) error {
	delete(r.s.batches, batchID)
	return nil
}

// ── AdjustmentRepository ──────────────────────────────────────────────────────

type fakeAdjustmentRepo struct{ s *memStore }

var _ repository.AdjustmentRepository = (*fakeAdjustmentRepo)(nil)

func (r *fakeAdjustmentRepo) Create(a *entity.Adjustment) error {
	ca := *a
	r.s.adjustments[a.ID] = &ca
	return nil
}

func (r *fakeAdjustmentRepo) GetByID(id string) (*entity.Adjustment, error) {
	a, ok := r.s.adjustments[id]
	if !ok {
		return nil, nil
	}
	ca := *a
	return &ca, nil
}

func (r *fakeAdjustmentRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Adjustment, error) {
	var out []*entity.Adjustment
	for _, a := range r.s.adjustments {
		if a.ProductID != productID {
			continue
		}
		if from != nil && a.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && a.CreatedAt.After(*to) {
			continue
		}
		ca := *a
		out = append(out, &ca)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// ── Notificador espía ─────────────────────────────────────────────────────────

type spyNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *spyNotifier) StockChanged(storeID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, storeID)
}

func (n *spyNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}
