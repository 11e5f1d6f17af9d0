package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/tienda-pos/internal/application/ledger"
	"github.com/tu-usuario/tienda-pos/internal/domain"
	"github.com/tu-usuario/tienda-pos/internal/domain/entity"
	"github.com/tu-usuario/tienda-pos/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// ──────────────────────────────────────────────────────────────────────────────
// ReconcileProduct
// ──────────────────────────────────────────────────────────────────────────────

// TestReconcile_FusionaDuplicados: dos lotes con el mismo número (4 y 6) se
// fusionan en uno de 10, conservando el recibido primero.
func TestReconcile_FusionaDuplicados(t *testing.T) {
	store := newMemStore()
	seedProduct(store, testProductID, 10, 500)
	seedBatch(store, "b-viejo", testProductID, "LX", 4, fecha("2025-03-01"), nil, testBase)
	seedBatch(store, "b-nuevo", testProductID, "LX", 6, fecha("2025-04-01"), nil, testBase.Add(time.Hour))

	uc := ledger.NewReconcileUseCase(&fakeTxRunner{store: store}, testLogger())

	res, err := uc.ReconcileProduct(context.Background(), testProductID)
	require.NoError(t, err)

	assert.Equal(t, 1, res.MergedBatches)
	assert.False(t, res.AlreadyInSync, "hubo fusión, el producto no estaba sano")

	_, existe := store.batches["b-nuevo"]
	assert.False(t, existe, "el duplicado posterior se absorbe")
	superviviente := store.batches["b-viejo"]
	require.NotNil(t, superviviente, "sobrevive el recibido primero")
	assert.Equal(t, int64(10), superviviente.Stock, "4 + 6 = 10")
	assert.Equal(t, int64(10), store.products[testProductID].Stock)
	assertInvariante(t, store, testProductID)
}

// TestReconcile_ExcesoRecortaVencimientoLejanoPrimero: lotes suman 12 contra
// agregado 9; el recorte de 3 empieza por el lote sin vencimiento (el más
// lejano), protegiendo el stock próximo a vencer.
func TestReconcile_ExcesoRecortaVencimientoLejanoPrimero(t *testing.T) {
	store := newMemStore()
	seedProduct(store, testProductID, 9, 500)
	seedBatch(store, "b-ene", testProductID, "L1", 5, fecha("2025-01-01"), nil, testBase)
	seedBatch(store, "b-feb", testProductID, "L2", 4, fecha("2025-02-01"), nil, testBase)
	seedBatch(store, "b-nil", testProductID, "L3", 3, nil, nil, testBase)

	uc := ledger.NewReconcileUseCase(&fakeTxRunner{store: store}, testLogger())

	res, err := uc.ReconcileProduct(context.Background(), testProductID)
	require.NoError(t, err)

	assert.False(t, res.AlreadyInSync)
	assert.Equal(t, int64(12), res.PreviousStock)
	assert.Equal(t, int64(9), res.NewStock, "el agregado manda")

	_, existe := store.batches["b-nil"]
	assert.False(t, existe, "el lote sin vencimiento (3 unidades) se recorta completo y se elimina")
	assert.Equal(t, int64(5), store.batches["b-ene"].Stock, "el vencimiento más próximo no se toca")
	assert.Equal(t, int64(4), store.batches["b-feb"].Stock)
	assertInvariante(t, store, testProductID)
}

// TestReconcile_FaltanteCreaLoteDeCorreccion: lotes suman 6 contra agregado 10;
// aparece un único lote CORRECCION de 4 sin vencimiento.
func TestReconcile_FaltanteCreaLoteDeCorreccion(t *testing.T) {
	store := newMemStore()
	seedProduct(store, testProductID, 10, 500)
	seedBatch(store, "b1", testProductID, "L1", 6, fecha("2025-03-01"), nil, testBase)

	uc := ledger.NewReconcileUseCase(&fakeTxRunner{store: store}, testLogger())

	res, err := uc.ReconcileProduct(context.Background(), testProductID)
	require.NoError(t, err)
	assert.False(t, res.AlreadyInSync)

	var correccion *entity.Batch
	for _, b := range store.batches {
		if b.BatchNumber == entity.BatchNumberCorrection {
			correccion = b
		}
	}
	require.NotNil(t, correccion, "se crea el lote de corrección")
	assert.Equal(t, int64(4), correccion.Stock)
	assert.Nil(t, correccion.ExpiryDate, "la corrección no inventa vencimiento")
	require.NotNil(t, correccion.UnitCost)
	assert.True(t, correccion.UnitCost.Equal(store.products[testProductID].Cost),
		"la corrección se valora al costo por defecto del producto")
	assertInvariante(t, store, testProductID)
}

// TestReconcile_Idempotente: la segunda pasada sobre un producto ya reparado
// reporta AlreadyInSync y no cambia nada.
func TestReconcile_Idempotente(t *testing.T) {
	store := newMemStore()
	seedProduct(store, testProductID, 10, 500)
	seedBatch(store, "b1", testProductID, "LX", 4, fecha("2025-03-01"), nil, testBase)
	seedBatch(store, "b2", testProductID, "LX", 6, fecha("2025-04-01"), nil, testBase.Add(time.Hour))

	uc := ledger.NewReconcileUseCase(&fakeTxRunner{store: store}, testLogger())

	primera, err := uc.ReconcileProduct(context.Background(), testProductID)
	require.NoError(t, err)
	require.False(t, primera.AlreadyInSync)

	lotesAntes := len(store.batches)
	stockAntes := store.products[testProductID].Stock

	segunda, err := uc.ReconcileProduct(context.Background(), testProductID)
	require.NoError(t, err)
	assert.True(t, segunda.AlreadyInSync, "la segunda pasada es no-op")
	assert.Zero(t, segunda.MergedBatches)
	assert.Len(t, store.batches, lotesAntes)
	assert.Equal(t, stockAntes, store.products[testProductID].Stock)
}

// TestReconcile_SinLotesNoSeToca: un producto sin lotes está en sincronía por
// definición: el agregado es la única fuente de verdad.
func TestReconcile_SinLotesNoSeToca(t *testing.T) {
	store := newMemStore()
	seedProduct(store, testProductID, 7, 500)

	uc := ledger.NewReconcileUseCase(&fakeTxRunner{store: store}, testLogger())

	res, err := uc.ReconcileProduct(context.Background(), testProductID)
	require.NoError(t, err)
	assert.True(t, res.AlreadyInSync)
	assert.Empty(t, store.batches, "no aparece ningún lote de corrección")
	assert.Equal(t, int64(7), store.products[testProductID].Stock)
}

// TestReconcile_ProductoSano reporta sincronía sin tocar nada.
func TestReconcile_ProductoSano(t *testing.T) {
	store := newMemStore()
	seedProduct(store, testProductID, 8, 500)
	seedBatch(store, "b1", testProductID, "L1", 5, fecha("2025-03-01"), nil, testBase)
	seedBatch(store, "b2", testProductID, "L2", 3, nil, nil, testBase)

	uc := ledger.NewReconcileUseCase(&fakeTxRunner{store: store}, testLogger())

	res, err := uc.ReconcileProduct(context.Background(), testProductID)
	require.NoError(t, err)
	assert.True(t, res.AlreadyInSync)
	assert.Equal(t, int64(8), res.PreviousStock)
	assert.Equal(t, int64(8), res.NewStock)
}

// TestReconcile_ProductoNoExiste retorna NotFound.
func TestReconcile_ProductoNoExiste(t *testing.T) {
	uc := ledger.NewReconcileUseCase(&fakeTxRunner{store: newMemStore()}, testLogger())
	_, err := uc.ReconcileProduct(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// ReconcileAll
// ──────────────────────────────────────────────────────────────────────────────

// TestReconcileAll_ResumenDelEscaneo: tres productos (uno sano, uno con
// duplicados, uno sin lotes) dan Scanned 3, Repaired 1, Failed 0.
func TestReconcileAll_ResumenDelEscaneo(t *testing.T) {
	store := newMemStore()
	seedProduct(store, "sano", 5, 100)
	seedBatch(store, "s1", "sano", "L1", 5, fecha("2025-03-01"), nil, testBase)

	seedProduct(store, "roto", 10, 100)
	seedBatch(store, "r1", "roto", "LX", 4, fecha("2025-03-01"), nil, testBase)
	seedBatch(store, "r2", "roto", "LX", 6, fecha("2025-04-01"), nil, testBase.Add(time.Hour))

	seedProduct(store, "legado", 3, 100)

	runner := &fakeTxRunner{store: store}
	uc := ledger.NewReconcileUseCase(runner, testLogger())

	summary, err := uc.ReconcileAll(context.Background(), &fakeProductRepo{s: store}, testStoreID)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Scanned)
	assert.Equal(t, 1, summary.Repaired)
	assert.Zero(t, summary.Failed)

	assertInvariante(t, store, "sano")
	assertInvariante(t, store, "roto")
	assert.Equal(t, int64(3), store.products["legado"].Stock, "el producto sin lotes queda intacto")
}
