package notify_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/tienda-pos/internal/infrastructure/notify"
	"github.com/tu-usuario/tienda-pos/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// TestDispatcher_EntregaATodosLosHooks: cada notificación llega a todos los
// hooks registrados, con el storeID correcto, antes de que Close retorne.
func TestDispatcher_EntregaATodosLosHooks(t *testing.T) {
	var mu sync.Mutex
	var recibidosA, recibidosB []string

	d := notify.NewDispatcher(testLogger(),
		func(storeID string) error {
			mu.Lock()
			defer mu.Unlock()
			recibidosA = append(recibidosA, storeID)
			return nil
		},
		func(storeID string) error {
			mu.Lock()
			defer mu.Unlock()
			recibidosB = append(recibidosB, storeID)
			return nil
		},
	)

	d.StockChanged("tienda-1")
	d.StockChanged("tienda-2")
	d.Close()

	assert.Equal(t, []string{"tienda-1", "tienda-2"}, recibidosA)
	assert.Equal(t, []string{"tienda-1", "tienda-2"}, recibidosB)
}

// TestDispatcher_HookConErrorNoDetieneElResto: un hook que falla no impide que
// los siguientes reciban la notificación.
func TestDispatcher_HookConErrorNoDetieneElResto(t *testing.T) {
	var mu sync.Mutex
	entregadas := 0

	d := notify.NewDispatcher(testLogger(),
		func(string) error { return errors.New("receptor caído") },
		func(string) error {
			mu.Lock()
			defer mu.Unlock()
			entregadas++
			return nil
		},
	)

	d.StockChanged("tienda-1")
	d.Close()

	assert.Equal(t, 1, entregadas, "el segundo hook recibe aunque el primero falle")
}

// TestDispatcher_NotificarTrasCloseSeDescarta: una notificación después de
// Close no entra en pánico ni llega a los hooks.
func TestDispatcher_NotificarTrasCloseSeDescarta(t *testing.T) {
	var mu sync.Mutex
	entregadas := 0

	d := notify.NewDispatcher(testLogger(), func(string) error {
		mu.Lock()
		defer mu.Unlock()
		entregadas++
		return nil
	})
	d.StockChanged("tienda-1")
	d.Close()

	assert.NotPanics(t, func() { d.StockChanged("tienda-2") })
	assert.Equal(t, 1, entregadas, "la notificación posterior al cierre se descarta")
}

// TestDispatcher_CloseEsIdempotente: cerrar dos veces no entra en pánico.
func TestDispatcher_CloseEsIdempotente(t *testing.T) {
	d := notify.NewDispatcher(testLogger())
	d.StockChanged("tienda-1")
	d.Close()
	assert.NotPanics(t, func() { d.Close() })
}

// TestDispatcher_SinHooks: notificar sin hooks registrados es inofensivo.
func TestDispatcher_SinHooks(t *testing.T) {
	d := notify.NewDispatcher(testLogger())
	d.StockChanged("tienda-1")
	d.Close()
}
