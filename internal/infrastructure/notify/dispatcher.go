package notify

import (
	"sync"

	"github.com/tu-usuario/tienda-pos/internal/application/ledger"
	"github.com/tu-usuario/tienda-pos/pkg/logger"
)

// Hook es un receptor de cambios de stock. Su error solo se registra en log:
// nunca llega al caso de uso que originó el cambio.
type Hook func(storeID string) error

// Ensure Dispatcher implements ledger.StockNotifier.
var _ ledger.StockNotifier = (*Dispatcher)(nil)

// Dispatcher entrega notificaciones de cambio de stock de forma asíncrona:
// un worker drena un canal con buffer y ejecuta los hooks registrados.
// Fire-and-forget: si el buffer está lleno la notificación se descarta con un
// warning, para que un receptor lento jamás bloquee una mutación de stock.
type Dispatcher struct {
	ch     chan string
	hooks  []Hook
	log    *logger.Logger
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher construye el dispatcher y arranca su worker.
func NewDispatcher(log *logger.Logger, hooks ...Hook) *Dispatcher {
	d := &Dispatcher{
		ch:    make(chan string, 256),
		hooks: hooks,
		log:   log,
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// StockChanged encola la notificación sin bloquear. Tras Close la notificación
// se descarta con un warning en vez de enviar sobre un canal cerrado.
func (d *Dispatcher) StockChanged(storeID string) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn().Str("store_id", storeID).Msg("dispatcher cerrado, notificación descartada")
		return
	}
	select {
	case d.ch <- storeID:
	default:
		d.log.Warn().Str("store_id", storeID).Msg("buffer de notificaciones lleno, notificación descartada")
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for storeID := range d.ch {
		for _, hook := range d.hooks {
			if err := hook(storeID); err != nil {
				d.log.Error().Err(err).Str("store_id", storeID).Msg("hook de notificación falló")
			}
		}
	}
}

// Close cierra el canal y espera a que el worker drene lo pendiente.
// Es idempotente y deja el dispatcher en modo descarte.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
