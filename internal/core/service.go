package core

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"shipyard/internal/infra/persistence/memory"
	"shipyard/pkg/domain"
)

// Service exposes the transactional fleet operations: material pricing,
// ship lifecycle and bill-of-materials replacement.
type Service struct {
	store         PersistentStore
	logger        *zap.Logger
	metrics       MetricsRecorder
	tracer        Tracer
	now           func() time.Time
	shipLocks     *keyedMutex
	materialLocks *keyedMutex
}

// ServiceOption configures optional Service collaborators.
type ServiceOption func(*Service)

// WithLogger sets the logger used for operation outcomes.
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder sets the recorder observing every operation.
func WithMetricsRecorder(rec MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithTracer sets the tracer wrapping every operation in a span.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithClock overrides the clock used for timings and, when the store
// accepts one, for record timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now == nil {
			return
		}
		s.now = now
		if clocked, ok := s.store.(interface{ SetNowFunc(func() time.Time) }); ok {
			clocked.SetNowFunc(now)
		}
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...ServiceOption) *Service {
	svc := &Service{
		store:         store,
		logger:        zap.NewNop(),
		metrics:       noopMetricsRecorder{},
		tracer:        noopTracer{},
		now:           time.Now,
		shipLocks:     newKeyedMutex(),
		materialLocks: newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// NewInMemoryService creates a service over a fresh in-memory store.
func NewInMemoryService(engine *RulesEngine, opts ...ServiceOption) *Service {
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

func (s *Service) run(ctx context.Context, op string, fn func(context.Context) error, fields ...zap.Field) error {
	ctx, span := s.tracer.Start(ctx, op)
	started := s.now()
	err := fn(ctx)
	elapsed := s.now().Sub(started)
	s.metrics.Observe(ctx, op, err == nil, elapsed)
	span.End(err)

	fields = append(fields, zap.String("operation", op), zap.Duration("duration", elapsed))
	switch {
	case err == nil:
		s.logger.Debug("operation completed", fields...)
	case isCallerError(err):
		s.logger.Warn("operation rejected", append(fields, zap.Error(err))...)
	default:
		s.logger.Error("operation failed", append(fields, zap.Error(err))...)
	}
	return err
}

// isCallerError reports whether err is an outcome caused by the request
// rather than by the service or its store.
func isCallerError(err error) bool {
	var (
		notFound  domain.NotFoundError
		duplicate domain.DuplicateMaterialError
		unknown   domain.UnknownMaterialError
		inUse     domain.MaterialInUseError
		blocked   domain.RuleViolationError
	)
	return errors.As(err, &notFound) ||
		errors.As(err, &duplicate) ||
		errors.As(err, &unknown) ||
		errors.As(err, &inUse) ||
		errors.As(err, &blocked)
}

// ListMaterials returns every material ordered by id.
func (s *Service) ListMaterials(ctx context.Context) ([]MaterialSummary, error) {
	var out []MaterialSummary
	err := s.run(ctx, "list_materials", func(ctx context.Context) error {
		return s.store.View(ctx, func(view TransactionView) error {
			materials := view.ListMaterials()
			out = make([]MaterialSummary, 0, len(materials))
			for _, m := range materials {
				out = append(out, SummarizeMaterial(m))
			}
			return nil
		})
	})
	return out, err
}

// GetMaterial returns the material with every ship that uses it.
func (s *Service) GetMaterial(ctx context.Context, id int64) (MaterialDetail, error) {
	var detail MaterialDetail
	err := s.run(ctx, "get_material", func(ctx context.Context) error {
		return s.store.View(ctx, func(view TransactionView) error {
			material, ok := view.FindMaterial(id)
			if !ok {
				return domain.NotFoundError{Entity: EntityMaterial, ID: id}
			}
			var err error
			detail, err = DetailMaterial(view, material)
			return err
		})
	}, zap.Int64("material_id", id))
	return detail, err
}

// CreateMaterial stores a new material.
func (s *Service) CreateMaterial(ctx context.Context, input NewMaterial) (MaterialSummary, Result, error) {
	var created Material
	var res Result
	err := s.run(ctx, "create_material", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			created, err = tx.CreateMaterial(Material{Name: input.Name, Price: input.Price})
			return err
		})
		return err
	})
	if err != nil {
		return MaterialSummary{}, res, err
	}
	return SummarizeMaterial(created), res, nil
}

// SetMaterialPrice overwrites the unit price of a material.
func (s *Service) SetMaterialPrice(ctx context.Context, id, price int64) (MaterialSummary, Result, error) {
	release := s.materialLocks.Lock(id)
	defer release()

	var updated Material
	var res Result
	err := s.run(ctx, "set_material_price", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			updated, err = tx.UpdateMaterial(id, func(m *Material) error {
				m.Price = price
				return nil
			})
			return err
		})
		return err
	}, zap.Int64("material_id", id))
	if err != nil {
		return MaterialSummary{}, res, err
	}
	return SummarizeMaterial(updated), res, nil
}

// DeleteMaterial removes a material no ship references.
func (s *Service) DeleteMaterial(ctx context.Context, id int64) (Result, error) {
	release := s.materialLocks.Lock(id)
	defer release()

	var res Result
	err := s.run(ctx, "delete_material", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			return tx.DeleteMaterial(id)
		})
		return err
	}, zap.Int64("material_id", id))
	return res, err
}

// ListShips returns every ship ordered by id.
func (s *Service) ListShips(ctx context.Context) ([]ShipSummary, error) {
	var out []ShipSummary
	err := s.run(ctx, "list_ships", func(ctx context.Context) error {
		return s.store.View(ctx, func(view TransactionView) error {
			ships := view.ListShips()
			out = make([]ShipSummary, 0, len(ships))
			for _, ship := range ships {
				out = append(out, SummarizeShip(ship))
			}
			return nil
		})
	})
	return out, err
}

// GetShip returns the ship with its ledger.
func (s *Service) GetShip(ctx context.Context, id int64) (ShipDetail, error) {
	var detail ShipDetail
	err := s.run(ctx, "get_ship", func(ctx context.Context) error {
		return s.store.View(ctx, func(view TransactionView) error {
			ship, ok := view.FindShip(id)
			if !ok {
				return domain.NotFoundError{Entity: EntityShip, ID: id}
			}
			var err error
			detail, err = DetailShip(view, ship)
			return err
		})
	}, zap.Int64("ship_id", id))
	return detail, err
}

// CreateShip stores a ship together with its initial ledger. The cost set is
// validated before the ship is inserted; ship and ledger commit together.
func (s *Service) CreateShip(ctx context.Context, input NewShip) (ShipDetail, Result, error) {
	var detail ShipDetail
	var res Result
	err := s.run(ctx, "create_ship", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			if err := ValidateCostSet(input.Costs, tx.Snapshot().MaterialIDs()); err != nil {
				return err
			}
			ship, err := tx.CreateShip(Ship{Name: input.Name, Designer: input.Designer, Description: input.Description})
			if err != nil {
				return err
			}
			if _, err := installLedger(tx, ship.ID, input.Costs); err != nil {
				return err
			}
			detail, err = DetailShip(tx.Snapshot(), ship)
			return err
		})
		return err
	})
	if err != nil {
		return ShipDetail{}, res, err
	}
	return detail, res, nil
}

// PatchShip applies the set fields of patch. A cost set in the patch is
// validated before any scalar field changes and then replaces the ledger.
func (s *Service) PatchShip(ctx context.Context, id int64, patch ShipPatch) (ShipDetail, Result, error) {
	release := s.shipLocks.Lock(id)
	defer release()

	var detail ShipDetail
	var res Result
	err := s.run(ctx, "patch_ship", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			ship, ok := tx.FindShip(id)
			if !ok {
				return domain.NotFoundError{Entity: EntityShip, ID: id}
			}
			lines, replaceCosts := patch.Costs.Get()
			if replaceCosts {
				if err := ValidateCostSet(lines, tx.Snapshot().MaterialIDs()); err != nil {
					return err
				}
			}
			if patch.Name.IsSet() || patch.Designer.IsSet() || patch.Description.IsSet() {
				var err error
				ship, err = tx.UpdateShip(id, func(current *Ship) error {
					*current = ApplyShipPatch(*current, patch)
					return nil
				})
				if err != nil {
					return err
				}
			}
			if replaceCosts {
				if _, err := installLedger(tx, id, lines); err != nil {
					return err
				}
			}
			var err error
			detail, err = DetailShip(tx.Snapshot(), ship)
			return err
		})
		return err
	}, zap.Int64("ship_id", id))
	if err != nil {
		return ShipDetail{}, res, err
	}
	return detail, res, nil
}

// DeleteShip removes the ship and its ledger.
func (s *Service) DeleteShip(ctx context.Context, id int64) (Result, error) {
	release := s.shipLocks.Lock(id)
	defer release()

	var res Result
	err := s.run(ctx, "delete_ship", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			return tx.DeleteShip(id)
		})
		return err
	}, zap.Int64("ship_id", id))
	return res, err
}

// ReplaceShipCosts overwrites the ship's whole ledger with lines. Listed
// materials must be distinct and exist; unlisted line items are removed.
func (s *Service) ReplaceShipCosts(ctx context.Context, id int64, lines []CostLine) ([]MaterialCost, Result, error) {
	release := s.shipLocks.Lock(id)
	defer release()

	var costs []MaterialCost
	var res Result
	err := s.run(ctx, "replace_ship_costs", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			costs, err = replaceLedger(tx, id, lines)
			return err
		})
		return err
	}, zap.Int64("ship_id", id), zap.Int("lines", len(lines)))
	if err != nil {
		return nil, res, err
	}
	return costs, res, nil
}
