// Package memory provides an in-memory implementation of the core persistence
// store used for tests, ephemeral environments and as the working set of the
// SQL-backed stores.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"shipyard/pkg/domain"
)

// Compile-time contract assertions ensuring memory.Store adheres to the domain persistence interfaces.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Material aliases domain.Material for in-memory persistence operations.
	Material = domain.Material
	// Ship aliases domain.Ship.
	Ship = domain.Ship
	// MaterialCost aliases domain.MaterialCost.
	MaterialCost = domain.MaterialCost
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

// CommitHook is invoked with the recorded changes of a transaction after the
// rules engine accepted it and before the new state is published. A non-nil
// error aborts the commit. Hooks of concurrent transactions may run in
// parallel; the hook's backend must reject conflicting writes with a
// domain.ConstraintViolationError so the transaction is retried.
type CommitHook func(ctx context.Context, changes []Change) error

type memoryState struct {
	materials      map[int64]Material
	ships          map[int64]Ship
	costs          map[domain.CostKey]MaterialCost
	nextMaterialID int64
	nextShipID     int64
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Materials      map[int64]Material `json:"materials"`
	Ships          map[int64]Ship     `json:"ships"`
	Costs          []MaterialCost     `json:"costs"`
	NextMaterialID int64              `json:"next_material_id"`
	NextShipID     int64              `json:"next_ship_id"`
}

func newMemoryState() memoryState {
	return memoryState{
		materials: make(map[int64]Material),
		ships:     make(map[int64]Ship),
		costs:     make(map[domain.CostKey]MaterialCost),
	}
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	s := Snapshot{
		Materials:      make(map[int64]Material, len(state.materials)),
		Ships:          make(map[int64]Ship, len(state.ships)),
		Costs:          sortedCosts(state.costs, nil),
		NextMaterialID: state.nextMaterialID,
		NextShipID:     state.nextShipID,
	}
	for k, v := range state.materials {
		s.Materials[k] = cloneMaterial(v)
	}
	for k, v := range state.ships {
		s.Ships[k] = cloneShip(v)
	}
	return s
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for k, v := range s.Materials {
		state.materials[k] = cloneMaterial(v)
	}
	for k, v := range s.Ships {
		state.ships[k] = cloneShip(v)
	}
	for _, c := range s.Costs {
		state.costs[c.Key()] = c
	}
	state.nextMaterialID = s.NextMaterialID
	state.nextShipID = s.NextShipID
	return state
}

// migrateSnapshot normalises imported snapshots: nil maps are initialised,
// record keys are aligned with embedded IDs and ID counters never fall behind
// the highest stored ID. Dangling or duplicate line items fail the import.
func migrateSnapshot(snapshot Snapshot) (Snapshot, error) {
	migrated := Snapshot{
		Materials:      make(map[int64]Material, len(snapshot.Materials)),
		Ships:          make(map[int64]Ship, len(snapshot.Ships)),
		NextMaterialID: snapshot.NextMaterialID,
		NextShipID:     snapshot.NextShipID,
	}
	for id, m := range snapshot.Materials {
		if m.ID == 0 {
			m.ID = id
		}
		m.Costs = nil
		migrated.Materials[m.ID] = m
		if m.ID > migrated.NextMaterialID {
			migrated.NextMaterialID = m.ID
		}
	}
	for id, sh := range snapshot.Ships {
		if sh.ID == 0 {
			sh.ID = id
		}
		sh.Costs = nil
		migrated.Ships[sh.ID] = sh
		if sh.ID > migrated.NextShipID {
			migrated.NextShipID = sh.ID
		}
	}
	seen := make(map[domain.CostKey]struct{}, len(snapshot.Costs))
	for _, c := range snapshot.Costs {
		_, dup := seen[c.Key()]
		var detail string
		switch {
		case !hasShip(migrated, c.ShipID):
			detail = fmt.Sprintf("line item for material %d references missing ship %d", c.MaterialID, c.ShipID)
		case !hasMaterial(migrated, c.MaterialID):
			detail = fmt.Sprintf("ship %d references missing material %d", c.ShipID, c.MaterialID)
		case dup:
			detail = fmt.Sprintf("ship %d lists material %d more than once", c.ShipID, c.MaterialID)
		}
		if detail != "" {
			return Snapshot{}, domain.ConstraintViolationError{Entity: domain.EntityMaterialCost, ID: c.ShipID, Detail: detail}
		}
		seen[c.Key()] = struct{}{}
		migrated.Costs = append(migrated.Costs, c)
	}
	return migrated, nil
}

func hasShip(s Snapshot, id int64) bool {
	_, ok := s.Ships[id]
	return ok
}

func hasMaterial(s Snapshot, id int64) bool {
	_, ok := s.Materials[id]
	return ok
}

func (s memoryState) clone() memoryState {
	cloned := memoryState{
		materials:      make(map[int64]Material, len(s.materials)),
		ships:          make(map[int64]Ship, len(s.ships)),
		costs:          make(map[domain.CostKey]MaterialCost, len(s.costs)),
		nextMaterialID: s.nextMaterialID,
		nextShipID:     s.nextShipID,
	}
	for k, v := range s.materials {
		cloned.materials[k] = v
	}
	for k, v := range s.ships {
		cloned.ships[k] = cloneShip(v)
	}
	for k, v := range s.costs {
		cloned.costs[k] = v
	}
	return cloned
}

// replay applies committed change records on top of the state. It is used to
// rebase a transaction whose commit hook succeeded after another transaction
// published.
func (s *memoryState) replay(changes []Change) {
	for _, change := range changes {
		switch change.Entity {
		case domain.EntityMaterial:
			if m, ok := change.After.(Material); ok && change.Action != domain.ActionDelete {
				s.materials[m.ID] = m
				s.nextMaterialID = max(s.nextMaterialID, m.ID)
			} else if m, ok := change.Before.(Material); ok && change.Action == domain.ActionDelete {
				delete(s.materials, m.ID)
			}
		case domain.EntityShip:
			if sh, ok := change.After.(Ship); ok && change.Action != domain.ActionDelete {
				s.ships[sh.ID] = cloneShip(sh)
				s.nextShipID = max(s.nextShipID, sh.ID)
			} else if sh, ok := change.Before.(Ship); ok && change.Action == domain.ActionDelete {
				delete(s.ships, sh.ID)
				for key := range s.costs {
					if key.ShipID == sh.ID {
						delete(s.costs, key)
					}
				}
			}
		case domain.EntityMaterialCost:
			if c, ok := change.After.(MaterialCost); ok && change.Action == domain.ActionCreate {
				s.costs[c.Key()] = c
			} else if c, ok := change.Before.(MaterialCost); ok && change.Action == domain.ActionDelete {
				delete(s.costs, c.Key())
			}
		}
	}
}

func cloneMaterial(m Material) Material {
	m.Costs = nil
	return m
}

func cloneShip(s Ship) Ship {
	if s.Description != nil {
		desc := *s.Description
		s.Description = &desc
	}
	s.Costs = nil
	return s
}

// sortedCosts returns the line items accepted by keep (all when nil) ordered
// by ship id then material id.
func sortedCosts(costs map[domain.CostKey]MaterialCost, keep func(MaterialCost) bool) []MaterialCost {
	out := make([]MaterialCost, 0)
	for _, c := range costs {
		if keep == nil || keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ShipID != out[j].ShipID {
			return out[i].ShipID < out[j].ShipID
		}
		return out[i].MaterialID < out[j].MaterialID
	})
	return out
}

func sortedMaterials(materials map[int64]Material) []Material {
	out := make([]Material, 0, len(materials))
	for _, m := range materials {
		out = append(out, cloneMaterial(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedShips(ships map[int64]Ship) []Ship {
	out := make([]Ship, 0, len(ships))
	for _, s := range ships {
		out = append(out, cloneShip(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Store provides an in-memory transactional store for the core domain.
//
// Committed state is immutable and published through an atomic pointer, so
// readers never wait on writers. Transactions run optimistically against a
// clone of the state they started from. Without a commit hook the publish is
// a compare-and-swap that re-runs the transaction when another one won. With
// a hook, the hook runs outside every lock and its backend arbitrates
// conflicts; accepted changes are rebased onto whatever was published in the
// meantime.
type Store struct {
	state    atomic.Pointer[memoryState]
	commitMu sync.Mutex // serialises publication only
	inflight atomic.Int64
	settled  settleSignal

	mu     sync.RWMutex // guards engine, nowFn and hook
	engine *RulesEngine
	nowFn  func() time.Time
	hook   CommitHook
}

// settleSignal wakes waiters each time an in-flight commit hook finishes.
type settleSignal struct {
	mu sync.Mutex
	ch chan struct{}
}

func (s *settleSignal) wait() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

func (s *settleSignal) broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil {
		close(s.ch)
		s.ch = nil
	}
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	s := &Store{
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
	initial := newMemoryState()
	s.state.Store(&initial)
	return s
}

// SetCommitHook installs the hook invoked before each commit is published.
func (s *Store) SetCommitHook(hook CommitHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = hook
}

// SetNowFunc overrides the clock used to stamp created and updated times.
func (s *Store) SetNowFunc(fn func() time.Time) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = fn
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	return snapshotFromMemoryState(*s.state.Load())
}

// ImportState replaces the store state with the provided snapshot. A snapshot
// holding dangling or duplicate line items is rejected with a
// domain.ConstraintViolationError and the current state is kept.
func (s *Store) ImportState(snapshot Snapshot) error {
	migrated, err := migrateSnapshot(snapshot)
	if err != nil {
		return err
	}
	next := memoryStateFromSnapshot(migrated)
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	s.state.Store(&next)
	return nil
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the in-memory store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

func (s *Store) settings() (*RulesEngine, func() time.Time, CommitHook) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine, s.nowFn, s.hook
}

// Transaction represents a mutation set applied to the store state.
type transaction struct {
	state   memoryState
	changes []Change
	now     time.Time
}

// TransactionView exposes a read-only snapshot of the transactional state to rules.
type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) TransactionView {
	return transactionView{state: state}
}

// ListMaterials returns all materials ordered by ID.
func (v transactionView) ListMaterials() []Material {
	return sortedMaterials(v.state.materials)
}

// ListShips returns all ships ordered by ID.
func (v transactionView) ListShips() []Ship {
	return sortedShips(v.state.ships)
}

// ListMaterialCosts returns every line item ordered by ship then material.
func (v transactionView) ListMaterialCosts() []MaterialCost {
	return sortedCosts(v.state.costs, nil)
}

// FindMaterial retrieves a material by ID.
func (v transactionView) FindMaterial(id int64) (Material, bool) {
	m, ok := v.state.materials[id]
	if !ok {
		return Material{}, false
	}
	return cloneMaterial(m), true
}

// FindShip retrieves a ship by ID.
func (v transactionView) FindShip(id int64) (Ship, bool) {
	s, ok := v.state.ships[id]
	if !ok {
		return Ship{}, false
	}
	return cloneShip(s), true
}

// ListShipCosts returns the ship's ledger ordered by material ID.
func (v transactionView) ListShipCosts(shipID int64) []MaterialCost {
	return sortedCosts(v.state.costs, func(c MaterialCost) bool { return c.ShipID == shipID })
}

// ListMaterialUsage returns the line items referencing a material ordered by ship ID.
func (v transactionView) ListMaterialUsage(materialID int64) []MaterialCost {
	return sortedCosts(v.state.costs, func(c MaterialCost) bool { return c.MaterialID == materialID })
}

// MaterialIDs returns a copy of the known material ID set.
func (v transactionView) MaterialIDs() map[int64]struct{} {
	ids := make(map[int64]struct{}, len(v.state.materials))
	for id := range v.state.materials {
		ids[id] = struct{}{}
	}
	return ids
}

// RunInTransaction executes fn within a transactional copy of the store state.
// The copy is published only when fn succeeds, no blocking rule violation is
// reported and the commit hook (if any) accepts the changes. fn may run more
// than once when a concurrent transaction commits first, so it must not have
// side effects beyond the transaction and its own captured results.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	engine, nowFn, hook := s.settings()
	for {
		base := s.state.Load()
		tx := &transaction{
			state: base.clone(),
			now:   nowFn(),
		}

		if err := fn(tx); err != nil {
			return Result{}, err
		}

		var result Result
		if engine != nil {
			res, err := engine.Evaluate(ctx, newTransactionView(&tx.state), tx.changes)
			if err != nil {
				return Result{}, err
			}
			result = res
			if res.HasBlocking() {
				return res, domain.RuleViolationError{Result: res}
			}
		}

		if len(tx.changes) == 0 {
			return result, nil
		}
		if hook == nil {
			if s.publish(base, tx, false) {
				return result, nil
			}
		} else {
			retry, err := s.commitWithHook(ctx, hook, base, tx)
			if !retry {
				return result, err
			}
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
	}
}

// publish installs the transaction state. When another transaction published
// since base, the state is either rebased (replaying the transaction's
// changes onto the latest state) or refused so the caller retries.
func (s *Store) publish(base *memoryState, tx *transaction, rebase bool) bool {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	latest := s.state.Load()
	next := &tx.state
	if latest != base {
		if !rebase {
			return false
		}
		merged := latest.clone()
		merged.replay(tx.changes)
		next = &merged
	}
	s.state.Store(next)
	return true
}

// commitWithHook runs the hook and publishes on success. It reports retry
// when the hook rejected the changes with a constraint violation that a
// concurrent commit may have caused.
func (s *Store) commitWithHook(ctx context.Context, hook CommitHook, base *memoryState, tx *transaction) (bool, error) {
	s.inflight.Add(1)
	err := hook(ctx, tx.changes)
	if err == nil {
		s.publish(base, tx, true)
	}
	s.inflight.Add(-1)
	s.settled.broadcast()
	if err == nil {
		return false, nil
	}

	var cv domain.ConstraintViolationError
	if !errors.As(err, &cv) {
		return false, fmt.Errorf("commit: %w", err)
	}
	settled := s.settled.wait()
	if s.state.Load() != base {
		return true, nil
	}
	if s.inflight.Load() == 0 {
		return false, fmt.Errorf("commit: %w", err)
	}
	select {
	case <-settled:
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// View executes fn against the committed state. Published states are never
// mutated, so no copy or lock is needed.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	return fn(newTransactionView(s.state.Load()))
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

// FindMaterial exposes material lookup within the transaction scope.
func (tx *transaction) FindMaterial(id int64) (Material, bool) {
	return newTransactionView(&tx.state).FindMaterial(id)
}

// FindShip exposes ship lookup within the transaction scope.
func (tx *transaction) FindShip(id int64) (Ship, bool) {
	return newTransactionView(&tx.state).FindShip(id)
}

// CreateMaterial stores a new material, assigning the next ID when unset.
func (tx *transaction) CreateMaterial(m Material) (Material, error) {
	if m.ID == 0 {
		m.ID = tx.state.nextMaterialID + 1
	}
	if _, exists := tx.state.materials[m.ID]; exists {
		return Material{}, fmt.Errorf("material %d already exists", m.ID)
	}
	if m.ID > tx.state.nextMaterialID {
		tx.state.nextMaterialID = m.ID
	}
	m.CreatedAt = tx.now
	m.UpdatedAt = tx.now
	m = cloneMaterial(m)
	tx.state.materials[m.ID] = m
	tx.recordChange(Change{Entity: domain.EntityMaterial, Action: domain.ActionCreate, After: m})
	return m, nil
}

// UpdateMaterial mutates a material using the provided mutator function.
func (tx *transaction) UpdateMaterial(id int64, mutator func(*Material) error) (Material, error) {
	current, ok := tx.state.materials[id]
	if !ok {
		return Material{}, domain.NotFoundError{Entity: domain.EntityMaterial, ID: id}
	}
	before := cloneMaterial(current)
	if err := mutator(&current); err != nil {
		return Material{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	current = cloneMaterial(current)
	tx.state.materials[id] = current
	tx.recordChange(Change{Entity: domain.EntityMaterial, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteMaterial removes a material that no line item references.
func (tx *transaction) DeleteMaterial(id int64) error {
	current, ok := tx.state.materials[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityMaterial, ID: id}
	}
	if usage := newTransactionView(&tx.state).ListMaterialUsage(id); len(usage) > 0 {
		return domain.MaterialInUseError{MaterialID: id, ShipID: usage[0].ShipID}
	}
	delete(tx.state.materials, id)
	tx.recordChange(Change{Entity: domain.EntityMaterial, Action: domain.ActionDelete, Before: cloneMaterial(current)})
	return nil
}

// CreateShip stores a new ship, assigning the next ID when unset.
func (tx *transaction) CreateShip(s Ship) (Ship, error) {
	if s.ID == 0 {
		s.ID = tx.state.nextShipID + 1
	}
	if _, exists := tx.state.ships[s.ID]; exists {
		return Ship{}, fmt.Errorf("ship %d already exists", s.ID)
	}
	if s.ID > tx.state.nextShipID {
		tx.state.nextShipID = s.ID
	}
	s.CreatedAt = tx.now
	s.UpdatedAt = tx.now
	s = cloneShip(s)
	tx.state.ships[s.ID] = s
	tx.recordChange(Change{Entity: domain.EntityShip, Action: domain.ActionCreate, After: cloneShip(s)})
	return cloneShip(s), nil
}

// UpdateShip mutates a ship using the provided mutator function.
func (tx *transaction) UpdateShip(id int64, mutator func(*Ship) error) (Ship, error) {
	current, ok := tx.state.ships[id]
	if !ok {
		return Ship{}, domain.NotFoundError{Entity: domain.EntityShip, ID: id}
	}
	before := cloneShip(current)
	current = cloneShip(current)
	if err := mutator(&current); err != nil {
		return Ship{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	current = cloneShip(current)
	tx.state.ships[id] = current
	tx.recordChange(Change{Entity: domain.EntityShip, Action: domain.ActionUpdate, Before: before, After: cloneShip(current)})
	return cloneShip(current), nil
}

// DeleteShip removes a ship together with its ledger.
func (tx *transaction) DeleteShip(id int64) error {
	current, ok := tx.state.ships[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityShip, ID: id}
	}
	if _, err := tx.DeleteShipCosts(id); err != nil {
		return err
	}
	delete(tx.state.ships, id)
	tx.recordChange(Change{Entity: domain.EntityShip, Action: domain.ActionDelete, Before: cloneShip(current)})
	return nil
}

// CreateMaterialCosts inserts a batch of line items. Every item is checked
// before any is written so a failing batch leaves the transaction untouched.
func (tx *transaction) CreateMaterialCosts(costs []MaterialCost) ([]MaterialCost, error) {
	batch := make(map[domain.CostKey]struct{}, len(costs))
	for _, c := range costs {
		if _, ok := tx.state.ships[c.ShipID]; !ok {
			return nil, domain.NotFoundError{Entity: domain.EntityShip, ID: c.ShipID}
		}
		if _, ok := tx.state.materials[c.MaterialID]; !ok {
			return nil, domain.UnknownMaterialError{MaterialID: c.MaterialID}
		}
		if _, exists := tx.state.costs[c.Key()]; exists {
			return nil, domain.DuplicateMaterialError{MaterialID: c.MaterialID}
		}
		if _, dup := batch[c.Key()]; dup {
			return nil, domain.DuplicateMaterialError{MaterialID: c.MaterialID}
		}
		batch[c.Key()] = struct{}{}
	}
	out := make([]MaterialCost, 0, len(costs))
	for _, c := range costs {
		tx.state.costs[c.Key()] = c
		tx.recordChange(Change{Entity: domain.EntityMaterialCost, Action: domain.ActionCreate, After: c})
		out = append(out, c)
	}
	return out, nil
}

// DeleteShipCosts removes every line item owned by the ship.
func (tx *transaction) DeleteShipCosts(shipID int64) (int, error) {
	if _, ok := tx.state.ships[shipID]; !ok {
		return 0, domain.NotFoundError{Entity: domain.EntityShip, ID: shipID}
	}
	existing := newTransactionView(&tx.state).ListShipCosts(shipID)
	for _, c := range existing {
		delete(tx.state.costs, c.Key())
		tx.recordChange(Change{Entity: domain.EntityMaterialCost, Action: domain.ActionDelete, Before: c})
	}
	return len(existing), nil
}

// Read helpers ---------------------------------------------------------------

// GetMaterial retrieves a material by ID from committed state.
func (s *Store) GetMaterial(id int64) (Material, bool) {
	m, ok := s.state.Load().materials[id]
	if !ok {
		return Material{}, false
	}
	return cloneMaterial(m), true
}

// ListMaterials returns all materials from committed state ordered by ID.
func (s *Store) ListMaterials() []Material {
	return sortedMaterials(s.state.Load().materials)
}

// GetShip retrieves a ship by ID from committed state.
func (s *Store) GetShip(id int64) (Ship, bool) {
	sh, ok := s.state.Load().ships[id]
	if !ok {
		return Ship{}, false
	}
	return cloneShip(sh), true
}

// ListShips returns all ships from committed state ordered by ID.
func (s *Store) ListShips() []Ship {
	return sortedShips(s.state.Load().ships)
}

// ListMaterialCosts returns every committed line item.
func (s *Store) ListMaterialCosts() []MaterialCost {
	return sortedCosts(s.state.Load().costs, nil)
}
