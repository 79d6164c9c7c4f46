// Package sqlite persiste el estado operativo del scheduler en un archivo SQLite
// (driver puro Go), para despliegues embebidos sin PostgreSQL.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // driver sqlite puro Go

	"github.com/jhoicas/Produccion-api/internal/application/scheduling"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/planning"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var (
	_ scheduling.Committer   = (*Store)(nil)
	_ repository.StateLoader = (*Store)(nil)
)

// Store guarda órdenes (JSON), stock por material y horas de recursos.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// Open abre (o crea) la base en path.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "produccion.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS work_orders (
			id      TEXT PRIMARY KEY,
			status  TEXT NOT NULL,
			payload BLOB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS material_stock (
			material_id TEXT PRIMARY KEY,
			quantity    INTEGER NOT NULL CHECK (quantity >= 0)
		)`,
		`CREATE TABLE IF NOT EXISTS resource_slots (
			resource_id TEXT NOT NULL,
			slot_start  INTEGER NOT NULL,
			busy        INTEGER NOT NULL,
			PRIMARY KEY (resource_id, slot_start)
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create tables: %w", err)
		}
	}
	return &Store{db: db, path: path}, nil
}

// Commit escribe el cambio en una transacción.
func (s *Store) Commit(ctx context.Context, change scheduling.Change) (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if wo := change.WorkOrder; wo != nil {
		payload, err := json.Marshal(wo)
		if err != nil {
			return fmt.Errorf("encode work order: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO work_orders(id, status, payload) VALUES(?,?,?)
			 ON CONFLICT(id) DO UPDATE SET status=excluded.status, payload=excluded.payload`,
			wo.ID, string(wo.Status), payload); err != nil {
			return fmt.Errorf("upsert work order: %w", err)
		}
	}
	for materialID, qty := range change.StockLevels {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO material_stock(material_id, quantity) VALUES(?,?)
			 ON CONFLICT(material_id) DO UPDATE SET quantity=excluded.quantity`,
			materialID, qty); err != nil {
			return fmt.Errorf("upsert stock %s: %w", materialID, err)
		}
	}
	if w := change.Slots; w != nil {
		busy := 0
		if w.Busy {
			busy = 1
		}
		for _, resourceID := range w.ResourceIDs {
			for _, slot := range planning.HourSlots(w.Start, w.End) {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO resource_slots(resource_id, slot_start, busy) VALUES(?,?,?)
					 ON CONFLICT(resource_id, slot_start) DO UPDATE SET busy=excluded.busy`,
					resourceID, slot.Unix(), busy); err != nil {
					return fmt.Errorf("upsert slot %s: %w", resourceID, err)
				}
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadState implementa repository.StateLoader.
func (s *Store) LoadState(ctx context.Context) (*repository.PersistedState, error) {
	state := &repository.PersistedState{StockLevels: make(map[string]int64)}

	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM work_orders`)
	if err != nil {
		return nil, fmt.Errorf("select work orders: %w", err)
	}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan: %w", err)
		}
		var wo entity.WorkOrder
		if err := json.Unmarshal(payload, &wo); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("decode work order: %w", err)
		}
		state.WorkOrders = append(state.WorkOrders, &wo)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stock, err := s.db.QueryContext(ctx, `SELECT material_id, quantity FROM material_stock`)
	if err != nil {
		return nil, fmt.Errorf("select stock: %w", err)
	}
	defer func() { _ = stock.Close() }()
	for stock.Next() {
		var id string
		var qty int64
		if err := stock.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		state.StockLevels[id] = qty
	}
	return state, stock.Err()
}

// BusySlots horas ocupadas persistidas de un recurso (unix, ascendente).
func (s *Store) BusySlots(ctx context.Context, resourceID string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slot_start FROM resource_slots WHERE resource_id = ? AND busy = 1 ORDER BY slot_start`, resourceID)
	if err != nil {
		return nil, fmt.Errorf("select slots: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Close cierra la base.
func (s *Store) Close() error { return s.db.Close() }

// Path devuelve la ruta configurada.
func (s *Store) Path() string { return s.path }
