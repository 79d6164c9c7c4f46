package postgres

import (
	"context"
	"fmt"
)

// schema tablas del catálogo y del estado operativo. Idempotente.
const schema = `
CREATE TABLE IF NOT EXISTS materials (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	unit_cost      NUMERIC(18,4) NOT NULL DEFAULT 0,
	stock_quantity BIGINT NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
	reorder_point  BIGINT NOT NULL DEFAULT 0,
	lead_time_days INT NOT NULL DEFAULT 0,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS boms (
	id          TEXT PRIMARY KEY,
	product_id  TEXT NOT NULL,
	version     TEXT NOT NULL DEFAULT '1',
	labor_hours NUMERIC(12,4) NOT NULL DEFAULT 0,
	notes       TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS bom_components (
	bom_id      TEXT NOT NULL REFERENCES boms(id),
	material_id TEXT NOT NULL REFERENCES materials(id),
	quantity    BIGINT NOT NULL CHECK (quantity > 0),
	PRIMARY KEY (bom_id, material_id)
);
CREATE TABLE IF NOT EXISTS bom_resource_requirements (
	bom_id            TEXT NOT NULL REFERENCES boms(id),
	position          INT NOT NULL,
	type              TEXT NOT NULL,
	capacity_per_hour NUMERIC(12,4) NOT NULL,
	PRIMARY KEY (bom_id, position)
);
CREATE TABLE IF NOT EXISTS resources (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	type              TEXT NOT NULL,
	capacity_per_hour NUMERIC(12,4) NOT NULL DEFAULT 1,
	cost_per_hour     NUMERIC(18,4) NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS resource_availability (
	resource_id TEXT NOT NULL REFERENCES resources(id),
	start_at    TIMESTAMPTZ NOT NULL,
	end_at      TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (resource_id, start_at)
);
CREATE TABLE IF NOT EXISTS resource_slots (
	resource_id TEXT NOT NULL REFERENCES resources(id),
	slot_start  TIMESTAMPTZ NOT NULL,
	busy        BOOLEAN NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (resource_id, slot_start)
);
CREATE TABLE IF NOT EXISTS workflows (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS workflow_steps (
	workflow_id        TEXT NOT NULL REFERENCES workflows(id),
	position           INT NOT NULL,
	id                 TEXT NOT NULL,
	name               TEXT NOT NULL,
	description        TEXT NOT NULL DEFAULT '',
	estimated_duration INT NOT NULL CHECK (estimated_duration > 0),
	required_resources TEXT[] NOT NULL DEFAULT '{}',
	predecessor_steps  TEXT[] NOT NULL DEFAULT '{}',
	PRIMARY KEY (workflow_id, id)
);
CREATE TABLE IF NOT EXISTS work_orders (
	id                    TEXT PRIMARY KEY,
	bom_id                TEXT NOT NULL REFERENCES boms(id),
	project_id            TEXT NOT NULL DEFAULT '',
	status                TEXT NOT NULL,
	quantity              BIGINT NOT NULL CHECK (quantity > 0),
	start_date            TIMESTAMPTZ NOT NULL,
	end_date              TIMESTAMPTZ NOT NULL,
	assigned_resources    TEXT[] NOT NULL DEFAULT '{}',
	actual_labor_hours    NUMERIC(12,4) NOT NULL DEFAULT 0,
	actual_material_usage JSONB NOT NULL DEFAULT '{}',
	reservation_id        TEXT NOT NULL DEFAULT '',
	booking_id            TEXT NOT NULL DEFAULT '',
	created_at            TIMESTAMPTZ NOT NULL,
	updated_at            TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_work_orders_project ON work_orders(project_id);
CREATE TABLE IF NOT EXISTS projects (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	start_date  TIMESTAMPTZ NOT NULL,
	end_date    TIMESTAMPTZ NOT NULL,
	workflow    JSONB NOT NULL,
	budget      NUMERIC(18,4) NOT NULL DEFAULT 0,
	actual_cost NUMERIC(18,4) NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS time_entries (
	id                   TEXT PRIMARY KEY,
	resource_id          TEXT NOT NULL,
	project_id           TEXT NOT NULL,
	work_order_id        TEXT NOT NULL DEFAULT '',
	start_time           TIMESTAMPTZ NOT NULL,
	end_time             TIMESTAMPTZ NOT NULL,
	activity_description TEXT NOT NULL DEFAULT '',
	created_at           TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_time_entries_project ON time_entries(project_id, start_time);
CREATE TABLE IF NOT EXISTS expense_entries (
	id          TEXT PRIMARY KEY,
	project_id  TEXT NOT NULL,
	amount      NUMERIC(18,4) NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	date        TIMESTAMPTZ NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_expense_entries_project ON expense_entries(project_id, date);
CREATE TABLE IF NOT EXISTS inventory_movements (
	id             TEXT PRIMARY KEY,
	reservation_id TEXT NOT NULL DEFAULT '',
	material_id    TEXT NOT NULL,
	type           TEXT NOT NULL,
	quantity       BIGINT NOT NULL,
	stock_after    BIGINT NOT NULL,
	date           TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_inventory_movements_material ON inventory_movements(material_id, date);
`

// Migrate crea las tablas que falten.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrar esquema: %w", err)
	}
	return nil
}
