package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		full_name VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_email ON users (LOWER(email));`,
	`CREATE TABLE IF NOT EXISTS counterparties (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id),
		name VARCHAR(255) NOT NULL,
		inn VARCHAR(32) NOT NULL DEFAULT '',
		kpp VARCHAR(32) NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		phone VARCHAR(64) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_counterparties_owner_inn
		ON counterparties (owner_id, inn) WHERE inn <> '';`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_counterparties_owner_name
		ON counterparties (owner_id, name) WHERE inn = '';`,
	`CREATE TABLE IF NOT EXISTS subdivisions (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id),
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_subdivisions_owner_name ON subdivisions (owner_id, name);`,
	`CREATE TABLE IF NOT EXISTS motors (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id),
		name VARCHAR(255) NOT NULL,
		manufacturer VARCHAR(255) NOT NULL DEFAULT '',
		power_kw NUMERIC(10,2) NOT NULL DEFAULT 0,
		rpm INTEGER NOT NULL DEFAULT 0,
		voltage VARCHAR(64) NOT NULL DEFAULT '',
		inventory_number VARCHAR(64) NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_motors_owner_name ON motors (owner_id, name);`,
	`CREATE TABLE IF NOT EXISTS receptions (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id),
		number VARCHAR(64) NOT NULL,
		reception_date DATE NOT NULL,
		counterparty_id UUID REFERENCES counterparties(id),
		counterparty_name VARCHAR(255) NOT NULL DEFAULT '',
		subdivision_name VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_receptions_owner_number ON receptions (owner_id, number);`,
	`CREATE TABLE IF NOT EXISTS accepted_motors (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id),
		reception_id UUID NOT NULL REFERENCES receptions(id) ON DELETE CASCADE,
		motor_id UUID REFERENCES motors(id),
		position_number INTEGER NOT NULL,
		service_description TEXT NOT NULL DEFAULT '',
		inventory_number VARCHAR(64) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_accepted_motors_reception_position
		ON accepted_motors (reception_id, position_number);`,
	`CREATE TABLE IF NOT EXISTS upd_documents (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id),
		number VARCHAR(64) NOT NULL,
		upd_date DATE NOT NULL,
		counterparty_id UUID REFERENCES counterparties(id),
		counterparty_name VARCHAR(255) NOT NULL DEFAULT '',
		status VARCHAR(32) NOT NULL DEFAULT 'В работе',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_upd_documents_owner_number ON upd_documents (owner_id, number);`,
	`CREATE TABLE IF NOT EXISTS reception_items (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id),
		reception_id UUID NOT NULL REFERENCES receptions(id) ON DELETE CASCADE,
		reception_number VARCHAR(64) NOT NULL DEFAULT '',
		reception_date DATE,
		counterparty_name VARCHAR(255) NOT NULL DEFAULT '',
		subdivision_name VARCHAR(255) NOT NULL DEFAULT '',
		position_number INTEGER NOT NULL,
		service_description TEXT NOT NULL DEFAULT '',
		item_name TEXT NOT NULL,
		work_group VARCHAR(255) NOT NULL DEFAULT '',
		transaction_type VARCHAR(32) NOT NULL,
		price NUMERIC(18,2) NOT NULL DEFAULT 0,
		quantity NUMERIC(18,3) NOT NULL DEFAULT 0,
		inventory_number VARCHAR(64) NOT NULL DEFAULT '',
		motor_id UUID REFERENCES motors(id),
		upd_document_id UUID REFERENCES upd_documents(id),
		upd_document_number VARCHAR(64),
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`ALTER TABLE reception_items ADD COLUMN IF NOT EXISTS sort_order INTEGER NOT NULL DEFAULT 0;`,
	`CREATE INDEX IF NOT EXISTS idx_reception_items_reception_id ON reception_items (reception_id);`,
	`CREATE INDEX IF NOT EXISTS idx_reception_items_upd_document_id
		ON reception_items (upd_document_id) WHERE upd_document_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_reception_items_owner_unlinked
		ON reception_items (owner_id) WHERE upd_document_id IS NULL;`,
	`CREATE TABLE IF NOT EXISTS reception_templates (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id),
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_reception_templates_owner_name
		ON reception_templates (owner_id, name);`,
	`CREATE TABLE IF NOT EXISTS reception_template_items (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		template_id UUID NOT NULL REFERENCES reception_templates(id) ON DELETE CASCADE,
		item_name TEXT NOT NULL,
		work_group VARCHAR(255) NOT NULL DEFAULT '',
		transaction_type VARCHAR(32) NOT NULL,
		price NUMERIC(18,2) NOT NULL DEFAULT 0,
		quantity NUMERIC(18,3) NOT NULL DEFAULT 0,
		sort_order INTEGER NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS wires (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id),
		brand VARCHAR(255) NOT NULL,
		diameter NUMERIC(10,3) NOT NULL DEFAULT 0,
		price NUMERIC(18,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS bearings (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id),
		number VARCHAR(64) NOT NULL,
		kind VARCHAR(255) NOT NULL DEFAULT '',
		price NUMERIC(18,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS impellers (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id),
		name VARCHAR(255) NOT NULL,
		size VARCHAR(64) NOT NULL DEFAULT '',
		price NUMERIC(18,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS labor_payments (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id),
		name VARCHAR(255) NOT NULL,
		price NUMERIC(18,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS special_documents (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id),
		name VARCHAR(255) NOT NULL,
		number VARCHAR(64) NOT NULL DEFAULT '',
		doc_date DATE,
		comment TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS reference_types (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		slug VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_reference_types_slug ON reference_types (slug);`,
	`INSERT INTO reference_types (slug, name) VALUES
		('motors', 'Двигатели'),
		('counterparties', 'Контрагенты'),
		('subdivisions', 'Подразделения'),
		('wires', 'Провода'),
		('bearings', 'Подшипники'),
		('impellers', 'Рабочие колеса'),
		('labor-payments', 'Оплата труда')
	ON CONFLICT (slug) DO NOTHING;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
