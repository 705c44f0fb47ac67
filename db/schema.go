// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation and initialization
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS companies (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	domain TEXT,
	industry TEXT,
	notes TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_companies_name ON companies(name);

CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	phone_mobile TEXT NOT NULL DEFAULT '',
	phone_landline TEXT NOT NULL DEFAULT '',
	job_title TEXT NOT NULL DEFAULT '',
	company_id TEXT,
	address TEXT NOT NULL DEFAULT '',
	preferred_language TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'nuevo' CHECK(status IN ('nuevo', 'contactado', 'calificado', 'cliente', 'inactivo', 'descartado')),
	total_revenue_generated REAL NOT NULL DEFAULT 0,
	notes TEXT NOT NULL DEFAULT '',
	last_contacted_at DATETIME,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (company_id) REFERENCES companies(id)
);

CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email);
CREATE INDEX IF NOT EXISTS idx_contacts_company_id ON contacts(company_id);
CREATE INDEX IF NOT EXISTS idx_contacts_status ON contacts(status);

CREATE TABLE IF NOT EXISTS opportunities (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	amount INTEGER NOT NULL DEFAULT 0,
	currency TEXT NOT NULL DEFAULT 'EUR',
	status TEXT NOT NULL DEFAULT 'abierto' CHECK(status IN ('abierto', 'ganado', 'perdido', 'descartado')),
	stage TEXT NOT NULL DEFAULT '',
	company_id TEXT,
	contact_id TEXT,
	expected_close_date DATE,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (company_id) REFERENCES companies(id),
	FOREIGN KEY (contact_id) REFERENCES contacts(id)
);

CREATE INDEX IF NOT EXISTS idx_opportunities_status ON opportunities(status);
CREATE INDEX IF NOT EXISTS idx_opportunities_contact_id ON opportunities(contact_id);
CREATE INDEX IF NOT EXISTS idx_opportunities_company_id ON opportunities(company_id);

CREATE TABLE IF NOT EXISTS activities (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL,
	type TEXT NOT NULL CHECK(type IN ('tarea', 'llamada', 'email', 'reunion', 'nota')),
	status TEXT NOT NULL DEFAULT 'pendiente',
	subject TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	due_at DATETIME,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_activities_contact ON activities(contact_id);
CREATE INDEX IF NOT EXISTS idx_activities_created_at ON activities(created_at DESC);

CREATE TABLE IF NOT EXISTS automations (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	trigger_type TEXT NOT NULL DEFAULT '',
	active INTEGER NOT NULL DEFAULT 0,
	definition TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_automations_trigger ON automations(trigger_type);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
