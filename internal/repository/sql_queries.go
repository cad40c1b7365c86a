package repository

const UpsertReportSQL = `
	INSERT INTO reports (
		id, reporter_name, address, phone_number, email, service_type,
		channel_affected, internet_details, interference_type, description,
		time_observed, status, assigned_technician_id, assigned_at,
		technician_notes, resolved_at, version, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	ON CONFLICT (id) DO UPDATE SET
		status = EXCLUDED.status,
		assigned_technician_id = EXCLUDED.assigned_technician_id,
		assigned_at = EXCLUDED.assigned_at,
		technician_notes = EXCLUDED.technician_notes,
		resolved_at = EXCLUDED.resolved_at,
		version = EXCLUDED.version,
		updated_at = EXCLUDED.updated_at
`

const UpsertTechnicianSQL = `
	INSERT INTO technicians (id, name, specialization, contact_number, email, is_available, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE SET
		is_available = EXCLUDED.is_available,
		updated_at = EXCLUDED.updated_at
`

const InsertHistorySQL = `
	INSERT INTO report_history (id, report_id, changed_by_id, change_type, old_value, new_value, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

const SelectReportsSQL = `
	SELECT id, reporter_name, address, phone_number, email, service_type,
		channel_affected, internet_details, interference_type, description,
		time_observed, status, assigned_technician_id, assigned_at,
		technician_notes, resolved_at, version, created_at, updated_at
	FROM reports ORDER BY id
`

const SelectTechniciansSQL = `
	SELECT id, name, specialization, contact_number, email, is_available, created_at, updated_at
	FROM technicians ORDER BY id
`

const SelectHistorySQL = `
	SELECT id, report_id, changed_by_id, change_type, old_value, new_value, created_at
	FROM report_history ORDER BY id
`

const InsertUserSQL = `
	INSERT INTO users (id, username, email, password_hash, role, first_name, last_name, department, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

const SelectUserByIDSQL = `
	SELECT id, username, email, password_hash, role, first_name, last_name, department, created_at, updated_at
	FROM users WHERE id = $1
`

const SelectUserByUsernameSQL = `
	SELECT id, username, email, password_hash, role, first_name, last_name, department, created_at, updated_at
	FROM users WHERE username = $1
`
