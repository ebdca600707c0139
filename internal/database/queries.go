package database

// Event store queries
const (
	InsertEventSQL = `
		INSERT INTO events (id, event_type, payload)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	SelectEventsByTypeSQL = `
		SELECT id, payload, created_at
		FROM events
		WHERE event_type = $1
		ORDER BY created_at ASC, id ASC`

	CountEventsByTypeSQL = `
		SELECT COUNT(*) FROM events WHERE event_type = $1`
)
