package queries

const (
	QueryInsertMessage = `
		INSERT INTO messages (name, message)
		VALUES ($1, $2);
	`
	QueryListMessages = `
		SELECT id, name, message, created_at
		FROM messages
		ORDER BY created_at DESC, id DESC;
	`
)
