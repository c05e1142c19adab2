package contextkeys

// Custom type to avoid collisions with other packages' context keys.
type contextKey string

// DBContextKey is the key under which *gorm.DB is stored in a request context.
const DBContextKey = contextKey("db")
