package store

type (
	DB    struct{}
	Store struct{}
)

// @provider
func NewStore(db *DB) *Store {
	return &Store{}
}
