package imagestore

import "context"

// Stored is the reference kept on the account record; the bytes live in
// the object store only.
type Stored struct {
	URL string
	Key string
}

type Store interface {
	Upload(ctx context.Context, data []byte) (Stored, error)
	Delete(ctx context.Context, key string) error
}
