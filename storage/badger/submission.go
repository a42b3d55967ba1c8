package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/regsight/devaudit/core"
	"github.com/regsight/devaudit/storage"
)

// SubmissionRepository implements storage.SubmissionRepository for BadgerDB.
type SubmissionRepository struct {
	backend *Backend
}

var _ storage.SubmissionRepository = (*SubmissionRepository)(nil)

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(backend *Backend) *SubmissionRepository {
	return &SubmissionRepository{backend: backend}
}

// Close is a no-op; the shared backend owns the database handle.
func (r *SubmissionRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *SubmissionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutSubmissions upserts submissions keyed by submission number.
func (r *SubmissionRepository) PutSubmissions(ctx context.Context, submissions ...*core.Submission) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC().Truncate(time.Microsecond)
		for _, s := range submissions {
			key := makeSubmissionKey(s.Number)

			// Preserve InsertedAt across upserts
			old, err := readSubmission(tx, key)
			if err != nil {
				return err
			}
			if old != nil {
				s.InsertedAt = old.InsertedAt
			} else {
				s.InsertedAt = now
			}
			s.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalSubmission(s)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetSubmission retrieves a submission by number.
func (r *SubmissionRepository) GetSubmission(ctx context.Context, number string) (*core.Submission, error) {
	var result *core.Submission
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readSubmission(tx, makeSubmissionKey(number))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListSubmissions retrieves all submissions ordered by number.
func (r *SubmissionRepository) ListSubmissions(ctx context.Context) ([]*core.Submission, error) {
	var results []*core.Submission
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(submissionPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var s *core.Submission
			err := iter.Item().Value(func(val []byte) error {
				var err error
				s, err = storage.UnmarshalSubmission(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, s)
		}
		return nil
	}, false)
	return results, err
}

// DeleteSubmissions removes submissions by number.
func (r *SubmissionRepository) DeleteSubmissions(ctx context.Context, numbers ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, number := range numbers {
			key := makeSubmissionKey(number)
			old, err := readSubmission(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readSubmission reads a submission from the transaction.
// Returns nil, nil when the key does not exist.
func readSubmission(tx *badger.Txn, key []byte) (*core.Submission, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var s *core.Submission
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		s, unmarshalErr = storage.UnmarshalSubmission(val)
		return unmarshalErr
	})
	return s, err
}
