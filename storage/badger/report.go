package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/regsight/devaudit/core"
	"github.com/regsight/devaudit/storage"
)

// ReportRepository implements storage.ReportRepository for BadgerDB.
type ReportRepository struct {
	backend *Backend
}

var _ storage.ReportRepository = (*ReportRepository)(nil)

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(backend *Backend) *ReportRepository {
	return &ReportRepository{backend: backend}
}

// Close is a no-op; the shared backend owns the database handle.
func (r *ReportRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ReportRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutReport upserts a report keyed by submission number.
// A zero ID is filled in from the submission number, so re-analyzing a
// device overwrites its previous report.
func (r *ReportRepository) PutReport(ctx context.Context, report *core.Report) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC().Truncate(time.Microsecond)
		if report.Id == 0 {
			report.Id = core.IDFromContent(report.SubmissionNumber)
		}

		key := makeReportKey(report.SubmissionNumber)
		old, err := readReport(tx, key)
		if err != nil {
			return err
		}
		if old != nil {
			report.InsertedAt = old.InsertedAt
		} else {
			report.InsertedAt = now
		}
		report.UpdatedAt = now

		if err := tx.Set(key, storage.MarshalReport(report)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetReport retrieves the report for a submission number.
func (r *ReportRepository) GetReport(ctx context.Context, number string) (*core.Report, error) {
	var result *core.Report
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readReport(tx, makeReportKey(number))
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

// ListReports retrieves all reports ordered by submission number.
func (r *ReportRepository) ListReports(ctx context.Context) ([]*core.Report, error) {
	var results []*core.Report
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(reportPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var rep *core.Report
			err := iter.Item().Value(func(val []byte) error {
				var err error
				rep, err = storage.UnmarshalReport(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, rep)
		}
		return nil
	}, false)
	return results, err
}

// DeleteReports removes reports by submission number.
func (r *ReportRepository) DeleteReports(ctx context.Context, numbers ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, number := range numbers {
			key := makeReportKey(number)
			old, err := readReport(tx, key)
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

// readReport reads a report from the transaction.
// Returns nil, nil when the key does not exist.
func readReport(tx *badger.Txn, key []byte) (*core.Report, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var rep *core.Report
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		rep, unmarshalErr = storage.UnmarshalReport(val)
		return unmarshalErr
	})
	return rep, err
}
