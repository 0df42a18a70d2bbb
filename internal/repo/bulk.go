package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/food_delivery/internal/schema"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// BulkResult maps input positions to the ids of the documents that were stored.
type BulkResult struct {
	InsertedIDs map[int]uuid.UUID
}

func (r BulkResult) Inserted() int {
	return len(r.InsertedIDs)
}

type BulkFailure struct {
	Index int
	Err   error
}

// BulkWriteError reports the documents of an unordered insert that were
// rejected. Documents not listed were written.
type BulkWriteError struct {
	Collection string
	Total      int
	Failures   []BulkFailure
}

func (e *BulkWriteError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("[%d] %v", f.Index, f.Err))
	}
	return fmt.Sprintf("bulk write to %s: %d of %d documents failed: %s",
		e.Collection, len(e.Failures), e.Total, strings.Join(parts, "; "))
}

func (e *BulkWriteError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

func (e *BulkWriteError) Failed(index int) bool {
	for _, f := range e.Failures {
		if f.Index == index {
			return true
		}
	}
	return false
}

// insertMany writes each document with its own statement so one rejected
// document does not undo the others.
func insertMany[T any](ctx context.Context, db *gorm.DB, collection string, docs []T, idOf func(*T) uuid.UUID) (BulkResult, error) {
	res := BulkResult{InsertedIDs: make(map[int]uuid.UUID, len(docs))}
	var failures []BulkFailure

	tx := db.WithContext(ctx)
	for i := range docs {
		if err := tx.Create(&docs[i]).Error; err != nil {
			failures = append(failures, BulkFailure{Index: i, Err: translateError(err)})
			continue
		}
		res.InsertedIDs[i] = idOf(&docs[i])
	}

	if len(failures) > 0 {
		return res, &BulkWriteError{Collection: collection, Total: len(docs), Failures: failures}
	}
	return res, nil
}

func translateError(err error) error {
	if IsDuplicateKey(err) {
		return fmt.Errorf("%w: %w", schema.ErrDuplicate, err)
	}
	return err
}

func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
