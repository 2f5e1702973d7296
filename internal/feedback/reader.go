package feedback

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"hogis-feedback-backend/internal/models"
	"hogis-feedback-backend/internal/repository"
)

// PageSize is the fixed page size for the dashboard list.
const PageSize = 10

// Lister is the read surface the Reader consumes.
type Lister interface {
	FindPage(ctx context.Context, cursor *repository.Cursor, limit int) ([]models.Feedback, *repository.Cursor, error)
	FindAll(ctx context.Context) ([]models.Feedback, error)
	Count(ctx context.Context) (int64, error)
}

// Page is one fetched page of records.
type Page struct {
	Records    []models.Feedback `json:"records"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	Total      int64             `json:"total"`
}

// Reader retrieves feedback in descending creation order, either as fixed
// pages or as the full set for aggregation. It owns an explicit per-reader
// cursor list indexed by page number; the cache is invalidated whenever a
// fresh full fetch observes the underlying set, so later pages cannot chase
// stale cursors.
type Reader struct {
	lister  Lister
	timeout time.Duration

	mu      sync.Mutex
	cursors map[int]*repository.Cursor
}

func NewReader(lister Lister, timeout time.Duration) *Reader {
	return &Reader{
		lister:  lister,
		timeout: timeout,
		cursors: map[int]*repository.Cursor{},
	}
}

// Fetch returns page n (1-based). Fetching page N>1 requires the cursor left
// behind by page N-1; without it the request is out of sequence and fails
// with PaginationError.
func (r *Reader) Fetch(ctx context.Context, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}

	var after *repository.Cursor
	if page > 1 {
		r.mu.Lock()
		after = r.cursors[page-1]
		r.mu.Unlock()
		if after == nil {
			return nil, NewError(KindPagination, "previous page data not found", nil)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	records, next, err := r.lister.FindPage(ctx, after, PageSize)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, NewError(KindTimeout, "feedback fetch timed out", err)
		}
		return nil, NewError(KindStorageFailure, "failed to fetch feedback", err)
	}

	r.mu.Lock()
	if next != nil {
		r.cursors[page] = next
	} else {
		delete(r.cursors, page)
	}
	r.mu.Unlock()

	total, err := r.lister.Count(ctx)
	if err != nil {
		return nil, NewError(KindStorageFailure, "failed to count feedback", err)
	}

	return &Page{
		Records:    records,
		Page:       page,
		Total:      total,
		TotalPages: totalPages(total),
	}, nil
}

// All returns the full record set in descending creation order and resets
// the cursor cache: a full fetch observes the current set, so previously
// cached page cursors may no longer line up with it.
func (r *Reader) All(ctx context.Context) ([]models.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	records, err := r.lister.FindAll(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, NewError(KindTimeout, "feedback fetch timed out", err)
		}
		return nil, NewError(KindStorageFailure, "failed to fetch feedback", err)
	}

	r.mu.Lock()
	r.cursors = map[int]*repository.Cursor{}
	r.mu.Unlock()

	return records, nil
}

// Total returns the count of all records, independent of page and full
// fetches.
func (r *Reader) Total(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	total, err := r.lister.Count(ctx)
	if err != nil {
		return 0, NewError(KindStorageFailure, "failed to count feedback", err)
	}
	return total, nil
}

func totalPages(total int64) int {
	return int(math.Ceil(float64(total) / float64(PageSize)))
}
