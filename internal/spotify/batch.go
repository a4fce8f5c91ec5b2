package spotify

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/zmb3/spotify/v2"
)

// Fetched is the outcome of looking up a single id.
// Exactly one of Value and Err is set.
type Fetched[T any] struct {
	Value *T
	Err   error
}

// Distinct returns the non-empty ids in first-seen order.
func Distinct(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// IsTransient reports whether err is worth retrying later:
// network errors, rate limiting and server-side errors.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= 500
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// FetchBatched looks up every distinct non-empty id in requests of at most size ids
// and returns the outcome per id. Missing entries record notFound.
//
// When a request fails with a non-transient error the batch is split in half and
// retried until the failing id is isolated, so one bad id only fails itself.
// Transient errors and cancellation fail the whole batch without further requests.
func FetchBatched[T any](
	ctx context.Context,
	ids []string,
	size int,
	notFound error,
	fetch func(context.Context, []string) ([]*T, error),
) map[string]Fetched[T] {
	ids = Distinct(ids)
	out := make(map[string]Fetched[T], len(ids))

	for i := 0; i < len(ids); i += size {
		fetchSplit(ctx, ids[i:min(i+size, len(ids))], notFound, fetch, out)
	}

	return out
}

func fetchSplit[T any](
	ctx context.Context,
	batch []string,
	notFound error,
	fetch func(context.Context, []string) ([]*T, error),
	out map[string]Fetched[T],
) {
	if err := ctx.Err(); err != nil {
		failAll(out, batch, err)
		return
	}

	values, err := fetch(ctx, batch)
	if err != nil {
		if len(batch) == 1 || IsTransient(err) || ctx.Err() != nil {
			failAll(out, batch, err)
			return
		}
		mid := len(batch) / 2
		fetchSplit(ctx, batch[:mid], notFound, fetch, out)
		fetchSplit(ctx, batch[mid:], notFound, fetch, out)
		return
	}

	for j, id := range batch {
		if j < len(values) && values[j] != nil {
			out[id] = Fetched[T]{Value: values[j]}
		} else {
			out[id] = Fetched[T]{Err: notFound}
		}
	}
}

func failAll[T any](out map[string]Fetched[T], ids []string, err error) {
	for _, id := range ids {
		out[id] = Fetched[T]{Err: err}
	}
}
