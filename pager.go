package cronofy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
)

// pagesDescriptor is the "pages" object of a paged response.
type pagesDescriptor struct {
	Current  int    `json:"current"`
	Total    int    `json:"total"`
	NextPage string `json:"next_page"`
}

// PagedIterator walks every item of a multi-page collection, fetching the next
// page only once the items of the current one are used up. It is single pass
// and must not be shared between goroutines.
//
//	it, err := client.ReadEvents(ctx, params)
//	if err != nil {
//		return err
//	}
//	for it.Next() {
//		event := it.Item()
//		...
//	}
//	if err := it.Err(); err != nil {
//		return err
//	}
type PagedIterator[T any] struct {
	ctx      context.Context
	t        *transport
	itemsKey string
	header   http.Header

	items    []json.RawMessage
	index    int
	nextPage string

	current T
	err     error
}

// newPagedIterator fetches the first page immediately; a failure there is
// returned to the caller instead of surfacing on the first Next.
func newPagedIterator[T any](ctx context.Context, t *transport, itemsKey string, header http.Header, baseURL, rawQuery string) (*PagedIterator[T], error) {
	it := &PagedIterator[T]{
		ctx:      ctx,
		t:        t,
		itemsKey: itemsKey,
		header:   header,
	}
	if err := it.fetch(baseURL + rawQuery); err != nil {
		return nil, err
	}
	return it, nil
}

func (it *PagedIterator[T]) fetch(rawURL string) error {
	var body map[string]json.RawMessage
	if err := it.t.do(it.ctx, http.MethodGet, rawURL, it.header, nil, &body); err != nil {
		return err
	}

	rawItems, ok := body[it.itemsKey]
	if !ok || bytes.Equal(bytes.TrimSpace(rawItems), []byte("null")) {
		return &PaginationError{Key: it.itemsKey, URL: rawURL}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawItems, &items); err != nil {
		return fmt.Errorf("cronofy: decode %q collection: %w", it.itemsKey, err)
	}

	var pages pagesDescriptor
	if rawPages, ok := body["pages"]; ok {
		if err := json.Unmarshal(rawPages, &pages); err != nil {
			return fmt.Errorf("cronofy: decode pages: %w", err)
		}
	}

	it.items = items
	it.index = 0
	it.nextPage = pages.NextPage
	return nil
}

// Next advances to the next item, fetching pages as needed. It returns false
// at the end of the collection or after an error; check Err to tell them apart.
func (it *PagedIterator[T]) Next() bool {
	if it.err != nil {
		return false
	}

	// Empty pages that still point to a next page are skipped, not terminal.
	for it.index >= len(it.items) {
		if it.nextPage == "" {
			return false
		}
		next := it.nextPage
		it.nextPage = ""
		if err := it.fetch(next); err != nil {
			it.err = err
			return false
		}
	}

	raw := it.items[it.index]
	it.index++

	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		it.err = fmt.Errorf("cronofy: decode %q item: %w", it.itemsKey, err)
		return false
	}
	it.current = item
	return true
}

// Item returns the item Next moved to.
func (it *PagedIterator[T]) Item() T {
	return it.current
}

// Err returns the error that stopped iteration, if any.
func (it *PagedIterator[T]) Err() error {
	return it.err
}

// All adapts the iterator for range loops. A failed page fetch is yielded
// once as the final pair. Like Next, it consumes the iterator.
func (it *PagedIterator[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for it.Next() {
			if !yield(it.current, nil) {
				return
			}
		}
		if it.err != nil {
			var zero T
			yield(zero, it.err)
		}
	}
}

// Collect drains the iterator into a slice.
func (it *PagedIterator[T]) Collect() ([]T, error) {
	var out []T
	for it.Next() {
		out = append(out, it.current)
	}
	return out, it.err
}
