package hosted

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/abhisek/promptquest/internal/backend"
)

const singleObject = "application/vnd.pgrst.object+json"

// QueryOne fetches exactly one row. PostgREST answers 406 when the
// result is not a single row.
func (c *Client) QueryOne(ctx context.Context, q backend.Query) (backend.Record, error) {
	bearer, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}
	var rec backend.Record
	err = c.do(ctx, request{
		method: http.MethodGet,
		path:   tablePath(q.Table),
		query:  encodeQuery(q),
		header: http.Header{"Accept": {singleObject}},
		out:    &rec,
		bearer: bearer,
	})
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotAcceptable {
		return nil, backend.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Table, err)
	}
	return rec, nil
}

// QueryMany fetches every matching row.
func (c *Client) QueryMany(ctx context.Context, q backend.Query) ([]backend.Record, error) {
	bearer, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}
	var recs []backend.Record
	err = c.do(ctx, request{
		method: http.MethodGet,
		path:   tablePath(q.Table),
		query:  encodeQuery(q),
		out:    &recs,
		bearer: bearer,
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Table, err)
	}
	return recs, nil
}

// Upsert inserts rec, merging into an existing row on the onConflict
// columns.
func (c *Client) Upsert(ctx context.Context, table string, rec backend.Record, onConflict ...string) error {
	bearer, err := c.bearer(ctx)
	if err != nil {
		return err
	}
	prefer := []string{"return=minimal"}
	query := url.Values{}
	if len(onConflict) > 0 {
		prefer = append(prefer, "resolution=merge-duplicates")
		query.Set("on_conflict", strings.Join(onConflict, ","))
	}
	err = c.do(ctx, request{
		method: http.MethodPost,
		path:   tablePath(table),
		query:  query,
		header: http.Header{"Prefer": {strings.Join(prefer, ",")}},
		body:   rec,
		bearer: bearer,
	})
	if err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}

// Update patches rows matching key.
func (c *Client) Update(ctx context.Context, table string, key []backend.Filter, fields backend.Record) error {
	bearer, err := c.bearer(ctx)
	if err != nil {
		return err
	}
	err = c.do(ctx, request{
		method: http.MethodPatch,
		path:   tablePath(table),
		query:  encodeFilters(url.Values{}, key),
		header: http.Header{"Prefer": {"return=minimal"}},
		body:   fields,
		bearer: bearer,
	})
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return nil
}

func tablePath(table string) string {
	return "/rest/v1/" + url.PathEscape(table)
}

func encodeQuery(q backend.Query) url.Values {
	v := url.Values{}
	if len(q.Columns) > 0 {
		v.Set("select", strings.Join(q.Columns, ","))
	} else {
		v.Set("select", "*")
	}
	encodeFilters(v, q.Filters)
	if len(q.Order) > 0 {
		parts := make([]string, len(q.Order))
		for i, o := range q.Order {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			parts[i] = o.Column + "." + dir
		}
		v.Set("order", strings.Join(parts, ","))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func encodeFilters(v url.Values, filters []backend.Filter) url.Values {
	for _, f := range filters {
		if f.Value == nil {
			v.Add(f.Column, "is.null")
			continue
		}
		v.Add(f.Column, "eq."+fmt.Sprint(f.Value))
	}
	return v
}
