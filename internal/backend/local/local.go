// Package local is a backend.Client over an embedded SQLite database, for
// offline play and development. Accounts live in the same database with
// bcrypt-hashed passwords.
package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/logging"
	"github.com/abhisek/promptquest/internal/store"
)

// Backend implements backend.Client on SQLite.
type Backend struct {
	store    *store.Store
	sessions *backend.SessionFile
	log      *logging.Logger
	now      func() time.Time
	cost     int
}

var _ backend.Client = (*Backend)(nil)

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(b *Backend) { b.log = logging.OrNop(l) }
}

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(b *Backend) { b.cost = cost }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// Open opens (creating if needed) the database at dsn. The signed-in
// session is kept in sessions.
func Open(dsn string, sessions *backend.SessionFile, opts ...Option) (*Backend, error) {
	st, err := store.Open(dsn)
	if err != nil {
		return nil, err
	}
	b := &Backend{
		store:    st,
		sessions: sessions,
		log:      logging.Nop(),
		now:      time.Now,
		cost:     bcrypt.DefaultCost,
	}
	for _, o := range opts {
		o(b)
	}
	return b, nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.store.Close()
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// CurrentUser returns the principal stored in the session file, provided
// the account still exists.
func (b *Backend) CurrentUser(ctx context.Context) (*backend.Principal, error) {
	s, err := b.sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrUnavailable, err)
	}
	if s == nil {
		return nil, nil
	}
	rec, err := b.QueryOne(ctx, backend.From("users").Select("id", "email", "attrs").Where("id", s.UserID))
	if errors.Is(err, backend.ErrNotFound) {
		_ = b.sessions.Clear()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return principalFrom(rec), nil
}

// SignUp creates an account and its profile. It does not sign in.
func (b *Backend) SignUp(ctx context.Context, email, password string, attrs map[string]string) (*backend.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := b.QueryOne(ctx, backend.From("users").Select("id").Where("email", email))
	switch {
	case err == nil:
		return nil, backend.ErrUserExists
	case !errors.Is(err, backend.ErrNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if attrs == nil {
		attrs = map[string]string{}
	}
	id := uuid.NewString()
	err = b.insert(ctx, "users", backend.Record{
		"id":            id,
		"email":         email,
		"password_hash": string(hash),
		"attrs":         attrs,
		"created_at":    b.now().UTC().Format(time.RFC3339),
	}, nil)
	if err != nil {
		return nil, err
	}
	err = b.insert(ctx, backend.TableProfiles, backend.Record{
		"id":          id,
		"username":    attrs["username"],
		"xp":          0,
		"level":       1,
		"streak_days": 0,
	}, []string{"id"})
	if err != nil {
		return nil, err
	}
	b.log.Info("local account created", "user", id)
	return &backend.Principal{ID: id, Email: email, Attrs: attrs}, nil
}

// SignIn checks the password and stores the session.
func (b *Backend) SignIn(ctx context.Context, email, password string) (*backend.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	rec, err := b.QueryOne(ctx, backend.From("users").Where("email", email))
	if errors.Is(err, backend.ErrNotFound) {
		return nil, backend.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	hash, _ := rec["password_hash"].(string)
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, backend.ErrInvalidCredentials
	}

	p := principalFrom(rec)
	if err := b.sessions.Save(&backend.Session{UserID: p.ID, Email: p.Email, Attrs: p.Attrs}); err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrUnavailable, err)
	}
	return p, nil
}

// SignOut forgets the stored session.
func (b *Backend) SignOut(ctx context.Context) error {
	return b.sessions.Clear()
}

// QueryOne returns the single row matching q.
func (b *Backend) QueryOne(ctx context.Context, q backend.Query) (backend.Record, error) {
	q.Limit = 2
	rows, err := b.QueryMany(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, backend.ErrNotFound
	}
	return rows[0], nil
}

// QueryMany returns all rows matching q.
func (b *Backend) QueryMany(ctx context.Context, q backend.Query) ([]backend.Record, error) {
	if err := checkColumns(q.Table, q.Columns); err != nil {
		return nil, err
	}
	sb := builder()
	sel := sb.Select(q.Columns...).From(sb.Table(q.Table))
	for _, f := range q.Filters {
		if err := checkColumns(q.Table, []string{f.Column}); err != nil {
			return nil, err
		}
		sel.Where(entsql.EQ(f.Column, f.Value))
	}
	for _, o := range q.Order {
		if err := checkColumns(q.Table, []string{o.Column}); err != nil {
			return nil, err
		}
		if o.Desc {
			sel.OrderBy(entsql.Desc(o.Column))
		} else {
			sel.OrderBy(entsql.Asc(o.Column))
		}
	}
	if q.Limit > 0 {
		sel.Limit(q.Limit)
	}

	query, args := sel.Query()
	rows, err := b.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", backend.ErrUnavailable, q.Table, err)
	}
	defer rows.Close()
	return scanRecords(q.Table, rows)
}

// Upsert inserts rec, overwriting the given columns of a conflicting row.
func (b *Backend) Upsert(ctx context.Context, table string, rec backend.Record, onConflict ...string) error {
	return b.insert(ctx, table, rec, onConflict)
}

// Update sets fields on rows matching key.
func (b *Backend) Update(ctx context.Context, table string, key []backend.Filter, fields backend.Record) error {
	if len(fields) == 0 {
		return nil
	}
	up := builder().Update(table)
	for _, col := range sortedKeys(fields) {
		if err := checkColumns(table, []string{col}); err != nil {
			return err
		}
		v, err := encodeValue(table, col, fields[col])
		if err != nil {
			return err
		}
		up.Set(col, v)
	}
	for _, f := range key {
		if err := checkColumns(table, []string{f.Column}); err != nil {
			return err
		}
		up.Where(entsql.EQ(f.Column, f.Value))
	}
	query, args := up.Query()
	if _, err := b.store.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: update %s: %v", backend.ErrUnavailable, table, err)
	}
	return nil
}

// ResetUser deletes userID's progress and zeroes their profile.
func (b *Backend) ResetUser(ctx context.Context, userID string) error {
	query, args := builder().Delete(backend.TableUserProgress).
		Where(entsql.EQ("user_id", userID)).
		Query()
	if _, err := b.store.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return b.Update(ctx, backend.TableProfiles, []backend.Filter{backend.Eq("id", userID)}, backend.Record{
		"xp":                 0,
		"level":              1,
		"streak_days":        0,
		"last_activity_date": nil,
	})
}

func (b *Backend) insert(ctx context.Context, table string, rec backend.Record, onConflict []string) error {
	cols := sortedKeys(rec)
	if err := checkColumns(table, cols); err != nil {
		return err
	}
	if err := checkColumns(table, onConflict); err != nil {
		return err
	}
	vals := make([]any, len(cols))
	for i, c := range cols {
		v, err := encodeValue(table, c, rec[c])
		if err != nil {
			return err
		}
		vals[i] = v
	}

	ins := builder().Insert(table).Columns(cols...).Values(vals...)
	if len(onConflict) > 0 {
		ins.OnConflict(
			entsql.ConflictColumns(onConflict...),
			entsql.ResolveWithNewValues(),
		)
	}
	query, args := ins.Query()
	if _, err := b.store.DB().ExecContext(ctx, query, args...); err != nil {
		if isConstraint(err) {
			return &backend.APIError{Status: 409, Code: "constraint", Message: err.Error()}
		}
		return fmt.Errorf("%w: insert %s: %v", backend.ErrUnavailable, table, err)
	}
	return nil
}

func principalFrom(rec backend.Record) *backend.Principal {
	p := &backend.Principal{Attrs: map[string]string{}}
	p.ID, _ = rec["id"].(string)
	p.Email, _ = rec["email"].(string)
	if attrs, ok := rec["attrs"].(map[string]any); ok {
		for k, v := range attrs {
			if s, ok := v.(string); ok {
				p.Attrs[k] = s
			}
		}
	}
	return p
}

func isConstraint(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "constraint")
}

func scanRecords(table string, rows *sql.Rows) ([]backend.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []backend.Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		rec := make(backend.Record, len(cols))
		for i, c := range cols {
			v, err := decodeValue(table, c, vals[i])
			if err != nil {
				return nil, err
			}
			rec[c] = v
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", backend.ErrUnavailable, table, err)
	}
	return out, nil
}

// encodeValue converts a record value into something the SQLite driver
// stores. JSON columns are marshalled.
func encodeValue(table, col string, v any) (any, error) {
	if store.JSONColumns[table][col] {
		if raw, ok := v.(json.RawMessage); ok {
			return string(raw), nil
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s.%s: %w", table, col, err)
		}
		return string(b), nil
	}
	switch t := v.(type) {
	case nil, string, bool, int, int32, int64, float64:
		return t, nil
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}
		return t.Float64()
	case time.Time:
		return t.UTC().Format(time.RFC3339), nil
	}
	return nil, fmt.Errorf("encode %s.%s: unsupported value %T", table, col, v)
}

func decodeValue(table, col string, v any) (any, error) {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if s, ok := v.(string); ok && store.JSONColumns[table][col] {
		var out any
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, fmt.Errorf("decode %s.%s: %w", table, col, err)
		}
		return out, nil
	}
	return v, nil
}

func checkColumns(table string, cols []string) error {
	if _, ok := store.Columns[table]; !ok {
		return &backend.APIError{Status: 404, Code: "unknown_table", Message: table}
	}
	for _, c := range cols {
		if !store.HasColumn(table, c) {
			return &backend.APIError{Status: 400, Code: "unknown_column", Message: table + "." + c}
		}
	}
	return nil
}
