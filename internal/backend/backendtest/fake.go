// Package backendtest provides an in-memory backend.Client for tests.
package backendtest

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/abhisek/promptquest/internal/backend"
)

// Call is one recorded backend call.
type Call struct {
	Op    string
	Table string
}

type account struct {
	principal backend.Principal
	password  string
}

type failure struct {
	op, table string
}

// Fake is an in-memory backend. It is safe for concurrent use.
type Fake struct {
	mu       sync.Mutex
	tables   map[string][]backend.Record
	accounts map[string]*account
	current  *backend.Principal
	fail     map[failure]error
	calls    []Call
	nextID   int
}

var _ backend.Client = (*Fake)(nil)

// New returns an empty Fake with nobody signed in.
func New() *Fake {
	return &Fake{
		tables:   make(map[string][]backend.Record),
		accounts: make(map[string]*account),
		fail:     make(map[failure]error),
	}
}

// Seed appends rows to table.
func (f *Fake) Seed(table string, recs ...backend.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range recs {
		f.tables[table] = append(f.tables[table], clone(r))
	}
}

// Rows returns a copy of every row in table.
func (f *Fake) Rows(table string) []backend.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]backend.Record, 0, len(f.tables[table]))
	for _, r := range f.tables[table] {
		out = append(out, clone(r))
	}
	return out
}

// SignInAs makes p the current principal without a password.
func (f *Fake) SignInAs(p *backend.Principal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = p
}

// AddAccount registers an account that SignIn accepts.
func (f *Fake) AddAccount(p backend.Principal, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[p.Email] = &account{principal: p, password: password}
}

// FailOn makes every call to op on table return err. Auth operations use
// an empty table name.
func (f *Fake) FailOn(op, table string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[failure{op, table}] = err
}

// Calls returns the calls made so far.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount returns how many times op was called.
func (f *Fake) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// record logs a call and returns the injected failure, if any. Callers
// hold f.mu.
func (f *Fake) record(op, table string) error {
	f.calls = append(f.calls, Call{Op: op, Table: table})
	return f.fail[failure{op, table}]
}

func (f *Fake) CurrentUser(ctx context.Context) (*backend.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CurrentUser", ""); err != nil {
		return nil, err
	}
	if f.current == nil {
		return nil, nil
	}
	p := *f.current
	return &p, nil
}

func (f *Fake) SignUp(ctx context.Context, email, password string, attrs map[string]string) (*backend.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SignUp", ""); err != nil {
		return nil, err
	}
	if _, ok := f.accounts[email]; ok {
		return nil, backend.ErrUserExists
	}
	f.nextID++
	p := backend.Principal{ID: "user-" + strconv.Itoa(f.nextID), Email: email, Attrs: attrs}
	f.accounts[email] = &account{principal: p, password: password}
	return &p, nil
}

func (f *Fake) SignIn(ctx context.Context, email, password string) (*backend.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SignIn", ""); err != nil {
		return nil, err
	}
	acct, ok := f.accounts[email]
	if !ok || acct.password != password {
		return nil, backend.ErrInvalidCredentials
	}
	p := acct.principal
	f.current = &p
	return &p, nil
}

func (f *Fake) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SignOut", ""); err != nil {
		return err
	}
	f.current = nil
	return nil
}

func (f *Fake) QueryOne(ctx context.Context, q backend.Query) (backend.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("QueryOne", q.Table); err != nil {
		return nil, err
	}
	rows := f.query(q)
	if len(rows) != 1 {
		return nil, backend.ErrNotFound
	}
	return rows[0], nil
}

func (f *Fake) QueryMany(ctx context.Context, q backend.Query) ([]backend.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("QueryMany", q.Table); err != nil {
		return nil, err
	}
	return f.query(q), nil
}

func (f *Fake) Upsert(ctx context.Context, table string, rec backend.Record, onConflict ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Upsert", table); err != nil {
		return err
	}
	if len(onConflict) > 0 {
		for _, row := range f.tables[table] {
			if sameKey(row, rec, onConflict) {
				for k, v := range rec {
					row[k] = v
				}
				return nil
			}
		}
	}
	f.tables[table] = append(f.tables[table], clone(rec))
	return nil
}

func (f *Fake) Update(ctx context.Context, table string, key []backend.Filter, fields backend.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Update", table); err != nil {
		return err
	}
	for _, row := range f.tables[table] {
		if matches(row, key) {
			for k, v := range fields {
				row[k] = v
			}
		}
	}
	return nil
}

func (f *Fake) Close() error { return nil }

func (f *Fake) query(q backend.Query) []backend.Record {
	var out []backend.Record
	for _, row := range f.tables[q.Table] {
		if matches(row, q.Filters) {
			out = append(out, project(row, q.Columns))
		}
	}
	if len(q.Order) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, o := range q.Order {
				c := compare(out[i][o.Column], out[j][o.Column])
				if c == 0 {
					continue
				}
				if o.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func matches(row backend.Record, filters []backend.Filter) bool {
	for _, flt := range filters {
		v, ok := row[flt.Column]
		if !ok || fmt.Sprint(v) != fmt.Sprint(flt.Value) {
			return false
		}
	}
	return true
}

func sameKey(a, b backend.Record, cols []string) bool {
	for _, c := range cols {
		if fmt.Sprint(a[c]) != fmt.Sprint(b[c]) {
			return false
		}
	}
	return true
}

func project(row backend.Record, cols []string) backend.Record {
	if len(cols) == 0 {
		return clone(row)
	}
	out := make(backend.Record, len(cols))
	for _, c := range cols {
		if v, ok := row[c]; ok {
			out[c] = v
		}
	}
	return out
}

func compare(a, b any) int {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func clone(r backend.Record) backend.Record {
	out := make(backend.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
