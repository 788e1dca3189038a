package backend

// Filter is an equality predicate on a column.
type Filter struct {
	Column string
	Value  any
}

// Eq builds a Filter matching rows where column equals value.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Order sorts results by a column.
type Order struct {
	Column string
	Desc   bool
}

// Asc sorts ascending by column.
func Asc(column string) Order { return Order{Column: column} }

// Desc sorts descending by column.
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// Query selects rows from a single table.
type Query struct {
	Table   string
	Columns []string // empty selects every column
	Filters []Filter
	Order   []Order
	Limit   int // 0 means no limit
}

// From starts a query on table.
func From(table string) Query {
	return Query{Table: table}
}

// Where returns a copy of q with an additional equality filter.
func (q Query) Where(column string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Eq(column, value))
	return q
}

// OrderBy returns a copy of q with an additional sort key.
func (q Query) OrderBy(o ...Order) Query {
	q.Order = append(append([]Order(nil), q.Order...), o...)
	return q
}

// Select returns a copy of q restricted to columns.
func (q Query) Select(columns ...string) Query {
	q.Columns = columns
	return q
}

// Take returns a copy of q with a row limit.
func (q Query) Take(n int) Query {
	q.Limit = n
	return q
}
