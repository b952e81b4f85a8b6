package hierarchy

import (
	"context"
	"fmt"
)

// Provider kinds accepted by Open
const (
	KindBuiltin  = "builtin"
	KindTOML     = "toml"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
)

// Open builds the Source for kind. The returned close func is never nil.
func Open(ctx context.Context, kind, path, dsn string) (Source, func() error, error) {
	noop := func() error { return nil }
	switch kind {
	case "", KindBuiltin:
		p, err := NewBuiltinProvider()
		if err != nil {
			return nil, noop, err
		}
		return p, noop, nil
	case KindTOML:
		return NewTOMLProvider(path), noop, nil
	case KindSQLite:
		p, err := OpenSQL(ctx, DriverSQLite, path)
		if err != nil {
			return nil, noop, err
		}
		return p, p.Close, nil
	case KindPostgres:
		p, err := OpenSQL(ctx, DriverPostgres, dsn)
		if err != nil {
			return nil, noop, err
		}
		return p, p.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown provider kind %q", kind)
	}
}
