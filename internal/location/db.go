package location

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/patrickmn/go-cache"
)

const DefaultTable = "cfg_location"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLDirectory resolves locations from a table with the columns
// (dpid, in_port, location). Successful lookups are cached for the
// configured TTL; misses are not cached. A TTL of zero or less disables
// the cache and every lookup reaches the database.
type SQLDirectory struct {
	db    *sql.DB
	query string
	cache *cache.Cache
	owned bool
}

// NewSQLDirectory opens and pings the database. Driver is "mysql" for
// MariaDB/MySQL or "sqlite" when a sqlite driver is linked in.
func NewSQLDirectory(driver, dsn, table string, ttl time.Duration) (*SQLDirectory, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	d, err := NewSQLDirectoryFromDB(db, table, ttl)
	if err != nil {
		db.Close()
		return nil, err
	}
	d.owned = true
	return d, nil
}

// NewSQLDirectoryFromDB wraps an existing handle. The caller keeps
// ownership of db.
func NewSQLDirectoryFromDB(db *sql.DB, table string, ttl time.Duration) (*SQLDirectory, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid location table name %q", table)
	}
	d := &SQLDirectory{
		db:    db,
		query: "SELECT location FROM " + table + " WHERE dpid = ? AND in_port = ?",
	}
	if ttl > 0 {
		d.cache = cache.New(ttl, 10*time.Minute)
	}
	return d, nil
}

func (d *SQLDirectory) Close() {
	if d.owned {
		d.db.Close()
	}
}

func (d *SQLDirectory) Lookup(ctx context.Context, dpid uint64, port uint32) (string, error) {
	key := portKey(dpid, port)
	if d.cache != nil {
		if name, ok := d.cache.Get(key); ok {
			return name.(string), nil
		}
	}

	var name string
	err := d.db.QueryRowContext(ctx, d.query, dpid, port).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query location for dpid=%d port=%d: %w", dpid, port, err)
	}
	if d.cache != nil {
		d.cache.SetDefault(key, name)
	}
	return name, nil
}
