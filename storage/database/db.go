package database

import (
	"context"
	"database/sql"
	"net/url"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/computersciencehouse/packet/core"
	appfs "github.com/computersciencehouse/packet/fs"
)

const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

func postgresDSN(conf core.DatabaseConfig) string {
	sslMode := "require"
	if conf.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(conf.User, conf.Password),
		Host:     conf.Address(),
		Path:     conf.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func dialector(conf core.DatabaseConfig) (gorm.Dialector, error) {
	switch conf.Engine {
	case EnginePostgres:
		return postgres.Open(postgresDSN(conf)), nil
	case EngineSQLite:
		return sqlite.Open("file:" + conf.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), nil
	default:
		return nil, errors.Errorf("unsupported database engine %q", conf.Engine)
	}
}

// Open connects to the configured database and waits until it answers.
func Open(conf core.DatabaseConfig, debug bool) (*gorm.DB, error) {
	d, err := dialector(conf)
	if err != nil {
		return nil, err
	}

	gormConf := &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	}
	if debug {
		gormConf.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}
	db, err := gorm.Open(d, gormConf)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if conf.Engine == EngineSQLite {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := ping(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sql.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// Goose prepares goose for the given engine and returns the migrations directory.
func Goose(engine string) (string, error) {
	dialect := engine
	if engine == EngineSQLite {
		dialect = "sqlite3"
	}
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect(dialect); err != nil {
		return "", errors.Wrap(err, "setting migration dialect")
	}
	return appfs.MigrationsDir(engine), nil
}

// Migrate silently applies every pending migration.
func Migrate(ctx context.Context, db *gorm.DB, engine string) error {
	dir, err := Goose(engine)
	if err != nil {
		return err
	}
	goose.SetLogger(goose.NopLogger())
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "migrating database")
	}
	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
