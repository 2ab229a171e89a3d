package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/catalog"
)

// TypeName is the catalog type name of the data-access component.
const TypeName = catalog.FrameworkPrefix + "DB"

// PG Docs: https://www.postgresql.org/docs/current/libpq-connect.html#LIBPQ-PARAMKEYWORDS
const cxnStr = "host=%s port=%s dbname=%s user=%s password=%s sslmode=%s"

// CxnConfig holds connection information used to connect to a PostgreSQL database.
//
// A connection group of config/database decodes into a CxnConfig.
type CxnConfig struct {
	IsTestDB bool   `mapstructure:"is_test_db"`
	URL      string `mapstructure:"dsn"`
	Host     string `mapstructure:"hostname"`
	Port     string `mapstructure:"port"`
	Name     string `mapstructure:"database"`
	User     string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
	Schema   string `mapstructure:"schema"`
}

// DecodeConfig reads a connection group into a CxnConfig.
func DecodeConfig(cfg catalog.Config) (*CxnConfig, error) {
	c := new(CxnConfig)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           c,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}

	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: database group: %s", switchback.ErrBadConfig, err)
	}

	return c, nil
}

// Connect creates a database connection through GORM according to the connection config.
func Connect(config *CxnConfig, env switchback.Environment) (*gorm.DB, error) {
	// https://gorm.io/docs/logger.html
	c := glogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  glogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	}

	if env.IsDevelopment() {
		c.Colorful = true
	}

	db, err := gorm.Open(postgres.Open(buildCxnStr(config)), &gorm.Config{
		Logger: glogger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), c),
		NamingStrategy: schema.NamingStrategy{
			NameReplacer: strings.NewReplacer("Table", ""),
		},
		NowFunc: func() time.Time {
			return time.Now().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to %s: %s", switchback.ErrUnexpected, config.Host, err)
	}

	if config.IsTestDB {
		if err := db.Exec("DROP SCHEMA IF EXISTS public CASCADE;").Error; err != nil {
			return nil, err
		}
	}

	return db, nil
}

func buildCxnStr(config *CxnConfig) string {
	if config.URL != "" {
		return config.URL
	}

	sslMode := config.SSLMode
	if sslMode == "" {
		// PG Docs: https://www.postgresql.org/docs/current/libpq-ssl.html#LIBPQ-SSL-SSLMODE-STATEMENTS
		sslMode = "prefer"
	}

	return fmt.Sprintf(
		cxnStr,
		config.Host,
		config.Port,
		config.Name,
		config.User,
		config.Password,
		sslMode,
	)
}

// Constructor builds the data-access component from a connection group:
// it connects, runs migrations, then wraps the connection in a *DB.
func Constructor(env switchback.Environment, migrations ...Migration) catalog.Constructor {
	return func(cfg catalog.Config) (any, error) {
		c, err := DecodeConfig(cfg)
		if err != nil {
			return nil, err
		}

		gdb, err := Connect(c, env)
		if err != nil {
			return nil, err
		}

		if len(migrations) > 0 {
			sch := c.Schema
			if sch == "" {
				sch = "public"
			}

			if err := MigrateUp(gdb, sch, migrations); err != nil {
				return nil, err
			}
		}

		return NewDB(gdb), nil
	}
}

// Register makes the data-access component available in cat under [TypeName].
func Register(cat *catalog.Catalog, env switchback.Environment, migrations ...Migration) {
	cat.Register(TypeName, Constructor(env, migrations...))
}
