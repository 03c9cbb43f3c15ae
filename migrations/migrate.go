package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed *.sql
var embedMigrations embed.FS

// Migrate brings the intelligence schema up to date, running the embedded
// goose migrations in order. Called once on startup before any repository
// touches the database; the seed job schedules land here too.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(&customLogger{})

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.Up(db, ".")
}

// customLogger routes goose output through the global zap logger
type customLogger struct{}

func (l *customLogger) Printf(format string, v ...interface{}) {
	zap.L().Info(fmt.Sprintf(format, v...))
}

func (l *customLogger) Fatalf(format string, v ...interface{}) {
	zap.L().Error(fmt.Sprintf(format, v...))
}
