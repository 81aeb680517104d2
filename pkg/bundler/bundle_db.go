package bundler

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SourceFile stores the original source file contents.
type SourceFile struct {
	FileName string `gorm:"primaryKey"`
	Contents string
}

// Tree stores the encoded tree of a source file as JSON.
type Tree struct {
	FileName  string `gorm:"primaryKey"`
	RootKind  string `gorm:"index"`
	NodeCount int
	AST       string
}

// Failure records why a source file could not be encoded.
type Failure struct {
	FileName  string `gorm:"primaryKey"`
	ErrorType string `gorm:"index"`
	Message   string
	Lineno    *int
	Offset    *int
}

// Construct counts the occurrences of a production in a file.
type Construct struct {
	FileName string `gorm:"primaryKey;index"`
	Kind     string `gorm:"primaryKey;index"`
	Count    int
}

// RoundTrip records the outcome of decoding the tree and encoding again.
type RoundTrip struct {
	FileName string `gorm:"primaryKey"`
	OK       bool
	Source   string
	Diffs    string
}

// getMigrations returns the list of migrations for the bundle database.
func getMigrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202610190001",
			Migrate: func(tx *gorm.DB) error {
				// Create initial schema.
				return tx.AutoMigrate(
					&SourceFile{},
					&Tree{},
					&Failure{},
					&Construct{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					&Construct{},
					&Failure{},
					&Tree{},
					&SourceFile{},
				)
			},
		},
		{
			ID: "202610190002",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&RoundTrip{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&RoundTrip{})
			},
		},
	}
}

// Migrate performs database migrations using gormigrate.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, getMigrations())
	return m.Migrate()
}

// CheckMigration checks if the database schema is up to date.
func CheckMigration(db *gorm.DB) (bool, error) {
	// A missing migrations table means nothing has been applied yet. The
	// silent logger keeps gorm from complaining about it on fresh databases.
	var lastMigration string
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Table(gormigrate.DefaultOptions.TableName).
		Select("id").
		Order("id DESC").
		Limit(1).
		Scan(&lastMigration).Error

	if err != nil {
		return false, nil
	}

	migrations := getMigrations()
	if len(migrations) == 0 {
		return true, nil
	}

	// The last migration in our list should match the last applied migration.
	expectedLastID := migrations[len(migrations)-1].ID
	return lastMigration == expectedLastID, nil
}
