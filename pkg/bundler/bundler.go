// Package bundler collects encoded trees for a set of source files into a
// SQLite database, for inspecting the codec over a corpus.
package bundler

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/spicery/astbridge/pkg/checker"
	"github.com/spicery/astbridge/pkg/common"
	"github.com/spicery/astbridge/pkg/oracle"
)

// Bundler handles the bundling process. Its checker keeps the findings for
// every file added, for reporting once bundling is done.
type Bundler struct {
	db      *gorm.DB
	checker *checker.Checker
}

// NewBundler opens (or creates) the bundle database at dbPath.
func NewBundler(dbPath string, o oracle.Oracle) (*Bundler, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Bundler{
		db:      db,
		checker: checker.NewChecker(o),
	}, nil
}

// Migrate performs database migrations.
func (b *Bundler) Migrate() error {
	return Migrate(b.db)
}

// CheckMigration checks if the database schema is up to date.
func (b *Bundler) CheckMigration() (bool, error) {
	return CheckMigration(b.db)
}

// AddFile encodes contents and stores the outcome under name, replacing
// anything previously stored for that name. It reports whether the file
// encoded successfully; the returned error is for database problems only.
func (b *Bundler) AddFile(name string, contents string) (bool, error) {
	ok := false
	err := b.db.Transaction(func(tx *gorm.DB) error {
		if err := clearFile(tx, name); err != nil {
			return err
		}
		if err := tx.Save(&SourceFile{FileName: name, Contents: contents}).Error; err != nil {
			return fmt.Errorf("failed to save source file: %w", err)
		}

		result := b.checker.Check(name, contents)
		if !result.First.OK {
			info := result.First.Error
			failure := Failure{
				FileName:  name,
				ErrorType: info.Type,
				Message:   info.Msg,
				Lineno:    info.Lineno,
				Offset:    info.Offset,
			}
			if err := tx.Save(&failure).Error; err != nil {
				return fmt.Errorf("failed to save failure: %w", err)
			}
			return nil
		}

		ok = true
		root := result.First.AST
		data, err := json.Marshal(root)
		if err != nil {
			return fmt.Errorf("failed to serialize tree: %w", err)
		}
		counts := CountConstructs(root)
		total := 0
		for _, n := range counts {
			total += n
		}
		tree := Tree{FileName: name, RootKind: root.Kind, NodeCount: total, AST: string(data)}
		if err := tx.Save(&tree).Error; err != nil {
			return fmt.Errorf("failed to save tree: %w", err)
		}

		for _, kind := range sortedKeys(counts) {
			construct := Construct{FileName: name, Kind: kind, Count: counts[kind]}
			if err := tx.Save(&construct).Error; err != nil {
				return fmt.Errorf("failed to save construct count: %w", err)
			}
		}

		return tx.Save(roundTripRecord(name, result)).Error
	})
	return ok, err
}

func roundTripRecord(name string, result *checker.Result) *RoundTrip {
	record := &RoundTrip{FileName: name, OK: result.OK()}
	switch {
	case !result.Unparsed.OK:
		record.Diffs = result.Unparsed.Error.Type + ": " + result.Unparsed.Error.Msg
	case !result.Second.OK:
		record.Source = *result.Unparsed.Source
		record.Diffs = result.Second.Error.Type + ": " + result.Second.Error.Msg
	default:
		record.Source = *result.Unparsed.Source
		record.Diffs = strings.Join(result.Diffs, "\n")
	}
	return record
}

func clearFile(tx *gorm.DB, name string) error {
	for _, model := range []any{&Construct{}, &Failure{}, &Tree{}, &RoundTrip{}} {
		if err := tx.Where("file_name = ?", name).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", name, err)
		}
	}
	return nil
}

// OK reports whether every file added so far encoded and round-tripped.
func (b *Bundler) OK() bool {
	return b.checker.OK()
}

// ReportErrors writes the encoding failures and round-trip failures seen
// across all files added so far.
func (b *Bundler) ReportErrors(output io.Writer) {
	b.checker.ReportErrors(output)
}

// Close closes the database connection.
func (b *Bundler) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CountConstructs counts how often each production occurs in the tree.
func CountConstructs(root *common.Node) map[string]int {
	counts := make(map[string]int)
	countConstructsRecursive(root, counts)
	return counts
}

func countConstructsRecursive(node *common.Node, counts map[string]int) {
	if node == nil {
		return
	}
	counts[node.Kind]++
	_, children := node.Children()
	for _, child := range children {
		countConstructsRecursive(child, counts)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
