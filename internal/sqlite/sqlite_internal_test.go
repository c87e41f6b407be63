package sqlite

import (
	"testing"

	"github.com/myrjola/liftplan/internal/testhelpers"
)

func TestNewDatabase(t *testing.T) {
	ctx := t.Context()
	db, err := NewDatabase(ctx, ":memory:", testhelpers.NewLogger(testhelpers.NewWriter(t)))
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() {
		if err = db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	var count int
	if err = db.ReadOnly.QueryRowContext(ctx, "SELECT count(*) FROM exercises").Scan(&count); err != nil {
		t.Fatalf("count exercises: %v", err)
	}
	if count == 0 {
		t.Error("Expected fixtures to seed the exercise catalog")
	}

	t.Run("migrations are idempotent", func(t *testing.T) {
		if err = db.migrate(); err != nil {
			t.Errorf("migrate() error = %v", err)
		}
	})

	t.Run("fixtures can be reapplied", func(t *testing.T) {
		if _, err = db.ReadWrite.ExecContext(ctx, fixtures); err != nil {
			t.Errorf("apply fixtures: %v", err)
		}
		var again int
		if err = db.ReadOnly.QueryRowContext(ctx, "SELECT count(*) FROM exercises").Scan(&again); err != nil {
			t.Fatalf("count exercises: %v", err)
		}
		if again != count {
			t.Errorf("Expected %d exercises after reapplying fixtures, got %d", count, again)
		}
	})

	t.Run("read-only pool rejects writes", func(t *testing.T) {
		_, err = db.ReadOnly.ExecContext(ctx, "DELETE FROM exercises")
		if err == nil {
			t.Error("Expected write through the read-only pool to fail")
		}
	})
}
