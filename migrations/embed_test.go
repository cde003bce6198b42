package migrations

import (
	"strings"
	"testing"
)

func TestSourceFindsMigrations(t *testing.T) {
	found, err := Source().FindMigrations()
	if err != nil {
		t.Fatalf("FindMigrations: %v", err)
	}
	if len(found) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(found))
	}

	last := found[len(found)-1]
	if !strings.Contains(strings.Join(last.Up, "\n"), "UNIQUE (transcript_id)") {
		t.Errorf("last migration should add the transcript uniqueness constraint, got %v", last.Up)
	}
	for _, m := range found {
		if len(m.Down) == 0 {
			t.Errorf("migration %s has no down step", m.Id)
		}
	}
}
