package dungeon

import (
	"testing"

	"github.com/tianji-games/ascension/internal/game/catalog"
	"github.com/tianji-games/ascension/internal/game/domain"
	"github.com/tianji-games/ascension/internal/platform/random"
)

func newTestGenerator(t *testing.T, seed int64) (*Generator, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	return New(cat, random.New(seed)), cat
}

func TestGenerateFloorCount(t *testing.T) {
	gen, cat := newTestGenerator(t, 1)
	base := cat.Dungeon().BaseFloors

	cases := []struct {
		realmIndex int
		want       int
	}{
		{0, base},
		{1, base},
		{2, base + 1},
		{5, base + 2},
		{8, base + 4},
	}
	for _, tc := range cases {
		run, err := gen.Generate(domain.Player{RealmIndex: tc.realmIndex})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(run.Floors) != tc.want {
			t.Fatalf("realm %d: floors = %d, want %d", tc.realmIndex, len(run.Floors), tc.want)
		}
	}
}

func TestGenerateFinalFloorIsBoss(t *testing.T) {
	gen, cat := newTestGenerator(t, 2)

	for seed := int64(0); seed < 20; seed++ {
		gen = New(cat, random.New(seed))
		run, err := gen.Generate(domain.Player{RealmIndex: 3})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		last := run.Floors[len(run.Floors)-1]
		if last.Kind != FloorBoss {
			t.Fatalf("seed %d: final floor kind = %d, want boss", seed, last.Kind)
		}
		tmpl, err := cat.Template(last.TemplateID)
		if err != nil {
			t.Fatalf("boss template: %v", err)
		}
		if !tmpl.Boss {
			t.Fatalf("final floor uses non-boss template %s", last.TemplateID)
		}
		for _, floor := range run.Floors[:len(run.Floors)-1] {
			if floor.Kind == FloorBoss {
				t.Fatalf("seed %d: boss floor before the final floor", seed)
			}
		}
	}
}

func TestGenerateBossLevelFraction(t *testing.T) {
	gen, _ := newTestGenerator(t, 3)

	run, err := gen.Generate(domain.Player{RealmIndex: 9}) // level 10
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	last := run.Floors[len(run.Floors)-1]
	if last.Level != 7 { // 0.7 * 10
		t.Fatalf("boss level = %d, want 7", last.Level)
	}
}

func TestGenerateMonsterFloorsCarryTemplates(t *testing.T) {
	gen, cat := newTestGenerator(t, 4)

	run, err := gen.Generate(domain.Player{RealmIndex: 6})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, floor := range run.Floors {
		switch floor.Kind {
		case FloorMonster:
			if _, err := cat.Template(floor.TemplateID); err != nil {
				t.Fatalf("monster floor template %q: %v", floor.TemplateID, err)
			}
			if floor.Level != 7 {
				t.Fatalf("monster level = %d, want player level 7", floor.Level)
			}
		case FloorTreasure:
			if floor.TemplateID != "" {
				t.Fatalf("treasure floor carries template %q", floor.TemplateID)
			}
		}
		for _, tagID := range floor.TagIDs {
			if _, err := cat.Tag(tagID); err != nil {
				t.Fatalf("floor tag %q: %v", tagID, err)
			}
		}
	}
}

func TestGenerateMonsterProbability(t *testing.T) {
	_, cat := newTestGenerator(t, 0)

	monsters, nonFinal := 0, 0
	for seed := int64(0); seed < 200; seed++ {
		gen := New(cat, random.New(seed))
		run, err := gen.Generate(domain.Player{RealmIndex: 8})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		for _, floor := range run.Floors[:len(run.Floors)-1] {
			nonFinal++
			if floor.Kind == FloorMonster {
				monsters++
			}
		}
	}
	ratio := float64(monsters) / float64(nonFinal)
	if ratio < 0.6 || ratio > 0.8 {
		t.Fatalf("monster ratio = %v over %d floors, want near 0.7", ratio, nonFinal)
	}
}

func TestGenerateRunsAreIndependent(t *testing.T) {
	gen, _ := newTestGenerator(t, 5)

	first, err := gen.Generate(domain.Player{RealmIndex: 4})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := gen.Generate(domain.Player{RealmIndex: 4})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(first.Floors) != len(second.Floors) {
		t.Fatalf("floor counts differ: %d vs %d", len(first.Floors), len(second.Floors))
	}
}
