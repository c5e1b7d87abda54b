package app_test

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"thai-reading-adventure/internal/app"
	"thai-reading-adventure/internal/domain"
)

func answersCatalog(answers ...string) []domain.World {
	w := domain.World{ID: "w"}
	for _, a := range answers {
		w.Levels = append(w.Levels, domain.Level{Question: "q", Options: []string{a, "x"}, Answer: a})
	}
	return []domain.World{w}
}

func TestSampleDistractorsFromCatalog(t *testing.T) {
	worlds := domain.DefaultWorlds()
	for seed := int64(0); seed < 20; seed++ {
		got := app.SampleDistractors("จุด", worlds, rand.New(rand.NewSource(seed)))
		if len(got) != app.MaxDistractors {
			t.Fatalf("seed %d: expected %d distractors, got %v", seed, app.MaxDistractors, got)
		}
		if got[0] == got[1] {
			t.Fatalf("seed %d: duplicate distractors %v", seed, got)
		}
		for _, d := range got {
			if d == "จุด" {
				t.Fatalf("seed %d: correct answer sampled as distractor", seed)
			}
		}
	}
}

func TestSampleDistractorsIgnoresCaseAndSpace(t *testing.T) {
	worlds := answersCatalog("Cat", "cat ", " CAT", "dog", "Dog", "")
	got := app.SampleDistractors("cat", worlds, rand.New(rand.NewSource(1)))
	if len(got) != 1 || got[0] != "dog" {
		t.Fatalf("expected only dog, got %v", got)
	}
}

func TestSampleDistractorsEmptyCatalog(t *testing.T) {
	if got := app.SampleDistractors("a", nil, rand.New(rand.NewSource(1))); len(got) != 0 {
		t.Fatalf("expected no distractors, got %v", got)
	}
}

func TestBuildOptionsDedupesAndKeepsAnswer(t *testing.T) {
	options := app.BuildOptions("แมว", []string{" หมา ", "แมว", "", "นก"}, rand.New(rand.NewSource(3)))
	sorted := append([]string(nil), options...)
	sort.Strings(sorted)
	want := []string{"นก", "แมว", "หมา"}
	sort.Strings(want)
	if strings.Join(sorted, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, options)
	}
}

func TestNewLevelPicksTypeFromImage(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	level, err := app.NewLevel(domain.LevelDraft{
		WorldID:       "town",
		Question:      " ภาพนี้คืออะไร? ",
		ImageURL:      "https://example.com/cat.png",
		CorrectAnswer: "แมว",
		Distractors:   []string{"หมา"},
	}, rnd)
	if err != nil {
		t.Fatalf("new level: %v", err)
	}
	if level.Type != domain.LevelTypeMatchImageWord || level.Question != "ภาพนี้คืออะไร?" || level.Answer != "แมว" {
		t.Fatalf("unexpected level: %+v", level)
	}

	level, err = app.NewLevel(domain.LevelDraft{WorldID: "town", Question: "ฉันกิน ____", CorrectAnswer: "ข้าว", Distractors: []string{"หิน"}}, rnd)
	if err != nil {
		t.Fatalf("new level: %v", err)
	}
	if level.Type != domain.LevelTypeSentenceCompletion {
		t.Fatalf("expected sentence completion, got %s", level.Type)
	}
}

func TestNewLevelRejectsInvalidDrafts(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	drafts := []domain.LevelDraft{
		{Question: "q", CorrectAnswer: "a", Distractors: []string{"b"}},
		{WorldID: "w", Question: "  ", CorrectAnswer: "a", Distractors: []string{"b"}},
		{WorldID: "w", Question: "q", CorrectAnswer: "", Distractors: []string{"b"}},
		{WorldID: "w", Question: "q", CorrectAnswer: "a", Distractors: []string{"a", " "}},
	}
	for i, d := range drafts {
		if _, err := app.NewLevel(d, rnd); !errors.Is(err, domain.ErrInvalidLevel) {
			t.Fatalf("draft %d: expected ErrInvalidLevel, got %v", i, err)
		}
	}
}

func TestValidateWorlds(t *testing.T) {
	if err := app.ValidateWorlds(domain.DefaultWorlds()); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}

	dup := append(domain.DefaultWorlds(), domain.World{ID: "beach"})
	if err := app.ValidateWorlds(dup); !errors.Is(err, domain.ErrInvalidLevel) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}

	bad := domain.DefaultWorlds()
	bad[0].Levels[0].Answer = "ไม่มี"
	if err := app.ValidateWorlds(bad); !errors.Is(err, domain.ErrInvalidLevel) {
		t.Fatalf("expected answer error, got %v", err)
	}
}
