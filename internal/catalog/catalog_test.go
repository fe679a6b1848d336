package catalog

import (
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	cat, err := Load(filepath.Join("testdata", "players.json"), filepath.Join("testdata", "clubs.json"))
	if err != nil {
		t.Fatal(err)
	}

	if len(cat.Cards()) != 2 {
		t.Fatalf("ожидалось 2 карты, получено %d", len(cat.Cards()))
	}
	if len(cat.Clubs()) != 1 {
		t.Fatalf("ожидался 1 клуб, получено %d", len(cat.Clubs()))
	}

	card := cat.Card("p1")
	if card == nil {
		t.Fatal("карта p1 не найдена")
	}
	if card.Rating != 85 {
		t.Fatalf("рейтинг p1 = %d, ожидалось 85", card.Rating)
	}

	if cat.Card("nope") != nil {
		t.Fatal("несуществующая карта должна давать nil")
	}
	if cat.Club("c1") == nil {
		t.Fatal("клуб c1 не найден")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "absent.json"), filepath.Join("testdata", "clubs.json")); err == nil {
		t.Fatal("ожидалась ошибка при отсутствующем файле")
	}
}

func TestNew_DuplicateID(t *testing.T) {
	_, err := New([]Card{{ID: "x", Rating: 50}, {ID: "x", Rating: 60}}, nil)
	if err == nil {
		t.Fatal("ожидалась ошибка на дубликате id")
	}
}

func TestNew_EmptyID(t *testing.T) {
	_, err := New([]Card{{Name: "без id", Rating: 50}}, nil)
	if err == nil {
		t.Fatal("ожидалась ошибка на карте без id")
	}
}
