package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Card - карта игрока из справочника. Неизменяема после загрузки.
// Rating используется и для веса в паках, и для силы состава.
type Card struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Rating   int    `json:"rating"`
	Rarity   string `json:"rarity"`
	Image    string `json:"image"`
}

// Club - футбольный клуб из справочника
type Club struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
}

// Catalog - справочник карт и клубов, загружается при старте и больше
// не меняется, поэтому читается без блокировок
type Catalog struct {
	cards   []Card
	clubs   []Club
	cardIdx map[string]*Card
	clubIdx map[string]*Club
}

// Load читает players.json и clubs.json и строит индексы по id
func Load(playersPath, clubsPath string) (*Catalog, error) {
	var cards []Card
	var clubs []Club

	if err := readJSON(playersPath, &cards); err != nil {
		return nil, fmt.Errorf("загрузка карт: %w", err)
	}
	if err := readJSON(clubsPath, &clubs); err != nil {
		return nil, fmt.Errorf("загрузка клубов: %w", err)
	}

	return New(cards, clubs)
}

// New строит справочник из готовых слайсов
func New(cards []Card, clubs []Club) (*Catalog, error) {
	c := &Catalog{
		cards:   cards,
		clubs:   clubs,
		cardIdx: make(map[string]*Card),
		clubIdx: make(map[string]*Club),
	}

	for i := range c.cards {
		card := &c.cards[i]
		if card.ID == "" {
			return nil, fmt.Errorf("карта без id: %q", card.Name)
		}
		if _, dup := c.cardIdx[card.ID]; dup {
			return nil, fmt.Errorf("дубликат id карты: %s", card.ID)
		}
		c.cardIdx[card.ID] = card
	}
	for i := range c.clubs {
		club := &c.clubs[i]
		c.clubIdx[club.ID] = club
	}

	return c, nil
}

func readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Cards возвращает все карты справочника
func (c *Catalog) Cards() []Card {
	return c.cards
}

// Clubs возвращает все клубы справочника
func (c *Catalog) Clubs() []Club {
	return c.clubs
}

// Card ищет карту по id, nil если не найдена
func (c *Catalog) Card(id string) *Card {
	return c.cardIdx[id]
}

// Club ищет клуб по id, nil если не найден
func (c *Catalog) Club(id string) *Club {
	return c.clubIdx[id]
}
