package game

import (
	"errors"
	"math/rand"

	"football_stars/internal/catalog"
)

var ErrEmptyCatalog = errors.New("каталог карт пуст")

// CardWeight возвращает вес карты при выпадении из пака.
// Чем выше рейтинг, тем реже карта: weight = max(1, 100 - rating).
func CardWeight(rating int) int64 {
	w := int64(100 - rating)
	if w < 1 {
		w = 1
	}
	return w
}

// PackDrawer выбирает карту из справочника взвешенным случайным образом.
// Источник случайности внедряется, чтобы выпадения были воспроизводимы
// при фиксированном seed.
type PackDrawer struct {
	cards       []catalog.Card
	weights     []int64
	totalWeight int64
	rng         *rand.Rand
}

// NewPackDrawer считает веса всех карт один раз
func NewPackDrawer(cards []catalog.Card, rng *rand.Rand) (*PackDrawer, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyCatalog
	}

	d := &PackDrawer{
		cards:   cards,
		weights: make([]int64, len(cards)),
		rng:     rng,
	}
	for i, c := range cards {
		d.weights[i] = CardWeight(c.Rating)
		d.totalWeight += d.weights[i]
	}
	return d, nil
}

// Draw выбирает карту: бросок в [1, totalWeight], затем проход по
// накопленной сумме весов. Каждая карта выпадает с вероятностью
// weight/totalWeight.
func (d *PackDrawer) Draw() *catalog.Card {
	roll := d.rng.Int63n(d.totalWeight) + 1

	var cumulative int64
	for i := range d.cards {
		cumulative += d.weights[i]
		if roll <= cumulative {
			return &d.cards[i]
		}
	}
	// недостижимо при корректной сумме весов
	return &d.cards[len(d.cards)-1]
}

// TotalWeight возвращает сумму весов всех карт
func (d *PackDrawer) TotalWeight() int64 {
	return d.totalWeight
}
