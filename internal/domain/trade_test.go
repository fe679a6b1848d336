package domain

import "testing"

func TestTradeFee(t *testing.T) {
	cases := []struct {
		price int64
		want  int64
	}{
		{1, 1},    // минимум 1 даже для копеечных сделок
		{19, 1},   // 5% = 0.95, округляется вниз, но не ниже 1
		{20, 1},   // ровно 1
		{100, 5},  // 5%
		{101, 5},  // дробная часть отбрасывается
		{1000, 50},
	}
	for _, c := range cases {
		if got := TradeFee(c.price); got != c.want {
			t.Errorf("TradeFee(%d) = %d, ожидалось %d", c.price, got, c.want)
		}
	}
}
