package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Счетчики экономических операций, отдаются на /metrics
var (
	CoinsCredited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "economy_coins_credited_total",
		Help: "Начислено коинов по типам операций",
	}, []string{"kind"})

	CoinsDebited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "economy_coins_debited_total",
		Help: "Списано коинов по типам операций",
	}, []string{"kind"})

	PacksOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "economy_packs_opened_total",
		Help: "Открыто паков",
	})

	MarketSales = promauto.NewCounter(prometheus.CounterOpts{
		Name: "economy_market_sales_total",
		Help: "Продаж на рынке",
	})

	TradesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "economy_trades_accepted_total",
		Help: "Принятых p2p обменов",
	})

	PurchaseGrants = promauto.NewCounter(prometheus.CounterOpts{
		Name: "economy_purchase_grants_total",
		Help: "Применено грантов внешних покупок",
	})

	DuplicateCharges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "economy_duplicate_charges_total",
		Help: "Повторных доставок подтверждения платежа",
	})
)
