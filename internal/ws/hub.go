package ws

import (
	"encoding/json"
	"sync"

	"football_stars/internal/domain"
	"football_stars/internal/logger"
)

// Hub рассылает события рынка всем подключенным клиентам мини-аппа.
// Поток только на чтение: клиенты ничего не присылают, кроме ping.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast отправляет событие рынка всем клиентам. Медленный клиент
// с переполненным буфером отключается, чтобы не тормозить остальных.
func (h *Hub) Broadcast(event string, listing *domain.Listing) {
	payload, err := json.Marshal(map[string]interface{}{
		"event":   event,
		"listing": listing,
	})
	if err != nil {
		logger.Error("market feed: ошибка сериализации", "error", err)
		return
	}

	h.mu.RLock()
	var slow []*Client
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.unregister(c)
	}
}
