package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// init_data старше часа считаем replay-попыткой
	initDataMaxAge = time.Hour
	// допустимый уход часов клиента вперед
	initDataClockSkew = 5 * time.Minute
)

// webAppSecret выводит ключ подписи init_data из токена бота.
// Telegram WebApp использует HMAC-SHA256 с константой "WebAppData".
func webAppSecret(botToken string) []byte {
	mac := hmac.New(sha256.New, []byte("WebAppData"))
	mac.Write([]byte(botToken))
	return mac.Sum(nil)
}

// initDataCheckString собирает строку для проверки подписи:
// пары k=v без hash, отсортированные и склеенные через \n.
func initDataCheckString(values url.Values) string {
	pairs := make([]string, 0, len(values))
	for k, v := range values {
		pairs = append(pairs, k+"="+strings.Join(v, ""))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "\n")
}

// ValidateTelegramInitData проверяет подпись Telegram WebApp init_data
// и свежесть auth_date. При успехе возвращает разобранные поля.
func ValidateTelegramInitData(initData, botToken string) (url.Values, bool) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, false
	}

	provided, err := hex.DecodeString(values.Get("hash"))
	if err != nil || len(provided) == 0 {
		return nil, false
	}
	values.Del("hash")

	mac := hmac.New(sha256.New, webAppSecret(botToken))
	mac.Write([]byte(initDataCheckString(values)))
	if !hmac.Equal(mac.Sum(nil), provided) {
		return nil, false
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, false
	}
	age := time.Since(time.Unix(authDate, 0))
	if age > initDataMaxAge || age < -initDataClockSkew {
		return nil, false
	}

	return values, true
}
