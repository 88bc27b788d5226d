// internal/domain/user.go
package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// User представляет пользователя трекера.
// Создается один раз, никогда не изменяется и не удаляется.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// NormalizeUsername приводит имя пользователя к каноническому виду (trim + NFC),
// чтобы проверка уникальности не зависела от способа набора символов.
func NormalizeUsername(username string) string {
	return norm.NFC.String(strings.TrimSpace(username))
}
