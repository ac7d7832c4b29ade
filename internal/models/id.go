package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID генерирует идентификатор вида "<unix-millis>-<7 hex>".
// Префикс времени сохраняет примерный порядок создания, суффикс берется из UUIDv4.
func NewID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix
}
