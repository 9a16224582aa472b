package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewTransactionID produces a ledger transaction identifier of the form
// TXN<unix-millis><5 random chars>. The millisecond prefix keeps ids roughly
// sortable by creation time; the random tail makes collisions within the
// same millisecond overwhelmingly unlikely. The ledger still retries on the
// rare unique-constraint violation rather than trusting this outright.
func NewTransactionID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:5]
	return "TXN" + strconv.FormatInt(time.Now().UnixMilli(), 10) + suffix
}
