package trackingid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const prefix = "ORDR"

// Generate arma un identificador ORDR-YYYYMMDD-XXXXXX con la fecha UTC y
// 3 bytes aleatorios. No se verifica unicidad contra la base.
func Generate(now time.Time) (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("tracking id entropy: %w", err)
	}
	return fmt.Sprintf("%s-%s-%s", prefix, now.UTC().Format("20060102"), strings.ToUpper(hex.EncodeToString(buf))), nil
}
