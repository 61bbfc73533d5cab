package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// DedupKey fingerprints a posting by its identifying fields. The same
// title/company/location always map to the same key regardless of case, so
// re-scraping an unchanged page never produces a fresh record.
func DedupKey(title, company, location string) string {
	unique := strings.ToLower(fmt.Sprintf("%s_%s_%s", title, company, location))
	sum := sha256.Sum256([]byte(unique))
	return hex.EncodeToString(sum[:])
}
