// Package cache memoizes evaluation reports so repeated claims in a batch
// are classified once.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/sst/internal/model"
)

// Cache stores finished reports. Cached reports are shared and must be
// treated as read-only.
type Cache interface {
	Get(key string) (*model.Report, bool)
	Set(key string, report *model.Report, ttl time.Duration)
	Delete(key string)
	Clear()
}

// Key identifies one evaluation: the same mode, claim, sources and initial
// coherence always produce the same report
func Key(mode model.Mode, text string, sources []string, coherence float64) string {
	h := sha256.New()
	write := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}

	write(string(mode))
	write(strings.TrimSpace(text))
	write(strconv.Itoa(len(sources)))
	for _, s := range sources {
		write(s)
	}
	write(strconv.FormatFloat(coherence, 'g', -1, 64))

	return "sst:v1:" + hex.EncodeToString(h.Sum(nil))
}
