package service

import (
	"encoding/hex"
	"strconv"

	"otnanalyzer/internal/core/scanner"

	"github.com/spaolacci/murmur3"
)

// Fingerprint identifies a sanitized stream under one parameter set and lane
// the same stream scanned with other thresholds, markers or for another lane gets a different fingerprint
func Fingerprint(stream string, p scanner.Params, extra []string, laneID int) string {
	h := murmur3.New128()
	_, _ = h.Write([]byte(stream))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(p.Marker))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(strconv.AppendFloat(nil, p.ExpectedPeriodBytes, 'g', -1, 64))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(strconv.AppendFloat(nil, p.ToleranceBytes, 'g', -1, 64))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(strconv.AppendInt(nil, int64(laneID), 10))
	for _, m := range extra {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(m))
	}
	return hex.EncodeToString(h.Sum(nil))
}
