//go:generate qtc -file=report.qtpl

package templates

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// cellClass right-aligns cells that read as numbers or durations.
func cellClass(cell string) string {
	if isNumeric(cell) {
		return "num"
	}
	return "text"
}

func isNumeric(cell string) bool {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return false
	}
	if _, err := time.ParseDuration(cell); err == nil {
		return true
	}
	if _, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64); err == nil {
		return true
	}
	// humanize.SI output such as "1.2 kn/s"
	return unicode.IsDigit(rune(cell[0])) && strings.Contains(cell, " ")
}
