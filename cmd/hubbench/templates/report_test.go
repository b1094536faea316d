package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport(t *testing.T) {
	out := Report("fan <out>", []string{"kind", "time"}, [][]string{
		{"hub", "1.5ms"},
		{"promise", "12,000"},
	})

	assert.Contains(t, out, "<title>fan &lt;out&gt;</title>")
	assert.Contains(t, out, "<th>kind</th><th>time</th>")
	assert.Contains(t, out, `<td class="text">hub</td><td class="num">1.5ms</td>`)
	assert.Contains(t, out, `<td class="num">12,000</td>`)
	assert.Contains(t, out, "<p>2 rows</p>")
}

func TestCellClass(t *testing.T) {
	for cell, want := range map[string]string{
		"":          "text",
		"hub":       "text",
		"42":        "num",
		"1,000":     "num",
		"3.2µs":     "num",
		"1.2 kn/s":  "num",
		"fan out 2": "text",
	} {
		assert.Equal(t, want, cellClass(cell), cell)
	}
}
