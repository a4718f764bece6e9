// Package bytesize форматирует размеры файлов в человекочитаемый вид (десятичные единицы).
package bytesize

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

type unit struct {
	size uint64
	name string
}

var units = []unit{
	{humanize.IByte, "B"},
	{humanize.KByte, "kB"},
	{humanize.MByte, "MB"},
	{humanize.GByte, "GB"},
	{humanize.TByte, "TB"},
	{humanize.PByte, "PB"},
	{humanize.EByte, "EB"},
}

// Format возвращает размер в наибольшей единице, где значение не меньше 1,
// округляя до двух знаков: 1557809 -> "1.56 MB".
func Format(b uint64) string {
	if b < humanize.KByte {
		return strconv.FormatUint(b, 10) + " B"
	}

	idx := 0
	for idx+1 < len(units) && b >= units[idx+1].size {
		idx++
	}

	value := round2(float64(b) / float64(units[idx].size))
	// 999999 округляется до 1000 kB, поэтому переносим в следующую единицу.
	if value >= 1000 && idx+1 < len(units) {
		idx++
		value = round2(float64(b) / float64(units[idx].size))
	}

	return humanize.FtoaWithDigits(value, 2) + " " + units[idx].name
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
