package dashboard

import (
	"fmt"
	"math"
	"time"
)

func periodDays(p Period) int {
	if p == PeriodWeek {
		return 7
	}
	return 30
}

// periodWindow devuelve [medianoche de hoy−N días, fin del día de hoy],
// en hora local.
func periodWindow(now time.Time, p Period) (time.Time, time.Time) {
	start := startOfDay(now.AddDate(0, 0, -periodDays(p)))
	return start, endOfDay(now)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// formatTrend calcula el % de variación contra la ventana anterior.
// previous == 0 evita la división: +100% si hubo algo, 0% si no
// (pasar de nada a algo cuenta como salto completo, no como infinito).
// El signo + es explícito para valores no negativos.
func formatTrend(current, previous int) string {
	if previous == 0 {
		if current > 0 {
			return "+100%"
		}
		return "0%"
	}

	trend := int(math.Round(float64(current-previous) / float64(previous) * 100))
	if trend >= 0 {
		return fmt.Sprintf("+%d%%", trend)
	}
	return fmt.Sprintf("%d%%", trend)
}
