// Package sales agregaciones de ventas sobre pedidos ya cargados.
package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estore-api/internal/domain"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
)

// RevenueBucket ganancia (venta - costo) de un período. Period es el primer día del mes
// en el reporte mensual y el domingo que cierra la semana en el semanal.
type RevenueBucket struct {
	Period  time.Time
	Revenue decimal.Decimal
}

// Day trunca t a medianoche en su propia zona.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ValidatePeriod exige que start sea un día anterior a end.
func ValidatePeriod(start, end time.Time) error {
	if !Day(start).Before(Day(end)) {
		return domain.ErrInvalidPeriod
	}
	return nil
}

// DayRange límites [desde, hasta) del período: desde el inicio de start hasta el final de end.
func DayRange(start, end time.Time) (time.Time, time.Time) {
	return Day(start), Day(end.In(start.Location())).AddDate(0, 0, 1)
}

// MonthlyRevenue un bucket por mes desde el mes de end hasta el de start, el más reciente primero.
// Sólo cuentan los pedidos dentro de DayRange: los meses de los extremos quedan parciales.
func MonthlyRevenue(orders []*entity.Order, start, end time.Time) ([]RevenueBucket, error) {
	if err := ValidatePeriod(start, end); err != nil {
		return nil, err
	}
	end = end.In(start.Location())
	from, to := DayRange(start, end)
	first := firstOfMonth(start)
	var buckets []RevenueBucket
	index := make(map[string]int)
	for m := firstOfMonth(end); !m.Before(first); m = m.AddDate(0, -1, 0) {
		index[dayKey(m)] = len(buckets)
		buckets = append(buckets, RevenueBucket{Period: m, Revenue: decimal.Zero})
	}
	for _, o := range orders {
		created := o.CreatedAt.In(start.Location())
		if created.Before(from) || !created.Before(to) {
			continue
		}
		i, ok := index[dayKey(firstOfMonth(created))]
		if !ok {
			continue
		}
		buckets[i].Revenue = buckets[i].Revenue.Add(o.Profit())
	}
	return buckets, nil
}

// WeekRange lleva start al lunes de su semana y end al domingo de la suya.
func WeekRange(start, end time.Time) (monday, sunday time.Time) {
	monday = Day(start).AddDate(0, 0, -daysSinceMonday(start))
	sunday = Day(end).AddDate(0, 0, 6-daysSinceMonday(end))
	return monday, sunday
}

// WeeklyRevenue un bucket por semana lunes-domingo, identificado por su domingo, el más reciente primero.
func WeeklyRevenue(orders []*entity.Order, start, end time.Time) ([]RevenueBucket, error) {
	if err := ValidatePeriod(start, end); err != nil {
		return nil, err
	}
	monday, sunday := WeekRange(start, end.In(start.Location()))
	var buckets []RevenueBucket
	index := make(map[string]int)
	for s := sunday; s.After(monday); s = s.AddDate(0, 0, -7) {
		index[dayKey(s)] = len(buckets)
		buckets = append(buckets, RevenueBucket{Period: s, Revenue: decimal.Zero})
	}
	for _, o := range orders {
		created := o.CreatedAt.In(start.Location())
		key := Day(created).AddDate(0, 0, 6-daysSinceMonday(created))
		i, ok := index[dayKey(key)]
		if !ok {
			continue
		}
		buckets[i].Revenue = buckets[i].Revenue.Add(o.Profit())
	}
	return buckets, nil
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func firstOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// daysSinceMonday 0 para lunes ... 6 para domingo.
func daysSinceMonday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
