package holiday

import (
	"time"

	"github.com/cyp0633/libcapacity/calendar"
)

// Brazil computes the Brazilian national holidays: the fixed-date ones and
// the Easter-based movable feasts (Carnival, Good Friday, Corpus Christi).
type Brazil struct{}

var brazilFixed = []struct {
	month time.Month
	day   int
	name  string
}{
	{time.January, 1, "Confraternização Universal"},
	{time.April, 21, "Tiradentes"},
	{time.May, 1, "Dia do Trabalhador"},
	{time.September, 7, "Independência do Brasil"},
	{time.October, 12, "Nossa Senhora Aparecida"},
	{time.November, 2, "Finados"},
	{time.November, 15, "Proclamação da República"},
	{time.November, 20, "Dia Nacional de Zumbi e da Consciência Negra"},
	{time.December, 25, "Natal"},
}

// Holidays implements Provider.
func (Brazil) Holidays(year int) (Static, error) {
	out := make(Static, len(brazilFixed)+3)
	for _, f := range brazilFixed {
		out[calendar.New(year, f.month, f.day)] = f.name
	}

	easter := Easter(year)
	out.Merge(Static{
		easter.AddDays(-48): "Carnaval",
		easter.AddDays(-2):  "Sexta-feira Santa",
		easter.AddDays(60):  "Corpus Christi",
	})
	return out, nil
}

// Easter returns Easter Sunday of the given Gregorian year using the
// anonymous Gregorian (Meeus/Jones/Butcher) algorithm.
func Easter(year int) calendar.Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return calendar.New(year, time.Month(month), day)
}
