package holiday

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cyp0633/libcapacity/calendar"
)

func withClock(now func() time.Time) CacheOption {
	return func(c *Cached) {
		c.now = now
	}
}

func TestEaster(t *testing.T) {
	tests := map[int]string{
		2019: "2019-04-21",
		2024: "2024-03-31",
		2025: "2025-04-20",
		2038: "2038-04-25",
	}
	for year, want := range tests {
		assert.Equal(t, want, Easter(year).String(), "year %d", year)
	}
}

func TestBrazil_Holidays(t *testing.T) {
	h, err := Brazil{}.Holidays(2024)
	require.NoError(t, err)

	assert.Len(t, h, 12)
	for _, want := range []string{
		"2024-01-01", "2024-02-12", "2024-03-29", "2024-04-21", "2024-05-01",
		"2024-05-30", "2024-09-07", "2024-10-12", "2024-11-02", "2024-11-15",
		"2024-11-20", "2024-12-25",
	} {
		assert.True(t, h.Set().Has(calendar.MustParse(want)), "missing %s", want)
	}
	assert.Equal(t, "Corpus Christi", h[calendar.MustParse("2024-05-30")])
}

func TestStatic_Holidays(t *testing.T) {
	s := Static{
		calendar.MustParse("2023-12-25"): "Natal",
		calendar.MustParse("2024-01-01"): "Ano Novo",
	}

	h, err := s.Holidays(2024)
	require.NoError(t, err)
	assert.Equal(t, Static{calendar.MustParse("2024-01-01"): "Ano Novo"}, h)

	s.Merge(Static{calendar.MustParse("2024-01-01"): "Other", calendar.MustParse("2024-01-02"): "Extra"})
	assert.Equal(t, "Ano Novo", s[calendar.MustParse("2024-01-01")])
	assert.Len(t, s, 3)
}

func TestCombined(t *testing.T) {
	local := Static{
		calendar.MustParse("2024-01-25"): "Aniversário de São Paulo",
		calendar.MustParse("2024-01-01"): "Local New Year",
	}
	h, err := Combined{Brazil{}, nil, local}.Holidays(2024)
	require.NoError(t, err)
	assert.Len(t, h, 13)
	assert.Equal(t, "Confraternização Universal", h[calendar.MustParse("2024-01-01")])

	failing := &MockProvider{}
	failing.On("Holidays", 2024).Return(nil, errors.New("boom"))
	_, err = Combined{local, failing}.Holidays(2024)
	assert.Error(t, err)
}

func TestCollect(t *testing.T) {
	p := &MockProvider{}
	p.On("Holidays", 2023).Return(Static{calendar.MustParse("2023-12-25"): "Natal"}, nil)
	p.On("Holidays", 2024).Return(Static{calendar.MustParse("2024-01-01"): "Ano Novo"}, nil)

	r := calendar.NewRange(calendar.MustParse("2023-12-20"), calendar.MustParse("2024-01-10"))
	set, err := ForRange(p, r)
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-12-25", "2024-01-01"}, set.Strings())
	p.AssertExpectations(t)

	failing := &MockProvider{}
	failing.On("Holidays", 2024).Return(nil, errors.New("feed unavailable"))
	_, err = Collect(failing, 2024)
	assert.ErrorContains(t, err, "feed unavailable")

	empty, err := Collect(nil, 2024)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLoadICS(t *testing.T) {
	feed := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//Holidays//EN
BEGIN:VEVENT
UID:h1
SUMMARY:Ano Novo
DTSTART;VALUE=DATE:20240101
DTEND;VALUE=DATE:20240102
END:VEVENT
BEGIN:VEVENT
UID:h2
SUMMARY:Carnaval
DTSTART;VALUE=DATE:20240212
DTEND;VALUE=DATE:20240214
END:VEVENT
BEGIN:VEVENT
UID:h3
SUMMARY:Timed
DTSTART:20240501T090000Z
END:VEVENT
END:VCALENDAR`

	h, err := LoadICS(strings.NewReader(feed))
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-01", "2024-02-12", "2024-02-13", "2024-05-01"}, h.Set().Strings())
	assert.Equal(t, "Carnaval", h[calendar.MustParse("2024-02-13")])

	_, err = LoadICS(strings.NewReader("BEGIN:VCALENDAR\nBROKEN"))
	assert.Error(t, err)
}

func TestXMLRoundTrip(t *testing.T) {
	s := Static{
		calendar.MustParse("2024-12-25"): "Natal",
		calendar.MustParse("2024-01-01"): "Ano Novo",
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, s))
	assert.Less(t, strings.Index(buf.String(), "2024-01-01"), strings.Index(buf.String(), "2024-12-25"))

	loaded, err := LoadXML(&buf)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoadXML_Errors(t *testing.T) {
	_, err := LoadXML(strings.NewReader(`<feriados/>`))
	assert.ErrorContains(t, err, "missing <holidays>")

	_, err = LoadXML(strings.NewReader(`<holidays><holiday date="2024-02-30">x</holiday></holidays>`))
	assert.ErrorIs(t, err, calendar.ErrMalformedDate)
}

func TestCached_MemoizesPerYear(t *testing.T) {
	source := &MockProvider{}
	source.On("Holidays", 2024).Return(Static{calendar.MustParse("2024-01-01"): "Ano Novo"}, nil).Once()

	c := NewCached(source, CacheConfig{TTL: time.Hour, MaxEntries: 4, CleanupInterval: time.Hour})
	defer c.Close()

	for i := 0; i < 3; i++ {
		h, err := c.Holidays(2024)
		require.NoError(t, err)
		assert.Len(t, h, 1)
	}
	source.AssertNumberOfCalls(t, "Holidays", 1)
	assert.Equal(t, 1, c.Stats().ActiveEntries)

	c.Invalidate()
	assert.Equal(t, 0, c.Stats().TotalEntries)
}

func TestCached_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	source := &MockProvider{}
	source.On("Holidays", 2024).Return(Static{}, nil)

	c := NewCached(source, CacheConfig{TTL: time.Minute, MaxEntries: 4, CleanupInterval: time.Hour}, withClock(clock))
	defer c.Close()

	_, err := c.Holidays(2024)
	require.NoError(t, err)

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()

	assert.Equal(t, 1, c.Stats().ExpiredEntries)
	_, err = c.Holidays(2024)
	require.NoError(t, err)
	source.AssertNumberOfCalls(t, "Holidays", 2)
}

func TestCached_EvictsLeastRecentlyUsed(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}

	source := &MockProvider{}
	source.On("Holidays", mock.AnythingOfType("int")).Return(Static{}, nil)

	c := NewCached(source, CacheConfig{TTL: time.Hour, MaxEntries: 2, CleanupInterval: time.Hour}, withClock(clock))
	defer c.Close()

	for _, y := range []int{2022, 2023, 2024} {
		_, err := c.Holidays(y)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Stats().TotalEntries)

	// 2022 was evicted; fetching it again hits the source.
	_, err := c.Holidays(2022)
	require.NoError(t, err)
	source.AssertNumberOfCalls(t, "Holidays", 4)
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	source := &MockProvider{}
	source.On("Holidays", 2024).Return(nil, errors.New("boom")).Once()
	source.On("Holidays", 2024).Return(Static{}, nil).Once()

	c := NewCached(source, DefaultCacheConfig)
	defer c.Close()

	_, err := c.Holidays(2024)
	assert.Error(t, err)
	_, err = c.Holidays(2024)
	assert.NoError(t, err)
	c.Close()
}
