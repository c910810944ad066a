package holidays

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turnero/internal/events"
	"turnero/internal/model"
)

type fakeSource struct {
	holidays []model.Holiday
	calls    int
}

func (f *fakeSource) ListHolidays(ctx context.Context, from, to string) ([]model.Holiday, error) {
	f.calls++
	var out []model.Holiday
	for _, h := range f.holidays {
		if h.Date >= from && h.Date <= to {
			out = append(out, h)
		}
	}
	return out, nil
}

func testClient(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRangeCachesSecondRead(t *testing.T) {
	src := &fakeSource{holidays: []model.Holiday{
		{Date: "2024-07-09", Name: "Día de la Independencia"},
	}}
	p := NewProvider(src, testClient(t), time.Minute, zerolog.Nop())

	ctx := context.Background()
	first, err := p.Range(ctx, "2024-07-01", "2024-07-31")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := p.Range(ctx, "2024-07-01", "2024-07-31")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.calls, "second read should come from cache")
}

func TestDateSet(t *testing.T) {
	src := &fakeSource{holidays: []model.Holiday{
		{Date: "2024-07-09", Name: "Día de la Independencia"},
		{Date: "2024-12-25", Name: "Navidad"},
	}}
	p := NewProvider(src, nil, 0, zerolog.Nop())

	set, err := p.DateSet(context.Background(), "2024-07-01", "2024-07-31")
	require.NoError(t, err)
	assert.Contains(t, set, "2024-07-09")
	assert.NotContains(t, set, "2024-12-25")
}

func TestWatchInvalidatesCache(t *testing.T) {
	src := &fakeSource{holidays: []model.Holiday{
		{Date: "2024-07-09", Name: "Día de la Independencia"},
	}}
	p := NewProvider(src, testClient(t), time.Minute, zerolog.Nop())

	bus := events.NewBus()
	p.Watch(bus)

	ctx := context.Background()
	_, err := p.Range(ctx, "2024-07-01", "2024-07-31")
	require.NoError(t, err)

	src.holidays = append(src.holidays, model.Holiday{Date: "2024-07-10", Name: "Feriado puente"})
	bus.Publish(events.Event{Type: events.TypeHolidayChanged, Date: "2024-07-10"})

	fresh, err := p.Range(ctx, "2024-07-01", "2024-07-31")
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
	assert.Equal(t, 2, src.calls)
}

func TestNilClientReadsThrough(t *testing.T) {
	src := &fakeSource{holidays: []model.Holiday{{Date: "2024-05-01", Name: "Día del Trabajador"}}}
	p := NewProvider(src, nil, time.Minute, zerolog.Nop())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		hs, err := p.Range(ctx, "2024-05-01", "2024-05-31")
		require.NoError(t, err)
		assert.Len(t, hs, 1)
	}
	assert.Equal(t, 2, src.calls)
}
