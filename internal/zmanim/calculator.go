package zmanim

import (
	"context"
	"fmt"
	"strings"

	"github.com/zapponejosh/zmanim-schedule/internal/astronomy"
	"github.com/zapponejosh/zmanim-schedule/internal/calendar"
	"github.com/zapponejosh/zmanim-schedule/internal/liturgy"
	"github.com/zapponejosh/zmanim-schedule/internal/metrics"
)

// Separator is printed after every schedule line.
var Separator = strings.Repeat("=", 120)

// Service names used in lookup errors and metrics.
const (
	ServiceAstronomy = metrics.ServiceAstronomy
	ServiceLiturgy   = metrics.ServiceLiturgy
)

// LookupError reports a service that could not resolve a date.
type LookupError struct {
	Service string
	Day     calendar.Day
	Err     error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s lookup for %s: %v", e.Service, e.Day, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// ScheduleLine is the posted schedule for one week.
type ScheduleLine struct {
	WeekLabel      string `json:"week"`
	ReadingLabel   string `json:"parsha"`
	Vasikin        string `json:"vasikin"`
	MinchaMaariv   string `json:"mincha_maariv"`
	CandleLighting string `json:"candle_lighting"`
	ShabbosMincha  string `json:"shabbos_mincha"`
	ZmanMelacha    string `json:"zman_melacha"`
}

// String formats the line as it is printed on the schedule.
func (l ScheduleLine) String() string {
	return fmt.Sprintf("%s - %s v: %s mm: %s c: %s sm: %s zm: %s",
		l.ReadingLabel, l.WeekLabel, l.Vasikin, l.MinchaMaariv, l.CandleLighting, l.ShabbosMincha, l.ZmanMelacha)
}

// Calculator builds schedule lines from the astronomy and liturgy services.
type Calculator struct {
	astronomy astronomy.Service
	liturgy   liturgy.Service
}

// NewCalculator creates a calculator over the given services.
func NewCalculator(astro astronomy.Service, lit liturgy.Service) *Calculator {
	return &Calculator{astronomy: astro, liturgy: lit}
}

// BuildScheduleLine computes the six posted times and the reading for a week.
// The first failing lookup is returned as a *LookupError.
func (c *Calculator) BuildScheduleLine(ctx context.Context, week calendar.Week) (ScheduleLine, error) {
	midweek, err := c.zmanim(ctx, week.Midweek)
	if err != nil {
		return ScheduleLine{}, err
	}
	eve, err := c.zmanim(ctx, week.Eve)
	if err != nil {
		return ScheduleLine{}, err
	}
	shabbos, err := c.zmanim(ctx, week.Terminal)
	if err != nil {
		return ScheduleLine{}, err
	}

	parsha, err := c.liturgy.ReadingIndex(ctx, week.Terminal)
	if err != nil {
		metrics.IncLookupFailure(ServiceLiturgy)
		return ScheduleLine{}, &LookupError{Service: ServiceLiturgy, Day: week.Terminal, Err: err}
	}

	candles, mincha := CandleLighting(eve.Sunset)
	early, rabbeinuTam := ZmanMelacha(shabbos.Sunset)

	return ScheduleLine{
		WeekLabel:      week.Label,
		ReadingLabel:   parsha.String(),
		Vasikin:        Vasikin(midweek.Sunrise).String(),
		MinchaMaariv:   MinchaMaariv(midweek.Sunset).String(),
		CandleLighting: pair(candles, mincha),
		ShabbosMincha:  ShabbosMincha(shabbos.Sunset).String(),
		ZmanMelacha:    pair(early, rabbeinuTam),
	}, nil
}

func (c *Calculator) zmanim(ctx context.Context, day calendar.Day) (astronomy.Snapshot, error) {
	snap, err := c.astronomy.Zmanim(ctx, day)
	if err != nil {
		metrics.IncLookupFailure(ServiceAstronomy)
		return astronomy.Snapshot{}, &LookupError{Service: ServiceAstronomy, Day: day, Err: err}
	}
	return snap, nil
}
