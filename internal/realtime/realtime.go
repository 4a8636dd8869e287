// Package realtime simulates the live city conditions (weather, crowds, traffic) that the
// assistant quotes in its replies. There is no sensor feed: every refresh samples fresh
// values uniformly at random.
package realtime

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"
)

// Weather is the simulated sky condition.
type Weather string

const (
	Sunny  Weather = "sunny"
	Cloudy Weather = "cloudy"
	Rainy  Weather = "rainy"
	Windy  Weather = "windy"
)

// Weathers is the weather enumeration.
var Weathers = []Weather{Sunny, Cloudy, Rainy, Windy}

// CrowdLevel is how busy a place is.
type CrowdLevel string

const (
	CrowdLow      CrowdLevel = "low"
	CrowdModerate CrowdLevel = "moderate"
	CrowdHigh     CrowdLevel = "high"
)

// CrowdLevels is the crowd enumeration.
var CrowdLevels = []CrowdLevel{CrowdLow, CrowdModerate, CrowdHigh}

// TrafficLevel is how congested a road is.
type TrafficLevel string

const (
	TrafficLight    TrafficLevel = "light"
	TrafficModerate TrafficLevel = "moderate"
	TrafficHeavy    TrafficLevel = "heavy"
)

// TrafficLevels is the traffic enumeration.
var TrafficLevels = []TrafficLevel{TrafficLight, TrafficModerate, TrafficHeavy}

// Snapshot is one complete reading of city conditions. It is never modified after
// creation; a refresh produces a new Snapshot.
type Snapshot struct {
	Weather           Weather
	CrowdLevels       map[string]CrowdLevel
	TrafficConditions map[string]TrafficLevel
	GeneratedAt       time.Time
}

// Crowd returns the crowd level at place, or moderate when the place is not tracked.
func (s Snapshot) Crowd(place string) CrowdLevel {
	if level, ok := s.CrowdLevels[place]; ok {
		return level
	}
	return CrowdModerate
}

// Traffic returns the traffic level on road, or moderate when the road is not tracked.
func (s Snapshot) Traffic(road string) TrafficLevel {
	if level, ok := s.TrafficConditions[road]; ok {
		return level
	}
	return TrafficModerate
}

// Initial is the snapshot in effect before the first refresh: sunny with nothing tracked.
func Initial() Snapshot {
	return Snapshot{
		Weather:           Sunny,
		CrowdLevels:       map[string]CrowdLevel{},
		TrafficConditions: map[string]TrafficLevel{},
	}
}

// Generator samples new snapshots. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator returns a generator drawing from rng. A nil rng uses a randomly seeded source.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{rng: rng, now: time.Now}
}

// Refresh samples every tracked place, road and the weather independently.
func (g *Generator) Refresh() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	crowd := make(map[string]CrowdLevel, len(CrowdPlaces))
	for _, place := range CrowdPlaces {
		crowd[place] = CrowdLevels[g.rng.IntN(len(CrowdLevels))]
	}
	traffic := make(map[string]TrafficLevel, len(Roads))
	for _, road := range Roads {
		traffic[road] = TrafficLevels[g.rng.IntN(len(TrafficLevels))]
	}

	return Snapshot{
		Weather:           Weathers[g.rng.IntN(len(Weathers))],
		CrowdLevels:       crowd,
		TrafficConditions: traffic,
		GeneratedAt:       g.now(),
	}
}

// Feed holds the current snapshot. Readers always see a whole snapshot; Refresh swaps
// the pointer.
type Feed struct {
	gen     *Generator
	logger  *slog.Logger
	current atomic.Pointer[Snapshot]
}

// NewFeed returns a feed starting at Initial.
func NewFeed(gen *Generator, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Feed{gen: gen, logger: logger.With("component", "realtime_feed")}
	initial := Initial()
	f.current.Store(&initial)
	return f
}

// Current returns the latest snapshot.
func (f *Feed) Current() Snapshot {
	return *f.current.Load()
}

// Refresh replaces the current snapshot with a freshly sampled one and returns it.
func (f *Feed) Refresh() Snapshot {
	next := f.gen.Refresh()
	f.current.Store(&next)
	f.logger.Debug("Realtime snapshot refreshed",
		"weather", next.Weather,
		"crowd_levels", len(next.CrowdLevels),
		"traffic_conditions", len(next.TrafficConditions))
	return next
}
