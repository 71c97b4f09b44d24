package game

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SelectFunc is called when a crawler is picked, with its id and rendered
// position.
type SelectFunc func(id int, pos [3]float64)

// Scene owns the crawlers living in one arena and drives them from the
// host's frame clock. All updates run sequentially on the caller's
// goroutine.
type Scene struct {
	id       string
	arena    *Arena
	crawlers []*Crawler
	nextID   int
	elapsed  float64
	frame    int
	rng      *rand.Rand
	log      *zap.Logger
	onSelect SelectFunc
}

// SceneOption configures a Scene at construction.
type SceneOption func(*Scene)

// WithLogger routes scene events to l.
func WithLogger(l *zap.Logger) SceneOption {
	return func(s *Scene) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRand replaces the scene's random source. Every crawler spawned later
// draws from it, so a seeded source makes a whole run reproducible.
func WithRand(r *rand.Rand) SceneOption {
	return func(s *Scene) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithSelect installs the crawler selection callback.
func WithSelect(fn SelectFunc) SceneOption {
	return func(s *Scene) {
		s.onSelect = fn
	}
}

// NewScene builds a scene over arena. Without WithRand the scene seeds from
// seed, or from the clock when seed is 0.
func NewScene(arena *Arena, seed int64, opts ...SceneOption) *Scene {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Scene{
		id:    uuid.NewString(),
		arena: arena,
		rng:   rand.New(rand.NewSource(seed)), // #nosec G404 -- cosmetic wandering
		log:   zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With(zap.String("scene", s.id))
	s.log.Debug("scene created",
		zap.Int("zones", len(arena.Field.zones)),
		zap.Int64("seed", seed))
	return s
}

// ID is the scene's session identifier.
func (s *Scene) ID() string { return s.id }

// Arena returns the shared world.
func (s *Scene) Arena() *Arena { return s.arena }

// Elapsed is the accumulated simulated time.
func (s *Scene) Elapsed() float64 { return s.elapsed }

// Frame is the number of Tick calls so far.
func (s *Scene) Frame() int { return s.frame }

// Crawlers returns the live crawlers in spawn order. The slice is shared;
// do not modify it.
func (s *Scene) Crawlers() []*Crawler { return s.crawlers }

// HasCrawler reports whether at least one crawler is alive.
func (s *Scene) HasCrawler() bool { return len(s.crawlers) > 0 }

// Crawler looks up a live crawler by id.
func (s *Scene) Crawler(id int) (*Crawler, bool) {
	for _, c := range s.crawlers {
		if c.id == id {
			return c, true
		}
	}
	return nil, false
}

// Spawn drops a crawler at a random point of the spawn area, the way a
// click on the web does.
func (s *Scene) Spawn() *Crawler {
	sp := s.arena.Spawn
	x := sp.MinX + s.rng.Float64()*sp.Width()
	z := sp.MinZ + s.rng.Float64()*sp.Depth()
	return s.SpawnAt(x, s.arena.SpawnHeight, z)
}

// SpawnAt adds a crawler at (x,y,z).
func (s *Scene) SpawnAt(x, y, z float64) *Crawler {
	c := NewCrawler(s.nextID, x, y, z, s.arena, s.rng)
	s.nextID++
	s.crawlers = append(s.crawlers, c)
	s.log.Debug("crawler spawned",
		zap.Int("crawler", c.id),
		zap.Float64("x", c.pose.X),
		zap.Float64("z", c.pose.Z))
	return c
}

// Remove drops a crawler from the scene. Its pose is no longer updated.
func (s *Scene) Remove(id int) bool {
	for i, c := range s.crawlers {
		if c.id != id {
			continue
		}
		s.crawlers = append(s.crawlers[:i], s.crawlers[i+1:]...)
		s.log.Debug("crawler removed", zap.Int("crawler", id))
		return true
	}
	return false
}

// Tick advances every crawler by delta seconds and returns their reports in
// the same order as Crawlers().
func (s *Scene) Tick(delta float64) []StepReport {
	if delta <= 0 {
		return nil
	}
	s.frame++
	s.elapsed += delta
	reports := make([]StepReport, len(s.crawlers))
	for i, c := range s.crawlers {
		reports[i] = c.Step(delta, s.elapsed)
		if reports[i].StuckEscape {
			tx, tz := c.Target()
			s.log.Debug("crawler stuck, escaping",
				zap.Int("crawler", c.id),
				zap.Float64("target_x", tx),
				zap.Float64("target_z", tz))
		}
	}
	return reports
}

// Pick finds the crawler nearest (x,z) within radius and reports it to the
// selection callback.
func (s *Scene) Pick(x, z, radius float64) (*Crawler, bool) {
	best := radius * radius
	var hit *Crawler
	for _, c := range s.crawlers {
		dx := c.pose.X - x
		dz := c.pose.Z - z
		// Compare squared distances to skip the sqrt.
		if d2 := dx*dx + dz*dz; d2 <= best {
			best = d2
			hit = c
		}
	}
	if hit == nil {
		return nil, false
	}
	if s.onSelect != nil {
		s.onSelect(hit.id, hit.pose.Position())
	}
	return hit, true
}
