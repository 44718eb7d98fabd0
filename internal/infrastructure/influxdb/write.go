package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/generator"
)

// measurementGeneration holds one point per planner run.
const measurementGeneration = "plan_generation"

// Generation describes one planner run.
type Generation struct {
	Project  string
	Mode     string
	CacheHit bool
	Stats    generator.Stats
	Duration time.Duration
	At       time.Time
}

// WriteGeneration records a planner run. The write is non-blocking.
//
// Tags: site, project, mode, cache (hit|miss).
// Fields: main_groups, middle_groups, addresses, separators, duration_ms.
func (c *Client) WriteGeneration(g Generation) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(generationPoint(c.siteID, g))
}

func generationPoint(siteID string, g Generation) *write.Point {
	cache := "miss"
	if g.CacheHit {
		cache = "hit"
	}

	at := g.At
	if at.IsZero() {
		at = time.Now()
	}

	return write.NewPoint(
		measurementGeneration,
		map[string]string{
			"site":    siteID,
			"project": g.Project,
			"mode":    g.Mode,
			"cache":   cache,
		},
		map[string]interface{}{
			"main_groups":   g.Stats.MainGroups,
			"middle_groups": g.Stats.MiddleGroups,
			"addresses":     g.Stats.Addresses,
			"separators":    g.Stats.Separators,
			"duration_ms":   float64(g.Duration) / float64(time.Millisecond),
		},
		at,
	)
}
