// Package progress tracks the learner's points, level and completed
// sessions and persists them through a Store.
package progress

import (
	"errors"
	"slices"

	"github.com/abhisek/eduspark/internal/study"
)

// ErrInvalidAmount is returned when a non-positive point award is requested.
var ErrInvalidAmount = errors.New("point award must be positive")

// Stats is the learner's progress record.
type Stats struct {
	Points            int           `json:"points"`
	Level             int           `json:"level"`
	Badges            []study.Badge `json:"badges"`
	Streak            int           `json:"streak"`
	CompletedSessions int           `json:"completedSessions"`
}

// DefaultStats is the first-run record.
func DefaultStats() Stats {
	return Stats{Level: 1, Badges: []study.Badge{}}
}

func (s Stats) clone() Stats {
	s.Badges = slices.Clone(s.Badges)
	if s.Badges == nil {
		s.Badges = []study.Badge{}
	}
	return s
}

// Policy holds the scoring constants.
type Policy struct {
	PointsPerSession int `mapstructure:"points_per_session"`
	PointsPerLevel   int `mapstructure:"points_per_level"`
}

// DefaultPolicy awards 100 points per completed session with a level every
// 500 points.
func DefaultPolicy() Policy {
	return Policy{PointsPerSession: 100, PointsPerLevel: 500}
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.PointsPerSession <= 0 {
		p.PointsPerSession = d.PointsPerSession
	}
	if p.PointsPerLevel <= 0 {
		p.PointsPerLevel = d.PointsPerLevel
	}
	return p
}

// LevelFor returns the level reached with points: points/perLevel + 1.
// A non-positive perLevel uses the default policy's value.
func LevelFor(points, perLevel int) int {
	if points < 0 {
		points = 0
	}
	if perLevel <= 0 {
		perLevel = DefaultPolicy().PointsPerLevel
	}
	return points/perLevel + 1
}

// ToNextLevel returns how many points remain until the next level.
func (p Policy) ToNextLevel(points int) int {
	p = p.withDefaults()
	return p.PointsPerLevel - points%p.PointsPerLevel
}

// LevelProgress returns the fraction [0,1) of the current level completed.
func (p Policy) LevelProgress(points int) float64 {
	p = p.withDefaults()
	return float64(points%p.PointsPerLevel) / float64(p.PointsPerLevel)
}
