// Package telemetry collects and exports per-window simulation statistics.
package telemetry

// Collector accumulates simulation events over one stats window.
// Not safe for concurrent use; the simulation tick is single-threaded.
type Collector struct {
	births []int
	deaths []int

	// FoodConsumed is the total food eaten during the window.
	FoodConsumed float64
}

// NewCollector creates a collector for the given species count.
func NewCollector(numSpecies int) *Collector {
	return &Collector{
		births: make([]int, numSpecies),
		deaths: make([]int, numSpecies),
	}
}

// RecordBirth counts one reproduction of a species.
func (c *Collector) RecordBirth(species int) {
	if species >= 0 && species < len(c.births) {
		c.births[species]++
	}
}

// RecordDeath counts one starvation death of a species.
func (c *Collector) RecordDeath(species int) {
	if species >= 0 && species < len(c.deaths) {
		c.deaths[species]++
	}
}

// RecordFood accumulates consumed food.
func (c *Collector) RecordFood(amount float32) {
	c.FoodConsumed += float64(amount)
}

// BirthCount returns the births recorded for a species this window.
func (c *Collector) BirthCount(species int) int {
	if species < 0 || species >= len(c.births) {
		return 0
	}
	return c.births[species]
}

// DeathCount returns the deaths recorded for a species this window.
func (c *Collector) DeathCount(species int) int {
	if species < 0 || species >= len(c.deaths) {
		return 0
	}
	return c.deaths[species]
}

// Reset clears all counters for the next window.
func (c *Collector) Reset() {
	for i := range c.births {
		c.births[i] = 0
		c.deaths[i] = 0
	}
	c.FoodConsumed = 0
}
