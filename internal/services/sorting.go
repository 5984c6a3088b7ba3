package services

import (
	"sort"

	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/models"
)

// sortTieWindow groups tasks touched within one minute of each other so
// near-simultaneous events order by importance rather than by sub-minute
// timestamp noise.
const sortTieWindow = 60_000 // milliseconds

// SortTasks orders tasks most-recently-touched first, breaking ties within
// the one-minute window by priority weight. The input slice is sorted in
// place and returned.
func SortTasks(tasks []models.Task) []models.Task {
	sort.SliceStable(tasks, func(i, j int) bool {
		ti := tasks[i].LatestTouch().UnixMilli()
		tj := tasks[j].LatestTouch().UnixMilli()

		delta := ti - tj
		if delta < 0 {
			delta = -delta
		}
		if delta > sortTieWindow {
			return ti > tj
		}

		wi := models.PriorityWeight(tasks[i].Priority)
		wj := models.PriorityWeight(tasks[j].Priority)
		if wi != wj {
			return wi > wj
		}
		return ti > tj
	})
	return tasks
}
