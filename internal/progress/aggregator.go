// Package progress computes completion percentages over the
// trail/module/content hierarchy and answers access-gating questions.
// Nothing here touches storage.
package progress

import "github.com/SAP-F-2025/learning-trails-service/internal/models"

// Records indexes one learner's progress rows by content ID.
type Records map[uint]models.UserProgress

// Index builds Records from a flat list. A later row for the same content wins.
func Index(rows []models.UserProgress) Records {
	records := make(Records, len(rows))
	for _, row := range rows {
		records[row.ContentID] = row
	}
	return records
}

// Completed reports whether contentID has a completed record.
func (r Records) Completed(contentID uint) bool {
	record, ok := r[contentID]
	return ok && record.Completed
}

func percent(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

func countModule(module *models.Module, records Records) (completed, total int) {
	for _, item := range module.ContentItems {
		total++
		if records.Completed(item.ID) {
			completed++
		}
	}
	return completed, total
}

// ModuleProgress is the share of the module's content the learner completed,
// 0 when the module has no content.
func ModuleProgress(module *models.Module, records Records) float64 {
	return percent(countModule(module, records))
}

// TrailProgress is completed content over all content of every module in the
// trail. Modules are not averaged.
func TrailProgress(trail *models.Trail, records Records) float64 {
	return percent(countTrail(trail, records))
}

func countTrail(trail *models.Trail, records Records) (completed, total int) {
	for i := range trail.Modules {
		c, t := countModule(&trail.Modules[i], records)
		completed += c
		total += t
	}
	return completed, total
}

// ModuleBreakdown returns the counted form of ModuleProgress.
func ModuleBreakdown(module *models.Module, records Records) models.ModuleProgress {
	completed, total := countModule(module, records)
	return models.ModuleProgress{
		ModuleID:   module.ID,
		Total:      total,
		Completed:  completed,
		Percentage: percent(completed, total),
	}
}

// TrailBreakdown returns the trail totals together with every module's breakdown.
func TrailBreakdown(trail *models.Trail, records Records) models.TrailProgress {
	result := models.TrailProgress{
		TrailID: trail.ID,
		Modules: make([]models.ModuleProgress, 0, len(trail.Modules)),
	}
	for i := range trail.Modules {
		module := ModuleBreakdown(&trail.Modules[i], records)
		result.Total += module.Total
		result.Completed += module.Completed
		result.Modules = append(result.Modules, module)
	}
	result.Percentage = percent(result.Completed, result.Total)
	return result
}

// ClassBreakdown returns one learner's progress across the class trails. The
// percentage is content-weighted over every assigned trail.
func ClassBreakdown(class *models.Class, userID string, records Records) models.ClassProgress {
	result := models.ClassProgress{
		ClassID: class.ID,
		UserID:  userID,
		Trails:  make([]models.TrailProgress, 0, len(class.Trails)),
	}
	for i := range class.Trails {
		trail := TrailBreakdown(&class.Trails[i], records)
		result.Total += trail.Total
		result.Completed += trail.Completed
		result.Trails = append(result.Trails, trail)
	}
	result.Percentage = percent(result.Completed, result.Total)
	return result
}
