package app

import (
	"fmt"
	"sort"
	"strings"

	"leafscan/internal/domain/entity"
)

// Summarize считает статистику датасета. Пустая или nil-таблица — KindEmptyDataset.
func Summarize(table *entity.DatasetTable) (*entity.DatasetSummary, error) {
	total := table.Len()
	if total == 0 {
		return nil, entity.NewFailure(entity.KindEmptyDataset, "summarize dataset", "", nil)
	}

	severities := make([]int, 0, total)
	healthy := 0
	for _, rec := range table.Records {
		severities = append(severities, rec.Severity)
		if rec.Healthy() {
			healthy++
		}
	}
	diseased := total - healthy

	summary := &entity.DatasetSummary{
		Total:       total,
		Healthy:     healthy,
		Diseased:    diseased,
		HealthyPct:  float64(healthy) / float64(total) * 100,
		DiseasedPct: float64(diseased) / float64(total) * 100,
		Severity:    countValues(severities),
	}

	for _, disease := range entity.DiseaseColumns {
		if !table.HasColumn(disease) {
			continue
		}
		values := make([]int, 0, total)
		for _, rec := range table.Records {
			if v, ok := rec.Flags[disease]; ok {
				values = append(values, v)
			}
		}
		summary.Diseases = append(summary.Diseases, entity.DiseaseCounts{
			Disease: disease,
			Counts:  countValues(values),
		})
	}

	if table.HasColumn(entity.ColumnPredominantStress) {
		var stress []int
		for _, rec := range table.Records {
			if rec.PredominantStress != nil {
				stress = append(stress, *rec.PredominantStress)
			}
		}
		summary.Stress = countValues(stress)
	}

	return summary, nil
}

// countValues строит частотную таблицу по возрастанию значения.
func countValues(values []int) []entity.ValueCount {
	counts := make(map[int]int)
	for _, v := range values {
		counts[v]++
	}
	out := make([]entity.ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, entity.ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// FormatSummary превращает статистику в строки для вывода.
func FormatSummary(s *entity.DatasetSummary) []string {
	lines := []string{
		fmt.Sprintf("Total images: %d", s.Total),
		fmt.Sprintf("🌿 Healthy leaves: %d (%.1f%%)", s.Healthy, s.HealthyPct),
		fmt.Sprintf("🦠 Diseased leaves: %d (%.1f%%)", s.Diseased, s.DiseasedPct),
		fmt.Sprintf("📈 Severity: %s", formatCounts(s.Severity)),
	}
	for _, d := range s.Diseases {
		lines = append(lines, fmt.Sprintf("%s: %s", d.Disease, formatCounts(d.Counts)))
	}
	if len(s.Stress) > 0 {
		lines = append(lines, fmt.Sprintf("Predominant stress: %s", formatCounts(s.Stress)))
	}
	return lines
}

func formatCounts(counts []entity.ValueCount) string {
	parts := make([]string, 0, len(counts))
	for _, vc := range counts {
		parts = append(parts, fmt.Sprintf("%d: %d", vc.Value, vc.Count))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
