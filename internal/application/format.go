package app

import (
	"fmt"

	"leafscan/internal/domain/entity"
)

// NoDetectionsLine — единственная строка вывода, когда модель ничего не нашла.
const NoDetectionsLine = "🔍 No objects detected"

// FormatDetections возвращает по строке на находку: порядковый номер с 1, класс, уверенность до трёх знаков.
func FormatDetections(detections []entity.Detection) []string {
	if len(detections) == 0 {
		return []string{NoDetectionsLine}
	}
	lines := make([]string, 0, len(detections))
	for i, d := range detections {
		lines = append(lines, fmt.Sprintf("Object %d: class %d, confidence %.3f", i+1, d.ClassID, d.Confidence))
	}
	return lines
}
