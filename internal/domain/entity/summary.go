package entity

// ValueCount одна строка частотной таблицы.
type ValueCount struct {
	Value int
	Count int
}

// DiseaseCounts частоты значений одного флага болезни.
type DiseaseCounts struct {
	Disease string
	Counts  []ValueCount
}

// DatasetSummary хранит описательную статистику датасета.
type DatasetSummary struct {
	Total       int
	Healthy     int
	Diseased    int
	HealthyPct  float64
	DiseasedPct float64
	Severity    []ValueCount    // по возрастанию severity
	Diseases    []DiseaseCounts // только колонки из заголовка
	Stress      []ValueCount    // по возрастанию кода, пусто без колонки
}

// SeverityTotal возвращает сумму частот гистограммы severity.
func (s *DatasetSummary) SeverityTotal() int {
	total := 0
	for _, vc := range s.Severity {
		total += vc.Count
	}
	return total
}
