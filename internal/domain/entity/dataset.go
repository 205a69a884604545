package entity

// Имена колонок CSV.
const (
	ColumnID                = "id"
	ColumnSeverity          = "severity"
	ColumnPredominantStress = "predominant_stress"
)

// Распознаваемые флаги болезней в порядке вывода.
var DiseaseColumns = []string{"miner", "rust", "phoma", "cercospora"}

// IsDiseaseColumn сообщает, является ли колонка флагом болезни.
func IsDiseaseColumn(name string) bool {
	for _, c := range DiseaseColumns {
		if c == name {
			return true
		}
	}
	return false
}

// DatasetRecord — одна строка датасета, одно изображение листа.
type DatasetRecord struct {
	ID                string         // идентификатор, совпадает с именем файла без .jpg
	Severity          int            // 0 — здоровый лист
	PredominantStress *int           // nil, если колонки нет или значение пустое
	Flags             map[string]int // значения флагов болезней, только присутствующие колонки
}

// Healthy сообщает, что лист без признаков болезни.
func (r DatasetRecord) Healthy() bool {
	return r.Severity == 0
}

// ImageName возвращает имя файла изображения записи.
func (r DatasetRecord) ImageName() string {
	return r.ID + ".jpg"
}

// DatasetTable — загруженный датасет. После загрузки не меняется.
type DatasetTable struct {
	Columns []string
	Records []DatasetRecord
}

// Len возвращает число записей, nil-таблица считается пустой.
func (t *DatasetTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// HasColumn проверяет наличие колонки в заголовке.
func (t *DatasetTable) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}
