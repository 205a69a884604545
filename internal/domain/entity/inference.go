package entity

// InferenceResult хранит итог одного вызова модели.
// Пустой Detections — успешный вызов без находок, а не ошибка.
type InferenceResult struct {
	ImagePath  string
	Threshold  float64
	Detections []Detection
}

// HasDetections сообщает, нашла ли модель хоть что-то.
func (r *InferenceResult) HasDetections() bool {
	return r != nil && len(r.Detections) > 0
}

// BatchItem — результат проверки одного изображения в пакете.
type BatchItem struct {
	Record DatasetRecord
	Result *InferenceResult
	Err    error // ошибка этого изображения, пакет продолжается
}

// SweepPoint — результат одного порога при переборе порогов.
type SweepPoint struct {
	Threshold float64
	Result    *InferenceResult
	Err       error
}
