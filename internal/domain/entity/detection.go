package entity

import "fmt"

// DefaultConfidence — порог уверенности по умолчанию.
const DefaultConfidence = 0.5

// BoundingBox — рамка в пикселях исходного изображения.
type BoundingBox struct {
	X1, Y1 float64 // левый верхний угол
	X2, Y2 float64 // правый нижний угол
}

// Valid сообщает, что рамка имеет положительную площадь.
func (b BoundingBox) Valid() bool {
	return b.X1 < b.X2 && b.Y1 < b.Y2
}

// Width возвращает ширину рамки.
func (b BoundingBox) Width() float64 {
	return b.X2 - b.X1
}

// Height возвращает высоту рамки.
func (b BoundingBox) Height() float64 {
	return b.Y2 - b.Y1
}

// Detection — одна найденная моделью область.
type Detection struct {
	ClassID    int
	Confidence float64 // в диапазоне [0,1]
	Box        BoundingBox
}

// Label возвращает подпись для рамки на изображении.
func (d Detection) Label() string {
	return fmt.Sprintf("class %d (%.2f)", d.ClassID, d.Confidence)
}

// ValidateConfidence проверяет порог уверенности.
func ValidateConfidence(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return NewFailure(KindInvalidInput, "validate confidence", "",
			fmt.Errorf("threshold %.3f is outside [0,1]", threshold))
	}
	return nil
}
