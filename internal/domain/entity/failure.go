package entity

import (
	"errors"
	"fmt"
)

// FailureKind классифицирует причину отказа операции.
type FailureKind string

const (
	KindFileNotFound     FailureKind = "file_not_found"    // нет датасета, изображения или модели
	KindLoadFailure      FailureKind = "load_failure"      // таблица или модель не разобрались
	KindInferenceFailure FailureKind = "inference_failure" // модель упала при вызове
	KindEmptyDataset     FailureKind = "empty_dataset"     // таблица пустая или не загружена
	KindInvalidInput     FailureKind = "invalid_input"     // неверные аргументы
)

// Сентинелы для errors.Is.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrLoadFailure      = errors.New("load failure")
	ErrInferenceFailure = errors.New("inference failure")
	ErrEmptyDataset     = errors.New("empty dataset")
	ErrInvalidInput     = errors.New("invalid input")
)

var kindSentinels = map[FailureKind]error{
	KindFileNotFound:     ErrFileNotFound,
	KindLoadFailure:      ErrLoadFailure,
	KindInferenceFailure: ErrInferenceFailure,
	KindEmptyDataset:     ErrEmptyDataset,
	KindInvalidInput:     ErrInvalidInput,
}

// Failure — типизированная ошибка операции.
type Failure struct {
	Kind FailureKind
	Op   string // операция, например "load dataset"
	Path string // файл, если есть
	Err  error  // исходная ошибка, может быть nil
}

// NewFailure создаёт ошибку заданного вида.
func NewFailure(kind FailureKind, op, path string, err error) *Failure {
	return &Failure{Kind: kind, Op: op, Path: path, Err: err}
}

func (f *Failure) Error() string {
	msg := f.Op
	if f.Path != "" {
		msg += " " + f.Path
	}
	msg += ": " + kindSentinels[f.Kind].Error()
	if f.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, f.Err)
	}
	return msg
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Is сопоставляет ошибку с сентинелом её вида.
func (f *Failure) Is(target error) bool {
	return kindSentinels[f.Kind] == target
}

// KindOf возвращает вид ошибки или пустую строку, если это не Failure.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}
