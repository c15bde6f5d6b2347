package domain

import (
	"errors"
	"fmt"
)

// ErrClassificationFailure 推論サービスが結果を返せなかった
var ErrClassificationFailure = errors.New("classification failure")

// ClassificationError 推論サービス呼び出しの失敗詳細
type ClassificationError struct {
	Op         string // "analyze" または "batch"
	StatusCode int    // HTTPステータス（通信失敗時は0）
	Body       string
	Err        error
}

func (e *ClassificationError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("classification failure: %s: ML service returned status %d: %s", e.Op, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("classification failure: %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("classification failure: %s", e.Op)
	}
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// Is errors.Is(err, ErrClassificationFailure) を満たす
func (e *ClassificationError) Is(target error) bool {
	return target == ErrClassificationFailure
}
