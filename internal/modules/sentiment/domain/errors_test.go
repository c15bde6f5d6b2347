package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClassificationError_Is(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "HTTPステータスエラー",
			err:     &ClassificationError{Op: "analyze", StatusCode: 500, Body: "boom"},
			wantMsg: "status 500",
		},
		{
			name:    "通信エラー",
			err:     &ClassificationError{Op: "batch", Err: context.DeadlineExceeded},
			wantMsg: "deadline exceeded",
		},
		{
			name:    "ラップされたエラー",
			err:     fmt.Errorf("failed to classify: %w", &ClassificationError{Op: "batch"}),
			wantMsg: "batch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, ErrClassificationFailure) {
				t.Errorf("errors.Is(%v, ErrClassificationFailure) = false", tt.err)
			}
			if !strings.Contains(tt.err.Error(), tt.wantMsg) {
				t.Errorf("Error() = %q, want to contain %q", tt.err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestClassificationError_Unwrap(t *testing.T) {
	err := &ClassificationError{Op: "analyze", Err: context.DeadlineExceeded}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("ClassificationError should unwrap to its cause")
	}

	var ce *ClassificationError
	if !errors.As(fmt.Errorf("wrap: %w", err), &ce) {
		t.Fatal("errors.As failed")
	}
	if ce.Op != "analyze" {
		t.Errorf("Op = %v, want analyze", ce.Op)
	}
}

func TestSentimentResult_CoreAndWithText(t *testing.T) {
	emotion := "joy"
	score := 0.7
	r := SentimentResult{Label: "positive", Confidence: 0.9, EmotionLabel: &emotion, EmotionConfidence: &score}

	core := r.Core()
	if core.EmotionLabel != nil || core.EmotionConfidence != nil {
		t.Error("Core() should drop emotion fields")
	}
	if core.Label != "positive" || core.Confidence != 0.9 {
		t.Errorf("Core() = %+v", core)
	}

	item := r.WithText("hello")
	if item.Text != "hello" || item.Label != "positive" || item.EmotionLabel == nil || *item.EmotionLabel != "joy" {
		t.Errorf("WithText() = %+v", item)
	}

	u := UnknownResult()
	if u.Label != LabelUnknown || u.Confidence != 0 {
		t.Errorf("UnknownResult() = %+v", u)
	}
}
