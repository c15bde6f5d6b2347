package domain

// LabelUnknown 判定できなかった場合のラベル
const LabelUnknown = "unknown"

// SentimentResult 感情分析結果の値オブジェクト
type SentimentResult struct {
	Label             string   `json:"label"`
	Confidence        float64  `json:"confidence"`
	EmotionLabel      *string  `json:"emotion_label,omitempty"`
	EmotionConfidence *float64 `json:"emotion_confidence,omitempty"`
}

// BatchItem バッチ分析の1件分（分析対象テキスト付き）
type BatchItem struct {
	Text              string   `json:"text"`
	Label             string   `json:"label"`
	Confidence        float64  `json:"confidence"`
	EmotionLabel      *string  `json:"emotion_label"`
	EmotionConfidence *float64 `json:"emotion_confidence"`
}

// ClassifiedItem 推論サービスのバッチ応答の1件
type ClassifiedItem struct {
	Text string
	SentimentResult
}

// UnknownResult 判定不能の結果を返す
func UnknownResult() SentimentResult {
	return SentimentResult{Label: LabelUnknown, Confidence: 0.0}
}

// Core キャッシュ対象となる感情のみの結果を返す（emotionは含めない）
func (r SentimentResult) Core() SentimentResult {
	return SentimentResult{Label: r.Label, Confidence: r.Confidence}
}

// WithText テキストを付与してBatchItemに変換
func (r SentimentResult) WithText(text string) BatchItem {
	return BatchItem{
		Text:              text,
		Label:             r.Label,
		Confidence:        r.Confidence,
		EmotionLabel:      r.EmotionLabel,
		EmotionConfidence: r.EmotionConfidence,
	}
}
