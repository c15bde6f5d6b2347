package domain

import "context"

// ClassifierRepository 外部推論サービスのリポジトリインターフェース
//
// どちらのメソッドも内部でリトライしない。失敗時はErrClassificationFailureを
// 満たすエラーを返す。
type ClassifierRepository interface {
	// ClassifyOne 1件のテキストを分類
	ClassifyOne(ctx context.Context, text string) (*SentimentResult, error)

	// ClassifyMany 複数テキストを1リクエストで分類（応答は入力順・件数と一致するとは限らない）
	ClassifyMany(ctx context.Context, texts []string) ([]ClassifiedItem, error)
}
