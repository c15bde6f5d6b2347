package usecase

import "sentiment-api-app/internal/modules/sentiment/domain"

// resultQueues 応答テキストごとの結果キュー（応答順を保持）
type resultQueues map[string][]domain.SentimentResult

func newResultQueues(items []domain.ClassifiedItem) resultQueues {
	q := make(resultQueues, len(items))
	for _, item := range items {
		q[item.Text] = append(q[item.Text], item.SentimentResult)
	}
	return q
}

// pop 先頭の結果を取り出す（空ならfalse）
func (q resultQueues) pop(text string) (domain.SentimentResult, bool) {
	pending := q[text]
	if len(pending) == 0 {
		return domain.SentimentResult{}, false
	}
	q[text] = pending[1:]
	return pending[0], true
}
