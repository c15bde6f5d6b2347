package ml

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// optionalFloat 数値・文字列・真偽値を数値に変換して受け取る
//
// nullまたは欠損の場合はValidがfalseのまま。数値に変換できない値とNaN・無限大は0として扱う。
type optionalFloat struct {
	Value float64
	Valid bool
}

func (f *optionalFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	f.Valid = true
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			v = 0
		}
		f.Value = finite(v)
	case 't':
		f.Value = 1
	case 'f':
		f.Value = 0
	case '{', '[':
		f.Value = 0
	default:
		v, err := strconv.ParseFloat(string(data), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return err
		}
		f.Value = finite(v)
	}
	return nil
}

// finite NaN・無限大を0に置き換える（JSONに書き出せない値を残さない）
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
