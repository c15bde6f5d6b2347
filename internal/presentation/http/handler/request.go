package handler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseBool フォームの真偽値を解釈（空なら既定値、on/off・yes/noも受け付ける）
func ParseBool(value string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return def, nil
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("invalid boolean: %q", value)
	}
	return b, nil
}

// ValidateLength 前後の空白を除いた文字数がmin..maxに収まるか検証
func ValidateLength(field, value string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	if n == 0 {
		return fmt.Errorf("%s is required", field)
	}
	if n < minLen || n > maxLen {
		return fmt.Errorf("%s must be between %d and %d characters", field, minLen, maxLen)
	}
	return nil
}
