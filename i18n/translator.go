package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "index" or "expected").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"malformed_path":     "malformed path",
		"index_out_of_range": "index {index} is beyond the end of the list (length {len})",
		"invalid_type":       "expected {expected}",
		"not_found":          "path is not described by the schema",
		"required":           "required field is empty",
		"parse_error":        "parse error",
		"duplicate_key":      "duplicate key",
		"too_deep":           "nesting too deep",
		"invalid_schema":     "invalid schema",
		"invalid_submission": "invalid submission",
	},
	"ja": {
		"malformed_path":     "パスの形式が不正です",
		"index_out_of_range": "インデックス {index} がリストの範囲外です (長さ {len})",
		"invalid_type":       "{expected} が必要です",
		"not_found":          "スキーマに存在しないパスです",
		"required":           "必須項目が空です",
		"parse_error":        "解析エラー",
		"duplicate_key":      "キーが重複しています",
		"too_deep":           "ネストが深すぎます",
		"invalid_schema":     "スキーマが不正です",
		"invalid_submission": "送信内容が不正です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
