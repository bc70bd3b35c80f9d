// Package scaffold はAIプロバイダを使わずにプロンプトからアプリの雛形を生成する。
// 生成結果は入力だけで決まり、外部I/Oを行わない。
package scaffold

import (
	"strings"
)

// Kind は雛形の種類。
type Kind string

const (
	KindTodo       Kind = "todo"
	KindCalculator Kind = "calculator"
	KindWeather    Kind = "weather"
	KindCounter    Kind = "counter"
	KindTimer      Kind = "timer"
	KindGeneric    Kind = "generic"
)

// defaultAppName はプロンプトから名前を導出できない場合のアプリ名。
const defaultAppName = "myapp"

// maxAppNameLen はアプリ名の最大長。
const maxAppNameLen = 20

// keywordRule はキーワードと雛形種別の対応。
type keywordRule struct {
	keywords []string
	kind     Kind
}

// rules は判定順序どおりに並べる。最初に一致したものを採用する。
var rules = []keywordRule{
	{keywords: []string{"todo", "task"}, kind: KindTodo},
	{keywords: []string{"calculator"}, kind: KindCalculator},
	{keywords: []string{"weather"}, kind: KindWeather},
	{keywords: []string{"counter"}, kind: KindCounter},
	{keywords: []string{"timer", "clock"}, kind: KindTimer},
}

var features = map[Kind][]string{
	KindTodo:       {"Add tasks", "Mark as complete", "Delete tasks", "Filter tasks"},
	KindCalculator: {"Basic arithmetic", "Clear function", "Decimal support"},
	KindWeather:    {"Current weather", "Location search", "Temperature display"},
	KindCounter:    {"Increment", "Decrement", "Reset"},
	KindTimer:      {"Start/Stop timer", "Reset timer", "Display time"},
}

// Skeleton はコンポーネントとスタイルシートの組。
type Skeleton struct {
	Kind       Kind
	AppName    string
	Features   []string
	Component  string
	Stylesheet string
}

// Classify はプロンプトに含まれるキーワードから雛形種別を決める。
// 大文字小文字を区別しない部分一致で、rulesの順に最初に一致した種別を返す。
func Classify(prompt string) Kind {
	lower := strings.ToLower(prompt)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.kind
			}
		}
	}
	return KindGeneric
}

// AppName はプロンプトからアプリ名を導出する。
// 小文字化して英数字以外を除去し、20文字に切り詰める。空になった場合はmyappを返す。
func AppName(prompt string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(prompt) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == maxAppNameLen {
				break
			}
		}
	}
	if b.Len() == 0 {
		return defaultAppName
	}
	return b.String()
}

// Features は雛形種別ごとの予定機能一覧を返す。汎用雛形は空。
func Features(kind Kind) []string {
	f := features[kind]
	out := make([]string, len(f))
	copy(out, f)
	return out
}

// Select はプロンプトから雛形を選び、コンポーネントとスタイルシートを生成する。
// projectTypeは検証せずテンプレートに埋め込むだけで、選択には影響しない。
func Select(prompt, projectType string) Skeleton {
	kind := Classify(prompt)
	data := templateData{
		Prompt:      prompt,
		ProjectType: projectType,
		AppName:     AppName(prompt),
		Kind:        kind,
		Features:    Features(kind),
	}

	return Skeleton{
		Kind:       kind,
		AppName:    data.AppName,
		Features:   data.Features,
		Component:  render(componentTemplate(kind), data),
		Stylesheet: stylesheet(kind),
	}
}
