package scaffold

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl templates/*.css
var templateFS embed.FS

var templates = template.Must(
	template.New("scaffold").Funcs(template.FuncMap{
		"jsString": jsString,
	}).ParseFS(templateFS, "templates/*.tmpl"),
)

// templateData はテンプレートに埋め込む値。
type templateData struct {
	Prompt      string
	ProjectType string
	AppName     string
	Kind        Kind
	Features    []string
}

// jsString は値をJavaScriptの文字列リテラルとして出力する。
// JSONの文字列表現はそのままJSの文字列リテラルとして有効。
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}

func componentTemplate(kind Kind) string {
	switch kind {
	case KindTodo:
		return "todo.tsx.tmpl"
	case KindCalculator:
		return "calculator.tsx.tmpl"
	case KindCounter:
		return "counter.tsx.tmpl"
	case KindWeather, KindTimer:
		return "widget.tsx.tmpl"
	default:
		return "generic.tsx.tmpl"
	}
}

func stylesheetFile(kind Kind) string {
	switch kind {
	case KindTodo:
		return "todo.css"
	case KindCalculator:
		return "calculator.css"
	case KindCounter:
		return "counter.css"
	case KindWeather, KindTimer:
		return "widget.css"
	default:
		return "generic.css"
	}
}

// stylesheet は共通スタイルに種別ごとのスタイルを連結して返す。
func stylesheet(kind Kind) string {
	return readAsset("base.css") + "\n" + readAsset(stylesheetFile(kind))
}

// render は埋め込みテンプレートを実行する。
// テンプレートは起動時に検証済みのため、失敗はプログラムの誤りとして扱う。
func render(name string, data templateData) string {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		panic(fmt.Sprintf("scaffold: render %s: %v", name, err))
	}
	return b.String()
}

func readAsset(name string) string {
	b, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		panic(fmt.Sprintf("scaffold: read %s: %v", name, err))
	}
	return string(b)
}
