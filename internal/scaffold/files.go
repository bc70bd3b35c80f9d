package scaffold

import (
	"encoding/json"
	"strings"
)

// プロジェクト種別
const (
	ProjectTypeMobile  = "mobile"
	ProjectTypeDesktop = "desktop"
)

// DefaultComponentPath は新規プロジェクトで最初に開くファイル。
const DefaultComponentPath = "src/App.tsx"

// GenerateFiles はプロジェクト種別に応じたファイル一式を生成する。
// mobileはReact Native、desktopはElectron、それ以外はReactのファイル構成になる。
// キーは相対パス、値はファイル内容。
func GenerateFiles(prompt, projectType string) map[string]string {
	switch strings.ToLower(strings.TrimSpace(projectType)) {
	case ProjectTypeMobile:
		return mobileFiles(prompt, projectType)
	case ProjectTypeDesktop:
		return desktopFiles(prompt, projectType)
	default:
		return reactFiles(prompt, projectType)
	}
}

// DefaultFiles は空のプロジェクト用の最小ファイル構成を返す。
func DefaultFiles(name string) map[string]string {
	return map[string]string{
		DefaultComponentPath: "// Welcome to " + name + "\nfunction App() {\n  return <h1>Hello, World!</h1>\n}",
	}
}

func reactFiles(prompt, projectType string) map[string]string {
	s := Select(prompt, projectType)
	data := templateData{
		Prompt:      prompt,
		ProjectType: projectType,
		AppName:     s.AppName,
		Kind:        s.Kind,
		Features:    s.Features,
	}

	return map[string]string{
		"src/App.tsx":   s.Component,
		"src/App.css":   s.Stylesheet,
		"src/index.tsx": render("index.tsx.tmpl", data),
		"package.json":  packageJSON(reactPackage(s.AppName)),
		"README.md":     render("readme.md.tmpl", data),
	}
}

func mobileFiles(prompt, projectType string) map[string]string {
	data := newTemplateData(prompt, projectType)
	return map[string]string{
		"App.tsx": render("mobile_app.tsx.tmpl", data),
		"package.json": packageJSON(npmPackage{
			Name:    data.AppName,
			Version: "1.0.0",
			Dependencies: map[string]string{
				"react":        "^18.2.0",
				"react-native": "^0.72.0",
			},
		}),
	}
}

func desktopFiles(prompt, projectType string) map[string]string {
	data := newTemplateData(prompt, projectType)
	return map[string]string{
		"main.js":    render("desktop_main.js.tmpl", data),
		"index.html": render("desktop_index.html.tmpl", data),
		"package.json": packageJSON(npmPackage{
			Name:    data.AppName,
			Version: "1.0.0",
			Main:    "main.js",
			Dependencies: map[string]string{
				"electron": "^25.0.0",
			},
		}),
	}
}

func newTemplateData(prompt, projectType string) templateData {
	kind := Classify(prompt)
	return templateData{
		Prompt:      prompt,
		ProjectType: projectType,
		AppName:     AppName(prompt),
		Kind:        kind,
		Features:    Features(kind),
	}
}

// npmPackage はpackage.jsonの内容。フィールド順は出力順になる。
type npmPackage struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Private      bool              `json:"private,omitempty"`
	Main         string            `json:"main,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
	Scripts      map[string]string `json:"scripts,omitempty"`
	Browserslist *browserslist     `json:"browserslist,omitempty"`
}

type browserslist struct {
	Production  []string `json:"production"`
	Development []string `json:"development"`
}

func reactPackage(appName string) npmPackage {
	return npmPackage{
		Name:    appName,
		Version: "0.1.0",
		Private: true,
		Dependencies: map[string]string{
			"@types/node":      "^16.7.13",
			"@types/react":     "^18.0.0",
			"@types/react-dom": "^18.0.0",
			"react":            "^18.2.0",
			"react-dom":        "^18.2.0",
			"react-scripts":    "5.0.1",
			"typescript":       "^4.4.2",
			"web-vitals":       "^2.1.0",
		},
		Scripts: map[string]string{
			"start": "react-scripts start",
			"build": "react-scripts build",
			"test":  "react-scripts test",
		},
		Browserslist: &browserslist{
			Production:  []string{">0.2%", "not dead", "not op_mini all"},
			Development: []string{"last 1 chrome version", "last 1 firefox version", "last 1 safari version"},
		},
	}
}

// packageJSON はインデント付きJSONを返す。mapのキーはソートされるため出力は決定的。
func packageJSON(p npmPackage) string {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		// 文字列とmapのみで構成されるため到達しない
		return "{}"
	}
	return string(b) + "\n"
}
