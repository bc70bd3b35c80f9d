package scaffold

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestGenerateFiles_WebProject_ReturnsReactSet(t *testing.T) {
	files := GenerateFiles("Build a todo app", "web")

	for _, path := range []string{"src/App.tsx", "src/App.css", "src/index.tsx", "package.json", "README.md"} {
		if files[path] == "" {
			t.Errorf("expected non-empty %s", path)
		}
	}
	if len(files) != 5 {
		t.Errorf("len(files) = %d, want 5", len(files))
	}
	if !strings.Contains(files["src/App.tsx"], "interface Task") {
		t.Error("expected todo component in src/App.tsx")
	}
	if !strings.Contains(files["README.md"], "- Add tasks") {
		t.Errorf("expected README feature list, got:\n%s", files["README.md"])
	}
}

func TestGenerateFiles_UnknownProjectType_FallsBackToReact(t *testing.T) {
	files := GenerateFiles("something", "blockchain")
	if _, ok := files["src/App.tsx"]; !ok {
		t.Error("expected React file set for unknown project type")
	}
}

func TestGenerateFiles_PackageJSONIsValid(t *testing.T) {
	tests := []struct {
		projectType string
		wantMain    string
	}{
		{"web", ""},
		{"mobile", ""},
		{"desktop", "main.js"},
	}
	for _, tt := range tests {
		t.Run(tt.projectType, func(t *testing.T) {
			files := GenerateFiles("Weather app", tt.projectType)

			var pkg map[string]interface{}
			if err := json.Unmarshal([]byte(files["package.json"]), &pkg); err != nil {
				t.Fatalf("package.json is not valid JSON: %v", err)
			}
			if pkg["name"] != "weatherapp" {
				t.Errorf("name = %v, want %q", pkg["name"], "weatherapp")
			}
			if tt.wantMain != "" && pkg["main"] != tt.wantMain {
				t.Errorf("main = %v, want %q", pkg["main"], tt.wantMain)
			}
		})
	}
}

func TestGenerateFiles_Mobile(t *testing.T) {
	files := GenerateFiles("Habit tracker", "Mobile")

	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(files))
	}
	if !strings.Contains(files["App.tsx"], "react-native") {
		t.Error("expected React Native component")
	}
	if !strings.Contains(files["package.json"], `"react-native"`) {
		t.Error("expected react-native dependency")
	}
}

func TestGenerateFiles_Desktop_EscapesPromptInHTML(t *testing.T) {
	files := GenerateFiles("<b>Notes</b>", "desktop")

	for _, path := range []string{"main.js", "index.html", "package.json"} {
		if files[path] == "" {
			t.Errorf("expected non-empty %s", path)
		}
	}
	if strings.Contains(files["index.html"], "<b>Notes</b>") {
		t.Error("expected prompt to be HTML-escaped in index.html")
	}
	if !strings.Contains(files["index.html"], "&lt;b&gt;Notes&lt;/b&gt;") {
		t.Errorf("expected escaped prompt, got:\n%s", files["index.html"])
	}
}

func TestGenerateFiles_KeysAreRelativePaths(t *testing.T) {
	for _, pt := range []string{"web", "mobile", "desktop"} {
		for path := range GenerateFiles("counter", pt) {
			if strings.HasPrefix(path, "/") || strings.Contains(path, "..") {
				t.Errorf("%s: file key %q is not a relative path", pt, path)
			}
		}
	}
}

func TestDefaultFiles(t *testing.T) {
	files := DefaultFiles("Demo")
	got := files[DefaultComponentPath]
	want := "// Welcome to Demo\nfunction App() {\n  return <h1>Hello, World!</h1>\n}"
	if got != want {
		t.Errorf("DefaultFiles()[%q] = %q, want %q", DefaultComponentPath, got, want)
	}
}

func TestGenerateFiles_ComponentsIncludePrompt(t *testing.T) {
	prompts := []string{
		"A todo list for groceries",
		`A "scientific" calculator`,
		"Simple counter with reset",
		"Weather dashboard for Tokyo",
		"Countdown timer",
		"Recipe sharing site",
	}
	for _, prompt := range prompts {
		t.Run(prompt, func(t *testing.T) {
			app := GenerateFiles(prompt, "web")["src/App.tsx"]
			if !strings.Contains(app, "const prompt = "+jsString(prompt)+";") {
				t.Errorf("src/App.tsx should embed the prompt as a string constant, got:\n%s", app)
			}
			if !strings.Contains(app, AppName(prompt)) {
				t.Errorf("src/App.tsx should contain app name %q", AppName(prompt))
			}
		})
	}
}
