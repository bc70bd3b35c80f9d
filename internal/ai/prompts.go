package ai

import (
	"fmt"
	"strings"
)

// 生成パラメータの既定値
const (
	DefaultMaxTokens   = 2000
	DefaultTemperature = 0.7
	AppMaxTokens       = 8000
)

// CodePromptInput はコード生成プロンプトの入力。
type CodePromptInput struct {
	Prompt      string
	Language    string
	Framework   string
	ProjectType string
}

// BuildCodePrompt はコード生成用のプロンプトを組み立てる。空の項目は既定値で埋める。
func BuildCodePrompt(in CodePromptInput) string {
	return fmt.Sprintf(`You are an expert software developer. Generate high-quality, production-ready code based on the user's requirements.

Requirements:
- Language: %s
- Framework: %s
- Project Type: %s
- User Request: %s

Please generate complete, functional code that:
1. Follows best practices and conventions
2. Includes proper error handling
3. Has clear comments explaining key functionality
4. Is ready to run without modifications
5. Uses modern syntax and patterns

Return only the code without explanations or markdown formatting.`,
		orDefault(in.Language, "javascript"),
		orDefault(in.Framework, "none"),
		orDefault(in.ProjectType, "web"),
		in.Prompt,
	)
}

// ChatSystemPrompt はチャットアシスタントのシステムプロンプト。
const ChatSystemPrompt = `You are ALT-AI-MATE, an assistant that helps users plan and build software projects.
Answer concisely. When the user asks for code, return complete, runnable examples.`

// BuildEnhancePrompt はユーザーのアイデアをより具体的な依頼文に書き直させるプロンプトを組み立てる。
func BuildEnhancePrompt(prompt string) string {
	return fmt.Sprintf(`You are an expert product manager. Rewrite the following app idea as a clear, detailed request for a code generator.
Mention the main screens, the key features and any data the app needs to store.
Return only the rewritten request as plain text.

App idea: %s`, prompt)
}

// BuildAppPrompt はアプリ全体のファイル一式をJSONで返させるプロンプトを組み立てる。
func BuildAppPrompt(prompt, projectType string) string {
	return fmt.Sprintf(`You are an expert software architect and developer. Build a complete %s application for the following request.

User's request: "%s"

Your output MUST be a single JSON object whose keys are relative file paths (for example "src/App.tsx", "package.json")
and whose values are the complete contents of each file as strings.
Include every file needed to run the project. Do not wrap the JSON in markdown formatting.`,
		orDefault(projectType, "web"), prompt)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
