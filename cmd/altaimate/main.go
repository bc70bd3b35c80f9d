// Command altaimate はALT-AI-MATEのAPIサーバーを起動する。
//
// サブコマンド:
//
//	serve        APIサーバーを起動する（デフォルト）
//	migrate      データベースマイグレーションを適用する
//	healthcheck  ローカルの/healthを確認する（Docker HEALTHCHECK用）
package main

import (
	"log/slog"
	"os"

	"github.com/hitoshi/altaimate/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		slog.Error("application exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
