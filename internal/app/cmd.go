package app

import (
	"errors"
	"strings"
)

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はAPIサーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandWorker は期限切れセッションのクリーンアップワーカーとして起動することを示す。
	CommandWorker Command = "worker"
	// CommandMigrate はデータベースマイグレーションを実行することを示す。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
	// CommandPromote は指定メールアドレスのユーザーを管理者に昇格させる。
	CommandPromote Command = "promote"
)

// ErrMissingEmail はpromoteサブコマンドにメールアドレスが指定されていないことを表す。
var ErrMissingEmail = errors.New("usage: digistore promote <email>")

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 引数が空またはサポート外のコマンドの場合はCommandServeを返す。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "worker":
		return CommandWorker
	case "serve":
		return CommandServe
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	case "promote":
		return CommandPromote
	default:
		return CommandServe
	}
}

// PromoteEmail はpromoteサブコマンドの引数から対象のメールアドレスを取り出す。
func PromoteEmail(args []string) (string, error) {
	if len(args) < 2 {
		return "", ErrMissingEmail
	}
	email := strings.TrimSpace(args[1])
	if email == "" {
		return "", ErrMissingEmail
	}
	return email, nil
}
