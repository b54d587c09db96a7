// Command digistore はデジタル商品マーケットプレイスのAPIサーバーとワーカーを起動する。
//
// 使い方:
//
//	digistore [serve|worker|migrate|healthcheck|promote <email>]
package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/digistore/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
