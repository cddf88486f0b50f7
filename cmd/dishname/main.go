// dishname 離線解析菜名、檢查撰寫文件、產生預設資料的命令列工具。
//
// Usage:
//
//	dishname resolve [--quality Q] [--data PATH] [--templates PATH] ING...
//	dishname validate [--templates] PATH
//	dishname init-data [--dir DIR] [--force]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dishname",
		Short:         "Resolve dish names and manage naming data documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: version,
	}
	root.AddCommand(newResolveCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newInitDataCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
