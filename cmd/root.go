package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configDefault 默认配置文件内容，找不到配置文件时写出
var configDefault string

var rootCmd = &cobra.Command{
	Use:   "ya-note-service",
	Short: "Ya Note Service",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute(c string) {
	configDefault = c
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
