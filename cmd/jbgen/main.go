// Package main is the entry point for the jbgen CLI tool.
package main

import (
	"github.com/beanwright/jbgen/internal/cmd"
)

func main() {
	cmd.Execute()
}
