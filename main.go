/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package main

import (
	"github.com/josephgoksu/seiton/cmd"
	"github.com/josephgoksu/seiton/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
