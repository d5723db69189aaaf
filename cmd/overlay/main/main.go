package main

import (
	"fmt"
	"os"

	"github.com/rengeos/house-overlay/cmd/overlay"
	"github.com/rengeos/house-overlay/pkg/errors"
	"github.com/rengeos/house-overlay/pkg/style"
)

func main() {
	rootCmd := overlay.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		msg := fmt.Sprintf("Error: %v", err)
		if errors.GetErrorCode(err) == errors.ErrRunAsRoot {
			msg = overlay.MsgRunAsRoot
		}
		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(msg))
		os.Exit(1)
	}
}
