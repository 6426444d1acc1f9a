package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	lib "spanwall/lib"
)

// Exit codes are part of the contract, callers diagnose failed runs by them.
const (
	exitUsage        = 1
	exitNoLayoutTool = 2
	exitNoShell      = 3
	exitNoImageTool  = 4
	exitLayoutEmpty  = 5
	exitNoMonitors   = 6
)

func main() {
	app := cli.NewApp()
	app.Name = "spanwall"
	app.Usage = "Span a single wallpaper image across every monitor of a Plasma desktop"
	app.ArgsUsage = "FILE [stretch|fit|fill]"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  noApply,
			Usage: "Write the per-monitor slices but leave the desktop alone",
		},
		&cli.StringFlag{
			Name:    configFlag,
			Aliases: []string{"c"},
			Usage:   "Path to an alternate config file",
		},
	}
	app.Action = spanAction

	// The temporary canvas must never survive the process, not even on ^C
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGHUP, syscall.SIGTERM)
	go func() {
		<-sigs
		lib.Cleanup()
		os.Exit(exitUsage)
	}()

	err := app.Run(os.Args)
	lib.Cleanup()
	if err != nil {
		log.Println(err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, lib.ErrLayoutToolMissing):
		return exitNoLayoutTool
	case errors.Is(err, lib.ErrShellUnavailable):
		return exitNoShell
	case errors.Is(err, lib.ErrImageToolMissing):
		return exitNoImageTool
	case errors.Is(err, lib.ErrLayoutEmpty):
		return exitLayoutEmpty
	case errors.Is(err, lib.ErrNoMonitors):
		return exitNoMonitors
	}
	return exitUsage
}
