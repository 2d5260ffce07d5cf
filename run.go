package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"i3pamicstatus/audio"
	"i3pamicstatus/config"
	"i3pamicstatus/i3bar"
	"i3pamicstatus/indicator"
	"i3pamicstatus/log"
	"i3pamicstatus/relay"
	"i3pamicstatus/shutdown"
	"i3pamicstatus/status"
)

const (
	exitOK    = 0
	exitFatal = 1

	// exitEndOfStream tells the caller that i3status went away.
	exitEndOfStream = 3
)

func runRelay(opts rootOptions) int {
	cfg, cfgPath, _, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFatal
	}

	if logPath, err := log.ResolveDir(opts.logPath, cfg.LogDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to resolve log directory: %v\n", err)
	} else {
		log.SetDir(logPath)
		if err := log.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
		}
	}
	defer log.Close()

	table, err := cfg.Table()
	if err != nil {
		log.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFatal
	}

	mode := status.ModeListening
	if opts.showMuted || cfg.ShowMuted {
		mode = status.ModeUnmuted
	}
	light := indicator.Detect(cfg.Indicator.Enabled && !opts.noIndicator, cfg.IndicatorColors())

	srv, err := audio.Connect(cfg.ClientName)
	if err != nil {
		log.Error(err)
		fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", err)
		return exitFatal
	}
	defer srv.Close()

	src := status.New(srv, mode, light)
	log.RelayStart(src.Mode().String(), light.Name(), cfg.ClientName, cfgPath)

	ctx, stop := shutdown.Context(context.Background())
	defer stop()

	return serve(ctx, os.Stdin, os.Stdout, src, table)
}

// serve runs the relay and maps its outcome to an exit code.
func serve(ctx context.Context, in io.Reader, out io.Writer, src relay.StatusSource, table *i3bar.Table) int {
	r := relay.New(in, out, src, table)
	r.OnHeader(logHeader)

	kind, err := r.Run(ctx)
	if err != nil {
		log.Error(err)
		fmt.Fprintf(os.Stderr, "i3pamicstatus: %v\n", err)
		return exitFatal
	}
	log.RelayEnd(kind.String(), r.Lines())
	return exitCode(kind)
}

func exitCode(kind relay.ReadKind) int {
	if kind == relay.KindEndOfStream {
		return exitEndOfStream
	}
	return exitOK
}

func logHeader(index int, line string) {
	if index != 0 {
		return
	}
	h, err := i3bar.ParseHeader(line)
	if err != nil {
		log.Warnf("unrecognized header %q: %v", line, err)
		return
	}
	log.Header(h.Version, h.ClickEvents)
}
