package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/DrekFretson/Final-Battleship/agent"
	"github.com/DrekFretson/Final-Battleship/config"
	"github.com/DrekFretson/Final-Battleship/ipc"
)

const banner = `
██████╗ ██████╗  ██████╗  █████╗ ██████╗ ███████╗██╗██████╗ ███████╗
██╔══██╗██╔══██╗██╔═══██╗██╔══██╗██╔══██╗██╔════╝██║██╔══██╗██╔════╝
██████╔╝██████╔╝██║   ██║███████║██║  ██║███████╗██║██║  ██║█████╗
██╔══██╗██╔══██╗██║   ██║██╔══██║██║  ██║╚════██║██║██║  ██║██╔══╝
██████╔╝██║  ██║╚██████╔╝██║  ██║██████╔╝███████║██║██████╔╝███████╗
╚═════╝ ╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═╝╚═════╝ ╚══════╝╚═╝╚═════╝ ╚══════╝

Moving-Fleet Naval Combat Engine`

func main() {
	var cfgPath, socketPath string
	var debug bool
	flag.StringVar(&cfgPath, "config", "", "match config (YAML); defaults when empty")
	flag.StringVar(&socketPath, "socket", "/tmp/broadside.sock", "unix socket for the presentation client")
	flag.BoolVar(&debug, "debug", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	match := config.Default()
	if cfgPath != "" {
		var err error
		if match, err = config.Load(cfgPath); err != nil {
			slog.Error("failed to load config", "path", cfgPath, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("starting broadside", "mode", match.Mode, "grid", match.GridSize, "ships", len(match.Fleet))

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(socketPath); err != nil {
		slog.Error("failed to clean up socket", "path", socketPath, "error", err)
		os.Exit(1)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		slog.Error("failed to listen on socket", "path", socketPath, "error", err)
		os.Exit(1)
	}
	defer listener.Close()
	defer os.Remove(socketPath)

	slog.Info("listening on domain socket", "path", socketPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					slog.Error("failed to accept connection", "error", err)
					continue
				}
			}
			slog.Info("new connection accepted")
			go handleConn(conn, match)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
}

// handleConn runs one match per client connection.
func handleConn(conn net.Conn, match config.Match) {
	c := ipc.NewConnection(conn, nil)
	a, err := agent.New(c, match)
	if err != nil {
		slog.Error("failed to start match", "error", err)
		c.Close()
		return
	}
	defer a.Close()

	a.Register(c)
	c.ReadLoop()
}
