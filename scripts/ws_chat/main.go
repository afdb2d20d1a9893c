package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/beaconchat/beacon-server/internal/proto"
)

// Minimal interactive DM client: dial with a token, type lines to send
// them to the chosen peer, watch every broadcast frame scroll by.
func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	token := flag.String("token", "", "JWT from /api/login")
	peer := flag.String("peer", "", "receiver username")
	flag.Parse()

	if *token == "" || *peer == "" {
		return errors.New("-token and -peer are required")
	}

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr+"?token="+*token, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	go func() {
		for {
			var outbound proto.Outbound
			if readErr := wsjson.Read(ctx, conn, &outbound); readErr != nil {
				cancel()
				return
			}
			fmt.Printf("[%s] %s -> %s: %s\n", outbound.Time, outbound.Sender, outbound.Receiver, outbound.Text)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if writeErr := wsjson.Write(ctx, conn, proto.Inbound{Receiver: *peer, Text: text}); writeErr != nil {
			return fmt.Errorf("send: %w", writeErr)
		}
		if ctx.Err() != nil {
			break
		}
	}

	return scanner.Err()
}
