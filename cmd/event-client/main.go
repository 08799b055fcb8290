// Command event-client tails sync progress events from the API server's
// websocket feed.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"colortrainer/pkg/logger"
)

func main() {
	url := flag.String("url", "ws://127.0.0.1:8080/ws", "websocket event feed")
	pretty := flag.Bool("pretty", true, "pretty print JSON events")
	flag.Parse()

	log, err := logger.New(logger.Config{Level: "info", Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		if stop := session(log, *url, *pretty, sigCh); stop {
			return
		}
		select {
		case <-sigCh:
			return
		case <-time.After(time.Second): // reconnect
		}
	}
}

// session tails one connection and reports whether a signal ended it.
func session(log *zap.Logger, url string, pretty bool, sigCh <-chan os.Signal) bool {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Warn("dial failed", zap.String("url", url), zap.Error(err))
		return false
	}
	defer conn.Close()
	log.Info("connected", zap.String("url", url))

	done := make(chan error, 1)
	go func() { done <- tail(conn, pretty) }()

	select {
	case <-sigCh:
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return true
	case err := <-done:
		log.Warn("disconnected", zap.Error(err))
		return false
	}
}

func tail(conn *websocket.Conn, pretty bool) error {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if !pretty {
			fmt.Println(string(msg))
			continue
		}
		var out bytes.Buffer
		if err := json.Indent(&out, msg, "", "  "); err != nil {
			fmt.Println(string(msg))
			continue
		}
		fmt.Println(out.String())
	}
}
