package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"receipt-processor/internal/client"
)

const (
	serverAddressFlag    = "s"
	serverAddressEnv     = "RECEIPTS_SERVER"
	serverAddressDefault = "http://localhost:8080"
	timeoutFlag          = "t"
	timeoutDefault       = 10 * time.Second
)

var errUsage = errors.New("usage: receiptctl [-s server] [-t timeout] process <receipt.json> | points <id>")

func main() {
	serverAddress := flag.String(serverAddressFlag, serverAddressDefault, "Receipt processor base URL")
	timeout := flag.Duration(timeoutFlag, timeoutDefault, "Request timeout")
	flag.Parse()

	if valStr, ok := os.LookupEnv(serverAddressEnv); ok {
		*serverAddress = valStr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	c := client.New(client.Config{ServerAddress: *serverAddress})
	if err := run(ctx, c, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	switch args[0] {
	case "process":
		body, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read receipt: %w", err)
		}
		id, err := c.ProcessRaw(ctx, body)
		if err != nil {
			return err
		}
		fmt.Println(id)
	case "points":
		points, err := c.GetPoints(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Println(points)
	default:
		return errUsage
	}
	return nil
}
