// draftctl talks to a running draftboard instance over its unix control
// socket: discover instances, send commands and queries, and print the
// responses.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"DraftBoard/internal/api"
	"DraftBoard/internal/remote"
)

const dialTimeout = 2 * time.Second

func main() {
	cmd := &cli.Command{
		Name:  "draftctl",
		Usage: "Control a running draftboard instance",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "socket",
				Aliases: []string{"s"},
				Usage:   "Path to a control socket (default: the only live socket)",
				Sources: cli.EnvVars("DRAFTBOARD_SOCKET"),
			},
			&cli.StringFlag{
				Name:  "socket-dir",
				Usage: "Directory to search for control sockets",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List live draftboard instances",
				Action: runList,
			},
			{
				Name:      "command",
				Usage:     "Send a raw JSON command",
				ArgsUsage: "<json>",
				Action:    runRaw,
			},
			{
				Name:      "query",
				Usage:     "Send a raw JSON query",
				ArgsUsage: "<json>",
				Action:    runRaw,
			},
			{
				Name:   "shapes",
				Usage:  "List all shape ids",
				Action: runFixed(`{"type":"get_all_shapes"}`),
			},
			{
				Name:   "selection",
				Usage:  "List selected shape ids",
				Action: runFixed(`{"type":"get_selection"}`),
			},
			{
				Name:   "count",
				Usage:  "Print the shape count",
				Action: runFixed(`{"type":"get_shape_count"}`),
			},
			{
				Name:   "discover",
				Usage:  "Browse the LAN for advertised instances",
				Action: runDiscover,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("draftctl: %v", err)
	}
}

func runList(_ context.Context, cmd *cli.Command) error {
	sockets, err := api.ListSockets(cmd.String("socket-dir"))
	if err != nil {
		return err
	}
	if len(sockets) == 0 {
		fmt.Println("no live instances")
		return nil
	}
	for _, s := range sockets {
		fmt.Printf("%d\t%s\n", api.SocketPID(s), s)
	}
	return nil
}

func runRaw(ctx context.Context, cmd *cli.Command) error {
	line := strings.TrimSpace(cmd.Args().First())
	if line == "" {
		return fmt.Errorf("expected a JSON payload argument")
	}
	if !json.Valid([]byte(line)) {
		return fmt.Errorf("argument is not valid JSON")
	}
	return roundTrip(cmd, line)
}

func runFixed(line string) cli.ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		return roundTrip(cmd, line)
	}
}

func runDiscover(_ context.Context, _ *cli.Command) error {
	found := false
	err := remote.Browse(func(addr string) {
		found = true
		fmt.Println(addr)
	})
	if err != nil {
		return err
	}
	if !found {
		fmt.Println("no instances found")
	}
	return nil
}

// roundTrip sends one line to the instance socket and prints the one-line
// response.
func roundTrip(cmd *cli.Command, line string) error {
	path, err := pickSocket(cmd)
	if err != nil {
		return err
	}
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", path, err)
	}
	defer conn.Close()

	if _, err := fmt.Fprintln(conn, line); err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(api.RequestTimeout + dialTimeout))
	reader := bufio.NewReader(conn)
	resp, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	fmt.Print(resp)
	return nil
}

// pickSocket resolves which instance to talk to: an explicit --socket wins,
// otherwise there must be exactly one live socket.
func pickSocket(cmd *cli.Command) (string, error) {
	if path := cmd.String("socket"); path != "" {
		return path, nil
	}
	sockets, err := api.ListSockets(cmd.String("socket-dir"))
	if err != nil {
		return "", err
	}
	switch len(sockets) {
	case 0:
		return "", fmt.Errorf("no live draftboard instances found")
	case 1:
		return sockets[0], nil
	default:
		return "", fmt.Errorf("%d instances found, pick one with --socket", len(sockets))
	}
}
