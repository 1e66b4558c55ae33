// civicctl - консольная панель администратора CivicFlow поверх HTTP API
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shenikar/civicflow/internal/client"
	"github.com/shenikar/civicflow/internal/models"
)

const defaultServer = "http://localhost:5000"

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	server := os.Getenv("CIVICFLOW_URL")
	if server == "" {
		server = defaultServer
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, client.New(server), os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, command string, args []string, out io.Writer) error {
	switch command {
	case "list", "resolved":
		listCmd := flag.NewFlagSet(command, flag.ContinueOnError)
		if err := listCmd.Parse(args); err != nil {
			return err
		}
		if _, err := c.Refresh(ctx); err != nil {
			return fmt.Errorf("failed to load complaints: %w", err)
		}
		if command == "resolved" {
			printTable(out, c.Resolved())
		} else {
			printTable(out, c.Complaints())
		}

	case "get":
		getCmd := flag.NewFlagSet("get", flag.ContinueOnError)
		id := getCmd.Int64("id", 0, "Complaint ID")
		if err := getCmd.Parse(args); err != nil {
			return err
		}
		if *id <= 0 {
			return errors.New("id is required for get")
		}
		complaint, err := c.Get(ctx, *id)
		if err != nil {
			return err
		}
		printComplaint(out, complaint)

	case "status":
		statusCmd := flag.NewFlagSet("status", flag.ContinueOnError)
		id := statusCmd.Int64("id", 0, "Complaint ID")
		value := statusCmd.String("set", "", "New status (Pending, In Progress, Resolved)")
		if err := statusCmd.Parse(args); err != nil {
			return err
		}
		status := models.Status(*value)
		if *id <= 0 || !status.Valid() {
			return fmt.Errorf("id and a valid status are required for status, one of: %s", statusNames())
		}
		update, err := c.UpdateStatus(ctx, *id, status)
		if err != nil {
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && apiErr.Complaint != nil {
				fmt.Fprintf(out, "Status saved as %s, but: %s\n", apiErr.Complaint.Status, apiErr.Message)
			}
			return err
		}
		fmt.Fprintf(out, "%s (notification: %s)\n", update.Message, update.Notification)

	case "chat":
		if len(args) == 0 {
			return errors.New("message is required for chat")
		}
		reply, err := c.Chat(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, reply.Reply)

	default:
		help()
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}

func printTable(out io.Writer, complaints []models.Complaint) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tLOCATION\tSUBMITTED BY")
	for _, c := range complaints {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s <%s>\n", c.ID, c.Title, c.Status, c.Location, c.Name, c.Email)
	}
	w.Flush()
}

func printComplaint(out io.Writer, c *models.Complaint) {
	fmt.Fprintf(out, "#%d %s [%s]\n", c.ID, c.Title, c.Status)
	fmt.Fprintf(out, "From:     %s <%s>\n", c.Name, c.Email)
	if c.Location != "" {
		fmt.Fprintf(out, "Location: %s\n", c.Location)
	}
	if c.ImageURL != "" {
		fmt.Fprintf(out, "Image:    %s\n", c.ImageURL)
	}
	fmt.Fprintf(out, "Created:  %s\n", c.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "\n%s\n", c.Description)
}

func statusNames() string {
	names := make([]string, 0, len(models.Statuses()))
	for _, s := range models.Statuses() {
		names = append(names, strconv.Quote(s.String()))
	}
	return strings.Join(names, ", ")
}

func help() {
	fmt.Println("Usage: civicctl <command> [flags]")
	fmt.Println("Commands:")
	fmt.Println("  list                         List all complaints")
	fmt.Println("  resolved                     List resolved complaints (public dashboard)")
	fmt.Println("  get -id <id>                 Show one complaint")
	fmt.Println("  status -id <id> -set <status> Change complaint status")
	fmt.Println("  chat <message>               Ask the status bot")
	fmt.Println("Server address is read from CIVICFLOW_URL (default " + defaultServer + ")")
}
