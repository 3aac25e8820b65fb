// Command flatdoc demonstrates the flatdoc library with a small task
// tracker collection seeded on startup.
//
// Build:
//
//	go build -o flatdoc ./cmd/flatdoc
//
// Usage:
//
//	./flatdoc find --filter '{"status":"done"}' --sort name
//	./flatdoc find --sort priority --desc --limit 3
//	./flatdoc count --filter '{"assignee":"alice"}'
//	./flatdoc insert '{"name":"Ship release notes","status":"todo","assignee":"bob"}'
//	./flatdoc update '{"$set":{"status":"done"}}' --filter '{"_id":"task-1"}'
//	./flatdoc delete --filter '{"status":"done"}' --all
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/relux-works/flatdoc"
	"github.com/relux-works/flatdoc/doc"
	"github.com/relux-works/flatdoc/flatdoccli"
)

func seed(col *flatdoc.Collection) error {
	count, err := col.Count(doc.Document{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tasks := []doc.Document{
		{"_id": "task-1", "name": "Auth service refactor", "status": "in-progress", "assignee": "alice", "priority": "high"},
		{"_id": "task-2", "name": "Dashboard performance", "status": "todo", "assignee": "bob", "priority": "medium"},
		{"_id": "task-3", "name": "Fix login redirect bug", "status": "done", "assignee": "alice", "priority": "high"},
		{"_id": "task-4", "name": "Add dark mode", "status": "done", "assignee": "carol", "priority": "low"},
		{"_id": "task-5", "name": "Pagination API", "status": "in-progress", "assignee": "dave", "priority": "medium"},
	}
	_, err = col.InsertMany(tasks)
	return err
}

func main() {
	if os.Getenv("FLATDOC_DEBUG") != "" {
		flatdoc.SetLogger(zerolog.New(os.Stderr).With().Timestamp().Logger())
	}

	dir := os.Getenv("FLATDOC_DIR")
	if dir == "" {
		dir, _ = os.MkdirTemp("", "flatdoc-demo-*")
	}

	client, err := flatdoc.NewClient(dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	tasks := client.Database("tasks").Collection("tasks")
	if err := seed(tasks); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:   "flatdoc",
		Short: "Query and mutate a flatdoc task collection",
	}
	flatdoccli.AddCommands(root, tasks)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
