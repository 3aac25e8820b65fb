// Package flatdoccli provides Cobra command factories for flatdoc
// collections. It isolates the github.com/spf13/cobra dependency so that
// callers who only need the library never import it, mirroring the
// teacher's cobraext package.
package flatdoccli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relux-works/flatdoc"
	"github.com/relux-works/flatdoc/cursor"
	"github.com/relux-works/flatdoc/doc"
)

func parseFilter(s string) (doc.Document, error) {
	if s == "" {
		return doc.Document{}, nil
	}
	var d doc.Document
	if err := json.Unmarshal([]byte(s), &d); err != nil {
		return nil, fmt.Errorf("invalid filter JSON: %w", err)
	}
	return d, nil
}

// InsertCommand creates an "insert" subcommand that inserts the document
// given as a JSON positional argument.
func InsertCommand(col *flatdoc.Collection) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insert <document-json>",
		Short: "Insert a single document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var d doc.Document
			if err := json.Unmarshal([]byte(args[0]), &d); err != nil {
				return fmt.Errorf("invalid document JSON: %w", err)
			}
			result, err := col.InsertOne(d)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
	return cmd
}

// FindCommand creates a "find" subcommand that queries a collection with
// an optional filter, sort, skip, and limit.
func FindCommand(col *flatdoc.Collection) *cobra.Command {
	var (
		filter    string
		sortField string
		sortDesc  bool
		skip      int
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Query documents matching a filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFilter(filter)
			if err != nil {
				return err
			}

			var specs []cursor.SortSpec
			if sortField != "" {
				dir := cursor.Asc
				if sortDesc {
					dir = cursor.Desc
				}
				specs = []cursor.SortSpec{{Field: sortField, Direction: dir}}
			}

			cur, err := col.Find(f, specs, skip, limit)
			if err != nil {
				return err
			}
			return printJSON(cmd, cur.All())
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Query filter as a JSON document")
	cmd.Flags().StringVar(&sortField, "sort", "", "Dot-path field to sort by")
	cmd.Flags().BoolVar(&sortDesc, "desc", false, "Sort descending instead of ascending")
	cmd.Flags().IntVar(&skip, "skip", 0, "Number of matching documents to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of documents to return (0 = unlimited)")
	return cmd
}

// UpdateCommand creates an "update" subcommand applying an update document
// to every document matching a filter.
func UpdateCommand(col *flatdoc.Collection) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "update <update-json>",
		Short: "Update documents matching --filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFilter(filter)
			if err != nil {
				return err
			}
			var u doc.Document
			if err := json.Unmarshal([]byte(args[0]), &u); err != nil {
				return fmt.Errorf("invalid update JSON: %w", err)
			}
			result, err := col.UpdateOne(f, u)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Query filter as a JSON document")
	return cmd
}

// DeleteCommand creates a "delete" subcommand removing documents matching
// a filter. --all selects DeleteMany instead of DeleteOne.
func DeleteCommand(col *flatdoc.Collection) *cobra.Command {
	var (
		filter string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete documents matching --filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFilter(filter)
			if err != nil {
				return err
			}
			result, err := col.Remove(f, all)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Query filter as a JSON document")
	cmd.Flags().BoolVar(&all, "all", false, "Delete every matching document instead of just the first")
	return cmd
}

// CountCommand creates a "count" subcommand reporting how many documents
// match a filter.
func CountCommand(col *flatdoc.Collection) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count documents matching --filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFilter(filter)
			if err != nil {
				return err
			}
			n, err := col.Count(f)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]int{"count": n})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Query filter as a JSON document")
	return cmd
}

// AddCommands adds insert/find/update/delete/count as subcommands of parent.
func AddCommands(parent *cobra.Command, col *flatdoc.Collection) {
	parent.AddCommand(InsertCommand(col))
	parent.AddCommand(FindCommand(col))
	parent.AddCommand(UpdateCommand(col))
	parent.AddCommand(DeleteCommand(col))
	parent.AddCommand(CountCommand(col))
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
