package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/blktree/blktree/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Work with saved device snapshots",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := store.Open(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer db.Close()

		snaps, err := db.ListSnapshots()
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			fmt.Println("no snapshots saved")
			return nil
		}
		fmt.Printf("%-6s %-25s %-8s %s\n", "ID", "TAKEN", "DEVICES", "AGE")
		for _, s := range snaps {
			fmt.Printf("%-6d %-25s %-8d %s\n",
				s.ID, s.TakenAt.Local().Format("2006-01-02 15:04:05"),
				s.Devices, humanize.Time(s.TakenAt))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Render a saved snapshot as a tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid snapshot id %q", args[0])
		}
		db, err := store.Open(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := db.LoadSnapshot(id)
		if err != nil {
			return err
		}
		return printTree(cfg, records)
	},
}

var historyDiffCmd = &cobra.Command{
	Use:   "diff [before after]",
	Short: "Compare two snapshots (default: the two most recent)",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := store.Open(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer db.Close()

		var beforeID, afterID int64
		switch len(args) {
		case 2:
			if beforeID, err = strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("invalid snapshot id %q", args[0])
			}
			if afterID, err = strconv.ParseInt(args[1], 10, 64); err != nil {
				return fmt.Errorf("invalid snapshot id %q", args[1])
			}
		case 0:
			ids, err := db.LatestIDs(2)
			if err != nil {
				return err
			}
			if len(ids) < 2 {
				return fmt.Errorf("need at least two snapshots to diff, have %d", len(ids))
			}
			beforeID, afterID = ids[0], ids[1]
		default:
			return fmt.Errorf("diff takes zero or two snapshot ids")
		}

		before, err := db.LoadSnapshot(beforeID)
		if err != nil {
			return err
		}
		after, err := db.LoadSnapshot(afterID)
		if err != nil {
			return err
		}

		changes := store.Diff(before, after)
		if len(changes) == 0 {
			fmt.Printf("snapshots %d and %d are identical\n", beforeID, afterID)
			return nil
		}
		for _, c := range changes {
			printChange(c)
		}
		return nil
	},
}

func printChange(c store.Change) {
	switch c.Kind {
	case store.ChangeAdded:
		fmt.Fprintf(os.Stdout, "+ %-12s added (%s, %s)\n",
			c.Name, c.After.Type, humanize.IBytes(c.After.SizeBytes))
	case store.ChangeRemoved:
		fmt.Fprintf(os.Stdout, "- %-12s removed (%s, %s)\n",
			c.Name, c.Before.Type, humanize.IBytes(c.Before.SizeBytes))
	case store.ChangeResized:
		fmt.Fprintf(os.Stdout, "~ %-12s resized %s -> %s\n",
			c.Name, humanize.IBytes(c.Before.SizeBytes), humanize.IBytes(c.After.SizeBytes))
	case store.ChangeRemounted:
		fmt.Fprintf(os.Stdout, "~ %-12s mountpoint %s -> %s\n",
			c.Name, orNone(c.Before.Mountpoint), orNone(c.After.Mountpoint))
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDiffCmd)
}
