package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ukaji3/exrows-go/pkg/exrows"
	"github.com/ukaji3/exrows-go/pkg/exrows/models"
	"github.com/ukaji3/exrows-go/pkg/exrows/output"
)

func (c *cli) sheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets <file>",
		Short: "List sheet names in document order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.view(args[0], func(eng *exrows.Engine) error {
				return c.writeJSON(cmd, eng.ListSheets())
			})
		},
	}
}

func (c *cli) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file> <sheet>",
		Short: "Show the position and used range of a sheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.view(args[0], func(eng *exrows.Engine) error {
				info, err := eng.GetSheet(args[1])
				if err != nil {
					return err
				}
				return c.writeJSON(cmd, info)
			})
		},
	}
}

func (c *cli) readCmd() *cobra.Command {
	var (
		sheet string
		row   int
	)
	cmd := &cobra.Command{
		Use:   "read <file>",
		Short: "Print rows as JSON",
		Long: `Print rows as JSON: one row with --sheet and --row, one sheet with --sheet,
or every sheet of the document otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("row") && sheet == "" {
				return fmt.Errorf("--row requires --sheet")
			}
			return c.view(args[0], func(eng *exrows.Engine) error {
				switch {
				case cmd.Flags().Changed("row"):
					values, err := eng.ReadRow(sheet, row)
					if err != nil {
						return err
					}
					return c.writeJSON(cmd, values)
				case sheet != "":
					rows, err := eng.ReadAllRows(sheet)
					if err != nil {
						return err
					}
					data, err := output.SheetToJSON(&models.SheetData{Title: sheet, Rows: rows}, c.pretty)
					if err != nil {
						return fmt.Errorf("serialization failed: %w", err)
					}
					fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return nil
				default:
					doc, err := eng.Dump()
					if err != nil {
						return err
					}
					return c.writeJSON(cmd, doc)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&sheet, "sheet", "s", "", "Sheet to read (default: all sheets)")
	cmd.Flags().IntVarP(&row, "row", "r", 0, "1-based row number to read")
	return cmd
}

func (c *cli) appendCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "append <file> <sheet> <row-json>",
		Short:   "Append one row after the last used row",
		Example: `  exrows append book.xlsx Data '[1, "apple", 2.5, true]'`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := output.ParseRow([]byte(args[2]))
			if err != nil {
				return fmt.Errorf("invalid row: %w", err)
			}
			return c.mutate(cmd, args[0], args[1], func(eng *exrows.Engine) error {
				return eng.AddRow(args[1], row, false)
			})
		},
	}
}

func (c *cli) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add <file> <sheet> <rows-json>",
		Short:   "Append several rows and save once",
		Example: `  exrows add book.xlsx Data '[[1, "a"], [2, "b"]]'`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := output.ParseRows([]byte(args[2]))
			if err != nil {
				return fmt.Errorf("invalid rows: %w", err)
			}
			return c.mutate(cmd, args[0], args[1], func(eng *exrows.Engine) error {
				return eng.AddRows(args[1], rows)
			})
		},
	}
}

func (c *cli) updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <file> <sheet> <row-number> <row-json>",
		Short: "Overwrite the leading cells of a row",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseRowNumber(args[2])
			if err != nil {
				return err
			}
			row, err := output.ParseRow([]byte(args[3]))
			if err != nil {
				return fmt.Errorf("invalid row: %w", err)
			}
			return c.mutate(cmd, args[0], args[1], func(eng *exrows.Engine) error {
				return eng.UpdateRow(args[1], n, row, false)
			})
		},
	}
}

func (c *cli) replaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replace <file> <sheet> <first-row> <rows-json>",
		Short: "Overwrite consecutive rows starting at first-row and save once",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseRowNumber(args[2])
			if err != nil {
				return err
			}
			rows, err := output.ParseRows([]byte(args[3]))
			if err != nil {
				return fmt.Errorf("invalid rows: %w", err)
			}
			return c.mutate(cmd, args[0], args[1], func(eng *exrows.Engine) error {
				return eng.ReplaceRows(args[1], n, rows, false)
			})
		},
	}
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <file> <sheet> <row-number>",
		Short: "Delete a row; later rows move up",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseRowNumber(args[2])
			if err != nil {
				return err
			}
			return c.mutate(cmd, args[0], args[1], func(eng *exrows.Engine) error {
				return eng.DeleteRow(args[1], n)
			})
		},
	}
}

func (c *cli) copyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <file> <source-sheet> <target-sheet>",
		Short: "Copy a sheet with its contents and formatting to a new last sheet",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.mutate(cmd, args[0], args[2], func(eng *exrows.Engine) error {
				return eng.CopySheet(args[1], args[2])
			})
		},
	}
}

func parseRowNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid row number %q: %w", s, err)
	}
	return n, nil
}
