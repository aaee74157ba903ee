package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"stockpile/internal/config"
	"stockpile/internal/inventory"
)

var titleCaser = cases.Title(language.English)

func newItemCommand(ctx *commandContext) *cobra.Command {
	itemCmd := &cobra.Command{
		Use:   "item",
		Short: "Inspect and register stock items",
	}

	itemCmd.AddCommand(newItemListCommand(ctx))
	itemCmd.AddCommand(newItemShowCommand(ctx))
	itemCmd.AddCommand(newItemHistoryCommand(ctx))
	itemCmd.AddCommand(newItemMovesCommand(ctx))
	itemCmd.AddCommand(newItemAddCommand(ctx))
	itemCmd.AddCommand(newItemNextIDCommand(ctx))

	return itemCmd
}

func newItemListCommand(ctx *commandContext) *cobra.Command {
	var location string
	var material string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stock items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *inventory.Store) error {
				records, err := store.List(cmd.Context(), inventory.ListOptions{
					Location:       strings.TrimSpace(location),
					Material:       strings.TrimSpace(material),
					IncludeRetired: all,
				})
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No items found")
					return nil
				}

				rows := make([][]string, 0, len(records))
				for _, record := range records {
					rows = append(rows, []string{
						record.JAID,
						renderPlacement(record),
						titleCaser.String(record.ItemType),
						record.Material,
						record.Dimensions(),
						yesNo(record.Active),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Location", "Type", "Material", "Dimensions", "Active"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&location, "location", "l", "", "Filter by location")
	cmd.Flags().StringVarP(&material, "material", "m", "", "Filter by material")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include superseded records")
	return cmd
}

func newItemShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ja-id>",
		Short: "Show the active record for an identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *inventory.Store) error {
				record, err := store.ResolveActive(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printRecordDetail(cmd, record)
				return nil
			})
		},
	}
}

func newItemHistoryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history <ja-id>",
		Short: "Show the shortening lineage for an identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *inventory.Store) error {
				records, err := store.History(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No history found")
					return nil
				}

				rows := make([][]string, 0, len(records))
				for _, record := range records {
					rows = append(rows, []string{
						record.JAID,
						record.ParentJAID,
						record.Dimensions(),
						renderPlacement(record),
						yesNo(record.Active),
						formatTimestamp(record.CreatedAt),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Cut From", "Dimensions", "Location", "Active", "Created"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newItemMovesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "moves <ja-id>",
		Short: "Show the relocation audit log for an identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *inventory.Store) error {
				moves, err := store.Moves(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(moves) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No moves recorded")
					return nil
				}

				rows := make([][]string, 0, len(moves))
				for _, move := range moves {
					rows = append(rows, []string{
						formatTimestamp(move.MovedAt),
						renderPlace(move.FromLocation, move.FromSubLocation),
						renderPlace(move.ToLocation, move.ToSubLocation),
						move.BatchID,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"When", "From", "To", "Batch"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newItemAddCommand(ctx *commandContext) *cobra.Command {
	var (
		jaID        string
		location    string
		subLocation string
		itemType    string
		material    string
		length      string
		width       string
		thickness   string
		notes       string
		vendor      string
		vendorPart  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register new stock",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *inventory.Store) error {
				record := &inventory.Record{
					JAID:        strings.TrimSpace(jaID),
					Location:    strings.TrimSpace(location),
					SubLocation: strings.TrimSpace(subLocation),
					ItemType:    strings.TrimSpace(itemType),
					Material:    strings.TrimSpace(material),
					Notes:       notes,
					Vendor:      strings.TrimSpace(vendor),
					VendorPart:  strings.TrimSpace(vendorPart),
				}

				dims := []struct {
					name  string
					raw   string
					field *decimal.NullDecimal
				}{
					{"length", length, &record.Length},
					{"width", width, &record.Width},
					{"thickness", thickness, &record.Thickness},
				}
				for _, dim := range dims {
					raw := strings.TrimSpace(dim.raw)
					if raw == "" {
						continue
					}
					value, err := decimal.NewFromString(raw)
					if err != nil {
						return fmt.Errorf("parse %s %q: %w", dim.name, raw, err)
					}
					*dim.field = decimal.NullDecimal{Decimal: value, Valid: true}
				}

				inserted, err := store.Add(cmd.Context(), record)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s at %s\n", inserted.JAID, renderPlacement(inserted))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&jaID, "id", "", "Explicit identifier (default: allocate next)")
	cmd.Flags().StringVarP(&location, "location", "l", "", "Storage location (required)")
	cmd.Flags().StringVar(&subLocation, "sub", "", "Sub-location within the storage location")
	cmd.Flags().StringVarP(&itemType, "type", "t", "", "Item type, e.g. bar, plate, tube")
	cmd.Flags().StringVarP(&material, "material", "m", "", "Material designation")
	cmd.Flags().StringVar(&length, "length", "", "Length")
	cmd.Flags().StringVar(&width, "width", "", "Width or diameter")
	cmd.Flags().StringVar(&thickness, "thickness", "", "Thickness or wall")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&vendor, "vendor", "", "Vendor name")
	cmd.Flags().StringVar(&vendorPart, "vendor-part", "", "Vendor part number")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}

func newItemNextIDCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "next-id",
		Short: "Show the identifier the next intake will receive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *inventory.Store) error {
				next, err := store.PeekNextIdentifier(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), next)
				return nil
			})
		},
	}
}

func printRecordDetail(cmd *cobra.Command, record *inventory.Record) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", record.JAID)
	fmt.Fprintf(out, "  Active:     %s\n", yesNo(record.Active))
	fmt.Fprintf(out, "  Location:   %s\n", renderPlacement(record))
	if record.ItemType != "" {
		fmt.Fprintf(out, "  Type:       %s\n", titleCaser.String(record.ItemType))
	}
	if record.Material != "" {
		fmt.Fprintf(out, "  Material:   %s\n", record.Material)
	}
	if dims := record.Dimensions(); dims != "" {
		fmt.Fprintf(out, "  Dimensions: %s\n", dims)
	}
	if record.CutLoss.Valid {
		fmt.Fprintf(out, "  Cut loss:   %s\n", record.CutLoss.Decimal.String())
	}
	if record.ParentJAID != "" {
		fmt.Fprintf(out, "  Cut from:   %s\n", record.ParentJAID)
	}
	if record.Vendor != "" {
		fmt.Fprintf(out, "  Vendor:     %s\n", record.Vendor)
	}
	if record.VendorPart != "" {
		fmt.Fprintf(out, "  Part:       %s\n", record.VendorPart)
	}
	if record.Notes != "" {
		fmt.Fprintf(out, "  Notes:      %s\n", record.Notes)
	}
	fmt.Fprintf(out, "  Created:    %s\n", formatTimestamp(record.CreatedAt))
	fmt.Fprintf(out, "  Updated:    %s\n", formatTimestamp(record.UpdatedAt))
}

func renderPlacement(record *inventory.Record) string {
	return renderPlace(record.Location, record.SubLocation)
}

func renderPlace(location, subLocation string) string {
	if subLocation == "" {
		return location
	}
	return location + " / " + subLocation
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}
