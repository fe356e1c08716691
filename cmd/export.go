package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"globescope/internal/export"
)

var (
	exportFormats    []string
	exportName       string
	exportContinents []string
	exportTiers      []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the merged country table as CSV, JSON, or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		table, fp, err := loadTable(c)
		if err != nil {
			return err
		}
		table, err = applyFilters(table, exportContinents, exportTiers)
		if err != nil {
			return err
		}

		exp, err := export.NewExporter(c.ExportDir, logger)
		if err != nil {
			return err
		}
		var files []string
		for _, format := range exportFormats {
			var path string
			switch format {
			case "csv":
				path, err = exp.TableCSV(table, exportName)
			case "json":
				path, err = exp.TableJSON(table, exportName)
			case "xlsx":
				path, err = exp.TableXLSX(table, exportName)
			default:
				return fmt.Errorf("unsupported format %q (want csv, json, or xlsx)", format)
			}
			if err != nil {
				return err
			}
			files = append(files, path)
		}

		manifest, err := exp.WriteManifest(fp, files)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Exported %d countries in %d format(s); manifest at %s\n",
			table.Len(), len(files), manifest)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringSliceVar(&exportFormats, "format", []string{"csv"}, "formats to write: csv, json, xlsx")
	exportCmd.Flags().StringVar(&exportName, "name", "countries", "output file name without extension")
	exportCmd.Flags().StringSliceVar(&exportContinents, "continent", nil, "limit to these continents")
	exportCmd.Flags().StringSliceVar(&exportTiers, "tier", nil, "limit to these development tiers")
	rootCmd.AddCommand(exportCmd)
}
