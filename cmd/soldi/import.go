package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mfalcone/soldi/internal/importer"
)

// importRow is the JSON-lines handoff format produced by the spreadsheet
// decoder. The decoder itself lives outside this program.
type importRow struct {
	Date         string `json:"date"`
	Description  string `json:"description"`
	Details      string `json:"details"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	Account      string `json:"account"`
	CategoryHint string `json:"category_hint"`
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <rows.jsonl>",
		Short: "Import decoded spreadsheet rows",
		Long: `Reads decoded spreadsheet rows (one JSON object per line) and imports
them. Without --commit only a preview is printed: each row is classified
as new, duplicate, or modified against the stored transactions.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("commit", false, "apply the import instead of previewing it")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rows, err := readRows(args[0])
	if err != nil {
		return err
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	cls, err := newClassifier(ctx, store)
	if err != nil {
		return err
	}

	imp := importer.New(cls, store)

	commit, _ := cmd.Flags().GetBool("commit")
	if !commit {
		preview, previewErr := imp.Preview(ctx, rows)
		if previewErr != nil {
			return previewErr
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("Preview of %d rows", len(rows))))
		fmt.Println(successStyle.Render(fmt.Sprintf("  new:       %d", preview.NewCount)))
		fmt.Println(warningStyle.Render(fmt.Sprintf("  modified:  %d", preview.ModifiedCount)))
		fmt.Println(subtleStyle.Render(fmt.Sprintf("  duplicate: %d", preview.DuplicateCount)))
		fmt.Println(subtleStyle.Render("run again with --commit to apply"))
		return nil
	}

	result, err := imp.Commit(ctx, rows)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Import complete"))
	fmt.Println(successStyle.Render(fmt.Sprintf("  imported: %d", result.Imported)))
	fmt.Println(warningStyle.Render(fmt.Sprintf("  updated:  %d", result.Updated)))
	fmt.Println(subtleStyle.Render(fmt.Sprintf("  skipped:  %d", result.Skipped)))
	return nil
}

func readRows(path string) ([]importer.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rows file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var rows []importer.Row
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}

		var raw importRow
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		date, err := time.Parse(time.RFC3339, raw.Date)
		if err != nil {
			// Spreadsheet exports often carry bare dates.
			date, err = time.Parse("2006-01-02", raw.Date)
			if err != nil {
				return nil, fmt.Errorf("line %d: unparsable date %q", line, raw.Date)
			}
		}

		amount, err := decimal.NewFromString(raw.Amount)
		if err != nil {
			return nil, fmt.Errorf("line %d: unparsable amount %q", line, raw.Amount)
		}

		rows = append(rows, importer.Row{
			Date:         date,
			Description:  raw.Description,
			Details:      raw.Details,
			Amount:       amount,
			Currency:     raw.Currency,
			Account:      raw.Account,
			CategoryHint: raw.CategoryHint,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading rows file: %w", err)
	}

	return rows, nil
}
