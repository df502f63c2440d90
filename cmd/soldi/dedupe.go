package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mfalcone/soldi/internal/reconcile"
)

func dedupeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Find and remove likely duplicate transactions",
		Long: `Scans stored transactions for likely duplicates: repeats of the same
Gmail notification, and generic card-transaction records shadowed by a
specific record with the same amount on the same or adjacent day. Without
--apply the duplicates are only listed.`,
		RunE: runDedupe,
	}

	cmd.Flags().Bool("apply", false, "delete the duplicates instead of listing them")

	return cmd
}

func runDedupe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	transactions, err := store.ListTransactions(ctx)
	if err != nil {
		return err
	}

	duplicates := reconcile.FindLikelyDuplicateIDs(transactions)
	if len(duplicates) == 0 {
		fmt.Println(successStyle.Render("no likely duplicates found"))
		return nil
	}

	ids := make([]int64, 0, len(duplicates))
	for id := range duplicates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fmt.Println(titleStyle.Render(fmt.Sprintf("%d likely duplicates", len(ids))))
	byID := make(map[int64]int, len(transactions))
	for i, txn := range transactions {
		byID[txn.ID] = i
	}
	for _, id := range ids {
		txn := transactions[byID[id]]
		fmt.Println(warningStyle.Render(fmt.Sprintf("  #%d  %s  %s  %s",
			txn.ID, txn.Date.Format("2006-01-02"), txn.Amount.StringFixed(2), txn.Description)))
	}

	apply, _ := cmd.Flags().GetBool("apply")
	if !apply {
		fmt.Println(subtleStyle.Render("run again with --apply to delete them"))
		return nil
	}

	if err := store.DeleteTransactions(ctx, ids); err != nil {
		return err
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("deleted %d duplicates", len(ids))))
	return nil
}
