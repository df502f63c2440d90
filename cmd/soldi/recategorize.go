package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mfalcone/soldi/internal/common"
)

func recategorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recategorize <transaction-id> <category-name>",
		Short: "Correct a transaction's category",
		Long: `Moves a transaction to a different category and records the correction
in the merchant cache, so future transactions from the same merchant are
classified accordingly.`,
		Args: cobra.ExactArgs(2),
		RunE: runRecategorize,
	}
}

func runRecategorize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid transaction id %q", args[0])
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	category, err := store.GetCategoryByName(ctx, args[1])
	if err != nil {
		return common.NewUserError(fmt.Sprintf("unknown category %q", args[1]), err)
	}

	if err := store.UpdateTransactionCategory(ctx, id, category.ID); err != nil {
		return err
	}

	// The persisted correction is what future cache rebuilds learn from;
	// warming the in-process cache here only matters for this invocation.
	cls, err := newClassifier(ctx, store)
	if err != nil {
		return err
	}

	transactions, err := store.ListTransactions(ctx)
	if err != nil {
		return err
	}
	for _, txn := range transactions {
		if txn.ID == id {
			cls.LearnFromCorrection(txn.Description, category.ID)
			break
		}
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("transaction %d moved to %q", id, category.Name)))
	return nil
}
