package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Classify uncategorized transactions",
		Long: `Rebuilds the merchant cache from transaction history, then assigns a
category to every stored transaction that does not have one yet.`,
		RunE: runClassify,
	}
}

func runClassify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	cls, err := newClassifier(ctx, store)
	if err != nil {
		return err
	}

	transactions, err := store.ListTransactions(ctx)
	if err != nil {
		return err
	}

	var pending int
	for _, txn := range transactions {
		if txn.CategoryID == 0 {
			pending++
		}
	}
	if pending == 0 {
		fmt.Println(subtleStyle.Render("nothing to classify"))
		return nil
	}

	bar := progressbar.Default(int64(pending), "classifying")
	classified := 0
	for _, txn := range transactions {
		if txn.CategoryID != 0 {
			continue
		}

		classification, err := cls.Classify(ctx, txn.Description, txn.Details, txn.Amount, "")
		if err != nil {
			return err
		}
		if err := store.UpdateTransactionCategory(ctx, txn.ID, classification.CategoryID); err != nil {
			return err
		}

		classified++
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	fmt.Println(successStyle.Render(fmt.Sprintf("classified %d transactions", classified)))
	return nil
}
