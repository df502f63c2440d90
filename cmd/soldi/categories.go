package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories and their keywords",
		RunE:  runCategories,
	}
}

func runCategories(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	categories, err := store.ListCategories(ctx)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Categories"))
	for _, cat := range categories {
		kind := "expense"
		if cat.IsIncome {
			kind = "income"
		}
		fmt.Printf("  %3d  %-20s %s\n", cat.ID, cat.Name, subtleStyle.Render(kind))
		if len(cat.Keywords) > 0 {
			fmt.Println(subtleStyle.Render("       " + strings.Join(cat.Keywords, ", ")))
		}
	}
	return nil
}
