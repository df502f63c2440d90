package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mfalcone/soldi/internal/gmail"
)

const defaultGmailQuery = `from:isybank subject:(avviso OR notifica) newer_than:30d`

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync transactions from Gmail bank notifications",
		Long: `Fetches bank-notification emails, parses each into a transaction,
categorizes it, and saves it. Notifications already imported (by Gmail
message id or by content) are skipped.`,
		RunE: runSync,
	}

	cmd.Flags().String("token", "", "Gmail OAuth access token")
	cmd.Flags().String("query", defaultGmailQuery, "Gmail search query")
	cmd.Flags().Int64("max", 100, "maximum messages to fetch")

	_ = viper.BindPFlag("gmail.token", cmd.Flags().Lookup("token"))
	_ = viper.BindPFlag("gmail.query", cmd.Flags().Lookup("query"))
	_ = viper.BindPFlag("gmail.max", cmd.Flags().Lookup("max"))

	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	client, err := gmail.NewClient(ctx, viper.GetString("gmail.token"))
	if err != nil {
		return err
	}

	cls, err := newClassifier(ctx, store)
	if err != nil {
		return err
	}

	max := viper.GetInt64("gmail.max")
	syncer := gmail.NewSyncer(client, cls, store, viper.GetString("gmail.query"), max)

	bar := progressbar.Default(max, "syncing")
	result, err := syncer.Sync(ctx, func() { _ = bar.Add(1) })
	_ = bar.Finish()
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Sync complete"))
	fmt.Println(successStyle.Render(fmt.Sprintf("  imported: %d", result.Imported)))
	fmt.Println(subtleStyle.Render(fmt.Sprintf("  skipped:  %d", result.Skipped)))
	if result.Failed > 0 {
		fmt.Println(errorStyle.Render(fmt.Sprintf("  failed:   %d", result.Failed)))
	}
	return nil
}
