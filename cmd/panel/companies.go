package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"matrixadmin.app/panel/internal/panel/listview"
	"matrixadmin.app/panel/internal/panel/wizard"
)

var (
	listPage     int32
	listPageSize int32

	createName       string
	createSlug       string
	createAdminName  string
	createAdminEmail string
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Browse and create companies",
}

var companiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List companies one page at a time",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		view := listview.NewView(apiClient, listPageSize)
		view.Load(ctx)
		for i := int32(0); i < listPage && view.CanNext(); i++ {
			view.Next(ctx)
		}
		if view.State() == listview.StateErrored {
			return view.Err()
		}

		if jsonOutput {
			data, err := json.MarshalIndent(view.Companies(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if view.Empty() {
			fmt.Println("No companies yet.")
			return nil
		}

		fmt.Printf("%-20s %-24s %-8s %-8s\n", "NAME", "SLUG", "TYPE", "STATUS")
		for _, company := range view.Companies() {
			fmt.Printf("%-20s %-24s %-8s %-8s\n", company.Name, company.Slug, company.Type, company.Status)
		}
		fmt.Printf("\nPage %d, %d total", view.Page(), view.TotalCount())
		if view.CanNext() {
			fmt.Print(" (more pages available)")
		}
		fmt.Println()
		return nil
	},
}

var companiesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a company and provision its administrator",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		w := wizard.New(apiClient, wizard.DefaultCheckDelay, nil)
		if err := w.Open(ctx); err != nil {
			return err
		}

		w.SetName(ctx, createName)
		if createSlug != "" {
			w.SetSlug(ctx, createSlug)
		}

		// Wait out the debounce and the availability probe.
		deadline := time.Now().Add(10 * time.Second)
		for w.SlugAvailable() == nil && w.SlugCheckErr() == nil {
			if time.Now().After(deadline) {
				return fmt.Errorf("slug check timed out for %q", w.Slug())
			}
			time.Sleep(50 * time.Millisecond)
		}
		if err := w.SlugCheckErr(); err != nil {
			return fmt.Errorf("checking slug: %w", err)
		}

		if !w.Next() {
			return fmt.Errorf("slug %q is not available", w.Slug())
		}

		w.SetAdmin(createAdminName, createAdminEmail)
		if !w.Submit(ctx) {
			return fmt.Errorf("creation failed: %s", w.SubmitError())
		}

		fmt.Printf("Created company %q with admin %s.\n", createName, createAdminEmail)
		return nil
	},
}

var companiesSlugCheckCmd = &cobra.Command{
	Use:   "slug-check <slug>",
	Short: "Check whether a company slug is free",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		available, err := apiClient.SlugAvailable(context.Background(), args[0])
		if err != nil {
			return err
		}
		if available {
			fmt.Printf("%s is available\n", args[0])
		} else {
			fmt.Printf("%s is taken\n", args[0])
		}
		return nil
	},
}

var companiesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Soft-delete a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid company id %q", args[0])
		}
		if err := apiClient.DeleteCompany(context.Background(), id); err != nil {
			return err
		}
		fmt.Printf("company %d deleted\n", id)
		return nil
	},
}

func init() {
	companiesListCmd.Flags().Int32Var(&listPage, "page", 0, "page index (0-based)")
	companiesListCmd.Flags().Int32Var(&listPageSize, "page-size", 20, "rows per page")

	companiesCreateCmd.Flags().StringVar(&createName, "name", "", "company name")
	companiesCreateCmd.Flags().StringVar(&createSlug, "slug", "", "company slug (derived from the name when empty)")
	companiesCreateCmd.Flags().StringVar(&createAdminName, "admin-name", "", "administrator name")
	companiesCreateCmd.Flags().StringVar(&createAdminEmail, "admin-email", "", "administrator email")
	_ = companiesCreateCmd.MarkFlagRequired("name")
	_ = companiesCreateCmd.MarkFlagRequired("admin-name")
	_ = companiesCreateCmd.MarkFlagRequired("admin-email")

	companiesCmd.AddCommand(companiesListCmd)
	companiesCmd.AddCommand(companiesCreateCmd)
	companiesCmd.AddCommand(companiesSlugCheckCmd)
	companiesCmd.AddCommand(companiesDeleteCmd)
}
