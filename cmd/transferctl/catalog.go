package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stemsi/transfer-backend/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the requirement catalog",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate every catalog document against its schema",
	RunE:  runCatalogValidate,
}

var catalogMajorsCmd = &cobra.Command{
	Use:   "majors",
	Short: "List the majors with requirement profiles at a university",
	RunE:  runCatalogMajors,
}

var majorsUniversity string

func init() {
	catalogMajorsCmd.Flags().StringVar(&majorsUniversity, "university", "", "University id, e.g. ucsc (required)")
	_ = catalogMajorsCmd.MarkFlagRequired("university")

	catalogCmd.AddCommand(catalogValidateCmd, catalogMajorsCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogValidate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	cat, err := catalog.LoadDir(cmd.Context(), resolveCatalogDir())
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprint(out, verr.Error())
			return fmt.Errorf("%s failed validation with %d error(s)", verr.Document, len(verr.Errors))
		}
		return err
	}

	available := 0
	for _, campus := range cat.Campuses() {
		if campus.Available {
			available++
		}
	}
	fmt.Fprintf(out, "catalog OK (version %s)\n", cat.Version())
	fmt.Fprintf(out, "  campuses:  %d (%d with requirements)\n", len(cat.Campuses()), available)
	fmt.Fprintf(out, "  colleges:  %d\n", len(cat.Colleges()))
	return nil
}

func runCatalogMajors(cmd *cobra.Command, _ []string) error {
	cat, err := catalog.LoadDir(cmd.Context(), resolveCatalogDir())
	if err != nil {
		return err
	}
	majors, err := cat.Majors(majorsUniversity)
	if err != nil {
		return err
	}
	for _, m := range majors {
		fmt.Fprintln(cmd.OutOrStdout(), m)
	}
	return nil
}
