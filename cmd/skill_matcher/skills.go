package main

import (
	"fmt"
	"os"

	"github.com/jonathan/skill-matcher/internal/skills"
	"github.com/spf13/cobra"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Inspect and validate skill registry seeds",
}

var skillsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a registry seed as YAML",
	Long:  "Write the built-in dictionary, or the registry loaded from --registry, as a YAML seed that can be edited and passed back via registry_file.",
	Args:  cobra.NoArgs,
	RunE:  runSkillsExport,
}

var skillsValidateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a registry seed file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSkillsValidate,
}

var (
	skillsExportOut      string
	skillsExportRegistry string
)

func init() {
	skillsExportCmd.Flags().StringVarP(&skillsExportOut, "out", "o", "", "Output file (default: stdout)")
	skillsExportCmd.Flags().StringVar(&skillsExportRegistry, "registry", "", "Registry seed to re-export instead of the built-in dictionary")

	skillsCmd.AddCommand(skillsExportCmd, skillsValidateCmd)
	rootCmd.AddCommand(skillsCmd)
}

func runSkillsExport(cmd *cobra.Command, _ []string) error {
	registry, err := loadRegistry(skillsExportRegistry)
	if err != nil {
		return err
	}
	seed := registry.Snapshot().Seed()

	if skillsExportOut == "" {
		return skills.WriteSeed(cmd.OutOrStdout(), seed)
	}

	f, err := os.Create(skillsExportOut)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := skills.WriteSeed(f, seed); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote registry seed to %s\n", skillsExportOut)
	return nil
}

func runSkillsValidate(cmd *cobra.Command, args []string) error {
	registry, err := loadRegistry(args[0])
	if err != nil {
		return err
	}
	snap := registry.Snapshot()

	out := cmd.OutOrStdout()
	for _, c := range skills.Categories() {
		fmt.Fprintf(out, "%-18s %d\n", c.String()+":", len(snap.Skills(c)))
	}
	fmt.Fprintf(out, "%-18s %d\n", "aliases:", len(snap.Aliases()))
	fmt.Fprintf(out, "%-18s %d\n", "groups:", len(snap.Groups()))
	return nil
}
