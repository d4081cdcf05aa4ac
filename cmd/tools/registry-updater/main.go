// cmd/tools/registry-updater/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"assignment-workers/pkg/registry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var registryPath string

	root := &cobra.Command{
		Use:           "registry-updater",
		Short:         "Maintain the activity registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")

	root.AddCommand(newAddCmd(&registryPath), newUpdateCmd(&registryPath), newValidateCmd(&registryPath))
	return root
}

func newAddCmd(path *string) *cobra.Command {
	var activity registry.Activity

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a new activity to the registry",
		Example: `  registry-updater add --id calculate-assignment-score --displayName "Calculate Assignment Score" --category matching`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if activity.ID == "" || activity.DisplayName == "" || activity.Category == "" {
				return fmt.Errorf("id, displayName and category are required")
			}
			if activity.TaskType == "" {
				activity.TaskType = activity.ID
			}
			activity.InputSchema = map[string]interface{}{}
			activity.OutputSchema = map[string]interface{}{}
			activity.ErrorCodes = []string{}
			activity.Tags = []string{}

			reg, err := registry.LoadOrCreate(*path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Add(activity); err != nil {
				return err
			}
			if err := reg.Save(*path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity: %s\n", activity.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&activity.ID, "id", "", "Activity ID")
	f.StringVar(&activity.DisplayName, "displayName", "", "Display name")
	f.StringVar(&activity.Description, "description", "", "Description")
	f.StringVar(&activity.Category, "category", "", "Category (e.g. matching)")
	f.StringVar(&activity.TaskType, "taskType", "", "Zeebe task type (defaults to the ID)")
	f.StringVar(&activity.Version, "version", "1.0.0", "Version")
	f.StringVar(&activity.ImplementationStatus, "status", "planned", "Implementation status")
	f.StringVar(&activity.Timeout, "timeout", "30s", "Job timeout")
	f.IntVar(&activity.Retries, "retries", 3, "Job retries")
	return cmd
}

func newUpdateCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:     "update <id> <field> <value>",
		Short:   "Update an existing activity's field",
		Example: "  registry-updater update calculate-assignment-score status implemented",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(*path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Update(args[0], args[1], args[2]); err != nil {
				return err
			}
			if err := reg.Save(*path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", args[0], args[1], args[2])
			return nil
		},
	}
}

func newValidateCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the registry file and compile its schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(*path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	}
}
