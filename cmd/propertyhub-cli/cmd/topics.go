package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfrund/propertyhub/cmd/propertyhub-cli/internal/topics"
	"github.com/nfrund/propertyhub/internal/topicmgr"
)

func newTopicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Explore the site's notification topics",
		Long: `The topics command lists and inspects the change notifications views
subscribe to and browsers can follow over the websocket.

Examples:
  # List all topics
  propertyhub-cli topics list

  # List the catalog topics as JSON
  propertyhub-cli topics list --module catalog --format json

  # Show one topic
  propertyhub-cli topics get properties_changed

  # Check a name against the naming rules
  propertyhub-cli topics validate open_house_scheduled`,
	}
	cmd.AddCommand(newTopicsListCmd(), newTopicsGetCmd(), newTopicsValidateCmd())
	return cmd
}

func newTopicsListCmd() *cobra.Command {
	var format, module string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all notification topics",
		Long: `List every notification topic in table or JSON format.

Output formats:
  table - Human-readable table format (default)
  json  - Machine-readable JSON format`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := topics.Manager()
			if err != nil {
				return err
			}

			list := manager.List()
			if module != "" {
				list = manager.ListByModule(module)
			}
			if len(list) == 0 {
				if module != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "No topics found matching: module '%s'\n", module)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "No topics found")
				return nil
			}

			switch format {
			case "json":
				return topics.DisplayTopicsJSON(cmd.OutOrStdout(), list)
			case "table":
				if module != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Topics for module '%s':\n\n", module)
				}
				return topics.DisplayTopicsTable(cmd.OutOrStdout(), list)
			default:
				return fmt.Errorf("unsupported output format %q, use table or json", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	cmd.Flags().StringVarP(&module, "module", "m", "", "Filter topics by module name")
	return cmd
}

func newTopicsGetCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "get <topic-name>",
		Short: "Show details of a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := topics.Manager()
			if err != nil {
				return err
			}
			topic, err := manager.Lookup(args[0])
			if err != nil {
				cmd.PrintErrln("Use 'propertyhub-cli topics list' to see all available topics.")
				return err
			}
			return topics.DisplayTopicDetails(cmd.OutOrStdout(), topic, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	return cmd
}

func newTopicsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <topic-name>",
		Short: "Validate a topic name, and its definition when it is registered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := topicmgr.ValidateName(name); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "❌ Topic name validation failed: %v\n", err)
				return err
			}

			manager, err := topics.Manager()
			if err != nil {
				return err
			}
			topic, ok := manager.Get(name)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "✅ '%s' is a valid topic name (not registered)\n", name)
				return nil
			}
			if err := topicmgr.ValidateDefinition(topic); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "❌ Topic validation failed: %v\n", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Topic '%s' is valid\n", topic.Name())
			fmt.Fprintf(cmd.OutOrStdout(), "   Module: %s\n", topic.Module())
			fmt.Fprintf(cmd.OutOrStdout(), "   Description: %s\n", topic.Description())
			return nil
		},
	}
}
