package cmd

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"code.cloudfoundry.org/taskgraph/graph"
	"code.cloudfoundry.org/taskgraph/internal/loader"
	"code.cloudfoundry.org/taskgraph/validation"
)

var (
	flagValidateNodes   string
	flagValidateCatalog string
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates a node inventory and task catalog without serializing them.",
	Long: `
Runs the catalog-level checks (id shape, uniqueness, group member
references) against a node inventory and task catalog and reports every
violation found, without performing full dependency materialization.
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		flagValidateNodes = viper.GetString("nodes")
		flagValidateCatalog = viper.GetString("catalog")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes, err := loader.LoadNodes(flagValidateNodes)
		if err != nil {
			return err
		}

		tasks, err := loader.LoadCatalog(flagValidateCatalog)
		if err != nil {
			return err
		}

		var result *multierror.Error

		nodeIDs := make([]string, 0, len(nodes))
		for _, n := range nodes {
			result = appendAll(result, validation.ValidateNodeID(n.ID, "nodes["+n.ID+"].id"))
			nodeIDs = append(nodeIDs, n.ID)
		}
		result = appendAll(result, validation.ValidateUniqueIDs(nodeIDs, "nodes.id"))

		taskIDs := make([]string, 0, len(tasks))
		groupMembers := make(map[string][]string)
		for _, t := range tasks {
			taskIDs = append(taskIDs, t.ID)
			if t.Type == graph.TaskTypeGroup {
				groupMembers[t.ID] = t.Tasks
			}
		}
		result = appendAll(result, validation.ValidateCatalog(taskIDs, groupMembers))

		if result == nil {
			fmt.Println("no validation errors found")
			return nil
		}

		fmt.Println(result.Error())
		return fmt.Errorf("%d validation error(s) found", len(result.Errors))
	},
}

// appendAll folds one dimension's ErrorList into the running multierror,
// so validate reports every violation found rather than stopping at the
// first failing check.
func appendAll(result *multierror.Error, errs validation.ErrorList) *multierror.Error {
	for _, e := range errs {
		result = multierror.Append(result, e)
	}
	return result
}

func init() {
	RootCmd.AddCommand(validateCmd)

	validateCmd.PersistentFlags().StringP(
		"nodes", "n", "",
		"Path to the node inventory YAML document.",
	)
	validateCmd.PersistentFlags().StringP(
		"catalog", "c", "",
		"Path to the task catalog YAML document.",
	)

	if err := viper.BindPFlags(validateCmd.PersistentFlags()); err != nil {
		logger.WithError(err).Fatal("failed to bind validate flags")
	}
}
