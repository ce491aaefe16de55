package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"code.cloudfoundry.org/taskgraph/graph"
	"code.cloudfoundry.org/taskgraph/internal/dotgraph"
	"code.cloudfoundry.org/taskgraph/internal/loader"
	"code.cloudfoundry.org/taskgraph/internal/serializers"
	"code.cloudfoundry.org/taskgraph/internal/writer"
)

var (
	flagSerializeNodes   string
	flagSerializeCatalog string
	flagSerializeCluster string
	flagSerializeOutput  string
	flagSerializeTasks   []string
	flagSerializeGraph   string
)

// serializeCmd represents the serialize command
var serializeCmd = &cobra.Command{
	Use:   "serialize",
	Short: "Serializes a node inventory and a task catalog into a per-node execution graph.",
	Long: `
Loads a cluster handle, a node inventory, and a task catalog, drives them
through role resolution, chain expansion, group expansion, and dependency
materialization, and writes one JSON file per node under the output
directory.
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		flagSerializeNodes = viper.GetString("nodes")
		flagSerializeCatalog = viper.GetString("catalog")
		flagSerializeCluster = viper.GetString("cluster")
		flagSerializeOutput = viper.GetString("output")
		flagSerializeTasks = viper.GetStringSlice("task")
		flagSerializeGraph = viper.GetString("graph")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cluster, err := loader.LoadCluster(flagSerializeCluster)
		if err != nil {
			return err
		}

		nodes, err := loader.LoadNodes(flagSerializeNodes)
		if err != nil {
			return err
		}

		tasks, err := loader.LoadCatalog(flagSerializeCatalog)
		if err != nil {
			return err
		}

		registry := graph.NewRegistry()
		serializers.Register(registry)

		placements, err := graph.Serialize(graph.Config{
			Registry: registry,
			Logger:   logger,
		}, cluster, nodes, tasks, flagSerializeTasks)
		if err != nil {
			return err
		}

		if err := writer.WriteNodes(flagSerializeOutput, placements); err != nil {
			return err
		}

		if flagSerializeGraph != "" {
			if err := dotgraph.Render(flagSerializeGraph, placements); err != nil {
				return err
			}
		}

		return nil
	},
}

func init() {
	RootCmd.AddCommand(serializeCmd)

	serializeCmd.PersistentFlags().StringP(
		"nodes", "n", "",
		"Path to the node inventory YAML document.",
	)
	serializeCmd.PersistentFlags().StringP(
		"catalog", "c", "",
		"Path to the task catalog YAML document.",
	)
	serializeCmd.PersistentFlags().String(
		"cluster", "",
		"Path to the cluster handle YAML document (optional).",
	)
	serializeCmd.PersistentFlags().StringP(
		"output", "o", "./output",
		"Directory to write the per-node JSON graph to.",
	)
	serializeCmd.PersistentFlags().StringSlice(
		"task", nil,
		"Restrict serialization to this task id (repeatable). Unlisted tasks are still placed, but recorded as skipped.",
	)
	serializeCmd.PersistentFlags().String(
		"graph", "",
		"If set, also write a Graphviz dot file of the serialized graph to this path.",
	)

	if err := viper.BindPFlags(serializeCmd.PersistentFlags()); err != nil {
		logger.WithError(err).Fatal("failed to bind serialize flags")
	}
}
