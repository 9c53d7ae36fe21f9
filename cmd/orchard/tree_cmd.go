package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/orchard/feature"
	fjson "github.com/pbanos/orchard/feature/json"
	"github.com/pbanos/orchard/feature/yaml"
	"github.com/pbanos/orchard/tree"
	tjson "github.com/pbanos/orchard/tree/json"
	"github.com/spf13/cobra"
)

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show rule trees",
		Long:  `Show a rule tree written by the mine command with the tree-output flag`,
		Run: func(cmd *cobra.Command, args []string) {
			v := rootConfig.v
			if v.GetString("tree") == "" || v.GetString("metadata") == "" {
				rootConfig.fail(1, fmt.Errorf("required tree and metadata flags must be set"), "Invalid arguments")
			}
			features, err := yaml.ReadFeaturesFromFile(v.GetString("metadata"))
			if err != nil {
				rootConfig.fail(2, err, "Reading metadata failed")
			}
			t, err := loadTree(context.Background(), v.GetString("tree"), features)
			if err != nil {
				rootConfig.fail(3, err, "Reading tree failed")
			}
			fmt.Fprint(cmd.OutOrStdout(), t)
		},
	}
	cmd.Flags().StringP("tree", "t", "", "path to a file from which the tree to show will be read and parsed as JSON (required)")
	cmd.Flags().StringP("metadata", "m", "", "path to a YML file with metadata describing the features used on the tree (required)")
	return cmd
}

func loadTree(ctx context.Context, filepath string, features []feature.Feature) (*tree.Tree, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading tree in JSON from %s: %v", filepath, err)
	}
	defer f.Close()
	t := &tree.Tree{NodeStore: tree.NewMemoryNodeStore()}
	ned := tjson.NewNodeEncodeDecoder(fjson.NewCriteriaEncodeDecoder(features), features)
	err = tjson.ReadJSONTree(ctx, t, ned, features, f)
	if err != nil {
		err = fmt.Errorf("parsing tree in JSON from %s: %v", filepath, err)
	}
	return t, err
}
