package bundle

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/mindshard/mindshard-server/component/bundle"
)

func init() {
	Cmd.AddCommand(
		validateCmd,
		hashCmd,
	)
}

var Cmd = &cobra.Command{
	Use:   "bundle",
	Short: "validate and hash adapter bundles",
	Long:  "bundle offers the same validation and manifest hashing the upload endpoint applies, for CI pipelines and scripted publishers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <bundle.zip>",
	Short: "validate an adapter bundle archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		result := bundle.ValidateBundle(data)
		if !result.Valid {
			for _, e := range result.Errors {
				fmt.Fprintln(os.Stderr, e)
			}
			return fmt.Errorf("bundle %s is invalid", args[0])
		}
		fmt.Printf("bundle %s is valid\n", args[0])
		return nil
	},
}

var hashCmd = &cobra.Command{
	Use:   "hash <bundle.zip>",
	Short: "print the manifest hash of an adapter bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		manifest, err := bundle.ExtractManifest(data)
		if err != nil {
			return err
		}
		hash, err := bundle.HashManifest(manifest)
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}
