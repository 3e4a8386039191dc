package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"patchwork.dev/launcher/pkg/game/instance"
	"patchwork.dev/launcher/pkg/game/migrator"
	"patchwork.dev/launcher/pkg/meta"
)

var instanceMetaURL string

var instanceCmd = &cobra.Command{
	Use:   "instance",
	Short: "Manage an instance's component list",
	Long: `Manage an instance's component list: the ordered set of patches (base game,
native bindings, mod loader, jar mods, custom jar) that make up a launch profile.`,
}

func openComponentList(root string) (*instance.ComponentList, error) {
	var index meta.Index
	if instanceMetaURL != "" {
		index = meta.NewHTTPIndex(instanceMetaURL)
	} else {
		index = meta.NewMemoryIndex()
	}

	if !instance.ManifestExists(root) {
		if err := migrator.Migrate(root, index, nil); err != nil {
			return nil, fmt.Errorf("migrate legacy layout: %w", err)
		}
	}

	list := instance.New(root, index)
	if err := list.Load(); err != nil {
		return nil, fmt.Errorf("load component list: %w", err)
	}
	return list, nil
}

var instanceListCmd = &cobra.Command{
	Use:   "list <root>",
	Short: "List an instance's components",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := openComponentList(args[0])
		if err != nil {
			return err
		}

		for i := 0; i < list.RowCount(); i++ {
			fmt.Printf("[%2d] %-30s %s\n", i, list.Data(i, 0), list.Data(i, 1))
		}
		return nil
	},
}

var instanceRemoveCmd = &cobra.Command{
	Use:   "remove <root> <uid>",
	Short: "Remove a component by uid",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := openComponentList(args[0])
		if err != nil {
			return err
		}
		if !list.RemoveUID(args[1]) {
			return fmt.Errorf("component %q could not be removed (not found or not removable)", args[1])
		}
		return list.Close()
	},
}

var instanceCustomizeCmd = &cobra.Command{
	Use:   "customize <root> <row>",
	Short: "Detach a component's patch file from its remote base",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := openComponentList(args[0])
		if err != nil {
			return err
		}
		row, err := parseRow(args[1])
		if err != nil {
			return err
		}
		if !list.Customize(row) {
			return fmt.Errorf("row %d could not be customized", row)
		}
		return list.Close()
	},
}

var instanceRevertCmd = &cobra.Command{
	Use:   "revert <root> <row>",
	Short: "Revert a customized component back to its remote base",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := openComponentList(args[0])
		if err != nil {
			return err
		}
		row, err := parseRow(args[1])
		if err != nil {
			return err
		}
		if !list.RevertToBase(row) {
			return fmt.Errorf("row %d could not be reverted", row)
		}
		return list.Close()
	},
}

var instanceRevertVanillaCmd = &cobra.Command{
	Use:   "revert-vanilla <root>",
	Short: "Revert or remove every non-vanilla component",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := openComponentList(args[0])
		if err != nil {
			return err
		}
		if err := list.RevertToVanilla(); err != nil {
			return err
		}
		return list.Close()
	},
}

var instanceMoveCmd = &cobra.Command{
	Use:   "move <root> <row> <up|down>",
	Short: "Move a component up or down in the list",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := openComponentList(args[0])
		if err != nil {
			return err
		}
		row, err := parseRow(args[1])
		if err != nil {
			return err
		}
		var dir instance.Direction
		switch args[2] {
		case "up":
			dir = instance.Up
		case "down":
			dir = instance.Down
		default:
			return fmt.Errorf("direction must be \"up\" or \"down\", got %q", args[2])
		}
		if !list.Move(row, dir) {
			return fmt.Errorf("row %d could not be moved %s", row, args[2])
		}
		return list.Close()
	},
}

var instanceInstallJarModCmd = &cobra.Command{
	Use:   "install-jarmod <root> <jar...>",
	Short: "Install one or more jar mods into an instance",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := openComponentList(args[0])
		if err != nil {
			return err
		}
		uids, err := list.InstallJarMods(args[1:])
		if err != nil {
			return err
		}
		for _, uid := range uids {
			fmt.Println(uid)
		}
		return list.Close()
	},
}

var instanceInstallCustomJarCmd = &cobra.Command{
	Use:   "install-customjar <root> <jar>",
	Short: "Install a custom main jar into an instance",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := openComponentList(args[0])
		if err != nil {
			return err
		}
		uid, err := list.InstallCustomJar(args[1])
		if err != nil {
			return err
		}
		fmt.Println(uid)
		return list.Close()
	},
}

func parseRow(s string) (int, error) {
	var row int
	if _, err := fmt.Sscanf(s, "%d", &row); err != nil {
		return 0, fmt.Errorf("invalid row index %q: %w", s, err)
	}
	return row, nil
}

func init() {
	instanceCmd.PersistentFlags().StringVar(&instanceMetaURL, "meta-url", "", "Base URL of the metadata index server (offline if empty)")

	instanceCmd.AddCommand(instanceListCmd)
	instanceCmd.AddCommand(instanceRemoveCmd)
	instanceCmd.AddCommand(instanceCustomizeCmd)
	instanceCmd.AddCommand(instanceRevertCmd)
	instanceCmd.AddCommand(instanceRevertVanillaCmd)
	instanceCmd.AddCommand(instanceMoveCmd)
	instanceCmd.AddCommand(instanceInstallJarModCmd)
	instanceCmd.AddCommand(instanceInstallCustomJarCmd)

	rootCmd.AddCommand(instanceCmd)
}
