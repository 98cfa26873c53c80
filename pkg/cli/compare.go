package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/releasewatch/pkg/domain/model"
)

func cmdCompare() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "Show how two version tags are ordered",
		ArgsUsage: "OLD NEW",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 2 {
				return goerr.New("compare takes exactly two versions", goerr.V("args", c.Args().Slice()))
			}
			oldVer, newVer := c.Args().Get(0), c.Args().Get(1)

			ordering := model.CompareVersions(oldVer, newVer)

			var label string
			switch ordering {
			case model.VersionOlder:
				label = color.GreenString("upgrade")
			case model.VersionNewer:
				label = color.YellowString("downgrade")
			case model.VersionSame:
				label = color.CyanString("no change")
			default:
				label = color.RedString("incomparable")
			}

			_, err := fmt.Fprintf(c.Root().Writer, "%s -> %s: %s (%s)\n", oldVer, newVer, label, ordering)
			return err
		},
	}
}
