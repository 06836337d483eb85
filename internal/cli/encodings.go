package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/greatbody/convert-encoding/internal/charset"
	"github.com/greatbody/convert-encoding/internal/detector"
)

func newEncodingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encodings",
		Short: "List supported encodings, their aliases and detection priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			color, _ := cmd.Flags().GetString("color")
			setColor(color, cmd.OutOrStdout())

			rank := make(map[charset.Encoding]int)
			for i, e := range detector.DefaultPriority {
				rank[e] = i + 1
			}
			rows := make([][]string, 0, len(charset.All()))
			for _, e := range charset.All() {
				bom := "-"
				if b := e.BOM(); len(b) > 0 {
					bom = fmt.Sprintf("% X", b)
				}
				rows = append(rows, []string{
					e.String(),
					e.Family().String(),
					fmt.Sprint(rank[e]),
					bom,
					strings.Join(e.Aliases(), ", "),
				})
			}
			return renderTable(cmd.OutOrStdout(), []string{"Encoding", "Family", "Priority", "BOM", "Aliases"}, rows)
		},
	}
}
