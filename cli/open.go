package cli

import (
	"fmt"

	"github.com/ka2n/recview/api/record"
	"github.com/morikuni/failure/v2"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var (
	slotTarget slotFlag

	openCmd = &cobra.Command{
		Use:   "open <index>",
		Short: "Open an image of a record in the browser",
		Args:  cobra.ExactArgs(1),
		RunE:  runOpen,
	}
)

func init() {
	openCmd.Flags().VarP(&slotTarget, "slot", "s", "Image slot to open: first, second or third")
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	s, err := newService(cmd, nil)
	if err != nil {
		return err
	}
	rec, err := recordAt(s.Records(), args[0])
	if err != nil {
		return err
	}

	slot := record.SlotFirst
	if slotTarget.IsSet {
		slot = slotTarget.Value
	}

	loc := rec.Image(slot)
	if loc == nil {
		return failure.New(EmptySlot,
			failure.Message(fmt.Sprintf("Record has no %s image", slot)),
			failure.Context{"index": args[0], "slot": slot.String()},
		)
	}

	fmt.Printf("Opening image in browser: %s\n", loc)
	return browser.OpenURL(loc.String())
}
