package cli

import (
	"fmt"

	"github.com/ka2n/recview/api/record"
	"github.com/spf13/pflag"
)

type slotFlag struct {
	IsSet bool
	Value record.Slot
}

// String implements pflag.Value.
func (s *slotFlag) String() string {
	return s.Value.String()
}

func (s *slotFlag) Set(value string) error {
	slot, ok := record.SlotFromString(value)
	if !ok {
		return fmt.Errorf("must be one of first, second, third")
	}
	s.Value = slot
	s.IsSet = true
	return nil
}

func (s *slotFlag) Type() string {
	return "slot"
}

var _ pflag.Value = &slotFlag{}
