package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"evalgo.org/flightasset/models"
)

// decommissionFilter selects records by their decommissioned flag. By
// default decommissioned records are hidden.
type decommissionFilter struct {
	include bool
	only    bool
}

func (f *decommissionFilter) register(cmd *cobra.Command, plural string) {
	cmd.Flags().BoolVar(&f.include, "include-decommissioned", false, "include decommissioned "+plural)
	cmd.Flags().BoolVar(&f.only, "only-decommissioned", false, "only show decommissioned "+plural)
	cmd.MarkFlagsMutuallyExclusive("include-decommissioned", "only-decommissioned")
}

func (f decommissionFilter) keep(decommissioned bool) bool {
	switch {
	case f.only:
		return decommissioned
	case f.include:
		return true
	}
	return !decommissioned
}

type named interface {
	Name() string
}

func sortByName[T named](records []T) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Name() < records[j].Name()
	})
}

// parseRange reads the four position bounds given on the command line.
// Range validity is left to the server.
func parseRange(args []string) (models.PositionRange, error) {
	labels := []string{"X_START", "X_END", "Y_START", "Y_END"}
	values := make([]int, len(labels))
	for i, label := range labels {
		n, err := strconv.Atoi(strings.TrimSpace(args[i]))
		if err != nil {
			return models.PositionRange{}, models.InputErrorf("%s must be a whole number, got %q", label, args[i])
		}
		values[i] = n
	}
	return models.PositionRange{XStart: values[0], XEnd: values[1], YStart: values[2], YEnd: values[3]}, nil
}

// readInfo returns the additional information given to --info. A leading @
// names a file to read it from.
func readInfo(fs afero.Fs, value string) (string, error) {
	path, ok := strings.CutPrefix(value, "@")
	if !ok {
		return value, nil
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", models.InputErrorf("could not read the info file %s: %v", path, err)
	}
	return string(data), nil
}

func parseCapacity(flag, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, models.InputErrorf("--%s must be a whole number, got %q", flag, value)
	}
	return n, nil
}

func yesNo(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func formatRange(p *models.PositionRange) (x, y string) {
	if p == nil {
		return "", ""
	}
	return fmt.Sprintf("%d - %d", p.XStart, p.XEnd), fmt.Sprintf("%d - %d", p.YStart, p.YEnd)
}

func formatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// nameOf reads the name of a related record, tolerating records the server
// did not sideload.
func nameOf[T named](rec T, err error) (string, error) {
	if err != nil {
		return "", err
	}
	var zero T
	if any(rec) == any(zero) {
		return "", nil
	}
	return rec.Name(), nil
}

// inputArgs reports argument count problems as input errors.
func inputArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &models.InputError{Msg: err.Error()}
		}
		return nil
	}
}
