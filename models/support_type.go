package models

import (
	"fmt"
	"strings"
)

// SupportType is the support level of an asset.
type SupportType string

const (
	SupportManaged       SupportType = "managed"
	SupportAdvice        SupportType = "advice"
	SupportCollaborative SupportType = "collaborative"
	SupportInherit       SupportType = "inherit"
)

// SupportTypes lists the accepted support types.
var SupportTypes = []SupportType{SupportManaged, SupportAdvice, SupportCollaborative, SupportInherit}

// ParseSupportType validates user input.
func ParseSupportType(s string) (SupportType, error) {
	for _, t := range SupportTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	names := make([]string, len(SupportTypes))
	for i, t := range SupportTypes {
		names[i] = string(t)
	}
	return "", InputErrorf("unrecognised support type %q, expected one of: %s", s, strings.Join(names, ","))
}

func (s SupportType) String() string { return string(s) }

// Describe renders a support type for display, marking inherited values when
// asked to.
func Describe(supportType string, inherited, distinguish bool) string {
	if distinguish && inherited {
		return fmt.Sprintf("%s (inherited)", supportType)
	}
	return supportType
}
