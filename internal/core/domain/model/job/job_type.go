package job

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Type categorizes the kind of work a job represents.
type Type int

const (
	// TypeUnknown represents an invalid or undefined job type.
	TypeUnknown Type = iota

	// TypeInstallation is on-site installation work.
	TypeInstallation

	// TypeDelivery is transport and drop-off work.
	TypeDelivery

	// TypeMaintenance is servicing of previously installed equipment.
	TypeMaintenance
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		TypeInstallation: "installation",
		TypeDelivery:     "delivery",
		TypeMaintenance:  "maintenance",
	}
}

// TypeFromString parses the wire representation of a job type.
func TypeFromString(s string) (Type, error) {
	for jobType, str := range getTypeStrings() {
		if str == s {
			return jobType, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause(
		"job type",
		fmt.Errorf("%q is not a valid job type", s),
	)
}

// Validate checks if the Type value is valid.
func (t Type) Validate() error {
	if _, ok := getTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("job type", fmt.Errorf("%d is not a valid job type", t))
	}
	return nil
}

// String returns the wire representation of the job type.
func (t Type) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}
