package enums

import "fmt"

// NotificationVariant styles a user-facing toast.
type NotificationVariant string

const (
	NotificationVariantDefault     NotificationVariant = "default"
	NotificationVariantDestructive NotificationVariant = "destructive"
)

var validNotificationVariants = []NotificationVariant{
	NotificationVariantDefault,
	NotificationVariantDestructive,
}

// String implements fmt.Stringer.
func (v NotificationVariant) String() string {
	return string(v)
}

// IsValid reports whether the value is a known NotificationVariant.
func (v NotificationVariant) IsValid() bool {
	for _, candidate := range validNotificationVariants {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseNotificationVariant converts raw input into a NotificationVariant.
func ParseNotificationVariant(value string) (NotificationVariant, error) {
	for _, candidate := range validNotificationVariants {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification variant %q", value)
}
