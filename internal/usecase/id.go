package usecase

import (
	"fmt"
	"strings"

	uuid "github.com/google/uuid"
)

// newBusinessID builds a human-readable identifier such as SUB-9F2C41AB.
// Assigned once at creation and never regenerated.
func newBusinessID(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(raw[:8]))
}
