package license

import (
	"errors"
	"fmt"
)

// ErrLicenseLimitReached is the match target for admission rejections:
// errors.Is(err, ErrLicenseLimitReached). The concrete error is always a
// *LimitError carrying the counts.
var ErrLicenseLimitReached = errors.New("license limit reached")

// LimitError reports a full seat pool. It is a business-state failure, not a
// transient one: retrying without purchasing more seats cannot succeed.
type LimitError struct {
	Class     Class
	Used      int
	Purchased int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("license limit reached: %s seats %d/%d in use", e.Class, e.Used, e.Purchased)
}

func (e *LimitError) Is(target error) bool {
	return target == ErrLicenseLimitReached
}
