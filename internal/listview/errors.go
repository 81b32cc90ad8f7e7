package listview

import (
	"fmt"

	"github.com/robinovitch61/vl/internal/model"
)

// InconsistentModelNotificationError is a change that does not fit the model size the view tracks. The view
// recovers by rebuilding from the model
type InconsistentModelNotificationError struct {
	Change     model.Change
	Count      int
	ModelCount int
}

func (e *InconsistentModelNotificationError) Error() string {
	return fmt.Sprintf("inconsistent model notification %s: tracked count %d, model count %d", e.Change, e.Count, e.ModelCount)
}
