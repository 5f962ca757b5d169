package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/RailCut/internal/model"
)

// ErrStructureMismatch is matched by every StructureMismatchError.
var ErrStructureMismatch = errors.New("structure mismatch")

// StructureMismatchError reports a piece whose joints and sections do not
// alternate, which means it cannot be fabricated as described.
type StructureMismatchError struct {
	Piece    int // 1-based piece number
	Position int // 1-based position among non-placeholder items, 0 if not applicable
	Reason   string
}

func (e *StructureMismatchError) Error() string {
	if e.Position > 0 {
		return fmt.Sprintf("piece %d, item %d: %s", e.Piece, e.Position, e.Reason)
	}
	return fmt.Sprintf("piece %d: %s", e.Piece, e.Reason)
}

func (e *StructureMismatchError) Is(target error) bool {
	return target == ErrStructureMismatch
}

// checkAlternation verifies that items run Joint, Section, Joint, ...,
// Joint. After this check every section has a joint on both sides.
func checkAlternation(piece int, items []model.StructureItem) error {
	if len(items) == 0 {
		return &StructureMismatchError{Piece: piece, Reason: "piece has no joints or sections"}
	}
	for i, it := range items {
		wantJoint := i%2 == 0
		switch {
		case wantJoint && !it.Type.IsJoint():
			return &StructureMismatchError{Piece: piece, Position: i + 1,
				Reason: fmt.Sprintf("expected a post or link, found %s", it.Type)}
		case !wantJoint && it.Type != model.ItemSection:
			return &StructureMismatchError{Piece: piece, Position: i + 1,
				Reason: fmt.Sprintf("expected a section, found %s", it.Type)}
		}
	}
	if len(items)%2 == 0 {
		return &StructureMismatchError{Piece: piece, Position: len(items),
			Reason: "piece must end with a post or link"}
	}
	return nil
}
